package elasticsearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/mitchellh/mapstructure"

	"primerdesign/api/models"
	"primerdesign/api/models/indexes"
)

func GetSequenceDocument(ctx context.Context, es *es7.Client, identifier string) (*indexes.SequenceDocument, error) {
	res, err := es.Get(indexes.SequencesIndex, identifier, es.Get.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	result, err := decodeResponse(res)
	if err != nil {
		var respErr *ResponseError
		if errors.As(err, &respErr) && respErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	if found, _ := result["found"].(bool); !found {
		return nil, nil
	}

	var doc indexes.SequenceDocument
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		Result:     &doc,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(result["_source"]); err != nil {
		return nil, fmt.Errorf("decoding sequence document %s: %w", identifier, err)
	}
	return &doc, nil
}

func IndexSequenceDocument(ctx context.Context, es *es7.Client, doc indexes.SequenceDocument) error {
	body, err := encode(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      indexes.SequencesIndex,
		DocumentID: doc.Identifier,
		Body:       body,
	}
	res, err := req.Do(ctx, es)
	if err != nil {
		return err
	}
	_, err = decodeResponse(res)
	return err
}

// DeleteSequencesOlderThan removes sequence documents created before cutoff
// and returns how many were deleted.
func DeleteSequencesOlderThan(ctx context.Context, cfg *models.Config, es *es7.Client, cutoff time.Time) (int, error) {
	body, err := encode(map[string]interface{}{
		"query": map[string]interface{}{
			"range": map[string]interface{}{
				"createdTime": map[string]interface{}{
					"lt": cutoff.UTC().Format(time.RFC3339),
				},
			},
		},
	})
	if err != nil {
		return 0, err
	}
	if cfg.Debug {
		fmt.Println(body.String())
	}

	res, err := es.DeleteByQuery([]string{indexes.SequencesIndex}, body, es.DeleteByQuery.WithContext(ctx))
	if err != nil {
		return 0, err
	}
	result, err := decodeResponse(res)
	if err != nil {
		return 0, err
	}

	deleted, _ := result["deleted"].(float64)
	return int(deleted), nil
}

// SequenceStore backs the sequence cache with the sequences index.
type SequenceStore struct {
	es *es7.Client
}

func NewSequenceStore(es *es7.Client) *SequenceStore {
	return &SequenceStore{es: es}
}

func (s *SequenceStore) GetSequence(ctx context.Context, identifier string) (models.Sequence, bool, error) {
	doc, err := GetSequenceDocument(ctx, s.es, identifier)
	if err != nil || doc == nil {
		return "", false, err
	}
	return models.Sequence(doc.Sequence), true, nil
}

func (s *SequenceStore) StoreSequence(ctx context.Context, identifier string, seq models.Sequence) error {
	return IndexSequenceDocument(ctx, s.es, indexes.SequenceDocument{
		Identifier:  identifier,
		Sequence:    string(seq),
		Length:      len(seq),
		CreatedTime: time.Now().UTC(),
	})
}
