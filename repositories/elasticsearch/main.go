package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/mitchellh/mapstructure"

	"primerdesign/api/models/indexes"
)

// EnsureIndices creates the sequences and designs indices with their
// mappings when they do not exist yet.
func EnsureIndices(ctx context.Context, es *es7.Client) error {
	for index, mapping := range map[string]map[string]interface{}{
		indexes.SequencesIndex: indexes.SEQUENCE_INDEX_MAPPING,
		indexes.DesignsIndex:   indexes.DESIGN_INDEX_MAPPING,
	} {
		exists, err := es.Indices.Exists([]string{index}, es.Indices.Exists.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("checking index %s: %w", index, err)
		}
		exists.Body.Close()
		if exists.StatusCode == http.StatusOK {
			continue
		}

		body, err := encode(map[string]interface{}{"mappings": mapping})
		if err != nil {
			return err
		}
		res, err := es.Indices.Create(index, es.Indices.Create.WithBody(body), es.Indices.Create.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("creating index %s: %w", index, err)
		}
		if _, err := decodeResponse(res); err != nil {
			return fmt.Errorf("creating index %s: %w", index, err)
		}
	}
	return nil
}

func encode(v interface{}) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("encoding elasticsearch body: %w", err)
	}
	return &buf, nil
}

// decodeResponse closes res and returns its JSON body, or an error built
// from the status line and the elasticsearch error reason.
func decodeResponse(res *esapi.Response) (map[string]interface{}, error) {
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	result := make(map[string]interface{})
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, fmt.Errorf("unmarshalling %s response: %w", res.Status(), err)
		}
	}

	if res.IsError() {
		reason := strings.TrimSpace(string(raw))
		if e, ok := result["error"].(map[string]interface{}); ok {
			reason = fmt.Sprintf("%v: %v", e["type"], e["reason"])
		}
		return result, &ResponseError{Status: res.StatusCode, Reason: reason}
	}
	return result, nil
}

type ResponseError struct {
	Status int
	Reason string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("elasticsearch returned %d: %s", e.Status, e.Reason)
}

// decodeHits maps hits.hits[]._source of a search response into out, which
// must be a pointer to a slice.
func decodeHits(result map[string]interface{}, out interface{}) error {
	hits, _ := result["hits"].(map[string]interface{})
	allDocHits := []map[string]interface{}{}
	if err := mapstructure.Decode(hits["hits"], &allDocHits); err != nil {
		return err
	}

	sources := make([]interface{}, 0, len(allDocHits))
	for _, hit := range allDocHits {
		sources = append(sources, hit["_source"])
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		Result:     out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(sources)
}
