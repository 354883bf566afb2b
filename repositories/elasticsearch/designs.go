package elasticsearch

import (
	"context"
	"fmt"

	es7 "github.com/elastic/go-elasticsearch/v7"

	"primerdesign/api/models"
	"primerdesign/api/models/indexes"
)

// GetDesignHistory returns archived designs, newest first. An empty
// identifier matches every archived design.
func GetDesignHistory(ctx context.Context, cfg *models.Config, es *es7.Client, identifier string, size int) ([]indexes.DesignDocument, error) {
	query := map[string]interface{}{"match_all": map[string]interface{}{}}
	if identifier != "" {
		query = map[string]interface{}{
			"term": map[string]interface{}{
				"identifier.keyword": identifier,
			},
		}
	}

	body, err := encode(map[string]interface{}{
		"query": query,
		"size":  size,
		"sort": []map[string]interface{}{
			{"createdTime": map[string]interface{}{"order": "desc"}},
		},
	})
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		fmt.Println(body.String())
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(indexes.DesignsIndex),
		es.Search.WithBody(body),
		es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, err
	}
	result, err := decodeResponse(res)
	if err != nil {
		return nil, err
	}

	docs := make([]indexes.DesignDocument, 0)
	if err := decodeHits(result, &docs); err != nil {
		return nil, fmt.Errorf("decoding design history: %w", err)
	}
	return docs, nil
}
