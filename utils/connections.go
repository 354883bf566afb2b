package utils

import (
	"time"

	"github.com/cenkalti/backoff"
	es7 "github.com/elastic/go-elasticsearch/v7"
	"go.uber.org/zap"

	"primerdesign/api/models"
)

// CreateEsConnection returns nil, nil when no Elasticsearch url is
// configured; persistence is optional.
func CreateEsConnection(cfg *models.Config, logger *zap.Logger) (*es7.Client, error) {
	if len(cfg.Elasticsearch.Url) == 0 {
		return nil, nil
	}

	var (
		clusterURLs  = []string{cfg.Elasticsearch.Url}
		retryBackoff = backoff.NewExponentialBackOff()
	)

	esCfg := es7.Config{
		Addresses: clusterURLs,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,

		RetryOnStatus: []int{502, 503, 504, 429},

		// Configure the backoff function
		//
		RetryBackoff: func(i int) time.Duration {
			if i == 1 {
				retryBackoff.Reset()
			}
			return retryBackoff.NextBackOff()
		},

		// Retry up to 5 attempts
		//
		MaxRetries: 5,
	}

	es7Client, err := es7.NewClient(esCfg)
	if err != nil {
		return nil, err
	}

	logger.Info("using elasticsearch client", zap.String("version", es7.Version), zap.String("url", cfg.Elasticsearch.Url))

	return es7Client, nil
}
