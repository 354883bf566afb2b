package services

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esutil"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"primerdesign/api/models"
	"primerdesign/api/models/indexes"
)

// ArchiveService bulk-indexes finished designs into the designs index.
type ArchiveService struct {
	indexer esutil.BulkIndexer
	logger  *zap.Logger
}

func NewArchiveService(es *es7.Client, logger *zap.Logger) (*ArchiveService, error) {
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         indexes.DesignsIndex,
		Client:        es,
		NumWorkers:    1,
		FlushInterval: 2 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	return &ArchiveService{indexer: bi, logger: logger.Named("archive")}, nil
}

// Archive queues result for indexing and returns immediately.
func (a *ArchiveService) Archive(_ context.Context, result *models.DesignResult, params models.DesignParameters) {
	doc := indexes.DesignDocument{
		Id:             uuid.New().String(),
		Identifier:     result.Identifier,
		Source:         result.Source,
		SequenceLength: result.SequenceLength,
		Parameters:     params,
		Designs:        result.Designs,
		Summary:        result.Summary,
		CreatedTime:    time.Now().UTC(),
	}

	data, err := json.Marshal(doc)
	if err != nil {
		a.logger.Error("cannot encode design document", zap.String("identifier", doc.Identifier), zap.Error(err))
		return
	}

	err = a.indexer.Add(context.Background(), esutil.BulkIndexerItem{
		Action:     "index",
		DocumentID: doc.Id,
		Body:       bytes.NewReader(data),
		OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
			if err != nil {
				a.logger.Warn("design archive failed", zap.String("document", item.DocumentID), zap.Error(err))
				return
			}
			a.logger.Warn("design archive failed", zap.String("document", item.DocumentID),
				zap.String("type", res.Error.Type), zap.String("reason", res.Error.Reason))
		},
	})
	if err != nil {
		a.logger.Warn("design archive rejected", zap.String("identifier", doc.Identifier), zap.Error(err))
	}
}

func (a *ArchiveService) Stats() esutil.BulkIndexerStats {
	return a.indexer.Stats()
}

// Close flushes pending documents.
func (a *ArchiveService) Close(ctx context.Context) error {
	return a.indexer.Close(ctx)
}
