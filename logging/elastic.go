package logging

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ElasticBackend indexes events as documents in an Elasticsearch index.
// Delivery is best effort: callers of the sink never see these errors.
type ElasticBackend struct {
	client *resty.Client
	index  string
	logger *zap.Logger
}

func NewElasticBackend(baseURL, user, pass, index string, logger *zap.Logger) *ElasticBackend {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if user != "" {
		client.SetBasicAuth(user, pass)
	}

	return &ElasticBackend{
		client: client,
		index:  index,
		logger: logger,
	}
}

func (b *ElasticBackend) Name() string { return "elastic" }

func (b *ElasticBackend) Write(ctx context.Context, e Event) error {
	doc := map[string]any{
		"timestamp": e.Time.Format(time.RFC3339Nano),
		"level":     "info",
		"message":   e.Name,
		"event_id":  e.ID,
	}
	for k, v := range e.Fields {
		doc[k] = v
	}

	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(doc).
		Post(fmt.Sprintf("/%s/_doc", b.index))
	if err != nil {
		return fmt.Errorf("index event: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("index event: unexpected status %d", resp.StatusCode())
	}
	return nil
}
