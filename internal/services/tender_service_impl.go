package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sedhub/tender-insight-api/internal/ai"
	"github.com/sedhub/tender-insight-api/internal/cache"
	"github.com/sedhub/tender-insight-api/internal/logger"
	"github.com/sedhub/tender-insight-api/internal/tenders"
	"github.com/sedhub/tender-insight-api/pkg/config"
)

// tenderServiceImpl implements TenderService
type tenderServiceImpl struct {
	client     *tenders.Client
	summarizer *ai.Summarizer
	cache      cache.Cache
	summaryTTL time.Duration
	logger     logger.Logger
}

// newTenderService creates a new tender service implementation
func newTenderService(store cache.Cache, cfg *config.Config) TenderService {
	var summarizer *ai.Summarizer
	if cfg.HasAICredentials() {
		summarizer = ai.NewSummarizer(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
	}

	return &tenderServiceImpl{
		client:     tenders.NewClient(cfg.ETendersBaseURL, 2),
		summarizer: summarizer,
		cache:      store,
		summaryTTL: cfg.SummaryCacheTTL,
		logger:     logger.NewSimpleLogger(),
	}
}

// Search queries the tender portal
func (s *tenderServiceImpl) Search(ctx context.Context, tenantID uuid.UUID, query tenders.Query) ([]tenders.Tender, error) {
	results, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("tender search failed: %w", err)
	}
	return results, nil
}

// Summarize returns a plain-language summary of a tender document, cached
// per tenant for a day since tender text rarely changes once published.
func (s *tenderServiceImpl) Summarize(ctx context.Context, tenantID uuid.UUID, tenderID, text string) (string, error) {
	if s.summarizer == nil {
		return "", fmt.Errorf("summarization is not configured")
	}

	key := cache.SummaryKey(tenderID)
	if cached, ok := s.cache.Get(ctx, tenantID.String(), key); ok {
		return cached, nil
	}

	summary, err := s.summarizer.Summarize(ctx, text)
	if err != nil {
		return "", fmt.Errorf("summarization failed: %w", err)
	}

	s.cache.Set(ctx, tenantID.String(), key, summary, s.summaryTTL)

	return summary, nil
}
