// Package search fuses semantic and keyword retrieval into one ranked,
// visibility-filtered page.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/findex/internal/domain"
	"github.com/kailas-cloud/findex/internal/domain/search/request"
	"github.com/kailas-cloud/findex/internal/domain/search/result"
	"github.com/kailas-cloud/findex/internal/metrics"
	"github.com/kailas-cloud/findex/internal/usecase/visibility"
)

// candidateHeadroom multiplies the page limit when fetching per-channel
// candidates, so fusion has enough overlap to rank across channels.
const candidateHeadroom = 2

// Resolver computes the caller's effective visibility tiers.
type Resolver interface {
	Resolve(auth visibility.Context, requested []domain.Tier) domain.TierSet
}

// Service orchestrates a hybrid search request end to end.
type Service struct {
	semantic  SemanticStore
	keyword   KeywordStore
	counts    CountStore
	embed     Embedder
	tiers     Resolver
	analytics AnalyticsRecorder
	logger    *zap.Logger
}

// New creates a search service.
func New(
	semantic SemanticStore,
	keyword KeywordStore,
	counts CountStore,
	embed Embedder,
	tiers Resolver,
	analytics AnalyticsRecorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		semantic:  semantic,
		keyword:   keyword,
		counts:    counts,
		embed:     embed,
		tiers:     tiers,
		analytics: analytics,
		logger:    logger,
	}
}

// Search runs the full pipeline: visibility resolution, query embedding,
// concurrent semantic/keyword/count retrieval, score fusion and pagination.
//
// A blank query or an empty effective visibility set returns an empty page
// immediately, with zero backend and embedding calls. Any backend failure
// fails the whole call — there is no partial-result path.
func (s *Service) Search(
	ctx context.Context, req *request.Request, auth visibility.Context,
) (result.Page, error) {
	if strings.TrimSpace(req.Query()) == "" {
		return result.EmptyPage(req.Limit(), req.Offset()), nil
	}

	allowed := s.tiers.Resolve(auth, req.Filters().Visibility())
	if allowed.IsEmpty() {
		s.logger.Debug("Requested visibility outside allowed tiers, returning empty page")
		return result.EmptyPage(req.Limit(), req.Offset()), nil
	}

	start := time.Now()

	vector, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		return result.Page{}, fmt.Errorf("embed query: %w", err)
	}

	// Fetch deep enough that fusion can still fill the requested window.
	depth := candidateHeadroom*req.Limit() + req.Offset()

	var (
		semantic []result.SemanticCandidate
		keyword  []result.KeywordCandidate
		total    int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		semantic, err = s.semantic.Query(gctx, vector, allowed, req.Filters(), depth, 0)
		if err != nil {
			return fmt.Errorf("semantic query: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		keyword, err = s.keyword.Query(gctx, req.Query(), allowed, req.Filters(), depth, 0)
		if err != nil {
			return fmt.Errorf("keyword query: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.counts.Count(gctx, allowed, req.Filters())
		if err != nil {
			return fmt.Errorf("count query: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return result.Page{}, err
	}

	items := fuse(semantic, keyword, req.Limit(), req.Offset())
	duration := time.Since(start)

	page := result.Page{
		Items:  items,
		Total:  total,
		Limit:  req.Limit(),
		Offset: req.Offset(),
	}

	metrics.SearchDuration.Observe(duration.Seconds())
	if s.analytics != nil {
		s.analytics.Record(Event{
			Query:       req.Query(),
			ResultCount: len(items),
			Total:       total,
			Duration:    duration,
			Filters:     req.Filters(),
			Tiers:       allowed.Slice(),
		})
	}

	s.logger.Debug("Search completed",
		zap.Int("semantic_candidates", len(semantic)),
		zap.Int("keyword_candidates", len(keyword)),
		zap.Int("results", len(items)),
		zap.Int("total", total),
		zap.Duration("duration", duration),
	)

	return page, nil
}
