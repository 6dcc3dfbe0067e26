package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inspire/internal/adapter/award"
	"inspire/internal/adapter/retriever"
	"inspire/internal/domain"
	"inspire/internal/port"
)

var (
	// ErrEmptyQuery means the raw query holds no usable text. No index call
	// is made.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrIndexUnavailable means the similarity search itself failed or timed
	// out. Distinct from an empty result, which is normal data.
	ErrIndexUnavailable = errors.New("similarity index unavailable")
)

// RetrieveOptions tunes the pipeline. Zero values fall back to the documented
// defaults.
type RetrieveOptions struct {
	FetchK     int           // broad knn pool size before filtering
	FinalK     int           // output result limit
	DedupLimit int           // distinct projects kept for the reranker
	Timeout    time.Duration // applies to the embedding + index call
}

func (o *RetrieveOptions) normalize() {
	if o.FetchK <= 0 {
		o.FetchK = 500
	}
	if o.FinalK <= 0 {
		o.FinalK = 5
	}
	if o.DedupLimit <= 0 {
		// Keep the reranker a real choice: several times the output size.
		o.DedupLimit = o.FinalK * 4
	}
}

// RetrieveUseCase is the retrieval pipeline: parse the query, fetch a broad
// candidate pool, filter by award, deduplicate by project, diversify with
// MMR, truncate. One call shares no state with any other call.
type RetrieveUseCase struct {
	retriever port.Retriever
	parser    *award.Parser
	matcher   *award.Matcher
	reranker  port.DiversityReranker
	opts      RetrieveOptions
}

// NewRetrieveUseCase creates the pipeline.
func NewRetrieveUseCase(
	r port.Retriever,
	parser *award.Parser,
	matcher *award.Matcher,
	reranker port.DiversityReranker,
	opts RetrieveOptions,
) *RetrieveUseCase {
	opts.normalize()
	return &RetrieveUseCase{
		retriever: r,
		parser:    parser,
		matcher:   matcher,
		reranker:  reranker,
		opts:      opts,
	}
}

// Retrieve runs the pipeline for one raw query. An empty return with a nil
// error means nothing matched; the generation layer must answer "no
// information available" rather than guess.
func (u *RetrieveUseCase) Retrieve(ctx context.Context, rawQuery string) ([]domain.Result, error) {
	query, err := u.parseQuery(rawQuery)
	if err != nil {
		return nil, err
	}

	candidates, err := u.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	matched := u.filterByAward(query, candidates)
	if len(matched) == 0 {
		return nil, nil
	}

	deduped := retriever.DedupeByProject(matched, u.opts.DedupLimit)
	selected := u.reranker.Rerank(deduped, u.opts.FinalK)

	return toResults(selected), nil
}

// RetrieveWithoutDiversity skips the MMR stage (for debugging and tuning).
func (u *RetrieveUseCase) RetrieveWithoutDiversity(ctx context.Context, rawQuery string) ([]domain.Result, error) {
	query, err := u.parseQuery(rawQuery)
	if err != nil {
		return nil, err
	}

	candidates, err := u.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	matched := u.filterByAward(query, candidates)
	if len(matched) == 0 {
		return nil, nil
	}

	deduped := retriever.DedupeByProject(matched, u.opts.FinalK)
	return toResults(deduped), nil
}

func (u *RetrieveUseCase) parseQuery(rawQuery string) (domain.Query, error) {
	if strings.TrimSpace(rawQuery) == "" {
		return domain.Query{}, ErrEmptyQuery
	}

	query := u.parser.Parse(rawQuery)
	if query.Text == "" {
		return domain.Query{}, ErrEmptyQuery
	}
	return query, nil
}

// fetch performs the single broad index call. The pool is deliberately much
// larger than the output so that rare awards still have matches left after
// filtering.
func (u *RetrieveUseCase) fetch(ctx context.Context, query domain.Query) ([]domain.Candidate, error) {
	if u.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.opts.Timeout)
		defer cancel()
	}

	candidates, err := u.retriever.Search(ctx, query.Text, u.opts.FetchK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}
	return candidates, nil
}

func (u *RetrieveUseCase) filterByAward(query domain.Query, candidates []domain.Candidate) []domain.Candidate {
	matched := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		ok, label := u.matcher.Match(query, c.Passage.Awards)
		if !ok {
			continue
		}
		c.MatchedAward = label
		matched = append(matched, c)
	}
	return matched
}

func toResults(candidates []domain.Candidate) []domain.Result {
	results := make([]domain.Result, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, domain.Result{
			ProjectID: c.Passage.ProjectID,
			Title:     c.Passage.Title,
			Award:     c.MatchedAward,
			Text:      c.Passage.Text,
			Score:     c.Score,
		})
	}
	return results
}
