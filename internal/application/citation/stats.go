package citation

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	citationdom "github.com/dmhernandez2525/patent-intelligence/internal/domain/citation"
	apperrors "github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// Stats computes the citation impact of one patent: its forward and backward
// citation counts, the average backward count of its cohort, and the
// citation index (backward / cohort average).
//
// The cohort is every patent sharing the filing year and at least one CPC
// code.  When the cohort average is zero, or the patent lacks a filing date
// or CPC codes, the index is nil rather than a division by zero.
func (s *Service) Stats(ctx context.Context, number string) (*citationdom.Stats, error) {
	p, err := s.patents.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	var forward, backward int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		forward, err = s.stats.ForwardCount(gctx, p.PatentNumber)
		return err
	})
	g.Go(func() error {
		var err error
		backward, err = s.stats.BackwardCount(gctx, p.PatentNumber)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCitationTraversalFailed, "citation counts failed")
	}

	var avg float64
	if p.FilingDate != nil && len(p.CPCCodes) > 0 {
		avg, err = s.stats.CohortAvgBackward(ctx, p.FilingYear(), p.CPCCodes)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeCitationTraversalFailed, "cohort average failed")
		}
	}

	out := &citationdom.Stats{
		PatentNumber:      p.PatentNumber,
		ForwardCitations:  forward,
		BackwardCitations: backward,
		AvgFieldCitations: avg,
	}
	if avg > 0 {
		index := math.Round(float64(backward)/avg*100) / 100
		out.CitationIndex = &index
	}
	return out, nil
}
