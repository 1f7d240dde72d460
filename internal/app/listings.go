package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/shrimpsizemoose/testmiddle/internal/models"
)

type idSet map[string]struct{}

func collectIDs(records []models.Record, field string) idSet {
	ids := make(idSet, len(records))
	for _, record := range records {
		if key, ok := models.IDKey(record.Get(field)); ok {
			ids[key] = struct{}{}
		}
	}
	return ids
}

func (ids idSet) contains(id any) bool {
	key, ok := models.IDKey(id)
	if !ok {
		return false
	}
	_, found := ids[key]
	return found
}

// fetchPair runs two independent list calls concurrently and returns both
// results once each has finished.
func (s *Service) fetchPair(
	ctx context.Context,
	firstTable string, firstFields map[string]any,
	secondTable string, secondFields map[string]any,
) ([]models.Record, []models.Record, error) {
	var first, second []models.Record

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		first, err = s.Backend.List(gctx, firstTable, firstFields)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", firstTable, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		second, err = s.Backend.List(gctx, secondTable, secondFields)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", secondTable, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

// ListAvailableForStudent returns the finalized tests the student has no
// score for, in the order the back end listed them.
func (s *Service) ListAvailableForStudent(ctx context.Context, studentPK any) ([]models.Record, error) {
	scores, finalized, err := s.fetchPair(ctx,
		models.TableTestScore, map[string]any{"student_id": studentPK},
		models.TableTest, map[string]any{"finalized": 1},
	)
	if err != nil {
		return nil, err
	}

	taken := collectIDs(scores, "test_id")
	available := make([]models.Record, 0, len(finalized))
	for _, test := range finalized {
		if !taken.contains(test.PrimaryKey()) {
			available = append(available, test)
		}
	}
	return available, nil
}

// ListTestToBeReleased returns finalized tests whose scores are not released
// yet and that have at least one recorded score.
func (s *Service) ListTestToBeReleased(ctx context.Context) ([]models.Record, error) {
	pending, scores, err := s.fetchPair(ctx,
		models.TableTest, map[string]any{"finalized": 1, "scores_released": 0},
		models.TableTestScore, map[string]any{},
	)
	if err != nil {
		return nil, err
	}

	scored := collectIDs(scores, "test_id")
	result := make([]models.Record, 0, len(pending))
	for _, test := range pending {
		if scored.contains(test.PrimaryKey()) {
			result = append(result, test)
		}
	}
	return result, nil
}
