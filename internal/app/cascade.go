package app

import (
	"context"
	"fmt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/testmiddle/internal/models"
)

// Only these test columns are mirrored onto test_score rows.
var cascadedTestFields = []string{"test_name", "scores_released"}

// CascadeFields picks the cascaded columns out of an incoming edit. Keys that
// are absent or null are left out rather than defaulted.
func CascadeFields(fieldsReceived map[string]any) map[string]any {
	out := make(map[string]any, len(cascadedTestFields))
	for _, name := range cascadedTestFields {
		if value, ok := fieldsReceived[name]; ok && value != nil {
			out[name] = value
		}
	}
	return out
}

// UpdateTestScores pushes an edit of test primaryKey down to every test_score
// that references it. Each score is updated with its own back-end call, so a
// failure part way through leaves earlier updates applied. The bool is false
// if any update came back without status "success"; err is only set for
// transport failures.
func (s *Service) UpdateTestScores(ctx context.Context, primaryKey any, fieldsReceived map[string]any) (bool, error) {
	scores, err := s.Backend.List(ctx, models.TableTestScore, map[string]any{
		"test_id": primaryKey,
	})
	if err != nil {
		return false, fmt.Errorf("failed to list test scores for test %v: %w", primaryKey, err)
	}

	fields := CascadeFields(fieldsReceived)
	ok := true
	for _, score := range scores {
		resp, err := s.Backend.Edit(ctx, models.TableTestScore, score.PrimaryKey(), fields)
		if err != nil {
			return false, fmt.Errorf("failed to update test score %v: %w", score.PrimaryKey(), err)
		}
		if !resp.Succeeded() {
			logger.Error.Printf("Test score %v of test %v was not updated, backend status %q",
				score.PrimaryKey(), primaryKey, resp.Status)
			ok = false
		}
	}

	logger.Debug.Printf("Cascaded %d field(s) of test %v to %d test score(s)", len(fields), primaryKey, len(scores))
	return ok, nil
}
