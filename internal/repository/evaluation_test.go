package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evaluator/internal/config"
	"evaluator/internal/model"
	"evaluator/internal/scoring"
	"evaluator/internal/service"
)

var _ service.EvaluationRepository = (*EvaluationRepository)(nil)

func newMemoryRepository(t *testing.T) *EvaluationRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleEntry(sessionID string) *model.EvaluationLog {
	record := &model.Record{
		BetweenUnits: &model.BetweenUnits{
			UnitType:       model.Ptr(model.UnitHouse),
			FrontOpenSpace: model.Ptr(model.OpenWideRoad),
		},
	}
	result := scoring.Score(record)
	return &model.EvaluationLog{
		SessionID:  sessionID,
		Score:      result.Score,
		Confidence: result.Confidence,
		Turns:      4,
		Record:     record,
		Result:     &result,
		CreatedAt:  time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestLogAndGetEvaluation(t *testing.T) {
	repo := newMemoryRepository(t)
	ctx := context.Background()

	entry := sampleEntry("session-1")
	require.NoError(t, repo.LogEvaluation(ctx, entry))
	assert.NotZero(t, entry.ID)

	got, err := repo.GetEvaluation(ctx, "session-1")
	require.NoError(t, err)

	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, entry.SessionID, got.SessionID)
	assert.Equal(t, entry.Score, got.Score)
	assert.Equal(t, entry.Confidence, got.Confidence)
	assert.Equal(t, entry.Turns, got.Turns)
	assert.True(t, entry.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", got.CreatedAt, entry.CreatedAt)
	if diff := cmp.Diff(entry.Record, got.Record); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(entry.Result, got.Result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestGetEvaluationNotFound(t *testing.T) {
	repo := newMemoryRepository(t)

	_, err := repo.GetEvaluation(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogEvaluationDuplicateSession(t *testing.T) {
	repo := newMemoryRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.LogEvaluation(ctx, sampleEntry("dup")))
	assert.Error(t, repo.LogEvaluation(ctx, sampleEntry("dup")))
}

func TestLogEvaluationDefaultsCreatedAt(t *testing.T) {
	repo := newMemoryRepository(t)
	ctx := context.Background()

	entry := sampleEntry("fresh")
	entry.CreatedAt = time.Time{}
	require.NoError(t, repo.LogEvaluation(ctx, entry))
	assert.WithinDuration(t, time.Now(), entry.CreatedAt, time.Minute)
}

func TestRecentEvaluations(t *testing.T) {
	repo := newMemoryRepository(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.LogEvaluation(ctx, sampleEntry(fmt.Sprintf("s-%d", i))))
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{name: "limited", limit: 2, want: []string{"s-4", "s-3"}},
		{name: "more than stored", limit: 10, want: []string{"s-4", "s-3", "s-2", "s-1", "s-0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := repo.RecentEvaluations(ctx, tt.limit)
			require.NoError(t, err)
			var ids []string
			for _, e := range entries {
				ids = append(ids, e.SessionID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(&config.Config{Store: config.StoreConfig{Driver: "mysql"}})
	assert.Error(t, err)
}

func TestOpenSQLite(t *testing.T) {
	repo, err := Open(&config.Config{Store: config.StoreConfig{Driver: config.DriverSQLite, DSN: ":memory:"}})
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.Migrate(context.Background()))
}
