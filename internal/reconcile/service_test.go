package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cajero-dev/cajero/internal/ledger"
	"github.com/cajero-dev/cajero/internal/movement"
)

func TestPropose_SingleCandidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)

	e := entry(120.00, "2025-05-30", "TRANSFERENCIA NOMINA", "")
	e.ID = "acc_1"

	match := mov(120.00, "2025-05-30", "TRANSFERENCIA NOMINA MAYO")
	match.ID = "mov_1"

	noise := mov(840.00, "2025-05-30", "OTRO MOVIMIENTO")
	noise.ID = "mov_2"

	repo.EXPECT().CajaForAccount(gomock.Any(), "203").Return("203_CRURAL", nil)
	repo.EXPECT().EntriesInWindow(gomock.Any(), "203", "2025-05-01", "2025-05-31").
		Return([]*ledger.Entry{e}, nil)
	repo.EXPECT().MovementsInWindow(gomock.Any(), "203_CRURAL", "2025-05-01", "2025-05-31").
		Return([]*movement.Movement{match, noise}, nil)

	proposals, err := NewService(repo).Propose(context.Background(), "203", "2025-05-01", "2025-05-31")
	require.NoError(t, err)

	require.Len(t, proposals, 1)
	assert.False(t, proposals[0].Ambiguous)
	require.Len(t, proposals[0].Candidates, 1)
	assert.Equal(t, "mov_1", proposals[0].Candidates[0].Movement.ID)
	assert.GreaterOrEqual(t, proposals[0].Candidates[0].Confidence, Threshold)
}

func TestPropose_MultipleCandidatesAreAmbiguous(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)

	e := entry(120.00, "2025-05-30", "TRANSFERENCIA", "")
	e.ID = "acc_1"

	a := mov(120.00, "2025-05-30", "TRANSFERENCIA UNO")
	a.ID = "mov_a"
	b := mov(120.00, "2025-05-30", "TRANSFERENCIA DOS")
	b.ID = "mov_b"

	repo.EXPECT().CajaForAccount(gomock.Any(), "203").Return("203", nil)
	repo.EXPECT().EntriesInWindow(gomock.Any(), "203", "2025-05-01", "2025-05-31").
		Return([]*ledger.Entry{e}, nil)
	repo.EXPECT().MovementsInWindow(gomock.Any(), "203", "2025-05-01", "2025-05-31").
		Return([]*movement.Movement{a, b}, nil)

	proposals, err := NewService(repo).Propose(context.Background(), "203", "2025-05-01", "2025-05-31")
	require.NoError(t, err)

	require.Len(t, proposals, 1)
	assert.True(t, proposals[0].Ambiguous)
	assert.Len(t, proposals[0].Candidates, 2)
}

func TestPropose_ProcessedEntriesAreSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)

	e := entry(120.00, "2025-05-30", "TRANSFERENCIA", "")
	e.Processed = true

	m := mov(120.00, "2025-05-30", "TRANSFERENCIA")

	repo.EXPECT().CajaForAccount(gomock.Any(), "203").Return("203", nil)
	repo.EXPECT().EntriesInWindow(gomock.Any(), "203", "a", "b").Return([]*ledger.Entry{e}, nil)
	repo.EXPECT().MovementsInWindow(gomock.Any(), "203", "a", "b").Return([]*movement.Movement{m}, nil)

	proposals, err := NewService(repo).Propose(context.Background(), "203", "a", "b")
	require.NoError(t, err)
	assert.Empty(t, proposals)
}

func TestPropose_UnknownAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)

	repo.EXPECT().CajaForAccount(gomock.Any(), "999").Return("", ErrUnknownAccount)

	_, err := NewService(repo).Propose(context.Background(), "999", "a", "b")
	assert.ErrorIs(t, err, ErrUnknownAccount)
}

func TestPropose_HonorsContextCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)

	ctx, cancel := context.WithCancel(context.Background())

	e := entry(120.00, "2025-05-30", "TRANSFERENCIA", "")

	repo.EXPECT().CajaForAccount(gomock.Any(), "203").Return("203", nil)
	repo.EXPECT().EntriesInWindow(gomock.Any(), "203", "a", "b").
		Return([]*ledger.Entry{e}, nil)
	repo.EXPECT().MovementsInWindow(gomock.Any(), "203", "a", "b").
		DoAndReturn(func(context.Context, string, string, string) ([]*movement.Movement, error) {
			cancel()
			return nil, nil
		})

	_, err := NewService(repo).Propose(ctx, "203", "a", "b")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfirm_BuildsMapping(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)

	var persisted *Mapping

	repo.EXPECT().ConfirmMapping(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m *Mapping) error {
			persisted = m
			return nil
		})

	before := time.Now().UTC()

	m, err := NewService(repo).Confirm(context.Background(), "mov_1", "acc_1", 0.85)
	require.NoError(t, err)

	assert.Same(t, persisted, m)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "mov_1", m.MovementID)
	assert.Equal(t, "acc_1", m.EntryID)
	assert.InDelta(t, 0.85, m.Confidence, 0.001)
	assert.True(t, m.Confirmed)
	assert.False(t, m.MatchDate.Before(before))
}

func TestConfirm_AlreadyProcessed(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)

	repo.EXPECT().ConfirmMapping(gomock.Any(), gomock.Any()).Return(ErrEntryProcessed)

	_, err := NewService(repo).Confirm(context.Background(), "mov_1", "acc_1", 1)
	assert.ErrorIs(t, err, ErrEntryProcessed)
}
