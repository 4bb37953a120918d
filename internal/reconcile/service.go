package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cajero-dev/cajero/internal/ledger"
	"github.com/cajero-dev/cajero/internal/movement"
)

var (
	ErrUnknownAccount = errors.New("account code has no linked caja")
	ErrEntryProcessed = errors.New("ledger entry already processed")
)

// Mapping links one ledger entry to one bank movement. Confirming it is
// final: the entry leaves the matching pool for good.
type Mapping struct {
	ID         string    `json:"id"`
	MovementID string    `json:"movement_id"`
	EntryID    string    `json:"entry_id"`
	Confidence float64   `json:"confidence"`
	Confirmed  bool      `json:"confirmed"`
	MatchDate  time.Time `json:"match_date"`
}

// Candidate is one scored pair at or above the proposal threshold.
type Candidate struct {
	Entry      *ledger.Entry      `json:"entry"`
	Movement   *movement.Movement `json:"movement"`
	Confidence float64            `json:"confidence"`
}

// Proposal groups the candidates for one ledger entry. Ambiguous means
// more than one movement qualified; those are never auto-resolved and
// must be confirmed by an operator.
type Proposal struct {
	Entry      *ledger.Entry `json:"entry"`
	Candidates []Candidate   `json:"candidates"`
	Ambiguous  bool          `json:"ambiguous"`
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=reconcile
type Repository interface {
	CajaForAccount(ctx context.Context, accountCode string) (string, error)
	EntriesInWindow(ctx context.Context, accountCode, start, end string) ([]*ledger.Entry, error)
	MovementsInWindow(ctx context.Context, caja, start, end string) ([]*movement.Movement, error)
	ConfirmMapping(ctx context.Context, m *Mapping) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Propose scores every unprocessed ledger entry in the window against
// every movement of the linked caja and returns the pairs that clear the
// threshold, grouped per entry. The cross product is bounded only by the
// caller's window, so the context deadline is checked between entries.
func (s *Service) Propose(ctx context.Context, accountCode, start, end string) ([]Proposal, error) {
	caja, err := s.repo.CajaForAccount(ctx, accountCode)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.EntriesInWindow(ctx, accountCode, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading ledger window: %w", err)
	}

	movements, err := s.repo.MovementsInWindow(ctx, caja, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading movement window: %w", err)
	}

	var proposals []Proposal

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if entry.Processed {
			continue
		}

		var candidates []Candidate

		for _, m := range movements {
			confidence := Score(entry, m)
			if confidence < Threshold {
				continue
			}

			candidates = append(candidates, Candidate{
				Entry:      entry,
				Movement:   m,
				Confidence: confidence,
			})
		}

		if len(candidates) == 0 {
			continue
		}

		proposals = append(proposals, Proposal{
			Entry:      entry,
			Candidates: candidates,
			Ambiguous:  len(candidates) > 1,
		})
	}

	return proposals, nil
}

// Confirm persists one accepted mapping: the mapping row, the entry's
// processed flag and the movement's accounting link all land in a single
// store transaction. There is no reversal path.
func (s *Service) Confirm(ctx context.Context, movementID, entryID string, confidence float64) (*Mapping, error) {
	m := &Mapping{
		ID:         uuid.NewString(),
		MovementID: movementID,
		EntryID:    entryID,
		Confidence: confidence,
		Confirmed:  true,
		MatchDate:  time.Now().UTC(),
	}

	if err := s.repo.ConfirmMapping(ctx, m); err != nil {
		return nil, fmt.Errorf("confirming mapping: %w", err)
	}

	return m, nil
}
