package movement

import (
	"context"
	"fmt"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=movement
type Repository interface {
	GetMovement(ctx context.Context, id string) (*Movement, error)
	ListByCaja(ctx context.Context, caja string, page, pageSize int) ([]*Movement, error)
	ListCajas(ctx context.Context) ([]string, error)
	AccountBalances(ctx context.Context) ([]AccountBalance, error)
	SetContabilized(ctx context.Context, id string, contabilized bool, taskID *string) error

	BeginImport(ctx context.Context, caja string) (ImportTx, error)
}

// ImportTx is one statement batch against the store. All inserts happen
// inside a single database transaction; either the whole batch lands or
// none of it does.
type ImportTx interface {
	InsertMovement(ctx context.Context, m *Movement) (inserted bool, err error)
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ImportRecord is the per-row outcome of a batch import. Every draft that
// entered the batch shows up exactly once, either freshly inserted or
// recognized as already present.
type ImportRecord struct {
	Movement          *Movement
	AlreadyInDatabase bool
}

type ImportResult struct {
	Records    []ImportRecord
	New        int
	Duplicates int
}

// ImportBatch hashes the drafts and inserts them with insert-or-ignore
// semantics keyed by the content hash. Duplicates are counted, not
// rejected: hitting one means the statement was imported before.
func (s *Service) ImportBatch(ctx context.Context, drafts []Draft) (*ImportResult, error) {
	if len(drafts) == 0 {
		return &ImportResult{}, nil
	}

	now := time.Now().UTC()

	itx, err := s.repo.BeginImport(ctx, drafts[0].Caja)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	result := &ImportResult{Records: make([]ImportRecord, 0, len(drafts))}

	for _, d := range drafts {
		m := &Movement{
			ID:             Hash(d),
			Caja:           d.Caja,
			Fecha:          d.Fecha,
			NormalizedDate: d.NormalizedDate,
			Concepto:       d.Concepto,
			Importe:        d.Importe,
			Saldo:          d.Saldo,
			NumApunte:      d.NumApunte,
			SortKey:        d.SortKey,
			InsertionDate:  now,
		}

		inserted, err := itx.InsertMovement(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("insert movement %s: %w", m.ID, err)
		}

		if inserted {
			result.New++
		} else {
			result.Duplicates++
		}

		result.Records = append(result.Records, ImportRecord{
			Movement:          m,
			AlreadyInDatabase: !inserted,
		})
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Movement, error) {
	return s.repo.GetMovement(ctx, id)
}

func (s *Service) ListByCaja(ctx context.Context, caja string, page, pageSize int) ([]*Movement, error) {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 || pageSize > 500 {
		pageSize = 100
	}

	return s.repo.ListByCaja(ctx, caja, page, pageSize)
}

func (s *Service) ListCajas(ctx context.Context) ([]string, error) {
	return s.repo.ListCajas(ctx)
}

func (s *Service) AccountBalances(ctx context.Context) ([]AccountBalance, error) {
	return s.repo.AccountBalances(ctx)
}

// SetContabilized flips the posted flag on a movement. Clearing it also
// clears the linked task ID.
func (s *Service) SetContabilized(ctx context.Context, id string, contabilized bool, taskID *string) error {
	if !contabilized {
		taskID = nil
	}

	return s.repo.SetContabilized(ctx, id, contabilized, taskID)
}
