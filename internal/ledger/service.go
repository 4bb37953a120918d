package ledger

import (
	"context"
	"fmt"
	"io"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	GetEntry(ctx context.Context, id string) (*Entry, error)
	ListByAccount(ctx context.Context, accountCode string, page, pageSize int) ([]*Entry, error)
	ListUnprocessed(ctx context.Context) ([]*Entry, error)
	SetProcessed(ctx context.Context, id string, movementID *string) error

	BeginImport(ctx context.Context) (ImportTx, error)
}

// ImportTx is one extract import against the store, all inside a single
// database transaction.
type ImportTx interface {
	InsertEntry(ctx context.Context, e *Entry) (inserted bool, err error)
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ImportResult summarizes one extract import. LineErrors carries the
// lines the parser rejected; they are reported, never fatal.
type ImportResult struct {
	Entries    []*Entry
	New        int
	Duplicates int
	LineErrors []LineError
}

// ImportFile parses a fixed-width ledger extract and loads its entries
// with insert-or-ignore semantics keyed by the derived entry ID.
// Re-importing the same extract counts everything as duplicate.
func (s *Service) ImportFile(ctx context.Context, r io.Reader) (*ImportResult, error) {
	entries, lineErrs, err := Parse(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Entries: entries, LineErrors: lineErrs}
	if len(entries) == 0 {
		return result, nil
	}

	now := time.Now().UTC()

	itx, err := s.repo.BeginImport(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin ledger import: %w", err)
	}
	defer itx.Rollback()

	for _, e := range entries {
		e.InsertionDate = now

		inserted, err := itx.InsertEntry(ctx, e)
		if err != nil {
			return nil, fmt.Errorf("insert ledger entry %s: %w", e.ID, err)
		}

		if inserted {
			result.New++
		} else {
			result.Duplicates++
		}
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit ledger import: %w", err)
	}

	return result, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Entry, error) {
	return s.repo.GetEntry(ctx, id)
}

func (s *Service) ListByAccount(ctx context.Context, accountCode string, page, pageSize int) ([]*Entry, error) {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 || pageSize > 500 {
		pageSize = 100
	}

	return s.repo.ListByAccount(ctx, accountCode, page, pageSize)
}

func (s *Service) ListUnprocessed(ctx context.Context) ([]*Entry, error) {
	return s.repo.ListUnprocessed(ctx)
}
