package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cajero-dev/cajero/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanEntry reads a ledger entry row from the scanner.
// Expected column order: id, account_code, transaction_type, entry_date,
// value_date, description, reference, check_number, task_id, amount,
// entity_id, entity_name, insertion_date, processed, movement_id
func scanEntry(s scanner) (*ledger.Entry, error) {
	var e ledger.Entry

	var movementID sql.NullString

	if err := s.Scan(
		&e.ID, &e.AccountCode, &e.TransactionType, &e.EntryDate, &e.ValueDate,
		&e.Description, &e.Reference, &e.CheckNumber, &e.TaskID, &e.Amount,
		&e.EntityID, &e.EntityName, &e.InsertionDate, &e.Processed, &movementID,
	); err != nil {
		return nil, err
	}

	if movementID.Valid {
		e.MovementID = &movementID.String
	}

	return &e, nil
}

const selectEntryColumns = `
	id, account_code, transaction_type, entry_date, value_date,
	description, reference, check_number, task_id, amount,
	entity_id, entity_name, insertion_date, processed, movement_id
`

func (s *Store) GetEntry(ctx context.Context, id string) (*ledger.Entry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM accounting_entries WHERE id = $1`

	e, err := scanEntry(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting ledger entry: %w", err)
	}

	return e, nil
}

func (s *Store) ListByAccount(ctx context.Context, accountCode string, page, pageSize int) ([]*ledger.Entry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM accounting_entries
		WHERE account_code = $1
		ORDER BY entry_date DESC, id
		LIMIT $2 OFFSET $3`

	offset := (page - 1) * pageSize

	rows, err := s.db.QueryContext(ctx, query, accountCode, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("listing ledger entries: %w", err)
	}
	defer rows.Close()

	return collect(rows)
}

func (s *Store) ListUnprocessed(ctx context.Context) ([]*ledger.Entry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM accounting_entries
		WHERE NOT processed
		ORDER BY entry_date, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing unprocessed entries: %w", err)
	}
	defer rows.Close()

	return collect(rows)
}

func collect(rows *sql.Rows) ([]*ledger.Entry, error) {
	var entries []*ledger.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ledger entry: %w", err)
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (s *Store) SetProcessed(ctx context.Context, id string, movementID *string) error {
	query := `
		UPDATE accounting_entries
		SET processed = TRUE, movement_id = $1
		WHERE id = $2
	`

	res, err := s.db.ExecContext(ctx, query, movementID, id)
	if err != nil {
		return fmt.Errorf("marking entry processed: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}

type importTx struct {
	tx *sql.Tx
}

func (s *Store) BeginImport(ctx context.Context) (ledger.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning ledger import tx: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) InsertEntry(ctx context.Context, e *ledger.Entry) (bool, error) {
	query := `
		INSERT INTO accounting_entries
		(id, account_code, transaction_type, entry_date, value_date,
		 description, reference, check_number, task_id, amount,
		 entity_id, entity_name, insertion_date, processed, movement_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, FALSE, NULL)
		ON CONFLICT (id) DO NOTHING
	`

	res, err := itx.tx.ExecContext(ctx, query,
		e.ID, e.AccountCode, e.TransactionType, e.EntryDate, e.ValueDate,
		e.Description, e.Reference, e.CheckNumber, e.TaskID, e.Amount,
		e.EntityID, e.EntityName, e.InsertionDate,
	)
	if err != nil {
		return false, fmt.Errorf("inserting ledger entry: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking insert result: %w", err)
	}

	return n > 0, nil
}
