package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cajero-dev/cajero/internal/ledger"
	"github.com/cajero-dev/cajero/internal/movement"
	"github.com/cajero-dev/cajero/internal/reconcile"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CajaForAccount resolves a ledger account code to its bank caja through
// the account_links table.
func (s *Store) CajaForAccount(ctx context.Context, accountCode string) (string, error) {
	var caja string

	err := s.db.QueryRowContext(ctx,
		`SELECT caja FROM account_links WHERE account_code = $1`, accountCode,
	).Scan(&caja)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", reconcile.ErrUnknownAccount
		}

		return "", fmt.Errorf("resolving account link: %w", err)
	}

	return caja, nil
}

// SetAccountLink creates or moves the account-code → caja link.
func (s *Store) SetAccountLink(ctx context.Context, accountCode, caja string) error {
	query := `
		INSERT INTO account_links (account_code, caja)
		VALUES ($1, $2)
		ON CONFLICT (account_code) DO UPDATE SET caja = EXCLUDED.caja
	`

	if _, err := s.db.ExecContext(ctx, query, accountCode, caja); err != nil {
		return fmt.Errorf("setting account link: %w", err)
	}

	return nil
}

// EntriesInWindow returns the unprocessed ledger entries of one account
// with an entry date inside [start, end].
func (s *Store) EntriesInWindow(ctx context.Context, accountCode, start, end string) ([]*ledger.Entry, error) {
	query := `
		SELECT id, account_code, transaction_type, entry_date, value_date,
		       description, reference, check_number, task_id, amount,
		       entity_id, entity_name, insertion_date, processed, movement_id
		FROM accounting_entries
		WHERE account_code = $1 AND NOT processed
		  AND entry_date BETWEEN $2 AND $3
		ORDER BY entry_date, id
	`

	rows, err := s.db.QueryContext(ctx, query, accountCode, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying ledger window: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.Entry

	for rows.Next() {
		var e ledger.Entry

		var movementID sql.NullString

		if err := rows.Scan(
			&e.ID, &e.AccountCode, &e.TransactionType, &e.EntryDate, &e.ValueDate,
			&e.Description, &e.Reference, &e.CheckNumber, &e.TaskID, &e.Amount,
			&e.EntityID, &e.EntityName, &e.InsertionDate, &e.Processed, &movementID,
		); err != nil {
			return nil, fmt.Errorf("scanning ledger entry: %w", err)
		}

		if movementID.Valid {
			e.MovementID = &movementID.String
		}

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// MovementsInWindow returns the movements of one caja whose normalized
// date falls inside [start, end].
func (s *Store) MovementsInWindow(ctx context.Context, caja, start, end string) ([]*movement.Movement, error) {
	query := `
		SELECT id, caja, fecha, normalized_date, concepto, importe, saldo,
		       id_apunte_banco, sort_key, insertion_date, is_contabilized, id_apunte_contable
		FROM movimientos_bancarios
		WHERE caja = $1 AND normalized_date BETWEEN $2 AND $3
		ORDER BY sort_key
	`

	rows, err := s.db.QueryContext(ctx, query, caja, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying movement window: %w", err)
	}
	defer rows.Close()

	var movs []*movement.Movement

	for rows.Next() {
		var m movement.Movement

		var numApunte, taskID sql.NullString

		if err := rows.Scan(
			&m.ID, &m.Caja, &m.Fecha, &m.NormalizedDate, &m.Concepto, &m.Importe,
			&m.Saldo, &numApunte, &m.SortKey, &m.InsertionDate, &m.Contabilized, &taskID,
		); err != nil {
			return nil, fmt.Errorf("scanning movement: %w", err)
		}

		m.NumApunte = numApunte.String

		if taskID.Valid {
			m.TaskID = &taskID.String
		}

		movs = append(movs, &m)
	}

	return movs, rows.Err()
}

// ConfirmMapping lands the mapping row, the entry's processed flag and
// the movement's accounting link in one transaction. A race on an
// already-processed entry fails the whole confirmation.
func (s *Store) ConfirmMapping(ctx context.Context, m *reconcile.Mapping) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning confirm tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE accounting_entries SET processed = TRUE, movement_id = $1 WHERE id = $2 AND NOT processed`,
		m.MovementID, m.EntryID,
	)
	if err != nil {
		return fmt.Errorf("marking entry processed: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return reconcile.ErrEntryProcessed
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE movimientos_bancarios SET is_contabilized = TRUE, id_apunte_contable = $1 WHERE id = $2`,
		m.EntryID, m.MovementID,
	); err != nil {
		return fmt.Errorf("linking movement: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO bank_accounting_mapping
		(id, movement_id, entry_id, confidence, confirmed, match_date)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.MovementID, m.EntryID, m.Confidence, m.Confirmed, m.MatchDate,
	); err != nil {
		return fmt.Errorf("inserting mapping: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing confirmation: %w", err)
	}

	return nil
}
