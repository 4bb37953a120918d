package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"

	"github.com/cajero-dev/cajero/internal/movement"
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

// scanMovement reads a movement row from the scanner.
// Expected column order: id, caja, fecha, normalized_date, concepto, importe,
// saldo, id_apunte_banco, sort_key, insertion_date, is_contabilized, id_apunte_contable
func scanMovement(s scanner) (*movement.Movement, error) {
	var m movement.Movement

	var numApunte sql.NullString

	var taskID sql.NullString

	if err := s.Scan(
		&m.ID, &m.Caja, &m.Fecha, &m.NormalizedDate, &m.Concepto, &m.Importe,
		&m.Saldo, &numApunte, &m.SortKey, &m.InsertionDate, &m.Contabilized, &taskID,
	); err != nil {
		return nil, err
	}

	m.NumApunte = numApunte.String

	if taskID.Valid {
		m.TaskID = &taskID.String
	}

	return &m, nil
}

const selectMovementColumns = `
	id, caja, fecha, normalized_date, concepto, importe, saldo,
	id_apunte_banco, sort_key, insertion_date, is_contabilized, id_apunte_contable
`

func (s *Store) GetMovement(ctx context.Context, id string) (*movement.Movement, error) {
	query := `SELECT ` + selectMovementColumns + ` FROM movimientos_bancarios WHERE id = $1`

	m, err := scanMovement(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, movement.ErrNotFound
		}

		return nil, fmt.Errorf("getting movement: %w", err)
	}

	return m, nil
}

func (s *Store) ListByCaja(ctx context.Context, caja string, page, pageSize int) ([]*movement.Movement, error) {
	query := `SELECT ` + selectMovementColumns + `
		FROM movimientos_bancarios
		WHERE caja = $1
		ORDER BY sort_key DESC
		LIMIT $2 OFFSET $3`

	offset := (page - 1) * pageSize

	rows, err := s.db.QueryContext(ctx, query, caja, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("listing movements: %w", err)
	}
	defer rows.Close()

	var movs []*movement.Movement

	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning movement: %w", err)
		}

		movs = append(movs, m)
	}

	return movs, rows.Err()
}

func (s *Store) ListCajas(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT caja FROM movimientos_bancarios ORDER BY caja`)
	if err != nil {
		return nil, fmt.Errorf("listing cajas: %w", err)
	}
	defer rows.Close()

	var cajas []string

	for rows.Next() {
		var caja string
		if err := rows.Scan(&caja); err != nil {
			return nil, fmt.Errorf("scanning caja: %w", err)
		}

		cajas = append(cajas, caja)
	}

	return cajas, rows.Err()
}

// AccountBalances returns the latest balance per caja, where "latest" is
// the row with the highest sort key.
func (s *Store) AccountBalances(ctx context.Context) ([]movement.AccountBalance, error) {
	query := `
		SELECT DISTINCT ON (caja)
			caja, saldo, normalized_date, concepto,
			(SELECT COUNT(*) FROM movimientos_bancarios m2 WHERE m2.caja = m.caja)
		FROM movimientos_bancarios m
		ORDER BY caja, sort_key DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying balances: %w", err)
	}
	defer rows.Close()

	var balances []movement.AccountBalance

	for rows.Next() {
		var b movement.AccountBalance
		if err := rows.Scan(&b.Caja, &b.Balance, &b.LastDate, &b.LastConcepto, &b.Movements); err != nil {
			return nil, fmt.Errorf("scanning balance: %w", err)
		}

		balances = append(balances, b)
	}

	return balances, rows.Err()
}

func (s *Store) SetContabilized(ctx context.Context, id string, contabilized bool, taskID *string) error {
	query := `
		UPDATE movimientos_bancarios
		SET is_contabilized = $1, id_apunte_contable = $2
		WHERE id = $3
	`

	res, err := s.db.ExecContext(ctx, query, contabilized, taskID, id)
	if err != nil {
		return fmt.Errorf("updating contabilized flag: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return movement.ErrNotFound
	}

	return nil
}

// importLockKey serializes concurrent imports of the same caja. Two
// simultaneous uploads of the same statement would otherwise race on the
// insert-or-ignore check.
func importLockKey(caja string) int64 {
	h := fnv.New64a()
	h.Write([]byte("import:"))
	h.Write([]byte(caja))

	return int64(h.Sum64())
}

type importTx struct {
	tx *sql.Tx
}

func (s *Store) BeginImport(ctx context.Context, caja string) (movement.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey(caja)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) InsertMovement(ctx context.Context, m *movement.Movement) (bool, error) {
	query := `
		INSERT INTO movimientos_bancarios
		(id, caja, fecha, normalized_date, concepto, importe, saldo,
		 id_apunte_banco, sort_key, insertion_date, is_contabilized, id_apunte_contable)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE, NULL)
		ON CONFLICT (id) DO NOTHING
	`

	var numApunte sql.NullString
	if m.NumApunte != "" {
		numApunte = sql.NullString{String: m.NumApunte, Valid: true}
	}

	res, err := itx.tx.ExecContext(ctx, query,
		m.ID, m.Caja, m.Fecha, m.NormalizedDate, m.Concepto, m.Importe,
		m.Saldo, numApunte, m.SortKey, m.InsertionDate,
	)
	if err != nil {
		return false, fmt.Errorf("inserting movement: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking insert result: %w", err)
	}

	return n > 0, nil
}
