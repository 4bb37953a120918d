package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/cajero-dev/cajero/internal/classify"
)

// Store persists the ordered rule set. Matchers and generators are plain
// JSON documents interpreted by the engine; nothing executable is stored.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// LoadRules returns the full rule set in its configured order.
func (s *Store) LoadRules(ctx context.Context) ([]classify.Rule, error) {
	query := `
		SELECT id, description, matcher, generator
		FROM classification_rules
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	defer rows.Close()

	var rules []classify.Rule

	for rows.Next() {
		var r classify.Rule

		var matcherJSON, generatorJSON []byte

		if err := rows.Scan(&r.ID, &r.Description, &matcherJSON, &generatorJSON); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		if err := json.Unmarshal(matcherJSON, &r.Matcher); err != nil {
			return nil, fmt.Errorf("decoding matcher of rule %s: %w", r.ID, err)
		}

		if err := json.Unmarshal(generatorJSON, &r.Generator); err != nil {
			return nil, fmt.Errorf("decoding generator of rule %s: %w", r.ID, err)
		}

		rules = append(rules, r)
	}

	return rules, rows.Err()
}

// ReplaceRules swaps the whole persisted set in one transaction. The rule
// set is never patched in place; edits always write the full new list.
func (s *Store) ReplaceRules(ctx context.Context, rules []classify.Rule) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning rule replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM classification_rules`); err != nil {
		return fmt.Errorf("clearing rules: %w", err)
	}

	insert := `
		INSERT INTO classification_rules (position, id, description, matcher, generator)
		VALUES ($1, $2, $3, $4, $5)
	`

	for i, r := range rules {
		matcherJSON, err := json.Marshal(r.Matcher)
		if err != nil {
			return fmt.Errorf("encoding matcher of rule %s: %w", r.ID, err)
		}

		generatorJSON, err := json.Marshal(r.Generator)
		if err != nil {
			return fmt.Errorf("encoding generator of rule %s: %w", r.ID, err)
		}

		if _, err := tx.ExecContext(ctx, insert, i, r.ID, r.Description, matcherJSON, generatorJSON); err != nil {
			return fmt.Errorf("inserting rule %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rule replace: %w", err)
	}

	return nil
}
