package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sadopc/focusknob/internal/ledger"
)

// SaveLedger replaces the stored ledger document.
func (s *Store) SaveLedger(data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO ledger (id, doc) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET doc = excluded.doc, updated_at = strftime('%Y-%m-%dT%H:%M:%SZ','now')`,
		string(data),
	)
	if err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

// LoadLedger returns the stored document, or ledger.ErrNotFound.
func (s *Store) LoadLedger() ([]byte, error) {
	var doc string
	err := s.db.QueryRow(`SELECT doc FROM ledger WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return []byte(doc), nil
}
