package postgres

import (
	"context"
	"fmt"
)

// SequenceStore hands out strictly increasing values per scope from the
// sys_sequences table. The single UPSERT statement makes each draw atomic
// under concurrent callers; values are never reused.
type SequenceStore struct {
	txManager *TxManager
}

// NewSequenceStore creates a new sequence store.
func NewSequenceStore(txManager *TxManager) *SequenceStore {
	return &SequenceStore{txManager: txManager}
}

// NextVal returns the next value for the scope, starting at 1.
func (s *SequenceStore) NextVal(ctx context.Context, scope string) (int64, error) {
	var val int64
	err := s.txManager.GetQuerier(ctx).QueryRow(ctx, `
        INSERT INTO sys_sequences (scope, current_val)
        VALUES ($1, 1)
        ON CONFLICT (scope) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, scope).Scan(&val)
	if err != nil {
		return 0, fmt.Errorf("next value for scope %q: %w", scope, err)
	}
	return val, nil
}
