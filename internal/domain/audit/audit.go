// Package audit defines the change-history contract. The postgres
// implementation persists entries with compressed payloads.
package audit

import (
	"context"
	"time"

	"orfebre/internal/core/id"
)

// Action classifies what happened to an entity.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Entry is one recorded change.
type Entry struct {
	ID         id.ID     `db:"id" json:"id"`
	EntityType string    `db:"entity_type" json:"entityType"`
	EntityID   id.ID     `db:"entity_id" json:"entityId"`
	Action     Action    `db:"action" json:"action"`
	Actor      string    `db:"actor" json:"actor,omitempty"`
	Payload    []byte    `db:"-" json:"payload,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Recorder persists audit entries. Recording failures must never fail the
// business operation; implementations log and move on.
type Recorder interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action Action, payload any)
	History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error)
}

// Nop discards everything. Used in tests and when auditing is disabled.
type Nop struct{}

func (Nop) Record(ctx context.Context, entityType string, entityID id.ID, action Action, payload any) {
}

func (Nop) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error) {
	return nil, nil
}
