// Package audit provides the append-only audit trail for stock mutations.
//
// An entry is written inside the same transaction as the mutation it
// describes; the recorder is never invoked on its own. Entries are
// write-once and consumed by external reporting collaborators.
package audit

import (
	"time"

	"stockpilot/internal/core/id"
)

// Action identifies the kind of audited operation.
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Entry is a single audit log record pairing old and new values of a
// mutation with the acting user.
type Entry struct {
	ID        id.ID          `db:"id" json:"id"`
	Action    Action         `db:"action" json:"action"`
	TableName string         `db:"table_name" json:"tableName"`
	RecordID  id.ID          `db:"record_id" json:"recordId"`
	OldValues map[string]any `db:"-" json:"oldValues,omitempty"`
	NewValues map[string]any `db:"-" json:"newValues,omitempty"`
	UserID    id.ID          `db:"user_id" json:"userId"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
}
