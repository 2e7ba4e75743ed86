package models

import "time"

// AuditEntry is one append-only row of the audit trail. FieldDiffs holds a
// JSON object of {field: {old, new}} pairs.
type AuditEntry struct {
	ID         string    `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   int       `json:"entity_id"`
	Action     string    `json:"action"`
	FieldDiffs string    `json:"field_diffs,omitempty"`
	ActorID    int       `json:"actor_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// FieldDiff is a single before/after pair inside AuditEntry.FieldDiffs.
type FieldDiff struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}
