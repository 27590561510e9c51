package model

import "time"

const (
	TableName  = "login_activity"
	EntityName = "login activity"

	FieldID        = "id"
	FieldEmail     = "email"
	FieldSource    = "source"
	FieldIP        = "ip"
	FieldDevice    = "device"
	FieldOutcome   = "outcome"
	FieldTimestamp = "timestamp"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	SourceAdmin   = "admin"
	SourceVisitor = "visitor"
)

// LoginActivity is an append-only audit record. Rows are never updated or
// deleted, so it carries its own timestamp instead of the shared metadata.
type LoginActivity struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Source    string    `db:"source"`
	IP        string    `db:"ip"`
	Device    string    `db:"device"`
	Outcome   string    `db:"outcome"`
	Timestamp time.Time `db:"timestamp"`
}
