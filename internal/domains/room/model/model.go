package model

import "resort/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldNumber      = "number"
	FieldType        = "type"
	FieldNightlyRate = "nightly_rate"
	FieldCapacity    = "capacity"
	FieldDescription = "description"
	FieldActive      = "active"
)

type Room struct {
	ID          string  `db:"id"`
	Number      string  `db:"number"`
	Type        string  `db:"type"`
	NightlyRate float64 `db:"nightly_rate"`
	Capacity    int     `db:"capacity"`
	Description string  `db:"description"`
	Active      bool    `db:"active"`
	model.Metadata
}
