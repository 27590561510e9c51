package model

import (
	"fmt"
	"slices"

	"resort/shared/failure"
)

// Status is the booking lifecycle state. All mutation goes through
// CanTransitionTo; a status is never written that the table below does not
// allow.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
)

// RoomType classifies the booked room.
type RoomType string

const (
	RoomTypeStandard RoomType = "standard"
	RoomTypeDeluxe   RoomType = "deluxe"
	RoomTypeSuite    RoomType = "suite"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn:  {StatusCheckedOut},
	StatusCheckedOut: {},
	StatusCancelled:  {},
}

// ParseStatus returns the Status for a wire value or an error for anything
// outside the closed set.
func ParseStatus(value string) (Status, error) {
	status := Status(value)
	if _, ok := transitions[status]; !ok {
		return "", failure.BadRequestFromString(fmt.Sprintf("unknown booking status: %s", value)) //nolint:wrapcheck
	}

	return status, nil
}

// CanTransitionTo reports whether moving from s to the given status is legal.
func (s Status) CanTransitionTo(to Status) bool {
	return slices.Contains(transitions[s], to)
}

// Terminal reports whether no further transition is legal from s.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Active reports whether a booking in this status occupies its room: these
// are the statuses the overlap check counts against new reservations.
func (s Status) Active() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn:
		return true
	default:
		return false
	}
}

// ParseRoomType returns the RoomType for a wire value.
func ParseRoomType(value string) (RoomType, error) {
	switch roomType := RoomType(value); roomType {
	case RoomTypeStandard, RoomTypeDeluxe, RoomTypeSuite:
		return roomType, nil
	default:
		return "", failure.BadRequestFromString(fmt.Sprintf("unknown room type: %s", value)) //nolint:wrapcheck
	}
}
