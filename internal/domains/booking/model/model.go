package model

import (
	"math"
	"time"

	"resort/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID             = "id"
	FieldRoomID         = "room_id"
	FieldRoomType       = "room_type"
	FieldGuestName      = "guest_name"
	FieldGuestEmail     = "guest_email"
	FieldGuestPhone     = "guest_phone"
	FieldAdults         = "adults"
	FieldKids           = "kids"
	FieldCheckIn        = "check_in"
	FieldCheckOut       = "check_out"
	FieldPricePerNight  = "price_per_night"
	FieldSpecialRequest = "special_request"
	FieldStatus         = "status"
)

type Booking struct {
	ID             string    `db:"id"`
	RoomID         string    `db:"room_id"`
	RoomType       RoomType  `db:"room_type"`
	GuestName      string    `db:"guest_name"`
	GuestEmail     string    `db:"guest_email"`
	GuestPhone     string    `db:"guest_phone"`
	Adults         int       `db:"adults"`
	Kids           int       `db:"kids"`
	CheckIn        time.Time `db:"check_in"`
	CheckOut       time.Time `db:"check_out"`
	PricePerNight  float64   `db:"price_per_night"`
	SpecialRequest *string   `db:"special_request"`
	Status         Status    `db:"status"`
	model.Metadata
}

// Nights returns the whole-day stay duration between check-in and check-out,
// the multiplier for revenue.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// StayAmount is the booking's monetary value: nights times the nightly price.
// Non-positive durations and non-finite or non-positive prices contribute
// zero rather than failing; a malformed historical record must not poison an
// aggregate.
func (b *Booking) StayAmount() float64 {
	nights := Nights(b.CheckIn, b.CheckOut)
	if nights <= 0 {
		return 0
	}

	if b.PricePerNight <= 0 || math.IsInf(b.PricePerNight, 0) || math.IsNaN(b.PricePerNight) {
		return 0
	}

	return float64(nights) * b.PricePerNight
}
