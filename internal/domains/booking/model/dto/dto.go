package dto

import (
	"time"

	"github.com/google/uuid"

	"resort/internal/domains/booking/model"
	"resort/shared"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	"resort/shared/failure"
	gModel "resort/shared/model"
	"resort/shared/timezone"
)

type CreateBookingRequest struct {
	RoomID         string  `json:"room_id"          validate:"required"`
	RoomType       string  `json:"room_type"        validate:"required,oneof=standard deluxe suite"`
	GuestName      string  `json:"guest_name"       validate:"required,max=100"`
	GuestEmail     string  `json:"guest_email"      validate:"required,email,max=100"`
	GuestPhone     string  `json:"guest_phone"      validate:"required,max=20"`
	Adults         int     `json:"adults"           validate:"required,gte=1"`
	Kids           int     `json:"kids"             validate:"gte=0"`
	CheckIn        string  `json:"check_in"         validate:"required"`
	CheckOut       string  `json:"check_out"        validate:"required"`
	PricePerNight  float64 `json:"price_per_night"  validate:"required,gt=0"`
	SpecialRequest *string `json:"special_request"  validate:"omitempty,max=500"`
	Status         string  `json:"status"           validate:"omitempty,oneof=pending confirmed"`
}

// ToModel builds a Booking from the request. Date ordering is enforced here
// so no later code path can see a stay with check-out at or before check-in.
func (c *CreateBookingRequest) ToModel(user string) (model.Booking, error) {
	checkIn, err := timezone.Parse(constant.DateOnlyFormat, c.CheckIn)
	if err != nil {
		return model.Booking{}, failure.BadRequestFromString("check_in must be a date in YYYY-MM-DD format") //nolint:wrapcheck
	}

	checkOut, err := timezone.Parse(constant.DateOnlyFormat, c.CheckOut)
	if err != nil {
		return model.Booking{}, failure.BadRequestFromString("check_out must be a date in YYYY-MM-DD format") //nolint:wrapcheck
	}

	if !checkOut.After(checkIn) {
		return model.Booking{}, failure.BadRequestFromString("check_out must be strictly after check_in") //nolint:wrapcheck
	}

	roomType, err := model.ParseRoomType(c.RoomType)
	if err != nil {
		return model.Booking{}, err
	}

	status := model.StatusPending
	if c.Status != "" {
		status, err = model.ParseStatus(c.Status)
		if err != nil {
			return model.Booking{}, err
		}
	}

	return model.Booking{
		ID:             uuid.NewString(),
		RoomID:         c.RoomID,
		RoomType:       roomType,
		GuestName:      c.GuestName,
		GuestEmail:     c.GuestEmail,
		GuestPhone:     c.GuestPhone,
		Adults:         c.Adults,
		Kids:           c.Kids,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		PricePerNight:  c.PricePerNight,
		SpecialRequest: c.SpecialRequest,
		Status:         status,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

// UpdateBookingRequest covers guest-facing details only. Status is excluded
// on purpose: it moves solely through the transition endpoint.
type UpdateBookingRequest struct {
	GuestName      string  `db:"guest_name"      json:"guest_name"      validate:"omitempty,max=100"`
	GuestEmail     string  `db:"guest_email"     json:"guest_email"     validate:"omitempty,email,max=100"`
	GuestPhone     string  `db:"guest_phone"     json:"guest_phone"     validate:"omitempty,max=20"`
	SpecialRequest *string `db:"special_request" json:"special_request" validate:"omitempty,max=500"`
}

type TransitionBookingRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed checked_in checked_out cancelled"`
}

type BookingResponse struct {
	ID             string  `json:"id"`
	RoomID         string  `json:"room_id"`
	RoomType       string  `json:"room_type"`
	GuestName      string  `json:"guest_name"`
	GuestEmail     string  `json:"guest_email"`
	GuestPhone     string  `json:"guest_phone"`
	Adults         int     `json:"adults"`
	Kids           int     `json:"kids"`
	CheckIn        string  `json:"check_in"`
	CheckOut       string  `json:"check_out"`
	PricePerNight  float64 `json:"price_per_night"`
	SpecialRequest *string `json:"special_request,omitempty"`
	Status         string  `json:"status"`
	Nights         int     `json:"nights"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.RoomID = booking.RoomID
	r.RoomType = string(booking.RoomType)
	r.GuestName = booking.GuestName
	r.GuestEmail = booking.GuestEmail
	r.GuestPhone = booking.GuestPhone
	r.Adults = booking.Adults
	r.Kids = booking.Kids
	r.CheckIn = booking.CheckIn.Format(constant.DateOnlyFormat)
	r.CheckOut = booking.CheckOut.Format(constant.DateOnlyFormat)
	r.PricePerNight = booking.PricePerNight
	r.SpecialRequest = booking.SpecialRequest
	r.Status = string(booking.Status)
	r.Nights = model.Nights(booking.CheckIn, booking.CheckOut)
	r.Metadata.FromModel(booking.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// StatusEvent is published to the booking events topic after each committed
// transition.
type StatusEvent struct {
	BookingID  string `json:"booking_id"`
	RoomID     string `json:"room_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	OccurredAt string `json:"occurred_at"`
}

func NewStatusEvent(booking model.Booking, from, to model.Status, at time.Time) StatusEvent {
	return StatusEvent{
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		From:       string(from),
		To:         string(to),
		OccurredAt: timezone.Format(at, constant.DateFormat),
	}
}
