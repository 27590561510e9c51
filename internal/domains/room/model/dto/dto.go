package dto

import (
	"resort/internal/domains/room/model"
	"resort/shared"
	gDto "resort/shared/dto"
	gModel "resort/shared/model"
	"resort/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	Number      string  `json:"number"       validate:"required,max=20"`
	Type        string  `json:"type"         validate:"required,oneof=standard deluxe suite"`
	NightlyRate float64 `json:"nightly_rate" validate:"required,gt=0"`
	Capacity    int     `json:"capacity"     validate:"required,min=1"`
	Description string  `json:"description"  validate:"omitempty,max=500"`
	Active      *bool   `json:"active"       validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Room{
		ID:          uuid.NewString(),
		Number:      c.Number,
		Type:        c.Type,
		NightlyRate: c.NightlyRate,
		Capacity:    c.Capacity,
		Description: c.Description,
		Active:      active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Number      string   `db:"number"       json:"number"       validate:"omitempty,max=20"`
	Type        string   `db:"type"         json:"type"         validate:"omitempty,oneof=standard deluxe suite"`
	NightlyRate *float64 `db:"nightly_rate" json:"nightly_rate" validate:"omitempty,gt=0"`
	Capacity    *int     `db:"capacity"     json:"capacity"     validate:"omitempty,min=1"`
	Description *string  `db:"description"  json:"description"  validate:"omitempty,max=500"`
	Active      *bool    `db:"active"       json:"active"       validate:"omitempty"`
}

type RoomResponse struct {
	ID          string  `json:"id"`
	Number      string  `json:"number"`
	Type        string  `json:"type"`
	NightlyRate float64 `json:"nightly_rate"`
	Capacity    int     `json:"capacity"`
	Description string  `json:"description"`
	Active      bool    `json:"active"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Number = model.Number
	r.Type = model.Type
	r.NightlyRate = model.NightlyRate
	r.Capacity = model.Capacity
	r.Description = model.Description
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (g *GetRoomsResponse) FromModels(models []model.Room, total, limit int) {
	g.Rooms = make([]RoomResponse, 0, len(models))

	for _, m := range models {
		res := RoomResponse{}
		res.FromModel(m)

		g.Rooms = append(g.Rooms, res)
	}

	g.TotalData = total
	g.TotalPage = shared.CalculateTotalPage(total, limit)
}
