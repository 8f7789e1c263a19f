package dto

import (
	"lodge/internal/domains/room/model"
	"lodge/shared"
	gDto "lodge/shared/dto"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	Name         string `json:"name"          validate:"required,max=100"`
	Description  string `json:"description"   validate:"omitempty,max=500"`
	Capacity     int    `json:"capacity"      validate:"required,min=1"`
	NightlyPrice int64  `json:"nightly_price" validate:"required,min=0"`
	Active       *bool  `json:"active"        validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Room{
		ID:           uuid.NewString(),
		Name:         c.Name,
		Description:  c.Description,
		Capacity:     c.Capacity,
		NightlyPrice: c.NightlyPrice,
		Active:       active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	Name         string `db:"name"          json:"name"          validate:"omitempty,max=100"`
	Description  string `db:"description"   json:"description"   validate:"omitempty,max=500"`
	Capacity     *int   `db:"capacity"      json:"capacity"      validate:"omitempty,min=1"`
	NightlyPrice *int64 `db:"nightly_price" json:"nightly_price" validate:"omitempty,min=0"`
	Active       *bool  `db:"active"        json:"active"        validate:"omitempty"`
}

type RoomResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Capacity     int    `json:"capacity"`
	NightlyPrice int64  `json:"nightly_price"`
	Active       bool   `json:"active"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Capacity = model.Capacity
	r.NightlyPrice = model.NightlyPrice
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

type SearchRoomResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Capacity     int    `json:"capacity"`
	NightlyPrice int64  `json:"nightly_price"`
	MinAvailable int    `json:"min_available"`
}

func (s *SearchRoomResponse) FromModel(model model.RoomAvailability) {
	s.ID = model.ID
	s.Name = model.Name
	s.Description = model.Description
	s.Capacity = model.Capacity
	s.NightlyPrice = model.NightlyPrice
	s.MinAvailable = model.MinAvailable
}

type SearchRoomsResponse struct {
	StartDate string               `json:"start_date"`
	EndDate   string               `json:"end_date"`
	Nights    int                  `json:"nights"`
	Rooms     []SearchRoomResponse `json:"rooms"`
}

func (s *SearchRoomsResponse) FromModels(models []model.RoomAvailability) {
	s.Rooms = make([]SearchRoomResponse, len(models))
	for i, mod := range models {
		s.Rooms[i].FromModel(mod)
	}
}
