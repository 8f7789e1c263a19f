package dto

import (
	"lodge/internal/domains/booking/model"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"
	"time"

	"github.com/google/uuid"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

type CreateBookingRequest struct {
	RoomID    string `json:"room_id"    validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   validate:"required,datetime=2006-01-02"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`

	// IdempotencyKey comes from the Idempotency-Key header, not the body.
	IdempotencyKey string `json:"-"`
}

// ToModel builds a confirmed booking, normalizing both dates to UTC day
// boundaries and pricing the stay at nightlyPrice per unit per night.
func (c *CreateBookingRequest) ToModel(user string, nightlyPrice int64) (model.Booking, error) {
	startDate, err := timezone.ParseDay(c.StartDate)
	if err != nil {
		return model.Booking{}, err
	}

	endDate, err := timezone.ParseDay(c.EndDate)
	if err != nil {
		return model.Booking{}, err
	}

	booking := model.Booking{
		ID:        uuid.NewString(),
		RoomID:    c.RoomID,
		StartDate: startDate,
		EndDate:   endDate,
		Quantity:  c.Quantity,
		Status:    model.StatusConfirmed,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	booking.TotalPrice = nightlyPrice * int64(booking.Nights()) * int64(c.Quantity)

	return booking, nil
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

type BookingResponse struct {
	ID           string  `json:"id"`
	RoomID       string  `json:"room_id"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Quantity     int     `json:"quantity"`
	TotalPrice   int64   `json:"total_price"`
	Status       string  `json:"status"`
	CancelledAt  *string `json:"cancelled_at,omitempty"`
	CancelReason *string `json:"cancel_reason,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.StartDate = model.StartDate.Format(constant.DayFormat)
	r.EndDate = model.EndDate.Format(constant.DayFormat)
	r.Quantity = model.Quantity
	r.TotalPrice = model.TotalPrice
	r.Status = model.Status
	r.CancelReason = model.CancelReason

	if model.CancelledAt != nil {
		cancelledAt := model.CancelledAt.Format(constant.DateFormat)
		r.CancelledAt = &cancelledAt
	}

	r.Metadata.FromModel(model.Metadata)
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

// BookingEvent is the payload published to Kafka after a booking state
// change has been committed.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	RoomID     string    `json:"room_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Quantity   int       `json:"quantity"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType string, booking model.Booking) BookingEvent {
	return BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		StartDate:  booking.StartDate.Format(constant.DayFormat),
		EndDate:    booking.EndDate.Format(constant.DayFormat),
		Quantity:   booking.Quantity,
		Status:     booking.Status,
		OccurredAt: timezone.Now(),
	}
}
