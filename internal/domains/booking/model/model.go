package model

import (
	availabilityModel "lodge/internal/domains/availability/model"
	"lodge/shared/model"
	"time"
)

const (
	TableName  = "room_bookings"
	EntityName = "booking"

	FieldID           = "id"
	FieldRoomID       = "room_id"
	FieldStartDate    = "start_date"
	FieldEndDate      = "end_date"
	FieldQuantity     = "quantity"
	FieldTotalPrice   = "total_price"
	FieldStatus       = "status"
	FieldCancelledAt  = "cancelled_at"
	FieldCancelReason = "cancel_reason"
	FieldCreatedBy    = "created_by"

	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Booking is a confirmed reservation of quantity units for the nights
// start_date..end_date-1. EndDate is the checkout day and holds no unit.
type Booking struct {
	ID           string     `db:"id"`
	RoomID       string     `db:"room_id"`
	StartDate    time.Time  `db:"start_date"`
	EndDate      time.Time  `db:"end_date"`
	Quantity     int        `db:"quantity"`
	TotalPrice   int64      `db:"total_price"`
	Status       string     `db:"status"`
	CancelledAt  *time.Time `db:"cancelled_at"`
	CancelReason *string    `db:"cancel_reason"`
	model.Metadata
}

// DaySet returns the nights this booking occupies, ascending.
func (b *Booking) DaySet() []time.Time {
	return availabilityModel.DaySet(b.StartDate, b.EndDate)
}

// Nights returns how many nights the booking spans.
func (b *Booking) Nights() int {
	return availabilityModel.Nights(b.StartDate, b.EndDate)
}
