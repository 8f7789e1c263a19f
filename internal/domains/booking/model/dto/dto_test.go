package dto_test

import (
	"testing"
	"time"

	"lodge/internal/domains/booking/model"
	"lodge/internal/domains/booking/model/dto"
)

func TestCreateBookingRequest_ToModel(t *testing.T) {
	req := dto.CreateBookingRequest{
		RoomID:    "room-1",
		StartDate: "2025-12-01",
		EndDate:   "2025-12-03",
		Quantity:  2,
	}

	booking, err := req.ToModel("guest-1", 120000)
	if err != nil {
		t.Fatalf("ToModel() failed: %v", err)
	}

	if booking.ID == "" {
		t.Error("expected a generated booking ID")
	}

	if booking.Status != model.StatusConfirmed {
		t.Errorf("expected confirmed status, got %s", booking.Status)
	}

	if booking.Nights() != 2 {
		t.Errorf("expected 2 nights, got %d", booking.Nights())
	}

	// 2 nights x 2 units x 120000 minor units
	if booking.TotalPrice != 480000 {
		t.Errorf("expected total price 480000, got %d", booking.TotalPrice)
	}

	expectedStart := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	if !booking.StartDate.Equal(expectedStart) {
		t.Errorf("expected start %v, got %v", expectedStart, booking.StartDate)
	}

	if booking.CreatedBy != "guest-1" || booking.ModifiedBy != "guest-1" {
		t.Error("expected metadata to be stamped with the user")
	}
}

func TestCreateBookingRequest_ToModelInvalidDates(t *testing.T) {
	req := dto.CreateBookingRequest{
		RoomID:    "room-1",
		StartDate: "01/12/2025",
		EndDate:   "2025-12-03",
		Quantity:  1,
	}

	if _, err := req.ToModel("guest-1", 120000); err == nil {
		t.Error("expected malformed start date to fail")
	}
}

func TestBookingResponse_FromModel(t *testing.T) {
	cancelledAt := time.Date(2025, 12, 2, 10, 30, 0, 0, time.UTC)
	reason := "plans changed"

	booking := model.Booking{
		ID:           "booking-1",
		RoomID:       "room-1",
		StartDate:    time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, 12, 3, 0, 0, 0, 0, time.UTC),
		Quantity:     2,
		TotalPrice:   480000,
		Status:       model.StatusCancelled,
		CancelledAt:  &cancelledAt,
		CancelReason: &reason,
	}

	res := dto.BookingResponse{}
	res.FromModel(booking)

	if res.StartDate != "2025-12-01" || res.EndDate != "2025-12-03" {
		t.Errorf("expected day formatted dates, got %s / %s", res.StartDate, res.EndDate)
	}

	if res.CancelledAt == nil {
		t.Fatal("expected cancelled_at to be set")
	}

	if res.CancelReason == nil || *res.CancelReason != reason {
		t.Error("expected cancel reason to be carried over")
	}
}

func TestNewBookingEvent(t *testing.T) {
	booking := model.Booking{
		ID:        "booking-1",
		RoomID:    "room-1",
		StartDate: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 3, 0, 0, 0, 0, time.UTC),
		Quantity:  2,
		Status:    model.StatusConfirmed,
	}

	event := dto.NewBookingEvent(dto.EventBookingConfirmed, booking)

	if event.Type != "booking.confirmed" {
		t.Errorf("unexpected event type %s", event.Type)
	}

	if event.BookingID != "booking-1" || event.RoomID != "room-1" {
		t.Error("expected booking identifiers to be carried over")
	}

	if event.StartDate != "2025-12-01" || event.EndDate != "2025-12-03" {
		t.Error("expected day formatted dates on the event")
	}

	if event.OccurredAt.IsZero() {
		t.Error("expected occurrence timestamp to be set")
	}
}
