package validator_test

import (
	"net/http"
	"strings"
	"testing"

	"lodge/shared/failure"
	"lodge/shared/validator"
)

type bookingPayload struct {
	RoomID    string `json:"room_id"    validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   validate:"required,datetime=2006-01-02"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		payload bookingPayload
		wantErr bool
	}{
		{
			name: "valid payload",
			payload: bookingPayload{
				RoomID:    "room-1",
				StartDate: "2025-12-01",
				EndDate:   "2025-12-03",
				Quantity:  1,
			},
		},
		{
			name: "missing room",
			payload: bookingPayload{
				StartDate: "2025-12-01",
				EndDate:   "2025-12-03",
				Quantity:  1,
			},
			wantErr: true,
		},
		{
			name: "malformed date",
			payload: bookingPayload{
				RoomID:    "room-1",
				StartDate: "01/12/2025",
				EndDate:   "2025-12-03",
				Quantity:  1,
			},
			wantErr: true,
		},
		{
			name: "zero quantity",
			payload: bookingPayload{
				RoomID:    "room-1",
				StartDate: "2025-12-01",
				EndDate:   "2025-12-03",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.payload)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if failure.GetCode(err) != http.StatusBadRequest {
					t.Errorf("expected 400, got %d", failure.GetCode(err))
				}
			} else if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	body := strings.NewReader(`{"room_id":"room-1","start_date":"2025-12-01","end_date":"2025-12-03","quantity":2}`)

	payload := bookingPayload{}
	if err := validator.Validate(body, &payload); err != nil {
		t.Fatalf("expected valid body to pass, got %v", err)
	}

	if payload.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", payload.Quantity)
	}

	malformed := strings.NewReader(`{"room_id":`)
	if err := validator.Validate(malformed, &bookingPayload{}); err == nil {
		t.Error("expected malformed JSON to fail")
	}
}

func TestValidateVar(t *testing.T) {
	if err := validator.ValidateVar("2025-12-01", "datetime=2006-01-02"); err != nil {
		t.Errorf("expected valid day to pass, got %v", err)
	}

	if err := validator.ValidateVar("not-a-day", "datetime=2006-01-02"); err == nil {
		t.Error("expected invalid day to fail")
	}

	if err := validator.ValidateVar("guest@example.com", "email"); err != nil {
		t.Errorf("expected valid email to pass, got %v", err)
	}
}

func TestValidationMessages(t *testing.T) {
	payload := bookingPayload{
		RoomID:    "room-1",
		StartDate: "bad-date",
		EndDate:   "2025-12-03",
		Quantity:  1,
	}

	err := validator.ValidateStruct(&payload)
	if err == nil {
		t.Fatal("expected validation error")
	}

	if !strings.Contains(err.Error(), "2006-01-02") {
		t.Errorf("expected message to carry the expected format, got %q", err.Error())
	}
}
