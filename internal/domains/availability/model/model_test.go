package model_test

import (
	"testing"
	"time"

	"lodge/internal/domains/availability/model"
)

func TestDaySet(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, 12, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected []time.Time
	}{
		{
			name:     "two night stay excludes checkout day",
			start:    day(1),
			end:      day(3),
			expected: []time.Time{day(1), day(2)},
		},
		{
			name:     "single night",
			start:    day(1),
			end:      day(2),
			expected: []time.Time{day(1)},
		},
		{
			name:  "zero nights",
			start: day(1),
			end:   day(1),
		},
		{
			name:  "inverted range",
			start: day(3),
			end:   day(1),
		},
		{
			name:     "timestamps are normalized to day boundaries",
			start:    time.Date(2025, 12, 1, 14, 30, 0, 0, time.UTC),
			end:      time.Date(2025, 12, 3, 9, 15, 0, 0, time.UTC),
			expected: []time.Time{day(1), day(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := model.DaySet(tt.start, tt.end)

			if len(days) != len(tt.expected) {
				t.Fatalf("expected %d days, got %d", len(tt.expected), len(days))
			}

			for i, expected := range tt.expected {
				if !days[i].Equal(expected) {
					t.Errorf("day %d: expected %v, got %v", i, expected, days[i])
				}
			}
		})
	}
}

func TestNights(t *testing.T) {
	start := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	if nights := model.Nights(start, start.AddDate(0, 0, 3)); nights != 3 {
		t.Errorf("expected 3 nights, got %d", nights)
	}

	if nights := model.Nights(start, start); nights != 0 {
		t.Errorf("expected 0 nights for same-day range, got %d", nights)
	}
}
