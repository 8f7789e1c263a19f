package model

import (
	"lodge/shared/model"
	"lodge/shared/timezone"
	"time"
)

const (
	TableName  = "availability_days"
	EntityName = "availability"

	FieldID             = "id"
	FieldRoomID         = "room_id"
	FieldDay            = "day"
	FieldTotalUnits     = "total_units"
	FieldAvailableUnits = "available_units"
)

// AvailabilityDay is one row of the per-room inventory ledger. available_units
// only moves through conditional updates, never through blind writes.
type AvailabilityDay struct {
	ID             string    `db:"id"`
	RoomID         string    `db:"room_id"`
	Day            time.Time `db:"day"`
	TotalUnits     int       `db:"total_units"`
	AvailableUnits int       `db:"available_units"`
	model.Metadata
}

// DaySet returns the calendar days a stay occupies, ascending. The checkout
// day is excluded: a guest leaving on end does not hold a unit that night.
func DaySet(start, end time.Time) []time.Time {
	start = timezone.Day(start)
	end = timezone.Day(end)

	if !start.Before(end) {
		return nil
	}

	days := make([]time.Time, 0, int(end.Sub(start).Hours())/24)
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}

	return days
}

// Nights returns the number of nights between check-in and checkout.
func Nights(start, end time.Time) int {
	return len(DaySet(start, end))
}

// RangeSummary aggregates the ledger over a day-set.
type RangeSummary struct {
	MinAvailable int `db:"min_available"`
	CoveredDays  int `db:"covered_days"`
}
