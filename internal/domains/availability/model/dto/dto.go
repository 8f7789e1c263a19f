package dto

import (
	"lodge/internal/domains/availability/model"
	"lodge/shared/constant"
	gModel "lodge/shared/model"
	"lodge/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type ExtendHorizonRequest struct {
	RoomID string `json:"room_id" validate:"required"`
	Days   int    `json:"days"    validate:"required,min=1,max=730"`
}

// ToModels builds one ledger row per day starting today, all at full
// availability. Existing rows win on conflict.
func (e *ExtendHorizonRequest) ToModels(user string, totalUnits int) []model.AvailabilityDay {
	start := timezone.Day(timezone.Now())

	models := make([]model.AvailabilityDay, e.Days)
	for i := range e.Days {
		models[i] = model.AvailabilityDay{
			ID:             uuid.NewString(),
			RoomID:         e.RoomID,
			Day:            start.AddDate(0, 0, i),
			TotalUnits:     totalUnits,
			AvailableUnits: totalUnits,
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  user,
				ModifiedBy: user,
			},
		}
	}

	return models
}

// NewLedgerRows builds full-availability rows for an explicit day-set.
func NewLedgerRows(roomID, user string, days []time.Time, totalUnits int) []model.AvailabilityDay {
	models := make([]model.AvailabilityDay, len(days))
	for i, day := range days {
		models[i] = model.AvailabilityDay{
			ID:             uuid.NewString(),
			RoomID:         roomID,
			Day:            timezone.Day(day),
			TotalUnits:     totalUnits,
			AvailableUnits: totalUnits,
			Metadata: gModel.Metadata{
				CreatedAt:  timezone.Now(),
				ModifiedAt: timezone.Now(),
				CreatedBy:  user,
				ModifiedBy: user,
			},
		}
	}

	return models
}

type CalendarDayResponse struct {
	Day            string `json:"day"`
	TotalUnits     int    `json:"total_units"`
	AvailableUnits int    `json:"available_units"`
}

func (c *CalendarDayResponse) FromModel(model model.AvailabilityDay) {
	c.Day = model.Day.Format(constant.DayFormat)
	c.TotalUnits = model.TotalUnits
	c.AvailableUnits = model.AvailableUnits
}

type RangeSummaryResponse struct {
	MinAvailable int `json:"min_available"`
	CoveredDays  int `json:"covered_days"`
}

func (r *RangeSummaryResponse) FromModel(model model.RangeSummary) {
	r.MinAvailable = model.MinAvailable
	r.CoveredDays = model.CoveredDays
}

type GetCalendarResponse struct {
	RoomID  string                `json:"room_id"`
	Days    []CalendarDayResponse `json:"days"`
	Summary RangeSummaryResponse  `json:"summary"`
}

func (g *GetCalendarResponse) FromModels(roomID string, models []model.AvailabilityDay) {
	g.RoomID = roomID

	g.Days = make([]CalendarDayResponse, len(models))
	for i, mod := range models {
		g.Days[i].FromModel(mod)
	}
}
