package model

import "lodge/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID           = "id"
	FieldName         = "name"
	FieldDescription  = "description"
	FieldCapacity     = "capacity"
	FieldNightlyPrice = "nightly_price"
	FieldActive       = "active"
)

// Room is a bookable room type. Capacity is the number of identical units
// on offer per night; NightlyPrice is in minor currency units.
type Room struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Description  string `db:"description"`
	Capacity     int    `db:"capacity"`
	NightlyPrice int64  `db:"nightly_price"`
	Active       bool   `db:"active"`
	model.Metadata
}

// RoomAvailability is the search projection row: a room joined with the
// minimum availability over the requested stay.
type RoomAvailability struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Description  string `db:"description"`
	Capacity     int    `db:"capacity"`
	NightlyPrice int64  `db:"nightly_price"`
	MinAvailable int    `db:"min_available"`
}
