package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Room statuses. The status column changes only through
// services.RoomService; nothing else writes it.
const (
	RoomStatusFree     = "free"
	RoomStatusReserved = "reserved"
)

type Room struct {
	gorm.Model

	Number      int     `json:"number" gorm:"column:number;uniqueIndex"`
	Type        string  `json:"type" gorm:"type:varchar(50)"`
	Description string  `json:"description" gorm:"type:text"`
	Price       float64 `json:"price"`
	Capacity    int     `json:"capacity"`
	Status      string  `json:"status" gorm:"size:32;default:free"`

	// Free-form extras (wifi, view, ...). Optional, informational only.
	Amenities datatypes.JSON `json:"amenities,omitempty" gorm:"column:amenities"`
}
