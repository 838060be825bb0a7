package models

import (
	"time"
)

// Payment is an append-only ledger entry. Rows are never updated or
// deleted by this service. RoomID is a weak reference: the room may be
// removed later and the ledger entry stays valid.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`

	Reference string    `gorm:"column:reference;size:64;uniqueIndex" json:"reference"`
	RoomID    uint      `gorm:"column:room_id;index" json:"roomId"`
	Amount    float64   `gorm:"column:amount" json:"amount"`
	Date      time.Time `gorm:"column:date" json:"date"`
}
