package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

type Booking struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`

	// Contact details are snapshotted at booking time so later profile
	// edits do not rewrite past appointments.
	CustomerName  string `gorm:"not null" json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	CustomerEmail string `json:"customerEmail"`

	Service string `gorm:"not null" json:"service"` // service catalog code
	Date    string `gorm:"type:varchar(10);index;not null" json:"date"` // YYYY-MM-DD
	Time    string `gorm:"type:varchar(5);not null" json:"time"`        // HH:MM

	Status string `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Notes  string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = BookingPending
	}
	return
}

// BookingSlot is a single entry of the daily availability grid.
type BookingSlot struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// BookingStats is recomputed on demand, never persisted.
type BookingStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
	ThisMonth int64 `json:"thisMonth"`
}
