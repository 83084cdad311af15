package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Code        string    `gorm:"uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Duration    int       `json:"duration"` // in minutes
	IsActive    bool      `gorm:"default:true" json:"isActive"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// SeedDefaultServices inserts the shop's standard menu if missing.
func SeedDefaultServices(db *gorm.DB) error {
	defaults := []Service{
		{Code: "haircut", Name: "Classic Haircut", Price: 300, Duration: 30},
		{Code: "beard", Name: "Beard Trim & Shape", Price: 200, Duration: 20},
		{Code: "shave", Name: "Hot Towel Shave", Price: 250, Duration: 25},
		{Code: "champi", Name: "Champi (Head Massage)", Price: 150, Duration: 15},
		{Code: "package", Name: "Complete Grooming Package", Price: 600, Duration: 75},
	}

	for _, svc := range defaults {
		if err := db.Where("code = ?", svc.Code).FirstOrCreate(&svc).Error; err != nil {
			return err
		}
	}
	return nil
}
