package models

import (
	"time"

	"cleancut-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
	RoleAdmin    = "admin"
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	DisplayName string    `gorm:"not null" json:"displayName"`
	PhoneNumber string    `gorm:"index" json:"phoneNumber"`

	Role string `gorm:"type:varchar(20);not null;default:'customer'" json:"role"` // customer, owner or admin

	IsEmailVerified bool `gorm:"default:false" json:"isEmailVerified"`
	IsPhoneVerified bool `gorm:"default:false" json:"isPhoneVerified"`
	IsActive        bool `gorm:"default:true" json:"isActive"`

	LastLogin *time.Time `json:"lastLogin,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Initialize UUID and hash password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}

// IsOwner reports whether the user may access owner surfaces.
// Admins pass as owners.
func (u *User) IsOwner() bool {
	return u.Role == RoleOwner || u.Role == RoleAdmin
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) HasRole(role string) bool {
	return u.Role == role
}
