// services/booking_service.go
package services

import (
	"errors"
	"log"
	"time"

	"cleancut-backend/models"
	"cleancut-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SlotTimes is the fixed daily appointment grid. The midday gap is the
// shop's lunch break.
var SlotTimes = []string{
	"09:00", "10:00", "11:00", "12:00",
	"14:00", "15:00", "16:00", "17:00", "18:00",
}

var (
	ErrNotAuthenticated = errors.New("user not authenticated")
	ErrBookingNotFound  = errors.New("booking not found")
)

type BookingInput struct {
	Service string `json:"service" binding:"required"`
	Date    string `json:"date" binding:"required"`
	Time    string `json:"time" binding:"required"`
	Notes   string `json:"notes"`
}

type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// ListAvailableSlots returns the daily grid for date with each slot
// marked unavailable iff a non-cancelled booking holds that exact time.
// On query failure every slot is reported available; existing bookings
// are not lost, only the availability view degrades.
func (s *BookingService) ListAvailableSlots(date string) []models.BookingSlot {
	var bookedTimes []string
	err := s.db.Model(&models.Booking{}).
		Where("date = ? AND status <> ?", date, models.BookingCancelled).
		Pluck("time", &bookedTimes).Error
	if err != nil {
		log.Printf("Failed to load bookings for %s, treating all slots as available: %v", date, err)
		bookedTimes = nil
	}

	booked := make(map[string]bool, len(bookedTimes))
	for _, t := range bookedTimes {
		booked[t] = true
	}

	slots := make([]models.BookingSlot, 0, len(SlotTimes))
	for _, t := range SlotTimes {
		slots = append(slots, models.BookingSlot{
			Date:      date,
			Time:      t,
			Available: !booked[t],
		})
	}
	return slots
}

// CreateBooking persists a pending booking for user, snapshotting the
// contact details. The availability check and the insert are separate
// round trips with no transactional guard, so two clients observing
// the same free slot can both book it.
func (s *BookingService) CreateBooking(user *models.User, input BookingInput) (*models.Booking, error) {
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	booking := models.Booking{
		UserID:        user.ID,
		CustomerName:  user.DisplayName,
		CustomerPhone: user.PhoneNumber,
		CustomerEmail: user.Email,
		Service:       input.Service,
		Date:          input.Date,
		Time:          input.Time,
		Status:        models.BookingPending,
		Notes:         input.Notes,
	}

	if err := s.db.Create(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetUserBookings lists a user's bookings, newest first.
func (s *BookingService) GetUserBookings(userID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// GetAllBookings lists every booking, newest first.
func (s *BookingService) GetAllBookings() ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

func (s *BookingService) GetBooking(id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// UpdateStatus overwrites a booking's status unconditionally. Illegal
// transitions (completed back to pending) are not rejected.
func (s *BookingService) UpdateStatus(id uuid.UUID, status string) (*models.Booking, error) {
	booking, err := s.GetBooking(id)
	if err != nil {
		return nil, err
	}

	booking.Status = status
	if err := s.db.Save(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) CancelBooking(id uuid.UUID) (*models.Booking, error) {
	return s.UpdateStatus(id, models.BookingCancelled)
}

// Stats recomputes booking counters from the collection on demand.
func (s *BookingService) Stats() (*models.BookingStats, error) {
	stats := &models.BookingStats{}

	if err := s.db.Model(&models.Booking{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	counts := map[string]*int64{
		models.BookingPending:   &stats.Pending,
		models.BookingConfirmed: &stats.Confirmed,
		models.BookingCompleted: &stats.Completed,
		models.BookingCancelled: &stats.Cancelled,
	}
	for status, dst := range counts {
		if err := s.db.Model(&models.Booking{}).Where("status = ?", status).Count(dst).Error; err != nil {
			return nil, err
		}
	}

	monthStart := utils.BeginningOfMonth(time.Now())
	err := s.db.Model(&models.Booking{}).
		Where("created_at >= ?", monthStart).
		Count(&stats.ThisMonth).Error
	return stats, err
}

// UserStats summarizes a single user's bookings for the profile page.
func (s *BookingService) UserStats(userID uuid.UUID) (map[string]int64, error) {
	var total, completed, pending int64

	base := func() *gorm.DB {
		return s.db.Model(&models.Booking{}).Where("user_id = ?", userID)
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.BookingCompleted).Count(&completed).Error; err != nil {
		return nil, err
	}
	if err := base().Where("status = ?", models.BookingPending).Count(&pending).Error; err != nil {
		return nil, err
	}

	return map[string]int64{
		"totalBookings":     total,
		"completedBookings": completed,
		"pendingBookings":   pending,
	}, nil
}
