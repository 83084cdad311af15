// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"cleancut-backend/models"
	"cleancut-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// smsSender abstracts message delivery so reminders can run without a
// configured Twilio account (messages are logged instead).
type smsSender interface {
	Send(to, body string) (sid string, err error)
}

type twilioSender struct {
	client *twilio.RestClient
	from   string
}

func (t *twilioSender) Send(to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid != nil {
		return *resp.Sid, nil
	}
	return "", nil
}

type logSender struct{}

func (logSender) Send(to, body string) (string, error) {
	log.Printf("[REMINDER] would send to %s: %s", to, body)
	return "", nil
}

type ReminderService struct {
	db     *gorm.DB
	sender smsSender
	cron   *cron.Cron
}

func NewReminderService(db *gorm.DB) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_PHONE_NUMBER")

	var sender smsSender = logSender{}
	if accountSid != "" && from != "" {
		sender = &twilioSender{
			client: twilio.NewRestClientWithParams(twilio.ClientParams{
				Username: accountSid,
				Password: authToken,
			}),
			from: from,
		}
	}

	return &ReminderService{db: db, sender: sender, cron: cron.New()}
}

func (s *ReminderService) StartScheduler() {
	// Run every day at 8 AM
	s.cron.AddFunc("0 8 * * *", s.SendUpcomingReminders)
	s.cron.Start()
	log.Println("Reminder scheduler started")
}

func (s *ReminderService) Stop() {
	s.cron.Stop()
}

// SendUpcomingReminders messages every confirmed booking scheduled for
// tomorrow that has not been reminded yet, and logs each attempt.
func (s *ReminderService) SendUpcomingReminders() {
	log.Println("Starting appointment reminder processing...")

	tomorrow := utils.BeginningOfDay(time.Now()).AddDate(0, 0, 1).Format("2006-01-02")

	var bookings []models.Booking
	if err := s.db.Where("date = ? AND status = ?", tomorrow, models.BookingConfirmed).
		Find(&bookings).Error; err != nil {
		log.Printf("Failed to fetch bookings for %s: %v", tomorrow, err)
		return
	}

	for _, booking := range bookings {
		if booking.CustomerPhone == "" {
			continue
		}
		if s.alreadyReminded(booking) {
			continue
		}
		s.sendReminder(booking)
	}

	log.Println("Appointment reminder processing completed")
}

func (s *ReminderService) alreadyReminded(booking models.Booking) bool {
	var count int64
	s.db.Model(&models.ReminderLog{}).
		Where("booking_id = ? AND status = ?", booking.ID, "sent").
		Count(&count)
	return count > 0
}

func (s *ReminderService) sendReminder(booking models.Booking) {
	message := fmt.Sprintf(
		"Hi %s, a reminder for your CleanCut appointment tomorrow (%s) at %s. See you there!",
		booking.CustomerName, booking.Date, booking.Time,
	)

	sid, err := s.sender.Send(booking.CustomerPhone, message)
	status := "sent"
	errorMsg := ""

	if err != nil {
		log.Printf("Failed to send reminder to %s: %v", booking.CustomerPhone, err)
		status = "failed"
		errorMsg = err.Error()
	} else if sid != "" {
		log.Printf("Reminder sent to %s, SID: %s", booking.CustomerPhone, sid)
	}

	reminderLog := models.ReminderLog{
		BookingID:    booking.ID,
		Phone:        booking.CustomerPhone,
		Message:      message,
		Status:       status,
		ErrorMessage: errorMsg,
		SentAt:       time.Now(),
	}

	if err := s.db.Create(&reminderLog).Error; err != nil {
		log.Printf("Failed to log reminder for booking %s: %v", booking.ID, err)
	}
}
