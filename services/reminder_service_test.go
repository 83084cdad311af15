package services

import (
	"testing"
	"time"

	"cleancut-backend/models"

	"github.com/robfig/cron/v3"
)

type recordingSender struct {
	sent []string
	err  error
}

func (r *recordingSender) Send(to, body string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.sent = append(r.sent, to)
	return "SM-test", nil
}

func TestSendUpcomingReminders(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	bookings := NewBookingService(db)

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	confirmed, err := bookings.CreateBooking(user, BookingInput{Service: "haircut", Date: tomorrow, Time: "10:00"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := bookings.UpdateStatus(confirmed.ID, models.BookingConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	// still pending, must not be reminded
	if _, err := bookings.CreateBooking(user, BookingInput{Service: "beard", Date: tomorrow, Time: "11:00"}); err != nil {
		t.Fatalf("create pending: %v", err)
	}

	sender := &recordingSender{}
	svc := &ReminderService{db: db, sender: sender, cron: cron.New()}

	svc.SendUpcomingReminders()

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 reminder, sent %d", len(sender.sent))
	}
	if sender.sent[0] != user.PhoneNumber {
		t.Fatalf("reminder sent to %s, want %s", sender.sent[0], user.PhoneNumber)
	}

	var count int64
	db.Model(&models.ReminderLog{}).Where("status = ?", "sent").Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 sent log entry, got %d", count)
	}

	// a second run does not remind the same booking again
	svc.SendUpcomingReminders()
	if len(sender.sent) != 1 {
		t.Fatalf("booking reminded twice, sent %d", len(sender.sent))
	}
}

func TestSendUpcomingRemindersLogsFailures(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	bookings := NewBookingService(db)

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	b, err := bookings.CreateBooking(user, BookingInput{Service: "haircut", Date: tomorrow, Time: "10:00"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	bookings.UpdateStatus(b.ID, models.BookingConfirmed)

	sender := &recordingSender{err: errDeliveryDown}
	svc := &ReminderService{db: db, sender: sender, cron: cron.New()}

	svc.SendUpcomingReminders()

	var failed int64
	db.Model(&models.ReminderLog{}).Where("status = ?", "failed").Count(&failed)
	if failed != 1 {
		t.Fatalf("expected 1 failed log entry, got %d", failed)
	}

	// failed sends are retried on the next run
	sender.err = nil
	svc.SendUpcomingReminders()
	if len(sender.sent) != 1 {
		t.Fatalf("expected retry after failure, sent %d", len(sender.sent))
	}
}

var errDeliveryDown = errTest("sms gateway unavailable")

type errTest string

func (e errTest) Error() string { return string(e) }
