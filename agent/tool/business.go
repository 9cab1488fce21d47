package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/fitfusion-assistant/agent/contract"
	"github.com/tanpawarit/fitfusion-assistant/agent/record"
)

const (
	SessionPersonalTraining = "personal_training"
	SessionGroupClass       = "group_class"
	SessionNutrition        = "nutrition"
)

var sessionLabels = map[string]string{
	SessionPersonalTraining: "Personal Training Session",
	SessionGroupClass:       "Group Fitness Class",
	SessionNutrition:        "Nutrition Consultation",
}

// SessionLabel maps a session type to its display label; unknown types are shown verbatim.
func SessionLabel(sessionType string) string {
	if label, ok := sessionLabels[sessionType]; ok {
		return label
	}
	return sessionType
}

// BookingNotice is published after a booking is stored.
type BookingNotice struct {
	BookingID     string `json:"booking_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	SessionType   string `json:"session_type"`
	PreferredDate string `json:"preferred_date"`
	Status        string `json:"status"`
}

type ServiceOption func(*Service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithBookingPublisher sends a BookingNotice to destination after each booking.
func WithBookingPublisher(p contractx.Publisher, destination string) ServiceOption {
	return func(s *Service) {
		if p != nil && strings.TrimSpace(destination) != "" {
			s.publisher = p
			s.bookingDestination = strings.TrimSpace(destination)
		}
	}
}

// Service implements the studio's business tools over three record sinks.
type Service struct {
	sinks              record.Sinks
	now                func() time.Time
	ids                idGenerator
	publisher          contractx.Publisher
	bookingDestination string
}

func NewService(sinks record.Sinks, opts ...ServiceOption) (*Service, error) {
	if err := sinks.Validate(); err != nil {
		return nil, err
	}
	s := &Service{sinks: sinks, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

func (s *Service) RecordCustomerInterest(ctx context.Context, name, email, interest, phone string) (string, error) {
	rec := &record.LeadRecord{
		CreatedAt: s.now(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Interest:  interest,
	}
	if err := s.sinks.Leads.Append(ctx, rec); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Thank you %s! Your information has been recorded. Our team will contact you at %s within 24 hours to discuss %s.", name, email, interest), nil
}

func (s *Service) RecordFeedback(ctx context.Context, feedback, customerName, severity string) (string, error) {
	if customerName == "" {
		customerName = "Anonymous"
	}
	if severity == "" {
		severity = "medium"
	}
	now := s.now()
	rec := &record.FeedbackRecord{
		TicketID:     s.ids.next("FB", now),
		CreatedAt:    now,
		CustomerName: customerName,
		Severity:     severity,
		Feedback:     feedback,
	}
	if err := s.sinks.Feedback.Append(ctx, rec); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Thank you for your feedback! Ticket #%s has been created. Our team will review this %s priority item and respond accordingly.", rec.TicketID, severity), nil
}

func (s *Service) BookTrialSession(ctx context.Context, name, email, preferredDate, sessionType string) (string, error) {
	now := s.now()
	label := SessionLabel(sessionType)
	rec := &record.BookingRecord{
		BookingID:     s.ids.next("TRIAL", now),
		CreatedAt:     now,
		Name:          name,
		Email:         email,
		SessionType:   sessionType,
		SessionLabel:  label,
		PreferredDate: preferredDate,
		Status:        record.StatusPendingConfirmation,
	}
	if err := s.sinks.Bookings.Append(ctx, rec); err != nil {
		return "", err
	}
	s.notifyBooking(ctx, rec)

	return fmt.Sprintf(`✅ Excellent! Your trial %s has been requested.

Booking ID: %s
Preferred Date: %s

We'll send a confirmation email to %s within 2 hours with available time slots.
Please bring comfortable workout clothes and arrive 10 minutes early. We're excited to meet you!`,
		label, rec.BookingID, preferredDate, email), nil
}

// CheckClassAvailability never writes and never fails; bad input yields corrective text.
func (s *Service) CheckClassAvailability(classType, preferredDay string) string {
	class := strings.ToLower(strings.TrimSpace(classType))
	dayToken := strings.ToLower(strings.TrimSpace(preferredDay))

	day, dayOK := resolveDay(dayToken, s.now())
	if dayOK {
		dayToken = strings.ToLower(day.String())
	}

	times, found := Slots(class, day)
	if !found {
		return fmt.Sprintf("⚠️  Class type '%s' not found. Available classes: %s", class, strings.Join(ClassTypes(), ", "))
	}
	if !dayOK || len(times) == 0 {
		return fmt.Sprintf("⚠️  No %s classes scheduled for %s. Try another day!", class, capitalize(dayToken))
	}

	lines := make([]string, 0, len(times))
	for _, t := range times {
		lines = append(lines, "  • "+t)
	}
	return fmt.Sprintf("✅ %s classes available on %s:\n\n%s\n\nEach class is 60 minutes. Book your spot by telling me your name, email, and preferred time!",
		capitalize(class), capitalize(dayToken), strings.Join(lines, "\n"))
}

func (s *Service) notifyBooking(ctx context.Context, rec *record.BookingRecord) {
	if s.publisher == nil {
		return
	}
	notice := BookingNotice{
		BookingID:     rec.BookingID,
		Name:          rec.Name,
		Email:         rec.Email,
		SessionType:   rec.SessionType,
		PreferredDate: rec.PreferredDate,
		Status:        rec.Status,
	}
	if err := s.publisher.Publish(ctx, s.bookingDestination, notice); err != nil {
		log.Warn().Err(err).Str("booking_id", rec.BookingID).Msg("booking notification failed")
	}
}

// Funcs binds the service's operations to catalog tool names.
func (s *Service) Funcs() map[string]Func {
	return map[string]Func{
		ToolRecordCustomerInterest: func(ctx context.Context, a Args) (string, error) {
			return s.RecordCustomerInterest(ctx, a.String("name"), a.String("email"), a.String("interest"), a.String("phone"))
		},
		ToolRecordFeedback: func(ctx context.Context, a Args) (string, error) {
			return s.RecordFeedback(ctx, a.String("feedback"), a.String("customer_name"), a.String("severity"))
		},
		ToolBookTrialSession: func(ctx context.Context, a Args) (string, error) {
			return s.BookTrialSession(ctx, a.String("name"), a.String("email"), a.String("preferred_date"), a.String("session_type"))
		},
		ToolCheckClassAvailability: func(_ context.Context, a Args) (string, error) {
			return s.CheckClassAvailability(a.String("class_type"), a.String("preferred_day")), nil
		},
	}
}
