package record

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type Kind string

const (
	KindLead     Kind = "lead"
	KindFeedback Kind = "feedback"
	KindBooking  Kind = "booking"
)

// StatusPendingConfirmation is the status every new booking starts with.
const StatusPendingConfirmation = "PENDING CONFIRMATION"

const (
	timestampLayout = "2006-01-02 15:04:05"
	notProvided     = "Not provided"
)

var blockRule = strings.Repeat("=", 60)

// Record is a flat business record written once to its sink.
type Record interface {
	Kind() Kind
	// Block renders the human-readable, newline-terminated form appended to text sinks.
	Block() string
}

// Sink is an append-only destination for one record kind.
// Append must write the whole record or nothing.
type Sink interface {
	Append(ctx context.Context, rec Record) error
}

type LeadRecord struct {
	bun.BaseModel `bun:"table:leads,alias:l"`

	ID        int64     `bun:"id,pk,autoincrement" json:"-"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,notnull" json:"email"`
	Phone     string    `bun:"phone" json:"phone,omitempty"`
	Interest  string    `bun:"interest,notnull" json:"interest"`
}

func (r *LeadRecord) Kind() Kind { return KindLead }

func (r *LeadRecord) Block() string {
	phone := r.Phone
	if strings.TrimSpace(phone) == "" {
		phone = notProvided
	}
	return renderBlock(
		fmt.Sprintf("LEAD CAPTURED: %s", r.CreatedAt.Format(timestampLayout)),
		"Name: "+r.Name,
		"Email: "+r.Email,
		"Phone: "+phone,
		"Interest: "+r.Interest,
	)
}

type FeedbackRecord struct {
	bun.BaseModel `bun:"table:feedback,alias:f"`

	TicketID     string    `bun:"ticket_id,pk" json:"ticket_id"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"created_at"`
	CustomerName string    `bun:"customer_name,notnull" json:"customer_name"`
	Severity     string    `bun:"severity,notnull" json:"severity"`
	Feedback     string    `bun:"feedback,notnull" json:"feedback"`
}

func (r *FeedbackRecord) Kind() Kind { return KindFeedback }

func (r *FeedbackRecord) Block() string {
	return renderBlock(
		fmt.Sprintf("FEEDBACK RECEIVED: %s", r.CreatedAt.Format(timestampLayout)),
		"Ticket #: "+r.TicketID,
		"From: "+r.CustomerName,
		"Severity: "+strings.ToUpper(r.Severity),
		"Feedback: "+r.Feedback,
	)
}

type BookingRecord struct {
	bun.BaseModel `bun:"table:bookings,alias:b"`

	BookingID     string    `bun:"booking_id,pk" json:"booking_id"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"created_at"`
	Name          string    `bun:"name,notnull" json:"name"`
	Email         string    `bun:"email,notnull" json:"email"`
	SessionType   string    `bun:"session_type,notnull" json:"session_type"`
	SessionLabel  string    `bun:"session_label,notnull" json:"session_label"`
	PreferredDate string    `bun:"preferred_date,notnull" json:"preferred_date"`
	Status        string    `bun:"status,notnull" json:"status"`
}

func (r *BookingRecord) Kind() Kind { return KindBooking }

func (r *BookingRecord) Block() string {
	status := r.Status
	if status == "" {
		status = StatusPendingConfirmation
	}
	return renderBlock(
		fmt.Sprintf("TRIAL SESSION BOOKED: %s", r.CreatedAt.Format(timestampLayout)),
		"Booking ID: "+r.BookingID,
		"Name: "+r.Name,
		"Email: "+r.Email,
		"Session Type: "+r.SessionLabel,
		"Preferred Date: "+r.PreferredDate,
		"Status: "+status,
	)
}

func renderBlock(lines ...string) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(blockRule)
	b.WriteString("\n")
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(blockRule)
	b.WriteString("\n\n")
	return b.String()
}

// Sinks groups the three independent destinations, one per record kind.
type Sinks struct {
	Leads    Sink
	Feedback Sink
	Bookings Sink
}

func (s Sinks) Validate() error {
	if s.Leads == nil || s.Feedback == nil || s.Bookings == nil {
		return fmt.Errorf("record: all three sinks are required")
	}
	return nil
}
