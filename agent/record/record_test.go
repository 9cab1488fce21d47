package record

import (
	"strings"
	"testing"
	"time"
)

var fixedTime = time.Date(2025, time.March, 3, 9, 15, 0, 0, time.UTC)

func TestLeadRecordBlock(t *testing.T) {
	t.Parallel()

	rec := &LeadRecord{
		CreatedAt: fixedTime,
		Name:      "Ana",
		Email:     "ana@x.com",
		Interest:  "personal training",
	}
	block := rec.Block()

	for _, want := range []string{
		"LEAD CAPTURED: 2025-03-03 09:15:00",
		"Name: Ana\n",
		"Email: ana@x.com\n",
		"Phone: Not provided\n",
		"Interest: personal training\n",
	} {
		if !strings.Contains(block, want) {
			t.Fatalf("Block() missing %q in:\n%s", want, block)
		}
	}
	if !strings.HasPrefix(block, "\n"+blockRule+"\n") {
		t.Fatalf("Block() must start with a rule line, got %q", block[:10])
	}
	if !strings.HasSuffix(block, blockRule+"\n\n") {
		t.Fatal("Block() must end with a rule line and a blank line")
	}
}

func TestFeedbackRecordBlockUppercasesSeverity(t *testing.T) {
	t.Parallel()

	rec := &FeedbackRecord{
		TicketID:     "FB-20250303091500000-1",
		CreatedAt:    fixedTime,
		CustomerName: "Anonymous",
		Severity:     "high",
		Feedback:     "Showers were cold",
	}
	block := rec.Block()
	if !strings.Contains(block, "Severity: HIGH\n") {
		t.Fatalf("Block() = %q, want upper-cased severity", block)
	}
	if !strings.Contains(block, "Ticket #: FB-20250303091500000-1\n") {
		t.Fatalf("Block() = %q, want ticket line", block)
	}
}

func TestBookingRecordBlockDefaultsStatus(t *testing.T) {
	t.Parallel()

	rec := &BookingRecord{
		BookingID:     "TRIAL-20250303091500000-1",
		CreatedAt:     fixedTime,
		Name:          "Ben",
		Email:         "ben@x.com",
		SessionType:   "yoga",
		SessionLabel:  "Yoga Class",
		PreferredDate: "Wednesday, March 5, 2025",
	}
	block := rec.Block()
	for _, want := range []string{
		"TRIAL SESSION BOOKED: 2025-03-03 09:15:00",
		"Session Type: Yoga Class\n",
		"Status: PENDING CONFIRMATION\n",
	} {
		if !strings.Contains(block, want) {
			t.Fatalf("Block() missing %q in:\n%s", want, block)
		}
	}
}

func TestSinksValidate(t *testing.T) {
	t.Parallel()

	if err := (Sinks{}).Validate(); err == nil {
		t.Fatal("Validate() expected error for empty sinks")
	}
	sinks, err := NewFileSinks(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSinks() error = %v", err)
	}
	if err := sinks.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}
