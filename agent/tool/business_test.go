package tool

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tanpawarit/fitfusion-assistant/agent/record"
)

func TestCheckClassAvailabilityMatchesTable(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemSinks())
	for _, c := range weeklySchedule {
		for _, d := range c.days {
			day := strings.ToLower(d.day.String())
			got := svc.CheckClassAvailability(strings.ToUpper(c.class), "  "+day+" ")

			var listed []string
			for _, line := range strings.Split(got, "\n") {
				if strings.HasPrefix(line, "  • ") {
					listed = append(listed, strings.TrimPrefix(line, "  • "))
				}
			}
			if diff := cmp.Diff(d.times, listed); diff != "" {
				t.Fatalf("%s/%s slots mismatch (-want +got):\n%s", c.class, day, diff)
			}
		}
	}
}

func TestCheckClassAvailabilityMondayYoga(t *testing.T) {
	t.Parallel()

	got := newTestService(newMemSinks()).CheckClassAvailability("yoga", "monday")
	want := "✅ Yoga classes available on Monday:\n\n  • 6:00 AM\n  • 12:00 PM\n  • 6:30 PM\n\nEach class is 60 minutes. Book your spot by telling me your name, email, and preferred time!"
	if got != want {
		t.Fatalf("CheckClassAvailability() = %q, want %q", got, want)
	}
}

func TestCheckClassAvailabilityUnknownClassListsKeys(t *testing.T) {
	t.Parallel()

	got := newTestService(newMemSinks()).CheckClassAvailability("Zumba", "monday")
	want := "⚠️  Class type 'zumba' not found. Available classes: yoga, hiit, spin, strength, pilates, dance"
	if got != want {
		t.Fatalf("CheckClassAvailability() = %q, want %q", got, want)
	}
}

func TestCheckClassAvailabilityNotScheduled(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemSinks())
	if got := svc.CheckClassAvailability("dance", "monday"); got != "⚠️  No dance classes scheduled for Monday. Try another day!" {
		t.Fatalf("CheckClassAvailability() = %q", got)
	}
	if got := svc.CheckClassAvailability("yoga", "someday"); !strings.Contains(got, "No yoga classes scheduled for Someday") {
		t.Fatalf("CheckClassAvailability() = %q", got)
	}
}

func TestCheckClassAvailabilityTodayTomorrow(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMemSinks())
	// fixedNow is a Wednesday.
	if a, b := svc.CheckClassAvailability("hiit", "today"), svc.CheckClassAvailability("hiit", "wednesday"); a != b {
		t.Fatalf("today = %q, wednesday = %q", a, b)
	}
	if a, b := svc.CheckClassAvailability("hiit", "today"), svc.CheckClassAvailability("hiit", "today"); a != b {
		t.Fatal("resolving today twice must be stable")
	}
	if a, b := svc.CheckClassAvailability("hiit", "Tomorrow"), svc.CheckClassAvailability("hiit", "thursday"); a != b {
		t.Fatalf("tomorrow = %q, thursday = %q", a, b)
	}

	saturday := newTestService(newMemSinks(), WithClock(func() time.Time {
		return time.Date(2025, time.March, 8, 23, 0, 0, 0, time.UTC)
	}))
	if a, b := saturday.CheckClassAvailability("dance", "tomorrow"), saturday.CheckClassAvailability("dance", "sunday"); a != b {
		t.Fatalf("tomorrow from saturday = %q, sunday = %q", a, b)
	}
}

func TestCheckClassAvailabilityNeverWrites(t *testing.T) {
	t.Parallel()

	sinks := newMemSinks()
	svc := newTestService(sinks)
	svc.CheckClassAvailability("yoga", "monday")
	svc.CheckClassAvailability("nope", "monday")
	if sinks.leads.len()+sinks.feedback.len()+sinks.bookings.len() != 0 {
		t.Fatal("availability check must not append records")
	}
}

func TestRecordCustomerInterestAppendsOnce(t *testing.T) {
	t.Parallel()

	sinks := newMemSinks()
	got, err := newTestService(sinks).RecordCustomerInterest(context.Background(), "Ana", "ana@x.com", "personal training", "")
	if err != nil {
		t.Fatalf("RecordCustomerInterest() error = %v", err)
	}
	for _, want := range []string{"Ana", "ana@x.com", "personal training", "24 hours"} {
		if !strings.Contains(got, want) {
			t.Fatalf("RecordCustomerInterest() = %q, missing %q", got, want)
		}
	}
	if sinks.leads.len() != 1 {
		t.Fatalf("lead appends = %d, want 1", sinks.leads.len())
	}
	lead := sinks.leads.records[0].(*record.LeadRecord)
	if lead.Email != "ana@x.com" || !lead.CreatedAt.Equal(fixedNow) {
		t.Fatalf("lead = %+v", lead)
	}
}

func TestRecordFeedbackDistinctTickets(t *testing.T) {
	t.Parallel()

	sinks := newMemSinks()
	svc := newTestService(sinks)
	ctx := context.Background()

	first, err := svc.RecordFeedback(ctx, "Music too loud", "", "")
	if err != nil {
		t.Fatalf("RecordFeedback() error = %v", err)
	}
	second, err := svc.RecordFeedback(ctx, "Music too loud", "Ben", "high")
	if err != nil {
		t.Fatalf("RecordFeedback() error = %v", err)
	}

	a := sinks.feedback.records[0].(*record.FeedbackRecord)
	b := sinks.feedback.records[1].(*record.FeedbackRecord)
	if a.TicketID == b.TicketID {
		t.Fatalf("ticket ids collide: %s", a.TicketID)
	}
	if !strings.HasPrefix(a.TicketID, "FB-20250305103000000-") {
		t.Fatalf("ticket id = %q", a.TicketID)
	}
	if !strings.Contains(first, "Ticket #"+a.TicketID) || !strings.Contains(second, "Ticket #"+b.TicketID) {
		t.Fatal("confirmation must echo the ticket id")
	}
	if a.CustomerName != "Anonymous" || a.Severity != "medium" {
		t.Fatalf("defaults not applied: %+v", a)
	}
	if !strings.Contains(second, "high priority") {
		t.Fatalf("RecordFeedback() = %q", second)
	}
}

func TestBookTrialSessionLabelsAndPublishes(t *testing.T) {
	t.Parallel()

	sinks := newMemSinks()
	pub := &fakePublisher{}
	svc := newTestService(sinks, WithBookingPublisher(pub, "https://hooks.example.com/bookings"))

	got, err := svc.BookTrialSession(context.Background(), "Ben", "ben@x.com", "Friday, March 7, 2025", SessionNutrition)
	if err != nil {
		t.Fatalf("BookTrialSession() error = %v", err)
	}
	booking := sinks.bookings.records[0].(*record.BookingRecord)
	for _, want := range []string{"Nutrition Consultation", booking.BookingID, "Friday, March 7, 2025", "ben@x.com", "within 2 hours", "arrive 10 minutes early"} {
		if !strings.Contains(got, want) {
			t.Fatalf("BookTrialSession() = %q, missing %q", got, want)
		}
	}
	if !strings.HasPrefix(booking.BookingID, "TRIAL-") || booking.Status != record.StatusPendingConfirmation {
		t.Fatalf("booking = %+v", booking)
	}

	if len(pub.calls) != 1 || pub.calls[0].destination != "https://hooks.example.com/bookings" {
		t.Fatalf("publish calls = %+v", pub.calls)
	}
	notice, ok := pub.calls[0].payload.(BookingNotice)
	if !ok || notice.BookingID != booking.BookingID {
		t.Fatalf("payload = %#v", pub.calls[0].payload)
	}
}

func TestBookTrialSessionUnknownTypePassesThrough(t *testing.T) {
	t.Parallel()

	sinks := newMemSinks()
	got, err := newTestService(sinks).BookTrialSession(context.Background(), "Ben", "ben@x.com", "Monday", "aqua aerobics")
	if err != nil {
		t.Fatalf("BookTrialSession() error = %v", err)
	}
	if !strings.Contains(got, "Your trial aqua aerobics has been requested") {
		t.Fatalf("BookTrialSession() = %q", got)
	}
}

func TestBookTrialSessionPublishFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	sinks := newMemSinks()
	pub := &fakePublisher{err: errDiskFull}
	svc := newTestService(sinks, WithBookingPublisher(pub, "dest"))
	if _, err := svc.BookTrialSession(context.Background(), "Ben", "ben@x.com", "Monday", SessionGroupClass); err != nil {
		t.Fatalf("BookTrialSession() error = %v", err)
	}
	if sinks.bookings.len() != 1 {
		t.Fatal("booking must be stored even when the notification fails")
	}
}

func TestSinkFailureSurfacesError(t *testing.T) {
	t.Parallel()

	sinks := newMemSinks()
	sinks.leads.err = errDiskFull
	if _, err := newTestService(sinks).RecordCustomerInterest(context.Background(), "Ana", "a@x.com", "yoga", ""); err == nil {
		t.Fatal("RecordCustomerInterest() expected sink error")
	}
}

func TestNewServiceRequiresSinks(t *testing.T) {
	t.Parallel()

	if _, err := NewService(record.Sinks{}); err == nil {
		t.Fatal("NewService() expected error for missing sinks")
	}
}
