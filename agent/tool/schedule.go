package tool

import (
	"strings"
	"time"
)

type daySlots struct {
	day   time.Weekday
	times []string
}

type classSchedule struct {
	class string
	days  []daySlots
}

// weeklySchedule is read-only. Class order is the order listed to customers.
var weeklySchedule = []classSchedule{
	{class: "yoga", days: []daySlots{
		{time.Monday, []string{"6:00 AM", "12:00 PM", "6:30 PM"}},
		{time.Tuesday, []string{"6:30 AM", "5:30 PM", "7:00 PM"}},
		{time.Wednesday, []string{"6:00 AM", "12:00 PM", "6:30 PM"}},
		{time.Thursday, []string{"6:30 AM", "5:30 PM"}},
		{time.Friday, []string{"6:00 AM", "12:00 PM", "5:30 PM"}},
		{time.Saturday, []string{"8:00 AM", "10:00 AM"}},
		{time.Sunday, []string{"9:00 AM", "11:00 AM"}},
	}},
	{class: "hiit", days: []daySlots{
		{time.Monday, []string{"6:30 AM", "5:30 PM", "7:00 PM"}},
		{time.Tuesday, []string{"6:00 AM", "12:00 PM", "6:00 PM"}},
		{time.Wednesday, []string{"6:30 AM", "5:30 PM", "7:00 PM"}},
		{time.Thursday, []string{"6:00 AM", "6:00 PM"}},
		{time.Friday, []string{"6:30 AM", "5:00 PM"}},
		{time.Saturday, []string{"9:00 AM"}},
		{time.Sunday, []string{"10:00 AM"}},
	}},
	{class: "spin", days: []daySlots{
		{time.Monday, []string{"6:00 AM", "5:00 PM"}},
		{time.Tuesday, []string{"6:30 AM", "6:30 PM"}},
		{time.Wednesday, []string{"6:00 AM", "5:00 PM"}},
		{time.Thursday, []string{"6:30 AM", "6:30 PM"}},
		{time.Friday, []string{"6:00 AM", "5:00 PM"}},
		{time.Saturday, []string{"8:30 AM", "10:30 AM"}},
		{time.Sunday, []string{"9:30 AM"}},
	}},
	{class: "strength", days: []daySlots{
		{time.Monday, []string{"6:30 AM", "12:00 PM", "6:00 PM"}},
		{time.Tuesday, []string{"6:00 AM", "5:30 PM"}},
		{time.Wednesday, []string{"6:30 AM", "12:00 PM", "6:00 PM"}},
		{time.Thursday, []string{"6:00 AM", "5:30 PM"}},
		{time.Friday, []string{"6:30 AM", "12:00 PM"}},
		{time.Saturday, []string{"9:00 AM"}},
		{time.Sunday, []string{"10:00 AM"}},
	}},
	{class: "pilates", days: []daySlots{
		{time.Monday, []string{"7:00 AM", "12:30 PM", "5:30 PM"}},
		{time.Tuesday, []string{"7:00 AM", "6:00 PM"}},
		{time.Wednesday, []string{"7:00 AM", "12:30 PM", "5:30 PM"}},
		{time.Thursday, []string{"7:00 AM", "6:00 PM"}},
		{time.Friday, []string{"7:00 AM", "12:30 PM"}},
		{time.Saturday, []string{"10:00 AM"}},
		{time.Sunday, []string{"11:00 AM"}},
	}},
	{class: "dance", days: []daySlots{
		{time.Tuesday, []string{"7:00 PM"}},
		{time.Thursday, []string{"7:00 PM"}},
		{time.Saturday, []string{"11:00 AM"}},
		{time.Sunday, []string{"2:00 PM"}},
	}},
}

// ClassTypes lists the scheduled class keys in table order.
func ClassTypes() []string {
	out := make([]string, 0, len(weeklySchedule))
	for _, c := range weeklySchedule {
		out = append(out, c.class)
	}
	return out
}

// Slots returns a copy of the stored times for class on day, in stored order.
// found reports whether the class exists at all.
func Slots(class string, day time.Weekday) (times []string, found bool) {
	for _, c := range weeklySchedule {
		if c.class != class {
			continue
		}
		for _, d := range c.days {
			if d.day == day {
				return append([]string(nil), d.times...), true
			}
		}
		return nil, true
	}
	return nil, false
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// resolveDay maps a normalized day token to a weekday. "today" and "tomorrow"
// are resolved against now.
func resolveDay(token string, now time.Time) (time.Weekday, bool) {
	switch token {
	case "today":
		return now.Weekday(), true
	case "tomorrow":
		return (now.Weekday() + 1) % 7, true
	}
	day, ok := weekdayNames[token]
	return day, ok
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
