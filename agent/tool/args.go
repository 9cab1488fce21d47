package tool

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	contractx "github.com/tanpawarit/fitfusion-assistant/agent/contract"
)

const DateDisplayLayout = "Monday, January 2, 2006"

var dateLayouts = []string{
	"2006-01-02",
	DateDisplayLayout,
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"01/02/2006",
}

var yearlessLayouts = []string{
	"January 2",
	"Jan 2",
}

var (
	errDatePast         = errors.New("date is in the past")
	errDateUnrecognised = errors.New("date not recognised")
)

// Value is one bound argument. Date is only set for KindDate parameters.
type Value struct {
	Kind ParamKind
	Text string
	Date time.Time
}

// Args holds arguments after they were checked against a ToolSpec.
type Args map[string]Value

func (a Args) String(name string) string {
	return a[name].Text
}

func (a Args) Date(name string) (time.Time, bool) {
	v, ok := a[name]
	if !ok || v.Kind != KindDate {
		return time.Time{}, false
	}
	return v.Date, true
}

func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// bindArgs validates raw model arguments against spec: required parameters present,
// enum members only, dates parsed, defaults filled. Unknown keys are dropped. A date
// in a form parseDate does not know is kept verbatim as a string value.
func bindArgs(spec ToolSpec, raw map[string]any, now time.Time) (Args, error) {
	args := make(Args, len(spec.Parameters))
	for _, p := range spec.Parameters {
		text, present, err := scalarText(raw[p.Name])
		if err != nil {
			return nil, fmt.Errorf("%w: %q %v", contractx.ErrInvalidArgument, p.Name, err)
		}
		if !present {
			if p.Required {
				return nil, fmt.Errorf("%w: missing required argument %q", contractx.ErrValidation, p.Name)
			}
			if p.Default == "" {
				continue
			}
			text = p.Default
		}

		switch p.Kind {
		case KindEnum:
			norm := strings.ToLower(text)
			if !p.allows(norm) {
				return nil, fmt.Errorf("%w: %q must be one of: %s", contractx.ErrInvalidArgument, p.Name, strings.Join(p.AllowedValues, ", "))
			}
			args[p.Name] = Value{Kind: KindEnum, Text: norm}
		case KindDate:
			d, err := parseDate(text, now)
			if errors.Is(err, errDateUnrecognised) {
				args[p.Name] = Value{Kind: KindString, Text: text}
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("%w: %q %v", contractx.ErrInvalidArgument, p.Name, err)
			}
			args[p.Name] = Value{Kind: KindDate, Text: d.Format(DateDisplayLayout), Date: d}
		default:
			args[p.Name] = Value{Kind: KindString, Text: text}
		}
	}
	return args, nil
}

func scalarText(v any) (string, bool, error) {
	switch t := v.(type) {
	case nil:
		return "", false, nil
	case string:
		s := strings.TrimSpace(t)
		return s, s != "", nil
	case json.Number:
		return t.String(), true, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true, nil
	case bool, int, int64, int32:
		return fmt.Sprint(t), true, nil
	default:
		return "", false, fmt.Errorf("must be a string, got %T", v)
	}
}

// parseDate accepts calendar dates, weekday names (next occurrence, today included),
// "today" and "tomorrow". The result is midnight in now's location.
func parseDate(text string, now time.Time) (time.Time, error) {
	token := strings.ToLower(strings.TrimSpace(text))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch token {
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}
	if day, ok := weekdayNames[token]; ok {
		ahead := (int(day) - int(today.Weekday()) + 7) % 7
		return today.AddDate(0, 0, ahead), nil
	}

	for _, layout := range dateLayouts {
		d, err := time.ParseInLocation(layout, strings.TrimSpace(text), now.Location())
		if err != nil {
			continue
		}
		if d.Before(today) {
			return time.Time{}, fmt.Errorf("%w: %s", errDatePast, d.Format("2006-01-02"))
		}
		return d, nil
	}
	for _, layout := range yearlessLayouts {
		d, err := time.ParseInLocation(layout, strings.TrimSpace(text), now.Location())
		if err != nil {
			continue
		}
		d = time.Date(today.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
		if d.Before(today) {
			d = d.AddDate(1, 0, 0)
		}
		return d, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", errDateUnrecognised, text)
}
