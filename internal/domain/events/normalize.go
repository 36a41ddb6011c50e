package events

import (
	"regexp"
	"strings"
	"time"

	dateparser "github.com/markusmobius/go-dateparser"
)

const isoDateLayout = "2006-01-02"

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	// 24-hour clock, leading zeros required, optional seconds.
	timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9](:[0-5][0-9])?$`)
)

// NormalizeDate canonicalizes a date string to YYYY-MM-DD. ISO-shaped input
// is verified against the calendar (rejects months like 13); anything else
// goes through a generic parse and is reformatted. Failure means the record
// is not persisted.
func NormalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if isoDatePattern.MatchString(value) {
		if _, err := time.Parse(isoDateLayout, value); err != nil {
			return "", ValidationError{Field: "date", Message: "invalid date"}
		}
		return value, nil
	}

	parsed, err := dateparser.Parse(nil, value)
	if err != nil {
		return "", ValidationError{Field: "date", Message: "invalid date"}
	}
	return parsed.Time.Format(isoDateLayout), nil
}

// NormalizeTime validates HH:MM or HH:MM:SS. No reformatting is attempted:
// a single-digit hour is rejected rather than zero-padded.
func NormalizeTime(value string) (string, error) {
	value = strings.TrimSpace(value)
	if !timePattern.MatchString(value) {
		return "", ValidationError{Field: "time", Message: "invalid time"}
	}
	return value, nil
}

// normalizeInput trims free-text fields and canonicalizes date and time
// before validation. Slug derivation happens separately because it depends
// on whether the title changed.
func normalizeInput(input EventInput) (EventInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Overview = strings.TrimSpace(input.Overview)
	input.Image = strings.TrimSpace(input.Image)
	input.Venue = strings.TrimSpace(input.Venue)
	input.Location = strings.TrimSpace(input.Location)
	input.Mode = strings.ToLower(strings.TrimSpace(input.Mode))
	input.Audience = strings.TrimSpace(input.Audience)
	input.Organizer = strings.TrimSpace(input.Organizer)
	input.Agenda = trimStringSlice(input.Agenda)
	input.Tags = trimStringSlice(input.Tags)

	date, err := NormalizeDate(input.Date)
	if err != nil {
		return input, err
	}
	input.Date = date

	t, err := NormalizeTime(input.Time)
	if err != nil {
		return input, err
	}
	input.Time = t

	return input, nil
}

func trimStringSlice(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	result := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		result = append(result, trimmed)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
