package core

import (
	"strings"
	"time"
)

// dayFirstLayouts are tried in order. Day-first layouts come before ISO ones
// so "03/04/2025" is the 3rd of April.
var dayFirstLayouts = []string{
	"02/01/2006 15:04:05",
	"2/1/2006 15:04:05",
	"02/01/2006 15:04",
	"2/1/2006 15:04",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006 15:04:05",
	"02-01-2006",
	"02.01.2006",
	"02/01/06",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseDayFirst parses a date cell, reading ambiguous dates day first.
// It returns nil when the value is empty or matches no known layout.
func ParseDayFirst(raw any) *time.Time {
	switch v := raw.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return &v
	case *time.Time:
		return v
	case string:
		return parseDayFirstString(v)
	default:
		return nil
	}
}

func parseDayFirstString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}
	return nil
}
