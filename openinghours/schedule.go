package openinghours

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Day is a weekday key as stored in venue documents.
type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

// Week lists the day keys Monday first, the order used for display.
var Week = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayKeys = [7]Day{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// DayOf maps a Go weekday to its schedule key.
func DayOf(wd time.Weekday) Day {
	return weekdayKeys[normalizeWeekday(wd)]
}

// TimeRange is one open interval of a day, kept as the raw "HH:MM" strings.
type TimeRange struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// DaySchedule holds one weekday's configuration.
type DaySchedule struct {
	Closed bool        `json:"closed,omitempty"`
	Ranges []TimeRange `json:"ranges,omitempty"`
}

// WeeklySchedule maps a day key to its schedule. A nil schedule means no
// opening hours are known at all; a missing key means nothing is known for
// that day.
type WeeklySchedule map[Day]DaySchedule

// UnmarshalJSON accepts both the ranges shape and the legacy single
// {open, close} shape. A day that is not an object decodes to the zero value.
func (d *DaySchedule) UnmarshalJSON(data []byte) error {
	aux := struct {
		Closed interface{}       `json:"closed"`
		Ranges []json.RawMessage `json:"ranges"`
		Open   interface{}       `json:"open"`
		Close  interface{}       `json:"close"`
	}{}

	*d = DaySchedule{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil
	}

	d.Closed = truthy(aux.Closed)

	for _, raw := range aux.Ranges {
		var r struct {
			Open  interface{} `json:"open"`
			Close interface{} `json:"close"`
		}
		if err := json.Unmarshal(raw, &r); err != nil {
			continue
		}
		d.Ranges = append(d.Ranges, TimeRange{Open: clockString(r.Open), Close: clockString(r.Close)})
	}

	// Legacy documents carry a single range directly on the day.
	if aux.Ranges == nil && (aux.Open != nil || aux.Close != nil) {
		d.Ranges = []TimeRange{{Open: clockString(aux.Open), Close: clockString(aux.Close)}}
	}
	return nil
}

// UnmarshalJSON leaves the schedule nil for null or non-object input instead
// of failing the surrounding document. Unknown day keys are dropped.
func (w *WeeklySchedule) UnmarshalJSON(data []byte) error {
	*w = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var days map[string]json.RawMessage
	if err := json.Unmarshal(data, &days); err != nil {
		return nil
	}

	keys := make([]string, 0, len(days))
	for key := range days {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	// The exact lowercase key wins over case variants; otherwise the first
	// variant in sorted order does.
	out := make(WeeklySchedule, len(days))
	for _, key := range keys {
		day, ok := ParseDay(key)
		if !ok {
			continue
		}
		if _, seen := out[day]; seen && key != string(day) {
			continue
		}
		var ds DaySchedule
		_ = json.Unmarshal(days[key], &ds)
		out[day] = ds
	}
	*w = out
	return nil
}

// ParseDay matches a stored day key case-insensitively.
func ParseDay(s string) (Day, bool) {
	key := Day(strings.ToLower(strings.TrimSpace(s)))
	for _, d := range Week {
		if d == key {
			return d, true
		}
	}
	return "", false
}

func truthy(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.EqualFold(strings.TrimSpace(val), "true")
	}
	return false
}

// clockString keeps string values and drops anything else, which then fails
// to parse and gets skipped at evaluation.
func clockString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
