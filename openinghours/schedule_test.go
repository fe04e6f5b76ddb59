package openinghours

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeeklySchedule_UnmarshalJSON(t *testing.T) {
	content := `{
		"Monday": {"closed": true},
		"tuesday": {"ranges": [{"open": "12:00", "close": "14:00"}, {"open": "18:00", "close": "22:00"}]},
		"wednesday": {"open": "11:00", "close": "23:00"},
		"thursday": {"closed": "true", "open": "11:00", "close": "23:00"},
		"friday": "closed",
		"funday": {"open": "00:00", "close": "23:59"}
	}`

	var schedule WeeklySchedule
	require.NoError(t, json.Unmarshal([]byte(content), &schedule))

	assert.Len(t, schedule, 5)
	assert.True(t, schedule[Monday].Closed)
	assert.Equal(t, []TimeRange{{"12:00", "14:00"}, {"18:00", "22:00"}}, schedule[Tuesday].Ranges)
	assert.Equal(t, []TimeRange{{"11:00", "23:00"}}, schedule[Wednesday].Ranges)
	assert.True(t, schedule[Thursday].Closed)

	friday, ok := schedule[Friday]
	assert.True(t, ok)
	assert.Equal(t, DaySchedule{}, friday)
}

func TestWeeklySchedule_UnmarshalJSON_CaseVariantsAreDeterministic(t *testing.T) {
	content := `{
		"Monday": {"closed": true},
		"monday": {"open": "09:00", "close": "17:00"},
		"MONDAY": {"closed": true},
		"TUESDAY": {"open": "10:00", "close": "12:00"},
		"Tuesday": {"open": "14:00", "close": "16:00"}
	}`

	for i := 0; i < 20; i++ {
		var schedule WeeklySchedule
		require.NoError(t, json.Unmarshal([]byte(content), &schedule))

		assert.Equal(t, DaySchedule{Ranges: []TimeRange{{"09:00", "17:00"}}}, schedule[Monday])
		// No exact key: the first variant in byte order ("TUESDAY") wins.
		assert.Equal(t, DaySchedule{Ranges: []TimeRange{{"10:00", "12:00"}}}, schedule[Tuesday])
	}
}

func TestWeeklySchedule_UnmarshalJSON_NotAnObject(t *testing.T) {
	for _, content := range []string{`null`, `"9-17"`, `[1, 2, 3]`, `42`} {
		t.Run(content, func(t *testing.T) {
			var schedule WeeklySchedule
			require.NoError(t, json.Unmarshal([]byte(content), &schedule))
			assert.Nil(t, schedule)
			assert.Equal(t, StateUnknown, Evaluate(schedule, Moment{Weekday: time.Monday}).State)
		})
	}
}

func TestWeeklySchedule_InsideDocument(t *testing.T) {
	var doc struct {
		Name  string         `json:"name"`
		Hours WeeklySchedule `json:"opening_hours"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"name": "Chez Léon", "opening_hours": "ask the owner"}`), &doc))
	assert.Equal(t, "Chez Léon", doc.Name)
	assert.Nil(t, doc.Hours)

	require.NoError(t, json.Unmarshal([]byte(`{"name": "Chez Léon"}`), &doc))
	assert.Nil(t, doc.Hours)
}

func TestDaySchedule_NonStringTimes(t *testing.T) {
	var ds DaySchedule
	require.NoError(t, json.Unmarshal([]byte(`{"ranges": [{"open": 1100, "close": "14:00"}, "oops", {"open": "18:00", "close": "22:00"}]}`), &ds))

	assert.Equal(t, []TimeRange{{"", "14:00"}, {"18:00", "22:00"}}, ds.Ranges)
	assert.Len(t, intervals(ds), 1)
}

func TestDaySchedule_MarshalNormalizesLegacy(t *testing.T) {
	var ds DaySchedule
	require.NoError(t, json.Unmarshal([]byte(`{"open": "11:00", "close": "14:00"}`), &ds))

	out, err := json.Marshal(ds)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ranges": [{"open": "11:00", "close": "14:00"}]}`, string(out))
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"00:00", 0, true},
		{"9:05", 545, true},
		{"23:59", 1439, true},
		{" 12:30 ", 750, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"+1:00", 0, false},
		{"12:5", 0, false},
		{"1230", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseClock(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "09:05", FormatClock(545))
	assert.Equal(t, "02:00", FormatClock(1560))
	assert.Equal(t, "23:00", FormatClock(-60))
}

func TestDayOf(t *testing.T) {
	assert.Equal(t, Sunday, DayOf(time.Sunday))
	assert.Equal(t, Monday, DayOf(time.Monday))
	assert.Equal(t, Saturday, DayOf(time.Weekday(-1)))

	d, ok := ParseDay(" FRIDAY ")
	assert.True(t, ok)
	assert.Equal(t, Friday, d)

	_, ok = ParseDay("vendredi")
	assert.False(t, ok)
}
