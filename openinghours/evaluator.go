package openinghours

import "time"

// State is the tri-state opening status, plus UNKNOWN when no schedule exists.
type State string

const (
	StateOpen        State = "OPEN"
	StateClosingSoon State = "CLOSING_SOON"
	StateClosed      State = "CLOSED"
	StateUnknown     State = "UNKNOWN"
)

// ClosingSoonWindow is how close to closing time a venue reports CLOSING_SOON.
const ClosingSoonWindow = 60

const (
	LabelOpen         = "Open"
	LabelClosingSoon  = "Closing soon"
	LabelClosed       = "Closed"
	LabelClosedToday  = "Closed today"
	LabelHoursUnknown = "Hours unknown"
)

// Status is the evaluation result rendered by badges and cards.
type Status struct {
	IsOpen bool   `json:"is_open"`
	State  State  `json:"state"`
	Label  string `json:"label"`
	Detail string `json:"detail,omitempty"`
}

// interval is a parsed range; close is past 1440 for overnight ranges.
type interval struct {
	open, close int
}

// Evaluate reports whether a venue following schedule is open at now.
// It never fails: missing data yields UNKNOWN and malformed ranges are skipped.
func Evaluate(schedule WeeklySchedule, now Moment) Status {
	if schedule == nil {
		return Status{State: StateUnknown, Label: LabelHoursUnknown}
	}
	now = now.normalize()

	todaySchedule, known := schedule[DayOf(now.Weekday)]
	today := intervals(todaySchedule)

	closesAt := -1
	for _, iv := range today {
		if now.Minute >= iv.open && now.Minute < iv.close && iv.close > closesAt {
			closesAt = iv.close
		}
	}

	if closesAt < 0 {
		// Yesterday's overnight ranges still running after midnight.
		spill := now.Minute + minutesPerDay
		for _, iv := range intervals(schedule[DayOf(now.Weekday-1)]) {
			if spill >= iv.open && spill < iv.close && iv.close-minutesPerDay > closesAt {
				closesAt = iv.close - minutesPerDay
			}
		}
	}

	if closesAt >= 0 {
		st := Status{IsOpen: true, State: StateOpen, Label: LabelOpen, Detail: "Closes at " + FormatClock(closesAt)}
		if closesAt-now.Minute <= ClosingSoonWindow {
			st.State = StateClosingSoon
			st.Label = LabelClosingSoon
		}
		return st
	}

	st := Status{State: StateClosed, Label: LabelClosed}
	switch {
	case todaySchedule.Closed:
		st.Label = LabelClosedToday
		return st
	case !known || len(today) == 0:
		st.Label = LabelHoursUnknown
		return st
	}

	// Only today's later ranges are considered for the opening hint.
	opensAt := -1
	for _, iv := range today {
		if iv.open > now.Minute && (opensAt < 0 || iv.open < opensAt) {
			opensAt = iv.open
		}
	}
	if opensAt >= 0 {
		st.Detail = "Opens at " + FormatClock(opensAt)
	}
	return st
}

// intervals returns the parseable ranges of a day. Closed days have none.
func intervals(ds DaySchedule) []interval {
	if ds.Closed {
		return nil
	}
	out := make([]interval, 0, len(ds.Ranges))
	for _, r := range ds.Ranges {
		open, ok := ParseClock(r.Open)
		if !ok {
			continue
		}
		end, ok := ParseClock(r.Close)
		if !ok {
			continue
		}
		if end < open {
			end += minutesPerDay
		}
		out = append(out, interval{open: open, close: end})
	}
	return out
}

// OpenMinutes sums the opening time of each weekday. Overnight ranges count
// towards the day they start on; overlapping ranges are counted once.
func OpenMinutes(schedule WeeklySchedule) map[Day]int {
	out := make(map[Day]int, len(Week))
	for _, day := range Week {
		var covered [2 * minutesPerDay]bool
		total := 0
		for _, iv := range intervals(schedule[day]) {
			for m := iv.open; m < iv.close; m++ {
				if !covered[m] {
					covered[m] = true
					total++
				}
			}
		}
		out[day] = total
	}
	return out
}

// Evaluator binds Evaluate to a business timezone and an injectable clock.
type Evaluator struct {
	loc   *time.Location
	clock func() time.Time
}

// NewEvaluator creates an Evaluator. A nil clock defaults to time.Now.
func NewEvaluator(loc *time.Location, clock func() time.Time) *Evaluator {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = time.Now
	}
	return &Evaluator{loc: loc, clock: clock}
}

// Location returns the business timezone.
func (e *Evaluator) Location() *time.Location {
	return e.loc
}

// Now reads the injected clock.
func (e *Evaluator) Now() time.Time {
	return e.clock()
}

// Status evaluates schedule against the evaluator's clock.
func (e *Evaluator) Status(schedule WeeklySchedule) Status {
	return e.StatusAt(schedule, e.clock())
}

// StatusAt evaluates schedule at instant t, converted to the business timezone.
func (e *Evaluator) StatusAt(schedule WeeklySchedule, t time.Time) Status {
	return Evaluate(schedule, MomentOf(t, e.loc))
}
