package monitor

import (
	"sync"
	"time"
)

// Dashboard is a live view of the latest state of every field.
type Dashboard struct {
	mu        sync.RWMutex
	StartTime time.Time             `json:"start_time"`
	Fields    map[string]FieldState `json:"fields"`
	Summary   Summary               `json:"summary"`
}

// FieldState is the last known state of a field, keyed by
// "form/field".
type FieldState struct {
	Form     string    `json:"form"`
	Field    string    `json:"field"`
	Status   string    `json:"status"`
	Failures []string  `json:"failures,omitempty"`
	Passes   int       `json:"passes"`
	LastPass time.Time `json:"last_pass"`
}

// Summary holds aggregate counts over the latest field states.
type Summary struct {
	Total     int     `json:"total"`
	Valid     int     `json:"valid"`
	Invalid   int     `json:"invalid"`
	Skipped   int     `json:"skipped"`
	ValidRate float64 `json:"valid_rate"`
	Elapsed   string  `json:"elapsed"`
}

// NewDashboard creates an empty dashboard.
func NewDashboard() *Dashboard {
	return &Dashboard{
		StartTime: time.Now(),
		Fields:    make(map[string]FieldState),
	}
}

// UpdateFromEvent applies a field event. Form events are
// ignored.
func (d *Dashboard) UpdateFromEvent(event Event) {
	if event.Type != EventFieldValidated {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	key := event.Form + "/" + event.Field
	state := d.Fields[key]
	state.Form = event.Form
	state.Field = event.Field
	state.Status = event.Status
	state.Failures = event.Failures
	state.Passes++
	state.LastPass = event.Timestamp
	d.Fields[key] = state
	d.recalcSummary()
}

func (d *Dashboard) recalcSummary() {
	s := Summary{}
	for _, f := range d.Fields {
		s.Total++
		switch f.Status {
		case "valid":
			s.Valid++
		case "invalid":
			s.Invalid++
		case "skipped":
			s.Skipped++
		}
	}
	if decided := s.Valid + s.Invalid; decided > 0 {
		s.ValidRate = float64(s.Valid) / float64(decided) * 100
	}
	s.Elapsed = time.Since(d.StartTime).Round(time.Millisecond).String()
	d.Summary = s
}

// Snapshot returns a copy of the current dashboard state.
func (d *Dashboard) Snapshot() Dashboard {
	d.mu.RLock()
	defer d.mu.RUnlock()
	snap := Dashboard{
		StartTime: d.StartTime,
		Summary:   d.Summary,
		Fields:    make(map[string]FieldState, len(d.Fields)),
	}
	for k, v := range d.Fields {
		snap.Fields[k] = v
	}
	return snap
}

// BuildDashboard replays the events of a collector into a new
// dashboard.
func BuildDashboard(collector *Collector) *Dashboard {
	d := NewDashboard()
	for _, event := range collector.Events() {
		d.UpdateFromEvent(event)
	}
	return d
}
