package scenario

import (
	"errors"
	"fmt"
	"time"
)

// Scenario identifies one of the canned incident archetypes that bias
// the generated data.
type Scenario string

const (
	CPUSpike         Scenario = "cpu_spike"
	OOMCrash         Scenario = "oom_crash"
	CascadingFailure Scenario = "cascading_failure"
)

// ErrUnknownScenario is returned when a scenario tag has no registered
// message templates or metric ranges.
var ErrUnknownScenario = errors.New("unknown scenario")

// All returns every scenario in menu order.
func All() []Scenario {
	return []Scenario{CPUSpike, OOMCrash, CascadingFailure}
}

// Parse validates a scenario tag supplied by the operator.
func Parse(s string) (Scenario, error) {
	for _, sc := range All() {
		if string(sc) == s {
			return sc, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScenario, s)
}

// Counts configures how many documents to generate per category.
// Zero values fall back to the defaults.
type Counts struct {
	NormalLogs      int `yaml:"normalLogs"`
	NormalMetrics   int `yaml:"normalMetrics"`
	IncidentLogs    int `yaml:"incidentLogs"`
	IncidentMetrics int `yaml:"incidentMetrics"`
}

// DefaultCounts returns the baseline generation volumes.
func DefaultCounts() Counts {
	return Counts{
		NormalLogs:      200,
		NormalMetrics:   100,
		IncidentLogs:    80,
		IncidentMetrics: 50,
	}
}

func (c Counts) withDefaults() Counts {
	d := DefaultCounts()
	if c.NormalLogs <= 0 {
		c.NormalLogs = d.NormalLogs
	}
	if c.NormalMetrics <= 0 {
		c.NormalMetrics = d.NormalMetrics
	}
	if c.IncidentLogs <= 0 {
		c.IncidentLogs = d.IncidentLogs
	}
	if c.IncidentMetrics <= 0 {
		c.IncidentMetrics = d.IncidentMetrics
	}
	return c
}

// LogRecord is a single application/system log entry.
type LogRecord struct {
	Timestamp time.Time `json:"@timestamp"`
	Service   string    `json:"service"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Host      string    `json:"host"`
	TraceID   string    `json:"trace_id"`
}

// MetricSample is a single infrastructure metric reading.
type MetricSample struct {
	Timestamp time.Time `json:"@timestamp"`
	Host      string    `json:"host"`
	CPUPct    float64   `json:"cpu_pct"`
	MemPct    float64   `json:"mem_pct"`
	DiskIO    float64   `json:"disk_io"`
	NetIn     int64     `json:"net_in"`
	NetOut    int64     `json:"net_out"`
}

// Incident is a historical incident knowledge-base entry.
type Incident struct {
	IncidentID       string    `json:"incident_id"`
	Title            string    `json:"title"`
	RootCause        string    `json:"root_cause"`
	Resolution       string    `json:"resolution"`
	ServicesAffected []string  `json:"services_affected"`
	Severity         string    `json:"severity"`
	DurationMin      int       `json:"duration_min"`
	CreatedAt        time.Time `json:"created_at"`
	Tags             []string  `json:"tags"`
	Runbook          string    `json:"runbook"`
}

// ActionRecord is an audit entry for responder actions. The index is
// created with this shape but the generator never populates it.
type ActionRecord struct {
	Timestamp   time.Time `json:"@timestamp"`
	ActionType  string    `json:"action_type"`
	Description string    `json:"description"`
	Confidence  int       `json:"confidence"`
	Status      string    `json:"status"`
	IncidentRef string    `json:"incident_ref"`
}

// Batch holds every document generated for one scenario run.
type Batch struct {
	Scenario        Scenario
	NormalLogs      []LogRecord
	IncidentLogs    []LogRecord
	NormalMetrics   []MetricSample
	IncidentMetrics []MetricSample
	Incidents       []Incident
}

// Total returns the number of documents in the batch.
func (b *Batch) Total() int {
	return len(b.NormalLogs) + len(b.IncidentLogs) +
		len(b.NormalMetrics) + len(b.IncidentMetrics) + len(b.Incidents)
}

// Logs returns baseline and incident log records combined.
func (b *Batch) Logs() []LogRecord {
	out := make([]LogRecord, 0, len(b.NormalLogs)+len(b.IncidentLogs))
	out = append(out, b.NormalLogs...)
	out = append(out, b.IncidentLogs...)
	return out
}

// Metrics returns baseline and incident metric samples combined.
func (b *Batch) Metrics() []MetricSample {
	out := make([]MetricSample, 0, len(b.NormalMetrics)+len(b.IncidentMetrics))
	out = append(out, b.NormalMetrics...)
	out = append(out, b.IncidentMetrics...)
	return out
}
