package scenario

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Services is the closed set of service names documents draw from.
// The first four are the ones incident traffic concentrates on.
var Services = []string{
	"api-gateway", "auth-service", "payment-service",
	"user-service", "notification-service", "search-service",
	"order-service", "inventory-service",
}

// Hosts is the closed set of host names documents draw from.
// The first four are the ones incident traffic concentrates on.
var Hosts = []string{
	"prod-web-01", "prod-web-02", "prod-web-03",
	"prod-app-01", "prod-app-02",
	"prod-db-01", "prod-db-02",
	"prod-cache-01",
}

const (
	normalWindow   = 60 * time.Minute
	incidentWindow = 15 * time.Minute

	// Incident traffic is restricted to the leading slice of each fleet.
	incidentFleetSize = 4
)

// Healthy vs. incident log level distributions. Repetition encodes the weights.
var (
	levelsNormal   = []string{"INFO", "DEBUG", "INFO", "INFO", "WARN", "INFO"}
	levelsIncident = []string{"ERROR", "CRITICAL", "ERROR", "FATAL", "ERROR", "WARN"}
)

var normalMessages = []string{
	"Request processed successfully in {t}ms",
	"Health check passed for {service}",
	"Connection pool at {n}% capacity",
	"Cache hit ratio: {n}%",
	"Scheduled task completed: cleanup_old_sessions",
	"User authentication successful for user_id={uid}",
	"Database query executed in {t}ms",
	"Rate limiter reset for {service}",
}

var errorMessagesByScenario = map[Scenario][]string{
	CPUSpike: {
		"CPU throttling detected on {host}: usage at {n}%",
		"Thread pool exhausted on {host}, {n} tasks queued",
		"Request timeout after 30000ms on {service}",
		"GC pause exceeded threshold: {t}ms on {host}",
		"Load balancer health check failed for {host}",
	},
	OOMCrash: {
		"OutOfMemoryError: Java heap space on {host}",
		"Container killed by OOM killer: {service} on {host}",
		"Memory allocation failed: requested {n}MB, available 12MB",
		"Pod {service} restarting due to OOMKilled on {host}",
		"Heap dump generated: /var/log/{service}/heap_{t}.hprof",
	},
	CascadingFailure: {
		"Connection refused to {service} from {host}",
		"Circuit breaker OPEN for {service}: 15 failures in 60s",
		"Downstream dependency {service} unavailable, returning 503",
		"Retry exhausted for {service} after 3 attempts",
		"Dead letter queue growing: {n} messages pending for {service}",
		"Cascading timeout: {service} -> payment-service -> auth-service",
	},
}

// metricRange describes the anomalous cpu/mem envelope for a scenario.
type metricRange struct {
	cpuLo, cpuHi float64
	memLo, memHi float64
}

var incidentMetricRanges = map[Scenario]metricRange{
	CPUSpike:         {cpuLo: 92, cpuHi: 100, memLo: 60, memHi: 80},
	OOMCrash:         {cpuLo: 50, cpuHi: 75, memLo: 95, memHi: 100},
	CascadingFailure: {cpuLo: 80, cpuHi: 98, memLo: 75, memHi: 95},
}

// Generator produces randomized document batches biased toward a scenario.
// It is stateless apart from its RNG; each Generate call is independent.
type Generator struct {
	rng      *rand.Rand
	services []string
	hosts    []string
}

// New creates a time-seeded Generator using the default fleets.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded creates a Generator with a fixed seed for reproducible output.
func NewSeeded(seed int64) *Generator {
	return &Generator{
		rng:      rand.New(rand.NewSource(seed)),
		services: Services,
		hosts:    Hosts,
	}
}

// SetFleet overrides the service and host pools. Empty slices keep the defaults.
func (g *Generator) SetFleet(services, hosts []string) {
	if len(services) > 0 {
		g.services = services
	}
	if len(hosts) > 0 {
		g.hosts = hosts
	}
}

// Generate produces the full document batch for one scenario: baseline logs
// and metrics over the 60-minute look-back, anomalous logs and metrics over
// the final 15 minutes, and the incident knowledge base with fresh timestamps.
// Counts of zero fall back to the defaults.
func (g *Generator) Generate(sc Scenario, anchor time.Time, counts Counts) (*Batch, error) {
	if _, ok := errorMessagesByScenario[sc]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, sc)
	}

	counts = counts.withDefaults()

	return &Batch{
		Scenario:        sc,
		NormalLogs:      g.normalLogs(anchor, counts.NormalLogs),
		IncidentLogs:    g.incidentLogs(sc, anchor, counts.IncidentLogs),
		NormalMetrics:   g.normalMetrics(anchor, counts.NormalMetrics),
		IncidentMetrics: g.incidentMetrics(sc, anchor, counts.IncidentMetrics),
		Incidents:       g.KnowledgeBase(anchor),
	}, nil
}

// KnowledgeBase returns the incident catalog with creation timestamps
// randomized between 7 and 180 days before now.
func (g *Generator) KnowledgeBase(now time.Time) []Incident {
	const (
		minAge = 7 * 24 * time.Hour
		maxAge = 180 * 24 * time.Hour
	)

	incidents := Catalog()
	for i := range incidents {
		age := minAge + time.Duration(g.rng.Int63n(int64(maxAge-minAge)))
		incidents[i].CreatedAt = now.Add(-age)
	}
	return incidents
}

func (g *Generator) normalLogs(anchor time.Time, count int) []LogRecord {
	docs := make([]LogRecord, 0, count)
	for i := 0; i < count; i++ {
		service := g.pick(g.services)
		msg := g.fill(g.pick(normalMessages), normalFill, service, "")

		docs = append(docs, LogRecord{
			Timestamp: g.timestampIn(anchor, normalWindow),
			Service:   service,
			Level:     g.pick(levelsNormal),
			Message:   msg,
			Host:      g.pick(g.hosts),
			TraceID:   newTraceID(),
		})
	}
	return docs
}

func (g *Generator) incidentLogs(sc Scenario, anchor time.Time, count int) []LogRecord {
	templates := errorMessagesByScenario[sc]
	services := g.incidentSubset(g.services)
	hosts := g.incidentSubset(g.hosts)

	docs := make([]LogRecord, 0, count)
	for i := 0; i < count; i++ {
		service := g.pick(services)
		host := g.pick(hosts)

		docs = append(docs, LogRecord{
			Timestamp: g.timestampIn(anchor, incidentWindow),
			Service:   service,
			Level:     g.pick(levelsIncident),
			Message:   g.fill(g.pick(templates), incidentFill, service, host),
			Host:      host,
			TraceID:   newTraceID(),
		})
	}
	return docs
}

func (g *Generator) normalMetrics(anchor time.Time, count int) []MetricSample {
	docs := make([]MetricSample, 0, count)
	for i := 0; i < count; i++ {
		docs = append(docs, MetricSample{
			Timestamp: g.timestampIn(anchor, normalWindow),
			Host:      g.pick(g.hosts),
			CPUPct:    round1(g.uniform(10, 55)),
			MemPct:    round1(g.uniform(30, 70)),
			DiskIO:    round2(g.uniform(0.5, 20)),
			NetIn:     g.int64Between(100_000, 5_000_000),
			NetOut:    g.int64Between(50_000, 3_000_000),
		})
	}
	return docs
}

func (g *Generator) incidentMetrics(sc Scenario, anchor time.Time, count int) []MetricSample {
	ranges := incidentMetricRanges[sc]

	// The anomaly concentrates on two hosts sampled from the restricted fleet.
	targets := g.sampleTwo(g.incidentSubset(g.hosts))

	docs := make([]MetricSample, 0, count)
	for i := 0; i < count; i++ {
		docs = append(docs, MetricSample{
			Timestamp: g.timestampIn(anchor, incidentWindow),
			Host:      g.pick(targets),
			CPUPct:    round1(g.uniform(ranges.cpuLo, ranges.cpuHi)),
			MemPct:    round1(g.uniform(ranges.memLo, ranges.memHi)),
			DiskIO:    round2(g.uniform(50, 200)),
			NetIn:     g.int64Between(10_000_000, 50_000_000),
			NetOut:    g.int64Between(5_000_000, 30_000_000),
		})
	}
	return docs
}

// timestampIn returns a uniformly random instant within [anchor-window, anchor].
func (g *Generator) timestampIn(anchor time.Time, window time.Duration) time.Time {
	offset := time.Duration(g.rng.Float64() * float64(window))
	return anchor.Add(-offset)
}

// fillRanges bounds the numeric placeholders per message category, keeping
// healthy messages reporting healthy numbers and incident messages anomalous
// ones.
type fillRanges struct {
	tLo, tHi int // {t}: durations in ms
	nLo, nHi int // {n}: percentages / queue sizes
}

var (
	normalFill   = fillRanges{tLo: 2, tHi: 500, nLo: 10, nHi: 95}
	incidentFill = fillRanges{tLo: 1000, tHi: 30000, nLo: 85, nHi: 100}
)

// fill substitutes the message template placeholders with randomized values
// drawn from the category's ranges.
func (g *Generator) fill(template string, ranges fillRanges, service, host string) string {
	r := strings.NewReplacer(
		"{t}", strconv.Itoa(g.intBetween(ranges.tLo, ranges.tHi)),
		"{n}", strconv.Itoa(g.intBetween(ranges.nLo, ranges.nHi)),
		"{uid}", strconv.Itoa(g.intBetween(1000, 99999)),
		"{service}", service,
		"{host}", host,
	)
	return r.Replace(template)
}

func (g *Generator) intBetween(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *Generator) int64Between(lo, hi int64) int64 {
	return lo + g.rng.Int63n(hi-lo+1)
}

// incidentSubset returns the leading slice of a fleet incident traffic is
// restricted to.
func (g *Generator) incidentSubset(fleet []string) []string {
	if len(fleet) <= incidentFleetSize {
		return fleet
	}
	return fleet[:incidentFleetSize]
}

// sampleTwo picks two distinct entries, or fewer when the pool is smaller.
func (g *Generator) sampleTwo(pool []string) []string {
	if len(pool) <= 2 {
		return pool
	}
	i := g.rng.Intn(len(pool))
	j := g.rng.Intn(len(pool) - 1)
	if j >= i {
		j++
	}
	return []string{pool[i], pool[j]}
}

// newTraceID yields a 16-hex-char identifier in the shape upstream tracing
// libraries emit.
func newTraceID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:16]
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
