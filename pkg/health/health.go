// Package health reports the status of the service dependencies over HTTP and
// the standard gRPC health protocol.
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/tair/grocery-pos/pkg/logger"
	"github.com/tair/grocery-pos/pkg/response"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Probe checks one dependency
type Probe func(ctx context.Context) error

// DependencyHealth is the result of one probe
type DependencyHealth struct {
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Critical bool          `json:"critical"`
	Latency  time.Duration `json:"latency_ms"`
	Error    string        `json:"error,omitempty"`
}

// Report is the overall health of the service
type Report struct {
	Service      string                      `json:"service"`
	Status       string                      `json:"status"`
	Dependencies map[string]DependencyHealth `json:"dependencies"`
	Uptime       float64                     `json:"uptime_seconds"`
	Timestamp    time.Time                   `json:"timestamp"`
}

type probe struct {
	name     string
	critical bool
	check    Probe
}

// Checker runs registered probes concurrently
type Checker struct {
	service   string
	timeout   time.Duration
	startTime time.Time
	probes    []probe
}

func NewChecker(service string) *Checker {
	return &Checker{
		service:   service,
		timeout:   3 * time.Second,
		startTime: time.Now(),
	}
}

// Register adds a probe. A failing critical probe makes the service
// unhealthy; a failing optional one only degrades it.
func (h *Checker) Register(name string, critical bool, check Probe) {
	h.probes = append(h.probes, probe{name: name, critical: critical, check: check})
}

// Check runs all probes and aggregates their status
func (h *Checker) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	deps := make(map[string]DependencyHealth, len(h.probes))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, p := range h.probes {
		wg.Add(1)
		go func(p probe) {
			defer wg.Done()
			start := time.Now()
			result := DependencyHealth{Name: p.name, Critical: p.critical, Status: StatusHealthy}
			if err := p.check(ctx); err != nil {
				result.Status = StatusUnhealthy
				result.Error = err.Error()
				logger.Warn(ctx).
					Err(err).
					Str("dependency", p.name).
					Msg("Dependency health check failed")
			}
			result.Latency = time.Since(start)

			mu.Lock()
			deps[p.name] = result
			mu.Unlock()
		}(p)
	}
	wg.Wait()

	return Report{
		Service:      h.service,
		Status:       overallStatus(deps),
		Dependencies: deps,
		Uptime:       time.Since(h.startTime).Seconds(),
		Timestamp:    time.Now(),
	}
}

func overallStatus(deps map[string]DependencyHealth) string {
	status := StatusHealthy
	for _, d := range deps {
		if d.Status == StatusHealthy {
			continue
		}
		if d.Critical {
			return StatusUnhealthy
		}
		status = StatusDegraded
	}
	return status
}

// Handler serves the health report. Unhealthy services answer 503.
func (h *Checker) Handler(w http.ResponseWriter, r *http.Request) {
	report := h.Check(r.Context())
	status := http.StatusOK
	if report.Status == StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, status, report)
}
