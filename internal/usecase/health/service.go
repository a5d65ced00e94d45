package health

import (
	"context"
	"sort"
	"sync"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component failed.
	Degraded Status = "degraded"
	// Unhealthy indicates a required component failed.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Component is a named dependency. Required failures make the service unhealthy.
type Component struct {
	Name     string
	Pinger   Pinger
	Required bool
}

// Service coordinates health checks.
type Service struct {
	components []Component
}

// New creates a Service. Components with a nil Pinger are skipped.
func New(components ...Component) *Service {
	kept := make([]Component, 0, len(components))
	for _, c := range components {
		if c.Pinger != nil {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Name < kept[j].Name })
	return &Service{components: kept}
}

// Check pings all components concurrently.
func (s *Service) Check(ctx context.Context) Report {
	results := make([]CheckResult, len(s.components))

	var wg sync.WaitGroup
	for i, c := range s.components {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = CheckOK
			if err := c.Pinger.Ping(ctx); err != nil {
				results[i] = CheckError
			}
		}()
	}
	wg.Wait()

	status := Healthy
	checks := make(map[string]CheckResult, len(s.components))
	for i, c := range s.components {
		checks[c.Name] = results[i]
		if results[i] != CheckError {
			continue
		}
		if c.Required {
			status = Unhealthy
		} else if status == Healthy {
			status = Degraded
		}
	}
	return Report{Status: status, Checks: checks}
}
