package health

import (
	"context"
	"time"

	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/triage-api/internal/logger"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates at least one dependency is failing.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// CheckSearch is the report key for the search cluster.
const CheckSearch = "search"

const defaultTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates readiness checks.
type Service struct {
	cluster ClusterPinger
	timeout time.Duration
}

// New creates a Service.
func New(cluster ClusterPinger) *Service {
	return &Service{cluster: cluster, timeout: defaultTimeout}
}

// WithTimeout bounds each dependency check.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check pings every dependency and reports per-component results.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 1)

	pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.cluster.Ping(pingCtx); err != nil {
		logpkg.FromContext(ctx).Warn("Search cluster ping failed", zap.Error(err))
		checks[CheckSearch] = CheckError
	} else {
		checks[CheckSearch] = CheckOK
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
