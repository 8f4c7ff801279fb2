package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported alongside "".
const ServiceName = "responder"

// Prober reports whether the backing document is usable.
type Prober interface {
	Probe() error
}

// Checker maps probe results onto a grpc health server.
type Checker struct {
	probe    Prober
	interval time.Duration
	srv      *grpchealth.Server

	mu   sync.Mutex
	last healthpb.HealthCheckResponse_ServingStatus
}

// NewChecker returns a Checker that starts out NOT_SERVING until the first
// probe completes.
func NewChecker(p Prober, interval time.Duration) *Checker {
	c := &Checker{
		probe:    p,
		interval: interval,
		srv:      grpchealth.NewServer(),
		last:     healthpb.HealthCheckResponse_NOT_SERVING,
	}
	c.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return c
}

// Server returns the health service implementation to register.
func (c *Checker) Server() *grpchealth.Server { return c.srv }

// Check runs one probe and publishes the result.
func (c *Checker) Check() healthpb.HealthCheckResponse_ServingStatus {
	st := healthpb.HealthCheckResponse_SERVING
	if err := c.probe.Probe(); err != nil {
		st = healthpb.HealthCheckResponse_NOT_SERVING
		slog.Warn("health: probe failed", "err", err)
	}

	c.mu.Lock()
	changed := st != c.last
	c.last = st
	c.mu.Unlock()
	if changed {
		slog.Info("health: status changed", "service", ServiceName, "status", st.String())
	}
	c.set(st)
	return st
}

// Run probes immediately and then on every interval until ctx is cancelled.
// On return every service reports NOT_SERVING.
func (c *Checker) Run(ctx context.Context) {
	c.Check()

	t := time.NewTicker(c.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			c.srv.Shutdown()
			return
		case <-t.C:
			c.Check()
		}
	}
}

func (c *Checker) set(st healthpb.HealthCheckResponse_ServingStatus) {
	c.srv.SetServingStatus("", st)
	c.srv.SetServingStatus(ServiceName, st)
}
