package usecase

import (
	"context"
	"time"

	"resumeai-backend/internal/domain"
)

// Pinger is anything whose reachability can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type healthUsecase struct {
	deps map[string]Pinger
}

// NewHealthUsecase probes each named dependency. A nil Pinger reports "disabled".
func NewHealthUsecase(deps map[string]Pinger) domain.HealthUsecase {
	return &healthUsecase{deps: deps}
}

func (u *healthUsecase) Check(ctx context.Context) domain.HealthStatus {
	status := domain.HealthStatus{Status: "ok", Dependencies: map[string]string{}}
	for name, p := range u.deps {
		if p == nil {
			status.Dependencies[name] = "disabled"
			continue
		}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := p.Ping(pingCtx)
		cancel()
		if err != nil {
			status.Dependencies[name] = "degraded"
			status.Status = "degraded"
			continue
		}
		status.Dependencies[name] = "ok"
	}
	return status
}
