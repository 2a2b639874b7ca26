// Package health provides background liveness checks for external
// dependencies.
package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Pinger is a single liveness probe against one dependency.
type Pinger func(ctx context.Context) error

// Checker caches the result of a periodic probe so request handlers never
// block on a slow dependency.
type Checker struct {
	name    string
	ping    Pinger
	healthy atomic.Bool
	log     zerolog.Logger
}

func NewChecker(name string, ping Pinger, log zerolog.Logger) *Checker {
	return &Checker{name: name, ping: ping, log: log}
}

func (c *Checker) Name() string    { return c.name }
func (c *Checker) IsHealthy() bool { return c.healthy.Load() }

// Start probes immediately and then on every tick until ctx is cancelled.
func (c *Checker) Start(ctx context.Context, interval time.Duration) {
	probe := func() {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		err := c.ping(pctx)
		was := c.healthy.Swap(err == nil)
		switch {
		case err != nil && was:
			c.log.Error().Err(err).Str("dependency", c.name).Msg("dependency health: DOWN")
		case err == nil && !was:
			c.log.Info().Str("dependency", c.name).Msg("dependency health: UP")
		}
	}

	probe()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}

// Service aggregates dependency checkers into one service-level flag.
type Service struct {
	deps []*Checker
}

func NewService(deps ...*Checker) *Service { return &Service{deps: deps} }

func (s *Service) IsHealthy() bool {
	for _, c := range s.deps {
		if !c.IsHealthy() {
			return false
		}
	}
	return true
}

// Unhealthy lists the names of failing dependencies.
func (s *Service) Unhealthy() []string {
	var out []string
	for _, c := range s.deps {
		if !c.IsHealthy() {
			out = append(out, c.Name())
		}
	}
	return out
}
