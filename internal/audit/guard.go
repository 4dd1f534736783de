package audit

import (
	"context"
	"log/slog"

	"personnel/pkg/platform/circuit"
)

// Guarded wraps an Emitter with a circuit breaker. Once the sink fails
// repeatedly, further failures are suppressed instead of propagating into the
// fanout error, so one dead sink does not turn every audit emit into a
// warning. Events keep flowing to the sink as probes; sustained recovery
// closes the breaker again.
type Guarded struct {
	inner   Emitter
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewGuarded(inner Emitter, name string, logger *slog.Logger) *Guarded {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guarded{
		inner:   inner,
		breaker: circuit.New(name, circuit.WithFailureThreshold(3)),
		logger:  logger,
	}
}

func (g *Guarded) Emit(ctx context.Context, event Event) error {
	err := g.inner.Emit(ctx, event)
	if err != nil {
		suppress, change := g.breaker.RecordFailure()
		if change.Opened {
			g.logger.Warn("audit sink circuit opened",
				"sink", g.breaker.Name(),
				"error", err,
			)
		}
		if suppress {
			return nil
		}
		return err
	}

	_, change := g.breaker.RecordSuccess()
	if change.Closed {
		g.logger.Info("audit sink circuit closed", "sink", g.breaker.Name())
	}
	return nil
}
