package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sagohq/sago/application/handler"
	"github.com/sagohq/sago/domain/monitor"
	"github.com/sagohq/sago/internal/config"
)

// Engine drives every persisted run forward. Workers poll for due runs, claim
// one under a lease, execute the transition handler for its state, and write
// the advanced run back in a single update that also releases the lease.
// Failed transitions keep their state and re-wake after a backoff, so a crash
// or error re-enters the same step.
type Engine struct {
	runs         monitor.RunStore
	registry     *handler.Registry
	logger       *slog.Logger
	workerCount  int
	pollPeriod   time.Duration
	lease        time.Duration
	retryBackoff time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewEngine creates a new Engine.
func NewEngine(runs monitor.RunStore, registry *handler.Registry, cfg config.EngineConfig, logger *slog.Logger) *Engine {
	return &Engine{
		runs:         runs,
		registry:     registry,
		logger:       logger,
		workerCount:  cfg.WorkerCount(),
		pollPeriod:   cfg.PollPeriod(),
		lease:        cfg.Lease(),
		retryBackoff: cfg.RetryBackoff(),
	}
}

// Start launches the worker pool. Workers run in goroutines until Stop.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx, e.cancel = context.WithCancel(ctx)

	for i := 0; i < e.workerCount; i++ {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			e.run(ctx)
		}()
	}

	e.logger.Info("engine started", slog.Int("worker_count", e.workerCount))
}

// Stop gracefully shuts the engine down. It waits for in-flight transitions
// to finish before returning.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	e.cancel = nil
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.wg.Wait()
	e.logger.Info("engine stopped")
}

func (e *Engine) run(ctx context.Context) {
	ticker := time.NewTicker(e.pollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.processNext(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				e.logger.Error("error processing run",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

func (e *Engine) processNext(ctx context.Context) error {
	run, found, err := e.runs.ClaimDue(ctx, time.Now(), e.lease)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	return e.advance(ctx, run)
}

// advance executes one transition for a claimed run and persists the result.
func (e *Engine) advance(ctx context.Context, run monitor.Run) error {
	start := time.Now()
	from := run.State()

	h, ok := e.registry.Handler(from)
	if !ok {
		e.logger.Error("no handler for state",
			slog.Int64("run_id", run.ID()),
			slog.String("state", from.String()),
		)
		_, err := e.runs.Save(ctx, run.WithFailure("no handler for state "+from.String(), time.Now().Add(e.retryBackoff)).Released())
		return err
	}

	next, execErr := e.executeWithRecovery(ctx, h, run)
	if execErr != nil {
		e.logger.Error("transition failed",
			slog.Int64("run_id", run.ID()),
			slog.String("state", from.String()),
			slog.String("error", execErr.Error()),
		)
		_, err := e.runs.Save(ctx, run.WithFailure(execErr.Error(), time.Now().Add(e.retryBackoff)).Released())
		return err
	}

	if _, err := e.runs.Save(ctx, next.Released()); err != nil {
		return fmt.Errorf("save advanced run: %w", err)
	}

	e.logger.Debug("run advanced",
		slog.Int64("run_id", run.ID()),
		slog.String("from", from.String()),
		slog.String("to", next.State().String()),
		slog.Duration("duration", time.Since(start)),
	)

	return nil
}

func (e *Engine) executeWithRecovery(ctx context.Context, h handler.Handler, run monitor.Run) (next monitor.Run, err error) {
	defer func() {
		if r := recover(); r != nil {
			next = run
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Execute(ctx, run)
}

// ProcessOne claims and advances a single due run synchronously (for testing).
// It reports whether a run was claimed.
func (e *Engine) ProcessOne(ctx context.Context) (bool, error) {
	run, found, err := e.runs.ClaimDue(ctx, time.Now(), e.lease)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	err = e.advance(ctx, run)
	return true, err
}
