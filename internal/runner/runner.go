// Package runner executes scenarios end to end: validation, scheduling, page
// residency and metrics.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/me/cpusim/internal/config"
	"github.com/me/cpusim/internal/logging"
	"github.com/me/cpusim/internal/memory"
	"github.com/me/cpusim/internal/replay"
	"github.com/me/cpusim/internal/scheduler"
	"github.com/me/cpusim/internal/telemetry"
	"github.com/me/cpusim/pkg/model"
)

// Runner executes scenarios. It holds no per-run state and is safe for
// concurrent use.
type Runner struct {
	logger  *slog.Logger
	engine  *scheduler.Engine
	tracer  trace.Tracer
	workers int
	now     func() time.Time
}

// New creates a Runner. A nil logger discards output.
func New(logger *slog.Logger, cfg config.SimulationConfig) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	workers := cfg.CompareWorkers
	if workers <= 0 {
		workers = 1
	}
	return &Runner{
		logger:  logger.With("component", "runner"),
		engine:  scheduler.NewEngine(logger),
		tracer:  telemetry.Tracer("cpusim/runner"),
		workers: workers,
		now:     time.Now,
	}
}

// Validate checks every field of sc and reports all problems at once.
func Validate(sc model.Scenario) error {
	var details []model.FieldError

	policy, err := sc.SchedulingPolicy()
	if err != nil {
		details = append(details, model.FieldError{Field: "policy", Message: err.Error()})
		// Still check the processes so the caller sees every problem.
		policy = model.FIFO{}
	}
	details = append(details, scheduler.CheckInput(sc.Processes, policy)...)

	if c := sc.Memory.CapacityValue(); c <= 0 {
		details = append(details, model.FieldError{
			Field:   "memory.capacity",
			Message: fmt.Sprintf("must be positive, got %d", c),
		})
	}
	if _, err := model.ParseMemoryPolicy(sc.Memory.Policy); err != nil {
		details = append(details, model.FieldError{Field: "memory.policy", Message: err.Error()})
	}

	if len(details) > 0 {
		return model.NewValidationError("invalid scenario", details...)
	}
	return nil
}

// Execute runs sc and returns the finished run. Nothing is returned for
// invalid input or an engine invariant violation.
func (r *Runner) Execute(ctx context.Context, sc model.Scenario) (*model.Run, error) {
	ctx, span := r.tracer.Start(ctx, "simulate", trace.WithAttributes(
		attribute.String("cpusim.policy", sc.Policy),
		attribute.Int("cpusim.processes", len(sc.Processes)),
		attribute.String("cpusim.memory_policy", sc.Memory.Policy),
	))
	defer span.End()

	run, err := r.execute(ctx, sc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("cpusim.run_id", run.ID),
		attribute.Int("cpusim.ticks", run.Report.Ticks),
		attribute.Int("cpusim.page_faults", run.Report.PageFaults),
	)
	return run, nil
}

func (r *Runner) execute(ctx context.Context, sc model.Scenario) (*model.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := Validate(sc); err != nil {
		return nil, err
	}
	policy, _ := sc.SchedulingPolicy()

	tr, err := r.engine.Simulate(sc.Processes, policy)
	if err != nil {
		return nil, fmt.Errorf("simulate %s: %w", policy.Name(), err)
	}

	_, ft, err := Frames(sc, tr)
	if err != nil {
		return nil, err
	}

	report := scheduler.Summarize(tr)
	report.PageFaults = ft.Faults()

	run := &model.Run{
		ID:        "sim_" + uuid.New().String(),
		CreatedAt: r.now().UTC(),
		Scenario:  sc,
		Trace:     tr,
		Report:    report,
		Memory:    ft.Result(),
	}
	logging.ForRun(r.logger, run.ID, string(report.Policy)).Debug("run finished",
		"ticks", report.Ticks,
		"avg_turnaround", report.AvgTurnaround,
		"page_faults", report.PageFaults,
	)
	return run, nil
}

// Frames replays tr against a fresh frame table configured by sc and returns
// the per-tick frames together with the final table.
func Frames(sc model.Scenario, tr *model.Trace) ([]replay.Frame, *memory.FrameTable, error) {
	mp, err := model.ParseMemoryPolicy(sc.Memory.Policy)
	if err != nil {
		return nil, nil, model.NewValidationError("invalid scenario",
			model.FieldError{Field: "memory.policy", Message: err.Error()})
	}
	ft, err := memory.New(sc.Memory.CapacityValue(), mp)
	if err != nil {
		return nil, nil, err
	}
	return replay.Timeline(tr, sc.Processes, ft), ft, nil
}

// Compare runs sc once per policy concurrently. Results keep the order of
// policies; the first failure cancels the rest.
func (r *Runner) Compare(ctx context.Context, sc model.Scenario, policies []model.PolicyName) ([]model.Comparison, error) {
	if len(policies) == 0 {
		policies = model.AllPolicies
	}
	ctx, span := r.tracer.Start(ctx, "compare", trace.WithAttributes(
		attribute.Int("cpusim.policies", len(policies)),
	))
	defer span.End()

	results := make([]model.Comparison, len(policies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, name := range policies {
		i, name := i, name
		g.Go(func() error {
			run, err := r.Execute(gctx, sc.WithPolicy(name))
			if err != nil {
				return fmt.Errorf("policy %s: %w", name, err)
			}
			results[i] = model.Comparison{Policy: name, Report: run.Report}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return results, nil
}
