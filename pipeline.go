package coercez

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for the Pipeline connector.
const (
	// Metrics.
	PipelineCoercedTotal   = metricz.Key("pipeline.coerced.total")
	PipelineSuccessesTotal = metricz.Key("pipeline.successes.total")
	PipelineFailuresTotal  = metricz.Key("pipeline.failures.total")
	PipelineFallbacksTotal = metricz.Key("pipeline.fallbacks.total")
	PipelineStagesTotal    = metricz.Key("pipeline.stages.total")
	PipelineDurationMs     = metricz.Key("pipeline.duration.ms")

	// Spans.
	PipelineCoerceSpan = tracez.Key("pipeline.coerce")
	PipelineStageSpan  = tracez.Key("pipeline.stage")

	// Tags.
	PipelineTagStageCount  = tracez.Tag("pipeline.stage_count")
	PipelineTagStageNumber = tracez.Tag("pipeline.stage_number")
	PipelineTagStageName   = tracez.Tag("pipeline.stage_name")
	PipelineTagSuccess     = tracez.Tag("pipeline.success")
	PipelineTagError       = tracez.Tag("pipeline.error")

	// Hook event keys.
	PipelineEventCoerced  = hookz.Key("pipeline.coerced")
	PipelineEventFailed   = hookz.Key("pipeline.failed")
	PipelineEventFallback = hookz.Key("pipeline.fallback")
)

// Pipeline modification errors.
var (
	ErrEmptyPipeline = errors.New("pipeline is empty")
	ErrStageNotFound = errors.New("stage not found")
)

// PipelineEvent describes one coercion run through a Pipeline.
// It is emitted via hookz when a run succeeds, fails, or is resolved by a
// fallback.
type PipelineEvent struct {
	Name       Name          // Pipeline name
	Stage      Name          // Stage that failed (empty on success)
	StageIndex int           // 0-based index of the failing stage, -1 on success
	Value      any           // Input value
	Error      error         // Failure, nil on success
	FellBack   bool          // Whether a fallback resolved the failure
	Duration   time.Duration // Time spent in the stages
	Timestamp  time.Time     // When the event occurred
}

// Pipeline is a named, mutable list of stages producing an O. It coerces
// exactly like To over the same stages, and adds observability: metrics,
// spans and hook events for every run.
//
// Pipeline offers a rich API to modify its stage list at runtime, which makes
// it the right tool for coercions assembled from configuration or extended by
// plugins. Use To when the stages are fixed.
//
// Failures leaving a Pipeline carry its name as the first element of their
// path.
//
// # Observability
//
// Metrics:
//   - pipeline.coerced.total: Counter of coercion runs
//   - pipeline.successes.total: Counter of successful runs
//   - pipeline.failures.total: Counter of failed runs (before fallbacks)
//   - pipeline.fallbacks.total: Counter of failures resolved by a fallback
//   - pipeline.stages.total: Gauge of stages in the last run
//   - pipeline.duration.ms: Gauge of the last run duration
//
// Traces:
//   - pipeline.coerce: Parent span for a run
//   - pipeline.stage: Child span for each stage
//
// Events (via hooks):
//   - pipeline.coerced: Fired when a run succeeds
//   - pipeline.failed: Fired when a run fails
//   - pipeline.fallback: Fired when CoerceOr resolves a failure
//
// Example:
//
//	signup := coercez.NewPipeline[string]("signup-email",
//	    coercez.String,
//	    coercez.Email,
//	)
//	defer signup.Close()
//
//	signup.OnFailed(coercez.LogFailures(log.Logger))
//
//	email, err := signup.Coerce(form.Get("email"))
type Pipeline[O any] struct {
	name    Name
	stages  []Stage
	mu      sync.RWMutex
	clock   clockz.Clock
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[PipelineEvent]
}

// NewPipeline creates a Pipeline with optional initial stages. Nil stages are
// skipped.
func NewPipeline[O any](name Name, stages ...Stage) *Pipeline[O] {
	metrics := metricz.New()
	metrics.Counter(PipelineCoercedTotal)
	metrics.Counter(PipelineSuccessesTotal)
	metrics.Counter(PipelineFailuresTotal)
	metrics.Counter(PipelineFallbacksTotal)
	metrics.Gauge(PipelineStagesTotal)
	metrics.Gauge(PipelineDurationMs)

	return &Pipeline[O]{
		name:    name,
		stages:  compact(stages),
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[PipelineEvent](),
	}
}

func compact(stages []Stage) []Stage {
	return slices.DeleteFunc(slices.Clone(stages), func(s Stage) bool {
		return s == nil
	})
}

// Coerce runs value through the stages.
func (p *Pipeline[O]) Coerce(value any) (O, error) {
	return p.CoerceContext(context.Background(), value)
}

// CoerceContext runs value through the stages, checking ctx before each one.
// Spans started for the run are children of any span carried by ctx.
func (p *Pipeline[O]) CoerceContext(ctx context.Context, value any) (result O, err error) {
	defer recoverFromPanic(&result, &err, p.name, value)

	if ctx == nil {
		ctx = context.Background()
	}

	p.mu.RLock()
	stages := slices.Clone(p.stages)
	p.mu.RUnlock()

	clock := p.getClock()
	p.metrics.Counter(PipelineCoercedTotal).Inc()
	p.metrics.Gauge(PipelineStagesTotal).Set(float64(len(stages)))
	start := clock.Now()

	ctx, span := p.tracer.StartSpan(ctx, PipelineCoerceSpan)
	span.SetTag(PipelineTagStageCount, strconv.Itoa(len(stages)))
	defer span.Finish()

	failedAt := -1
	current := value
	for i, stage := range stages {
		if ctxErr := ctx.Err(); ctxErr != nil {
			failedAt, err = i, Wrap(current, ctxErr)
			break
		}

		_, stageSpan := p.tracer.StartSpan(ctx, PipelineStageSpan)
		stageSpan.SetTag(PipelineTagStageNumber, strconv.Itoa(i+1))
		stageSpan.SetTag(PipelineTagStageName, stage.Name())
		next, stageErr := stage.coerceAny(current)
		stageSpan.Finish()

		if stageErr != nil {
			failedAt, err = i, stageErr
			break
		}
		current = next
	}

	if err == nil {
		out, ok := as[O](current)
		if ok {
			result = out
		} else {
			err = NewError(current, expectationFor[O]())
		}
	}

	elapsed := clock.Since(start)
	p.metrics.Gauge(PipelineDurationMs).Set(float64(elapsed.Milliseconds()))

	event := PipelineEvent{
		Name:       p.name,
		StageIndex: failedAt,
		Value:      value,
		Duration:   elapsed,
		Timestamp:  clock.Now(),
	}

	if err == nil {
		span.SetTag(PipelineTagSuccess, "true")
		p.metrics.Counter(PipelineSuccessesTotal).Inc()
		_ = p.hooks.Emit(ctx, PipelineEventCoerced, event) //nolint:errcheck
		return result, nil
	}

	err = prefix(p.name, value, err)
	span.SetTag(PipelineTagSuccess, "false")
	span.SetTag(PipelineTagError, err.Error())
	p.metrics.Counter(PipelineFailuresTotal).Inc()

	if failedAt >= 0 {
		event.Stage = stages[failedAt].Name()
	}
	event.Error = err
	_ = p.hooks.Emit(ctx, PipelineEventFailed, event) //nolint:errcheck

	var zero O
	return zero, err
}

// CoerceOr runs value through the stages and resolves a failure through
// fallback. A nil fallback propagates the failure.
func (p *Pipeline[O]) CoerceOr(value any, fallback Fallback[O]) (O, error) {
	return p.CoerceContextOr(context.Background(), value, fallback)
}

// CoerceContextOr is CoerceOr with a context.
func (p *Pipeline[O]) CoerceContextOr(ctx context.Context, value any, fallback Fallback[O]) (O, error) {
	start := p.getClock().Now()
	result, err := p.CoerceContext(ctx, value)
	if err == nil || fallback == nil {
		return result, err
	}

	p.metrics.Counter(PipelineFallbacksTotal).Inc()
	if ctx == nil {
		ctx = context.Background()
	}
	_ = p.hooks.Emit(ctx, PipelineEventFallback, PipelineEvent{ //nolint:errcheck
		Name:       p.name,
		StageIndex: -1,
		Value:      value,
		Error:      err,
		FellBack:   true,
		Duration:   p.getClock().Since(start),
		Timestamp:  p.getClock().Now(),
	})
	return fallback(err)
}

// Coercer returns an immutable Coercer over a snapshot of the current stages.
// The snapshot is not observed: it records no metrics and emits no events.
func (p *Pipeline[O]) Coercer() Coercer[any, O] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return To[O](p.stages...).Named(p.name)
}

// Register adds stages to the end of the Pipeline.
func (p *Pipeline[O]) Register(stages ...Stage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages = append(p.stages, compact(stages)...)
}

// Push adds stages to the back of the Pipeline (runs last).
func (p *Pipeline[O]) Push(stages ...Stage) {
	p.Register(stages...)
}

// Unshift adds stages to the front of the Pipeline (runs first).
func (p *Pipeline[O]) Unshift(stages ...Stage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages = slices.Insert(p.stages, 0, compact(stages)...)
}

// Shift removes and returns the first stage.
func (p *Pipeline[O]) Shift() (Stage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.stages) == 0 {
		return nil, ErrEmptyPipeline
	}
	stage := p.stages[0]
	p.stages = slices.Delete(p.stages, 0, 1)
	return stage, nil
}

// Pop removes and returns the last stage.
func (p *Pipeline[O]) Pop() (Stage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.stages) == 0 {
		return nil, ErrEmptyPipeline
	}
	last := len(p.stages) - 1
	stage := p.stages[last]
	p.stages = p.stages[:last]
	return stage, nil
}

// Remove removes the first stage with the specified name.
func (p *Pipeline[O]) Remove(name Name) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrStageNotFound, name)
	}
	p.stages = slices.Delete(p.stages, i, i+1)
	return nil
}

// Replace replaces the first stage with the specified name.
func (p *Pipeline[O]) Replace(name Name, stage Stage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrStageNotFound, name)
	}
	if stage == nil {
		p.stages = slices.Delete(p.stages, i, i+1)
		return nil
	}
	p.stages[i] = stage
	return nil
}

// After inserts stages after the first stage with the specified name.
func (p *Pipeline[O]) After(name Name, stages ...Stage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrStageNotFound, name)
	}
	p.stages = slices.Insert(p.stages, i+1, compact(stages)...)
	return nil
}

// Before inserts stages before the first stage with the specified name.
func (p *Pipeline[O]) Before(name Name, stages ...Stage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrStageNotFound, name)
	}
	p.stages = slices.Insert(p.stages, i, compact(stages)...)
	return nil
}

func (p *Pipeline[O]) indexOf(name Name) int {
	return slices.IndexFunc(p.stages, func(s Stage) bool {
		return s.Name() == name
	})
}

// Clear removes all stages. An empty Pipeline only asserts its input to O.
func (p *Pipeline[O]) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages = nil
}

// Len returns the number of stages.
func (p *Pipeline[O]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.stages)
}

// Names returns the names of all stages in order.
func (p *Pipeline[O]) Names() []Name {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]Name, len(p.stages))
	for i, stage := range p.stages {
		names[i] = stage.Name()
	}
	return names
}

// Name returns the name of this pipeline.
func (p *Pipeline[O]) Name() Name {
	return p.name
}

func (p *Pipeline[O]) coerceAny(value any) (any, error) {
	out, err := p.Coerce(value)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WithClock sets a custom clock for timing and event timestamps.
func (p *Pipeline[O]) WithClock(clock clockz.Clock) *Pipeline[O] {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clock = clock
	return p
}

// getClock returns the clock to use.
func (p *Pipeline[O]) getClock() clockz.Clock {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.clock == nil {
		return clockz.RealClock
	}
	return p.clock
}

// Metrics returns the metrics registry for this pipeline.
func (p *Pipeline[O]) Metrics() *metricz.Registry {
	return p.metrics
}

// Tracer returns the tracer for this pipeline.
func (p *Pipeline[O]) Tracer() *tracez.Tracer {
	return p.tracer
}

// Close gracefully shuts down observability components.
func (p *Pipeline[O]) Close() error {
	if p.tracer != nil {
		p.tracer.Close()
	}
	p.hooks.Close()
	return nil
}

// OnCoerced registers a handler called asynchronously after each successful run.
func (p *Pipeline[O]) OnCoerced(handler func(context.Context, PipelineEvent) error) error {
	_, err := p.hooks.Hook(PipelineEventCoerced, handler)
	return err
}

// OnFailed registers a handler called asynchronously after each failed run,
// including runs later resolved by a fallback.
func (p *Pipeline[O]) OnFailed(handler func(context.Context, PipelineEvent) error) error {
	_, err := p.hooks.Hook(PipelineEventFailed, handler)
	return err
}

// OnFallback registers a handler called asynchronously when CoerceOr resolves
// a failure through its fallback.
func (p *Pipeline[O]) OnFallback(handler func(context.Context, PipelineEvent) error) error {
	_, err := p.hooks.Hook(PipelineEventFallback, handler)
	return err
}
