package coercez

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// LogFailures returns a hook handler writing failed and fallen-back pipeline
// runs to logger. Register it with OnFailed, OnFallback or both:
//
//	handler := coercez.LogFailures(log.Logger)
//	pipeline.OnFailed(handler)
//	pipeline.OnFallback(handler)
//
// Failures resolved by a fallback are logged at debug level, the rest at warn.
func LogFailures(logger zerolog.Logger) func(context.Context, PipelineEvent) error {
	return func(_ context.Context, event PipelineEvent) error {
		entry := logger.Warn()
		if event.FellBack {
			entry = logger.Debug()
		}
		entry = entry.
			Str("pipeline", event.Name).
			Dur("duration", event.Duration).
			Bool("fallback", event.FellBack)
		if event.Stage != "" {
			entry = entry.Str("stage", event.Stage).Int("stage_index", event.StageIndex)
		}
		var coerceErr *Error
		if errors.As(event.Error, &coerceErr) {
			entry = entry.
				Str("expected", coerceErr.Expected).
				Str("value", display(coerceErr.Value)).
				Strs("path", coerceErr.Path)
		}
		entry.Err(event.Error).Msg("coercion failed")
		return nil
	}
}
