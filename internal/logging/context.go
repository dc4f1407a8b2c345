package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one run of a sweep.
	FieldRunID = "run_id"
	// FieldRunName is the output name of the run.
	FieldRunName = "run_name"
	FieldError   = "error"
)

type runKey struct{}

type runInfo struct {
	id   string
	name string
}

// WithRun tags ctx with the identity of the run being processed.
func WithRun(ctx context.Context, id, name string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, runKey{}, runInfo{id: id, name: name})
}

// RunFromContext returns the run identity stored by WithRun.
func RunFromContext(ctx context.Context) (id, name string, ok bool) {
	if ctx == nil {
		return "", "", false
	}
	info, ok := ctx.Value(runKey{}).(runInfo)
	return info.id, info.name, ok
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	id, name, ok := RunFromContext(ctx)
	if !ok {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id != "" {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if name != "" {
		fields = append(fields, slog.String(FieldRunName, name))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
