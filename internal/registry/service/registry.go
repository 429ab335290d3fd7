package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BrandonDHaskell/cornerstone/internal/metrics"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/store"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/types"
)

const tracerName = "github.com/BrandonDHaskell/cornerstone/internal/registry/service"

// Registry implements every registry operation on top of a store.Backend.
// Mutations take the caller identity explicitly and read the current time
// from the injected clock.
type Registry struct {
	store     store.Backend
	directory *RegistrarDirectory

	clock            func() time.Time
	newEventID       func() string
	requireRegistrar bool

	logger  *zap.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Registry)

// WithClock overrides time.Now as the source of registration, update and
// verification timestamps.
func WithClock(clock func() time.Time) Option {
	return func(r *Registry) { r.clock = clock }
}

// WithRequireRegistrar makes every mutation except RegisterRegistrar fail
// with ErrNotRegistrar unless the caller is a registered registrar.
func WithRequireRegistrar(on bool) Option {
	return func(r *Registry) { r.requireRegistrar = on }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(r *Registry) { r.tracer = t }
}

func WithEventIDs(gen func() string) Option {
	return func(r *Registry) { r.newEventID = gen }
}

func New(st store.Backend, opts ...Option) *Registry {
	r := &Registry{
		store:      st,
		directory:  NewRegistrarDirectory(st),
		clock:      time.Now,
		newEventID: uuid.NewString,
		logger:     zap.L(),
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Directory exposes the registrar lookup used for authorization.
func (r *Registry) Directory() *RegistrarDirectory { return r.directory }

// now is truncated to the millisecond precision every backend can store.
func (r *Registry) now() time.Time { return r.clock().UTC().Truncate(time.Millisecond) }

// begin opens a span for op and returns a finisher that records the outcome
// on the span, the metrics and, for unexpected errors, the log.
func (r *Registry) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "registry."+op, trace.WithAttributes(attrs...))

	return ctx, func(errp *error) {
		err := *errp
		outcome := "ok"
		if err != nil {
			if f, ok := AsFailure(err); ok {
				outcome = f.Kind.String()
				span.SetAttributes(attribute.String("registry.failure", f.Reason))
			} else {
				outcome = "error"
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				r.logger.Error("registry operation failed", zap.String("operation", op), zap.Error(err))
			}
		}
		r.metrics.ObserveOperation(op, outcome, time.Since(start))
		span.End()
	}
}

// authorize resolves the acting caller for a mutation.
func (r *Registry) authorize(ctx context.Context, caller string) (string, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return "", ErrMissingCaller
	}
	if !r.requireRegistrar {
		return caller, nil
	}
	ok, err := r.directory.IsRegistrar(ctx, caller)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNotRegistrar
	}
	return caller, nil
}

// requireID returns v unchanged.  Ids are compared byte for byte, so one
// with leading or trailing whitespace is rejected rather than trimmed.
func requireID(field, v string) (string, error) {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidArgument, field)
	}
	if trimmed != v {
		return "", fmt.Errorf("%w: %s must not have surrounding whitespace", ErrInvalidArgument, field)
	}
	return v, nil
}

func decodeHash(field, v string) ([]byte, error) {
	b, err := types.DecodeHash(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be %d hex-encoded bytes", ErrInvalidHash, field, types.HashSize)
	}
	return b, nil
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// parseDate accepts an RFC3339 timestamp or a plain calendar date.
// Historical dates are allowed; the value is required.
func parseDate(field, v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", ErrInvalidArgument, field)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC().Truncate(time.Millisecond), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s must be RFC3339 or YYYY-MM-DD", ErrInvalidArgument, field)
}
