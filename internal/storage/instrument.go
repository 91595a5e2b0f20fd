package storage

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xenking/user-roster/internal/domain/user"
)

const instrumentationName = "github.com/xenking/user-roster/internal/storage"

var _ user.Repository = (*InstrumentedRepository)(nil)

// InstrumentedRepository wraps a user.Repository with a span per operation
// and counters of created and listed users.
type InstrumentedRepository struct {
	next    user.Repository
	tracer  trace.Tracer
	created metric.Int64Counter
	listed  metric.Int64Counter
	attrs   []attribute.KeyValue
}

// Instrument decorates repo. backend is recorded as the db.system attribute.
func Instrument(repo user.Repository, backend string, tp trace.TracerProvider, mp metric.MeterProvider) (*InstrumentedRepository, error) {
	meter := mp.Meter(instrumentationName)

	created, err := meter.Int64Counter("users.created",
		metric.WithDescription("Number of users persisted"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "users.created counter")
	}
	listed, err := meter.Int64Counter("users.listed",
		metric.WithDescription("Number of users returned by FindAll"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "users.listed counter")
	}

	return &InstrumentedRepository{
		next:    repo,
		tracer:  tp.Tracer(instrumentationName),
		created: created,
		listed:  listed,
		attrs:   []attribute.KeyValue{attribute.String("db.system", backend)},
	}, nil
}

// Create implements user.Repository.
func (r *InstrumentedRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	ctx, span := r.tracer.Start(ctx, "users.Create",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(r.attrs...),
	)
	defer span.End()

	saved, err := r.next.Create(ctx, u)
	if err != nil {
		recordError(span, err)
		return saved, err
	}

	span.SetAttributes(attribute.Int64("user.id", saved.ID))
	r.created.Add(ctx, 1, metric.WithAttributes(r.attrs...))
	return saved, nil
}

// FindAll implements user.Repository.
func (r *InstrumentedRepository) FindAll(ctx context.Context) ([]user.User, error) {
	ctx, span := r.tracer.Start(ctx, "users.FindAll",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(r.attrs...),
	)
	defer span.End()

	users, err := r.next.FindAll(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("users.count", len(users)))
	r.listed.Add(ctx, int64(len(users)), metric.WithAttributes(r.attrs...))
	return users, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
