// AngelaMos | 2026
// metrics.go

package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metrics holds the business counters. Instruments are created against the
// global meter provider, which forwards to the exporter once NewTelemetry
// installs one and discards measurements otherwise.
type Metrics struct {
	LeadConversions   metric.Int64Counter
	Bootstraps        metric.Int64Counter
	MembershipChanges metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.LeadConversions, err = meter.Int64Counter("crm.lead.conversions",
		metric.WithDescription("Lead conversion attempts by outcome"))
	if err != nil {
		return nil, err
	}

	m.Bootstraps, err = meter.Int64Counter("crm.organization.bootstraps",
		metric.WithDescription("Organization bootstrap attempts by outcome"))
	if err != nil {
		return nil, err
	}

	m.MembershipChanges, err = meter.Int64Counter("crm.organization.membership_changes",
		metric.WithDescription("Invite, remove and toggle-admin attempts by outcome"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

var defaultMetrics = sync.OnceValue(func() *Metrics {
	m, err := NewMetrics(otel.Meter(instrumentationName))
	if err != nil {
		slog.Warn("metric instruments unavailable", "error", err)
		m, _ = NewMetrics(noop.NewMeterProvider().Meter(instrumentationName)) //nolint:errcheck // noop never fails
	}
	return m
})

// Outcome buckets an operation result into a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrDuplicateKey):
		return "rejected"
	default:
		return "error"
	}
}

func CountConversion(ctx context.Context, err error) {
	defaultMetrics().LeadConversions.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", Outcome(err))))
}

func CountBootstrap(ctx context.Context, err error) {
	defaultMetrics().Bootstraps.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", Outcome(err))))
}

func CountMembershipChange(ctx context.Context, action string, err error) {
	defaultMetrics().MembershipChanges.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", Outcome(err)),
	))
}
