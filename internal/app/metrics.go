package app

import (
	"context"

	"github.com/metinatakli/seating-session/internal/domain"
	"github.com/metinatakli/seating-session/internal/session"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type metrics struct {
	holds      metric.Int64Counter
	checkouts  metric.Int64Counter
	basketSize metric.Int64Histogram
}

func newMetrics() (*metrics, error) {
	meter := otel.Meter("seating-session")

	holds, err := meter.Int64Counter("seating.holds",
		metric.WithDescription("Hold token requests by operation and outcome"))
	if err != nil {
		return nil, err
	}

	checkouts, err := meter.Int64Counter("seating.checkouts",
		metric.WithDescription("Checkout attempts by outcome"))
	if err != nil {
		return nil, err
	}

	basketSize, err := meter.Int64Histogram("seating.basket.size",
		metric.WithDescription("Number of items in a basket after a seat is added"))
	if err != nil {
		return nil, err
	}

	return &metrics{
		holds:      holds,
		checkouts:  checkouts,
		basketSize: basketSize,
	}, nil
}

func (m *metrics) recordHold(ctx context.Context, operation string, err error) {
	m.holds.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome(err)),
	))
}

func (m *metrics) recordCheckout(ctx context.Context, err error) {
	m.checkouts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome(err))))
}

func (m *metrics) recordBasketSize(ctx context.Context, state session.State) {
	m.basketSize.Record(ctx, int64(len(state.Basket.Items)))
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}

	if kind, ok := domain.KindOf(err); ok {
		return string(kind)
	}

	return "error"
}
