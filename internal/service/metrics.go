package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/mansoorceksport/repflow/internal/service"

// engineMetrics counts session lifecycle events on the global meter provider
type engineMetrics struct {
	setsCompleted     metric.Int64Counter
	sessionsCompleted metric.Int64Counter
	submissions       metric.Int64Counter
}

func newEngineMetrics() *engineMetrics {
	meter := otel.Meter(meterName)
	m := &engineMetrics{}
	var err error

	if m.setsCompleted, err = meter.Int64Counter("repflow.sets.completed",
		metric.WithDescription("Sets marked completed")); err != nil {
		logrus.WithError(err).Warn("failed to create sets counter")
	}
	if m.sessionsCompleted, err = meter.Int64Counter("repflow.sessions.completed",
		metric.WithDescription("Sessions that reached the Completed state")); err != nil {
		logrus.WithError(err).Warn("failed to create sessions counter")
	}
	if m.submissions, err = meter.Int64Counter("repflow.sessions.submissions",
		metric.WithDescription("Completion submissions by outcome")); err != nil {
		logrus.WithError(err).Warn("failed to create submissions counter")
	}
	return m
}

func (m *engineMetrics) setCompleted(ctx context.Context, sessionType string) {
	if m == nil || m.setsCompleted == nil {
		return
	}
	m.setsCompleted.Add(ctx, 1, metric.WithAttributes(attribute.String("session.type", sessionType)))
}

func (m *engineMetrics) sessionCompleted(ctx context.Context, sessionType string, early bool) {
	if m == nil || m.sessionsCompleted == nil {
		return
	}
	m.sessionsCompleted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("session.type", sessionType),
		attribute.Bool("session.early", early),
	))
}

func (m *engineMetrics) submitted(ctx context.Context, sessionType string, ok bool) {
	if m == nil || m.submissions == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.submissions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("session.type", sessionType),
		attribute.String("outcome", outcome),
	))
}
