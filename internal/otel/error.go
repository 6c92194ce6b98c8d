package otel

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const keyCanceled = attribute.Key("storefront.canceled")

// RecordError marks the span failed. An error caused by a canceled context is
// only added as an event and leaves the status unset.
func RecordError(err error, span trace.Span) {
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		span.AddEvent(err.Error(), trace.WithAttributes(keyCanceled.Bool(true)))
		return
	}
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}
