package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Operation follows one transcription request through its stages. A nil
// Metrics skips metric recording.
type Operation struct {
	Name      string
	RequestID string
	Backend   string
	Started   time.Time
	Metrics   *Metrics
}

// NewOperation starts the clock for a request.
func NewOperation(name, requestID, backend string, metrics *Metrics) *Operation {
	return &Operation{Name: name, RequestID: requestID, Backend: backend, Started: time.Now(), Metrics: metrics}
}

type operationKey struct{}

// WithOperation returns a copy of ctx carrying op.
func WithOperation(ctx context.Context, op *Operation) context.Context {
	return context.WithValue(ctx, operationKey{}, op)
}

// OperationFromContext returns the Operation stored in ctx, or nil.
func OperationFromContext(ctx context.Context) *Operation {
	op, _ := ctx.Value(operationKey{}).(*Operation)
	return op
}

// Begin opens the request span and counts the request as in flight.
func (op *Operation) Begin(ctx context.Context, spanName string, audioBytes int) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, spanName, trace.WithAttributes(
		attribute.String(AttrOperationName, op.Name),
		attribute.String(AttrRequestID, op.RequestID),
		attribute.String(AttrBackend, op.Backend),
		attribute.Int(AttrAudioBytes, audioBytes),
	))
	if op.Metrics != nil {
		op.Metrics.RecordRequestStart(ctx, op.Backend, audioBytes)
	}
	return WithOperation(ctx, op), span
}

// Finish closes the request span with its outcome.
func (op *Operation) Finish(ctx context.Context, span trace.Span, outcome string, err error) {
	elapsed := op.Elapsed()
	span.SetAttributes(attribute.String(AttrOutcome, outcome), attribute.Int64(AttrDurationMs, elapsed.Milliseconds()))
	EndSpan(span, err)
	if op.Metrics != nil {
		op.Metrics.RecordRequestEnd(ctx, op.Backend, outcome, elapsed)
	}
}

// Stage opens a child span for one stage. The returned func closes it with
// the stage error code, "" on success.
func (op *Operation) Stage(ctx context.Context, spanName, stage string) (context.Context, func(errCode string, err error)) {
	began := time.Now()
	ctx, span := StartSpan(ctx, spanName, trace.WithAttributes(attribute.String(AttrStage, stage)))
	return ctx, func(errCode string, err error) {
		if errCode != "" {
			span.SetAttributes(attribute.String(AttrErrorCode, errCode))
		}
		EndSpan(span, err)
		if op.Metrics != nil {
			op.Metrics.RecordStage(ctx, op.Backend, stage, errCode, time.Since(began))
		}
	}
}

// Elapsed reports the time since the request started.
func (op *Operation) Elapsed() time.Duration { return time.Since(op.Started) }
