// Copyright 2025 The Lattice Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lattice

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ObservabilityRecorder is the hook a Server calls around dispatch for
// metrics and panic/status bookkeeping, expressed directly over
// lattice's own Request/Response types.
type ObservabilityRecorder interface {
	// RecordStatus is called once per completed (non-upgraded) response.
	RecordStatus(status Status)
	// RecordDuration is called once per dispatch, upgraded or not, after
	// the handler and its fangs have returned, with the wall-clock time
	// dispatch took.
	RecordDuration(status Status, d time.Duration)
	// RecordPanic is called when the session loop recovers a handler
	// panic, before it is converted to a 500.
	RecordPanic(v any)
}

type noopObservability struct{}

func (noopObservability) RecordStatus(Status)                  {}
func (noopObservability) RecordDuration(Status, time.Duration) {}
func (noopObservability) RecordPanic(any)                      {}

// otelObservability is an ObservabilityRecorder backed by an OTel Meter
// tracking completed-request counts, request duration, and panic counts.
type otelObservability struct {
	statusCounter     metric.Int64Counter
	durationHistogram metric.Float64Histogram
	panicCounter      metric.Int64Counter
}

// NewOTelObservability builds an ObservabilityRecorder recording a
// request-status counter, a request-duration histogram, and a panic
// counter against meter.
func NewOTelObservability(meter metric.Meter) (ObservabilityRecorder, error) {
	statusCounter, err := meter.Int64Counter(
		"lattice.requests",
		metric.WithDescription("completed requests, by status code"),
	)
	if err != nil {
		return nil, fmt.Errorf("lattice: building status counter: %w", err)
	}
	durationHistogram, err := meter.Float64Histogram(
		"lattice.request.duration",
		metric.WithDescription("time from dispatch start to the handler's response, by status code"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("lattice: building duration histogram: %w", err)
	}
	panicCounter, err := meter.Int64Counter(
		"lattice.panics",
		metric.WithDescription("handler panics recovered by the session loop"),
	)
	if err != nil {
		return nil, fmt.Errorf("lattice: building panic counter: %w", err)
	}
	return &otelObservability{
		statusCounter:     statusCounter,
		durationHistogram: durationHistogram,
		panicCounter:      panicCounter,
	}, nil
}

func (o *otelObservability) RecordStatus(status Status) {
	o.statusCounter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.Int("http.status_code", status),
	))
}

func (o *otelObservability) RecordDuration(status Status, d time.Duration) {
	o.durationHistogram.Record(context.Background(), d.Seconds(), metric.WithAttributes(
		attribute.Int("http.status_code", status),
	))
}

func (o *otelObservability) RecordPanic(any) {
	o.panicCounter.Add(context.Background(), 1)
}

// dispatchTracer wraps a session's dispatch call with one span per
// request, named "METHOD path" and carrying the eventual status code.
type dispatchTracer struct {
	tracer trace.Tracer
}

func newDispatchTracer(tracer trace.Tracer) dispatchTracer {
	return dispatchTracer{tracer: tracer}
}

// enabled reports whether a real tracer was configured via WithTracer.
func (d dispatchTracer) enabled() bool { return d.tracer != nil }

// around starts a span for req, calls dispatch, annotates the span with
// the resulting status, and ends it.
func (d dispatchTracer) around(req *Request, dispatch func(*Request) *Response) *Response {
	_, span := d.tracer.Start(context.Background(), req.Method.String()+" "+req.Path(),
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", req.Method.String()),
		attribute.String("http.route", req.Path()),
	)
	resp := dispatch(req)
	span.SetAttributes(attribute.Int("http.status_code", resp.Status))
	return resp
}
