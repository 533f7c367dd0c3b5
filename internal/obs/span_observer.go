package obs

import (
	"context"
	"fmt"
	"sort"

	"github.com/ankushthakur2007/sqp/internal/service"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanObserver records each service use case as a span, nested under the
// request span when the use case ran inside an HTTP handler.
type SpanObserver struct{}

var _ service.UseCaseObserver = SpanObserver{}

func (SpanObserver) ObserveUseCase(ctx context.Context, ev service.UseCaseEvent) {
	attrs := make([]attribute.KeyValue, 0, len(ev.Fields)+1)
	attrs = append(attrs, attribute.Bool("sqp.success", ev.Success))
	keys := make([]string, 0, len(ev.Fields))
	for k := range ev.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, attribute.String("sqp."+k, fmt.Sprint(ev.Fields[k])))
	}

	_, span := Tracer().Start(ctx, ev.Name,
		trace.WithTimestamp(ev.StartedAt),
		trace.WithAttributes(attrs...))
	if ev.Err != nil {
		span.RecordError(ev.Err)
		span.SetStatus(codes.Error, ev.Err.Error())
	}
	span.End(trace.WithTimestamp(ev.StartedAt.Add(ev.Duration)))
}
