package telemetry

import (
	"context"
	"io"
	"log/slog"

	"github.com/mrops-br/storefront-api/internal/infrastructure/config"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey int

const (
	routeResolverKey ctxKey = iota
	sessionIDKey
)

// RouteResolver reports the matched route pattern, or "" before routing.
type RouteResolver func() string

// WithRouteResolver stores fn in ctx. The route is looked up when a record
// is written, after the router has matched.
func WithRouteResolver(ctx context.Context, fn RouteResolver) context.Context {
	return context.WithValue(ctx, routeResolverKey, fn)
}

// HTTPRouteFromContext resolves the route pattern stored in ctx.
func HTTPRouteFromContext(ctx context.Context) string {
	if fn, ok := ctx.Value(routeResolverKey).(RouteResolver); ok && fn != nil {
		return fn()
	}
	return ""
}

// WithSessionID tags ctx with the storefront session being served.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// requestContextHandler stamps trace ids, the route pattern and the session
// id from ctx onto every record.
type requestContextHandler struct {
	next slog.Handler
}

func (h *requestContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *requestContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	if route := HTTPRouteFromContext(ctx); route != "" {
		r.AddAttrs(slog.String("http.route", route))
	}
	if id := SessionIDFromContext(ctx); id != "" && !hasAttr(r, "session_id") {
		r.AddAttrs(slog.String("session_id", id))
	}
	return h.next.Handle(ctx, r)
}

func hasAttr(r slog.Record, key string) bool {
	found := false
	r.Attrs(func(a slog.Attr) bool {
		found = a.Key == key
		return !found
	})
	return found
}

func (h *requestContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &requestContextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *requestContextHandler) WithGroup(name string) slog.Handler {
	return &requestContextHandler{next: h.next.WithGroup(name)}
}

// newLogger builds the JSON logger used across the service
func newLogger(cfg *config.OTLPConfig, w io.Writer) *slog.Logger {
	return slog.New(&requestContextHandler{
		next: slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel}),
	}).With(
		slog.String("service.name", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)
}
