package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mrops-br/storefront-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type sessionEntry struct {
	mu      sync.Mutex
	session *domain.Session
}

// SessionRepository is an in-memory implementation of domain.SessionRepository.
// Operations on one session are serialized by a per-session mutex.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewSessionRepository creates a new in-memory session repository
func NewSessionRepository(tracer trace.Tracer, logger *slog.Logger) *SessionRepository {
	return &SessionRepository{
		sessions: make(map[string]*sessionEntry),
		tracer:   tracer,
		logger:   logger,
	}
}

// Create stores a new session
func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	ctx, span := r.tracer.Start(ctx, "SessionRepository.Create")
	defer span.End()

	span.SetAttributes(attribute.String("session.id", session.ID))

	r.mu.Lock()
	r.sessions[session.ID] = &sessionEntry{session: session}
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "Session created in repository",
		slog.String("session_id", session.ID),
	)

	span.SetStatus(codes.Ok, "Session created successfully")
	return nil
}

func (r *SessionRepository) lookup(ctx context.Context, span trace.Span, id string) (*sessionEntry, error) {
	r.mu.RLock()
	entry, exists := r.sessions[id]
	r.mu.RUnlock()

	if !exists {
		span.RecordError(domain.ErrSessionNotFound)
		span.SetStatus(codes.Error, "Session not found")
		r.logger.WarnContext(ctx, "Session not found",
			slog.String("session_id", id),
		)
		return nil, domain.ErrSessionNotFound
	}
	return entry, nil
}

// View runs fn against the session without recording an update
func (r *SessionRepository) View(ctx context.Context, id string, fn func(*domain.Session) error) error {
	ctx, span := r.tracer.Start(ctx, "SessionRepository.View")
	defer span.End()

	span.SetAttributes(attribute.String("session.id", id))

	entry, err := r.lookup(ctx, span, id)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := fn(entry.session); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "Session read")
	return nil
}

// Update runs fn with exclusive access to the session
func (r *SessionRepository) Update(ctx context.Context, id string, fn func(*domain.Session) error) error {
	ctx, span := r.tracer.Start(ctx, "SessionRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.String("session.id", id))

	entry, err := r.lookup(ctx, span, id)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := fn(entry.session); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	r.logger.DebugContext(ctx, "Session updated in repository",
		slog.String("session_id", id),
		slog.String("screen", string(entry.session.Nav.Screen())),
		slog.Int("cart_items", entry.session.Cart.ItemCount()),
	)

	span.SetStatus(codes.Ok, "Session updated")
	return nil
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "SessionRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.String("session.id", id))

	r.mu.Lock()
	_, exists := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !exists {
		span.RecordError(domain.ErrSessionNotFound)
		span.SetStatus(codes.Error, "Session not found")
		return domain.ErrSessionNotFound
	}

	r.logger.InfoContext(ctx, "Session deleted from repository",
		slog.String("session_id", id),
	)

	span.SetStatus(codes.Ok, "Session deleted")
	return nil
}

// Count returns the number of live sessions
func (r *SessionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
