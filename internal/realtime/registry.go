package realtime

import (
	"context"
	"sync"

	"go.uber.org/multierr"

	"github.com/lapulperia/lapulperia-backend/pkg/logger"
	"github.com/lapulperia/lapulperia-backend/pkg/metrics"
)

// Registry tracks the set of live websocket connections per user id. It is
// the unit of presence: a user entry exists only while at least one of their
// sockets is open. Construct one at startup and inject it everywhere; there
// is no package-level instance.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]map[*Conn]struct{}

	logg    *logger.Logger
	metrics *metrics.RealtimeMetrics
}

// NewRegistry builds an empty connection registry.
func NewRegistry(logg *logger.Logger, m *metrics.RealtimeMetrics) *Registry {
	return &Registry{
		conns:   make(map[string]map[*Conn]struct{}),
		logg:    logg,
		metrics: m,
	}
}

// Register adds the connection to its user's set, creating the set if
// absent. Re-adding the same connection is a no-op.
func (r *Registry) Register(ctx context.Context, conn *Conn) {
	if conn == nil || conn.userID == "" {
		return
	}

	r.mu.Lock()
	set, ok := r.conns[conn.userID]
	if !ok {
		set = make(map[*Conn]struct{})
		r.conns[conn.userID] = set
	}
	_, existed := set[conn]
	set[conn] = struct{}{}
	count := len(set)
	r.mu.Unlock()

	if !existed {
		r.metrics.ConnOpened()
	}
	if r.logg != nil {
		ctx = r.logg.WithFields(ctx, map[string]any{"user_id": conn.userID, "connection_count": count})
		r.logg.Info(ctx, "ws.connected")
	}
}

// Deregister removes the connection from its user's set, dropping the user
// entry when the set empties. Always safe to call, including for connections
// that were never registered.
func (r *Registry) Deregister(ctx context.Context, conn *Conn) {
	if conn == nil || conn.userID == "" {
		return
	}

	r.mu.Lock()
	set, ok := r.conns[conn.userID]
	removed := false
	remaining := 0
	if ok {
		if _, present := set[conn]; present {
			delete(set, conn)
			removed = true
		}
		remaining = len(set)
		if remaining == 0 {
			delete(r.conns, conn.userID)
		}
	}
	r.mu.Unlock()

	if removed {
		r.metrics.ConnClosed()
	}
	if removed && r.logg != nil {
		ctx = r.logg.WithFields(ctx, map[string]any{"user_id": conn.userID, "connection_count": remaining})
		r.logg.Info(ctx, "ws.disconnected")
	}
}

// SendToUser delivers the payload to every live connection of the user. A
// user with no connections is a normal condition, not an error. A failing
// connection is pruned and closed without aborting delivery to the rest.
func (r *Registry) SendToUser(ctx context.Context, userID string, payload any) {
	if userID == "" {
		return
	}

	r.mu.RLock()
	set, ok := r.conns[userID]
	if !ok {
		r.mu.RUnlock()
		return
	}
	snapshot := make([]*Conn, 0, len(set))
	for conn := range set {
		snapshot = append(snapshot, conn)
	}
	r.mu.RUnlock()

	var failed []*Conn
	var errs error
	for _, conn := range snapshot {
		if err := conn.WriteJSON(payload); err != nil {
			errs = multierr.Append(errs, err)
			failed = append(failed, conn)
			continue
		}
	}

	for _, conn := range failed {
		r.metrics.FrameFailed()
		r.Deregister(ctx, conn)
		_ = conn.Close()
	}
	if errs != nil && r.logg != nil {
		ctx = r.logg.WithUserID(ctx, userID)
		r.logg.Error(ctx, "ws.broadcast failed for some connections", errs)
	}
}

// SendToUsers fans the payload out to each listed user; empty ids are
// skipped.
func (r *Registry) SendToUsers(ctx context.Context, userIDs []string, payload any) {
	for _, userID := range userIDs {
		if userID == "" {
			continue
		}
		r.SendToUser(ctx, userID, payload)
	}
}

// IsConnected reports the user's presence and current connection count.
func (r *Registry) IsConnected(userID string) (bool, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.conns[userID]
	if !ok {
		return false, 0
	}
	return len(set) > 0, len(set)
}
