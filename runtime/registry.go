// Package runtime owns the live-connection state: the session registry,
// the broadcast dispatcher and the inbound event router. It contains no
// storage or transport logic.
package runtime

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"

	"chatterbox/contract"
	"chatterbox/errors"
	"chatterbox/observability"
	"chatterbox/protocol"

	"github.com/google/uuid"
)

type session struct {
	id     string
	userID string
	sink   contract.EventSink
}

// Registry binds each user to at most one live session. Both directions
// (user→session, session id→session) are indexed under the same lock so
// disconnect never needs a linear scan.
type Registry struct {
	mu     sync.RWMutex
	log    *slog.Logger
	byUser map[string]*session
	byID   map[string]*session
	stats  *observability.DeliveryStats
}

func NewRegistry(log *slog.Logger, stats *observability.DeliveryStats) *Registry {
	return &Registry{
		log:    log,
		byUser: make(map[string]*session),
		byID:   make(map[string]*session),
		stats:  stats,
	}
}

// Connect allocates a fresh session id and binds it to the user. A user
// that already holds a session is supplanted: the registry slot is
// overwritten and the superseded session id stops resolving. The old
// transport handle is not closed here; its owner notices on its next
// write or read.
func (r *Registry) Connect(userID string, sink contract.EventSink) string {
	sess := &session{
		id:     uuid.NewString(),
		userID: userID,
		sink:   sink,
	}

	r.mu.Lock()
	if old, ok := r.byUser[userID]; ok {
		delete(r.byID, old.id)
		r.log.Info(fmt.Sprintf("Session %s supplanted for user %s", old.id, userID))
	} else {
		r.stats.SessionOpened()
	}
	r.byUser[userID] = sess
	r.byID[sess.id] = sess
	r.mu.Unlock()

	return sess.id
}

// Disconnect releases a session. The user slot is cleared only if the
// departing session is still the current binding for that user, so a
// stale disconnect of a supplanted session cannot mark the newer
// session's owner offline.
func (r *Registry) Disconnect(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.byID[sessionID]
	if !ok {
		return
	}
	delete(r.byID, sessionID)

	if current, ok := r.byUser[sess.userID]; ok && current.id == sessionID {
		delete(r.byUser, sess.userID)
		r.stats.SessionClosed()
	}
}

// SendToUser delivers one payload to the user's current session, if
// any. Offline recipients and full queues are silent misses; a dead
// sink is treated the same, plus a proactive disconnect to repair the
// registry. Nothing here ever blocks or surfaces an error to the
// caller: this is an at-most-once channel.
func (r *Registry) SendToUser(ctx context.Context, userID string, e protocol.ServerEvent) bool {
	r.mu.RLock()
	sess, ok := r.byUser[userID]
	r.mu.RUnlock()

	if !ok {
		r.stats.IncrMissed()
		return false
	}

	err := sess.sink.Consume(ctx, e)
	switch {
	case err == nil:
		r.stats.IncrDelivered()
		return true
	case stderrors.Is(err, errors.ErrQueueFull):
		r.stats.IncrDropped()
		r.log.Debug("Outbound queue full, payload dropped",
			"user_id", userID, "session_id", sess.id)
		return false
	default:
		r.stats.IncrMissed()
		r.log.Warn("Session write failed, disconnecting",
			"user_id", userID, "session_id", sess.id, "error", err)
		r.Disconnect(sess.id)
		return false
	}
}

// Online reports whether the user currently occupies a session slot.
// Presence is derived from registry occupancy, never tracked separately.
func (r *Registry) Online(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUser[userID]
	return ok
}
