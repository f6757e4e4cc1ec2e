package runtime

import (
	"context"
	"log/slog"
	"time"

	"chatterbox/contract"
	"chatterbox/domain"
	"chatterbox/protocol"
	"chatterbox/repositories"

	"github.com/google/uuid"
)

// Router classifies inbound frames and applies them: "message" events
// are appended to the chat's log then broadcast, "typing" events are
// broadcast without persistence, unrecognized tags are ignored for
// forward compatibility. A malformed frame answers the sender with an
// error envelope and keeps the connection alive.
type Router struct {
	log        *slog.Logger
	users      repositories.IUserRepository
	messages   repositories.IMessageRepository
	registry   contract.IRegistry
	dispatcher contract.IDispatcher
	now        func() time.Time
}

func NewRouter(log *slog.Logger, users repositories.IUserRepository,
	messages repositories.IMessageRepository, registry contract.IRegistry,
	dispatcher contract.IDispatcher) *Router {
	return &Router{
		log:        log,
		users:      users,
		messages:   messages,
		registry:   registry,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// HandleRaw processes one frame from senderID's connection. The caller
// must invoke it sequentially per connection; that discipline is what
// yields the per-sender-per-chat ordering guarantee downstream.
func (r *Router) HandleRaw(ctx context.Context, senderID string, raw []byte) {
	ev, err := protocol.ParseClientEvent(raw)
	if err != nil {
		r.log.Debug("Malformed frame", "sender_id", senderID, "error", err)
		r.registry.SendToUser(ctx, senderID, protocol.NewError(protocol.CodeBadEvent, "event is not valid JSON"))
		return
	}

	switch ev.Type {
	case protocol.EventMessage:
		r.handleMessage(ctx, senderID, ev)
	case protocol.EventTyping:
		r.handleTyping(ctx, senderID, ev)
	default:
		// Unknown tags are not an error: future event types must not
		// break older servers.
		r.log.Debug("Ignoring unrecognized event", "type", ev.Type, "sender_id", senderID)
	}
}

func (r *Router) handleMessage(ctx context.Context, senderID string, ev protocol.ClientEvent) {
	if ev.ChatID == "" || ev.Text == "" {
		r.registry.SendToUser(ctx, senderID, protocol.NewError(protocol.CodeMissingField, "message requires chat_id and text"))
		return
	}

	message := domain.Message{
		ID:         uuid.NewString(),
		ChatID:     ev.ChatID,
		SenderID:   senderID,
		SenderName: r.senderName(senderID),
		Text:       ev.Text,
		SentAt:     r.now(),
		Type:       domain.MessageTypeText,
	}

	if err := r.messages.Append(repositories.FromDomainMessage(message)); err != nil {
		r.log.Error("Message append failed", "chat_id", ev.ChatID, "sender_id", senderID, "error", err)
		r.registry.SendToUser(ctx, senderID, protocol.NewError(protocol.CodeInternal, "message could not be stored"))
		return
	}

	r.dispatcher.BroadcastToChat(ctx, ev.ChatID, protocol.NewMessage(message))
}

func (r *Router) handleTyping(ctx context.Context, senderID string, ev protocol.ClientEvent) {
	if ev.ChatID == "" || ev.IsTyping == nil {
		r.registry.SendToUser(ctx, senderID, protocol.NewError(protocol.CodeMissingField, "typing requires chat_id and is_typing"))
		return
	}

	// Transient presence signaling, never stored.
	r.dispatcher.BroadcastToChat(ctx, ev.ChatID,
		protocol.NewTyping(ev.ChatID, senderID, r.senderName(senderID), *ev.IsTyping))
}

// senderName snapshots the sender's current display name. The original
// frontend expects "Unknown" when the account cannot be resolved.
func (r *Router) senderName(senderID string) string {
	user, found, err := r.users.GetUserByID(senderID)
	if err != nil {
		r.log.Warn("Sender lookup failed", "sender_id", senderID, "error", err)
		return "Unknown"
	}
	if !found {
		return "Unknown"
	}
	return user.Name
}
