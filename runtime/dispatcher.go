package runtime

import (
	"context"
	"log/slog"

	"chatterbox/contract"
	"chatterbox/protocol"
	"chatterbox/repositories"
)

// Dispatcher resolves a chat's participant set and hands the payload to
// each participant's live session. Partial delivery is the expected
// steady state, not an error.
type Dispatcher struct {
	log      *slog.Logger
	chats    repositories.IChatRepository
	registry contract.IRegistry
}

func NewDispatcher(log *slog.Logger, chats repositories.IChatRepository, registry contract.IRegistry) *Dispatcher {
	return &Dispatcher{log: log, chats: chats, registry: registry}
}

// BroadcastToChat fans the payload out to every participant. An unknown
// chat id is a no-op: the chat may have disappeared between the event
// arriving and the fan-out running. Fan-out order across recipients is
// unspecified; per-recipient ordering comes from the caller processing
// one connection's events sequentially.
func (d *Dispatcher) BroadcastToChat(ctx context.Context, chatID string, e protocol.ServerEvent) {
	chat, found, err := d.chats.GetChat(chatID)
	if err != nil {
		d.log.Error("Chat lookup failed during broadcast", "chat_id", chatID, "error", err)
		return
	}
	if !found {
		return
	}

	for _, participantID := range chat.Participants {
		d.registry.SendToUser(ctx, participantID, e)
	}
}
