//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"chatterbox/protocol"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself; supervision handles panics and restarts.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker,
// so supervision logs don't need manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is the delivery end of one live session. Consume must not
// block: implementations enqueue into a bounded buffer and report
// errors.ErrQueueFull or errors.ErrSessionClosed instead of waiting.
type EventSink interface {
	Consume(ctx context.Context, e protocol.ServerEvent) error
}

// IRegistry tracks at most one live session per user.
type IRegistry interface {
	Connect(userID string, sink EventSink) (sessionID string)
	Disconnect(sessionID string)
	SendToUser(ctx context.Context, userID string, e protocol.ServerEvent) bool
	Online(userID string) bool
}

// IDispatcher fans one payload out to every participant of a chat,
// best effort, independent per recipient.
type IDispatcher interface {
	BroadcastToChat(ctx context.Context, chatID string, e protocol.ServerEvent)
}

// IRouter applies one inbound frame from a connection.
type IRouter interface {
	HandleRaw(ctx context.Context, senderID string, raw []byte)
}
