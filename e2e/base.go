package e2e

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"chatterbox/auth"
	"chatterbox/contract"
	"chatterbox/errors"
	"chatterbox/observability"
	"chatterbox/protocol"
	"chatterbox/repositories"
	"chatterbox/runtime"
	"chatterbox/seed"
	"chatterbox/services"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/suite"
)

// BaseSuite wires the full backend in process: badger-backed stores,
// registry, dispatcher and router, plus the control-plane services.
// Scenarios attach recordingSink sessions instead of real WebSocket
// connections; everything below the transport is the production wiring.
type BaseSuite struct {
	suite.Suite
	Config Config

	DB         *badger.DB
	Users      repositories.IUserRepository
	Chats      repositories.IChatRepository
	Messages   repositories.IMessageRepository
	Registry   contract.IRegistry
	Dispatcher contract.IDispatcher
	Router     contract.IRouter
	AuthSvc    services.IAuthService
	ChatSvc    services.IChatService
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

// SetupTest rebuilds the whole stack on a fresh store so scenarios
// cannot observe each other.
func (s *BaseSuite) SetupTest() {
	db, err := badger.Open(badger.DefaultOptions(s.T().TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	s.Require().NoError(err)
	s.DB = db

	log := slog.Default()
	s.Users = repositories.NewUserRepository(db)
	s.Chats = repositories.NewChatRepository(db)
	s.Messages = repositories.NewMessageRepository(db)

	stats := observability.NewDeliveryStats()
	s.Registry = runtime.NewRegistry(log, stats)
	s.Dispatcher = runtime.NewDispatcher(log, s.Chats, s.Registry)
	s.Router = runtime.NewRouter(log, s.Users, s.Messages, s.Registry, s.Dispatcher)

	s.AuthSvc = services.NewAuthService(s.Users, time.Hour)
	s.ChatSvc = services.NewChatService(s.Users, s.Chats, s.Messages, s.Registry)

	if s.Config.SeedDemo {
		s.Require().NoError(seed.Demo(log, s.Users, s.Chats, s.Messages))
	}
}

func (s *BaseSuite) TearDownTest() {
	if s.DB != nil {
		s.Require().NoError(s.DB.Close())
	}
}

// SignupUser registers an account through the auth service and returns
// its id.
func (s *BaseSuite) SignupUser(name, email string) string {
	user, token, err := s.AuthSvc.Signup(auth.SignupRequest{Name: name, Email: email})
	s.Require().NoError(err)
	s.Require().NotEmpty(token)
	return user.ID
}

// ConnectUser opens a recorded session for the user and returns the
// sink; the t.Cleanup-style teardown is the caller's responsibility via
// DisconnectUser, or implicit through SetupTest's fresh registry.
func (s *BaseSuite) ConnectUser(userID string) (*recordingSink, string) {
	sink := newRecordingSink(s.Config.BufferSize)
	sessionID := s.Registry.Connect(userID, sink)
	return sink, sessionID
}

// recordingSink implements contract.EventSink over a bounded in-memory
// buffer, the same discipline the WebSocket client sink follows.
type recordingSink struct {
	mu     sync.Mutex
	limit  int
	events []protocol.ServerEvent
	closed bool
}

func newRecordingSink(limit int) *recordingSink {
	return &recordingSink{limit: limit}
}

func (r *recordingSink) Consume(ctx context.Context, e protocol.ServerEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errors.ErrSessionClosed
	}
	if len(r.events) >= r.limit {
		return errors.ErrQueueFull
	}
	r.events = append(r.events, e)
	return nil
}

func (r *recordingSink) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func (r *recordingSink) Events() []protocol.ServerEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]protocol.ServerEvent, len(r.events))
	copy(out, r.events)
	return out
}
