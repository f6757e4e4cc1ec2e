package runtime

import (
	"context"
	"sync"

	"chatterbox/protocol"
	"chatterbox/repositories"
)

// captureSink records every envelope it consumes; err, when set, is
// returned instead to simulate a dead or saturated session.
type captureSink struct {
	mu     sync.Mutex
	events []protocol.ServerEvent
	err    error
}

func (s *captureSink) Consume(_ context.Context, e protocol.ServerEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, e)
	return nil
}

func (s *captureSink) Events() []protocol.ServerEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]protocol.ServerEvent, len(s.events))
	copy(out, s.events)
	return out
}

type chatRepoStub struct {
	chats map[string]repositories.StoredChat
}

func newChatRepoStub() *chatRepoStub {
	return &chatRepoStub{chats: make(map[string]repositories.StoredChat)}
}

func (s *chatRepoStub) CreateChat(chat repositories.StoredChat) error {
	s.chats[chat.ID] = chat
	return nil
}

func (s *chatRepoStub) GetChat(id string) (repositories.StoredChat, bool, error) {
	chat, ok := s.chats[id]
	return chat, ok, nil
}

func (s *chatRepoStub) ChatsForUser(userID string) ([]repositories.StoredChat, error) {
	var out []repositories.StoredChat
	for _, chat := range s.chats {
		for _, p := range chat.Participants {
			if p == userID {
				out = append(out, chat)
				break
			}
		}
	}
	return out, nil
}

type userRepoStub struct {
	users map[string]repositories.User
}

func newUserRepoStub(users ...repositories.User) *userRepoStub {
	s := &userRepoStub{users: make(map[string]repositories.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *userRepoStub) CreateUser(user repositories.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *userRepoStub) GetUserByEmail(email string) (repositories.User, bool, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return repositories.User{}, false, nil
}

func (s *userRepoStub) GetUserByID(id string) (repositories.User, bool, error) {
	u, ok := s.users[id]
	return u, ok, nil
}

func (s *userRepoStub) ListUsers() ([]repositories.User, error) {
	var out []repositories.User
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *userRepoStub) CountUsers() (int, error) {
	return len(s.users), nil
}

type messageRepoStub struct {
	byChat map[string][]repositories.StoredMessage
}

func newMessageRepoStub() *messageRepoStub {
	return &messageRepoStub{byChat: make(map[string][]repositories.StoredMessage)}
}

func (s *messageRepoStub) Append(m repositories.StoredMessage) error {
	s.byChat[m.ChatID] = append(s.byChat[m.ChatID], m)
	return nil
}

func (s *messageRepoStub) History(chatID string) ([]repositories.StoredMessage, error) {
	return s.byChat[chatID], nil
}

func (s *messageRepoStub) Last(chatID string) (repositories.StoredMessage, bool, error) {
	log := s.byChat[chatID]
	if len(log) == 0 {
		return repositories.StoredMessage{}, false, nil
	}
	return log[len(log)-1], true, nil
}
