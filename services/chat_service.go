package services

import (
	"fmt"
	"time"

	"chatterbox/auth"
	"chatterbox/contract"
	"chatterbox/domain"
	"chatterbox/errors"
	"chatterbox/repositories"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const defaultChatAvatar = "https://i.pravatar.cc/150?img=5"

type IChatService interface {
	ListChats(userID string) ([]domain.Chat, error)
	ListMessages(chatID string) ([]domain.Message, error)
	CreateChat(req auth.CreateChatRequest) (domain.Chat, error)
	ListUsers() ([]domain.User, error)
}

type ChatService struct {
	users    repositories.IUserRepository
	chats    repositories.IChatRepository
	messages repositories.IMessageRepository
	registry contract.IRegistry
}

func NewChatService(users repositories.IUserRepository, chats repositories.IChatRepository,
	messages repositories.IMessageRepository, registry contract.IRegistry) IChatService {
	return &ChatService{users: users, chats: chats, messages: messages, registry: registry}
}

// ListChats returns the chats the user participates in, creation order,
// each annotated with its current last message from the log head.
func (s *ChatService) ListChats(userID string) ([]domain.Chat, error) {
	stored, err := s.chats.ChatsForUser(userID)
	if err != nil {
		return nil, err
	}

	chats := make([]domain.Chat, 0, len(stored))
	for _, sc := range stored {
		chat := sc.ToDomain()
		last, found, err := s.messages.Last(sc.ID)
		if err != nil {
			return nil, err
		}
		if found {
			chat.LastMessage = lo.ToPtr(last.ToDomain())
		}
		chats = append(chats, chat)
	}
	return chats, nil
}

// ListMessages returns a chat's full history, oldest first. An unknown
// chat id yields an empty list, never an error.
func (s *ChatService) ListMessages(chatID string) ([]domain.Message, error) {
	stored, err := s.messages.History(chatID)
	if err != nil {
		return nil, err
	}
	return repositories.ToDomainMessages(stored), nil
}

// CreateChat validates the request, checks every participant id against
// the user store (dangling ids are rejected eagerly rather than
// tolerated), and persists the chat with an empty log.
func (s *ChatService) CreateChat(req auth.CreateChatRequest) (domain.Chat, error) {
	if err := auth.ValidateCreateChat(req); err != nil {
		return domain.Chat{}, err
	}

	for _, participantID := range req.Participants {
		_, found, err := s.users.GetUserByID(participantID)
		if err != nil {
			return domain.Chat{}, err
		}
		if !found {
			return domain.Chat{}, fmt.Errorf("%w: %s", errors.ErrUnknownParticipant, participantID)
		}
	}

	avatar := req.Avatar
	if avatar == "" {
		avatar = defaultChatAvatar
	}

	chat := domain.Chat{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Kind:         domain.ChatKind(req.Type),
		Participants: req.Participants,
		Avatar:       avatar,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.chats.CreateChat(repositories.FromDomainChat(chat)); err != nil {
		return domain.Chat{}, err
	}
	return chat, nil
}

// ListUsers returns every account with its presence flag recomputed
// from registry occupancy.
func (s *ChatService) ListUsers() ([]domain.User, error) {
	stored, err := s.users.ListUsers()
	if err != nil {
		return nil, err
	}

	users := repositories.ToDomainUsers(stored)
	for i := range users {
		users[i].Online = s.registry.Online(users[i].ID)
	}
	return users, nil
}
