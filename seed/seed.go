// Package seed installs the demo data set on an empty store, mirroring
// what the product's frontend expects on a fresh install.
package seed

import (
	"fmt"
	"log/slog"
	"time"

	"chatterbox/domain"
	"chatterbox/repositories"

	"github.com/google/uuid"
)

// Demo creates three users, a private chat and a group chat with one
// message each. A store that already holds users is left untouched, so
// the seed is safe to run on every boot.
func Demo(log *slog.Logger, users repositories.IUserRepository,
	chats repositories.IChatRepository, messages repositories.IMessageRepository) error {
	count, err := users.CountUsers()
	if err != nil {
		return err
	}
	if count > 0 {
		log.Debug("Store not empty, skipping demo seed")
		return nil
	}

	now := time.Now().UTC()

	demoUsers := []repositories.User{
		{ID: uuid.NewString(), Name: "Alice Johnson", Email: "alice@example.com", Avatar: "https://i.pravatar.cc/150?img=1", CreatedAt: now},
		{ID: uuid.NewString(), Name: "Bob Smith", Email: "bob@example.com", Avatar: "https://i.pravatar.cc/150?img=2", CreatedAt: now},
		{ID: uuid.NewString(), Name: "Charlie Brown", Email: "charlie@example.com", Avatar: "https://i.pravatar.cc/150?img=3", CreatedAt: now},
	}
	for _, u := range demoUsers {
		if err := users.CreateUser(u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}
	alice, bob, charlie := demoUsers[0], demoUsers[1], demoUsers[2]

	private := repositories.StoredChat{
		ID:           uuid.NewString(),
		Name:         alice.Name,
		Kind:         string(domain.KindPrivate),
		Participants: []string{alice.ID, bob.ID},
		Avatar:       alice.Avatar,
		CreatedAt:    now,
	}
	group := repositories.StoredChat{
		ID:           uuid.NewString(),
		Name:         "Team Project",
		Kind:         string(domain.KindGroup),
		Participants: []string{alice.ID, bob.ID, charlie.ID},
		Avatar:       "https://i.pravatar.cc/150?img=5",
		CreatedAt:    now.Add(time.Millisecond),
	}
	for _, c := range []repositories.StoredChat{private, group} {
		if err := chats.CreateChat(c); err != nil {
			return fmt.Errorf("seed chat %s: %w", c.Name, err)
		}
	}

	demoMessages := []repositories.StoredMessage{
		{
			ID:         uuid.NewString(),
			ChatID:     private.ID,
			SenderID:   alice.ID,
			SenderName: alice.Name,
			Text:       "Hey there! How are you doing?",
			SentAt:     now,
			Type:       domain.MessageTypeText,
		},
		{
			ID:         uuid.NewString(),
			ChatID:     group.ID,
			SenderID:   alice.ID,
			SenderName: alice.Name,
			Text:       "Let's start the project meeting!",
			SentAt:     now,
			Type:       domain.MessageTypeText,
		},
	}
	for _, m := range demoMessages {
		if err := messages.Append(m); err != nil {
			return fmt.Errorf("seed message: %w", err)
		}
	}

	log.Info("Demo data seeded", "users", len(demoUsers), "chats", 2)
	return nil
}
