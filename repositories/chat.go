//go:generate go run go.uber.org/mock/mockgen -source=chat.go -destination=../mocks/mock_chat_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"chatterbox/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

const (
	chatKeyPrefix = "chat:"
	chatIdxKey    = "idx:chat:"
)

type IChatRepository interface {
	CreateChat(chat StoredChat) error
	GetChat(id string) (StoredChat, bool, error)
	ChatsForUser(userID string) ([]StoredChat, error)
}

type ChatRepository struct {
	db *badger.DB
}

func NewChatRepository(db *badger.DB) IChatRepository {
	return &ChatRepository{db: db}
}

// StoredChat is the storage representation of a conversation. The
// last-message pointer is intentionally absent: it is derived from the
// message log head on read, so the chat record never needs a rewrite
// after creation.
type StoredChat struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Kind         string    `json:"type"`
	Participants []string  `json:"participants"`
	Avatar       string    `json:"avatar"`
	CreatedAt    time.Time `json:"created_at"`
}

func (c StoredChat) ToDomain() domain.Chat {
	return domain.Chat{
		ID:           c.ID,
		Name:         c.Name,
		Kind:         domain.ChatKind(c.Kind),
		Participants: c.Participants,
		Avatar:       c.Avatar,
		CreatedAt:    c.CreatedAt,
	}
}

func FromDomainChat(c domain.Chat) StoredChat {
	return StoredChat{
		ID:           c.ID,
		Name:         c.Name,
		Kind:         string(c.Kind),
		Participants: c.Participants,
		Avatar:       c.Avatar,
		CreatedAt:    c.CreatedAt,
	}
}

// chatKey orders chat records by creation time. The 19-digit zero
// padding keeps lexicographical order aligned with chronological order;
// the id suffix disambiguates same-nanosecond creations.
func chatKey(chat StoredChat) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", chatKeyPrefix, chat.CreatedAt.UnixNano(), chat.ID))
}

// CreateChat persists the record under its creation-ordered key and an
// "idx:chat:{id}" entry pointing at that key for O(1) lookup by id.
func (c *ChatRepository) CreateChat(chat StoredChat) error {
	data, err := json.Marshal(chat)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	key := chatKey(chat)

	return c.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(chatIdxKey+chat.ID), key); err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// GetChat resolves the id index, then loads the record. An unknown id
// yields (zero, false, nil), never an error.
func (c *ChatRepository) GetChat(id string) (StoredChat, bool, error) {
	var chat StoredChat
	found := false
	err := c.db.View(func(txn *badger.Txn) error {
		idxItem, err := txn.Get([]byte(chatIdxKey + id))
		if err != nil {
			return err
		}
		var primary []byte
		if err := idxItem.Value(func(val []byte) error {
			primary = append([]byte(nil), val...)
			return nil
		}); err != nil {
			return err
		}
		item, err := txn.Get(primary)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			found = true
			return json.Unmarshal(val, &chat)
		})
	})
	if err == badger.ErrKeyNotFound {
		return StoredChat{}, false, nil
	}
	if err != nil {
		return StoredChat{}, false, err
	}
	return chat, found, nil
}

// ChatsForUser scans all chats in creation order and keeps the ones the
// user participates in. Membership is a set check; participant order in
// the record is display order and stays untouched.
func (c *ChatRepository) ChatsForUser(userID string) ([]StoredChat, error) {
	var chats []StoredChat
	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(chatKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var chat StoredChat
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &chat)
			})
			if err != nil {
				return err
			}
			if lo.Contains(chat.Participants, userID) {
				chats = append(chats, chat)
			}
		}
		return nil
	})
	return chats, err
}
