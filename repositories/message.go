//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"chatterbox/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

const msgKeyPrefix = "msg:"

type IMessageRepository interface {
	Append(message StoredMessage) error
	History(chatID string) ([]StoredMessage, error)
	Last(chatID string) (StoredMessage, bool, error)
}

type MessageRepository struct {
	db *badger.DB
}

func NewMessageRepository(db *badger.DB) IMessageRepository {
	return &MessageRepository{db: db}
}

// StoredMessage is the storage representation of one immutable message.
type StoredMessage struct {
	ID         string    `json:"id"`
	ChatID     string    `json:"chat_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	SentAt     time.Time `json:"timestamp"`
	Type       string    `json:"message_type"`
}

func (m StoredMessage) ToDomain() domain.Message {
	return domain.Message{
		ID:         m.ID,
		ChatID:     m.ChatID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Text:       m.Text,
		SentAt:     m.SentAt,
		Type:       m.Type,
	}
}

func FromDomainMessage(m domain.Message) StoredMessage {
	return StoredMessage{
		ID:         m.ID,
		ChatID:     m.ChatID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Text:       m.Text,
		SentAt:     m.SentAt,
		Type:       m.Type,
	}
}

func ToDomainMessages(messages []StoredMessage) []domain.Message {
	return lo.Map(messages, func(m StoredMessage, _ int) domain.Message {
		return m.ToDomain()
	})
}

// Append persists a message under "msg:{chat_id}:{timestamp_padded}:{id}".
// The 19-digit zero padding keeps lexicographical order chronological;
// the id suffix prevents loss if two messages land on the same
// nanosecond. There is no existing-log check: the log is created lazily
// by its first key.
func (m *MessageRepository) Append(message StoredMessage) error {
	key := fmt.Sprintf("%s%s:%019d:%s",
		msgKeyPrefix,
		message.ChatID,
		message.SentAt.UnixNano(),
		message.ID,
	)
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// History returns the full log of a chat, oldest first. Forward
// iteration over the prefix is already send order thanks to the padded
// timestamp in the key. An unknown chat yields an empty slice.
func (m *MessageRepository) History(chatID string) ([]StoredMessage, error) {
	var messages []StoredMessage
	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(msgKeyPrefix + chatID + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var message StoredMessage
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &message)
			})
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	return messages, err
}

// Last seeks in reverse from the highest possible key of the chat's
// prefix and returns the first hit, i.e. the newest message.
func (m *MessageRepository) Last(chatID string) (StoredMessage, bool, error) {
	var message StoredMessage
	found := false
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte(msgKeyPrefix + chatID + ":")
		// 0xFF is above any byte a key may contain past the prefix.
		seekKey := append(append([]byte(nil), prefix...), 0xFF)

		it.Seek(seekKey)
		if !it.ValidForPrefix(prefix) {
			return nil
		}
		return it.Item().Value(func(val []byte) error {
			found = true
			return json.Unmarshal(val, &message)
		})
	})
	if err != nil {
		return StoredMessage{}, false, err
	}
	return message, found, nil
}
