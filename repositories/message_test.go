package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAppend_Then_History_Returns_Send_Order(t *testing.T) {
	// Given
	repo := NewMessageRepository(openTestDB(t))
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(StoredMessage{
			ID:       fmt.Sprintf("m-%d", i),
			ChatID:   "c-1",
			SenderID: "u-1",
			Text:     fmt.Sprintf("message %d", i),
			SentAt:   base.Add(time.Duration(i) * time.Millisecond),
			Type:     "text",
		}))
	}

	// When
	history, err := repo.History("c-1")

	// Then
	require.NoError(t, err)
	require.Len(t, history, 5)
	for i, msg := range history {
		require.Equal(t, fmt.Sprintf("m-%d", i), msg.ID)
	}
}

func TestHistory_Unknown_Chat_Is_Empty(t *testing.T) {
	// Given
	repo := NewMessageRepository(openTestDB(t))

	// When
	history, err := repo.History("nope")

	// Then
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestHistory_Does_Not_Leak_Across_Chats(t *testing.T) {
	// Given
	repo := NewMessageRepository(openTestDB(t))
	now := time.Now().UTC()
	require.NoError(t, repo.Append(StoredMessage{ID: "m-1", ChatID: "c-1", Text: "one", SentAt: now}))
	require.NoError(t, repo.Append(StoredMessage{ID: "m-2", ChatID: "c-10", Text: "other", SentAt: now}))

	// When
	history, err := repo.History("c-1")

	// Then
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "m-1", history[0].ID)
}

func TestLast_Returns_Newest_Message(t *testing.T) {
	// Given
	repo := NewMessageRepository(openTestDB(t))
	base := time.Now().UTC()
	require.NoError(t, repo.Append(StoredMessage{ID: "m-1", ChatID: "c-1", Text: "first", SentAt: base}))
	require.NoError(t, repo.Append(StoredMessage{ID: "m-2", ChatID: "c-1", Text: "second", SentAt: base.Add(time.Second)}))

	// When
	last, found, err := repo.Last("c-1")

	// Then
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "m-2", last.ID)
	require.Equal(t, "second", last.Text)
}

func TestLast_Empty_Log(t *testing.T) {
	// Given
	repo := NewMessageRepository(openTestDB(t))

	// When
	_, found, err := repo.Last("c-1")

	// Then
	require.NoError(t, err)
	require.False(t, found)
}

func TestAppend_Same_Nanosecond_Keeps_Both(t *testing.T) {
	// Given
	repo := NewMessageRepository(openTestDB(t))
	at := time.Now().UTC()
	require.NoError(t, repo.Append(StoredMessage{ID: "m-a", ChatID: "c-1", Text: "a", SentAt: at}))
	require.NoError(t, repo.Append(StoredMessage{ID: "m-b", ChatID: "c-1", Text: "b", SentAt: at}))

	// When
	history, err := repo.History("c-1")

	// Then
	require.NoError(t, err)
	require.Len(t, history, 2)
}
