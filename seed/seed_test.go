package seed

import (
	"log/slog"
	"testing"

	"chatterbox/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openRepos(t *testing.T) (repositories.IUserRepository, repositories.IChatRepository, repositories.IMessageRepository) {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repositories.NewUserRepository(db), repositories.NewChatRepository(db), repositories.NewMessageRepository(db)
}

func TestDemo_Seeds_Empty_Store(t *testing.T) {
	// Given
	users, chats, messages := openRepos(t)

	// When
	require.NoError(t, Demo(slog.Default(), users, chats, messages))

	// Then
	count, err := users.CountUsers()
	require.NoError(t, err)
	require.Equal(t, 3, count)

	alice, found, err := users.GetUserByEmail("alice@example.com")
	require.NoError(t, err)
	require.True(t, found)

	aliceChats, err := chats.ChatsForUser(alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceChats, 2)

	for _, chat := range aliceChats {
		history, err := messages.History(chat.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
	}
}

func TestDemo_Is_Idempotent(t *testing.T) {
	// Given
	users, chats, messages := openRepos(t)
	require.NoError(t, Demo(slog.Default(), users, chats, messages))

	// When
	require.NoError(t, Demo(slog.Default(), users, chats, messages))

	// Then
	count, err := users.CountUsers()
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestDemo_Leaves_Populated_Store_Untouched(t *testing.T) {
	// Given
	users, chats, messages := openRepos(t)
	require.NoError(t, users.CreateUser(repositories.User{
		ID: "u-1", Name: "Existing", Email: "existing@example.com",
	}))

	// When
	require.NoError(t, Demo(slog.Default(), users, chats, messages))

	// Then
	count, err := users.CountUsers()
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
