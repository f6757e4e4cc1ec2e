package repositories

import (
	"testing"
	"time"

	"chatterbox/errors"

	"github.com/stretchr/testify/require"
)

func TestCreateUser_Then_Lookups_Succeed(t *testing.T) {
	// Given
	repo := NewUserRepository(openTestDB(t))
	alice := User{
		ID:        "u-1",
		Name:      "Alice",
		Email:     "alice@example.com",
		Avatar:    "https://i.pravatar.cc/150?img=1",
		CreatedAt: time.Now().UTC(),
	}

	// When
	require.NoError(t, repo.CreateUser(alice))

	// Then
	byID, found, err := repo.GetUserByID("u-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Alice", byID.Name)

	byEmail, found, err := repo.GetUserByEmail("alice@example.com")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "u-1", byEmail.ID)
}

func TestCreateUser_Duplicate_Email_Is_Rejected(t *testing.T) {
	// Given
	repo := NewUserRepository(openTestDB(t))
	require.NoError(t, repo.CreateUser(User{ID: "u-1", Name: "Alice", Email: "alice@example.com"}))

	// When
	err := repo.CreateUser(User{ID: "u-2", Name: "Impostor", Email: "alice@example.com"})

	// Then
	require.ErrorIs(t, err, errors.ErrUserAlreadyExists)

	byEmail, found, lookupErr := repo.GetUserByEmail("alice@example.com")
	require.NoError(t, lookupErr)
	require.True(t, found)
	require.Equal(t, "u-1", byEmail.ID)
}

func TestGetUser_Unknown_Is_Not_An_Error(t *testing.T) {
	// Given
	repo := NewUserRepository(openTestDB(t))

	// When
	_, foundByID, errByID := repo.GetUserByID("nope")
	_, foundByEmail, errByEmail := repo.GetUserByEmail("nope@example.com")

	// Then
	require.NoError(t, errByID)
	require.False(t, foundByID)
	require.NoError(t, errByEmail)
	require.False(t, foundByEmail)
}

func TestListUsers_And_Count(t *testing.T) {
	// Given
	repo := NewUserRepository(openTestDB(t))
	require.NoError(t, repo.CreateUser(User{ID: "u-1", Name: "Alice", Email: "alice@example.com"}))
	require.NoError(t, repo.CreateUser(User{ID: "u-2", Name: "Bob", Email: "bob@example.com"}))

	// When
	users, err := repo.ListUsers()
	count, countErr := repo.CountUsers()

	// Then
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.NoError(t, countErr)
	require.Equal(t, 2, count)
}

func TestListUsers_Empty_Store(t *testing.T) {
	// Given
	repo := NewUserRepository(openTestDB(t))

	// When
	users, err := repo.ListUsers()
	count, countErr := repo.CountUsers()

	// Then
	require.NoError(t, err)
	require.Empty(t, users)
	require.NoError(t, countErr)
	require.Zero(t, count)
}
