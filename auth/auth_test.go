package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHashPassword_Then_Compare_Succeeds(t *testing.T) {
	// Given
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))

	// When
	ok, err := ComparePassword("correct horse battery staple", hash)

	// Then
	require.NoError(t, err)
	require.True(t, ok)
}

func TestComparePassword_Wrong_Password_Fails(t *testing.T) {
	// Given
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	// When
	ok, err := ComparePassword("incorrect horse", hash)

	// Then
	require.NoError(t, err)
	require.False(t, ok)
}

func TestComparePassword_Garbage_Hash_Errors(t *testing.T) {
	// When
	_, err := ComparePassword("whatever", "not-an-encoded-hash")

	// Then
	require.Error(t, err)
}

func TestHashPassword_Salts_Differ(t *testing.T) {
	// When
	first, err := HashPassword("same password")
	require.NoError(t, err)
	second, err := HashPassword("same password")
	require.NoError(t, err)

	// Then
	require.NotEqual(t, first, second)
}

func TestGenerateToken_Then_Validate_Roundtrip(t *testing.T) {
	// Given
	tokenString, err := GenerateToken("u-1", "Alice", time.Hour)
	require.NoError(t, err)

	// When
	claims, err := ValidateToken(tokenString)

	// Then
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.UserID)
	require.Equal(t, "Alice", claims.Name)
	require.Equal(t, "chatterbox", claims.Issuer)
}

func TestValidateToken_Expired_Is_Rejected(t *testing.T) {
	// Given
	tokenString, err := GenerateToken("u-1", "Alice", -time.Minute)
	require.NoError(t, err)

	// When
	_, err = ValidateToken(tokenString)

	// Then
	require.Error(t, err)
}

func TestValidateToken_Tampered_Is_Rejected(t *testing.T) {
	// Given
	tokenString, err := GenerateToken("u-1", "Alice", time.Hour)
	require.NoError(t, err)

	// When
	_, err = ValidateToken(tokenString + "x")

	// Then
	require.Error(t, err)
}

func TestValidateSignup(t *testing.T) {
	require.NoError(t, ValidateSignup(SignupRequest{Name: "Alice", Email: "alice@example.com"}))
	require.NoError(t, ValidateSignup(SignupRequest{Name: "Alice", Email: "alice@example.com", Password: "longenough"}))
	require.Error(t, ValidateSignup(SignupRequest{Email: "alice@example.com"}))
	require.Error(t, ValidateSignup(SignupRequest{Name: "Alice", Email: "not-an-email"}))
	require.Error(t, ValidateSignup(SignupRequest{Name: "Alice", Email: "alice@example.com", Password: "short"}))
}

func TestValidateCreateChat(t *testing.T) {
	require.NoError(t, ValidateCreateChat(CreateChatRequest{
		Name: "Team", Type: "group", Participants: []string{"u-1", "u-2"},
	}))
	require.Error(t, ValidateCreateChat(CreateChatRequest{
		Name: "Team", Type: "channel", Participants: []string{"u-1"},
	}))
	require.Error(t, ValidateCreateChat(CreateChatRequest{
		Name: "Team", Type: "group", Participants: []string{},
	}))
	require.Error(t, ValidateCreateChat(CreateChatRequest{
		Name: "Team", Type: "group", Participants: []string{""},
	}))
}
