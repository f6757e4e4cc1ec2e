package protocol

import (
	"encoding/json"
	"testing"
	"time"

	"chatterbox/domain"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestParseClientEvent_Message(t *testing.T) {
	// Given
	raw := []byte(`{"type":"message","chat_id":"c-1","text":"hello"}`)

	// When
	ev, err := ParseClientEvent(raw)

	// Then
	require.NoError(t, err)
	require.Equal(t, EventMessage, ev.Type)
	require.Equal(t, "c-1", ev.ChatID)
	require.Equal(t, "hello", ev.Text)
	require.Nil(t, ev.IsTyping)
}

func TestParseClientEvent_Typing_Distinguishes_False_From_Missing(t *testing.T) {
	// When
	explicit, err := ParseClientEvent([]byte(`{"type":"typing","chat_id":"c-1","is_typing":false}`))
	require.NoError(t, err)
	missing, err := ParseClientEvent([]byte(`{"type":"typing","chat_id":"c-1"}`))
	require.NoError(t, err)

	// Then
	require.NotNil(t, explicit.IsTyping)
	require.False(t, *explicit.IsTyping)
	require.Nil(t, missing.IsTyping)
}

func TestParseClientEvent_Malformed_JSON_Errors(t *testing.T) {
	// When
	_, err := ParseClientEvent([]byte(`{"type":`))

	// Then
	require.Error(t, err)
}

func TestParseClientEvent_Unknown_Tag_Is_Still_Valid(t *testing.T) {
	// When
	ev, err := ParseClientEvent([]byte(`{"type":"presence_probe"}`))

	// Then
	require.NoError(t, err)
	require.Equal(t, "presence_probe", ev.Type)
}

func TestNewMessageEvent_Wire_Shape(t *testing.T) {
	// Given
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ev := NewMessage(domain.Message{
		ID:         "m-1",
		ChatID:     "c-1",
		SenderID:   "u-1",
		SenderName: "Alice",
		Text:       "hi",
		SentAt:     at,
		Type:       domain.MessageTypeText,
	})

	// When
	data, err := json.Marshal(ev)

	// Then
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "new_message", decoded["type"])
	message := decoded["message"].(map[string]any)
	require.Equal(t, "c-1", message["chat_id"])
	require.Equal(t, "Alice", message["sender_name"])
	require.Equal(t, "text", message["message_type"])
}

func TestErrorEvent_Wire_Shape(t *testing.T) {
	// When
	data, err := json.Marshal(NewError(CodeBadEvent, "malformed event"))

	// Then
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"error","code":"bad_event","message":"malformed event"}`, string(data))
}

func TestFromChat_Carries_Last_Message_Pointer(t *testing.T) {
	// Given
	withLast := domain.Chat{
		ID:          "c-1",
		Kind:        domain.KindGroup,
		LastMessage: lo.ToPtr(domain.Message{ID: "m-9", Text: "latest"}),
	}
	withoutLast := domain.Chat{ID: "c-2", Kind: domain.KindPrivate}

	// When
	first := FromChat(withLast)
	second := FromChat(withoutLast)

	// Then
	require.NotNil(t, first.LastMessage)
	require.Equal(t, "latest", first.LastMessage.Text)
	require.Equal(t, "group", first.Type)
	require.Nil(t, second.LastMessage)
}
