package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/progress/internal/domain"
)

func TestCursorRoundTrip(t *testing.T) {
	cursor := &domain.Cursor{
		CreatedAt: time.Date(2025, time.June, 2, 19, 0, 0, 123456789, time.UTC),
		ID:        "event-42",
	}

	token := EncodeCursor(cursor)
	require.NotEmpty(t, token)

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	require.True(t, cursor.CreatedAt.Equal(decoded.CreatedAt))
	require.Equal(t, cursor.ID, decoded.ID)
}

func TestDecodeCursorEmptyAndInvalid(t *testing.T) {
	decoded, err := DecodeCursor("")
	require.NoError(t, err)
	require.Nil(t, decoded)

	require.Equal(t, "", EncodeCursor(nil))

	_, err = DecodeCursor("not base64 at all!!!")
	require.Error(t, err)

	_, err = DecodeCursor("bm8gcGlwZSBoZXJl") // valid base64, missing separator
	require.Error(t, err)
}
