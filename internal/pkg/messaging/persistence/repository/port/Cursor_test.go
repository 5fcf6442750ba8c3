package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Cursor_Round_Trips(t *testing.T) {
	req := require.New(t)

	at := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)
	token := Cursor{CreatedAt: at, ID: "9f2c8a7e-0000-0000-0000-000000000001"}.Encode()

	decoded, err := DecodeCursor(token)
	req.NoError(err)
	req.True(decoded.CreatedAt.Equal(at))
	req.Equal("9f2c8a7e-0000-0000-0000-000000000001", decoded.ID)
}

func Test_DecodeCursor_Empty_Means_From_Beginning(t *testing.T) {
	req := require.New(t)

	decoded, err := DecodeCursor("")
	req.NoError(err)
	req.Nil(decoded)
}

func Test_DecodeCursor_Rejects_Garbage(t *testing.T) {
	req := require.New(t)

	for _, token := range []string{"!!!", "bm90LWEtY3Vyc29y", "fHw"} {
		_, err := DecodeCursor(token)
		req.ErrorIs(err, ErrBadCursor, "token %q", token)
	}
}
