package messaging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_CanonicalPair_Orders_Either_Caller_Order_The_Same(t *testing.T) {
	req := require.New(t)

	low1, high1, err := CanonicalPair("u1", "u2")
	req.NoError(err)
	low2, high2, err := CanonicalPair("u2", "u1")
	req.NoError(err)

	req.Equal(low1, low2)
	req.Equal(high1, high2)
	req.Equal("u1", low1)
	req.Equal("u2", high1)
}

func Test_CanonicalPair_Rejects_Invalid_Pairs(t *testing.T) {
	req := require.New(t)

	_, _, err := CanonicalPair("u1", "u1")
	req.ErrorIs(err, ErrInvalidParticipants)

	_, _, err = CanonicalPair("", "u2")
	req.ErrorIs(err, ErrInvalidParticipants)

	_, _, err = CanonicalPair("u1", "")
	req.ErrorIs(err, ErrInvalidParticipants)
}

func Test_OtherParticipant_Derives_Receiver(t *testing.T) {
	req := require.New(t)
	conv := Conversation{ID: "c1", ParticipantLowID: "u1", ParticipantHighID: "u2"}

	receiver, err := conv.OtherParticipant("u1")
	req.NoError(err)
	req.Equal("u2", receiver)

	receiver, err = conv.OtherParticipant("u2")
	req.NoError(err)
	req.Equal("u1", receiver)

	_, err = conv.OtherParticipant("intruder")
	req.ErrorIs(err, ErrUnauthorized)
}

func Test_Snippet_Cuts_Long_Content(t *testing.T) {
	req := require.New(t)

	req.Equal("short", Snippet("short", 80))
	req.Equal("abc", Snippet("abcdef", 3))
	// rune-aware, not byte-aware
	req.Equal("héll", Snippet("héllo", 4))
}
