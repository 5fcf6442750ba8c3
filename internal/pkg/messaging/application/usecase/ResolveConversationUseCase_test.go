package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	messaging "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/domain"
)

func Test_Resolve_Returns_Same_Conversation_For_Either_Caller_Order(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepository()
	uc := NewResolveConversationUseCase(repo, nil, slog.Default())

	listing := "L1"
	first, err := uc.Execute(context.Background(), ResolveConversationInput{PartyA: "u1", PartyB: "u2", ListingID: &listing})
	req.NoError(err)

	second, err := uc.Execute(context.Background(), ResolveConversationInput{PartyA: "u2", PartyB: "u1", ListingID: &listing})
	req.NoError(err)

	req.Equal(first.ID, second.ID)
	req.Equal("u1", first.ParticipantLowID)
	req.Equal("u2", first.ParticipantHighID)
	req.Len(repo.convs, 1)
}

func Test_Resolve_Concurrent_Callers_Converge_On_One_Row(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepository()
	uc := NewResolveConversationUseCase(repo, nil, slog.Default())

	listing := "L1"
	const callers = 16
	ids := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := "u1", "u2"
			if i%2 == 1 {
				a, b = b, a // half the callers pass the pair reversed
			}
			conv, err := uc.Execute(context.Background(), ResolveConversationInput{PartyA: a, PartyB: b, ListingID: &listing})
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = conv.ID
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		req.NoError(errs[i], "caller %d must never see the creation race", i)
		req.Equal(ids[0], ids[i])
	}
	req.Len(repo.convs, 1)
}

func Test_Resolve_Distinguishes_Listing_Contexts(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepository()
	uc := NewResolveConversationUseCase(repo, nil, slog.Default())

	l1, l2 := "L1", "L2"
	c1, err := uc.Execute(context.Background(), ResolveConversationInput{PartyA: "u1", PartyB: "u2", ListingID: &l1})
	req.NoError(err)
	c2, err := uc.Execute(context.Background(), ResolveConversationInput{PartyA: "u1", PartyB: "u2", ListingID: &l2})
	req.NoError(err)
	c3, err := uc.Execute(context.Background(), ResolveConversationInput{PartyA: "u1", PartyB: "u2"})
	req.NoError(err)

	req.NotEqual(c1.ID, c2.ID)
	req.NotEqual(c1.ID, c3.ID)
	req.Len(repo.convs, 3)
}

func Test_Resolve_Rejects_Self_Conversation(t *testing.T) {
	req := require.New(t)
	uc := NewResolveConversationUseCase(newFakeRepository(), nil, slog.Default())

	_, err := uc.Execute(context.Background(), ResolveConversationInput{PartyA: "u1", PartyB: "u1"})
	req.ErrorIs(err, messaging.ErrInvalidParticipants)
}

func Test_Resolve_Rejects_Unknown_Listing(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepository()
	listings := &fakeListings{known: map[string]bool{"L1": true}}
	uc := NewResolveConversationUseCase(repo, listings, slog.Default())

	bad := "L404"
	_, err := uc.Execute(context.Background(), ResolveConversationInput{PartyA: "u1", PartyB: "u2", ListingID: &bad})
	req.ErrorIs(err, messaging.ErrInvalidContext)
	req.Empty(repo.convs, "no partial state on rejection")

	good := "L1"
	_, err = uc.Execute(context.Background(), ResolveConversationInput{PartyA: "u1", PartyB: "u2", ListingID: &good})
	req.NoError(err)
}

func Test_Resolve_Listing_Check_Is_Best_Effort(t *testing.T) {
	req := require.New(t)
	repo := newFakeRepository()
	listings := &fakeListings{err: fmt.Errorf("directory unreachable")}
	uc := NewResolveConversationUseCase(repo, listings, slog.Default())

	listing := "L1"
	conv, err := uc.Execute(context.Background(), ResolveConversationInput{PartyA: "u1", PartyB: "u2", ListingID: &listing})
	req.NoError(err, "an unreachable directory must not block the conversation")
	req.NotEmpty(conv.ID)
}
