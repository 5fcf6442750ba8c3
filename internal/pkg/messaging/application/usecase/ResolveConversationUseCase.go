package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/collaborator"
	messaging "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/domain"
	repository "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/persistence/repository/port"
)

// ResolveConversationInput carries the two parties and an optional listing
// scope. Caller order of the parties does not matter.
type ResolveConversationInput struct {
	PartyA    string
	PartyB    string
	ListingID *string
}

// ResolveConversationUseCase returns the single canonical conversation for a
// pair of users and listing, creating it on first contact. Concurrent
// creation races are absorbed by the storage uniqueness constraint plus a
// re-read; neither caller ever sees the conflict.
type ResolveConversationUseCase struct {
	Repo     repository.MessagingRepository
	Listings collaborator.ListingDirectory
	Log      *slog.Logger
}

func NewResolveConversationUseCase(repo repository.MessagingRepository, listings collaborator.ListingDirectory, log *slog.Logger) *ResolveConversationUseCase {
	return &ResolveConversationUseCase{Repo: repo, Listings: listings, Log: log}
}

func (uc *ResolveConversationUseCase) Execute(ctx context.Context, in ResolveConversationInput) (*messaging.Conversation, error) {
	low, high, err := messaging.CanonicalPair(in.PartyA, in.PartyB)
	if err != nil {
		return nil, err
	}

	listingID := in.ListingID
	if listingID != nil && *listingID == "" {
		listingID = nil
	}

	// Best-effort context check: a definitively unknown listing is rejected,
	// an unreachable directory is not.
	if listingID != nil && uc.Listings != nil {
		exists, err := uc.Listings.Exists(ctx, *listingID)
		if err != nil {
			uc.Log.Warn("listing directory unavailable, skipping context check",
				"listing_id", *listingID, "error", err)
		} else if !exists {
			return nil, messaging.ErrInvalidContext
		}
	}

	conv, err := uc.Repo.FindConversation(ctx, low, high, listingID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, messaging.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	conv, err = uc.Repo.InsertConversation(ctx, messaging.Conversation{
		ParticipantLowID:  low,
		ParticipantHighID: high,
		ListingID:         listingID,
	})
	if err == nil {
		return conv, nil
	}
	if errors.Is(err, messaging.ErrConversationExists) {
		// A concurrent caller won the insert race; return the winner's row.
		conv, err = uc.Repo.FindConversation(ctx, low, high, listingID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		return conv, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
}
