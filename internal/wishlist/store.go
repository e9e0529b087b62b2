package wishlist

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Store keeps per-session wishlists as Redis sets. Unlike the cart there is
// no quantity or variant selection, only product membership.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func wishlistKey(sessionID string) string {
	return fmt.Sprintf("wishlist:%s", sessionID)
}

func (s *Store) Add(ctx context.Context, sessionID, productID string) error {
	if err := s.client.SAdd(ctx, wishlistKey(sessionID), productID).Err(); err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, sessionID, productID string) error {
	if err := s.client.SRem(ctx, wishlistKey(sessionID), productID).Err(); err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return nil
}

// List returns the product ids in the session's wishlist, unordered.
func (s *Store) List(ctx context.Context, sessionID string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, wishlistKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read wishlist: %w", err)
	}
	return ids, nil
}

func (s *Store) Contains(ctx context.Context, sessionID, productID string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, wishlistKey(sessionID), productID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist: %w", err)
	}
	return ok, nil
}
