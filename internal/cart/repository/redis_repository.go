package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/domain"
)

// Abandoned carts expire after 90 days, refreshed on every save.
const cartTTL = 90 * 24 * time.Hour

type redisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) CartRepository {
	return &redisRepository{client: client}
}

func (r *redisRepository) Load(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	key := cartKey(sessionID)

	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.CartLine{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		// Corrupted entry: recover locally, reset storage, never surface.
		log.Printf("discarding malformed cart for session %s: %v", sessionID, err)
		if errSave := r.Save(ctx, sessionID, nil); errSave != nil {
			log.Printf("failed to reset malformed cart for session %s: %v", sessionID, errSave)
		}
		return []domain.CartLine{}, nil
	}

	cleaned := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.Valid() {
			cleaned = append(cleaned, l)
		}
	}
	if len(cleaned) != len(lines) {
		log.Printf("dropped %d invalid cart lines for session %s", len(lines)-len(cleaned), sessionID)
		if errSave := r.Save(ctx, sessionID, cleaned); errSave != nil {
			log.Printf("failed to re-persist cleaned cart for session %s: %v", sessionID, errSave)
		}
	}

	return cleaned, nil
}

func (r *redisRepository) Save(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := r.client.Set(ctx, cartKey(sessionID), data, cartTTL).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (r *redisRepository) Clear(ctx context.Context, sessionID string) error {
	return r.Save(ctx, sessionID, nil)
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
