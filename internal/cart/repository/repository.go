package repository

import (
	"context"
	"errors"

	"github.com/DmitryShetinin/The-X-Shop-sub001/internal/domain"
)

// CartRepository persists the full cart line list per session key.
// Consumers define this interface, not the Redis implementation.
type CartRepository interface {
	// Load returns the persisted lines for a session, an empty slice when
	// nothing was stored. Implementations must tolerate corrupted entries
	// by discarding them and re-persisting the cleaned list; corruption is
	// never surfaced as an error.
	Load(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	Save(ctx context.Context, sessionID string, lines []domain.CartLine) error
	Clear(ctx context.Context, sessionID string) error
}

var ErrStorageUnavailable = errors.New("cart storage unavailable")
