package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoSnapshot is returned by Load when the slot holds no prior cart state.
var ErrNoSnapshot = errors.New("no cart snapshot")

// Slot is a durable key-value slot holding one serialized cart snapshot.
// The whole blob is overwritten on every Save; there are no partial writes.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Key builds the storage key for a session's cart snapshot. The key is
// versioned so an incompatible schema change can move to cart:v2 without
// corrupting old blobs.
func Key(sessionID string) string {
	return fmt.Sprintf("cart:v1:%s", sessionID)
}
