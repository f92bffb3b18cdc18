package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/storage"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrCorruptCart  = errors.New("corrupt cart data")
)

// CartRepository is the cart persistence port: the whole cart is read at
// startup and written back in full after every change.
type CartRepository interface {
	Load(ctx context.Context) ([]domain.CartLine, error)
	Save(ctx context.Context, lines []domain.CartLine) error
	// Delete removes the saved cart; deleting a missing cart is not an error.
	Delete(ctx context.Context) error
}

type kvCartRepository struct {
	store storage.Store
	key   string
}

// NewCartRepository stores the cart as a JSON array under key.
func NewCartRepository(store storage.Store, key string) CartRepository {
	return &kvCartRepository{store: store, key: key}
}

func (r *kvCartRepository) Load(ctx context.Context) ([]domain.CartLine, error) {
	raw, err := r.store.Get(ctx, r.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	lines, err := DecodeCart([]byte(raw))
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *kvCartRepository) Save(ctx context.Context, lines []domain.CartLine) error {
	data, err := EncodeCart(lines)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, r.key, string(data)); err != nil {
		return fmt.Errorf("failed to write cart: %w", err)
	}
	return nil
}

func (r *kvCartRepository) Delete(ctx context.Context) error {
	if err := r.store.Delete(ctx, r.key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// EncodeCart serializes lines as a JSON array; an empty cart is "[]".
func EncodeCart(lines []domain.CartLine) ([]byte, error) {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("marshal cart failed: %w", err)
	}
	return data, nil
}

// DecodeCart parses and validates a serialized cart. A JSON null is an empty
// cart; anything that is not an array of valid, distinct lines is corrupt.
func DecodeCart(data []byte) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}

	seen := make(map[domain.Variant]struct{}, len(lines))
	seenIDs := make(map[string]struct{}, len(lines))
	for i, l := range lines {
		if l.ID == "" {
			return nil, fmt.Errorf("%w: line %d has no product id", ErrCorruptCart, i)
		}
		if l.Quantity < 1 {
			return nil, fmt.Errorf("%w: line %d has quantity %d", ErrCorruptCart, i, l.Quantity)
		}
		if _, dup := seen[l.Variant()]; dup {
			return nil, fmt.Errorf("%w: line %d duplicates an earlier line", ErrCorruptCart, i)
		}
		seen[l.Variant()] = struct{}{}

		if l.LineID == "" {
			continue
		}
		if _, dup := seenIDs[l.LineID]; dup {
			return nil, fmt.Errorf("%w: line %d reuses line id %q", ErrCorruptCart, i, l.LineID)
		}
		seenIDs[l.LineID] = struct{}{}
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return lines, nil
}
