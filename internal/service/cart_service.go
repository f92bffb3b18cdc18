package service

import (
	"context"
	"errors"
	"sync"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrLineNotFound = errors.New("cart line not found")

// CartService owns the ordered list of cart lines and mirrors it to the
// repository after every change. One mutex serializes every operation
// together with its write, so no caller sees state that was not yet saved.
type CartService struct {
	repo   repository.CartRepository
	logger *zap.Logger

	mu         sync.Mutex
	lines      []domain.CartLine
	restoreErr error
}

// NewCartService restores the saved cart. A missing or unreadable cart
// starts empty; the cause is kept for RestoreErr.
func NewCartService(ctx context.Context, repo repository.CartRepository, logger *zap.Logger) *CartService {
	s := &CartService{
		repo:   repo,
		logger: logger,
	}
	var assigned bool
	s.lines, assigned, s.restoreErr = restore(ctx, repo)

	switch {
	case s.restoreErr == nil:
		logger.Info("cart restored", zap.Int("lines", len(s.lines)))
	case errors.Is(s.restoreErr, repository.ErrCartNotFound):
		logger.Info("no saved cart, starting empty")
	default:
		logger.Warn("saved cart unreadable, starting empty", zap.Error(s.restoreErr))
	}

	// ids handed out by Lines must still match after the next restart
	if assigned {
		s.persist(ctx)
	}
	return s
}

// restore loads the saved cart and gives every line without a line id a new
// one. assigned reports whether any id was added.
func restore(ctx context.Context, repo repository.CartRepository) (lines []domain.CartLine, assigned bool, err error) {
	lines, err = repo.Load(ctx)
	if err != nil {
		return []domain.CartLine{}, false, err
	}
	for i := range lines {
		if lines[i].LineID == "" {
			lines[i].LineID = uuid.NewString()
			assigned = true
		}
	}
	return lines, assigned, nil
}

// RestoreErr reports why the startup load fell back to an empty cart, or nil
// when the saved cart was restored.
func (s *CartService) RestoreErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restoreErr
}

// Lines returns a copy of the cart in order.
func (s *CartService) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneLines(s.lines)
}

func (s *CartService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Count(s.lines)
}

func (s *CartService) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Total(s.lines)
}

// AddToCart bumps the quantity of the line with the same product, size and
// color, or appends a new line holding a snapshot of product.
func (s *CartService) AddToCart(ctx context.Context, product domain.Product, size, color string) domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := domain.Variant{ProductID: product.ID, Size: size, Color: color}
	idx := -1
	for i, l := range s.lines {
		if l.Variant() == want {
			idx = i
			break
		}
	}

	if idx >= 0 {
		s.lines[idx].Quantity++
	} else {
		s.lines = append(s.lines, domain.CartLine{
			LineID:        uuid.NewString(),
			Product:       product.Clone(),
			SelectedSize:  size,
			SelectedColor: color,
			Quantity:      1,
		})
		idx = len(s.lines) - 1
	}

	s.persist(ctx)
	return s.lines[idx].Clone()
}

// UpdateQuantity sets the quantity of the line at index. A quantity of zero
// or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, index, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.lines) {
		return ErrLineNotFound
	}
	s.setQuantity(ctx, index, quantity)
	return nil
}

// RemoveItem deletes the line at index; later lines move down one position.
func (s *CartService) RemoveItem(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.lines) {
		return ErrLineNotFound
	}
	s.remove(ctx, index)
	return nil
}

// UpdateQuantityByID is UpdateQuantity addressed by the line's stable id.
func (s *CartService) UpdateQuantityByID(ctx context.Context, lineID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(lineID)
	if index < 0 {
		return ErrLineNotFound
	}
	s.setQuantity(ctx, index, quantity)
	return nil
}

func (s *CartService) RemoveItemByID(ctx context.Context, lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(lineID)
	if index < 0 {
		return ErrLineNotFound
	}
	s.remove(ctx, index)
	return nil
}

func (s *CartService) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = []domain.CartLine{}
	s.persist(ctx)
}

// PurgeCart empties the cart and deletes the saved copy instead of writing an
// empty one.
func (s *CartService) PurgeCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = []domain.CartLine{}
	if err := s.repo.Delete(ctx); err != nil {
		s.logger.Warn("cart delete failed", zap.Error(err))
	}
}

func (s *CartService) indexOf(lineID string) int {
	for i, l := range s.lines {
		if l.LineID == lineID {
			return i
		}
	}
	return -1
}

func (s *CartService) setQuantity(ctx context.Context, index, quantity int) {
	if quantity <= 0 {
		s.remove(ctx, index)
		return
	}
	s.lines[index].Quantity = quantity
	s.persist(ctx)
}

func (s *CartService) remove(ctx context.Context, index int) {
	lines := make([]domain.CartLine, 0, len(s.lines)-1)
	lines = append(lines, s.lines[:index]...)
	s.lines = append(lines, s.lines[index+1:]...)
	s.persist(ctx)
}

// persist writes the full cart. Failures are logged only: the in-memory cart
// stays authoritative.
func (s *CartService) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, s.lines); err != nil {
		s.logger.Warn("cart save failed", zap.Error(err), zap.Int("lines", len(s.lines)))
	}
}
