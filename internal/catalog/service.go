package catalog

import (
	"context"
	"sync"

	"github.com/fjod/storefront/internal/domain"
	"golang.org/x/sync/singleflight"
)

const featuredCount = 3

// Service loads the catalog from its source once and answers read queries
// from memory.
type Service struct {
	source ProductSource
	sfg    singleflight.Group // concurrent first loads share one source read

	mu       sync.RWMutex
	products []domain.Product
	loaded   bool
}

func NewService(source ProductSource) *Service {
	return &Service{source: source}
}

func (s *Service) Products(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	if s.loaded {
		products := s.products
		s.mu.RUnlock()
		return products, nil
	}
	s.mu.RUnlock()

	// the load is shared, so one caller giving up must not fail the others
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := s.sfg.Do("catalog", func() (interface{}, error) {
		products, err := s.source.GetAllProducts(loadCtx)
		if err != nil {
			return nil, err
		}
		if products == nil {
			products = []domain.Product{}
		}

		s.mu.Lock()
		s.products = products
		s.loaded = true
		s.mu.Unlock()
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (s *Service) Filter(ctx context.Context, c Criteria) ([]domain.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(products, c), nil
}

// Get returns the product together with the related ones for its detail view.
func (s *Service) Get(ctx context.Context, id string) (domain.Product, []domain.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return domain.Product{}, nil, err
	}
	p, err := Find(products, id)
	if err != nil {
		return domain.Product{}, nil, err
	}
	return p, Related(products, p), nil
}

func (s *Service) Featured(ctx context.Context) ([]domain.Product, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	return Featured(products, featuredCount), nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	products, err := s.Products(ctx)
	if err != nil {
		return nil, err
	}
	return Categories(products), nil
}
