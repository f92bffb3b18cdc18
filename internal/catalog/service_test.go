package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fjod/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls    atomic.Int32
	products []domain.Product
	err      error
}

func (s *countingSource) GetAllProducts(context.Context) ([]domain.Product, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

func TestService_LoadsSourceOnce(t *testing.T) {
	src := &countingSource{products: testProducts()}
	svc := NewService(src)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Products(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	_, err := svc.Filter(ctx, Criteria{Category: "Shoes"})
	require.NoError(t, err)

	assert.LessOrEqual(t, src.calls.Load(), int32(10))
	before := src.calls.Load()
	_, err = svc.Featured(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, src.calls.Load(), "loaded catalog should be served from memory")
}

func TestService_SourceErrorIsReturnedAndRetried(t *testing.T) {
	src := &countingSource{err: errors.New("disk gone")}
	svc := NewService(src)

	_, err := svc.Products(context.Background())
	require.Error(t, err)

	src.err = nil
	src.products = testProducts()
	products, err := svc.Products(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 4)
}

type contextSource struct {
	products []domain.Product
}

func (s contextSource) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.products, nil
}

func TestService_LoadIgnoresCallerCancellation(t *testing.T) {
	svc := NewService(contextSource{products: testProducts()})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	products, err := svc.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 4)
}

func TestService_Get(t *testing.T) {
	svc := NewService(&countingSource{products: testProducts()})

	p, related, err := svc.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Pegasus", p.Name)
	assert.Equal(t, []string{"4"}, ids(related))

	_, _, err = svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestService_Categories(t *testing.T) {
	svc := NewService(&countingSource{products: testProducts()})

	cats, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Shoes", "Clothing", "Accessories"}, cats)
}

func TestEmbeddedSource_DefaultCatalog(t *testing.T) {
	products, err := NewEmbeddedSource().GetAllProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, "Nike Air Zoom Pegasus", products[0].Name)
	assert.Equal(t, 120.0, products[0].Price)
	assert.Equal(t, []string{"7", "8", "9", "10", "11"}, products[0].Sizes)
	assert.Len(t, products[0].Images, 2)
	assert.Empty(t, products[2].Sizes)
	assert.Equal(t, "Accessories", products[2].Category)
}

func TestYAMLSource_InvalidData(t *testing.T) {
	_, err := NewYAMLSource([]byte("{not: [valid")).GetAllProducts(context.Background())
	assert.ErrorContains(t, err, "decode catalog")
}
