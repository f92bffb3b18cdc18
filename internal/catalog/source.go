package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/fjod/storefront/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed products.yaml
var defaultProducts []byte

// ProductSource supplies the catalog. It is read once; the list is treated as
// immutable afterwards.
type ProductSource interface {
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
}

// YAMLSource decodes a product list from YAML bytes.
type YAMLSource struct {
	data []byte
}

func NewYAMLSource(data []byte) *YAMLSource {
	return &YAMLSource{data: data}
}

// NewEmbeddedSource serves the built-in storefront catalog.
func NewEmbeddedSource() *YAMLSource {
	return NewYAMLSource(defaultProducts)
}

func (s *YAMLSource) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var products []domain.Product
	if err := yaml.Unmarshal(s.data, &products); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return products, nil
}
