package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/mykafka"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

const maxProductName = 100

// Indexer keeps a full-text copy of the catalog.
type Indexer interface {
	IndexProduct(ctx context.Context, prod *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Index  Indexer
	Events mykafka.Publisher
}

func summaries(items []models.Product) []transport.ProductSummary {
	out := make([]transport.ProductSummary, 0, len(items))
	for _, p := range items {
		out = append(out, transport.ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price})
	}
	return out
}

func validName(name string) bool {
	return strings.TrimSpace(name) != "" && utf8.RuneCountInString(name) <= maxProductName
}

func (s *CatalogService) ListProducts(ctx context.Context, offset, limit int) ([]transport.ProductSummary, error) {
	items, err := s.Repo.ListProducts(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return summaries(items), nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return prod, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == nil || !validName(*req.Name) {
		return nil, fmt.Errorf("nome is required: %w", ErrValidation)
	}
	if req.Price == nil {
		return nil, fmt.Errorf("preco is required: %w", ErrValidation)
	}

	prod := &models.Product{
		Name:        *req.Name,
		Price:       *req.Price,
		Description: req.Description,
	}
	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		return nil, err
	}

	s.index(ctx, prod)
	publish(ctx, s.Events, mykafka.TopicProductEvents, prod.ID, Event{Type: EventProductCreated, ProductID: prod.ID})
	return prod, nil
}

// UpdateProduct overwrites only the fields present in req.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, req transport.UpdateProductRequest) (*models.Product, error) {
	if req.Name != nil && !validName(*req.Name) {
		return nil, fmt.Errorf("nome cannot be empty: %w", ErrValidation)
	}

	prod, err := s.Repo.UpdateProduct(ctx, id, req)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	s.index(ctx, prod)
	publish(ctx, s.Events, mykafka.TopicProductEvents, prod.ID, Event{Type: EventProductUpdated, ProductID: prod.ID})
	return prod, nil
}

// DeleteProduct removes the row even when cart items still point at it.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return err
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("unindex_product_failed", "product_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, mykafka.TopicProductEvents, id, Event{Type: EventProductDeleted, ProductID: id})
	return nil
}

// SearchProducts asks the search index first and falls back to the
// database when no index is configured or the index call fails.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, offset, limit int) (*transport.SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("query is required: %w", ErrValidation)
	}

	if s.Index != nil {
		total, items, err := s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			return &transport.SearchResult{Total: total, Products: summaries(items)}, nil
		}
		logging.FromContext(ctx).Warn("index_search_failed", "reason", "falling back to database", "error", err)
	}

	total, items, err := s.Repo.SearchProducts(ctx, q, offset, limit)
	if err != nil {
		return nil, err
	}
	return &transport.SearchResult{Total: total, Products: summaries(items)}, nil
}

func (s *CatalogService) index(ctx context.Context, prod *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, prod); err != nil {
		logging.FromContext(ctx).Warn("index_product_failed", "product_id", prod.ID, "error", err)
	}
}
