package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/shop_api/internal/models"
)

// ProductIndex mirrors the product table into a full-text index.
type ProductIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewProductIndex(client *elasticsearch.Client, index string) *ProductIndex {
	if index == "" {
		index = "products"
	}
	return &ProductIndex{ES: client, Index: index}
}

func (p *ProductIndex) IndexProduct(ctx context.Context, prod *models.Product) error {
	body, err := json.Marshal(prod)
	if err != nil {
		return fmt.Errorf("es: marshal product: %w", err)
	}

	res, err := p.ES.Index(
		p.Index,
		bytes.NewReader(body),
		p.ES.Index.WithContext(ctx),
		p.ES.Index.WithDocumentID(strconv.FormatUint(uint64(prod.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("es: index product %d: %w", prod.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", res.Status(), res.Body)
	}
	return nil
}

func (p *ProductIndex) DeleteProduct(ctx context.Context, id uint) error {
	res, err := p.ES.Delete(
		p.Index,
		strconv.FormatUint(uint64(id), 10),
		p.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: delete product %d: %w", id, err)
	}
	defer res.Body.Close()
	// a missing document is already in the wanted state
	if res.IsError() && res.StatusCode != 404 {
		return responseError("delete", res.Status(), res.Body)
	}
	return nil
}

func (p *ProductIndex) Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"nome^2", "descricao"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("es: encode query: %w", err)
	}

	res, err := p.ES.Search(
		p.ES.Search.WithContext(ctx),
		p.ES.Search.WithIndex(p.Index),
		p.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search", res.Status(), res.Body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("es: decode search response: %w", err)
	}

	prods := make([]models.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		prods[i] = hit.Source
	}
	return r.Hits.Total.Value, prods, nil
}

func responseError(op, status string, body io.Reader) error {
	b, _ := io.ReadAll(io.LimitReader(body, 4<<10))
	return fmt.Errorf("es: %s returned %s: %s", op, status, bytes.TrimSpace(b))
}
