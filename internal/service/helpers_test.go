package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_api/internal/db"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	ctx := context.Background()
	gdb, err := db.Open(ctx, db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, db.Migrate(ctx, gdb))
	return &repo.GormRepo{DB: gdb}
}

type published struct {
	Topic string
	Key   string
	Event Event
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, published{Topic: topic, Key: key, Event: event.(Event)})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event.Type)
	}
	return out
}

type fakeIndexer struct {
	indexed   map[uint]models.Product
	deleted   []uint
	searchErr error
	hits      []models.Product
}

func newFakeIndexer() *fakeIndexer {
	return &fakeIndexer{indexed: map[uint]models.Product{}}
}

func (f *fakeIndexer) IndexProduct(_ context.Context, prod *models.Product) error {
	f.indexed[prod.ID] = *prod
	return nil
}

func (f *fakeIndexer) DeleteProduct(_ context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	delete(f.indexed, id)
	return nil
}

func (f *fakeIndexer) Search(context.Context, string, int, int) (int64, []models.Product, error) {
	if f.searchErr != nil {
		return 0, nil, f.searchErr
	}
	return int64(len(f.hits)), f.hits, nil
}

var errBoom = errors.New("boom")

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
