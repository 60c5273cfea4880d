package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vilyx-net/vector/internal/domain"
)

// memoryTicketStore keeps records in process memory. It backs tests and
// DSN-less development; it honors the same contract as the postgres store
// apart from durability.
type memoryTicketStore struct {
	mu      sync.Mutex
	records map[string]domain.TicketRecord
}

// NewMemoryTicketStore instantiates the in-memory store.
func NewMemoryTicketStore() TicketStore {
	return &memoryTicketStore{records: make(map[string]domain.TicketRecord)}
}

func (s *memoryTicketStore) Get(ctx context.Context, channelID string) (*domain.TicketRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[channelID]
	if !ok {
		return nil, ErrNotFound
	}
	out := rec
	return &out, nil
}

func (s *memoryTicketStore) Create(ctx context.Context, channelID, ownerID string, category domain.TicketCategory) (*domain.TicketRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[channelID]; ok {
		return nil, ErrAlreadyExists
	}
	rec := domain.TicketRecord{
		ChannelID: channelID,
		OwnerID:   ownerID,
		Category:  category,
		CreatedAt: time.Now().UTC(),
	}
	s.records[channelID] = rec
	out := rec
	return &out, nil
}

func (s *memoryTicketStore) SetArchived(ctx context.Context, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[channelID]
	if !ok {
		return ErrNotFound
	}
	rec.Archived = true
	s.records[channelID] = rec
	return nil
}

func (s *memoryTicketStore) Remove(ctx context.Context, channelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[channelID]; !ok {
		return ErrNotFound
	}
	delete(s.records, channelID)
	return nil
}

func (s *memoryTicketStore) List(ctx context.Context, limit, offset int) ([]domain.TicketRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	s.mu.Lock()
	all := make([]domain.TicketRecord, 0, len(s.records))
	for _, rec := range s.records {
		all = append(all, rec)
	}
	s.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ChannelID < all[j].ChannelID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}
