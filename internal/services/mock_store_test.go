package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/utkirwork/draw-sql-sub001/internal/models"
)

// memoryStore is an in-memory DiagramStore.
type memoryStore struct {
	mu       sync.Mutex
	diagrams map[uuid.UUID]models.Diagram
	err      error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{diagrams: make(map[uuid.UUID]models.Diagram)}
}

func (m *memoryStore) Create(_ context.Context, d *models.Diagram) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d.Prepare()
	m.diagrams[d.ID] = *d
	return nil
}

func (m *memoryStore) GetByIDAndUserID(_ context.Context, id, userID uuid.UUID) (*models.Diagram, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.diagrams[id]
	if !ok || d.UserID != userID {
		return nil, nil
	}
	return &d, nil
}

func (m *memoryStore) GetByUserID(_ context.Context, userID uuid.UUID) ([]models.Diagram, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Diagram{}
	for _, d := range m.diagrams {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memoryStore) Update(_ context.Context, d *models.Diagram) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.diagrams[d.ID]
	if !ok || existing.UserID != d.UserID {
		return false, nil
	}
	m.diagrams[d.ID] = *d
	return true, nil
}

func (m *memoryStore) DeleteByIDAndUserID(_ context.Context, id, userID uuid.UUID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.diagrams[id]
	if !ok || d.UserID != userID {
		return false, nil
	}
	delete(m.diagrams, id)
	return true, nil
}

var errStoreDown = errors.New("connection refused")
