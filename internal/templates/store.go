package templates

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/brand-content-engine/internal/types"
)

// Store is the narrow tenant accessor the manager needs.
type Store interface {
	// GetTenant returns ErrTenantNotFound when no tenant has id.
	GetTenant(ctx context.Context, id uuid.UUID) (*types.Tenant, error)
	SavePrompt(ctx context.Context, id uuid.UUID, kind types.TemplateKind, prompt types.StoredPrompt) error
	ClearPrompts(ctx context.Context, id uuid.UUID, kinds []types.TemplateKind) error
}

// DefaultListLimit caps tenant listings when no limit is given.
const DefaultListLimit = 50

// MemoryStore is an in-process Store. It also supports brand voice updates
// so it can back the server when no database is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	tenants map[uuid.UUID]*types.Tenant
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tenants: make(map[uuid.UUID]*types.Tenant)}
}

// PutTenant inserts or replaces a tenant. A zero ID is assigned a new one.
func (s *MemoryStore) PutTenant(t *types.Tenant) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := cloneTenant(t)
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	s.tenants[c.ID] = c
	return c.ID
}

// CreateTenant stores a new tenant and returns the stored copy.
func (s *MemoryStore) CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error) {
	c := cloneTenant(t)
	c.ID = uuid.Nil
	return s.GetTenant(ctx, s.PutTenant(c))
}

func (s *MemoryStore) GetTenant(_ context.Context, id uuid.UUID) (*types.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tenants[id]
	if !ok {
		return nil, ErrTenantNotFound
	}
	return cloneTenant(t), nil
}

func (s *MemoryStore) SavePrompt(_ context.Context, id uuid.UUID, kind types.TemplateKind, prompt types.StoredPrompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[id]
	if !ok {
		return ErrTenantNotFound
	}
	if t.Prompts == nil {
		t.Prompts = make(map[types.TemplateKind]types.StoredPrompt)
	}
	t.Prompts[kind] = prompt
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) ClearPrompts(_ context.Context, id uuid.UUID, kinds []types.TemplateKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[id]
	if !ok {
		return ErrTenantNotFound
	}
	for _, k := range kinds {
		delete(t.Prompts, k)
	}
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// SaveBrandVoice replaces the tenant's raw brand voice data.
func (s *MemoryStore) SaveBrandVoice(_ context.Context, id uuid.UUID, raw *types.RawBrandVoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[id]
	if !ok {
		return ErrTenantNotFound
	}
	if raw != nil {
		c := *raw
		raw = &c
	}
	t.BrandVoiceData = raw
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// SavePillars replaces the tenant's content pillars.
func (s *MemoryStore) SavePillars(_ context.Context, id uuid.UUID, pillars []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[id]
	if !ok {
		return ErrTenantNotFound
	}
	t.ContentPillars = append([]string{}, pillars...)
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// ListTenants returns up to limit tenants ordered by name. A non-positive
// limit selects DefaultListLimit.
func (s *MemoryStore) ListTenants(_ context.Context, limit int) ([]types.Tenant, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	s.mu.RLock()
	tenants := make([]types.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		tenants = append(tenants, *cloneTenant(t))
	}
	s.mu.RUnlock()

	sort.Slice(tenants, func(i, j int) bool {
		return strings.ToLower(tenants[i].Name) < strings.ToLower(tenants[j].Name)
	})
	if len(tenants) > limit {
		tenants = tenants[:limit]
	}
	return tenants, nil
}

func cloneTenant(t *types.Tenant) *types.Tenant {
	c := *t
	if t.Prompts != nil {
		c.Prompts = make(map[types.TemplateKind]types.StoredPrompt, len(t.Prompts))
		for k, v := range t.Prompts {
			c.Prompts[k] = v
		}
	}
	c.ContentPillars = append([]string(nil), t.ContentPillars...)
	if t.BrandVoiceData != nil {
		raw := *t.BrandVoiceData
		c.BrandVoiceData = &raw
	}
	return &c
}

var _ Store = (*MemoryStore)(nil)
