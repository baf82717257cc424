package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jonathan/brand-content-engine/internal/types"
)

// Store is the job registry. Get returns ErrJobNotFound for unknown ids.
type Store interface {
	// Put writes job. A positive ttl lets the backend expire the record on
	// its own; zero keeps it until deleted.
	Put(ctx context.Context, job *types.AnalysisJob, ttl time.Duration) error
	Get(ctx context.Context, id string) (*types.AnalysisJob, error)
	Delete(ctx context.Context, id string) error
	IDs(ctx context.Context) ([]string, error)
}

// MemoryStore keeps jobs in process memory. TTLs are ignored; eviction is
// driven by the tracker.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]types.AnalysisJob
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]types.AnalysisJob)}
}

func (s *MemoryStore) Put(_ context.Context, job *types.AnalysisJob, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*types.AnalysisJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return &job, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, id)
	return nil
}

func (s *MemoryStore) IDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	return ids, nil
}

// RedisStore keeps jobs in Redis so every server instance sees the same
// registry. Records are JSON under prefix+id.
type RedisStore struct {
	rdb    *goredis.Client
	prefix string
}

// NewRedisStore creates a RedisStore. An empty prefix uses "analysis:job:".
func NewRedisStore(rdb *goredis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "analysis:job:"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) Put(ctx context.Context, job *types.AnalysisJob, ttl time.Duration) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.prefix+job.ID, data, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*types.AnalysisJob, error) {
	data, err := s.rdb.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	var job types.AnalysisJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, s.prefix+id).Err()
}

func (s *RedisStore) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	return ids, iter.Err()
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
