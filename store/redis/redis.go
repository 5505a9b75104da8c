package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flowdag/flowdag/store"
)

// RedisRunStore implements store.RunStore using Redis. Each record is a JSON
// value keyed by run ID, with a per-pipeline set indexing the IDs.
type RedisRunStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ store.RunStore = (*RedisRunStore)(nil)

// RedisOptions configuration for Redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "flowdag:"
	TTL      time.Duration // Expiration for run records, default 0 (no expiration)
}

// NewRedisRunStore creates a new Redis run store.
func NewRedisRunStore(opts RedisOptions) *RedisRunStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "flowdag:"
	}

	return &RedisRunStore{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
	}
}

func (s *RedisRunStore) runKey(id string) string {
	return fmt.Sprintf("%srun:%s", s.prefix, id)
}

func (s *RedisRunStore) pipelineKey(pipeline string) string {
	return fmt.Sprintf("%spipeline:%s:runs", s.prefix, pipeline)
}

// Save stores a record, replacing any record with the same ID.
func (s *RedisRunStore) Save(ctx context.Context, rec *store.RunRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.runKey(rec.ID), data, s.ttl)

	if rec.Pipeline != "" {
		pipelineKey := s.pipelineKey(rec.Pipeline)
		pipe.SAdd(ctx, pipelineKey, rec.ID)
		if s.ttl > 0 {
			pipe.Expire(ctx, pipelineKey, s.ttl)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save run record to redis: %w", err)
	}
	return nil
}

// Load retrieves a record by run ID.
func (s *RedisRunStore) Load(ctx context.Context, id string) (*store.RunRecord, error) {
	data, err := s.client.Get(ctx, s.runKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("%w: %s", store.ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to load run record from redis: %w", err)
	}

	var rec store.RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run record: %w", err)
	}
	return &rec, nil
}

// List returns all records for a pipeline name.
func (s *RedisRunStore) List(ctx context.Context, pipeline string) ([]*store.RunRecord, error) {
	ids, err := s.client.SMembers(ctx, s.pipelineKey(pipeline)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs for pipeline %s: %w", pipeline, err)
	}
	if len(ids) == 0 {
		return []*store.RunRecord{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.runKey(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch run records: %w", err)
	}

	records := make([]*store.RunRecord, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Record expired but its set entry survived; skip it.
			continue
		}
		var rec store.RunRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, nil
}

// Delete removes a record by run ID.
func (s *RedisRunStore) Delete(ctx context.Context, id string) error {
	rec, err := s.Load(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.runKey(id))
	if rec.Pipeline != "" {
		pipe.SRem(ctx, s.pipelineKey(rec.Pipeline), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete run record: %w", err)
	}
	return nil
}

// Clear removes all records for a pipeline name.
func (s *RedisRunStore) Clear(ctx context.Context, pipeline string) error {
	pipelineKey := s.pipelineKey(pipeline)
	ids, err := s.client.SMembers(ctx, pipelineKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list runs for pipeline %s: %w", pipeline, err)
	}

	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, s.runKey(id))
	}
	pipe.Del(ctx, pipelineKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear runs for pipeline %s: %w", pipeline, err)
	}
	return nil
}

// Close releases the underlying Redis client.
func (s *RedisRunStore) Close() error {
	return s.client.Close()
}
