package memory

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/debatelab/arena/internal/logging"
)

// Redis key layout: one hash per record plus a set of all record ids.
const (
	redisIDSetKey     = "arena:memory:ids"
	redisRecordPrefix = "arena:memory:record:"
)

// RedisStore persists records in redis hashes. Each record is its own hash,
// so concurrent saves from unrelated runs never contend on a shared value.
type RedisStore struct {
	client *redis.Client
	logger *logging.Logger
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisLogger sets the logger used for degraded-retrieval warnings.
func WithRedisLogger(logger *logging.Logger) RedisOption {
	return func(rs *RedisStore) {
		rs.logger = logger
	}
}

// NewRedisStore creates a RedisStore talking to the given address and
// database number.
func NewRedisStore(addr string, db int, opts ...RedisOption) *RedisStore {
	rs := &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr, DB: db}),
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// Retrieve loads all records and returns the documents of up to k records
// ranked by similarity to the query. Any backend failure degrades to an
// empty result.
func (rs *RedisStore) Retrieve(ctx context.Context, query string, k int) []string {
	if strings.TrimSpace(query) == "" {
		return nil
	}

	ids, err := rs.client.SMembers(ctx, redisIDSetKey).Result()
	if err != nil {
		rs.logger.Warn("memory retrieval degraded to empty", "error", err)
		return nil
	}

	var records []Record
	for _, id := range ids {
		fields, err := rs.client.HGetAll(ctx, redisRecordPrefix+id).Result()
		if err != nil {
			rs.logger.Warn("skipping unreadable memory record", "id", id, "error", err)
			continue
		}
		if len(fields) == 0 {
			continue
		}
		records = append(records, Record{
			ID:          id,
			Question:    fields["question"],
			Winner:      fields["winner"],
			FinalAnswer: fields["final_answer"],
		})
	}

	return rankRecords(query, records, k)
}

// Save writes the record as a hash and indexes its id. Empty records are
// dropped.
func (rs *RedisStore) Save(ctx context.Context, rec Record) error {
	if rec.Empty() {
		return nil
	}

	pipe := rs.client.TxPipeline()
	pipe.HSet(ctx, redisRecordPrefix+rec.ID, map[string]any{
		"question":     rec.Question,
		"winner":       rec.Winner,
		"final_answer": rec.FinalAnswer,
	})
	pipe.SAdd(ctx, redisIDSetKey, rec.ID)
	_, err := pipe.Exec(ctx)
	return err
}

// Close releases the redis connection.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
