package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const resultCacheNamespace = "cvscore:analysis:"

// CachedResult is what the cache stores per fingerprint.
type CachedResult struct {
	Score         CVScore   `json:"score"`
	JobMatch      *JobMatch `json:"job_match,omitempty"`
	Tips          []CVTip   `json:"tips"`
	ExtractedText string    `json:"extracted_text"`
	WordCount     int       `json:"word_count"`
}

type ResultCache interface {
	Get(ctx context.Context, key string) (*CachedResult, bool, error)
	Set(ctx context.Context, key string, result *CachedResult) error
}

// Fingerprint identifies one analysis input: file bytes, file name and job
// description. The name takes part because fallback text is picked from it.
func Fingerprint(content []byte, filename, jobDescription string) string {
	fileSum := sha256.Sum256(content)
	nameSum := sha256.Sum256([]byte(strings.ToLower(filepath.Base(filename))))
	jobSum := sha256.Sum256([]byte(jobDescription))
	return hex.EncodeToString(fileSum[:]) + ":" + hex.EncodeToString(nameSum[:8]) + ":" + hex.EncodeToString(jobSum[:8])
}

// FileFingerprint is the sha256 hex digest of the file bytes alone.
func FileFingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

type redisResultCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger

	warnedUnavailable atomic.Bool
}

// NewRedisResultCache returns a cache that is bypassed when client is nil or
// Redis stops answering.
func NewRedisResultCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) ResultCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisResultCache{client: client, ttl: ttl, logger: logger}
}

// NewRedisClient pings addr and returns nil when Redis is unreachable.
func NewRedisClient(addr, password string, db int, logger *zap.Logger) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("⚠️ Redis unavailable, bypassing cache", zap.Error(err))
		_ = client.Close()
		return nil
	}

	return client
}

func (c *redisResultCache) Get(ctx context.Context, key string) (*CachedResult, bool, error) {
	if c.client == nil {
		return nil, false, nil
	}

	b, err := c.client.Get(ctx, resultCacheNamespace+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		c.warnUnavailableOnce(err)
		return nil, false, err
	}

	var result CachedResult
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, false, err
	}
	return &result, true, nil
}

func (c *redisResultCache) Set(ctx context.Context, key string, result *CachedResult) error {
	if c.client == nil {
		return nil
	}

	b, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, resultCacheNamespace+key, b, c.ttl).Err(); err != nil {
		c.warnUnavailableOnce(err)
		return err
	}
	return nil
}

func (c *redisResultCache) warnUnavailableOnce(err error) {
	if c.warnedUnavailable.CompareAndSwap(false, true) {
		c.logger.Warn("⚠️ Redis unavailable, bypassing cache", zap.Error(err))
	}
}
