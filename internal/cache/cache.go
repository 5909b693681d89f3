package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/piitier/internal/model"
	"go.uber.org/zap"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// KeyPrefix namespaces every key; bump the version when cached value shapes change
const KeyPrefix = "piitier:v1:"

// CacheKey hashes the parts into a stable key. Parts are length-prefixed
// so ("ab","c") and ("a","bc") differ.
func CacheKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%d:%s;", len(p), p)
	}
	return KeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// New builds the configured cache. It returns nil when caching is disabled.
// A redis_url selects Redis; otherwise memory backed by disk.
func New(cfg model.CacheConfig, logger *zap.Logger) (Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ttl := cfg.TTL()
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	if cfg.RedisURL != "" {
		return NewRedisCache(cfg.RedisURL, ttl, logger)
	}

	dir, err := expandHome(cfg.Dir)
	if err != nil {
		return nil, err
	}
	logger.Debug("Layered cache enabled", zap.String("dir", dir), zap.Duration("ttl", ttl))
	return NewLayeredCache(ttl, dir, ttl), nil
}

func expandHome(dir string) (string, error) {
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(dir, "~")), nil
	}
	return dir, nil
}
