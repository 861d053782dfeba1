package syntax

import (
	"context"
	"crypto/sha1" //nolint:gosec // SHA1 used for content fingerprinting, not security.
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the default number of parsed trees kept in memory.
const DefaultCacheSize = 256

// Cache is an LRU cache of parsed trees keyed by path plus content hash,
// so edited files never serve stale trees.
type Cache struct {
	parser *Parser
	trees  *lru.Cache[string, *Tree]
}

// NewCache creates a Cache around parser holding at most size trees.
// A non-positive size falls back to DefaultCacheSize.
func NewCache(parser *Parser, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}

	trees, err := lru.New[string, *Tree](size)
	if err != nil {
		return nil, err
	}

	return &Cache{parser: parser, trees: trees}, nil
}

// Parse returns the cached tree for (path, content) or parses and caches it.
func (c *Cache) Parse(ctx context.Context, path string, content []byte) (*Tree, error) {
	key := cacheKey(path, content)

	if tree, ok := c.trees.Get(key); ok {
		return tree, nil
	}

	tree, err := c.parser.Parse(ctx, path, content)
	if err != nil {
		return nil, err
	}

	c.trees.Add(key, tree)

	return tree, nil
}

// Len returns the number of cached trees.
func (c *Cache) Len() int {
	return c.trees.Len()
}

func cacheKey(path string, content []byte) string {
	sum := sha1.Sum(content) //nolint:gosec // content fingerprint only

	return path + ":" + hex.EncodeToString(sum[:])
}
