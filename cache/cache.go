// Package cache stores rendered pages by key with a time to live.
package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/dasdy/bankingai/layout"
)

// Cache is a byte store. Get reports a miss with hit=false and a nil
// error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// PageKey identifies one rendering of a transaction page. The width is
// part of the key because the page links carry it.
func PageKey(id string, width int, expanded layout.ExpansionSet) string {
	return strings.Join([]string{id, strconv.Itoa(width), expanded.String()}, "|")
}
