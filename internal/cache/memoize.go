package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// KeyFunc derives a deterministic cache key from a function name and
// its arguments. Implementations must be stable: equal arguments must
// always produce equal keys.
type KeyFunc func(name string, args ...any) string

// DefaultKey serializes each argument as JSON (falling back to the
// fmt representation for values JSON cannot express, which is less
// precise but always succeeds) and hashes the result to a fixed-length
// digest. The function name is kept as a readable prefix so key groups
// can be invalidated by pattern.
func DefaultKey(name string, args ...any) string {
	var b strings.Builder
	b.WriteString(name)
	for _, a := range args {
		b.WriteByte(':')
		if raw, err := json.Marshal(a); err == nil {
			b.Write(raw)
		} else {
			fmt.Fprintf(&b, "%v", a)
		}
	}
	sum := md5.Sum([]byte(b.String()))
	return name + ":" + hex.EncodeToString(sum[:])
}

// Key joins arbitrary parts into a readable colon-separated cache key.
//
//	key := cache.Key("resources", "list", q, limit, offset)
func Key(parts ...any) string {
	ss := make([]string, len(parts))
	for i, p := range parts {
		ss[i] = fmt.Sprint(p)
	}
	return strings.Join(ss, ":")
}

// Memoize wraps fn so identical arguments are served from c instead of
// re-invoking the work. name namespaces the derived keys; keyFn may be
// nil to use DefaultKey. A nil cache disables memoization and calls fn
// directly.
//
// Results are cached only on success: if fn returns an error, nothing
// is stored and the error propagates unchanged, so the next call
// retries the work.
func Memoize[A, R any](c *Cache, name string, ttl time.Duration, keyFn KeyFunc, fn func(context.Context, A) (R, error)) func(context.Context, A) (R, error) {
	if keyFn == nil {
		keyFn = DefaultKey
	}
	return func(ctx context.Context, arg A) (R, error) {
		if c == nil {
			return fn(ctx, arg)
		}

		key := keyFn(name, arg)
		if v, ok := c.Get(key); ok {
			if r, ok := v.(R); ok {
				slog.Debug("cache hit", "function", name, "key", key)
				return r, nil
			}
		}
		slog.Debug("cache miss", "function", name, "key", key)

		r, err := fn(ctx, arg)
		if err != nil {
			return r, err
		}
		_ = c.Set(key, r, ttl)
		return r, nil
	}
}
