package ratelimit

import (
	"crypto/md5" //nolint:gosec // used for a stable route identifier, not for security
	"encoding/hex"
	"reflect"
	"runtime"
)

// RouteName derives a stable identifier for a route from its handler
// function's identity. The original service hashed the handler's source text
// (Python lets you introspect that at runtime); Go does not expose source at
// runtime, so the compiled function's fully-qualified name is hashed instead.
// Both schemes exist for the same reason: a human-readable route name would
// collide across packages or change on a harmless rename, and the rate
// limiter's Redis keys need to be stable across process restarts without a
// manual registry.
func RouteName(handler any) string {
	pc := reflect.ValueOf(handler).Pointer()

	name := "unknown"

	if fn := runtime.FuncForPC(pc); fn != nil {
		name = fn.Name()
	}

	sum := md5.Sum([]byte(name)) //nolint:gosec // same rationale as above

	return hex.EncodeToString(sum[:])
}
