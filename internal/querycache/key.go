package querycache

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeySeparator delimits the segments of a serialized cache key.
const KeySeparator = "::"

// Key identifies one cached collection: an entity name plus the filter
// tuple the collection was fetched with. Two keys that serialize equally
// address the same collection.
type Key struct {
	Entity  string
	Filters map[string]any
}

// NewKey builds a key for an entity list scoped to a user, with optional
// extra filter pairs supplied as alternating name/value arguments.
func NewKey(entity, userID string, pairs ...any) Key {
	filters := map[string]any{"user": userID}
	for i := 0; i+1 < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			continue
		}
		filters[name] = pairs[i+1]
	}
	return Key{Entity: entity, Filters: filters}
}

// String produces a deterministic serialization: the entity name followed
// by filter pairs in sorted key order.
func (k Key) String() string {
	if len(k.Filters) == 0 {
		return k.Entity
	}
	names := make([]string, 0, len(k.Filters))
	for name := range k.Filters {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names)+1)
	parts = append(parts, k.Entity)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%v", name, k.Filters[name]))
	}
	return strings.Join(parts, KeySeparator)
}

// Digest returns a compact xxhash digest of the serialized key, used as the
// store's map key and in log fields.
func (k Key) Digest() string {
	return strconv.FormatUint(xxhash.Sum64String(k.String()), 16)
}
