// Package cache provides the key/value cache used to memoise rendered
// structure drawings.  A Redis implementation serves multi-instance deploys;
// the in-process implementation is used when Redis is disabled.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/turtacn/ReactionLab/pkg/errors"
)

var (
	ErrCacheMiss           = errors.New(errors.ErrCodeNotFound, "cache miss")
	ErrCacheUnavailable    = errors.New(errors.ErrCodeServiceUnavailable, "cache unavailable")
	ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "serialization failed")
)

// nullMarker is stored when a loader yields nothing, so repeated lookups for
// the same key do not hammer the loader.
const nullMarker = "__null__"

// Loader produces the value for a missing key.  Returning (nil, nil) caches
// a null marker for the null TTL.
type Loader func(ctx context.Context) (interface{}, error)

// Cache is the contract shared by every implementation.  Values are
// serialised, so dest must be a pointer suitable for the Serializer.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader Loader) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

// Serializer converts values to and from their stored form.
type Serializer interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type jsonSerializer struct{}

func (jsonSerializer) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }

func (jsonSerializer) Unmarshal(data []byte, v interface{}) error { return json.Unmarshal(data, v) }

// JSONSerializer returns the default serializer.
func JSONSerializer() Serializer { return jsonSerializer{} }

// decodeInto copies a loaded value into dest by round-tripping it through s.
func decodeInto(s Serializer, val, dest interface{}) error {
	data, err := s.Marshal(val)
	if err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	if err := s.Unmarshal(data, dest); err != nil {
		return ErrSerializationFailed.WithCause(err)
	}
	return nil
}

//Personal.AI order the ending
