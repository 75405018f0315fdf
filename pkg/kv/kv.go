// Package kv is a small key-value layer with hierarchical keys.
//
// Keys are segment slices such as {"todo", "items", "7"}; they are joined
// with a separator (':' by default) before reaching the backend. Badger is
// the persistent backend, Memory serves tests and throwaway runs.
package kv

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

var ErrNotFound = errors.New("kv: not found")

// Key is a hierarchical path. Segments must not contain the separator.
type Key []string

func (k Key) String() string {
	return strings.Join(k, string(DefaultSeparator))
}

// Entry is one key/value pair.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is implemented by Memory and Badger.
type Store interface {
	// Get returns ErrNotFound when key is absent.
	Get(ctx context.Context, key Key) ([]byte, error)
	Set(ctx context.Context, key Key, value []byte) error
	// Delete is a no-op for absent keys.
	Delete(ctx context.Context, key Key) error
	// List yields entries under prefix in lexicographic key order.
	List(ctx context.Context, prefix Key) iter.Seq2[Entry, error]
	// BatchSet writes all entries in one batch.
	BatchSet(ctx context.Context, entries []Entry) error
	Close() error
}

const DefaultSeparator byte = ':'

// Options is shared by all backends. A nil *Options is valid.
type Options struct {
	Separator byte
}

func (o *Options) sep() byte {
	if o == nil || o.Separator == 0 {
		return DefaultSeparator
	}
	return o.Separator
}

func (o *Options) encode(k Key) []byte {
	return []byte(strings.Join(k, string(o.sep())))
}

func (o *Options) decode(b []byte) Key {
	return Key(strings.Split(string(b), string(o.sep())))
}

// scanPrefix is the raw prefix for List. A trailing separator keeps
// {"a","b"} from matching "a:bc".
func (o *Options) scanPrefix(prefix Key) []byte {
	if len(prefix) == 0 {
		return nil
	}
	return append(o.encode(prefix), o.sep())
}

// GetValue reads key and msgpack-decodes it into a T.
func GetValue[T any](ctx context.Context, s Store, key Key) (T, error) {
	var v T
	data, err := s.Get(ctx, key)
	if err != nil {
		return v, err
	}
	if err := msgpack.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("kv: decode %s: %w", key, err)
	}
	return v, nil
}

// SetValue msgpack-encodes v and stores it under key.
func SetValue(ctx context.Context, s Store, key Key, v any) error {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}

// Values yields every value under prefix decoded as T.
func Values[T any](ctx context.Context, s Store, prefix Key) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for e, err := range s.List(ctx, prefix) {
			var v T
			if err == nil {
				if derr := msgpack.Unmarshal(e.Value, &v); derr != nil {
					err = fmt.Errorf("kv: decode %s: %w", e.Key, derr)
				}
			}
			if !yield(v, err) {
				return
			}
		}
	}
}
