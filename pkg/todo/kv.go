package todo

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/irtiza07/public-api/pkg/kv"
)

// DefaultKVPrefix is where KVStore keeps items unless told otherwise.
var DefaultKVPrefix = kv.Key{"todo", "items"}

// KVStore keeps one msgpack record per item under prefix+id.
type KVStore struct {
	store  kv.Store
	prefix kv.Key
	now    func() time.Time

	mu sync.Mutex
}

// NewKVStore uses DefaultKVPrefix when prefix is empty.
func NewKVStore(store kv.Store, prefix kv.Key) *KVStore {
	if len(prefix) == 0 {
		prefix = DefaultKVPrefix
	}
	return &KVStore{store: store, prefix: prefix, now: time.Now}
}

func (s *KVStore) key(id string) kv.Key {
	return append(slices.Clone(s.prefix), id)
}

// List orders items by numeric id.
func (s *KVStore) List(ctx context.Context, status Status) ([]Item, error) {
	items, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	return filter(items, status), nil
}

func (s *KVStore) Add(ctx context.Context, p AddParams) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.all(ctx)
	if err != nil {
		return Item{}, err
	}
	it, err := newItem(nextID(items), p, s.now())
	if err != nil {
		return Item{}, err
	}
	if err := kv.SetValue(ctx, s.store, s.key(it.ID), it); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (s *KVStore) Update(ctx context.Context, id string, p Patch) (Item, error) {
	if err := p.validate(); err != nil {
		return Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	it, err := kv.GetValue[Item](ctx, s.store, s.key(id))
	if errors.Is(err, kv.ErrNotFound) {
		return Item{}, fmt.Errorf("%w: TODO with ID %s not found", ErrNotFound, id)
	}
	if err != nil {
		return Item{}, err
	}
	p.apply(&it)
	if err := kv.SetValue(ctx, s.store, s.key(id), it); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (s *KVStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.Get(ctx, s.key(id)); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, s.store.Delete(ctx, s.key(id))
}

func (s *KVStore) all(ctx context.Context) ([]Item, error) {
	var items []Item
	for it, err := range kv.Values[Item](ctx, s.store, s.prefix) {
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	slices.SortFunc(items, func(a, b Item) int {
		x, errx := strconv.Atoi(a.ID)
		y, erry := strconv.Atoi(b.ID)
		if errx != nil || erry != nil {
			if errx == nil {
				return -1
			}
			if erry == nil {
				return 1
			}
			return cmp.Compare(a.ID, b.ID)
		}
		return cmp.Compare(x, y)
	})
	return items, nil
}

var _ Store = (*KVStore)(nil)
