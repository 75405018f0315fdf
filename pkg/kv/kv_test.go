package kv_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/irtiza07/public-api/pkg/kv"
)

func backends(t *testing.T) map[string]kv.Store {
	t.Helper()
	b, err := kv.NewBadger(kv.BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	stores := map[string]kv.Store{
		"memory": kv.NewMemory(nil),
		"badger": b,
	}
	for _, s := range stores {
		t.Cleanup(func() { s.Close() })
	}
	return stores
}

func TestGetSetDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			key := kv.Key{"todo", "items", "1"}

			if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
				t.Fatalf("Get missing: err = %v, want ErrNotFound", err)
			}
			if err := s.Set(ctx, key, []byte("a")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := s.Set(ctx, key, []byte("b")); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			got, err := s.Get(ctx, key)
			if err != nil || string(got) != "b" {
				t.Fatalf("Get = %q, %v; want \"b\"", got, err)
			}
			if err := s.Delete(ctx, key); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Get(ctx, key); !errors.Is(err, kv.ErrNotFound) {
				t.Fatalf("Get after delete: err = %v", err)
			}
			if err := s.Delete(ctx, kv.Key{"nope"}); err != nil {
				t.Fatalf("Delete missing: %v", err)
			}
		})
	}
}

func TestListPrefix(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.BatchSet(ctx, []kv.Entry{
				{Key: kv.Key{"a", "b", "2"}, Value: []byte("2")},
				{Key: kv.Key{"a", "b", "1"}, Value: []byte("1")},
				{Key: kv.Key{"a", "bc", "3"}, Value: []byte("3")},
				{Key: kv.Key{"z"}, Value: []byte("z")},
			})
			if err != nil {
				t.Fatalf("BatchSet: %v", err)
			}

			var keys []string
			for e, err := range s.List(ctx, kv.Key{"a", "b"}) {
				if err != nil {
					t.Fatalf("List: %v", err)
				}
				keys = append(keys, e.Key.String())
			}
			want := []string{"a:b:1", "a:b:2"}
			if !slices.Equal(keys, want) {
				t.Fatalf("List = %v, want %v", keys, want)
			}

			n := 0
			for range s.List(ctx, nil) {
				n++
			}
			if n != 4 {
				t.Fatalf("List(nil) yielded %d entries, want 4", n)
			}
		})
	}
}

func TestListEarlyStop(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"1", "2", "3"} {
				if err := s.Set(ctx, kv.Key{"x", id}, []byte(id)); err != nil {
					t.Fatal(err)
				}
			}
			n := 0
			for _, err := range s.List(ctx, kv.Key{"x"}) {
				if err != nil {
					t.Fatal(err)
				}
				n++
				break
			}
			if n != 1 {
				t.Fatalf("iterated %d entries after break", n)
			}
		})
	}
}

type note struct {
	Question string
	Answer   string
}

func TestTypedValues(t *testing.T) {
	ctx := context.Background()
	s := kv.NewMemory(&kv.Options{Separator: '/'})

	in := note{Question: "q", Answer: "a"}
	if err := kv.SetValue(ctx, s, kv.Key{"notes", "1"}, in); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	out, err := kv.GetValue[note](ctx, s, kv.Key{"notes", "1"})
	if err != nil || out != in {
		t.Fatalf("GetValue = %+v, %v", out, err)
	}
	if _, err := kv.GetValue[note](ctx, s, kv.Key{"notes", "2"}); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("GetValue missing: %v", err)
	}

	if err := s.Set(ctx, kv.Key{"notes", "2"}, []byte{0xc1}); err != nil {
		t.Fatal(err)
	}
	var good, bad int
	for _, err := range kv.Values[note](ctx, s, kv.Key{"notes"}) {
		if err != nil {
			bad++
		} else {
			good++
		}
	}
	if good != 1 || bad != 1 {
		t.Fatalf("Values good=%d bad=%d, want 1/1", good, bad)
	}
}
