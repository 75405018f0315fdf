// Package todo stores TODO items, either as a CSV file on a
// storage.FileStore or as msgpack records in a kv.Store.
//
// Both backends assign ids the same way: one more than the largest numeric
// id currently stored. Deleting the highest item therefore frees its id for
// the next Add. Writers inside one process are serialised; separate
// processes sharing a file are not coordinated.
package todo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"
)

var (
	ErrNotFound = errors.New("todo: not found")
	ErrInvalid  = errors.New("todo: invalid value")
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Item is one TODO. Ids are decimal strings.
type Item struct {
	ID          string   `json:"id" msgpack:"id"`
	Name        string   `json:"name" msgpack:"name"`
	Priority    Priority `json:"priority" msgpack:"priority"`
	TimeCreated string   `json:"time_created" msgpack:"time_created"`
	TimeDue     string   `json:"time_due" msgpack:"time_due"`
	Status      Status   `json:"status" msgpack:"status"`
}

// AddParams describes a new item. Zero Priority and Status mean medium and
// pending.
type AddParams struct {
	Name     string
	Priority Priority
	TimeDue  string
	Status   Status
}

// Patch lists the fields to change; nil fields are left alone.
type Patch struct {
	Name     *string
	Priority *Priority
	TimeDue  *string
	Status   *Status
}

// Store is implemented by CSVStore and KVStore.
type Store interface {
	// List returns all items, or only those with the given status when it
	// is non-empty.
	List(ctx context.Context, status Status) ([]Item, error)
	Add(ctx context.Context, p AddParams) (Item, error)
	// Update returns ErrNotFound for unknown ids.
	Update(ctx context.Context, id string, p Patch) (Item, error)
	// Delete reports whether the item existed.
	Delete(ctx context.Context, id string) (bool, error)
}

func (p Priority) valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

func (s Status) valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// ParsePriority validates s.
func ParsePriority(s string) (Priority, error) {
	if p := Priority(s); p.valid() {
		return p, nil
	}
	return "", fmt.Errorf("%w: priority %q (want low, medium or high)", ErrInvalid, s)
}

// ParseStatus validates s.
func ParseStatus(s string) (Status, error) {
	if st := Status(s); st.valid() {
		return st, nil
	}
	return "", fmt.Errorf("%w: status %q (want pending or completed)", ErrInvalid, s)
}

// newItem validates p and fills in defaults.
func newItem(id string, p AddParams, now time.Time) (Item, error) {
	if p.Name == "" {
		return Item{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if p.Priority == "" {
		p.Priority = PriorityMedium
	}
	if p.Status == "" {
		p.Status = StatusPending
	}
	if _, err := ParsePriority(string(p.Priority)); err != nil {
		return Item{}, err
	}
	if _, err := ParseStatus(string(p.Status)); err != nil {
		return Item{}, err
	}
	return Item{
		ID:          id,
		Name:        p.Name,
		Priority:    p.Priority,
		TimeCreated: now.Format(time.RFC3339),
		TimeDue:     p.TimeDue,
		Status:      p.Status,
	}, nil
}

func (p Patch) validate() error {
	if p.Name != nil && *p.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalid)
	}
	if p.Priority != nil && !p.Priority.valid() {
		return fmt.Errorf("%w: priority %q", ErrInvalid, *p.Priority)
	}
	if p.Status != nil && !p.Status.valid() {
		return fmt.Errorf("%w: status %q", ErrInvalid, *p.Status)
	}
	return nil
}

func (p Patch) apply(it *Item) {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Priority != nil {
		it.Priority = *p.Priority
	}
	if p.TimeDue != nil {
		it.TimeDue = *p.TimeDue
	}
	if p.Status != nil {
		it.Status = *p.Status
	}
}

// nextID is max(numeric ids)+1; ids that do not parse are ignored.
func nextID(items []Item) string {
	highest := 0
	for _, it := range items {
		if n, err := strconv.Atoi(it.ID); err == nil && n > highest {
			highest = n
		}
	}
	return strconv.Itoa(highest + 1)
}

func filter(items []Item, status Status) []Item {
	if status == "" {
		return items
	}
	return slices.DeleteFunc(items, func(it Item) bool { return it.Status != status })
}
