package restaurant

import (
	"sync"
	"time"
)

// Reservation is one confirmed booking.
type Reservation struct {
	ID         int       `json:"id"`
	PartyName  string    `json:"name"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	PartySize  int       `json:"party_size"`
	CreatedAt  time.Time `json:"created_at"`
	ExtraNotes string    `json:"extra_notes,omitempty"`
}

// Book is an append-only reservation list. Ids start at 1 and strictly
// increase, also under concurrent Add calls.
type Book struct {
	mu    sync.Mutex
	items []Reservation
	now   func() time.Time
}

func NewBook() *Book {
	return &Book{now: time.Now}
}

// Add assigns the next id to r and appends it.
func (b *Book) Add(r Reservation) Reservation {
	b.mu.Lock()
	defer b.mu.Unlock()
	r.ID = len(b.items) + 1
	r.CreatedAt = b.now()
	b.items = append(b.items, r)
	return r
}

// List returns a snapshot in booking order.
func (b *Book) List() []Reservation {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Reservation(nil), b.items...)
}
