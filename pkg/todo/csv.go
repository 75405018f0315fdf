package todo

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/irtiza07/public-api/pkg/storage"
)

// Header is the first row of every TODO file.
var Header = []string{"id", "name", "priority", "time_created", "time_due", "status"}

// CSVStore keeps all items in one CSV file. Every call reads the whole
// file; every mutation replaces it through storage.WriteFile.
type CSVStore struct {
	fs   storage.FileStore
	path string
	now  func() time.Time

	mu sync.Mutex
}

// NewCSVStore stores items at path inside fs. A missing file reads as
// empty and is created on the first write.
func NewCSVStore(fs storage.FileStore, path string) *CSVStore {
	return &CSVStore{fs: fs, path: path, now: time.Now}
}

func (s *CSVStore) List(ctx context.Context, status Status) ([]Item, error) {
	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return filter(items, status), nil
}

func (s *CSVStore) Add(ctx context.Context, p AddParams) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return Item{}, err
	}
	it, err := newItem(nextID(items), p, s.now())
	if err != nil {
		return Item{}, err
	}
	if err := s.save(ctx, append(items, it)); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (s *CSVStore) Update(ctx context.Context, id string, p Patch) (Item, error) {
	if err := p.validate(); err != nil {
		return Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return Item{}, err
	}
	for i := range items {
		if items[i].ID == id {
			p.apply(&items[i])
			if err := s.save(ctx, items); err != nil {
				return Item{}, err
			}
			return items[i], nil
		}
	}
	return Item{}, fmt.Errorf("%w: TODO with ID %s not found", ErrNotFound, id)
}

func (s *CSVStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	kept := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}
	return true, s.save(ctx, kept)
}

func (s *CSVStore) load(ctx context.Context) ([]Item, error) {
	data, err := storage.ReadFile(ctx, s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("todo: read %s: %w", s.path, err)
	}
	items, err := decodeCSV(data)
	if err != nil {
		return nil, fmt.Errorf("todo: parse %s: %w", s.path, err)
	}
	return items, nil
}

func (s *CSVStore) save(ctx context.Context, items []Item) error {
	data, err := encodeCSV(items)
	if err != nil {
		return err
	}
	if err := storage.WriteFile(ctx, s.fs, s.path, data); err != nil {
		return fmt.Errorf("todo: write %s: %w", s.path, err)
	}
	return nil
}

// decodeCSV maps columns by header name, so reordered or missing columns
// still load.
func decodeCSV(data []byte) ([]Item, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil || len(rows) == 0 {
		return nil, err
	}

	col := map[string]int{}
	for i, name := range rows[0] {
		col[name] = i
	}
	field := func(row []string, name string) string {
		if i, ok := col[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	items := make([]Item, 0, len(rows)-1)
	for _, row := range rows[1:] {
		items = append(items, Item{
			ID:          field(row, "id"),
			Name:        field(row, "name"),
			Priority:    Priority(field(row, "priority")),
			TimeCreated: field(row, "time_created"),
			TimeDue:     field(row, "time_due"),
			Status:      Status(field(row, "status")),
		})
	}
	return items, nil
}

func encodeCSV(items []Item) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(Header)
	for _, it := range items {
		w.Write([]string{it.ID, it.Name, string(it.Priority), it.TimeCreated, it.TimeDue, string(it.Status)})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

var _ Store = (*CSVStore)(nil)
