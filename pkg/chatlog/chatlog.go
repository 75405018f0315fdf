// Package chatlog keeps question/answer history per conversation.
//
// Entries live in a kv.Store under {"conversation", <id>, <seq>}, so the raw
// key of a conversation is "conversation:<id>". Recorder decouples writes
// from the chat loop the way a queue consumer would.
package chatlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/irtiza07/public-api/pkg/kv"
)

const keyPrefix = "conversation"

// Entry is one exchange.
type Entry struct {
	Question string    `msgpack:"question" json:"question"`
	Answer   string    `msgpack:"answer" json:"answer"`
	Time     time.Time `msgpack:"time" json:"time"`
}

// NewConversationID returns a fresh random id.
func NewConversationID() string { return uuid.NewString() }

// Log stores entries in a kv.Store.
type Log struct {
	store kv.Store

	mu   sync.Mutex
	next map[string]int
}

func New(store kv.Store) *Log {
	return &Log{store: store, next: make(map[string]int)}
}

func conversationKey(id string) kv.Key { return kv.Key{keyPrefix, id} }

// Append adds e to the end of conversation id.
func (l *Log) Append(ctx context.Context, id string, e Entry) error {
	if id == "" {
		return errors.New("chatlog: empty conversation id")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	seq, ok := l.next[id]
	if !ok {
		n, err := l.count(ctx, id)
		if err != nil {
			return err
		}
		seq = n
	}
	// Zero padding keeps lexicographic order equal to append order.
	key := append(conversationKey(id), fmt.Sprintf("%08d", seq))
	if err := kv.SetValue(ctx, l.store, key, e); err != nil {
		return fmt.Errorf("chatlog: append: %w", err)
	}
	l.next[id] = seq + 1
	return nil
}

func (l *Log) count(ctx context.Context, id string) (int, error) {
	n := 0
	for _, err := range l.store.List(ctx, conversationKey(id)) {
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

// History returns the entries of conversation id, oldest first.
func (l *Log) History(ctx context.Context, id string) ([]Entry, error) {
	var out []Entry
	for e, err := range kv.Values[Entry](ctx, l.store, conversationKey(id)) {
		if err != nil {
			return nil, fmt.Errorf("chatlog: history: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Conversations lists the ids that have at least one entry.
func (l *Log) Conversations(ctx context.Context) ([]string, error) {
	var ids []string
	for e, err := range l.store.List(ctx, kv.Key{keyPrefix}) {
		if err != nil {
			return nil, err
		}
		if len(e.Key) < 3 {
			continue
		}
		if id := e.Key[1]; len(ids) == 0 || ids[len(ids)-1] != id {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Record is a queued write.
type Record struct {
	ConversationID string
	Entry          Entry
}

// Recorder writes Records to a Log from a background goroutine. Records
// that fail to store are logged and dropped.
type Recorder struct {
	log *Log
	ch  chan Record

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewRecorder starts the writer goroutine. buffer bounds the queue.
func NewRecorder(log *Log, buffer int) *Recorder {
	r := &Recorder{log: log, ch: make(chan Record, buffer)}
	r.wg.Add(1)
	go r.run()
	return r
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for rec := range r.ch {
		if err := r.log.Append(context.Background(), rec.ConversationID, rec.Entry); err != nil {
			slog.Error("chatlog: store entry", "conversation", rec.ConversationID, "error", err)
			continue
		}
		slog.Debug("chatlog: stored entry", "key", keyPrefix+":"+rec.ConversationID)
	}
}

// Record queues rec, blocking while the queue is full or until ctx ends.
func (r *Recorder) Record(ctx context.Context, rec Record) error {
	select {
	case r.ch <- rec:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting records and waits until the queue is drained.
// Record must not be called after Close.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		close(r.ch)
		r.wg.Wait()
	})
}
