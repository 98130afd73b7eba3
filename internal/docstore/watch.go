package docstore

import (
	"context"
	"sync"
	"time"
)

// Snapshot is the full result of a subscribed query at one point in time.
type Snapshot struct {
	Docs     []Doc
	Err      error
	ReadTime time.Time
}

// Unsubscribe stops a subscription. It is safe to call more than once.
type Unsubscribe func()

type watcher struct {
	query  Query
	fn     func(Snapshot)
	wake   chan struct{}
	done   chan struct{}
	closer sync.Once
}

// OnSnapshot delivers the current result of the query to fn, and again
// after every committed batch that touches the query's collection.
//
// fn runs on a goroutine owned by the subscription, never concurrently
// with itself. Bursts of commits are coalesced, so fn always sees the
// latest state but not necessarily every intermediate one.
func (q Query) OnSnapshot(fn func(Snapshot)) Unsubscribe {
	w := &watcher{
		query: q,
		fn:    fn,
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	s := q.store
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return func() {}
	}
	s.watchers[w] = struct{}{}
	s.mu.Unlock()

	w.wake <- struct{}{}
	go w.loop()

	return func() {
		s.mu.Lock()
		delete(s.watchers, w)
		s.mu.Unlock()
		w.stop()
	}
}

func (w *watcher) stop() {
	w.closer.Do(func() { close(w.done) })
}

func (w *watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case <-w.wake:
		}
		// A stop racing with a wake-up wins.
		select {
		case <-w.done:
			return
		default:
		}

		docs, err := w.query.Get(context.Background())
		if err != nil {
			w.query.store.logger.Error("docstore snapshot failed",
				"collection", w.query.collection, "error", err)
		}
		w.fn(Snapshot{Docs: docs, Err: err, ReadTime: w.query.store.now()})
	}
}

// notify wakes every watcher whose collection was written.
func (s *Store) notify(touched map[string]bool) {
	s.mu.Lock()
	var hits []*watcher
	for w := range s.watchers {
		if touched[w.query.collection] {
			hits = append(hits, w)
		}
	}
	s.mu.Unlock()

	for _, w := range hits {
		select {
		case w.wake <- struct{}{}:
		default:
		}
	}
}
