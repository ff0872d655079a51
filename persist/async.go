package persist

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// asyncQueueSize is the number of records that may be waiting for the
// transport before new records are dropped.
const asyncQueueSize = 1024

type (
	// asyncCore hands records to a single writer goroutine so that logging
	// never blocks the caller on transport I/O. Records reach the transport
	// in the order they were logged.
	asyncCore struct {
		inner zapcore.Core
		q     *asyncQueue
	}

	// asyncQueue is shared by an asyncCore and every core derived from it
	// with With.
	asyncQueue struct {
		ch      chan asyncRecord
		done    chan struct{}
		dropped uint64

		mu     sync.RWMutex
		closed bool

		// root receives the overflow report when the queue is closed.
		root zapcore.Core
	}

	// asyncRecord is either a record to write or, when flushed is non-nil, a
	// sync barrier.
	asyncRecord struct {
		core    zapcore.Core
		entry   zapcore.Entry
		fields  []zapcore.Field
		flushed chan struct{}
	}
)

// newAsyncCore starts the writer goroutine for inner.
func newAsyncCore(inner zapcore.Core) *asyncCore {
	q := &asyncQueue{
		ch:   make(chan asyncRecord, asyncQueueSize),
		done: make(chan struct{}),
		root: inner,
	}
	go q.drain()
	return &asyncCore{inner: inner, q: q}
}

// drain writes queued records until the queue is closed.
func (q *asyncQueue) drain() {
	defer close(q.done)
	for r := range q.ch {
		if r.flushed != nil {
			_ = q.root.Sync()
			close(r.flushed)
			continue
		}
		_ = r.core.Write(r.entry, r.fields)
	}
	if n := atomic.LoadUint64(&q.dropped); n > 0 {
		_ = q.root.Write(zapcore.Entry{
			Level:   zapcore.WarnLevel,
			Message: "log queue overflowed, records dropped",
		}, []zapcore.Field{zap.Uint64("dropped", n)})
	}
	_ = q.root.Sync()
}

// push queues r, dropping it if the queue is full or closed.
func (q *asyncQueue) push(r asyncRecord) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return
	}
	select {
	case q.ch <- r:
	default:
		atomic.AddUint64(&q.dropped, 1)
	}
}

// flush blocks until every record queued before the call has been written.
func (q *asyncQueue) flush() {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return
	}
	flushed := make(chan struct{})
	q.ch <- asyncRecord{flushed: flushed}
	q.mu.RUnlock()
	<-flushed
}

// close stops accepting records and waits for the queue to drain. Calling
// close more than once is a no-op.
func (q *asyncQueue) close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()
	<-q.done
}

// Enabled implements zapcore.LevelEnabler. Records below the transport's
// level are rejected here, before they are queued.
func (c *asyncCore) Enabled(lvl zapcore.Level) bool {
	return c.inner.Enabled(lvl)
}

// With implements zapcore.Core.
func (c *asyncCore) With(fields []zapcore.Field) zapcore.Core {
	return &asyncCore{inner: c.inner.With(fields), q: c.q}
}

// Check implements zapcore.Core.
func (c *asyncCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write implements zapcore.Core.
func (c *asyncCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	fs := make([]zapcore.Field, len(fields))
	copy(fs, fields)
	c.q.push(asyncRecord{core: c.inner, entry: ent, fields: fs})
	return nil
}

// Sync implements zapcore.Core.
func (c *asyncCore) Sync() error {
	c.q.flush()
	return nil
}
