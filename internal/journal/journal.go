// Package journal records navigation activity into the event store.
//
// A Writer owns one session. Records are buffered on a channel and a flush
// goroutine commits them in batches, every BatchSize records or every
// FlushInterval, whichever comes first. When the buffer is full a record is
// inserted directly so nothing is dropped silently.
package journal

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/Mr-Dark-debug/wayfinder/internal/database"
	"github.com/Mr-Dark-debug/wayfinder/pkg/timeutil"
)

// ErrClosed is returned when recording into a closed Writer.
var ErrClosed = errors.New("journal: writer closed")

// Store is the part of database.Store the journal writes to.
type Store interface {
	StartSession(sess *database.Session) error
	EndSession(sessionID, status string) error
	InsertEvent(ev *database.NavEvent) error
	BatchInsertEvents(events []*database.NavEvent) error
}

// Config tunes batching.
type Config struct {
	BatchSize     int
	FlushInterval time.Duration
}

// DefaultConfig returns the batching used when nothing is configured.
func DefaultConfig() Config {
	return Config{BatchSize: 50, FlushInterval: 500 * time.Millisecond}
}

// Metrics tracks journal throughput.
type Metrics struct {
	Recorded int64 `json:"recorded"`
	Written  int64 `json:"written"`
	Direct   int64 `json:"direct"`
	Batches  int64 `json:"batches"`
	Errors   int64 `json:"errors"`
}

// Writer journals the events of one session.
type Writer struct {
	store   Store
	config  Config
	logger  zerolog.Logger
	session string

	seq      *atomic.Int64
	recorded *atomic.Int64
	written  *atomic.Int64
	direct   *atomic.Int64
	batches  *atomic.Int64
	errs     *atomic.Int64

	ch     chan *database.NavEvent
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// Open starts a new session for host and the goroutine flushing its records.
func Open(store Store, host string, config Config, logger zerolog.Logger) (*Writer, error) {
	def := DefaultConfig()
	if config.BatchSize <= 0 {
		config.BatchSize = def.BatchSize
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = def.FlushInterval
	}

	w := &Writer{
		store:    store,
		config:   config,
		logger:   logger,
		session:  uuid.NewString(),
		seq:      atomic.NewInt64(0),
		recorded: atomic.NewInt64(0),
		written:  atomic.NewInt64(0),
		direct:   atomic.NewInt64(0),
		batches:  atomic.NewInt64(0),
		errs:     atomic.NewInt64(0),
		ch:       make(chan *database.NavEvent, config.BatchSize*2),
	}

	sess := &database.Session{
		SessionID: w.session,
		Host:      host,
		StartedAt: timeutil.NowNano(),
		Status:    database.SessionRunning,
	}
	if err := store.StartSession(sess); err != nil {
		return nil, fmt.Errorf("starting journal session: %w", err)
	}

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Debug().Str("session", w.session).Msg("journal opened")
	return w, nil
}

// SessionID returns the session the writer records into.
func (w *Writer) SessionID() string {
	return w.session
}

// Record stamps ev with an id, the session, a sequence number and, when
// unset, the current time, then queues it.
func (w *Writer) Record(ev *database.NavEvent) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return ErrClosed
	}

	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	ev.SessionID = w.session
	ev.Seq = w.seq.Inc()
	if ev.Timestamp == 0 {
		ev.Timestamp = timeutil.NowNano()
	}
	w.recorded.Inc()

	select {
	case w.ch <- ev:
		return nil
	default:
		// Buffer full: insert directly to avoid data loss
		if err := w.store.InsertEvent(ev); err != nil {
			w.errs.Inc()
			return fmt.Errorf("direct event insert: %w", err)
		}
		w.direct.Inc()
		w.written.Inc()
		return nil
	}
}

// Metrics returns a snapshot of the counters.
func (w *Writer) Metrics() Metrics {
	return Metrics{
		Recorded: w.recorded.Load(),
		Written:  w.written.Load(),
		Direct:   w.direct.Load(),
		Batches:  w.batches.Load(),
		Errors:   w.errs.Load(),
	}
}

// Close flushes pending records and ends the session with status. Later
// calls do nothing.
func (w *Writer) Close(status string) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.ch)
	w.mu.Unlock()

	w.wg.Wait()
	if err := w.store.EndSession(w.session, status); err != nil {
		return fmt.Errorf("ending journal session: %w", err)
	}
	w.logger.Debug().Str("session", w.session).Interface("metrics", w.Metrics()).Msg("journal closed")
	return nil
}

// flushLoop commits buffered records when BatchSize accumulate or
// FlushInterval elapses.
func (w *Writer) flushLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.FlushInterval)
	defer ticker.Stop()

	buf := make([]*database.NavEvent, 0, w.config.BatchSize)
	flush := func() {
		if len(buf) == 0 {
			return
		}
		if err := w.store.BatchInsertEvents(buf); err != nil {
			w.logger.Error().Err(err).Int("records", len(buf)).Msg("flushing journal batch")
			w.errs.Inc()
		} else {
			w.batches.Inc()
			w.written.Add(int64(len(buf)))
		}
		buf = buf[:0]
	}

	for {
		select {
		case ev, ok := <-w.ch:
			if !ok {
				flush()
				return
			}
			buf = append(buf, ev)
			if len(buf) >= w.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
