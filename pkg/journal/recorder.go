package journal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayazhafiz/hotreload/pkg/reload"
)

// RecorderConfig contains configuration for the journal recorder.
type RecorderConfig struct {
	// Buffer is the size of the async write channel.
	// Default: 256
	Buffer int

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultRecorderConfig returns the default recorder configuration.
func DefaultRecorderConfig() *RecorderConfig {
	return &RecorderConfig{
		Buffer:       256,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder journals reload attempts asynchronously. Record is called from the
// controller's event hook on the poll goroutine, so it never blocks: records
// are enqueued on a buffered channel and a background worker writes them to
// storage. When the queue is full the record is dropped and Record reports
// it, so the caller can count drops.
type Recorder struct {
	storage    Storage
	config     *RecorderConfig
	recordChan chan *Record
	flushChan  chan chan struct{}
	wg         sync.WaitGroup
	done       chan struct{}
	closeOnce  sync.Once
	logger     *slog.Logger
}

// NewRecorder creates a new journal recorder with the provided storage
// backend and configuration, and starts its write worker.
func NewRecorder(storage Storage, config *RecorderConfig) *Recorder {
	if config == nil {
		config = DefaultRecorderConfig()
	}
	if config.Buffer <= 0 {
		config.Buffer = DefaultRecorderConfig().Buffer
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultRecorderConfig().WriteTimeout
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *Record, config.Buffer),
		flushChan:  make(chan chan struct{}),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "journal.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("journal recorder initialized",
		"buffer", config.Buffer,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Record converts a reload event into a journal record and enqueues it for
// asynchronous writing. It returns false when the record was dropped because
// the queue is full or the recorder is closed.
func (r *Recorder) Record(ev reload.Event) bool {
	rec := newRecord(ev)

	select {
	case <-r.done:
		return false
	default:
	}

	select {
	case r.recordChan <- rec:
		return true
	default:
		r.logger.Warn("journal queue full, dropping record",
			"record_id", rec.ID,
			"outcome", rec.Outcome,
			"queue_capacity", cap(r.recordChan),
		)
		return false
	}
}

// Depth returns the number of records waiting to be written. It is safe to
// call from any goroutine and backs the journal queue-depth gauge.
func (r *Recorder) Depth() int {
	return len(r.recordChan)
}

// Flush blocks until every record enqueued before the call has been written
// to storage. Records enqueued concurrently with Flush may or may not be
// included.
func (r *Recorder) Flush(ctx context.Context) error {
	ack := make(chan struct{})

	select {
	case r.flushChan <- ack:
	case <-r.done:
		// Close drains the queue itself
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close gracefully shuts down the recorder by draining the queue and waiting
// for all pending writes to complete. It does not close the storage backend.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.logger.Info("shutting down journal recorder")

		close(r.done)
		r.wg.Wait()

		r.logger.Info("journal recorder shut down", "dropped_after_close", len(r.recordChan))
	})
	return nil
}

// worker drains the record channel and writes records to storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case ack := <-r.flushChan:
			r.drain()
			close(ack)

		case <-r.done:
			r.drain()
			return
		}
	}
}

// drain writes queued records until the channel is empty.
func (r *Recorder) drain() {
	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)
		default:
			return
		}
	}
}

// writeRecord writes a single journal record to storage.
func (r *Recorder) writeRecord(record *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()

	if err := r.storage.SaveRecord(ctx, record); err != nil {
		r.logger.Error("failed to store journal record",
			"record_id", record.ID,
			"outcome", record.Outcome,
			"error", err,
		)
		return
	}

	duration := time.Since(start)

	r.logger.Debug("reload attempt journaled",
		"record_id", record.ID,
		"outcome", record.Outcome,
		"generation", record.Generation,
	)

	if duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow journal write",
			"record_id", record.ID,
			"duration_ms", duration.Milliseconds(),
			"threshold_ms", (r.config.WriteTimeout / 2).Milliseconds(),
		)
	}
}

// newRecord builds a journal record from a reload event.
func newRecord(ev reload.Event) *Record {
	rec := &Record{
		ID:            uuid.New().String(),
		Timestamp:     time.Now(),
		Outcome:       string(ev.Outcome),
		Symbol:        ev.Symbol,
		ArtifactPath:  ev.ArtifactPath,
		ArtifactMtime: ev.ArtifactMtime,
		Generation:    ev.Generation,
		Duration:      ev.Duration,
	}
	if ev.Err != nil {
		rec.Error = ev.Err.Error()
	}
	return rec
}
