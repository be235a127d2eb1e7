// Package parser runs extractions off the caller's goroutine and tags each
// request with a sequence id so that only the newest answer is applied.
package parser

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/yiblet/lifesaver/internal/extract"
)

// Request asks for one extraction.
type Request struct {
	SequenceID uint64
	Text       string
	MaxChars   int
}

// Response carries the result of a Request, echoing its SequenceID.
type Response struct {
	SequenceID uint64
	Result     extract.Result
	Elapsed    time.Duration
}

// ElapsedMilliseconds returns the scan time rounded to whole milliseconds.
func (r Response) ElapsedMilliseconds() int64 {
	return r.Elapsed.Round(time.Millisecond).Milliseconds()
}

// Run executes req synchronously and measures it.
func Run(req Request) Response {
	start := time.Now()
	res := extract.Extract(req.Text, req.MaxChars)
	return Response{
		SequenceID: req.SequenceID,
		Result:     res,
		Elapsed:    time.Since(start),
	}
}

// Sequencer hands out increasing request ids and tells whether a response
// still belongs to the latest request.
type Sequencer struct {
	last atomic.Uint64
}

// Next issues a new id. Ids start at 1.
func (s *Sequencer) Next() uint64 {
	return s.last.Add(1)
}

// Latest returns the most recently issued id, 0 if none.
func (s *Sequencer) Latest() uint64 {
	return s.last.Load()
}

// IsLatest reports whether id is the most recently issued one.
func (s *Sequencer) IsLatest(id uint64) bool {
	return id != 0 && id == s.last.Load()
}

// Worker serves requests one at a time on a dedicated goroutine. Scans are
// never interrupted; a caller that has moved on drops the stale Response.
type Worker struct {
	requests  chan Request
	responses chan Response
	done      chan struct{}
	closeOnce sync.Once
}

// NewWorker starts a worker. buffer sizes the response channel.
func NewWorker(buffer int) *Worker {
	if buffer < 1 {
		buffer = 1
	}
	w := &Worker{
		requests:  make(chan Request, buffer),
		responses: make(chan Response, buffer),
		done:      make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *Worker) loop() {
	defer close(w.responses)
	for {
		select {
		case <-w.done:
			return
		case req := <-w.requests:
			resp := Run(req)
			select {
			case w.responses <- resp:
			case <-w.done:
				return
			}
		}
	}
}

// Submit queues req without blocking. When the queue is full the oldest
// pending request is dropped: it can only produce a stale response. Submit
// is meant to be called from a single goroutine. It returns false once the
// worker is closed.
func (w *Worker) Submit(req Request) bool {
	for {
		select {
		case <-w.done:
			return false
		default:
		}

		select {
		case w.requests <- req:
			return true
		default:
		}

		select {
		case <-w.requests:
		default:
		}
	}
}

// Responses delivers results in completion order. The channel is closed
// after Close.
func (w *Worker) Responses() <-chan Response {
	return w.responses
}

// Close stops the worker after the scan in progress, if any.
func (w *Worker) Close() {
	w.closeOnce.Do(func() {
		close(w.done)
	})
}
