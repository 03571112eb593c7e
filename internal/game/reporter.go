package game

import (
	"context"
	"log"
	"sync"
	"time"

	"mindbridge/internal/models"
)

// ResultSink persists completed quiz results
type ResultSink interface {
	SaveResult(ctx context.Context, rec models.ResultRecord) (string, error)
}

// Reporter hands result records to a sink in the background. Failures are
// logged and dropped. After Close, new records are refused.
type Reporter struct {
	sink    ResultSink
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewReporter creates a reporter; timeout bounds each write
func NewReporter(sink ResultSink, timeout time.Duration) *Reporter {
	return &Reporter{sink: sink, timeout: timeout}
}

// Report starts an asynchronous write of rec
func (r *Reporter) Report(rec models.ResultRecord) {
	if r == nil || r.sink == nil {
		return
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		log.Printf("Dropped %s result for %s: reporter closed", rec.GameName, rec.ParticipantEmail)
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()

		ctx := context.Background()
		if r.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}

		id, err := r.sink.SaveResult(ctx, rec)
		if err != nil {
			log.Printf("Error saving %s result for %s: %v", rec.GameName, rec.ParticipantEmail, err)
			return
		}
		log.Printf("Saved %s result %s (score %d, %ds)", rec.GameName, id, rec.Score, rec.TimeTaken)
	}()
}

// Wait blocks until every in-flight write has finished
func (r *Reporter) Wait() {
	if r == nil {
		return
	}
	r.wg.Wait()
}

// Close refuses further reports and waits for in-flight writes, so the
// sink can be closed safely afterwards
func (r *Reporter) Close() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.wg.Wait()
}
