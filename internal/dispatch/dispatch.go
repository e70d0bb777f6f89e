// Package dispatch fans batches of questions into the lifecycle pipeline.
// The HTTP handler that saves a batch calls Dispatch and returns
// immediately; analysis proceeds in the background.
package dispatch

import (
	"context"
	"log"
	"sync"

	"github.com/rizfan/soalku/internal/store"
)

// batchSize bounds concurrent analyzer calls. Questions are processed in
// order-preserving groups of this size, each group settling fully before
// the next starts. The sequential group-to-group progression is deliberate
// backpressure on the external analyzer, not a performance choice.
const batchSize = 3

// Processor runs the pipeline for a single question.
type Processor interface {
	Process(ctx context.Context, ref store.QuestionRef) error
}

// Dispatcher fans question batches into a Processor.
type Dispatcher struct {
	processor Processor
}

// New creates a Dispatcher.
func New(p Processor) *Dispatcher {
	return &Dispatcher{processor: p}
}

// Dispatch starts background processing of the questions and returns
// immediately. The work runs on a fresh context: the caller's request
// context dies as soon as its response is written.
func (d *Dispatcher) Dispatch(refs []store.QuestionRef) {
	if len(refs) == 0 {
		return
	}
	go d.Run(context.Background(), refs)
}

// Run processes the questions, blocking until every one finished. Items
// within a group run concurrently; one item failing never cancels its
// siblings. Per-question failures are logged and absorbed.
func (d *Dispatcher) Run(ctx context.Context, refs []store.QuestionRef) {
	for start := 0; start < len(refs); start += batchSize {
		if ctx.Err() != nil {
			log.Printf("warning: dispatch canceled with %d questions unprocessed", len(refs)-start)
			return
		}

		end := start + batchSize
		if end > len(refs) {
			end = len(refs)
		}

		var wg sync.WaitGroup
		for _, ref := range refs[start:end] {
			wg.Add(1)
			go func(ref store.QuestionRef) {
				defer wg.Done()
				if err := d.processor.Process(ctx, ref); err != nil {
					log.Printf("warning: processing %s/%s failed: %v", ref.Source, ref.ID, err)
				}
			}(ref)
		}
		wg.Wait()
	}
}
