// Package emit delivers entity records to downstream storage. Sinks are
// append-only: emitted entities are never updated or deleted, each crawl
// run re-emits the full set.
package emit

import (
	"context"

	"github.com/opendatamd/regcrawl/internal/entity"
)

// Emitter appends entities to an output stream.
type Emitter interface {
	Emit(ctx context.Context, e *entity.Entity) error
	Close() error
}

// CountingEmitter wraps an Emitter and tracks emission counts per schema.
type CountingEmitter struct {
	next   Emitter
	counts map[entity.Schema]int
	total  int
}

// NewCounting wraps an emitter with per-schema counting.
func NewCounting(next Emitter) *CountingEmitter {
	return &CountingEmitter{
		next:   next,
		counts: make(map[entity.Schema]int),
	}
}

// Emit forwards the entity and records it in the counts.
func (c *CountingEmitter) Emit(ctx context.Context, e *entity.Entity) error {
	if err := c.next.Emit(ctx, e); err != nil {
		return err
	}
	c.counts[e.Schema]++
	c.total++
	return nil
}

// Close closes the wrapped emitter.
func (c *CountingEmitter) Close() error {
	return c.next.Close()
}

// Counts returns the number of entities emitted per schema.
func (c *CountingEmitter) Counts() map[entity.Schema]int {
	out := make(map[entity.Schema]int, len(c.counts))
	for schema, n := range c.counts {
		out[schema] = n
	}
	return out
}

// Total returns the total number of entities emitted.
func (c *CountingEmitter) Total() int {
	return c.total
}
