package testhelpers

import (
	"context"

	"github.com/opendatamd/regcrawl/internal/entity"
)

// CaptureEmitter collects emitted entities for assertions in tests.
type CaptureEmitter struct {
	Entities []*entity.Entity
}

// NewCaptureEmitter creates a CaptureEmitter.
func NewCaptureEmitter() *CaptureEmitter {
	return &CaptureEmitter{}
}

// Emit records the entity.
func (c *CaptureEmitter) Emit(_ context.Context, e *entity.Entity) error {
	c.Entities = append(c.Entities, e)
	return nil
}

// Close is a no-op.
func (c *CaptureEmitter) Close() error { return nil }

// BySchema returns all captured entities of the given schema, in
// emission order.
func (c *CaptureEmitter) BySchema(schema entity.Schema) []*entity.Entity {
	var out []*entity.Entity
	for _, e := range c.Entities {
		if e.Schema == schema {
			out = append(out, e)
		}
	}
	return out
}
