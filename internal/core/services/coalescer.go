package services

import (
	"context"
	"sync"
)

// Coalescer merges overlapping triggers for the same key. At most one pass
// runs per key; triggers that arrive while a pass is running schedule
// exactly one follow-up pass, however many there were.
type Coalescer struct {
	ctx context.Context
	fn  func(ctx context.Context, key string)

	mu    sync.Mutex
	state map[string]*passState
	wg    sync.WaitGroup
}

type passState struct {
	pending bool
}

// NewCoalescer creates a coalescer that runs fn for each pass.
// Passes stop being started once ctx is cancelled.
func NewCoalescer(ctx context.Context, fn func(ctx context.Context, key string)) *Coalescer {
	return &Coalescer{
		ctx:   ctx,
		fn:    fn,
		state: make(map[string]*passState),
	}
}

// Trigger requests a pass for key. It never blocks. It returns true when a
// new pass was started and false when the trigger was merged into a
// running one.
func (c *Coalescer) Trigger(key string) bool {
	if c.ctx.Err() != nil {
		return false
	}

	c.mu.Lock()
	if st, running := c.state[key]; running {
		st.pending = true
		c.mu.Unlock()
		return false
	}
	c.state[key] = &passState{}
	c.wg.Add(1)
	c.mu.Unlock()

	go c.loop(key)
	return true
}

func (c *Coalescer) loop(key string) {
	defer c.wg.Done()
	for {
		c.fn(c.ctx, key)

		c.mu.Lock()
		st := c.state[key]
		if !st.pending || c.ctx.Err() != nil {
			delete(c.state, key)
			c.mu.Unlock()
			return
		}
		st.pending = false
		c.mu.Unlock()
	}
}

// Wait blocks until every started pass has finished.
func (c *Coalescer) Wait() {
	c.wg.Wait()
}
