package resource

import (
	"context"
	"io"
)

// Throttle returns r paced by the read limit of c. Without a limit r is
// returned unchanged.
func (c *Controller) Throttle(ctx context.Context, r io.Reader) io.Reader {
	if c.ReadBurst() == 0 {
		return r
	}
	return &throttledReader{ctx: ctx, r: r, c: c}
}

type throttledReader struct {
	ctx context.Context
	r   io.Reader
	c   *Controller
}

func (t *throttledReader) Read(p []byte) (int, error) {
	// Tokens are taken for the whole request up front.
	if burst := t.c.ReadBurst(); len(p) > burst {
		p = p[:burst]
	}
	if err := t.c.WaitRead(t.ctx, len(p)); err != nil {
		return 0, err
	}
	return t.r.Read(p)
}
