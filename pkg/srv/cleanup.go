package srv

import (
	"context"
	"errors"
	"io"
)

// closer turns resources without a start phase, such as the database pool,
// into a Service. Shutdown closes them last-in first-out.
type closer struct {
	closers []io.Closer
}

func NewCloser(closers ...io.Closer) Service {
	return &closer{closers: closers}
}

func (c *closer) Start(ctx context.Context) error {
	return nil
}

func (c *closer) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
