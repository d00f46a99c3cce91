package events

import (
	"context"
	"errors"
)

// Multi publishes to every wrapped publisher and joins their errors.
type Multi []Publisher

func (m Multi) PublishRun(ctx context.Context, run RunSummary) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishRun(ctx, run); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() {
	for _, p := range m {
		p.Close()
	}
}
