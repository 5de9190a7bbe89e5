package publish

import (
	"context"
	"errors"

	"github.com/efreitasn/ccasswatch/internal/domain"
)

// Publisher publishes domain events.
type Publisher interface {
	PublishTransactions(ctx context.Context, event domain.TransactionsEvent) error
	Close() error
}

// Multi fans an event out to several publishers. Every publisher is tried;
// the errors of those that fail are joined.
type Multi []Publisher

// PublishTransactions implements Publisher.
func (m Multi) PublishTransactions(ctx context.Context, event domain.TransactionsEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishTransactions(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every publisher.
func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
