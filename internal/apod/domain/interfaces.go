package domain

import "context"

// EventPublisher interface for publishing domain events
type EventPublisher interface {
	PublishPictureFetched(ctx context.Context, picture *Picture) error
	Close() error
}
