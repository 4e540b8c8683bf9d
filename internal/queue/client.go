package queue

import (
	"context"

	"github.com/mwangikc/orderdesk/internal/models"
)

// Client defines the interface for queue operations
type Client interface {
	// Publish enqueues a notification job
	Publish(ctx context.Context, job *models.NotificationJob) error

	// Consume receives jobs from the queue and processes them with the
	// handler; concurrency bounds how many jobs run simultaneously
	Consume(ctx context.Context, handler JobHandler, concurrency int) error

	// Close closes the queue connection
	Close() error

	// Health checks if the queue is healthy
	Health(ctx context.Context) error
}

// JobHandler is a function that processes a notification job
type JobHandler func(ctx context.Context, job *models.NotificationJob) error
