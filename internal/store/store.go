// Package store persists benchmark instances and solver runs.
package store

import (
	"context"

	"github.com/me/goshop/pkg/model"
)

// Store defines the persistence layer for goshop entities.
type Store interface {
	// Instance CRUD
	CreateInstance(ctx context.Context, inst *model.StoredInstance) error
	GetInstance(ctx context.Context, id string) (*model.StoredInstance, error)
	ListInstances(ctx context.Context, opts model.ListOptions) ([]*model.StoredInstance, int, error)
	DeleteInstance(ctx context.Context, id string) error

	// Run operations
	CreateRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRunsByInstance(ctx context.Context, instanceID string) ([]*model.Run, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
