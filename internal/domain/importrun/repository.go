package importrun

import "context"

// Repository describes import run persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Run, error)
	ListRecent(ctx context.Context, limit int) ([]Run, error)
	Create(ctx context.Context, r *Run) error
	Update(ctx context.Context, r *Run) error
}
