package fighter

import "context"

// Repository describes fighter persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Fighter, error)
	GetByNormalizedName(ctx context.Context, normalizedName string) (*Fighter, error)
	List(ctx context.Context) ([]Fighter, error)
	Create(ctx context.Context, f *Fighter) error
	Update(ctx context.Context, f *Fighter) error
}
