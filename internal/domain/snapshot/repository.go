package snapshot

import "context"

// Repository describes snapshot persistence needs from use cases.
// Recomputation replaces a snapshot whole rather than patching fields, so
// the anti-leakage guarantee stays auditable.
type Repository interface {
	GetByFighterAndFight(ctx context.Context, fighterID, fightID string) (*Snapshot, error)
	ListByFight(ctx context.Context, fightID string) ([]Snapshot, error)
	ListByFighter(ctx context.Context, fighterID string) ([]Snapshot, error)
	Create(ctx context.Context, s *Snapshot) error
	Replace(ctx context.Context, s *Snapshot) error
}
