package memrepo

import (
	"context"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

type OwnerRepo struct {
	s *Store
}

func (r *OwnerRepo) FindByID(_ context.Context, id string) (*domain.Owner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.owners[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *OwnerRepo) Upsert(ctx context.Context, owner *domain.Owner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, existed := r.s.owners[owner.ID]
	r.s.owners[owner.ID] = *owner
	onRollback(ctx, func() {
		r.s.mu.Lock()
		if existed {
			r.s.owners[owner.ID] = prev
		} else {
			delete(r.s.owners, owner.ID)
		}
		r.s.mu.Unlock()
	})
	return nil
}
