package memory

import (
	"context"

	ports "yatube-post-service/internal/domain/ports/output"
	group_repository "yatube-post-service/internal/domain/ports/output/group"
	post_repository "yatube-post-service/internal/domain/ports/output/post"
)

// UnitOfWork hands out the storage repositories directly; each repository call
// is already atomic under the storage lock, so Commit and Rollback are no-ops.
type UnitOfWork struct {
	storage *Storage
	log     ports.Logger
}

func NewUnitOfWork(storage *Storage, log ports.Logger) ports.UnitOfWork {
	return &UnitOfWork{storage: storage, log: log}
}

func (u *UnitOfWork) Begin(ctx context.Context) (ports.Transaction, error) {
	return &Transaction{storage: u.storage, log: u.log}, nil
}

type Transaction struct {
	storage *Storage
	log     ports.Logger
}

func (t *Transaction) PostRepository() post_repository.Repository {
	return NewPostRepository(t.storage, t.log)
}

func (t *Transaction) GroupRepository() group_repository.Repository {
	return NewGroupRepository(t.storage, t.log)
}

func (t *Transaction) Commit(ctx context.Context) error {
	return nil
}

func (t *Transaction) Rollback(ctx context.Context) error {
	return nil
}
