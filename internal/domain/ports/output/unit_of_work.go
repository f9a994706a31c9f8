package ports

import (
	"context"

	group_repository "yatube-post-service/internal/domain/ports/output/group"
	post_repository "yatube-post-service/internal/domain/ports/output/post"
)

//go:generate mockery --name UnitOfWork --dir . --output ../../../../mocks/uow --outpkg mocks --filename UnitOfWork.go
type UnitOfWork interface {
	Begin(ctx context.Context) (Transaction, error)
}

//go:generate mockery --name Transaction --dir . --output ../../../../mocks/uow --outpkg mocks --filename Transaction.go
type Transaction interface {
	PostRepository() post_repository.Repository
	GroupRepository() group_repository.Repository
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
