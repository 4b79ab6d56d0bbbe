package data

import (
	"ShengHang/internal/ownership"
	"ShengHang/internal/repository"

	"gorm.io/gorm"
)

// UnitOfWork 定义了我们事务管理器的接口
type UnitOfWork interface {
	// Execute 将一个函数包裹在数据库事务中执行。
	// 它会为这个函数提供能在事务中工作的 Repositories。
	Execute(func(repos *TransactionalRepositories) error) error
}

// TransactionalRepositories 持有所有需要在同一个事务中操作的 Repository。
type TransactionalRepositories struct {
	UserRepo     repository.UserRepository
	CommentRepo  repository.CommentRepository
	SonglistRepo repository.SonglistRepository
	FavoriteRepo repository.FavoriteRepository
	CatalogRepo  repository.CatalogRepository
	HistoryRepo  repository.HistoryRepository
}

// Authority 在同一个事务里做权限判断，判断时读到的数据和随后修改的数据是同一份
func (r *TransactionalRepositories) Authority() *ownership.Authority {
	return ownership.NewAuthority(r.UserRepo, r.SonglistRepo, r.CommentRepo)
}

// Repositories 原始的、非事务的 repositories
type Repositories struct {
	UserRepo     repository.UserRepository
	CommentRepo  repository.CommentRepository
	SonglistRepo repository.SonglistRepository
	FavoriteRepo repository.FavoriteRepository
	CatalogRepo  repository.CatalogRepository
	HistoryRepo  repository.HistoryRepository
}

// NewRepositories 一次性把所有gorm实现的repository建好
func NewRepositories(db *gorm.DB, catalogRepo repository.CatalogRepository) *Repositories {
	return &Repositories{
		UserRepo:     repository.NewUserRepository(db),
		CommentRepo:  repository.NewCommentRepository(db),
		SonglistRepo: repository.NewSonglistRepository(db),
		FavoriteRepo: repository.NewFavoriteRepository(db),
		CatalogRepo:  catalogRepo,
		HistoryRepo:  repository.NewHistoryRepository(db),
	}
}

// db是事务的入口和管理者
type gormUnitOfWork struct {
	db    *gorm.DB
	repos *Repositories
}

// NewUnitOfWork 创建一个新的、基于GORM的“工作单元”。
// 注意，它接收的是原始的、非事务的 repositories。
func NewUnitOfWork(db *gorm.DB, repos *Repositories) UnitOfWork {
	return &gormUnitOfWork{
		db:    db,
		repos: repos,
	}
}

// 只能接收 fn func(repos *TransactionalRepositories) error 这样的函数，并为其创建事务
// fn返回error就ROLLBACK，返回nil就COMMIT
func (u *gormUnitOfWork) Execute(fn func(repos *TransactionalRepositories) error) error {
	return u.db.Transaction(func(tx *gorm.DB) error {
		// 临时创建“一次性”的、绑定了特定事务的Repo副本
		transactionalRepos := &TransactionalRepositories{
			UserRepo:     u.repos.UserRepo.WithTx(tx),
			CommentRepo:  u.repos.CommentRepo.WithTx(tx),
			SonglistRepo: u.repos.SonglistRepo.WithTx(tx),
			FavoriteRepo: u.repos.FavoriteRepo.WithTx(tx),
			CatalogRepo:  u.repos.CatalogRepo.WithTx(tx),
			HistoryRepo:  u.repos.HistoryRepo.WithTx(tx),
		}
		return fn(transactionalRepos)
	})
}
