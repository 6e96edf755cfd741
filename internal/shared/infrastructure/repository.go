package infrastructure

import (
	"context"
	"database/sql"
)

// UnitOfWork gère les transactions pour les opérations d'écriture
type UnitOfWork interface {
	Begin(ctx context.Context) (*sql.Tx, error)
	Commit(tx *sql.Tx) error
	Rollback(tx *sql.Tx) error
	Execute(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// DBUnitOfWork implémentation de UnitOfWork avec sql.DB
type DBUnitOfWork struct {
	db   *sql.DB
	opts *sql.TxOptions
}

// NewUnitOfWork crée une nouvelle instance de UnitOfWork
func NewUnitOfWork(db *sql.DB) UnitOfWork {
	return &DBUnitOfWork{db: db}
}

// NewSnapshotUnitOfWork ouvre des transactions en lecture seule, REPEATABLE READ:
// toutes les requêtes d'une transaction voient le même état de la base
func NewSnapshotUnitOfWork(db *sql.DB) UnitOfWork {
	return &DBUnitOfWork{db: db, opts: &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}}
}

// Begin démarre une transaction
func (uow *DBUnitOfWork) Begin(ctx context.Context) (*sql.Tx, error) {
	return uow.db.BeginTx(ctx, uow.opts)
}

// Commit valide une transaction
func (uow *DBUnitOfWork) Commit(tx *sql.Tx) error {
	return tx.Commit()
}

// Rollback annule une transaction
func (uow *DBUnitOfWork) Rollback(tx *sql.Tx) error {
	return tx.Rollback()
}

// Execute exécute une fonction dans une transaction
// La transaction est annulée si fn retourne une erreur ou panique
func (uow *DBUnitOfWork) Execute(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback(tx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := uow.Rollback(tx); rbErr != nil {
			return rbErr
		}
		return err
	}

	return uow.Commit(tx)
}

// Executor est satisfait par *sql.DB et *sql.Tx
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// BaseRepository structure de base pour les repositories
type BaseRepository struct {
	db  *sql.DB
	tx  *sql.Tx
	ctx context.Context
}

// NewBaseRepository crée un nouveau repository de base
func NewBaseRepository(db *sql.DB) BaseRepository {
	return BaseRepository{
		db:  db,
		ctx: context.Background(),
	}
}

// WithContext retourne une copie du repository liée à ctx
func (r BaseRepository) WithContext(ctx context.Context) BaseRepository {
	r.ctx = ctx
	return r
}

// WithTx retourne une copie du repository qui exécute ses requêtes dans tx
func (r BaseRepository) WithTx(tx *sql.Tx) BaseRepository {
	r.tx = tx
	return r
}

// Executor retourne l'exécuteur approprié (DB ou Tx)
func (r *BaseRepository) Executor() Executor {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Query exécute une requête de lecture
func (r *BaseRepository) Query(query string, args ...any) (*sql.Rows, error) {
	return r.Executor().QueryContext(r.ctx, query, args...)
}

// QueryRow exécute une requête de lecture pour une seule ligne
func (r *BaseRepository) QueryRow(query string, args ...any) *sql.Row {
	return r.Executor().QueryRowContext(r.ctx, query, args...)
}
