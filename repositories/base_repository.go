package repositories

import (
	"context"
	"errors"

	"formify.app/configs"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type ctxKey string

const txKey ctxKey = "tx"

// ITransactor runs a function inside one database transaction. Repositories called with
// the context passed to fn take part in that transaction.
type ITransactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type GormTransactor struct {
	db *gorm.DB
}

func NewTransactor() ITransactor {
	return &GormTransactor{db: configs.GetDB()}
}

func NewTransactorTx(db *gorm.DB) ITransactor {
	return &GormTransactor{db: db}
}

// WithinTransaction joins an enclosing transaction when ctx already carries one.
func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey, tx))
	})
}

// ContextWithTx attaches tx to ctx.
func ContextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// getDB returns the transaction stored in ctx or the repository handle bound to ctx.
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

// ownerColumns limits preloaded users to their public fields.
func ownerColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email", "is_admin", "is_blocked", "created_at", "updated_at")
}
