package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"cinelog/internal/logger"
)

// UnitOfWork wraps a transaction for safe handling. Each HTTP request
// obtains one, performs all of its reads and writes through it, and either
// commits once on success or rolls back entirely on any failure.
type UnitOfWork struct {
	tx      *gorm.DB
	started time.Time
	id      string
}

// Begin starts a new unit of work on the given connection.
func Begin(ctx context.Context, db *gorm.DB) (*UnitOfWork, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	uow := &UnitOfWork{
		tx:      tx,
		started: time.Now(),
		id:      fmt.Sprintf("tx_%d", time.Now().UnixNano()),
	}

	logger.Debug("started transaction: %s", uow.id)
	return uow, nil
}

// Commit commits the transaction
func (u *UnitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("unit of work already finished")
	}

	if err := u.tx.Commit().Error; err != nil {
		logger.Error("failed to commit transaction %s: %v", u.id, err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Debug("committed transaction %s (duration: %v)", u.id, time.Since(u.started))
	u.tx = nil
	return nil
}

// Rollback rolls back the transaction
func (u *UnitOfWork) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("unit of work already finished")
	}

	if err := u.tx.Rollback().Error; err != nil {
		logger.Error("failed to rollback transaction %s: %v", u.id, err)
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	logger.Debug("rolled back transaction %s (duration: %v)", u.id, time.Since(u.started))
	u.tx = nil
	return nil
}

// DB returns the transaction database instance
func (u *UnitOfWork) DB() *gorm.DB {
	return u.tx
}

// IsActive checks if the transaction is still active
func (u *UnitOfWork) IsActive() bool {
	return u.tx != nil
}

// WithTransaction executes fn within a unit of work on the package-level
// connection. On error the transaction is rolled back and the error
// returned unchanged; otherwise it is committed.
func WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return WithTransactionOn(ctx, GetDB(), fn)
}

// WithTransactionOn executes fn within a unit of work on a specific
// connection.
func WithTransactionOn(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	uow, err := Begin(ctx, db)
	if err != nil {
		return err
	}

	defer func() {
		if uow.IsActive() {
			uow.Rollback()
		}
	}()

	if err := fn(uow.DB()); err != nil {
		if rollbackErr := uow.Rollback(); rollbackErr != nil {
			logger.Error("failed to rollback transaction after error: %v", rollbackErr)
		}
		return err
	}

	return uow.Commit()
}
