package services

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/log"
)

// Publisher sends change notifications. *amqp.Client implements it.
type Publisher interface {
	PublishChange(ctx context.Context, msg *amqp.ChangeMessage) error
}

// LedgerService orchestrates ledger writes and the change feed
type LedgerService struct {
	ledger    *ledger.Ledger
	publisher Publisher
	logger    *log.Logger
	closers   []func() error
}

// NewLedgerService wires l to publisher. A nil publisher disables the feed.
func NewLedgerService(l *ledger.Ledger, publisher Publisher, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &LedgerService{
		ledger:    l,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
	}
}

// Ledger exposes the underlying ledger for read paths.
func (s *LedgerService) Ledger() *ledger.Ledger {
	return s.ledger
}

// OnClose registers a resource to release in Close.
func (s *LedgerService) OnClose(fn func() error) {
	if fn != nil {
		s.closers = append(s.closers, fn)
	}
}

// AddTransaction validates and stores d, then announces the change.
func (s *LedgerService) AddTransaction(ctx context.Context, d core.Draft) (core.Transaction, error) {
	tx, err := s.ledger.Add(ctx, d)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	s.logger.InfoContext(ctx, "Transaction added",
		log.NewFields().WithTransaction(tx.ID, tx.Category, tx.Amount.Cents).WithOperation(log.OpCreate).ToSlice()...)
	s.publish(ctx, amqp.OpAdd, tx.ID)
	return tx, nil
}

// UpdateTransaction replaces the fields of transaction id.
func (s *LedgerService) UpdateTransaction(ctx context.Context, id int64, d core.Draft) (core.Transaction, error) {
	tx, err := s.ledger.Update(ctx, id, d)
	if err != nil {
		return core.Transaction{}, err
	}
	s.logger.InfoContext(ctx, "Transaction updated",
		log.NewFields().WithTransaction(tx.ID, tx.Category, tx.Amount.Cents).WithOperation(log.OpUpdate).ToSlice()...)
	s.publish(ctx, amqp.OpUpdate, tx.ID)
	return tx, nil
}

// DeleteTransaction removes id. Deleting an absent id reports false and
// publishes nothing.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) (bool, error) {
	removed, err := s.ledger.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if !removed {
		s.logger.DebugContext(ctx, "Delete of unknown transaction ignored", log.FieldTxID, id)
		return false, nil
	}
	s.logger.InfoContext(ctx, "Transaction deleted", log.FieldTxID, id, log.FieldOperation, log.OpDelete)
	s.publish(ctx, amqp.OpDelete, id)
	return true, nil
}

// SetBankAmount records the starting balance once.
func (s *LedgerService) SetBankAmount(ctx context.Context, raw string) (core.Money, error) {
	m, err := s.ledger.SetBankAmount(ctx, raw)
	if err != nil {
		return core.Money{}, err
	}
	s.logger.InfoContext(ctx, "Bank amount set", log.FieldAmountCents, m.Cents, log.FieldOperation, log.OpSettings)
	s.publish(ctx, amqp.OpSettings, 0)
	return m, nil
}

// SetTheme stores the display theme. Theme changes are not published.
func (s *LedgerService) SetTheme(ctx context.Context, theme string) (core.Theme, error) {
	if err := s.ledger.SetTheme(ctx, core.Theme(theme)); err != nil {
		return "", err
	}
	return s.ledger.Theme(ctx)
}

func (s *LedgerService) publish(ctx context.Context, op amqp.ChangeOp, id int64) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewChangeMessage(op, id, s.ledger.Version())
	if err := s.publisher.PublishChange(ctx, msg); err != nil {
		// the write already succeeded; the worker catches up on resync
		s.logger.LogError(ctx, "Failed to publish ledger change", err, string(op),
			log.NewFields().WithVersion(msg.Version))
	}
}

// Close releases the publisher and any registered resources.
func (s *LedgerService) Close() error {
	var errs []error
	if c, ok := s.publisher.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	for _, fn := range s.closers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}
	return nil
}
