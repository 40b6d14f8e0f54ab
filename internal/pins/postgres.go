package pins

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/xid"

	"github-portfolio/internal/database"
	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
)

const uniqueViolation = "23505"

// TxBeginner is satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStore keeps pins in the pinned_repositories table.
type PostgresStore struct {
	db     TxBeginner
	q      database.Querier
	logger *slog.Logger
	opts   options
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a store. q is used for reads; writes run in transactions begun on db.
func NewPostgresStore(db TxBeginner, q database.Querier, logger *slog.Logger, opts ...Option) *PostgresStore {
	return &PostgresStore{db: db, q: q, logger: logger, opts: buildOptions(opts)}
}

func (s *PostgresStore) List(ctx context.Context, identityID string) ([]model.Pin, error) {
	if identityID == "" {
		return nil, custom_errors.Invalid("identity", "identity id is required")
	}
	rows, err := s.q.ListPins(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("pins: listing pins of %s: %w", identityID, err)
	}
	out := make([]model.Pin, 0, len(rows))
	for _, r := range rows {
		out = append(out, toModelPin(r))
	}
	return out, nil
}

// Add wraps the pin logic in a transaction holding a per-identity advisory lock,
// so concurrent adds cannot push an identity past MaxPins.
func (s *PostgresStore) Add(ctx context.Context, identityID, itemID, name, owner string) (*model.Pin, error) {
	if err := validateAdd(identityID, itemID, name, owner); err != nil {
		return nil, err
	}
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("pins: beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback is a no-op if the transaction is already committed.

	pin, err := s.addPin(ctx, database.New(tx), identityID, itemID, name, owner)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("pins: committing pin: %w", err)
	}
	return pin, nil
}

func (s *PostgresStore) addPin(ctx context.Context, q database.Querier, identityID, itemID, name, owner string) (*model.Pin, error) {
	logger := s.logger.With("user_id", identityID, "repository_id", itemID)

	if err := q.LockUserPins(ctx, identityID); err != nil {
		return nil, fmt.Errorf("pins: locking pins of %s: %w", identityID, err)
	}

	count, err := q.CountPins(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("pins: counting pins of %s: %w", identityID, err)
	}
	if count >= MaxPins {
		logger.Info("Pin rejected, limit reached", "count", count)
		return nil, &custom_errors.PinLimitError{Limit: MaxPins}
	}

	exists, err := q.PinExists(ctx, database.PinExistsParams{UserID: identityID, RepositoryID: itemID})
	if err != nil {
		return nil, fmt.Errorf("pins: checking pin of %s: %w", itemID, err)
	}
	if exists {
		return nil, &custom_errors.AlreadyPinnedError{ItemID: itemID}
	}

	row, err := q.InsertPin(ctx, database.InsertPinParams{
		ID:              xid.New().String(),
		UserID:          identityID,
		RepositoryID:    itemID,
		RepositoryName:  name,
		RepositoryOwner: owner,
		PinnedAt:        s.opts.now().UTC().Truncate(time.Microsecond),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, &custom_errors.AlreadyPinnedError{ItemID: itemID}
		}
		return nil, fmt.Errorf("pins: inserting pin of %s: %w", itemID, err)
	}
	logger.Info("Repository pinned")

	pin := toModelPin(row)
	return &pin, nil
}

func (s *PostgresStore) Remove(ctx context.Context, identityID, itemID string) error {
	if err := validateRef(identityID, itemID); err != nil {
		return err
	}
	n, err := s.q.DeletePin(ctx, database.DeletePinParams{UserID: identityID, RepositoryID: itemID})
	if err != nil {
		return fmt.Errorf("pins: deleting pin of %s: %w", itemID, err)
	}
	s.logger.Debug("Pin removed", "user_id", identityID, "repository_id", itemID, "deleted", n)
	return nil
}

func (s *PostgresStore) IsPinned(ctx context.Context, identityID, itemID string) (bool, error) {
	if err := validateRef(identityID, itemID); err != nil {
		return false, err
	}
	exists, err := s.q.PinExists(ctx, database.PinExistsParams{UserID: identityID, RepositoryID: itemID})
	if err != nil {
		return false, fmt.Errorf("pins: checking pin of %s: %w", itemID, err)
	}
	return exists, nil
}

func toModelPin(r database.PinnedRepository) model.Pin {
	return model.Pin{
		ID:              r.ID,
		UserID:          r.UserID,
		RepositoryID:    r.RepositoryID,
		RepositoryName:  r.RepositoryName,
		RepositoryOwner: r.RepositoryOwner,
		PinnedAt:        r.PinnedAt.UTC(),
	}
}
