package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vilyx-net/vector/internal/domain"
)

// Sentinel errors for store invariant violations. Callers translate these
// into the user-facing error taxonomy.
var (
	ErrNotFound      = errors.New("ticket record not found")
	ErrAlreadyExists = errors.New("ticket record already exists")
)

// TicketStore is the durable mapping from channel id to ticket record.
// Mutations must be persisted before the call returns so that a crash
// between persistence and the following platform side effect leaves at
// worst an orphaned channel, never an unrecorded one.
type TicketStore interface {
	Get(ctx context.Context, channelID string) (*domain.TicketRecord, error)
	Create(ctx context.Context, channelID, ownerID string, category domain.TicketCategory) (*domain.TicketRecord, error)
	SetArchived(ctx context.Context, channelID string) error
	Remove(ctx context.Context, channelID string) error
	List(ctx context.Context, limit, offset int) ([]domain.TicketRecord, error)
}

type postgresTicketStore struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketStore instantiates the postgres-backed store.
func NewPostgresTicketStore(pool *pgxpool.Pool) TicketStore {
	return &postgresTicketStore{pool: pool}
}

func (s *postgresTicketStore) Get(ctx context.Context, channelID string) (*domain.TicketRecord, error) {
	const query = `
        SELECT channel_id, owner_id, category, claimed, archived, created_at
        FROM tickets WHERE channel_id=$1`
	var rec domain.TicketRecord
	err := s.pool.QueryRow(ctx, query, channelID).Scan(
		&rec.ChannelID,
		&rec.OwnerID,
		&rec.Category,
		&rec.Claimed,
		&rec.Archived,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (s *postgresTicketStore) Create(ctx context.Context, channelID, ownerID string, category domain.TicketCategory) (*domain.TicketRecord, error) {
	const query = `
        INSERT INTO tickets (channel_id, owner_id, category, claimed, archived)
        VALUES ($1,$2,$3,FALSE,FALSE)
        RETURNING channel_id, owner_id, category, claimed, archived, created_at`
	var rec domain.TicketRecord
	err := s.pool.QueryRow(ctx, query, channelID, ownerID, category).Scan(
		&rec.ChannelID,
		&rec.OwnerID,
		&rec.Category,
		&rec.Claimed,
		&rec.Archived,
		&rec.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return &rec, nil
}

func (s *postgresTicketStore) SetArchived(ctx context.Context, channelID string) error {
	const query = `UPDATE tickets SET archived=TRUE WHERE channel_id=$1`
	cmd, err := s.pool.Exec(ctx, query, channelID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *postgresTicketStore) Remove(ctx context.Context, channelID string) error {
	const query = `DELETE FROM tickets WHERE channel_id=$1`
	cmd, err := s.pool.Exec(ctx, query, channelID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *postgresTicketStore) List(ctx context.Context, limit, offset int) ([]domain.TicketRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT channel_id, owner_id, category, claimed, archived, created_at
        FROM tickets ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := s.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketRecord
	for rows.Next() {
		var rec domain.TicketRecord
		if err := rows.Scan(
			&rec.ChannelID,
			&rec.OwnerID,
			&rec.Category,
			&rec.Claimed,
			&rec.Archived,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}
