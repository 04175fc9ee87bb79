package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"spice-storefront/internal/model"
	"spice-storefront/internal/resolver"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// postgresStore keeps one row per session and selector in tab_cache.
type postgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStore creates a PostgreSQL-backed store. The tab_cache table
// must exist; see database.EnsureSchema.
func NewPostgresStore(pool *pgxpool.Pool, logger zerolog.Logger) Store {
	return &postgresStore{
		pool:   pool,
		logger: logger.With().Str("component", "postgres-tab-store").Logger(),
	}
}

func (s *postgresStore) Load(ctx context.Context, sessionID string) (map[string]resolver.Slot, error) {
	if err := validate(sessionID); err != nil {
		return nil, err
	}

	query := `
		SELECT selector, seq, products, fetched_at
		FROM tab_cache
		WHERE session_id = $1
	`

	rows, err := s.pool.Query(ctx, query, sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to query tab cache")
		return nil, fmt.Errorf("failed to query tab cache: %w", err)
	}
	defer rows.Close()

	slots := make(map[string]resolver.Slot)
	for rows.Next() {
		var (
			selector string
			seq      int64
			raw      []byte
			slot     resolver.Slot
		)
		if err := rows.Scan(&selector, &seq, &raw, &slot.FetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tab slot: %w", err)
		}

		var products []model.Product
		if err := json.Unmarshal(raw, &products); err != nil {
			s.logger.Warn().Err(err).Str("selector", selector).Msg("discarding unreadable tab slot")
			continue
		}
		slot.Seq = uint64(seq)
		slot.Products = products
		slots[selector] = slot
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tab slots: %w", err)
	}
	return slots, nil
}

func (s *postgresStore) Save(ctx context.Context, sessionID, selector string, slot resolver.Slot) (bool, error) {
	if err := validate(sessionID); err != nil {
		return false, err
	}

	products := slot.Products
	if products == nil {
		products = []model.Product{}
	}
	payload, err := json.Marshal(products)
	if err != nil {
		return false, fmt.Errorf("failed to encode tab slot: %w", err)
	}

	query := `
		INSERT INTO tab_cache (session_id, selector, seq, products, fetched_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, selector) DO UPDATE
		SET seq = EXCLUDED.seq, products = EXCLUDED.products, fetched_at = EXCLUDED.fetched_at
		WHERE tab_cache.seq < EXCLUDED.seq
	`

	tag, err := s.pool.Exec(ctx, query, sessionID, selector, int64(slot.Seq), payload, slot.FetchedAt)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Str("selector", selector).Msg("failed to save tab slot")
		return false, fmt.Errorf("failed to save tab slot: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *postgresStore) Prune(ctx context.Context, before time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tab_cache WHERE fetched_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to prune tab cache: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Close is a no-op; the pool is owned by the caller.
func (s *postgresStore) Close() error {
	return nil
}
