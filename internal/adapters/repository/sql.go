package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/internal/domain/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS predictions (
	owner      TEXT    NOT NULL,
	season     INTEGER NOT NULL,
	league     TEXT    NOT NULL,
	rankings   TEXT    NOT NULL,
	written_at BIGINT  NOT NULL,
	PRIMARY KEY (owner, season, league)
);
CREATE TABLE IF NOT EXISTS title_predictions (
	owner      TEXT    NOT NULL,
	season     INTEGER NOT NULL,
	league     TEXT    NOT NULL,
	title      TEXT    NOT NULL,
	player     TEXT    NOT NULL,
	written_at BIGINT  NOT NULL,
	PRIMARY KEY (owner, season, league, title)
);`

const (
	selectPrediction = `SELECT rankings, written_at FROM predictions
WHERE owner = ? AND season = ? AND league = ?`

	upsertPrediction = `INSERT INTO predictions (owner, season, league, rankings, written_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (owner, season, league)
DO UPDATE SET rankings = excluded.rankings, written_at = excluded.written_at`

	listPredictions = `SELECT owner, rankings, written_at FROM predictions
WHERE season = ? AND league = ?
ORDER BY written_at DESC, owner ASC`

	upsertTitlePick = `INSERT INTO title_predictions (owner, season, league, title, player, written_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (owner, season, league, title)
DO UPDATE SET player = excluded.player, written_at = excluded.written_at`

	listTitlePicks = `SELECT owner, league, title, player, written_at FROM title_predictions
WHERE season = ? AND (CAST(? AS TEXT) = '' OR owner = ?)
ORDER BY written_at ASC, owner ASC, league ASC, title ASC`
)

// SQLStore is a Store over database/sql. It backs both the SQLite and
// Postgres drivers; only the placeholder style differs.
type SQLStore struct {
	db       *sql.DB
	driver   string
	dollar   bool
	settings settings
	closed   atomic.Bool
}

var _ Store = (*SQLStore)(nil)

func newSQLStore(ctx context.Context, db *sql.DB, driver string, dollar bool, opts []Option) (*SQLStore, error) {
	s := &SQLStore{db: db, driver: driver, dollar: dollar, settings: newSettings(opts)}
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("apply %s schema: %w", driver, err)
		}
	}
	return s, nil
}

// Driver implements Store.
func (s *SQLStore) Driver() string { return s.driver }

// DB exposes the underlying handle.
func (s *SQLStore) DB() *sql.DB { return s.db }

// usable fails with kind joined to ErrClosed once Close has been called.
func (s *SQLStore) usable(kind error) error {
	if s.closed.Load() {
		return fmt.Errorf("%w: %w", kind, ErrClosed)
	}
	return nil
}

// rebind rewrites ? placeholders as $1..$n for Postgres.
func (s *SQLStore) rebind(query string) string {
	if !s.dollar {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FetchPrediction implements Store.
func (s *SQLStore) FetchPrediction(ctx context.Context, key model.Key) (p model.Prediction, err error) {
	defer observe(s.driver, "fetch_prediction", time.Now(), &err)
	if err := s.usable(ErrFetch); err != nil {
		return model.Prediction{}, err
	}
	var (
		raw     string
		written int64
	)
	row := s.db.QueryRowContext(ctx, s.rebind(selectPrediction), key.Owner, key.Season, string(key.League))
	if err := row.Scan(&raw, &written); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Prediction{}, ErrNotFound
		}
		return model.Prediction{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	rankings, err := decodeRankings(raw)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return model.Prediction{Key: key, Rankings: rankings, WrittenAt: fromMicros(written)}, nil
}

// SavePrediction implements Store.
func (s *SQLStore) SavePrediction(ctx context.Context, p model.Prediction) (out model.Prediction, err error) {
	defer observe(s.driver, "save_prediction", time.Now(), &err)
	if err := s.usable(ErrSave); err != nil {
		return model.Prediction{}, err
	}
	if err := p.Key.Validate(); err != nil {
		return model.Prediction{}, fmt.Errorf("%w: %w", ErrSave, err)
	}
	if p.Rankings == nil {
		p.Rankings = []string{}
	}
	raw, err := json.Marshal(p.Rankings)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("%w: %w", ErrSave, err)
	}
	now := s.settings.now().UTC().Truncate(time.Microsecond)
	if _, err := s.db.ExecContext(ctx, s.rebind(upsertPrediction),
		p.Owner, p.Season, string(p.League), string(raw), now.UnixMicro()); err != nil {
		return model.Prediction{}, fmt.Errorf("%w: %w", ErrSave, err)
	}
	p.Rankings = append([]string(nil), p.Rankings...)
	p.WrittenAt = now
	return p, nil
}

// ListPredictions implements Store.
func (s *SQLStore) ListPredictions(ctx context.Context, season int, league catalog.League) (out []model.Prediction, err error) {
	defer observe(s.driver, "list_predictions", time.Now(), &err)
	if err := s.usable(ErrFetch); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(listPredictions), season, string(league))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			owner, raw string
			written    int64
		)
		if err := rows.Scan(&owner, &raw, &written); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetch, err)
		}
		rankings, err := decodeRankings(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetch, err)
		}
		out = append(out, model.Prediction{
			Key:       model.Key{Owner: owner, Season: season, League: league},
			Rankings:  rankings,
			WrittenAt: fromMicros(written),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return out, nil
}

// SaveTitlePicks implements Store. All picks are written in one transaction.
func (s *SQLStore) SaveTitlePicks(ctx context.Context, picks []model.TitlePick) (err error) {
	defer observe(s.driver, "save_title_picks", time.Now(), &err)
	if err := s.usable(ErrSave); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	now := s.settings.now().UTC().UnixMicro()
	query := s.rebind(upsertTitlePick)
	for _, p := range picks {
		if _, err := tx.ExecContext(ctx, query,
			p.Owner, p.Season, string(p.League), p.Title, p.Player, now); err != nil {
			return fmt.Errorf("%w: %w", ErrSave, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}

// ListTitlePicks implements Store.
func (s *SQLStore) ListTitlePicks(ctx context.Context, season int, owner string) (out []model.TitlePick, err error) {
	defer observe(s.driver, "list_title_picks", time.Now(), &err)
	if err := s.usable(ErrFetch); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(listTitlePicks), season, owner, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			p       model.TitlePick
			league  string
			written int64
		)
		if err := rows.Scan(&p.Owner, &league, &p.Title, &p.Player, &written); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetch, err)
		}
		p.Season = season
		p.League = catalog.League(league)
		p.WrittenAt = fromMicros(written)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return out, nil
}

// Close implements Store. Closing twice is a no-op.
func (s *SQLStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

func decodeRankings(raw string) ([]string, error) {
	var rankings []string
	if err := json.Unmarshal([]byte(raw), &rankings); err != nil {
		return nil, fmt.Errorf("decode rankings: %w", err)
	}
	return rankings, nil
}

func fromMicros(us int64) time.Time {
	return time.UnixMicro(us).UTC()
}
