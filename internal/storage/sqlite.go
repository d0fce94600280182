package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"feedhub/internal/model"
	"feedhub/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database with an FTS5
// shadow index over item title+content.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
// The dsn is a caller decision (":memory:" for tests); nothing here is
// hard-coded.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Single-writer discipline: one connection means every mutating
	// operation serializes at the pool, so a cascade delete can never
	// interleave with an in-flight insert for the same subscription.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateSubscription inserts a new subscription and populates its ID and
// CreatedAt. Returns ErrAlreadySubscribed without mutation when the
// (source_type, identifier) pair already exists.
func (s *SQLite) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	existing, err := s.GetSubscription(ctx, sub.SourceType, sub.Identifier)
	if err == nil {
		sub.ID = existing.ID
		return ErrAlreadySubscribed
	}
	if err != ErrNotFound {
		return err
	}

	now := time.Now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO subscriptions (source_type, identifier, name, feed_url, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		string(sub.SourceType), sub.Identifier, sub.Name, sub.FeedURL, now,
	)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	sub.ID = id
	sub.CreatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// GetSubscription returns the subscription for a (source_type, identifier)
// pair, or ErrNotFound.
func (s *SQLite) GetSubscription(ctx context.Context, sourceType model.SourceType, identifier string) (*model.Subscription, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source_type, identifier, name, feed_url, created_at
		 FROM subscriptions WHERE source_type = ? AND identifier = ?`,
		string(sourceType), identifier,
	)
	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return sub, err
}

// ListSubscriptions returns all subscriptions in creation order.
func (s *SQLite) ListSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_type, identifier, name, feed_url, created_at
		 FROM subscriptions ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var subs []model.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

// DeleteSubscription removes a subscription, its items, and their index
// entries in one transaction. Returns ErrNotFound when absent.
func (s *SQLite) DeleteSubscription(ctx context.Context, sourceType model.SourceType, identifier string) (int64, error) {
	sub, err := s.GetSubscription(ctx, sourceType, identifier)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Items go first so the delete trigger scrubs the FTS index while the
	// rows are still readable.
	res, err := tx.ExecContext(ctx, `DELETE FROM feed_items WHERE subscription_id = ?`, sub.ID)
	if err != nil {
		return 0, fmt.Errorf("delete items: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, sub.ID); err != nil {
		return 0, fmt.Errorf("delete subscription: %w", err)
	}
	return removed, tx.Commit()
}

// StoreItems inserts each item with a non-empty URL that is not already
// stored for the subscription. The UNIQUE(subscription_id, url) constraint
// plus INSERT OR IGNORE make the whole batch idempotent.
func (s *SQLite) StoreItems(ctx context.Context, subscriptionID int64, items []model.Item) ([]model.FeedItem, error) {
	if len(items) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(timeLayout)
	createdAt, _ := time.Parse(timeLayout, now)

	var stored []model.FeedItem
	for _, item := range items {
		if item.URL == "" {
			continue
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO feed_items
			 (subscription_id, title, url, content, published, author, metadata, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			subscriptionID, item.Title, item.URL, item.Content,
			item.Published, item.Author, item.Metadata, now,
		)
		if err != nil {
			return nil, fmt.Errorf("insert item: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			continue // duplicate URL for this subscription
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
		stored = append(stored, model.FeedItem{
			ID:             id,
			SubscriptionID: subscriptionID,
			Title:          item.Title,
			URL:            item.URL,
			Content:        item.Content,
			Published:      item.Published,
			Author:         item.Author,
			Metadata:       item.Metadata,
			CreatedAt:      createdAt,
		})
	}
	return stored, tx.Commit()
}

// Search runs a ranked FTS5 match over item title+content. An empty match
// set is a valid, non-error response.
func (s *SQLite) Search(ctx context.Context, query string, limit int) ([]model.FeedItem, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT i.id, i.subscription_id, i.title, i.url, i.content,
		        i.published, i.author, i.metadata, i.created_at
		 FROM feed_items i
		 JOIN feed_items_fts fts ON i.id = fts.rowid
		 WHERE feed_items_fts MATCH ?
		 ORDER BY rank
		 LIMIT ?`,
		match, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanFeedItems(rows)
}

// GetItems returns the most recently stored items, newest first.
// sourceType filters to one source type when non-empty.
func (s *SQLite) GetItems(ctx context.Context, sourceType model.SourceType, limit int) ([]model.FeedItem, error) {
	if limit <= 0 {
		limit = 20
	}

	q := `SELECT i.id, i.subscription_id, i.title, i.url, i.content,
	             i.published, i.author, i.metadata, i.created_at
	      FROM feed_items i`
	args := []any{}
	if sourceType != "" {
		q += ` JOIN subscriptions s ON s.id = i.subscription_id
		       WHERE s.source_type = ?`
		args = append(args, string(sourceType))
	}
	q += ` ORDER BY i.id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanFeedItems(rows)
}

// ftsQuery rewrites free-form user input into an FTS5 match expression.
// Each token is double-quoted so punctuation cannot be read as FTS syntax;
// space-separated quoted tokens combine as an implicit AND.
func ftsQuery(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		quoted = append(quoted, `"`+strings.ReplaceAll(f, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " ")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSubscription(row scannable) (*model.Subscription, error) {
	var sub model.Subscription
	var sourceType string
	var created sql.NullString
	err := row.Scan(&sub.ID, &sourceType, &sub.Identifier, &sub.Name, &sub.FeedURL, &created)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan subscription: %w", err)
	}
	sub.SourceType = model.SourceType(sourceType)
	if created.Valid {
		sub.CreatedAt, _ = time.Parse(timeLayout, created.String)
	}
	return &sub, nil
}

func scanFeedItems(rows *sql.Rows) ([]model.FeedItem, error) {
	var items []model.FeedItem
	for rows.Next() {
		var item model.FeedItem
		var created sql.NullString
		err := rows.Scan(&item.ID, &item.SubscriptionID, &item.Title, &item.URL,
			&item.Content, &item.Published, &item.Author, &item.Metadata, &created)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if created.Valid {
			item.CreatedAt, _ = time.Parse(timeLayout, created.String)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
