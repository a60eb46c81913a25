package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/GetStream/engagement-backend/engagement"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Postgres provides storage in PostgreSQL.
type Postgres struct {
	bun  bun.IDB
	root *bun.DB
}

var _ engagement.Store = (*Postgres)(nil)

// Connect connects to the database and ping the DB to ensure the connection is
// working.
func Connect(ctx context.Context, connStr string) (*Postgres, error) {
	sqlDB := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(connStr)))
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	db := bun.NewDB(sqlDB, pgdialect.New())
	return &Postgres{
		bun:  db,
		root: db,
	}, nil
}

// Close closes the underlying connection pool.
func (pg *Postgres) Close() error {
	if pg.root == nil {
		return nil
	}
	return pg.root.Close()
}

// Ping checks that the database answers.
func (pg *Postgres) Ping(ctx context.Context) error {
	if pg.root == nil {
		return nil
	}
	return pg.root.PingContext(ctx)
}

// InTx runs fn in a transaction. Nested calls reuse the open transaction.
func (pg *Postgres) InTx(ctx context.Context, fn func(ctx context.Context, s engagement.Store) error) error {
	if pg.root == nil {
		return fn(ctx, pg)
	}
	return pg.root.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &Postgres{bun: tx})
	})
}

// affected maps a missing or unchanged row to engagement.ErrNoRecord.
func affected(res sql.Result, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return engagement.ErrNoRecord
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return engagement.ErrNoRecord
	}
	return nil
}

func scanned(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return engagement.ErrNoRecord
	}
	return err
}

func uniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == "23505"
}

// InsertPost inserts a post. The returned post holds auto generated fields,
// such as the post id.
func (pg *Postgres) InsertPost(ctx context.Context, p engagement.Post) (engagement.Post, error) {
	m := newPost(p)
	if _, err := pg.bun.NewInsert().Model(m).Returning("*").Exec(ctx); err != nil {
		return engagement.Post{}, fmt.Errorf("insert: %w", err)
	}
	return m.Post(), nil
}

// GetPost returns a post by id.
func (pg *Postgres) GetPost(ctx context.Context, id string) (engagement.Post, error) {
	m := new(post)
	if err := pg.bun.NewSelect().Model(m).Where("p.id = ?", id).Scan(ctx); err != nil {
		return engagement.Post{}, scanned(err)
	}
	return m.Post(), nil
}

// UpdatePost sets the fields present in patch.
func (pg *Postgres) UpdatePost(ctx context.Context, id string, patch engagement.PostPatch) (engagement.Post, error) {
	if patch.Empty() {
		return pg.GetPost(ctx, id)
	}
	q := pg.bun.NewUpdate().Model((*post)(nil)).Where("id = ?", id)
	if patch.Text != nil {
		q = q.Set("body = ?", *patch.Text)
	}
	if patch.Media != nil {
		q = q.Set("media = ?", pgdialect.Array(*patch.Media))
	}
	if patch.Tags != nil {
		q = q.Set("tags = ?", pgdialect.Array(*patch.Tags))
	}
	if patch.Visibility != nil {
		q = q.Set("visibility = ?", string(*patch.Visibility))
	}

	m := new(post)
	if err := affected(q.Returning("*").Exec(ctx, m)); err != nil {
		return engagement.Post{}, err
	}
	return m.Post(), nil
}

// DeletePost deletes the post when authorID wrote it.
func (pg *Postgres) DeletePost(ctx context.Context, id, authorID string) (engagement.Post, error) {
	m := new(post)
	res, err := pg.bun.NewDelete().
		Model(m).
		Where("id = ?", id).
		Where("author_id = ?", authorID).
		Returning("*").
		Exec(ctx)
	if err := affected(res, err); err != nil {
		return engagement.Post{}, err
	}
	return m.Post(), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListPosts returns posts matching f sorted by creation time in descending
// order, and the number of matching posts.
func (pg *Postgres) ListPosts(ctx context.Context, f engagement.PostFilter, limit, offset int) ([]engagement.Post, int, error) {
	var rows []post
	q := pg.bun.NewSelect().
		Model(&rows).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.Where("p.visibility = ?", string(engagement.Public)).
				WhereOr("p.author_id = ?", f.Viewer)
			if len(f.Network) > 0 {
				q = q.WhereOr("p.visibility = ? AND p.author_id IN (?)", string(engagement.ConnectionsOnly), bun.In(f.Network))
			}
			return q
		})

	if f.AuthorID != "" {
		q = q.Where("p.author_id = ?", f.AuthorID)
	}
	if f.SavedBy != "" {
		q = q.Where("p.id IN (SELECT post_id FROM saves WHERE actor_id = ?)", f.SavedBy)
	}
	if f.ParentID != "" {
		q = q.Where("p.parent_id = ?", f.ParentID)
	}
	if f.Query != "" {
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("p.body ILIKE ?", "%"+likeEscaper.Replace(f.Query)+"%").
				WhereOr("? = ANY(p.tags)", f.Query)
		})
	}

	total, err := q.
		Order("p.created_at DESC", "p.id DESC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("scan: %w", err)
	}

	out := make([]engagement.Post, len(rows))
	for i, r := range rows {
		out[i] = r.Post()
	}
	return out, total, nil
}

// AdjustPostReaction adds delta to the post's counter for t in a single
// statement. Counters never drop below zero.
func (pg *Postgres) AdjustPostReaction(ctx context.Context, postID string, t engagement.ReactionType, delta int) error {
	return affected(pg.bun.NewUpdate().
		Model((*post)(nil)).
		Set("reactions = jsonb_set(reactions, ARRAY[?]::text[], to_jsonb(GREATEST(COALESCE((reactions->>?)::int, 0) + ?, 0)))", string(t), string(t), delta).
		Where("id = ?", postID).
		Exec(ctx))
}

// AdjustCommentCount adds delta to the post's comment count.
func (pg *Postgres) AdjustCommentCount(ctx context.Context, postID string, delta int) error {
	return affected(pg.bun.NewUpdate().
		Model((*post)(nil)).
		Set("comment_count = GREATEST(comment_count + ?, 0)", delta).
		Where("id = ?", postID).
		Exec(ctx))
}

// AdjustShareCount adds delta to the post's share count.
func (pg *Postgres) AdjustShareCount(ctx context.Context, postID string, delta int) error {
	return affected(pg.bun.NewUpdate().
		Model((*post)(nil)).
		Set("share_count = GREATEST(share_count + ?, 0)", delta).
		Where("id = ?", postID).
		Exec(ctx))
}
