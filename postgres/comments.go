package postgres

import (
	"context"
	"fmt"

	"github.com/GetStream/engagement-backend/engagement"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// InsertComment inserts a comment. The returned comment holds auto generated
// fields, such as the comment id.
func (pg *Postgres) InsertComment(ctx context.Context, c engagement.Comment) (engagement.Comment, error) {
	m := newComment(c)
	if _, err := pg.bun.NewInsert().Model(m).Returning("*").Exec(ctx); err != nil {
		return engagement.Comment{}, fmt.Errorf("insert: %w", err)
	}
	return m.Comment(), nil
}

// GetComment returns a comment by id.
func (pg *Postgres) GetComment(ctx context.Context, id string) (engagement.Comment, error) {
	m := new(comment)
	if err := pg.bun.NewSelect().Model(m).Where("c.id = ?", id).Scan(ctx); err != nil {
		return engagement.Comment{}, scanned(err)
	}
	return m.Comment(), nil
}

// UpdateComment sets the fields present in patch.
func (pg *Postgres) UpdateComment(ctx context.Context, id string, patch engagement.CommentPatch) (engagement.Comment, error) {
	if patch.Empty() {
		return pg.GetComment(ctx, id)
	}
	q := pg.bun.NewUpdate().Model((*comment)(nil)).Where("id = ?", id)
	if patch.Text != nil {
		q = q.Set("body = ?", *patch.Text)
	}
	if patch.Tags != nil {
		q = q.Set("tags = ?", pgdialect.Array(*patch.Tags))
	}

	m := new(comment)
	if err := affected(q.Returning("*").Exec(ctx, m)); err != nil {
		return engagement.Comment{}, err
	}
	return m.Comment(), nil
}

// CommentThread returns id and the ids of every reply below it.
func (pg *Postgres) CommentThread(ctx context.Context, id string) ([]string, error) {
	var ids []string
	err := pg.bun.NewRaw(`
		WITH RECURSIVE thread AS (
			SELECT id, 0 AS depth FROM comments WHERE id = ?
			UNION ALL
			SELECT c.id, t.depth + 1 FROM comments c JOIN thread t ON c.parent_id = t.id
		)
		SELECT id FROM thread ORDER BY depth`, id).
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(ids) == 0 {
		return nil, engagement.ErrNoRecord
	}
	return ids, nil
}

// CommentIDsOf returns the ids of every comment on a post.
func (pg *Postgres) CommentIDsOf(ctx context.Context, postID string) ([]string, error) {
	var ids []string
	err := pg.bun.NewSelect().
		Model((*comment)(nil)).
		Column("id").
		Where("post_id = ?", postID).
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return ids, nil
}

// ListComments returns the comments of a post directly under parentID, or
// the top level comments when parentID is empty, oldest first.
func (pg *Postgres) ListComments(ctx context.Context, postID, parentID string, limit, offset int) ([]engagement.Comment, int, error) {
	var rows []comment
	q := pg.bun.NewSelect().
		Model(&rows).
		Where("c.post_id = ?", postID)
	if parentID == "" {
		q = q.Where("c.parent_id IS NULL")
	} else {
		q = q.Where("c.parent_id = ?", parentID)
	}

	total, err := q.
		Order("c.created_at ASC", "c.id ASC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("scan: %w", err)
	}

	out := make([]engagement.Comment, len(rows))
	for i, r := range rows {
		out[i] = r.Comment()
	}
	return out, total, nil
}

// DeleteComments deletes the given comments and returns how many existed.
func (pg *Postgres) DeleteComments(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := pg.bun.NewDelete().
		Model((*comment)(nil)).
		Where("id IN (?)", bun.In(ids)).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

// DeleteCommentsOf deletes every comment on a post.
func (pg *Postgres) DeleteCommentsOf(ctx context.Context, postID string) error {
	_, err := pg.bun.NewDelete().
		Model((*comment)(nil)).
		Where("post_id = ?", postID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// AppendReply appends replyID to the parent's reply list.
func (pg *Postgres) AppendReply(ctx context.Context, parentID, replyID string) error {
	return affected(pg.bun.NewUpdate().
		Model((*comment)(nil)).
		Set("reply_ids = array_append(reply_ids, ?)", replyID).
		Where("id = ?", parentID).
		Exec(ctx))
}

// RemoveReply removes replyID from the parent's reply list.
func (pg *Postgres) RemoveReply(ctx context.Context, parentID, replyID string) error {
	return affected(pg.bun.NewUpdate().
		Model((*comment)(nil)).
		Set("reply_ids = array_remove(reply_ids, ?)", replyID).
		Where("id = ?", parentID).
		Exec(ctx))
}

// AdjustCommentReaction adds delta to the comment's reaction count.
func (pg *Postgres) AdjustCommentReaction(ctx context.Context, commentID string, delta int) error {
	return affected(pg.bun.NewUpdate().
		Model((*comment)(nil)).
		Set("reaction_count = GREATEST(reaction_count + ?, 0)", delta).
		Where("id = ?", commentID).
		Exec(ctx))
}
