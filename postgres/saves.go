package postgres

import (
	"context"
	"fmt"

	"github.com/GetStream/engagement-backend/engagement"
	"github.com/uptrace/bun"
)

// InsertSave inserts a save. A second save of the same post by the same actor
// fails with engagement.ErrDuplicate.
func (pg *Postgres) InsertSave(ctx context.Context, s engagement.Save) (engagement.Save, error) {
	m := &save{
		ActorID:   s.ActorID,
		PostID:    s.PostID,
		CreatedAt: s.CreatedAt,
	}
	if _, err := pg.bun.NewInsert().Model(m).Returning("*").Exec(ctx); err != nil {
		if uniqueViolation(err) {
			return engagement.Save{}, engagement.ErrDuplicate
		}
		return engagement.Save{}, fmt.Errorf("insert: %w", err)
	}
	return m.Save(), nil
}

// DeleteSave deletes the save of postID by actorID.
func (pg *Postgres) DeleteSave(ctx context.Context, actorID, postID string) error {
	return affected(pg.bun.NewDelete().
		Model((*save)(nil)).
		Where("actor_id = ?", actorID).
		Where("post_id = ?", postID).
		Exec(ctx))
}

// DeleteSavesOf deletes every save of a post.
func (pg *Postgres) DeleteSavesOf(ctx context.Context, postID string) error {
	_, err := pg.bun.NewDelete().
		Model((*save)(nil)).
		Where("post_id = ?", postID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// SavedAmong reports which of the given posts actorID saved.
func (pg *Postgres) SavedAmong(ctx context.Context, actorID string, postIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if len(postIDs) == 0 {
		return out, nil
	}
	var ids []string
	err := pg.bun.NewSelect().
		Model((*save)(nil)).
		Column("post_id").
		Where("actor_id = ?", actorID).
		Where("post_id IN (?)", bun.In(postIDs)).
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
