package postgres

import (
	"context"
	"fmt"

	"github.com/GetStream/engagement-backend/engagement"
	"github.com/uptrace/bun"
)

// LockReaction takes a transaction scoped advisory lock on the (actor,
// target) pair.
func (pg *Postgres) LockReaction(ctx context.Context, actorID, targetID string) error {
	_, err := pg.bun.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", actorID+"/"+targetID)
	if err != nil {
		return fmt.Errorf("advisory lock: %w", err)
	}
	return nil
}

// GetReaction returns the reaction of actorID on targetID.
func (pg *Postgres) GetReaction(ctx context.Context, actorID, targetID string) (engagement.Reaction, error) {
	m := new(reaction)
	err := pg.bun.NewSelect().
		Model(m).
		Where("r.actor_id = ?", actorID).
		Where("r.target_id = ?", targetID).
		Scan(ctx)
	if err != nil {
		return engagement.Reaction{}, scanned(err)
	}
	return m.Reaction(), nil
}

// InsertReaction inserts a reaction into the database.
func (pg *Postgres) InsertReaction(ctx context.Context, r engagement.Reaction) (engagement.Reaction, error) {
	m := &reaction{
		ActorID:    r.Actor.ID,
		ActorKind:  string(r.Actor.Kind),
		TargetID:   r.TargetID,
		TargetKind: string(r.TargetKind),
		Type:       string(r.Type),
		CreatedAt:  r.CreatedAt,
	}
	if _, err := pg.bun.NewInsert().Model(m).Returning("*").Exec(ctx); err != nil {
		if uniqueViolation(err) {
			return engagement.Reaction{}, engagement.ErrDuplicate
		}
		return engagement.Reaction{}, fmt.Errorf("insert: %w", err)
	}
	return m.Reaction(), nil
}

// DeleteReaction deletes a reaction by id.
func (pg *Postgres) DeleteReaction(ctx context.Context, id string) error {
	return affected(pg.bun.NewDelete().
		Model((*reaction)(nil)).
		Where("id = ?", id).
		Exec(ctx))
}

// DeleteReactionsOn deletes every reaction on the given targets.
func (pg *Postgres) DeleteReactionsOn(ctx context.Context, targetIDs []string) error {
	if len(targetIDs) == 0 {
		return nil
	}
	_, err := pg.bun.NewDelete().
		Model((*reaction)(nil)).
		Where("target_id IN (?)", bun.In(targetIDs)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// ViewerReactions returns the reaction type actorID holds on each of the
// given targets it reacted to.
func (pg *Postgres) ViewerReactions(ctx context.Context, actorID string, targetIDs []string) (map[string]engagement.ReactionType, error) {
	out := make(map[string]engagement.ReactionType)
	if len(targetIDs) == 0 {
		return out, nil
	}
	var rows []reaction
	err := pg.bun.NewSelect().
		Model(&rows).
		Column("target_id", "type").
		Where("r.actor_id = ?", actorID).
		Where("r.target_id IN (?)", bun.In(targetIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	for _, r := range rows {
		out[r.TargetID] = engagement.ReactionType(r.Type)
	}
	return out, nil
}
