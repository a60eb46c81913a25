package postgres

import (
	"context"
	"fmt"
)

var models = []any{
	(*post)(nil),
	(*comment)(nil),
	(*reaction)(nil),
	(*save)(nil),
	(*profile)(nil),
	(*company)(nil),
	(*connection)(nil),
}

type index struct {
	model   any
	name    string
	unique  bool
	columns []string
}

var indexes = []index{
	{(*post)(nil), "posts_created_at_idx", false, []string{"created_at"}},
	{(*post)(nil), "posts_author_id_idx", false, []string{"author_id"}},
	{(*post)(nil), "posts_parent_id_idx", false, []string{"parent_id"}},
	{(*comment)(nil), "comments_post_id_idx", false, []string{"post_id", "parent_id"}},
	{(*comment)(nil), "comments_parent_id_idx", false, []string{"parent_id"}},
	{(*reaction)(nil), "reactions_actor_target_key", true, []string{"actor_id", "target_id"}},
	{(*reaction)(nil), "reactions_target_id_idx", false, []string{"target_id"}},
	{(*save)(nil), "saves_actor_post_key", true, []string{"actor_id", "post_id"}},
	{(*save)(nil), "saves_post_id_idx", false, []string{"post_id"}},
}

// Migrate creates the tables and indexes used by the engine when they do not
// exist yet. The unique indexes on reactions and saves back the one reaction
// per actor and target and the one save per actor and post rules.
func (pg *Postgres) Migrate(ctx context.Context) error {
	if _, err := pg.bun.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`); err != nil {
		return fmt.Errorf("create extension: %w", err)
	}
	for _, m := range models {
		if _, err := pg.bun.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	for _, idx := range indexes {
		q := pg.bun.NewCreateIndex().
			Model(idx.model).
			Index(idx.name).
			Column(idx.columns...).
			IfNotExists()
		if idx.unique {
			q = q.Unique()
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}
