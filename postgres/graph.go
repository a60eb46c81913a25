package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/GetStream/engagement-backend/engagement"
	"github.com/uptrace/bun"
)

// A connection is an edge of the social graph owned by the network service.
// Connected edges count for both ends; other statuses are directed from
// requester to recipient.
type connection struct {
	bun.BaseModel `bun:"table:connections,alias:cn"`

	RequesterID string    `bun:",pk,type:uuid"`
	RecipientID string    `bun:",pk,type:uuid"`
	Status      string    `bun:",notnull"`
	CreatedAt   time.Time `bun:",nullzero,notnull,default:now()"`
}

// Graph reads the connections table.
type Graph struct {
	pg *Postgres
}

var _ engagement.Graph = (*Graph)(nil)

// Graph returns the social graph gateway.
func (pg *Postgres) Graph() *Graph {
	return &Graph{pg: pg}
}

// ConnectionsOf returns the actors connected to actorID.
func (g *Graph) ConnectionsOf(ctx context.Context, actorID string) ([]string, error) {
	var ids []string
	err := g.pg.bun.NewSelect().
		Model((*connection)(nil)).
		ColumnExpr("CASE WHEN cn.requester_id = ? THEN cn.recipient_id ELSE cn.requester_id END", actorID).
		Where("cn.status = ?", string(engagement.Connected)).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("cn.requester_id = ?", actorID).WhereOr("cn.recipient_id = ?", actorID)
		}).
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return ids, nil
}

// FollowingOf returns the actors actorID follows.
func (g *Graph) FollowingOf(ctx context.Context, actorID string) ([]string, error) {
	var ids []string
	err := g.pg.bun.NewSelect().
		Model((*connection)(nil)).
		Column("recipient_id").
		Where("requester_id = ?", actorID).
		Where("status = ?", string(engagement.Following)).
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return ids, nil
}
