package postgres

import (
	"time"

	"github.com/GetStream/engagement-backend/engagement"
	"github.com/uptrace/bun"
)

// A post represents a post in the database. Reactions holds one counter per
// reaction type.
type post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID           string         `bun:",pk,type:uuid,nullzero,default:uuid_generate_v4()"`
	AuthorID     string         `bun:",notnull,type:uuid"`
	AuthorKind   string         `bun:",notnull"`
	ParentID     string         `bun:",type:uuid,nullzero"`
	Body         string         `bun:",notnull"`
	Media        []string       `bun:",array"`
	Reactions    map[string]int `bun:",type:jsonb,notnull,default:'{}'"`
	CommentCount int            `bun:",notnull,default:0"`
	ShareCount   int            `bun:",notnull,default:0"`
	Tags         []string       `bun:",array"`
	Visibility   string         `bun:",notnull"`
	CreatedAt    time.Time      `bun:",nullzero,notnull,default:now()"`
}

func newPost(p engagement.Post) *post {
	counts := make(map[string]int, len(p.Reactions))
	for t, n := range p.Reactions {
		counts[string(t)] = n
	}
	return &post{
		AuthorID:     p.Author.ID,
		AuthorKind:   string(p.Author.Kind),
		ParentID:     p.ParentID,
		Body:         p.Text,
		Media:        p.Media,
		Reactions:    counts,
		CommentCount: p.CommentCount,
		ShareCount:   p.ShareCount,
		Tags:         p.Tags,
		Visibility:   string(p.Visibility),
		CreatedAt:    p.CreatedAt,
	}
}

func (p post) Post() engagement.Post {
	counts := engagement.NewReactionCounts()
	for t, n := range p.Reactions {
		counts[engagement.ReactionType(t)] = n
	}
	return engagement.Post{
		ID:           p.ID,
		Author:       engagement.ActorRef{ID: p.AuthorID, Kind: engagement.ActorKind(p.AuthorKind)},
		ParentID:     p.ParentID,
		Text:         p.Body,
		Media:        p.Media,
		Reactions:    counts,
		CommentCount: p.CommentCount,
		ShareCount:   p.ShareCount,
		Tags:         p.Tags,
		Visibility:   engagement.Visibility(p.Visibility),
		CreatedAt:    p.CreatedAt,
	}
}

// A comment represents a comment or a reply. Replies have ParentID set to
// the comment they answer; ReplyIDs keeps their order.
type comment struct {
	bun.BaseModel `bun:"table:comments,alias:c"`

	ID            string    `bun:",pk,type:uuid,nullzero,default:uuid_generate_v4()"`
	AuthorID      string    `bun:",notnull,type:uuid"`
	AuthorKind    string    `bun:",notnull"`
	PostID        string    `bun:",notnull,type:uuid"`
	ParentID      string    `bun:",type:uuid,nullzero"`
	Body          string    `bun:",notnull"`
	Tags          []string  `bun:",array"`
	ReactionCount int       `bun:",notnull,default:0"`
	ReplyIDs      []string  `bun:",array"`
	CreatedAt     time.Time `bun:",nullzero,notnull,default:now()"`
}

func newComment(c engagement.Comment) *comment {
	return &comment{
		AuthorID:      c.Author.ID,
		AuthorKind:    string(c.Author.Kind),
		PostID:        c.PostID,
		ParentID:      c.ParentID,
		Body:          c.Text,
		Tags:          c.Tags,
		ReactionCount: c.ReactionCount,
		ReplyIDs:      c.ReplyIDs,
		CreatedAt:     c.CreatedAt,
	}
}

func (c comment) Comment() engagement.Comment {
	return engagement.Comment{
		ID:            c.ID,
		Author:        engagement.ActorRef{ID: c.AuthorID, Kind: engagement.ActorKind(c.AuthorKind)},
		PostID:        c.PostID,
		ParentID:      c.ParentID,
		Text:          c.Body,
		Tags:          c.Tags,
		ReactionCount: c.ReactionCount,
		ReplyIDs:      c.ReplyIDs,
		CreatedAt:     c.CreatedAt,
	}
}

type reaction struct {
	bun.BaseModel `bun:"table:reactions,alias:r"`

	ID         string    `bun:",pk,type:uuid,nullzero,default:uuid_generate_v4()"`
	ActorID    string    `bun:",notnull,type:uuid"`
	ActorKind  string    `bun:",notnull"`
	TargetID   string    `bun:",notnull,type:uuid"`
	TargetKind string    `bun:",notnull"`
	Type       string    `bun:",notnull"`
	CreatedAt  time.Time `bun:",nullzero,notnull,default:now()"`
}

func (r reaction) Reaction() engagement.Reaction {
	return engagement.Reaction{
		ID:         r.ID,
		Actor:      engagement.ActorRef{ID: r.ActorID, Kind: engagement.ActorKind(r.ActorKind)},
		TargetID:   r.TargetID,
		TargetKind: engagement.TargetKind(r.TargetKind),
		Type:       engagement.ReactionType(r.Type),
		CreatedAt:  r.CreatedAt,
	}
}

type save struct {
	bun.BaseModel `bun:"table:saves,alias:s"`

	ID        string    `bun:",pk,type:uuid,nullzero,default:uuid_generate_v4()"`
	ActorID   string    `bun:",notnull,type:uuid"`
	PostID    string    `bun:",notnull,type:uuid"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:now()"`
}

func (s save) Save() engagement.Save {
	return engagement.Save{
		ID:        s.ID,
		ActorID:   s.ActorID,
		PostID:    s.PostID,
		CreatedAt: s.CreatedAt,
	}
}
