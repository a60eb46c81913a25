package engagement

import (
	"context"
	"errors"
)

var (
	// ErrNoRecord is returned by stores and directories when a row is absent.
	ErrNoRecord = errors.New("no record")

	// ErrDuplicate is returned by stores when a unique constraint rejects a
	// write.
	ErrDuplicate = errors.New("duplicate record")
)

// PostFilter selects posts for a listing. Viewer and Network always apply
// the visibility rule; the remaining fields narrow the base set when set.
type PostFilter struct {
	Viewer   string
	Network  []string
	AuthorID string
	SavedBy  string
	ParentID string
	Query    string
}

// PostStore persists posts and their counters.
type PostStore interface {
	InsertPost(ctx context.Context, p Post) (Post, error)
	GetPost(ctx context.Context, id string) (Post, error)
	UpdatePost(ctx context.Context, id string, patch PostPatch) (Post, error)
	// DeletePost removes the post when authorID wrote it and returns the
	// removed row. It returns ErrNoRecord when nothing was deleted.
	DeletePost(ctx context.Context, id, authorID string) (Post, error)
	// ListPosts returns one window of the matching posts, newest first, and
	// the number of matching posts.
	ListPosts(ctx context.Context, f PostFilter, limit, offset int) ([]Post, int, error)
	AdjustPostReaction(ctx context.Context, postID string, t ReactionType, delta int) error
	AdjustCommentCount(ctx context.Context, postID string, delta int) error
	AdjustShareCount(ctx context.Context, postID string, delta int) error
}

// CommentStore persists comments and replies.
type CommentStore interface {
	InsertComment(ctx context.Context, c Comment) (Comment, error)
	GetComment(ctx context.Context, id string) (Comment, error)
	UpdateComment(ctx context.Context, id string, patch CommentPatch) (Comment, error)
	// CommentThread returns id followed by the ids of all its descendants.
	CommentThread(ctx context.Context, id string) ([]string, error)
	CommentIDsOf(ctx context.Context, postID string) ([]string, error)
	ListComments(ctx context.Context, postID, parentID string, limit, offset int) ([]Comment, int, error)
	DeleteComments(ctx context.Context, ids []string) (int, error)
	DeleteCommentsOf(ctx context.Context, postID string) error
	AppendReply(ctx context.Context, parentID, replyID string) error
	RemoveReply(ctx context.Context, parentID, replyID string) error
	AdjustCommentReaction(ctx context.Context, commentID string, delta int) error
}

// ReactionStore persists reaction records.
type ReactionStore interface {
	// LockReaction serializes writers of the (actor, target) pair until the
	// enclosing transaction ends.
	LockReaction(ctx context.Context, actorID, targetID string) error
	GetReaction(ctx context.Context, actorID, targetID string) (Reaction, error)
	InsertReaction(ctx context.Context, r Reaction) (Reaction, error)
	DeleteReaction(ctx context.Context, id string) error
	DeleteReactionsOn(ctx context.Context, targetIDs []string) error
	// ViewerReactions maps target id to the actor's reaction type for the
	// given targets the actor reacted to.
	ViewerReactions(ctx context.Context, actorID string, targetIDs []string) (map[string]ReactionType, error)
}

// SaveStore persists bookmarks.
type SaveStore interface {
	InsertSave(ctx context.Context, s Save) (Save, error)
	// DeleteSave returns ErrNoRecord when no save matched.
	DeleteSave(ctx context.Context, actorID, postID string) error
	DeleteSavesOf(ctx context.Context, postID string) error
	SavedAmong(ctx context.Context, actorID string, postIDs []string) (map[string]bool, error)
}

// Store is the persistence boundary of the engine.
type Store interface {
	PostStore
	CommentStore
	ReactionStore
	SaveStore

	// InTx runs fn against a store bound to a single transaction. Writes made
	// through that store are committed together when fn returns nil and
	// discarded otherwise.
	InTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}

// A Directory returns display attributes of one kind of actor. Lookup
// returns ErrNoRecord for unknown ids.
type Directory interface {
	Lookup(ctx context.Context, id string) (Author, error)
}

// AuthorCache caches resolved authors across requests.
type AuthorCache interface {
	GetAuthor(ctx context.Context, ref ActorRef) (Author, bool, error)
	SetAuthor(ctx context.Context, ref ActorRef, a Author) error
}

// Graph answers questions about the external social graph.
type Graph interface {
	ConnectionsOf(ctx context.Context, actorID string) ([]string, error)
	FollowingOf(ctx context.Context, actorID string) ([]string, error)
}

// Event names carried by notifications.
const (
	EventComment  = "comment.created"
	EventReaction = "reaction.set"
)

// A Notification informs an actor about activity on their content.
type Notification struct {
	Recipient string       `json:"recipient"`
	Event     string       `json:"event"`
	Actor     ActorRef     `json:"actor"`
	PostID    string       `json:"post_id,omitempty"`
	CommentID string       `json:"comment_id,omitempty"`
	Reaction  ReactionType `json:"reaction,omitempty"`
}

// Notifier delivers notifications. Failures never fail the operation that
// produced the notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
