package engagement

import "time"

// An ActorKind tells which directory an actor identifier belongs to.
type ActorKind string

const (
	Individual   ActorKind = "individual"
	Organization ActorKind = "organization"
)

// Valid reports whether k is a known actor kind.
func (k ActorKind) Valid() bool {
	return k == Individual || k == Organization
}

// ActorRef identifies an actor together with its kind.
type ActorRef struct {
	ID   string    `json:"id"`
	Kind ActorKind `json:"kind"`
}

// A ReactionType is one of the fixed reaction categories.
type ReactionType string

const (
	Like       ReactionType = "like"
	Love       ReactionType = "love"
	Celebrate  ReactionType = "celebrate"
	Support    ReactionType = "support"
	Insightful ReactionType = "insightful"
	Funny      ReactionType = "funny"
)

// ReactionTypes lists every reaction type in display order.
var ReactionTypes = []ReactionType{Like, Love, Celebrate, Support, Insightful, Funny}

// Valid reports whether t is one of ReactionTypes.
func (t ReactionType) Valid() bool {
	for _, rt := range ReactionTypes {
		if rt == t {
			return true
		}
	}
	return false
}

// Visibility controls who may see a post.
type Visibility string

const (
	Public          Visibility = "public"
	ConnectionsOnly Visibility = "connections"
	Private         Visibility = "private"
)

// Valid reports whether v is a known visibility.
func (v Visibility) Valid() bool {
	return v == Public || v == ConnectionsOnly || v == Private
}

// TargetKind is the kind of content a reaction applies to.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// ReactionCounts holds one counter per reaction type.
type ReactionCounts map[ReactionType]int

// NewReactionCounts returns counts with every reaction type set to zero.
func NewReactionCounts() ReactionCounts {
	c := make(ReactionCounts, len(ReactionTypes))
	for _, t := range ReactionTypes {
		c[t] = 0
	}
	return c
}

// Total returns the sum of all counters.
func (c ReactionCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// A Post is a piece of top level content. ParentID is set when the post
// reposts another post.
type Post struct {
	ID           string
	Author       ActorRef
	ParentID     string
	Text         string
	Media        []string
	Reactions    ReactionCounts
	CommentCount int
	ShareCount   int
	Tags         []string
	Visibility   Visibility
	CreatedAt    time.Time
}

// PostPatch carries the fields of a partial post update. Nil fields are left
// untouched.
type PostPatch struct {
	Text       *string
	Media      *[]string
	Tags       *[]string
	Visibility *Visibility
}

// Empty reports whether the patch changes nothing.
func (p PostPatch) Empty() bool {
	return p.Text == nil && p.Media == nil && p.Tags == nil && p.Visibility == nil
}

// A Comment belongs to a post. Replies are comments whose ParentID is the id
// of another comment on the same post.
type Comment struct {
	ID            string
	Author        ActorRef
	PostID        string
	ParentID      string
	Text          string
	Tags          []string
	ReactionCount int
	ReplyIDs      []string
	CreatedAt     time.Time
}

// CommentPatch carries the fields of a partial comment update.
type CommentPatch struct {
	Text *string
	Tags *[]string
}

// Empty reports whether the patch changes nothing.
func (p CommentPatch) Empty() bool {
	return p.Text == nil && p.Tags == nil
}

// A Reaction is the single reaction an actor holds on a target.
type Reaction struct {
	ID         string
	Actor      ActorRef
	TargetID   string
	TargetKind TargetKind
	Type       ReactionType
	CreatedAt  time.Time
}

// A Save bookmarks a post for an actor.
type Save struct {
	ID        string
	ActorID   string
	PostID    string
	CreatedAt time.Time
}

// Author holds the display attributes of an actor.
type Author struct {
	Name    string
	Picture string
	Bio     string
}

// NewPost is the input of CreatePost.
type NewPost struct {
	Author     ActorRef
	ParentID   string
	Text       string
	Media      []string
	Tags       []string
	Visibility Visibility
}

// NewComment is the input of AddComment. ParentID is the comment being
// replied to, if any.
type NewComment struct {
	PostID   string
	ParentID string
	Author   ActorRef
	Text     string
	Tags     []string
}

// ReactionRequest is the input of SetReaction. An empty TargetKind makes the
// ledger probe posts first and comments second.
type ReactionRequest struct {
	TargetID   string
	TargetKind TargetKind
	Actor      ActorRef
	Selections map[ReactionType]bool
}

// ConnectionStatus is the state of an edge in the social graph.
type ConnectionStatus string

const (
	Connected ConnectionStatus = "connected"
	Following ConnectionStatus = "following"
	Pending   ConnectionStatus = "pending"
	Blocked   ConnectionStatus = "blocked"
)
