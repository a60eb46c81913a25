package engagement

import "time"

// AuthorView is the author block embedded in every enriched response.
type AuthorView struct {
	ID      string    `json:"id"`
	Kind    ActorKind `json:"kind"`
	Name    string    `json:"name"`
	Picture string    `json:"picture"`
	Bio     string    `json:"bio"`
}

func newAuthorView(ref ActorRef, a Author) AuthorView {
	return AuthorView{
		ID:      ref.ID,
		Kind:    ref.Kind,
		Name:    a.Name,
		Picture: a.Picture,
		Bio:     a.Bio,
	}
}

// A PostView is a post enriched for a particular viewer.
type PostView struct {
	ID             string         `json:"id"`
	Author         AuthorView     `json:"author"`
	ParentID       string         `json:"parent_id,omitempty"`
	Text           string         `json:"text"`
	Media          []string       `json:"media"`
	Reactions      ReactionCounts `json:"reactions"`
	CommentCount   int            `json:"comment_count"`
	ShareCount     int            `json:"share_count"`
	Tags           []string       `json:"tags"`
	Visibility     Visibility     `json:"visibility"`
	CreatedAt      time.Time      `json:"created_at"`
	ViewerReaction *ReactionType  `json:"viewer_reaction"`
	Saved          bool           `json:"saved"`
}

func newPostView(p Post, author AuthorView) PostView {
	media := p.Media
	if media == nil {
		media = []string{}
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	counts := NewReactionCounts()
	for t, n := range p.Reactions {
		counts[t] = n
	}
	return PostView{
		ID:           p.ID,
		Author:       author,
		ParentID:     p.ParentID,
		Text:         p.Text,
		Media:        media,
		Reactions:    counts,
		CommentCount: p.CommentCount,
		ShareCount:   p.ShareCount,
		Tags:         tags,
		Visibility:   p.Visibility,
		CreatedAt:    p.CreatedAt,
	}
}

// A CommentView is a comment enriched for a particular viewer.
type CommentView struct {
	ID             string        `json:"id"`
	Author         AuthorView    `json:"author"`
	PostID         string        `json:"post_id"`
	ParentID       string        `json:"parent_id,omitempty"`
	Text           string        `json:"text"`
	Tags           []string      `json:"tags"`
	ReactionCount  int           `json:"reaction_count"`
	ReplyIDs       []string      `json:"reply_ids"`
	CreatedAt      time.Time     `json:"created_at"`
	ViewerReaction *ReactionType `json:"viewer_reaction"`
}

func newCommentView(c Comment, author AuthorView) CommentView {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	replies := c.ReplyIDs
	if replies == nil {
		replies = []string{}
	}
	return CommentView{
		ID:            c.ID,
		Author:        author,
		PostID:        c.PostID,
		ParentID:      c.ParentID,
		Text:          c.Text,
		Tags:          tags,
		ReactionCount: c.ReactionCount,
		ReplyIDs:      replies,
		CreatedAt:     c.CreatedAt,
	}
}

// Target is the content returned by SetReaction after the change applied.
// Exactly one of Post and Comment is set.
type Target struct {
	Kind    TargetKind   `json:"kind"`
	Post    *PostView    `json:"post,omitempty"`
	Comment *CommentView `json:"comment,omitempty"`
}

// PageRequest selects a page of a listing. Page is 1-based.
type PageRequest struct {
	Page  int
	Limit int
}

// Pagination describes where a page sits in the full result set.
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// A Page is one window of a paginated listing. Data is never nil.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

func newPage[T any](data []T, page, limit, total int) Page[T] {
	if data == nil {
		data = []T{}
	}
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Page[T]{
		Data: data,
		Pagination: Pagination{
			CurrentPage:  page,
			TotalPages:   pages,
			TotalItems:   total,
			ItemsPerPage: limit,
		},
	}
}
