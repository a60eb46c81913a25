// Package memory provides in-process implementations of the engagement
// store, the author directories and the social graph. It backs tests and
// local development.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/GetStream/engagement-backend/engagement"
	"github.com/google/uuid"
)

type state struct {
	posts     map[string]engagement.Post
	comments  map[string]engagement.Comment
	reactions map[string]engagement.Reaction
	saves     map[string]engagement.Save
}

func newState() *state {
	return &state{
		posts:     make(map[string]engagement.Post),
		comments:  make(map[string]engagement.Comment),
		reactions: make(map[string]engagement.Reaction),
		saves:     make(map[string]engagement.Save),
	}
}

func (st *state) clone() *state {
	out := newState()
	for id, p := range st.posts {
		out.posts[id] = copyPost(p)
	}
	for id, c := range st.comments {
		out.comments[id] = copyComment(c)
	}
	for id, r := range st.reactions {
		out.reactions[id] = r
	}
	for id, s := range st.saves {
		out.saves[id] = s
	}
	return out
}

func copyPost(p engagement.Post) engagement.Post {
	p.Media = slices.Clone(p.Media)
	p.Tags = slices.Clone(p.Tags)
	counts := make(engagement.ReactionCounts, len(p.Reactions))
	for t, n := range p.Reactions {
		counts[t] = n
	}
	p.Reactions = counts
	return p
}

func copyComment(c engagement.Comment) engagement.Comment {
	c.Tags = slices.Clone(c.Tags)
	c.ReplyIDs = slices.Clone(c.ReplyIDs)
	return c
}

type db struct {
	mu sync.Mutex
	st *state
}

// Store is an in-memory engagement.Store. Transactions run one at a time on
// a copy of the data that replaces the original on success.
type Store struct {
	db *db
	tx *state
}

var _ engagement.Store = (*Store)(nil)

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{db: &db{st: newState()}}
}

func (s *Store) do(fn func(st *state) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	return fn(s.db.st)
}

// InTx implements engagement.Store.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, s engagement.Store) error) error {
	if s.tx != nil {
		return fn(ctx, s)
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	tx := s.db.st.clone()
	if err := fn(ctx, &Store{db: s.db, tx: tx}); err != nil {
		return err
	}
	s.db.st = tx
	return nil
}

// InsertPost implements engagement.Store.
func (s *Store) InsertPost(_ context.Context, p engagement.Post) (engagement.Post, error) {
	p = copyPost(p)
	p.ID = uuid.NewString()
	err := s.do(func(st *state) error {
		st.posts[p.ID] = p
		return nil
	})
	return copyPost(p), err
}

// GetPost implements engagement.Store.
func (s *Store) GetPost(_ context.Context, id string) (engagement.Post, error) {
	var out engagement.Post
	err := s.do(func(st *state) error {
		p, ok := st.posts[id]
		if !ok {
			return engagement.ErrNoRecord
		}
		out = copyPost(p)
		return nil
	})
	return out, err
}

// UpdatePost implements engagement.Store.
func (s *Store) UpdatePost(_ context.Context, id string, patch engagement.PostPatch) (engagement.Post, error) {
	var out engagement.Post
	err := s.do(func(st *state) error {
		p, ok := st.posts[id]
		if !ok {
			return engagement.ErrNoRecord
		}
		if patch.Text != nil {
			p.Text = *patch.Text
		}
		if patch.Media != nil {
			p.Media = slices.Clone(*patch.Media)
		}
		if patch.Tags != nil {
			p.Tags = slices.Clone(*patch.Tags)
		}
		if patch.Visibility != nil {
			p.Visibility = *patch.Visibility
		}
		st.posts[id] = p
		out = copyPost(p)
		return nil
	})
	return out, err
}

// DeletePost implements engagement.Store.
func (s *Store) DeletePost(_ context.Context, id, authorID string) (engagement.Post, error) {
	var out engagement.Post
	err := s.do(func(st *state) error {
		p, ok := st.posts[id]
		if !ok || p.Author.ID != authorID {
			return engagement.ErrNoRecord
		}
		delete(st.posts, id)
		out = p
		return nil
	})
	return out, err
}

// ListPosts implements engagement.Store.
func (s *Store) ListPosts(_ context.Context, f engagement.PostFilter, limit, offset int) ([]engagement.Post, int, error) {
	var (
		out   []engagement.Post
		total int
	)
	err := s.do(func(st *state) error {
		saved := make(map[string]bool)
		if f.SavedBy != "" {
			for _, sv := range st.saves {
				if sv.ActorID == f.SavedBy {
					saved[sv.PostID] = true
				}
			}
		}
		query := strings.ToLower(f.Query)

		var matches []engagement.Post
		for _, p := range st.posts {
			if !engagement.Visible(p, f.Viewer, f.Network) {
				continue
			}
			if f.AuthorID != "" && p.Author.ID != f.AuthorID {
				continue
			}
			if f.SavedBy != "" && !saved[p.ID] {
				continue
			}
			if f.ParentID != "" && p.ParentID != f.ParentID {
				continue
			}
			if query != "" && !strings.Contains(strings.ToLower(p.Text), query) && !slices.Contains(p.Tags, f.Query) {
				continue
			}
			matches = append(matches, p)
		}
		sort.Slice(matches, func(i, j int) bool {
			if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
				return matches[i].CreatedAt.After(matches[j].CreatedAt)
			}
			return matches[i].ID > matches[j].ID
		})

		total = len(matches)
		for _, p := range window(matches, limit, offset) {
			out = append(out, copyPost(p))
		}
		return nil
	})
	return out, total, err
}

// AdjustPostReaction implements engagement.Store.
func (s *Store) AdjustPostReaction(_ context.Context, postID string, t engagement.ReactionType, delta int) error {
	return s.do(func(st *state) error {
		p, ok := st.posts[postID]
		if !ok {
			return engagement.ErrNoRecord
		}
		if p.Reactions == nil {
			p.Reactions = engagement.NewReactionCounts()
		}
		p.Reactions[t] = max(p.Reactions[t]+delta, 0)
		st.posts[postID] = p
		return nil
	})
}

// AdjustCommentCount implements engagement.Store.
func (s *Store) AdjustCommentCount(_ context.Context, postID string, delta int) error {
	return s.do(func(st *state) error {
		p, ok := st.posts[postID]
		if !ok {
			return engagement.ErrNoRecord
		}
		p.CommentCount = max(p.CommentCount+delta, 0)
		st.posts[postID] = p
		return nil
	})
}

// AdjustShareCount implements engagement.Store.
func (s *Store) AdjustShareCount(_ context.Context, postID string, delta int) error {
	return s.do(func(st *state) error {
		p, ok := st.posts[postID]
		if !ok {
			return engagement.ErrNoRecord
		}
		p.ShareCount = max(p.ShareCount+delta, 0)
		st.posts[postID] = p
		return nil
	})
}

func window[T any](items []T, limit, offset int) []T {
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return items[offset:end]
}
