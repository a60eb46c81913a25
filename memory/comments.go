package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/GetStream/engagement-backend/engagement"
	"github.com/google/uuid"
)

// InsertComment implements engagement.Store.
func (s *Store) InsertComment(_ context.Context, c engagement.Comment) (engagement.Comment, error) {
	c = copyComment(c)
	c.ID = uuid.NewString()
	err := s.do(func(st *state) error {
		st.comments[c.ID] = c
		return nil
	})
	return copyComment(c), err
}

// GetComment implements engagement.Store.
func (s *Store) GetComment(_ context.Context, id string) (engagement.Comment, error) {
	var out engagement.Comment
	err := s.do(func(st *state) error {
		c, ok := st.comments[id]
		if !ok {
			return engagement.ErrNoRecord
		}
		out = copyComment(c)
		return nil
	})
	return out, err
}

// UpdateComment implements engagement.Store.
func (s *Store) UpdateComment(_ context.Context, id string, patch engagement.CommentPatch) (engagement.Comment, error) {
	var out engagement.Comment
	err := s.do(func(st *state) error {
		c, ok := st.comments[id]
		if !ok {
			return engagement.ErrNoRecord
		}
		if patch.Text != nil {
			c.Text = *patch.Text
		}
		if patch.Tags != nil {
			c.Tags = slices.Clone(*patch.Tags)
		}
		st.comments[id] = c
		out = copyComment(c)
		return nil
	})
	return out, err
}

// CommentThread implements engagement.Store.
func (s *Store) CommentThread(_ context.Context, id string) ([]string, error) {
	var out []string
	err := s.do(func(st *state) error {
		if _, ok := st.comments[id]; !ok {
			return engagement.ErrNoRecord
		}
		queue := []string{id}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			out = append(out, cur)
			for _, c := range st.comments {
				if c.ParentID == cur {
					queue = append(queue, c.ID)
				}
			}
		}
		return nil
	})
	return out, err
}

// CommentIDsOf implements engagement.Store.
func (s *Store) CommentIDsOf(_ context.Context, postID string) ([]string, error) {
	var out []string
	err := s.do(func(st *state) error {
		for id, c := range st.comments {
			if c.PostID == postID {
				out = append(out, id)
			}
		}
		return nil
	})
	return out, err
}

// ListComments implements engagement.Store.
func (s *Store) ListComments(_ context.Context, postID, parentID string, limit, offset int) ([]engagement.Comment, int, error) {
	var (
		out   []engagement.Comment
		total int
	)
	err := s.do(func(st *state) error {
		var matches []engagement.Comment
		for _, c := range st.comments {
			if c.PostID == postID && c.ParentID == parentID {
				matches = append(matches, c)
			}
		}
		sort.Slice(matches, func(i, j int) bool {
			if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
				return matches[i].CreatedAt.Before(matches[j].CreatedAt)
			}
			return matches[i].ID < matches[j].ID
		})
		total = len(matches)
		for _, c := range window(matches, limit, offset) {
			out = append(out, copyComment(c))
		}
		return nil
	})
	return out, total, err
}

// DeleteComments implements engagement.Store.
func (s *Store) DeleteComments(_ context.Context, ids []string) (int, error) {
	n := 0
	err := s.do(func(st *state) error {
		for _, id := range ids {
			if _, ok := st.comments[id]; ok {
				delete(st.comments, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

// DeleteCommentsOf implements engagement.Store.
func (s *Store) DeleteCommentsOf(_ context.Context, postID string) error {
	return s.do(func(st *state) error {
		for id, c := range st.comments {
			if c.PostID == postID {
				delete(st.comments, id)
			}
		}
		return nil
	})
}

// AppendReply implements engagement.Store.
func (s *Store) AppendReply(_ context.Context, parentID, replyID string) error {
	return s.do(func(st *state) error {
		c, ok := st.comments[parentID]
		if !ok {
			return engagement.ErrNoRecord
		}
		c.ReplyIDs = append(c.ReplyIDs, replyID)
		st.comments[parentID] = c
		return nil
	})
}

// RemoveReply implements engagement.Store.
func (s *Store) RemoveReply(_ context.Context, parentID, replyID string) error {
	return s.do(func(st *state) error {
		c, ok := st.comments[parentID]
		if !ok {
			return engagement.ErrNoRecord
		}
		c.ReplyIDs = slices.DeleteFunc(c.ReplyIDs, func(id string) bool { return id == replyID })
		st.comments[parentID] = c
		return nil
	})
}

// AdjustCommentReaction implements engagement.Store.
func (s *Store) AdjustCommentReaction(_ context.Context, commentID string, delta int) error {
	return s.do(func(st *state) error {
		c, ok := st.comments[commentID]
		if !ok {
			return engagement.ErrNoRecord
		}
		c.ReactionCount = max(c.ReactionCount+delta, 0)
		st.comments[commentID] = c
		return nil
	})
}
