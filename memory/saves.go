package memory

import (
	"context"

	"github.com/GetStream/engagement-backend/engagement"
	"github.com/google/uuid"
)

// InsertSave implements engagement.Store.
func (s *Store) InsertSave(_ context.Context, sv engagement.Save) (engagement.Save, error) {
	sv.ID = uuid.NewString()
	err := s.do(func(st *state) error {
		for _, existing := range st.saves {
			if existing.ActorID == sv.ActorID && existing.PostID == sv.PostID {
				return engagement.ErrDuplicate
			}
		}
		st.saves[sv.ID] = sv
		return nil
	})
	return sv, err
}

// DeleteSave implements engagement.Store.
func (s *Store) DeleteSave(_ context.Context, actorID, postID string) error {
	return s.do(func(st *state) error {
		for id, sv := range st.saves {
			if sv.ActorID == actorID && sv.PostID == postID {
				delete(st.saves, id)
				return nil
			}
		}
		return engagement.ErrNoRecord
	})
}

// DeleteSavesOf implements engagement.Store.
func (s *Store) DeleteSavesOf(_ context.Context, postID string) error {
	return s.do(func(st *state) error {
		for id, sv := range st.saves {
			if sv.PostID == postID {
				delete(st.saves, id)
			}
		}
		return nil
	})
}

// SavedAmong implements engagement.Store.
func (s *Store) SavedAmong(_ context.Context, actorID string, postIDs []string) (map[string]bool, error) {
	posts := toSet(postIDs)
	out := make(map[string]bool)
	err := s.do(func(st *state) error {
		for _, sv := range st.saves {
			if sv.ActorID == actorID && posts[sv.PostID] {
				out[sv.PostID] = true
			}
		}
		return nil
	})
	return out, err
}

// SaveCount returns the number of saves held by actorID.
func (s *Store) SaveCount(actorID string) int {
	n := 0
	_ = s.do(func(st *state) error {
		for _, sv := range st.saves {
			if sv.ActorID == actorID {
				n++
			}
		}
		return nil
	})
	return n
}
