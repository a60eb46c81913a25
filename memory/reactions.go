package memory

import (
	"context"

	"github.com/GetStream/engagement-backend/engagement"
	"github.com/google/uuid"
)

// LockReaction implements engagement.Store. Transactions already run one
// at a time.
func (s *Store) LockReaction(context.Context, string, string) error {
	return nil
}

// GetReaction implements engagement.Store.
func (s *Store) GetReaction(_ context.Context, actorID, targetID string) (engagement.Reaction, error) {
	var out engagement.Reaction
	err := s.do(func(st *state) error {
		for _, r := range st.reactions {
			if r.Actor.ID == actorID && r.TargetID == targetID {
				out = r
				return nil
			}
		}
		return engagement.ErrNoRecord
	})
	return out, err
}

// InsertReaction implements engagement.Store.
func (s *Store) InsertReaction(_ context.Context, r engagement.Reaction) (engagement.Reaction, error) {
	r.ID = uuid.NewString()
	err := s.do(func(st *state) error {
		for _, existing := range st.reactions {
			if existing.Actor.ID == r.Actor.ID && existing.TargetID == r.TargetID {
				return engagement.ErrDuplicate
			}
		}
		st.reactions[r.ID] = r
		return nil
	})
	return r, err
}

// DeleteReaction implements engagement.Store.
func (s *Store) DeleteReaction(_ context.Context, id string) error {
	return s.do(func(st *state) error {
		if _, ok := st.reactions[id]; !ok {
			return engagement.ErrNoRecord
		}
		delete(st.reactions, id)
		return nil
	})
}

// DeleteReactionsOn implements engagement.Store.
func (s *Store) DeleteReactionsOn(_ context.Context, targetIDs []string) error {
	targets := toSet(targetIDs)
	return s.do(func(st *state) error {
		for id, r := range st.reactions {
			if targets[r.TargetID] {
				delete(st.reactions, id)
			}
		}
		return nil
	})
}

// ViewerReactions implements engagement.Store.
func (s *Store) ViewerReactions(_ context.Context, actorID string, targetIDs []string) (map[string]engagement.ReactionType, error) {
	targets := toSet(targetIDs)
	out := make(map[string]engagement.ReactionType)
	err := s.do(func(st *state) error {
		for _, r := range st.reactions {
			if r.Actor.ID == actorID && targets[r.TargetID] {
				out[r.TargetID] = r.Type
			}
		}
		return nil
	})
	return out, err
}

// Reactions returns every live reaction on targetID.
func (s *Store) Reactions(targetID string) []engagement.Reaction {
	var out []engagement.Reaction
	_ = s.do(func(st *state) error {
		for _, r := range st.reactions {
			if r.TargetID == targetID {
				out = append(out, r)
			}
		}
		return nil
	})
	return out
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
