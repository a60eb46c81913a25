package engagement

import (
	"context"
	"errors"
	"fmt"
)

// SetReaction makes the actor's reaction on a target match req.Selections.
//
// At most one selection may be true. No true selection removes the actor's
// reaction; one true selection creates it, keeps it when the type is
// unchanged, or switches it to the new type. Counters on the target move in
// the same transaction as the reaction record.
func (e *Engine) SetReaction(ctx context.Context, req ReactionRequest) (_ Target, err error) {
	defer boundary(&err, "failed to set reaction")

	chosen, err := chosenReaction(req.Selections)
	if err != nil {
		return Target{}, err
	}
	if err := checkID("target id", req.TargetID); err != nil {
		return Target{}, err
	}
	if err := checkActor("actor", req.Actor); err != nil {
		return Target{}, err
	}

	kind, owner, err := e.resolveTarget(ctx, req.Actor.ID, req.TargetID, req.TargetKind)
	if err != nil {
		return Target{}, err
	}

	var reacted bool
	err = e.store.InTx(ctx, func(ctx context.Context, s Store) error {
		if err := s.LockReaction(ctx, req.Actor.ID, req.TargetID); err != nil {
			return fmt.Errorf("lock reaction: %w", err)
		}
		existing, err := s.GetReaction(ctx, req.Actor.ID, req.TargetID)
		has := err == nil
		if err != nil && !errors.Is(err, ErrNoRecord) {
			return fmt.Errorf("get reaction: %w", err)
		}

		switch {
		case chosen == "" && !has:
			return nil
		case has && existing.Type == chosen:
			return nil
		}

		if has {
			if err := s.DeleteReaction(ctx, existing.ID); err != nil {
				return fmt.Errorf("delete reaction: %w", err)
			}
			if err := adjustTarget(ctx, s, kind, req.TargetID, existing.Type, -1); err != nil {
				return err
			}
		}
		if chosen == "" {
			return nil
		}
		_, err = s.InsertReaction(ctx, Reaction{
			Actor:      req.Actor,
			TargetID:   req.TargetID,
			TargetKind: kind,
			Type:       chosen,
			CreatedAt:  e.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("insert reaction: %w", err)
		}
		if err := adjustTarget(ctx, s, kind, req.TargetID, chosen, 1); err != nil {
			return err
		}
		reacted = true
		return nil
	})
	if err != nil {
		return Target{}, err
	}

	if reacted {
		n := Notification{
			Recipient: owner.ID,
			Event:     EventReaction,
			Actor:     req.Actor,
			Reaction:  chosen,
		}
		if kind == TargetPost {
			n.PostID = req.TargetID
		} else {
			n.CommentID = req.TargetID
		}
		e.notify(ctx, n)
	}

	return e.targetView(ctx, req.Actor.ID, kind, req.TargetID)
}

// chosenReaction validates selections and returns the single selected type,
// or the empty string when nothing is selected.
func chosenReaction(selections map[ReactionType]bool) (ReactionType, error) {
	var chosen ReactionType
	n := 0
	for t, on := range selections {
		if !t.Valid() {
			return "", badRequest(ReasonInvalidReactionType, "unknown reaction type %q", t)
		}
		if on {
			chosen = t
			n++
		}
	}
	if n > 1 {
		return "", badRequest(ReasonMultipleReactions, "only one reaction may be selected, got %d", n)
	}
	return chosen, nil
}

// resolveTarget finds the kind and the author of a target the actor may
// see. With no kind given, post ids are tried before comment ids; the two id
// spaces never overlap.
func (e *Engine) resolveTarget(ctx context.Context, actorID, targetID string, kind TargetKind) (TargetKind, ActorRef, error) {
	if kind == "" || kind == TargetPost {
		p, err := e.visiblePost(ctx, e.store, actorID, targetID)
		if err == nil {
			return TargetPost, p.Author, nil
		}
		if kind == TargetPost || KindOf(err) != KindNotFound {
			return "", ActorRef{}, err
		}
	}
	if kind != "" && kind != TargetComment {
		return "", ActorRef{}, badRequest(ReasonInvalidTargetKind, "invalid target kind %q", kind)
	}

	c, err := e.store.GetComment(ctx, targetID)
	if errors.Is(err, ErrNoRecord) {
		if kind == "" {
			return "", ActorRef{}, notFound(ReasonTargetMissing, "post or comment %s not found", targetID)
		}
		return "", ActorRef{}, notFound(ReasonCommentMissing, "comment %s not found", targetID)
	}
	if err != nil {
		return "", ActorRef{}, fmt.Errorf("get comment: %w", err)
	}
	if _, err := e.visiblePost(ctx, e.store, actorID, c.PostID); err != nil {
		return "", ActorRef{}, notFound(ReasonCommentMissing, "comment %s not found", targetID)
	}
	return TargetComment, c.Author, nil
}

// adjustTarget moves the target's counter. Posts count per type; comments
// keep a single counter regardless of type.
func adjustTarget(ctx context.Context, s Store, kind TargetKind, id string, t ReactionType, delta int) error {
	var err error
	if kind == TargetPost {
		err = s.AdjustPostReaction(ctx, id, t, delta)
	} else {
		err = s.AdjustCommentReaction(ctx, id, delta)
	}
	if errors.Is(err, ErrNoRecord) {
		return notFound(ReasonTargetMissing, "%s %s not found", kind, id)
	}
	if err != nil {
		return fmt.Errorf("adjust %s counter: %w", kind, err)
	}
	return nil
}

func (e *Engine) targetView(ctx context.Context, viewerID string, kind TargetKind, id string) (Target, error) {
	if kind == TargetPost {
		p, err := e.store.GetPost(ctx, id)
		if errors.Is(err, ErrNoRecord) {
			return Target{}, notFound(ReasonPostMissing, "post %s not found", id)
		}
		if err != nil {
			return Target{}, fmt.Errorf("get post: %w", err)
		}
		v, err := e.postView(ctx, viewerID, p)
		if err != nil {
			return Target{}, err
		}
		return Target{Kind: TargetPost, Post: &v}, nil
	}

	c, err := e.store.GetComment(ctx, id)
	if errors.Is(err, ErrNoRecord) {
		return Target{}, notFound(ReasonCommentMissing, "comment %s not found", id)
	}
	if err != nil {
		return Target{}, fmt.Errorf("get comment: %w", err)
	}
	views, err := e.commentViews(ctx, viewerID, []Comment{c})
	if err != nil {
		return Target{}, err
	}
	return Target{Kind: TargetComment, Comment: &views[0]}, nil
}
