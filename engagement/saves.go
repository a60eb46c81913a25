package engagement

import (
	"context"
	"errors"
	"fmt"
)

// SavePost bookmarks a post for actorID. Saving a post twice fails with
// reason AlreadySaved.
func (e *Engine) SavePost(ctx context.Context, postID, actorID string) (err error) {
	defer boundary(&err, "failed to save post")

	if err := checkID("post id", postID); err != nil {
		return err
	}
	if err := checkID("actor id", actorID); err != nil {
		return err
	}
	if _, err := e.visiblePost(ctx, e.store, actorID, postID); err != nil {
		return err
	}

	_, err = e.store.InsertSave(ctx, Save{
		ActorID:   actorID,
		PostID:    postID,
		CreatedAt: e.now().UTC(),
	})
	if errors.Is(err, ErrDuplicate) {
		return badRequest(ReasonAlreadySaved, "post %s is already saved", postID)
	}
	if err != nil {
		return fmt.Errorf("insert save: %w", err)
	}
	return nil
}

// UnsavePost removes the bookmark of actorID on postID.
func (e *Engine) UnsavePost(ctx context.Context, postID, actorID string) (err error) {
	defer boundary(&err, "failed to unsave post")

	if err := checkID("post id", postID); err != nil {
		return err
	}
	if err := checkID("actor id", actorID); err != nil {
		return err
	}

	err = e.store.DeleteSave(ctx, actorID, postID)
	if errors.Is(err, ErrNoRecord) {
		return notFound(ReasonSaveMissing, "post %s is not saved", postID)
	}
	if err != nil {
		return fmt.Errorf("delete save: %w", err)
	}
	return nil
}
