package engagement

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// CreatePost publishes a post authored by in.Author. A post that reposts
// another one increments the original's share count.
func (e *Engine) CreatePost(ctx context.Context, in NewPost) (_ PostView, err error) {
	defer boundary(&err, "failed to add post")

	if err := checkActor("author", in.Author); err != nil {
		return PostView{}, err
	}
	if in.Visibility == "" {
		in.Visibility = Public
	}
	if !in.Visibility.Valid() {
		return PostView{}, badRequest(ReasonInvalidVisibility, "invalid visibility %q", in.Visibility)
	}
	if err := checkIDs("tagged user", in.Tags); err != nil {
		return PostView{}, err
	}
	in.Tags = tagSet(in.Tags)
	if in.ParentID != "" {
		if err := checkID("parent post id", in.ParentID); err != nil {
			return PostView{}, err
		}
	}
	if strings.TrimSpace(in.Text) == "" && len(in.Media) == 0 && in.ParentID == "" {
		return PostView{}, badRequest(ReasonEmptyContent, "post needs text, media or a reposted post")
	}

	author, err := e.authors.Resolve(ctx, in.Author)
	if err != nil {
		return PostView{}, err
	}
	if in.ParentID != "" {
		if _, err := e.visiblePost(ctx, e.store, in.Author.ID, in.ParentID); err != nil {
			return PostView{}, err
		}
	}

	p := Post{
		Author:     in.Author,
		ParentID:   in.ParentID,
		Text:       in.Text,
		Media:      in.Media,
		Reactions:  NewReactionCounts(),
		Tags:       in.Tags,
		Visibility: in.Visibility,
		CreatedAt:  e.now().UTC(),
	}
	err = e.store.InTx(ctx, func(ctx context.Context, s Store) error {
		if p.ParentID != "" {
			err := s.AdjustShareCount(ctx, p.ParentID, 1)
			if errors.Is(err, ErrNoRecord) {
				return notFound(ReasonPostMissing, "post %s not found", p.ParentID)
			}
			if err != nil {
				return fmt.Errorf("increment share count: %w", err)
			}
		}
		created, err := s.InsertPost(ctx, p)
		if err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
		p = created
		return nil
	})
	if err != nil {
		return PostView{}, err
	}

	return newPostView(p, newAuthorView(in.Author, author)), nil
}

// GetPost returns one post enriched for viewerID.
func (e *Engine) GetPost(ctx context.Context, viewerID, postID string) (_ PostView, err error) {
	defer boundary(&err, "failed to get post")

	if err := checkID("viewer id", viewerID); err != nil {
		return PostView{}, err
	}
	if err := checkID("post id", postID); err != nil {
		return PostView{}, err
	}
	p, err := e.visiblePost(ctx, e.store, viewerID, postID)
	if err != nil {
		return PostView{}, err
	}
	return e.postView(ctx, viewerID, p)
}

// EditPost applies patch to a post. Only the author may edit a post.
func (e *Engine) EditPost(ctx context.Context, postID, actorID string, patch PostPatch) (_ PostView, err error) {
	defer boundary(&err, "failed to edit post")

	if err := checkID("post id", postID); err != nil {
		return PostView{}, err
	}
	if err := checkID("actor id", actorID); err != nil {
		return PostView{}, err
	}
	if patch.Visibility != nil && !patch.Visibility.Valid() {
		return PostView{}, badRequest(ReasonInvalidVisibility, "invalid visibility %q", *patch.Visibility)
	}
	if patch.Tags != nil {
		if err := checkIDs("tagged user", *patch.Tags); err != nil {
			return PostView{}, err
		}
		tags := tagSet(*patch.Tags)
		patch.Tags = &tags
	}

	p, err := e.store.GetPost(ctx, postID)
	if errors.Is(err, ErrNoRecord) {
		return PostView{}, notFound(ReasonPostMissing, "post %s not found", postID)
	}
	if err != nil {
		return PostView{}, fmt.Errorf("get post: %w", err)
	}
	if p.Author.ID != actorID {
		return PostView{}, unauthorized("only the author may edit post %s", postID)
	}

	text, media := p.Text, p.Media
	if patch.Text != nil {
		text = *patch.Text
	}
	if patch.Media != nil {
		media = *patch.Media
	}
	if strings.TrimSpace(text) == "" && len(media) == 0 && p.ParentID == "" {
		return PostView{}, badRequest(ReasonEmptyContent, "post needs text, media or a reposted post")
	}

	if !patch.Empty() {
		p, err = e.store.UpdatePost(ctx, postID, patch)
		if errors.Is(err, ErrNoRecord) {
			return PostView{}, notFound(ReasonPostMissing, "post %s not found", postID)
		}
		if err != nil {
			return PostView{}, fmt.Errorf("update post: %w", err)
		}
	}
	return e.postView(ctx, actorID, p)
}

// DeletePost removes a post together with its reactions, comments, the
// reactions on those comments and every save of the post.
func (e *Engine) DeletePost(ctx context.Context, postID, actorID string) (err error) {
	defer boundary(&err, "failed to delete post")

	if err := checkID("post id", postID); err != nil {
		return err
	}
	if err := checkID("actor id", actorID); err != nil {
		return err
	}

	return e.store.InTx(ctx, func(ctx context.Context, s Store) error {
		p, err := s.DeletePost(ctx, postID, actorID)
		if errors.Is(err, ErrNoRecord) {
			_, gerr := s.GetPost(ctx, postID)
			switch {
			case gerr == nil:
				return unauthorized("only the author may delete post %s", postID)
			case errors.Is(gerr, ErrNoRecord):
				return notFound(ReasonPostMissing, "post %s not found", postID)
			default:
				return fmt.Errorf("get post: %w", gerr)
			}
		}
		if err != nil {
			return fmt.Errorf("delete post: %w", err)
		}

		commentIDs, err := s.CommentIDsOf(ctx, postID)
		if err != nil {
			return fmt.Errorf("list comments: %w", err)
		}
		if err := s.DeleteReactionsOn(ctx, append([]string{postID}, commentIDs...)); err != nil {
			return fmt.Errorf("delete reactions: %w", err)
		}
		if err := s.DeleteCommentsOf(ctx, postID); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := s.DeleteSavesOf(ctx, postID); err != nil {
			return fmt.Errorf("delete saves: %w", err)
		}
		if p.ParentID != "" {
			err := s.AdjustShareCount(ctx, p.ParentID, -1)
			if err != nil && !errors.Is(err, ErrNoRecord) {
				return fmt.Errorf("decrement share count: %w", err)
			}
		}
		return nil
	})
}

// AddComment adds a comment, or a reply when in.ParentID is set, and
// increments the post's comment count.
func (e *Engine) AddComment(ctx context.Context, in NewComment) (_ CommentView, err error) {
	defer boundary(&err, "failed to add comment")

	if err := checkID("post id", in.PostID); err != nil {
		return CommentView{}, err
	}
	if err := checkActor("author", in.Author); err != nil {
		return CommentView{}, err
	}
	if in.ParentID != "" {
		if err := checkID("parent comment id", in.ParentID); err != nil {
			return CommentView{}, err
		}
	}
	if err := checkIDs("tagged user", in.Tags); err != nil {
		return CommentView{}, err
	}
	in.Tags = tagSet(in.Tags)
	if strings.TrimSpace(in.Text) == "" {
		return CommentView{}, badRequest(ReasonEmptyContent, "comment text is required")
	}

	post, err := e.visiblePost(ctx, e.store, in.Author.ID, in.PostID)
	if err != nil {
		return CommentView{}, err
	}
	author, err := e.authors.Resolve(ctx, in.Author)
	if err != nil {
		return CommentView{}, err
	}
	var parent Comment
	if in.ParentID != "" {
		parent, err = e.store.GetComment(ctx, in.ParentID)
		if errors.Is(err, ErrNoRecord) {
			return CommentView{}, notFound(ReasonCommentMissing, "comment %s not found", in.ParentID)
		}
		if err != nil {
			return CommentView{}, fmt.Errorf("get parent comment: %w", err)
		}
		if parent.PostID != in.PostID {
			return CommentView{}, badRequest(ReasonInvalidParent, "comment %s does not belong to post %s", in.ParentID, in.PostID)
		}
	}

	c := Comment{
		Author:    in.Author,
		PostID:    in.PostID,
		ParentID:  in.ParentID,
		Text:      in.Text,
		Tags:      in.Tags,
		CreatedAt: e.now().UTC(),
	}
	err = e.store.InTx(ctx, func(ctx context.Context, s Store) error {
		err := s.AdjustCommentCount(ctx, c.PostID, 1)
		if errors.Is(err, ErrNoRecord) {
			return notFound(ReasonPostMissing, "post %s not found", c.PostID)
		}
		if err != nil {
			return fmt.Errorf("increment comment count: %w", err)
		}
		created, err := s.InsertComment(ctx, c)
		if err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}
		if c.ParentID != "" {
			err := s.AppendReply(ctx, c.ParentID, created.ID)
			if errors.Is(err, ErrNoRecord) {
				return notFound(ReasonCommentMissing, "comment %s not found", c.ParentID)
			}
			if err != nil {
				return fmt.Errorf("append reply: %w", err)
			}
		}
		c = created
		return nil
	})
	if err != nil {
		return CommentView{}, err
	}

	n := Notification{
		Recipient: post.Author.ID,
		Event:     EventComment,
		Actor:     in.Author,
		PostID:    c.PostID,
		CommentID: c.ID,
	}
	e.notify(ctx, n)
	if c.ParentID != "" && parent.Author.ID != post.Author.ID {
		n.Recipient = parent.Author.ID
		e.notify(ctx, n)
	}

	return newCommentView(c, newAuthorView(in.Author, author)), nil
}

// EditComment applies patch to a comment. Only the author may edit a
// comment.
func (e *Engine) EditComment(ctx context.Context, commentID, actorID string, patch CommentPatch) (_ CommentView, err error) {
	defer boundary(&err, "failed to edit comment")

	if err := checkID("comment id", commentID); err != nil {
		return CommentView{}, err
	}
	if err := checkID("actor id", actorID); err != nil {
		return CommentView{}, err
	}
	if patch.Text != nil && strings.TrimSpace(*patch.Text) == "" {
		return CommentView{}, badRequest(ReasonEmptyContent, "comment text is required")
	}
	if patch.Tags != nil {
		if err := checkIDs("tagged user", *patch.Tags); err != nil {
			return CommentView{}, err
		}
		tags := tagSet(*patch.Tags)
		patch.Tags = &tags
	}

	c, err := e.store.GetComment(ctx, commentID)
	if errors.Is(err, ErrNoRecord) {
		return CommentView{}, notFound(ReasonCommentMissing, "comment %s not found", commentID)
	}
	if err != nil {
		return CommentView{}, fmt.Errorf("get comment: %w", err)
	}
	if c.Author.ID != actorID {
		return CommentView{}, unauthorized("only the author may edit comment %s", commentID)
	}
	if !patch.Empty() {
		c, err = e.store.UpdateComment(ctx, commentID, patch)
		if errors.Is(err, ErrNoRecord) {
			return CommentView{}, notFound(ReasonCommentMissing, "comment %s not found", commentID)
		}
		if err != nil {
			return CommentView{}, fmt.Errorf("update comment: %w", err)
		}
	}

	views, err := e.commentViews(ctx, actorID, []Comment{c})
	if err != nil {
		return CommentView{}, err
	}
	return views[0], nil
}

// DeleteComment removes a comment, its replies and every reaction on them.
// The post's comment count drops by the number of removed comments.
func (e *Engine) DeleteComment(ctx context.Context, commentID, actorID string) (err error) {
	defer boundary(&err, "failed to delete comment")

	if err := checkID("comment id", commentID); err != nil {
		return err
	}
	if err := checkID("actor id", actorID); err != nil {
		return err
	}

	return e.store.InTx(ctx, func(ctx context.Context, s Store) error {
		c, err := s.GetComment(ctx, commentID)
		if errors.Is(err, ErrNoRecord) {
			return notFound(ReasonCommentMissing, "comment %s not found", commentID)
		}
		if err != nil {
			return fmt.Errorf("get comment: %w", err)
		}
		if c.Author.ID != actorID {
			return unauthorized("only the author may delete comment %s", commentID)
		}

		ids, err := s.CommentThread(ctx, commentID)
		if err != nil {
			return fmt.Errorf("comment thread: %w", err)
		}
		if err := s.DeleteReactionsOn(ctx, ids); err != nil {
			return fmt.Errorf("delete reactions: %w", err)
		}
		n, err := s.DeleteComments(ctx, ids)
		if err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if c.ParentID != "" {
			err := s.RemoveReply(ctx, c.ParentID, commentID)
			if err != nil && !errors.Is(err, ErrNoRecord) {
				return fmt.Errorf("remove reply: %w", err)
			}
		}
		err = s.AdjustCommentCount(ctx, c.PostID, -n)
		if err != nil && !errors.Is(err, ErrNoRecord) {
			return fmt.Errorf("decrement comment count: %w", err)
		}
		return nil
	})
}

// ListComments lists the top level comments of a post, oldest first.
func (e *Engine) ListComments(ctx context.Context, viewerID, postID string, pr PageRequest) (_ Page[CommentView], err error) {
	defer boundary(&err, "failed to list comments")

	if err := checkID("viewer id", viewerID); err != nil {
		return Page[CommentView]{}, err
	}
	if err := checkID("post id", postID); err != nil {
		return Page[CommentView]{}, err
	}
	if _, err := e.visiblePost(ctx, e.store, viewerID, postID); err != nil {
		return Page[CommentView]{}, err
	}
	return e.listComments(ctx, viewerID, postID, "", pr)
}

// ListReplies lists the replies to a comment, oldest first.
func (e *Engine) ListReplies(ctx context.Context, viewerID, commentID string, pr PageRequest) (_ Page[CommentView], err error) {
	defer boundary(&err, "failed to list replies")

	if err := checkID("viewer id", viewerID); err != nil {
		return Page[CommentView]{}, err
	}
	if err := checkID("comment id", commentID); err != nil {
		return Page[CommentView]{}, err
	}
	parent, err := e.store.GetComment(ctx, commentID)
	if errors.Is(err, ErrNoRecord) {
		return Page[CommentView]{}, notFound(ReasonCommentMissing, "comment %s not found", commentID)
	}
	if err != nil {
		return Page[CommentView]{}, fmt.Errorf("get comment: %w", err)
	}
	if _, err := e.visiblePost(ctx, e.store, viewerID, parent.PostID); err != nil {
		return Page[CommentView]{}, err
	}
	return e.listComments(ctx, viewerID, parent.PostID, commentID, pr)
}

func (e *Engine) listComments(ctx context.Context, viewerID, postID, parentID string, pr PageRequest) (Page[CommentView], error) {
	page, limit, offset := e.window(pr)
	comments, total, err := e.store.ListComments(ctx, postID, parentID, limit, offset)
	if err != nil {
		return Page[CommentView]{}, fmt.Errorf("list comments: %w", err)
	}
	views, err := e.commentViews(ctx, viewerID, comments)
	if err != nil {
		return Page[CommentView]{}, err
	}
	return newPage(views, page, limit, total), nil
}
