package engagement

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ListFeed returns the posts viewerID may see, newest first: public posts,
// connections-only posts of the viewer's connections and followings, and the
// viewer's own posts.
func (e *Engine) ListFeed(ctx context.Context, viewerID string, pr PageRequest) (_ Page[PostView], err error) {
	defer boundary(&err, "failed to list feed")

	if err := checkID("viewer id", viewerID); err != nil {
		return Page[PostView]{}, err
	}
	return e.listPosts(ctx, viewerID, PostFilter{}, pr)
}

// ListUserPosts lists the posts written by authorID that viewerID may see.
func (e *Engine) ListUserPosts(ctx context.Context, viewerID, authorID string, pr PageRequest) (_ Page[PostView], err error) {
	defer boundary(&err, "failed to list user posts")

	if err := checkID("viewer id", viewerID); err != nil {
		return Page[PostView]{}, err
	}
	if err := checkID("author id", authorID); err != nil {
		return Page[PostView]{}, err
	}
	return e.listPosts(ctx, viewerID, PostFilter{AuthorID: authorID}, pr)
}

// ListSavedPosts lists the posts viewerID saved and may still see.
func (e *Engine) ListSavedPosts(ctx context.Context, viewerID string, pr PageRequest) (_ Page[PostView], err error) {
	defer boundary(&err, "failed to list saved posts")

	if err := checkID("viewer id", viewerID); err != nil {
		return Page[PostView]{}, err
	}
	return e.listPosts(ctx, viewerID, PostFilter{SavedBy: viewerID}, pr)
}

// ListReposts lists the visible posts that repost postID.
func (e *Engine) ListReposts(ctx context.Context, viewerID, postID string, pr PageRequest) (_ Page[PostView], err error) {
	defer boundary(&err, "failed to list reposts")

	if err := checkID("viewer id", viewerID); err != nil {
		return Page[PostView]{}, err
	}
	if err := checkID("post id", postID); err != nil {
		return Page[PostView]{}, err
	}
	return e.listPosts(ctx, viewerID, PostFilter{ParentID: postID}, pr)
}

// SearchPosts lists the visible posts whose text contains query or that tag
// the user whose id equals query.
func (e *Engine) SearchPosts(ctx context.Context, viewerID, query string, pr PageRequest) (_ Page[PostView], err error) {
	defer boundary(&err, "failed to search posts")

	if err := checkID("viewer id", viewerID); err != nil {
		return Page[PostView]{}, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return Page[PostView]{}, badRequest(ReasonEmptyContent, "search query is required")
	}
	return e.listPosts(ctx, viewerID, PostFilter{Query: query}, pr)
}

func (e *Engine) listPosts(ctx context.Context, viewerID string, f PostFilter, pr PageRequest) (Page[PostView], error) {
	network, err := e.network(ctx, viewerID)
	if err != nil {
		return Page[PostView]{}, err
	}
	f.Viewer = viewerID
	f.Network = network

	page, limit, offset := e.window(pr)
	posts, total, err := e.store.ListPosts(ctx, f, limit, offset)
	if err != nil {
		return Page[PostView]{}, fmt.Errorf("list posts: %w", err)
	}
	views, err := e.postViews(ctx, viewerID, posts)
	if err != nil {
		return Page[PostView]{}, err
	}
	return newPage(views, page, limit, total), nil
}

func (e *Engine) postView(ctx context.Context, viewerID string, p Post) (PostView, error) {
	views, err := e.postViews(ctx, viewerID, []Post{p})
	if err != nil {
		return PostView{}, err
	}
	return views[0], nil
}

// postViews enriches posts with author display, the viewer's reaction and
// the viewer's save state.
func (e *Engine) postViews(ctx context.Context, viewerID string, posts []Post) ([]PostView, error) {
	if len(posts) == 0 {
		return nil, nil
	}
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	var (
		reactions map[string]ReactionType
		saved     map[string]bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := e.store.ViewerReactions(gctx, viewerID, ids)
		if err != nil {
			return fmt.Errorf("viewer reactions: %w", err)
		}
		reactions = m
		return nil
	})
	g.Go(func() error {
		m, err := e.store.SavedAmong(gctx, viewerID, ids)
		if err != nil {
			return fmt.Errorf("saved posts: %w", err)
		}
		saved = m
		return nil
	})

	sess := e.authors.session()
	views := make([]PostView, len(posts))
	for i, p := range posts {
		author, err := sess.view(ctx, p.Author)
		if err != nil {
			// Let the store queries finish before returning.
			_ = g.Wait()
			return nil, err
		}
		views[i] = newPostView(p, author)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range views {
		if t, ok := reactions[views[i].ID]; ok {
			t := t
			views[i].ViewerReaction = &t
		}
		views[i].Saved = saved[views[i].ID]
	}
	return views, nil
}

// commentViews enriches comments with author display and the viewer's
// reaction.
func (e *Engine) commentViews(ctx context.Context, viewerID string, comments []Comment) ([]CommentView, error) {
	if len(comments) == 0 {
		return nil, nil
	}
	ids := make([]string, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}
	reactions, err := e.store.ViewerReactions(ctx, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("viewer reactions: %w", err)
	}

	sess := e.authors.session()
	views := make([]CommentView, len(comments))
	for i, c := range comments {
		author, err := sess.view(ctx, c.Author)
		if err != nil {
			return nil, err
		}
		views[i] = newCommentView(c, author)
		if t, ok := reactions[c.ID]; ok {
			t := t
			views[i].ViewerReaction = &t
		}
	}
	return views, nil
}
