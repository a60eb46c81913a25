package api

import (
	"context"
	"net/http"

	"github.com/GetStream/engagement-backend/engagement"
	"github.com/go-chi/chi/v5"
)

type postLister func(ctx context.Context, viewerID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error)

// listPosts runs the shared part of every post listing endpoint.
func (a *API) listPosts(w http.ResponseWriter, r *http.Request, list postLister) {
	actor, ok := a.actor(w, r)
	if !ok {
		return
	}
	pr, ok := a.pageRequest(w, r)
	if !ok {
		return
	}
	page, err := list(r.Context(), actor.ID, pr)
	if err != nil {
		a.respondEngineError(w, err)
		return
	}
	a.Logger.Debug("Listed posts", "path", r.URL.Path, "count", len(page.Data), "total", page.Pagination.TotalItems)
	a.respond(w, http.StatusOK, page)
}

func (a *API) listFeed(w http.ResponseWriter, r *http.Request) {
	a.listPosts(w, r, a.Engine.ListFeed)
}

func (a *API) listSaved(w http.ResponseWriter, r *http.Request) {
	a.listPosts(w, r, a.Engine.ListSavedPosts)
}

func (a *API) listUserPosts(w http.ResponseWriter, r *http.Request) {
	authorID := chi.URLParam(r, "actorID")
	a.listPosts(w, r, func(ctx context.Context, viewerID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error) {
		return a.Engine.ListUserPosts(ctx, viewerID, authorID, pr)
	})
}

func (a *API) listReposts(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	a.listPosts(w, r, func(ctx context.Context, viewerID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error) {
		return a.Engine.ListReposts(ctx, viewerID, postID, pr)
	})
}

func (a *API) searchPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	a.listPosts(w, r, func(ctx context.Context, viewerID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error) {
		return a.Engine.SearchPosts(ctx, viewerID, query, pr)
	})
}
