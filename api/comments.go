package api

import (
	"net/http"

	"github.com/GetStream/engagement-backend/engagement"
	"github.com/go-chi/chi/v5"
)

func (a *API) addComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.actor(w, r)
	if !ok {
		return
	}
	var body createCommentRequest
	if !a.decode(w, r, &body) {
		return
	}

	comment, err := a.Engine.AddComment(r.Context(), engagement.NewComment{
		PostID:   chi.URLParam(r, "postID"),
		ParentID: body.ParentID,
		Author:   actor,
		Text:     body.Text,
		Tags:     body.Tags,
	})
	if err != nil {
		a.respondEngineError(w, err)
		return
	}
	a.respond(w, http.StatusCreated, comment)
}

func (a *API) editComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.actor(w, r)
	if !ok {
		return
	}
	var body editCommentRequest
	if !a.decode(w, r, &body) {
		return
	}
	if body.Tags != nil {
		if errs := a.Val.Validate(*body.Tags, "dive,uuid"); len(errs) > 0 {
			a.respondValidation(w, errs)
			return
		}
	}

	comment, err := a.Engine.EditComment(r.Context(), chi.URLParam(r, "commentID"), actor.ID, body.patch())
	if err != nil {
		a.respondEngineError(w, err)
		return
	}
	a.respond(w, http.StatusOK, comment)
}

func (a *API) deleteComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.actor(w, r)
	if !ok {
		return
	}
	if err := a.Engine.DeleteComment(r.Context(), chi.URLParam(r, "commentID"), actor.ID); err != nil {
		a.respondEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) listComments(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.actor(w, r)
	if !ok {
		return
	}
	pr, ok := a.pageRequest(w, r)
	if !ok {
		return
	}
	page, err := a.Engine.ListComments(r.Context(), actor.ID, chi.URLParam(r, "postID"), pr)
	if err != nil {
		a.respondEngineError(w, err)
		return
	}
	a.respond(w, http.StatusOK, page)
}

func (a *API) listReplies(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.actor(w, r)
	if !ok {
		return
	}
	pr, ok := a.pageRequest(w, r)
	if !ok {
		return
	}
	page, err := a.Engine.ListReplies(r.Context(), actor.ID, chi.URLParam(r, "commentID"), pr)
	if err != nil {
		a.respondEngineError(w, err)
		return
	}
	a.respond(w, http.StatusOK, page)
}
