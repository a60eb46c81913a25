package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *API) createPost(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.actor(w, r)
	if !ok {
		return
	}
	var body createPostRequest
	if !a.decode(w, r, &body) {
		return
	}

	post, err := a.Engine.CreatePost(r.Context(), body.post(actor))
	if err != nil {
		a.respondEngineError(w, err)
		return
	}
	a.respond(w, http.StatusCreated, post)
}

func (a *API) getPost(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.actor(w, r)
	if !ok {
		return
	}
	post, err := a.Engine.GetPost(r.Context(), actor.ID, chi.URLParam(r, "postID"))
	if err != nil {
		a.respondEngineError(w, err)
		return
	}
	a.respond(w, http.StatusOK, post)
}

func (a *API) editPost(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.actor(w, r)
	if !ok {
		return
	}
	var body editPostRequest
	if !a.decode(w, r, &body) {
		return
	}
	if body.Media != nil {
		if errs := a.Val.Validate(*body.Media, "dive,url"); len(errs) > 0 {
			a.respondValidation(w, errs)
			return
		}
	}
	if body.Tags != nil {
		if errs := a.Val.Validate(*body.Tags, "dive,uuid"); len(errs) > 0 {
			a.respondValidation(w, errs)
			return
		}
	}

	post, err := a.Engine.EditPost(r.Context(), chi.URLParam(r, "postID"), actor.ID, body.patch())
	if err != nil {
		a.respondEngineError(w, err)
		return
	}
	a.respond(w, http.StatusOK, post)
}

func (a *API) deletePost(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.actor(w, r)
	if !ok {
		return
	}
	if err := a.Engine.DeletePost(r.Context(), chi.URLParam(r, "postID"), actor.ID); err != nil {
		a.respondEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
