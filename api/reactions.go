package api

import (
	"net/http"

	"github.com/GetStream/engagement-backend/engagement"
	"github.com/go-chi/chi/v5"
)

// setReaction handles the reaction endpoints. An empty kind lets the body
// name the target kind, or leaves it to the engine to probe.
func (a *API) setReaction(kind engagement.TargetKind, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := a.actor(w, r)
		if !ok {
			return
		}
		var body reactionRequest
		if !a.decode(w, r, &body) {
			return
		}
		targetKind := kind
		if targetKind == "" {
			targetKind = engagement.TargetKind(body.TargetKind)
		}

		target, err := a.Engine.SetReaction(r.Context(), engagement.ReactionRequest{
			TargetID:   chi.URLParam(r, param),
			TargetKind: targetKind,
			Actor:      actor,
			Selections: body.selections(),
		})
		if err != nil {
			a.respondEngineError(w, err)
			return
		}
		a.respond(w, http.StatusOK, target)
	}
}

func (a *API) savePost(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.actor(w, r)
	if !ok {
		return
	}
	if err := a.Engine.SavePost(r.Context(), chi.URLParam(r, "postID"), actor.ID); err != nil {
		a.respondEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) unsavePost(w http.ResponseWriter, r *http.Request) {
	actor, ok := a.actor(w, r)
	if !ok {
		return
	}
	if err := a.Engine.UnsavePost(r.Context(), chi.URLParam(r, "postID"), actor.ID); err != nil {
		a.respondEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
