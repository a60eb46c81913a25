// Package api exposes the engagement engine over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/GetStream/engagement-backend/api/validator"
	"github.com/GetStream/engagement-backend/engagement"
	"github.com/go-chi/chi/v5"
)

// Identity headers set by the upstream auth gateway.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorKind = "X-Actor-Kind"
)

// maxBodySize caps request payloads.
const maxBodySize = 1 << 20

// An Engine runs the engagement operations behind the endpoints.
type Engine interface {
	CreatePost(ctx context.Context, in engagement.NewPost) (engagement.PostView, error)
	GetPost(ctx context.Context, viewerID, postID string) (engagement.PostView, error)
	EditPost(ctx context.Context, postID, actorID string, patch engagement.PostPatch) (engagement.PostView, error)
	DeletePost(ctx context.Context, postID, actorID string) error

	AddComment(ctx context.Context, in engagement.NewComment) (engagement.CommentView, error)
	EditComment(ctx context.Context, commentID, actorID string, patch engagement.CommentPatch) (engagement.CommentView, error)
	DeleteComment(ctx context.Context, commentID, actorID string) error
	ListComments(ctx context.Context, viewerID, postID string, pr engagement.PageRequest) (engagement.Page[engagement.CommentView], error)
	ListReplies(ctx context.Context, viewerID, commentID string, pr engagement.PageRequest) (engagement.Page[engagement.CommentView], error)

	SetReaction(ctx context.Context, req engagement.ReactionRequest) (engagement.Target, error)
	SavePost(ctx context.Context, postID, actorID string) error
	UnsavePost(ctx context.Context, postID, actorID string) error

	ListFeed(ctx context.Context, viewerID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error)
	ListUserPosts(ctx context.Context, viewerID, authorID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error)
	ListSavedPosts(ctx context.Context, viewerID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error)
	ListReposts(ctx context.Context, viewerID, postID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error)
	SearchPosts(ctx context.Context, viewerID, query string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error)
}

// API provides the REST endpoints for the application.
type API struct {
	Logger *slog.Logger
	Engine Engine
	Val    *validator.Validator

	// Notifications, if set, serves the websocket stream at /ws.
	Notifications http.Handler

	once   sync.Once
	router chi.Router
}

func (a *API) setupRoutes() {
	if a.Val == nil {
		a.Val = validator.New()
	}
	r := chi.NewRouter()

	r.Route("/posts", func(r chi.Router) {
		r.Post("/", a.createPost)
		r.Route("/{postID}", func(r chi.Router) {
			r.Get("/", a.getPost)
			r.Patch("/", a.editPost)
			r.Delete("/", a.deletePost)

			r.Post("/comments", a.addComment)
			r.Get("/comments", a.listComments)
			r.Put("/reactions", a.setReaction(engagement.TargetPost, "postID"))
			r.Post("/save", a.savePost)
			r.Delete("/save", a.unsavePost)
			r.Get("/reposts", a.listReposts)
		})
	})
	r.Route("/comments/{commentID}", func(r chi.Router) {
		r.Patch("/", a.editComment)
		r.Delete("/", a.deleteComment)
		r.Get("/replies", a.listReplies)
		r.Put("/reactions", a.setReaction(engagement.TargetComment, "commentID"))
	})
	r.Put("/reactions/{targetID}", a.setReaction("", "targetID"))

	r.Get("/feed", a.listFeed)
	r.Get("/saved", a.listSaved)
	r.Get("/search", a.searchPosts)
	r.Get("/users/{actorID}/posts", a.listUserPosts)

	if a.Notifications != nil {
		r.Handle("/ws", a.Notifications)
	}

	a.router = r
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.once.Do(a.setupRoutes)
	a.Logger.Info("Request received", "method", r.Method, "path", r.URL.Path)
	a.router.ServeHTTP(w, r)
}

func (a *API) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.Logger.Error("Could not encode JSON body", "error", err.Error())
	}
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func (a *API) respondError(w http.ResponseWriter, status int, err error, msg string) {
	a.Logger.Error("Error", "error", err.Error())
	a.respond(w, status, errorResponse{Error: msg})
}

// respondEngineError maps an engine error to its HTTP status. Internal
// failures hide their cause from the client.
func (a *API) respondEngineError(w http.ResponseWriter, err error) {
	var status int
	switch engagement.KindOf(err) {
	case engagement.KindBadRequest:
		status = http.StatusBadRequest
	case engagement.KindUnauthorized:
		status = http.StatusForbidden
	case engagement.KindNotFound:
		status = http.StatusNotFound
	default:
		a.Logger.Error("Engine failure", "error", err.Error())
		msg := "Internal error"
		var e *engagement.Error
		if errors.As(err, &e) {
			msg = e.Message
		}
		a.respond(w, http.StatusInternalServerError, errorResponse{Error: msg})
		return
	}

	msg := err.Error()
	var e *engagement.Error
	if errors.As(err, &e) {
		msg = e.Message
	}
	a.Logger.Info("Request rejected", "status", status, "reason", engagement.ReasonOf(err), "error", msg)
	a.respond(w, status, errorResponse{Error: msg, Reason: engagement.ReasonOf(err)})
}

func (a *API) respondValidation(w http.ResponseWriter, errs []validator.ValidationError) {
	type response struct {
		Errors []validator.ValidationError `json:"errors"`
	}
	a.respond(w, http.StatusBadRequest, &response{Errors: errs})
}

func (a *API) validateBody(w http.ResponseWriter, s any) bool {
	if errs := a.Val.ValidateStruct(s); len(errs) > 0 {
		a.respondValidation(w, errs)
		return false
	}
	return true
}

// decode reads a JSON body into dst and validates it.
func (a *API) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		a.respondError(w, http.StatusBadRequest, err, "Could not decode request body")
		return false
	}
	return a.validateBody(w, dst)
}

// actor reads the acting identity. It writes the error response and
// reports false when the identity is absent or malformed.
func (a *API) actor(w http.ResponseWriter, r *http.Request) (engagement.ActorRef, bool) {
	id := identity{
		ID:   r.Header.Get(HeaderActorID),
		Kind: r.Header.Get(HeaderActorKind),
	}
	if id.ID == "" {
		a.respond(w, http.StatusUnauthorized, errorResponse{
			Error:  "Missing " + HeaderActorID + " header",
			Reason: "Unauthenticated",
		})
		return engagement.ActorRef{}, false
	}
	if !a.validateBody(w, &id) {
		return engagement.ActorRef{}, false
	}
	return id.ref(), true
}

// pageRequest parses the page and limit query parameters. Absent values
// fall back to the engine defaults.
func (a *API) pageRequest(w http.ResponseWriter, r *http.Request) (engagement.PageRequest, bool) {
	var pr engagement.PageRequest
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"page", &pr.Page},
		{"limit", &pr.Limit},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			a.respond(w, http.StatusBadRequest, errorResponse{
				Error:  "Invalid " + p.name + " parameter",
				Reason: "InvalidPagination",
			})
			return engagement.PageRequest{}, false
		}
		*p.dst = n
	}
	return pr, true
}
