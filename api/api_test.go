package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GetStream/engagement-backend/api/validator"
	"github.com/GetStream/engagement-backend/engagement"
	"github.com/google/go-cmp/cmp"
	"github.com/neilotoole/slogt"
)

const (
	actorA = "0b6c1a57-3d57-4f37-9a86-4f3b0c8d0a01"
	actorB = "0b6c1a57-3d57-4f37-9a86-4f3b0c8d0a02"
	postP  = "7f1e3c52-2b7e-4d2b-8f0d-6b2f3c9a1b01"
	cmtC   = "c5d1f0aa-8e3b-4a6e-9c1d-2f4b5a6c7d01"
)

var created = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func samplePost() engagement.PostView {
	return engagement.PostView{
		ID: postP,
		Author: engagement.AuthorView{
			ID:      actorA,
			Kind:    engagement.Individual,
			Name:    "Ada",
			Picture: "https://cdn.example.com/ada.png",
			Bio:     "Engineer",
		},
		Text:       "hello",
		Media:      []string{},
		Reactions:  engagement.NewReactionCounts(),
		Tags:       []string{},
		Visibility: engagement.Public,
		CreatedAt:  created,
	}
}

const samplePostJSON = `{
	"id": "7f1e3c52-2b7e-4d2b-8f0d-6b2f3c9a1b01",
	"author": {
		"id": "0b6c1a57-3d57-4f37-9a86-4f3b0c8d0a01",
		"kind": "individual",
		"name": "Ada",
		"picture": "https://cdn.example.com/ada.png",
		"bio": "Engineer"
	},
	"text": "hello",
	"media": [],
	"reactions": {"like": 0, "love": 0, "celebrate": 0, "support": 0, "insightful": 0, "funny": 0},
	"comment_count": 0,
	"share_count": 0,
	"tags": [],
	"visibility": "public",
	"created_at": "2024-01-01T00:00:00Z",
	"viewer_reaction": null,
	"saved": false
}`

func TestAPI_createPost(t *testing.T) {
	tests := []struct {
		name        string
		engine      *testengine
		actor       string
		kind        string
		req         string
		wantStatus  int
		wantBody    string
		wantField   string
		containsLog string
	}{
		{
			name:       "MissingActor",
			req:        `{"text": "hello"}`,
			wantStatus: 401,
			wantBody: `{
				"error": "Missing X-Actor-ID header",
				"reason": "Unauthenticated"
			}`,
		},
		{
			name:       "InvalidJSON",
			actor:      actorA,
			req:        `not json`,
			wantStatus: 400,
			wantBody: `{
				"error": "Could not decode request body"
			}`,
			containsLog: "invalid character",
		},
		{
			name:       "InvalidActorKind",
			actor:      actorA,
			kind:       "robot",
			req:        `{"text": "hello"}`,
			wantStatus: 400,
			wantField:  "actor_kind",
		},
		{
			name:       "InvalidVisibility",
			actor:      actorA,
			req:        `{"text": "hello", "visibility": "friends"}`,
			wantStatus: 400,
			wantField:  "visibility",
		},
		{
			name:  "AuthorMissing",
			actor: actorA,
			kind:  "organization",
			req:   `{"text": "hello"}`,
			engine: &testengine{
				createPost: func(t *testing.T, in engagement.NewPost) (engagement.PostView, error) {
					if in.Author.Kind != engagement.Organization {
						t.Errorf("Got author kind %q, want organization", in.Author.Kind)
					}
					return engagement.PostView{}, &engagement.Error{
						Kind:    engagement.KindNotFound,
						Reason:  engagement.ReasonAuthorMissing,
						Message: "author organization/" + actorA + " not found",
					}
				},
			},
			wantStatus: 404,
			wantBody: `{
				"error": "author organization/0b6c1a57-3d57-4f37-9a86-4f3b0c8d0a01 not found",
				"reason": "AuthorMissing"
			}`,
		},
		{
			name:  "InternalError",
			actor: actorA,
			req:   `{"text": "hello"}`,
			engine: &testengine{
				createPost: func(t *testing.T, in engagement.NewPost) (engagement.PostView, error) {
					return engagement.PostView{}, &engagement.Error{
						Kind:    engagement.KindInternal,
						Message: "failed to add post",
						Err:     errors.New("connection refused"),
					}
				},
			},
			wantStatus: 500,
			wantBody: `{
				"error": "failed to add post"
			}`,
			containsLog: "connection refused",
		},
		{
			name:  "OK",
			actor: actorA,
			req: `{
				"text": "hello",
				"visibility": "public",
				"media": ["https://cdn.example.com/a.png"]
			}`,
			engine: &testengine{
				createPost: func(t *testing.T, in engagement.NewPost) (engagement.PostView, error) {
					want := engagement.NewPost{
						Author:     engagement.ActorRef{ID: actorA, Kind: engagement.Individual},
						Text:       "hello",
						Media:      []string{"https://cdn.example.com/a.png"},
						Visibility: engagement.Public,
					}
					if diff := cmp.Diff(want, in); diff != "" {
						t.Errorf("CreatePost input mismatch (-want +got):\n%s", diff)
					}
					return samplePost(), nil
				},
			},
			wantStatus: 201,
			wantBody:   samplePostJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			api := newTestAPI(t, tt.engine, slog.New(slog.NewTextHandler(buf, nil)))

			srv := httptest.NewServer(api)
			defer srv.Close()

			resp := do(t, srv, "POST", "/posts", tt.actor, tt.kind, tt.req)
			checkStatus(t, resp.StatusCode, tt.wantStatus)
			if tt.wantField != "" {
				checkValidation(t, resp, tt.wantField)
			} else {
				checkBody(t, resp, tt.wantBody)
			}
			checkLog(t, buf, tt.containsLog)
		})
	}
}

func TestAPI_editPost(t *testing.T) {
	tests := []struct {
		name       string
		engine     *testengine
		req        string
		wantStatus int
		wantBody   string
		wantField  string
	}{
		{
			name:       "InvalidMedia",
			req:        `{"media": ["nope"]}`,
			wantStatus: 400,
			wantField:  "[0]",
		},
		{
			name: "NotAuthor",
			req:  `{"text": "edited"}`,
			engine: &testengine{
				editPost: func(t *testing.T, postID, actorID string, patch engagement.PostPatch) (engagement.PostView, error) {
					return engagement.PostView{}, &engagement.Error{
						Kind:    engagement.KindUnauthorized,
						Reason:  engagement.ReasonNotAuthor,
						Message: "only the author may edit post " + postID,
					}
				},
			},
			wantStatus: 403,
			wantBody: `{
				"error": "only the author may edit post 7f1e3c52-2b7e-4d2b-8f0d-6b2f3c9a1b01",
				"reason": "NotAuthor"
			}`,
		},
		{
			name: "PartialPatch",
			req:  `{"visibility": "private"}`,
			engine: &testengine{
				editPost: func(t *testing.T, postID, actorID string, patch engagement.PostPatch) (engagement.PostView, error) {
					if postID != postP || actorID != actorB {
						t.Errorf("Got post %s actor %s", postID, actorID)
					}
					if patch.Text != nil || patch.Media != nil || patch.Tags != nil {
						t.Errorf("Got unexpected patch fields %+v", patch)
					}
					if patch.Visibility == nil || *patch.Visibility != engagement.Private {
						t.Errorf("Got visibility %v, want private", patch.Visibility)
					}
					return samplePost(), nil
				},
			},
			wantStatus: 200,
			wantBody:   samplePostJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, tt.engine, slogt.New(t))
			srv := httptest.NewServer(api)
			defer srv.Close()

			resp := do(t, srv, "PATCH", "/posts/"+postP, actorB, "", tt.req)
			checkStatus(t, resp.StatusCode, tt.wantStatus)
			if tt.wantField != "" {
				checkValidation(t, resp, tt.wantField)
			} else {
				checkBody(t, resp, tt.wantBody)
			}
		})
	}
}

func TestAPI_deletePost(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "OK", wantStatus: 204},
		{
			name:       "NotFound",
			err:        &engagement.Error{Kind: engagement.KindNotFound, Reason: engagement.ReasonPostMissing, Message: "gone"},
			wantStatus: 404,
		},
		{
			name:       "Unauthorized",
			err:        &engagement.Error{Kind: engagement.KindUnauthorized, Reason: engagement.ReasonNotAuthor, Message: "nope"},
			wantStatus: 403,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &testengine{
				deletePost: func(t *testing.T, postID, actorID string) error {
					if postID != postP || actorID != actorA {
						t.Errorf("Got post %s actor %s", postID, actorID)
					}
					return tt.err
				},
			}
			api := newTestAPI(t, engine, slogt.New(t))
			srv := httptest.NewServer(api)
			defer srv.Close()

			resp := do(t, srv, "DELETE", "/posts/"+postP, actorA, "", "")
			resp.Body.Close()
			checkStatus(t, resp.StatusCode, tt.wantStatus)
		})
	}
}

func TestAPI_setReaction(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		req        string
		wantKind   engagement.TargetKind
		wantID     string
		wantStatus int
	}{
		{
			name:       "Post",
			path:       "/posts/" + postP + "/reactions",
			req:        `{"selections": {"like": true, "love": false}}`,
			wantKind:   engagement.TargetPost,
			wantID:     postP,
			wantStatus: 200,
		},
		{
			name:       "Comment",
			path:       "/comments/" + cmtC + "/reactions",
			req:        `{"selections": {}}`,
			wantKind:   engagement.TargetComment,
			wantID:     cmtC,
			wantStatus: 200,
		},
		{
			name:       "KindFromBody",
			path:       "/reactions/" + cmtC,
			req:        `{"target_kind": "comment", "selections": {"funny": true}}`,
			wantKind:   engagement.TargetComment,
			wantID:     cmtC,
			wantStatus: 200,
		},
		{
			name:       "KindProbed",
			path:       "/reactions/" + postP,
			req:        `{"selections": {"funny": true}}`,
			wantKind:   "",
			wantID:     postP,
			wantStatus: 200,
		},
		{
			name:       "MissingSelections",
			path:       "/posts/" + postP + "/reactions",
			req:        `{}`,
			wantStatus: 400,
		},
		{
			name:       "BadTargetKind",
			path:       "/reactions/" + postP,
			req:        `{"target_kind": "story", "selections": {}}`,
			wantStatus: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &testengine{
				setReaction: func(t *testing.T, req engagement.ReactionRequest) (engagement.Target, error) {
					if req.TargetKind != tt.wantKind {
						t.Errorf("Got target kind %q, want %q", req.TargetKind, tt.wantKind)
					}
					if req.TargetID != tt.wantID {
						t.Errorf("Got target %s, want %s", req.TargetID, tt.wantID)
					}
					p := samplePost()
					return engagement.Target{Kind: engagement.TargetPost, Post: &p}, nil
				},
			}
			api := newTestAPI(t, engine, slogt.New(t))
			srv := httptest.NewServer(api)
			defer srv.Close()

			resp := do(t, srv, "PUT", tt.path, actorB, "individual", tt.req)
			resp.Body.Close()
			checkStatus(t, resp.StatusCode, tt.wantStatus)
		})
	}
}

func TestAPI_multipleReactions(t *testing.T) {
	engine := &testengine{
		setReaction: func(t *testing.T, req engagement.ReactionRequest) (engagement.Target, error) {
			if !req.Selections[engagement.Like] || !req.Selections[engagement.Love] {
				t.Errorf("Got selections %v", req.Selections)
			}
			return engagement.Target{}, &engagement.Error{
				Kind:    engagement.KindBadRequest,
				Reason:  engagement.ReasonMultipleReactions,
				Message: "only one reaction may be selected",
			}
		},
	}
	api := newTestAPI(t, engine, slogt.New(t))
	srv := httptest.NewServer(api)
	defer srv.Close()

	resp := do(t, srv, "PUT", "/posts/"+postP+"/reactions", actorB, "", `{"selections": {"like": true, "love": true}}`)
	checkStatus(t, resp.StatusCode, 400)
	checkBody(t, resp, `{
		"error": "only one reaction may be selected",
		"reason": "MultipleReactionsNotAllowed"
	}`)
}

func TestAPI_savePost(t *testing.T) {
	saved := false
	engine := &testengine{
		savePost: func(t *testing.T, postID, actorID string) error {
			if saved {
				return &engagement.Error{Kind: engagement.KindBadRequest, Reason: engagement.ReasonAlreadySaved, Message: "already saved"}
			}
			saved = true
			return nil
		},
		unsavePost: func(t *testing.T, postID, actorID string) error {
			if !saved {
				return &engagement.Error{Kind: engagement.KindNotFound, Reason: engagement.ReasonSaveMissing, Message: "not saved"}
			}
			saved = false
			return nil
		},
	}
	api := newTestAPI(t, engine, slogt.New(t))
	srv := httptest.NewServer(api)
	defer srv.Close()

	steps := []struct {
		method     string
		wantStatus int
	}{
		{"POST", 204},
		{"POST", 400},
		{"DELETE", 204},
		{"DELETE", 404},
	}
	for _, s := range steps {
		resp := do(t, srv, s.method, "/posts/"+postP+"/save", actorA, "", "")
		resp.Body.Close()
		checkStatus(t, resp.StatusCode, s.wantStatus)
	}
}

func TestAPI_listFeed(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   engagement.PageRequest
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Defaults",
			wantStatus: 200,
			wantBody: `{
				"data": [],
				"pagination": {"currentPage": 1, "totalPages": 0, "totalItems": 0, "itemsPerPage": 10}
			}`,
		},
		{
			name:       "Window",
			query:      "?page=3&limit=5",
			wantPage:   engagement.PageRequest{Page: 3, Limit: 5},
			wantStatus: 200,
			wantBody: `{
				"data": [],
				"pagination": {"currentPage": 3, "totalPages": 0, "totalItems": 0, "itemsPerPage": 5}
			}`,
		},
		{
			name:       "BadLimit",
			query:      "?limit=abc",
			wantStatus: 400,
			wantBody: `{
				"error": "Invalid limit parameter",
				"reason": "InvalidPagination"
			}`,
		},
		{
			name:       "ZeroPage",
			query:      "?page=0",
			wantStatus: 400,
			wantBody: `{
				"error": "Invalid page parameter",
				"reason": "InvalidPagination"
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &testengine{
				listFeed: func(t *testing.T, viewerID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error) {
					if diff := cmp.Diff(tt.wantPage, pr); diff != "" {
						t.Errorf("Page request mismatch (-want +got):\n%s", diff)
					}
					page, limit := max(pr.Page, 1), pr.Limit
					if limit == 0 {
						limit = 10
					}
					return engagement.Page[engagement.PostView]{
						Data: []engagement.PostView{},
						Pagination: engagement.Pagination{
							CurrentPage:  page,
							ItemsPerPage: limit,
						},
					}, nil
				},
			}
			api := newTestAPI(t, engine, slogt.New(t))
			srv := httptest.NewServer(api)
			defer srv.Close()

			resp := do(t, srv, "GET", "/feed"+tt.query, actorA, "", "")
			checkStatus(t, resp.StatusCode, tt.wantStatus)
			checkBody(t, resp, tt.wantBody)
		})
	}
}

func TestAPI_listings(t *testing.T) {
	var got []string
	page := engagement.Page[engagement.PostView]{Data: []engagement.PostView{samplePost()}}
	engine := &testengine{
		listUserPosts: func(t *testing.T, viewerID, authorID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error) {
			got = append(got, "user:"+authorID)
			return page, nil
		},
		listSavedPosts: func(t *testing.T, viewerID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error) {
			got = append(got, "saved:"+viewerID)
			return page, nil
		},
		listReposts: func(t *testing.T, viewerID, postID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error) {
			got = append(got, "reposts:"+postID)
			return page, nil
		},
		searchPosts: func(t *testing.T, viewerID, query string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error) {
			got = append(got, "search:"+query)
			return page, nil
		},
		listComments: func(t *testing.T, viewerID, postID string, pr engagement.PageRequest) (engagement.Page[engagement.CommentView], error) {
			got = append(got, "comments:"+postID)
			return engagement.Page[engagement.CommentView]{Data: []engagement.CommentView{}}, nil
		},
		listReplies: func(t *testing.T, viewerID, commentID string, pr engagement.PageRequest) (engagement.Page[engagement.CommentView], error) {
			got = append(got, "replies:"+commentID)
			return engagement.Page[engagement.CommentView]{Data: []engagement.CommentView{}}, nil
		},
	}
	api := newTestAPI(t, engine, slogt.New(t))
	srv := httptest.NewServer(api)
	defer srv.Close()

	for _, path := range []string{
		"/users/" + actorB + "/posts",
		"/saved",
		"/posts/" + postP + "/reposts",
		"/search?q=golang",
		"/posts/" + postP + "/comments",
		"/comments/" + cmtC + "/replies",
	} {
		resp := do(t, srv, "GET", path, actorA, "", "")
		resp.Body.Close()
		checkStatus(t, resp.StatusCode, 200)
	}

	want := []string{
		"user:" + actorB,
		"saved:" + actorA,
		"reposts:" + postP,
		"search:golang",
		"comments:" + postP,
		"replies:" + cmtC,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Engine calls mismatch (-want +got):\n%s", diff)
	}
}

func TestAPI_addComment(t *testing.T) {
	engine := &testengine{
		addComment: func(t *testing.T, in engagement.NewComment) (engagement.CommentView, error) {
			want := engagement.NewComment{
				PostID:   postP,
				ParentID: cmtC,
				Author:   engagement.ActorRef{ID: actorB, Kind: engagement.Organization},
				Text:     "nice",
			}
			if diff := cmp.Diff(want, in); diff != "" {
				t.Errorf("AddComment input mismatch (-want +got):\n%s", diff)
			}
			return engagement.CommentView{
				ID:        "c5d1f0aa-8e3b-4a6e-9c1d-2f4b5a6c7d02",
				Author:    engagement.AuthorView{ID: actorB, Kind: engagement.Organization, Name: "Acme"},
				PostID:    postP,
				ParentID:  cmtC,
				Text:      "nice",
				Tags:      []string{},
				ReplyIDs:  []string{},
				CreatedAt: created,
			}, nil
		},
	}
	api := newTestAPI(t, engine, slogt.New(t))
	srv := httptest.NewServer(api)
	defer srv.Close()

	resp := do(t, srv, "POST", "/posts/"+postP+"/comments", actorB, "organization", `{"text": "nice", "parent_id": "`+cmtC+`"}`)
	checkStatus(t, resp.StatusCode, 201)
	checkBody(t, resp, `{
		"id": "c5d1f0aa-8e3b-4a6e-9c1d-2f4b5a6c7d02",
		"author": {"id": "0b6c1a57-3d57-4f37-9a86-4f3b0c8d0a02", "kind": "organization", "name": "Acme", "picture": "", "bio": ""},
		"post_id": "7f1e3c52-2b7e-4d2b-8f0d-6b2f3c9a1b01",
		"parent_id": "c5d1f0aa-8e3b-4a6e-9c1d-2f4b5a6c7d01",
		"text": "nice",
		"tags": [],
		"reaction_count": 0,
		"reply_ids": [],
		"created_at": "2024-01-01T00:00:00Z",
		"viewer_reaction": null
	}`)
}

func TestAPI_notifications(t *testing.T) {
	var called atomic.Bool
	api := &API{
		Logger: slogt.New(t),
		Engine: &testengine{T: t},
		Notifications: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called.Store(true)
			w.WriteHeader(http.StatusTeapot)
		}),
	}
	srv := httptest.NewServer(api)
	defer srv.Close()

	resp := do(t, srv, "GET", "/ws", actorA, "", "")
	resp.Body.Close()
	checkStatus(t, resp.StatusCode, http.StatusTeapot)
	if !called.Load() {
		t.Error("Notifications handler was not called")
	}
}

func newTestAPI(t *testing.T, engine *testengine, logger *slog.Logger) *API {
	t.Helper()
	if engine == nil {
		engine = &testengine{}
	}
	engine.T = t
	return &API{
		Logger: logger,
		Engine: engine,
		Val:    validator.New(),
	}
}

func do(t *testing.T, srv *httptest.Server, method, path, actorID, actorKind, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	if err != nil {
		t.Fatal(err)
	}
	if actorID != "" {
		req.Header.Set(HeaderActorID, actorID)
	}
	if actorKind != "" {
		req.Header.Set(HeaderActorKind, actorKind)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

type testengine struct {
	T *testing.T

	createPost     func(t *testing.T, in engagement.NewPost) (engagement.PostView, error)
	getPost        func(t *testing.T, viewerID, postID string) (engagement.PostView, error)
	editPost       func(t *testing.T, postID, actorID string, patch engagement.PostPatch) (engagement.PostView, error)
	deletePost     func(t *testing.T, postID, actorID string) error
	addComment     func(t *testing.T, in engagement.NewComment) (engagement.CommentView, error)
	editComment    func(t *testing.T, commentID, actorID string, patch engagement.CommentPatch) (engagement.CommentView, error)
	deleteComment  func(t *testing.T, commentID, actorID string) error
	listComments   func(t *testing.T, viewerID, postID string, pr engagement.PageRequest) (engagement.Page[engagement.CommentView], error)
	listReplies    func(t *testing.T, viewerID, commentID string, pr engagement.PageRequest) (engagement.Page[engagement.CommentView], error)
	setReaction    func(t *testing.T, req engagement.ReactionRequest) (engagement.Target, error)
	savePost       func(t *testing.T, postID, actorID string) error
	unsavePost     func(t *testing.T, postID, actorID string) error
	listFeed       func(t *testing.T, viewerID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error)
	listUserPosts  func(t *testing.T, viewerID, authorID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error)
	listSavedPosts func(t *testing.T, viewerID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error)
	listReposts    func(t *testing.T, viewerID, postID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error)
	searchPosts    func(t *testing.T, viewerID, query string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error)
}

// unexpected fails the test when a handler reaches an engine method the
// case did not stub.
func (e *testengine) unexpected(name string) error {
	e.T.Helper()
	e.T.Errorf("Unexpected engine call %s", name)
	return errors.New("unexpected call")
}

func (e *testengine) CreatePost(_ context.Context, in engagement.NewPost) (engagement.PostView, error) {
	if e.createPost == nil {
		return engagement.PostView{}, e.unexpected("CreatePost")
	}
	return e.createPost(e.T, in)
}

func (e *testengine) GetPost(_ context.Context, viewerID, postID string) (engagement.PostView, error) {
	if e.getPost == nil {
		return engagement.PostView{}, e.unexpected("GetPost")
	}
	return e.getPost(e.T, viewerID, postID)
}

func (e *testengine) EditPost(_ context.Context, postID, actorID string, patch engagement.PostPatch) (engagement.PostView, error) {
	if e.editPost == nil {
		return engagement.PostView{}, e.unexpected("EditPost")
	}
	return e.editPost(e.T, postID, actorID, patch)
}

func (e *testengine) DeletePost(_ context.Context, postID, actorID string) error {
	if e.deletePost == nil {
		return e.unexpected("DeletePost")
	}
	return e.deletePost(e.T, postID, actorID)
}

func (e *testengine) AddComment(_ context.Context, in engagement.NewComment) (engagement.CommentView, error) {
	if e.addComment == nil {
		return engagement.CommentView{}, e.unexpected("AddComment")
	}
	return e.addComment(e.T, in)
}

func (e *testengine) EditComment(_ context.Context, commentID, actorID string, patch engagement.CommentPatch) (engagement.CommentView, error) {
	if e.editComment == nil {
		return engagement.CommentView{}, e.unexpected("EditComment")
	}
	return e.editComment(e.T, commentID, actorID, patch)
}

func (e *testengine) DeleteComment(_ context.Context, commentID, actorID string) error {
	if e.deleteComment == nil {
		return e.unexpected("DeleteComment")
	}
	return e.deleteComment(e.T, commentID, actorID)
}

func (e *testengine) ListComments(_ context.Context, viewerID, postID string, pr engagement.PageRequest) (engagement.Page[engagement.CommentView], error) {
	if e.listComments == nil {
		return engagement.Page[engagement.CommentView]{}, e.unexpected("ListComments")
	}
	return e.listComments(e.T, viewerID, postID, pr)
}

func (e *testengine) ListReplies(_ context.Context, viewerID, commentID string, pr engagement.PageRequest) (engagement.Page[engagement.CommentView], error) {
	if e.listReplies == nil {
		return engagement.Page[engagement.CommentView]{}, e.unexpected("ListReplies")
	}
	return e.listReplies(e.T, viewerID, commentID, pr)
}

func (e *testengine) SetReaction(_ context.Context, req engagement.ReactionRequest) (engagement.Target, error) {
	if e.setReaction == nil {
		return engagement.Target{}, e.unexpected("SetReaction")
	}
	return e.setReaction(e.T, req)
}

func (e *testengine) SavePost(_ context.Context, postID, actorID string) error {
	if e.savePost == nil {
		return e.unexpected("SavePost")
	}
	return e.savePost(e.T, postID, actorID)
}

func (e *testengine) UnsavePost(_ context.Context, postID, actorID string) error {
	if e.unsavePost == nil {
		return e.unexpected("UnsavePost")
	}
	return e.unsavePost(e.T, postID, actorID)
}

func (e *testengine) ListFeed(_ context.Context, viewerID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error) {
	if e.listFeed == nil {
		return engagement.Page[engagement.PostView]{}, e.unexpected("ListFeed")
	}
	return e.listFeed(e.T, viewerID, pr)
}

func (e *testengine) ListUserPosts(_ context.Context, viewerID, authorID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error) {
	if e.listUserPosts == nil {
		return engagement.Page[engagement.PostView]{}, e.unexpected("ListUserPosts")
	}
	return e.listUserPosts(e.T, viewerID, authorID, pr)
}

func (e *testengine) ListSavedPosts(_ context.Context, viewerID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error) {
	if e.listSavedPosts == nil {
		return engagement.Page[engagement.PostView]{}, e.unexpected("ListSavedPosts")
	}
	return e.listSavedPosts(e.T, viewerID, pr)
}

func (e *testengine) ListReposts(_ context.Context, viewerID, postID string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error) {
	if e.listReposts == nil {
		return engagement.Page[engagement.PostView]{}, e.unexpected("ListReposts")
	}
	return e.listReposts(e.T, viewerID, postID, pr)
}

func (e *testengine) SearchPosts(_ context.Context, viewerID, query string, pr engagement.PageRequest) (engagement.Page[engagement.PostView], error) {
	if e.searchPosts == nil {
		return engagement.Page[engagement.PostView]{}, e.unexpected("SearchPosts")
	}
	return e.searchPosts(e.T, viewerID, query, pr)
}

func checkStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("Got HTTP status %d, want %d", got, want)
	}
}

func checkBody(t *testing.T, resp *http.Response, want string) {
	t.Helper()
	defer resp.Body.Close()
	gotBody := normalizeJSON(t, resp.Body)
	wantBody := normalizeJSON(t, strings.NewReader(want))
	if gotBody != wantBody {
		t.Errorf("Body does not match\nGot\n  %s\n\nWant\n  %s", gotBody, wantBody)
	}
}

// checkValidation checks that the body lists a validation error for field.
func checkValidation(t *testing.T, resp *http.Response, field string) {
	t.Helper()
	defer resp.Body.Close()
	var body struct {
		Errors []validator.ValidationError `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Could not decode validation errors: %v", err)
	}
	for _, e := range body.Errors {
		if e.Field == field {
			return
		}
	}
	t.Errorf("No validation error for field %s in %+v", field, body.Errors)
}

func checkLog(t *testing.T, buffer *bytes.Buffer, want string) {
	t.Helper()
	if s := buffer.String(); want != "" && !strings.Contains(s, want) {
		t.Errorf("Log does not contain %s\n", want)
	}
}

// normalizeJSON re-encodes r so that key order and whitespace do not
// matter when comparing bodies.
func normalizeJSON(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("Could not read JSON: %v", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("Could not parse JSON %q: %v", b, err)
	}
	out, err := json.MarshalIndent(v, "  ", "  ")
	if err != nil {
		t.Fatalf("Could not encode JSON: %v", err)
	}
	return string(out)
}
