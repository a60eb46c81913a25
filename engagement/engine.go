// Package engagement implements the content engagement engine: posts,
// comments, reactions, saves and the personalized feed.
package engagement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Engine coordinates the store, the author resolver, the social graph and
// the notifier. All methods are safe for concurrent use.
type Engine struct {
	store    Store
	graph    Graph
	authors  *Resolver
	notifier Notifier
	logger   *slog.Logger

	now             func() time.Time
	defaultPageSize int
	maxPageSize     int
}

// An Option configures an Engine.
type Option func(*Engine)

// WithNotifier sets the notifier informed about new comments and reactions.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithClock overrides the clock used to stamp new records.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithPageSizes overrides the default and maximum page sizes of listings.
func WithPageSizes(def, max int) Option {
	return func(e *Engine) {
		if def > 0 {
			e.defaultPageSize = def
		}
		if max > 0 {
			e.maxPageSize = max
		}
	}
}

// New creates an Engine.
func New(store Store, graph Graph, authors *Resolver, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:           store,
		graph:           graph,
		authors:         authors,
		logger:          logger,
		now:             time.Now,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.defaultPageSize > e.maxPageSize {
		e.defaultPageSize = e.maxPageSize
	}
	return e
}

func (e *Engine) notify(ctx context.Context, n Notification) {
	if e.notifier == nil || n.Recipient == n.Actor.ID {
		return
	}
	if err := e.notifier.Notify(ctx, n); err != nil {
		e.logger.Warn("Could not notify", "event", n.Event, "recipient", n.Recipient, "error", err.Error())
	}
}

// network returns the actors whose connections-only posts viewer may see.
func (e *Engine) network(ctx context.Context, viewer string) ([]string, error) {
	var connections, following []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := e.graph.ConnectionsOf(gctx, viewer)
		if err != nil {
			return fmt.Errorf("connections of %s: %w", viewer, err)
		}
		connections = ids
		return nil
	})
	g.Go(func() error {
		ids, err := e.graph.FollowingOf(gctx, viewer)
		if err != nil {
			return fmt.Errorf("following of %s: %w", viewer, err)
		}
		following = ids
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(connections)+len(following))
	out := make([]string, 0, len(connections)+len(following))
	for _, ids := range [][]string{connections, following} {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out, nil
}

// Visible reports whether viewer may see p given the viewer's network.
func Visible(p Post, viewer string, network []string) bool {
	if p.Author.ID == viewer {
		return true
	}
	switch p.Visibility {
	case Public:
		return true
	case ConnectionsOnly:
		for _, id := range network {
			if id == p.Author.ID {
				return true
			}
		}
	}
	return false
}

// visiblePost loads a post and checks that viewer may see it. Invisible
// posts are reported as missing.
func (e *Engine) visiblePost(ctx context.Context, s Store, viewer, postID string) (Post, error) {
	p, err := s.GetPost(ctx, postID)
	if errors.Is(err, ErrNoRecord) {
		return Post{}, notFound(ReasonPostMissing, "post %s not found", postID)
	}
	if err != nil {
		return Post{}, fmt.Errorf("get post %s: %w", postID, err)
	}
	if p.Author.ID == viewer || p.Visibility == Public {
		return p, nil
	}
	network, err := e.network(ctx, viewer)
	if err != nil {
		return Post{}, err
	}
	if !Visible(p, viewer, network) {
		return Post{}, notFound(ReasonPostMissing, "post %s not found", postID)
	}
	return p, nil
}

func (e *Engine) window(pr PageRequest) (page, limit, offset int) {
	page, limit = pr.Page, pr.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = e.defaultPageSize
	}
	if limit > e.maxPageSize {
		limit = e.maxPageSize
	}
	// Pages past the representable offset saturate to an empty window.
	if page-1 > math.MaxInt/limit {
		return page, limit, math.MaxInt
	}
	return page, limit, (page - 1) * limit
}
