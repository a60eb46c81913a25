package engagement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Resolver resolves actor references to display attributes. Individuals and
// organizations are looked up in separate directories.
type Resolver struct {
	individuals   Directory
	organizations Directory
	cache         AuthorCache
	logger        *slog.Logger
}

// NewResolver creates a Resolver. cache may be nil.
func NewResolver(individuals, organizations Directory, cache AuthorCache, logger *slog.Logger) *Resolver {
	return &Resolver{
		individuals:   individuals,
		organizations: organizations,
		cache:         cache,
		logger:        logger,
	}
}

// Resolve returns the display attributes of ref. It fails with a NotFound
// error with reason AuthorMissing when the directory has no such actor.
func (r *Resolver) Resolve(ctx context.Context, ref ActorRef) (Author, error) {
	if r.cache != nil {
		a, ok, err := r.cache.GetAuthor(ctx, ref)
		if err != nil {
			r.logger.Warn("Could not read author cache", "actor_id", ref.ID, "error", err.Error())
		} else if ok {
			return a, nil
		}
	}

	dir := r.individuals
	if ref.Kind == Organization {
		dir = r.organizations
	}
	a, err := dir.Lookup(ctx, ref.ID)
	if errors.Is(err, ErrNoRecord) {
		return Author{}, notFound(ReasonAuthorMissing, "author %s %s not found", ref.Kind, ref.ID)
	}
	if err != nil {
		return Author{}, fmt.Errorf("lookup %s %s: %w", ref.Kind, ref.ID, err)
	}

	if r.cache != nil {
		if err := r.cache.SetAuthor(ctx, ref, a); err != nil {
			r.logger.Warn("Could not cache author", "actor_id", ref.ID, "error", err.Error())
		}
	}
	return a, nil
}

// session memoizes resolutions for the lifetime of one request. It is not
// safe for concurrent use.
type session struct {
	r    *Resolver
	seen map[ActorRef]AuthorView
}

func (r *Resolver) session() *session {
	return &session{r: r, seen: make(map[ActorRef]AuthorView)}
}

// view resolves ref for display in a listing. Authors that can no longer be
// resolved are rendered with their reference only.
func (s *session) view(ctx context.Context, ref ActorRef) (AuthorView, error) {
	if v, ok := s.seen[ref]; ok {
		return v, nil
	}
	a, err := s.r.Resolve(ctx, ref)
	if err != nil {
		if KindOf(err) != KindNotFound {
			return AuthorView{}, err
		}
		s.r.logger.Warn("Author missing from directory", "actor_id", ref.ID, "kind", string(ref.Kind))
	}
	v := newAuthorView(ref, a)
	s.seen[ref] = v
	return v, nil
}
