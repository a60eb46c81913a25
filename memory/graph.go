package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/GetStream/engagement-backend/engagement"
)

type edge struct {
	from, to string
}

// Graph is an in-memory engagement.Graph. Connected edges are symmetric;
// every other status is directed.
type Graph struct {
	mu    sync.RWMutex
	edges map[edge]engagement.ConnectionStatus
}

var _ engagement.Graph = (*Graph)(nil)

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{edges: make(map[edge]engagement.ConnectionStatus)}
}

// Set records the status of the edge from one actor to another.
func (g *Graph) Set(from, to string, status engagement.ConnectionStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.edges[edge{from, to}] = status
}

// Connect marks a and b as connected.
func (g *Graph) Connect(a, b string) {
	g.Set(a, b, engagement.Connected)
}

// Follow marks follower as following followee.
func (g *Graph) Follow(follower, followee string) {
	g.Set(follower, followee, engagement.Following)
}

// ConnectionsOf implements engagement.Graph.
func (g *Graph) ConnectionsOf(_ context.Context, actorID string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []string
	for e, status := range g.edges {
		if status != engagement.Connected {
			continue
		}
		switch actorID {
		case e.from:
			out = append(out, e.to)
		case e.to:
			out = append(out, e.from)
		}
	}
	sort.Strings(out)
	return out, nil
}

// FollowingOf implements engagement.Graph.
func (g *Graph) FollowingOf(_ context.Context, actorID string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []string
	for e, status := range g.edges {
		if status == engagement.Following && e.from == actorID {
			out = append(out, e.to)
		}
	}
	sort.Strings(out)
	return out, nil
}
