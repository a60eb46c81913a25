package memory

import (
	"fmt"
	"os"

	"github.com/GetStream/engagement-backend/engagement"
	"gopkg.in/yaml.v3"
)

// Seed is the YAML fixture used to populate the in-memory directories and
// social graph.
type Seed struct {
	Individuals   []SeedActor `yaml:"individuals"`
	Organizations []SeedActor `yaml:"organizations"`
	Edges         []SeedEdge  `yaml:"edges"`
}

// SeedActor is one directory entry.
type SeedActor struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Picture string `yaml:"picture"`
	Bio     string `yaml:"bio"`
}

// SeedEdge is one social graph edge.
type SeedEdge struct {
	From   string                      `yaml:"from"`
	To     string                      `yaml:"to"`
	Status engagement.ConnectionStatus `yaml:"status"`
}

// LoadSeed reads a seed file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	for _, e := range s.Edges {
		switch e.Status {
		case engagement.Connected, engagement.Following, engagement.Pending, engagement.Blocked:
		default:
			return nil, fmt.Errorf("seed %s: edge %s->%s has unknown status %q", path, e.From, e.To, e.Status)
		}
	}
	return &s, nil
}

// Apply writes the seed into the given directories and graph.
func (s *Seed) Apply(individuals, organizations *Directory, g *Graph) {
	for _, a := range s.Individuals {
		individuals.Put(a.ID, engagement.Author{Name: a.Name, Picture: a.Picture, Bio: a.Bio})
	}
	for _, a := range s.Organizations {
		organizations.Put(a.ID, engagement.Author{Name: a.Name, Picture: a.Picture, Bio: a.Bio})
	}
	for _, e := range s.Edges {
		g.Set(e.From, e.To, e.Status)
	}
}
