package generator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/elliotchance/pie/v2"

	"github.com/vanshika/heronet/internal/domain"
)

// Generator produces synthetic co-appearance edges: every generated issue
// has a cast, and each ordered pair of cast members becomes one edge.
type Generator struct {
	cfg           Config
	rand          *rand.Rand
	nameFragments nameFragments
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	if cfg.NumEntities <= 1 {
		cfg.NumEntities = DefaultConfig().NumEntities
	}
	if cfg.NumIssues <= 0 {
		cfg.NumIssues = DefaultConfig().NumIssues
	}
	if cfg.MinCast < 2 {
		cfg.MinCast = 2
	}
	if cfg.MaxCast < cfg.MinCast {
		cfg.MaxCast = cfg.MinCast
	}
	if cfg.MaxCast > cfg.NumEntities {
		cfg.MaxCast = cfg.NumEntities
	}
	if cfg.MinCast > cfg.MaxCast {
		cfg.MinCast = cfg.MaxCast
	}
	if cfg.RecurringChance < 0 {
		cfg.RecurringChance = 0
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:           cfg,
		rand:          rand.New(rand.NewSource(cfg.Seed)),
		nameFragments: defaultNameFragments(),
	}
}

// Generate synthesises the edge list. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) ([]domain.Edge, error) {
	names := g.entityNames()
	recurring := names[:max(1, len(names)/50)]

	var edges []domain.Edge
	for i := 0; i < g.cfg.NumIssues; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cast := g.cast(names, recurring)
		for a := 0; a < len(cast); a++ {
			for b := a + 1; b < len(cast); b++ {
				edges = append(edges, domain.Edge{Source: cast[a], Target: cast[b]})
			}
		}
	}
	return edges, nil
}

func (g *Generator) cast(names, recurring []string) []string {
	size := g.cfg.MinCast + g.rand.Intn(g.cfg.MaxCast-g.cfg.MinCast+1)
	cast := make([]string, 0, size)
	for len(cast) < size {
		pool := names
		if g.rand.Float64() < g.cfg.RecurringChance {
			pool = recurring
		}
		candidate := pool[g.rand.Intn(len(pool))]
		if pie.Contains(cast, candidate) {
			// Recurring pool may be smaller than the cast; fall back to the full roster.
			candidate = names[g.rand.Intn(len(names))]
			if pie.Contains(cast, candidate) {
				continue
			}
		}
		cast = append(cast, candidate)
	}
	return cast
}

// entityNames returns NumEntities distinct names. Some use the
// "LAST, FIRST" form so that generated files exercise quoted fields.
func (g *Generator) entityNames() []string {
	seen := make(map[string]struct{}, g.cfg.NumEntities)
	names := make([]string, 0, g.cfg.NumEntities)
	for len(names) < g.cfg.NumEntities {
		name := g.randomName()
		if _, dup := seen[name]; dup {
			name = fmt.Sprintf("%s %d", name, len(names))
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

func (g *Generator) randomName() string {
	first := g.nameFragments.first[g.rand.Intn(len(g.nameFragments.first))]
	last := g.nameFragments.last[g.rand.Intn(len(g.nameFragments.last))]
	if g.rand.Float64() < 0.5 {
		return fmt.Sprintf("%s, %s", last, first)
	}
	alias := g.nameFragments.aliases[g.rand.Intn(len(g.nameFragments.aliases))]
	return fmt.Sprintf("%s/%s %s", alias, first, last)
}

type nameFragments struct {
	first   []string
	last    []string
	aliases []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		first:   []string{"JILL", "PETER", "MARY", "BEN", "GWEN", "HARRY", "NORMAN", "FLASH", "BETTY", "NED", "RANDY", "LIZ", "EDDIE", "FELICIA", "OTTO"},
		last:    []string{"STACY", "PARKER", "WATSON", "OSBORN", "THOMPSON", "BRANT", "LEEDS", "ROBERTSON", "ALLAN", "BROCK", "HARDY", "OCTAVIUS"},
		aliases: []string{"SPIDER-MAN", "GREEN GOBLIN", "BLACK CAT", "VENOM", "DOCTOR OCTOPUS", "PROWLER", "HOBGOBLIN", "SCORPION", "VULTURE", "SANDMAN"},
	}
}
