// Package arena provides the config-backed arena and proximity provider.
package arena

import (
	"math"

	"github.com/tgray07/duelcore/internal/models"
)

// Provider serves fixed spawn points and the local-duel proximity gate.
type Provider struct {
	spawnA     models.Position
	spawnB     models.Position
	configured bool
	radius     float64
}

// New creates a provider with both spawn points set.
func New(spawnA, spawnB models.Position, radius float64) *Provider {
	return &Provider{spawnA: spawnA, spawnB: spawnB, configured: true, radius: radius}
}

// Unconfigured creates a provider with no arena; arena-placement challenges
// are rejected, local duels still use the proximity radius.
func Unconfigured(radius float64) *Provider {
	return &Provider{radius: radius}
}

func (p *Provider) Configured() bool        { return p.configured }
func (p *Provider) SpawnA() models.Position { return p.spawnA }
func (p *Provider) SpawnB() models.Position { return p.spawnB }

// WithinProximity reports whether two positions are in the same world and
// within the configured radius.
func (p *Provider) WithinProximity(a, b models.Position) bool {
	if a.World != b.World {
		return false
	}
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx+dy*dy+dz*dz) <= p.radius
}
