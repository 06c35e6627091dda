package models

// Placement decides where a duel is fought.
type Placement string

const (
	// PlacementArena teleports both sides to configured spawn points.
	PlacementArena Placement = "ARENA"
	// PlacementLocal fights in place; participants must already be within
	// the configured proximity radius in the same world.
	PlacementLocal Placement = "LOCAL"
)

// Loadout decides what participants fight with.
type Loadout string

const (
	// LoadoutKit replaces personal inventory with a standard kit.
	LoadoutKit Loadout = "KIT"
	// LoadoutOwnItems keeps personal inventory.
	LoadoutOwnItems Loadout = "OWN_ITEMS"
)

// Variant is the immutable configuration of a duel, fixed at session start.
type Variant struct {
	Placement Placement `json:"placement"`
	Loadout   Loadout   `json:"loadout"`
	TeamSize  int       `json:"team_size"`
}

// SoloVariant builds a 1v1 variant.
func SoloVariant(placement Placement, loadout Loadout) Variant {
	return Variant{Placement: placement, Loadout: loadout, TeamSize: 1}
}

// TeamVariant builds an NvN variant.
func TeamVariant(placement Placement, loadout Loadout, teamSize int) Variant {
	return Variant{Placement: placement, Loadout: loadout, TeamSize: teamSize}
}

// Team reports whether the variant requires rosters larger than one.
func (v Variant) Team() bool { return v.TeamSize > 1 }

// Policy is the session-start behavior resolved from a Variant, consulted
// once at creation instead of re-derived at every call site.
type Policy struct {
	Teleport       bool `json:"teleport"`
	IssueKit       bool `json:"issue_kit"`
	RequireEmptied bool `json:"require_emptied"`
	ProximityGate  bool `json:"proximity_gate"`
}

// ResolvePolicy maps a variant to its start-time policy.
func ResolvePolicy(v Variant) Policy {
	kit := v.Loadout == LoadoutKit
	return Policy{
		Teleport:       v.Placement == PlacementArena,
		IssueKit:       kit,
		RequireEmptied: kit,
		ProximityGate:  v.Placement == PlacementLocal,
	}
}
