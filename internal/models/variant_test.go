package models

import "testing"

func TestResolvePolicy(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		want    Policy
	}{
		{
			name:    "arena kit",
			variant: SoloVariant(PlacementArena, LoadoutKit),
			want:    Policy{Teleport: true, IssueKit: true, RequireEmptied: true},
		},
		{
			name:    "arena own items",
			variant: SoloVariant(PlacementArena, LoadoutOwnItems),
			want:    Policy{Teleport: true},
		},
		{
			name:    "local own items",
			variant: SoloVariant(PlacementLocal, LoadoutOwnItems),
			want:    Policy{ProximityGate: true},
		},
		{
			name:    "local kit",
			variant: TeamVariant(PlacementLocal, LoadoutKit, 2),
			want:    Policy{IssueKit: true, RequireEmptied: true, ProximityGate: true},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolvePolicy(tc.variant); got != tc.want {
				t.Fatalf("ResolvePolicy(%+v) = %+v, want %+v", tc.variant, got, tc.want)
			}
		})
	}
}

func TestVariantTeam(t *testing.T) {
	if SoloVariant(PlacementArena, LoadoutKit).Team() {
		t.Fatalf("solo variant must not be a team variant")
	}
	if !TeamVariant(PlacementArena, LoadoutKit, 3).Team() {
		t.Fatalf("3v3 variant should be a team variant")
	}
}

func TestSideOpponent(t *testing.T) {
	if SideA.Opponent() != SideB || SideB.Opponent() != SideA {
		t.Fatalf("sides A and B must oppose each other")
	}
	if SideNone.Opponent() != SideNone {
		t.Fatalf("no side has no opponent")
	}
}

func TestInventoryEmpty(t *testing.T) {
	if !(Inventory{}).Empty() {
		t.Fatalf("zero inventory should be empty")
	}
	padded := Inventory{Slots: []ItemStack{{}, {}, {}}}
	if !padded.Empty() {
		t.Fatalf("blank slots should count as empty")
	}
	held := Inventory{Armor: []ItemStack{{Kind: "iron_boots", Amount: 1}}}
	if held.Empty() {
		t.Fatalf("armor should count as contents")
	}
}
