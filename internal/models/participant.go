package models

// ParticipantID is the stable handle for a connected actor. It is the map key
// for every registry and session index; the core never looks actors up by
// display name.
type ParticipantID string

func (id ParticipantID) String() string { return string(id) }

// GameMode is the host game mode a participant plays in.
type GameMode string

const (
	GameModeSurvival  GameMode = "SURVIVAL"
	GameModeCreative  GameMode = "CREATIVE"
	GameModeAdventure GameMode = "ADVENTURE"
	GameModeSpectator GameMode = "SPECTATOR"
)

// Position is a world-qualified location.
type Position struct {
	World string  `json:"world"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Yaw   float32 `json:"yaw,omitempty"`
	Pitch float32 `json:"pitch,omitempty"`
}

// ItemStack is one inventory slot's content.
type ItemStack struct {
	Kind   string `json:"kind"`
	Amount int    `json:"amount"`
}

// Inventory holds main and armor slots. Nil entries are empty slots.
type Inventory struct {
	Slots []ItemStack `json:"slots"`
	Armor []ItemStack `json:"armor"`
}

// Empty reports whether every slot and armor piece is unoccupied.
func (inv Inventory) Empty() bool {
	for _, it := range inv.Slots {
		if it.Kind != "" && it.Amount > 0 {
			return false
		}
	}
	for _, it := range inv.Armor {
		if it.Kind != "" && it.Amount > 0 {
			return false
		}
	}
	return true
}

// Vitals are the mutable survival stats of a participant.
type Vitals struct {
	Health     float64 `json:"health"`
	Hunger     int     `json:"hunger"`
	Experience int     `json:"experience"`
}

// PlayerState is the full pre-duel condition captured by the snapshot store
// and restored during settlement.
type PlayerState struct {
	Inventory Inventory `json:"inventory"`
	Vitals    Vitals    `json:"vitals"`
	GameMode  GameMode  `json:"game_mode"`
	Position  Position  `json:"position"`
}
