package skirmish

import (
	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/campaign-api/internal/auth"
)

// Position is a combatant's location on the tactical map, in feet.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Combatant is a character or monster instance in a combat session.
type Combatant struct {
	// ID is the character ID, or the generated instance ID for monsters.
	ID string `json:"id"`
	// MonsterID is the monster template ID; empty for characters.
	MonsterID string `json:"monster_id,omitempty"`
	// InstanceNumber distinguishes multiple instances of one monster
	// template in a session (Goblin #2).
	InstanceNumber int    `json:"instance_number,omitempty"`
	Name           string `json:"name"`
	// OwnerID is the controlling player; empty means DM-controlled.
	OwnerID    string `json:"owner_id,omitempty"`
	Initiative int    `json:"initiative"`
	// Speed is the base movement speed in feet per turn.
	Speed    float64  `json:"speed"`
	Position Position `json:"position"`
}

// GetID implements core.Entity
func (c *Combatant) GetID() string {
	return c.ID
}

// GetType implements core.Entity
func (c *Combatant) GetType() string {
	if c.MonsterID != "" {
		return "monster"
	}
	return "character"
}

var _ core.Entity = (*Combatant)(nil)

// AddCombatantInput adds a combatant to a session's initiative order.
type AddCombatantInput struct {
	SessionID string
	Combatant Combatant
	// Initiative, when set, is the pre-rolled initiative score. When nil
	// the server rolls 1d20 + InitiativeModifier.
	Initiative *int
	// InitiativeModifier is added to a server-side initiative roll
	// (typically the character's DEX modifier).
	InitiativeModifier int
}

// AddCombatantOutput reports the inserted combatant and the new order.
type AddCombatantOutput struct {
	Combatant        Combatant
	Order            []string
	CurrentTurnIndex int
}

// RemoveCombatantInput removes a combatant from a session.
type RemoveCombatantInput struct {
	SessionID   string
	CombatantID string
	Actor       auth.Actor
}

// RemoveCombatantOutput reports the order after removal.
type RemoveCombatantOutput struct {
	Order            []string
	CurrentTurnIndex int
}

// AdvanceTurnInput starts combat or advances to the next turn.
type AdvanceTurnInput struct {
	SessionID string
	Actor     auth.Actor
}

// AdvanceTurnOutput reports the new current combatant and its restored speed.
type AdvanceTurnOutput struct {
	CombatantID      string
	CurrentTurnIndex int
	MovementSpeed    float64
}

// ResetCombatInput clears a session.
type ResetCombatInput struct {
	SessionID string
	Actor     auth.Actor
}

// ResetCombatOutput is empty; reset is idempotent.
type ResetCombatOutput struct{}

// MoveCombatantInput moves a combatant and spends movement budget.
type MoveCombatantInput struct {
	SessionID   string
	CombatantID string
	Actor       auth.Actor
	To          Position
	// Distance is the feet of movement this move consumes. The engine
	// never trusts a client-reported remaining budget.
	Distance float64
	// Override lets the DM exceed the remaining budget, driving it
	// negative. Rejected for non-DM actors.
	Override bool
}

// MoveCombatantOutput reports the authoritative position and budget.
type MoveCombatantOutput struct {
	Position  Position
	Remaining float64
	// Consumed is false for free repositioning before combat starts.
	Consumed bool
}

// GetCombatStateInput requests a full session snapshot.
type GetCombatStateInput struct {
	SessionID string
}

// GetCombatStateOutput is the full snapshot served to late joiners.
type GetCombatStateOutput struct {
	Combatants       []Combatant
	Order            []string
	CurrentTurnIndex int
	// Remaining maps combatant ID to remaining movement this turn.
	Remaining map[string]float64
}
