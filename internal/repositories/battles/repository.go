// Package battles provides repository interface and types for mass battle storage
package battles

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=battlesmock github.com/KirkDiggler/campaign-api/internal/repositories/battles Repository

// Status is a battle's position in its lifecycle state machine.
type Status string

// Battle lifecycle states
const (
	StatusPlanning      Status = "planning"
	StatusGoalSelection Status = "goal_selection"
	StatusResolution    Status = "resolution"
	StatusCompleted     Status = "completed"
	StatusCancelled     Status = "cancelled"
)

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ArmyStats are the six rated aspects of an army, each 1-10.
type ArmyStats struct {
	Numbers    int `json:"numbers"`
	Equipment  int `json:"equipment"`
	Discipline int `json:"discipline"`
	Morale     int `json:"morale"`
	Command    int `json:"command"`
	Logistics  int `json:"logistics"`
}

// Sum is the base battle score contribution of these stats.
func (a ArmyStats) Sum() int {
	return a.Numbers + a.Equipment + a.Discipline + a.Morale + a.Command + a.Logistics
}

// Participant is one army fielded in a battle.
type Participant struct {
	ID     string `json:"id"`
	ArmyID string `json:"army_id,omitempty"`
	Name   string `json:"name"`
	// TeamName groups participants into sides; goals act per team.
	TeamName string `json:"team_name"`
	// FactionColor tints the army's map marker; cosmetic only.
	FactionColor string `json:"faction_color,omitempty"`
	// PlayerID is the controlling player; empty means DM-controlled.
	PlayerID string `json:"player_id,omitempty"`
	// Temporary marks an army created inline for this battle only.
	Temporary bool      `json:"temporary,omitempty"`
	Category  string    `json:"category,omitempty"`
	Stats     ArmyStats `json:"stats"`
	// BaseScore is the sum of stats, fixed when the battle starts.
	BaseScore int `json:"base_score"`
	// CurrentScore is BaseScore plus every applied goal modifier.
	CurrentScore int     `json:"current_score"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
}

// GoalInstance is one team's goal choice for one round, carrying its roll
// and resolution. Instances are append-only history; a replaced selection
// marks the old instance abandoned rather than deleting it.
type GoalInstance struct {
	ID       string `json:"id"`
	Round    int    `json:"round"`
	TeamName string `json:"team_name"`
	// ParticipantID is the acting army the goal's modifier applies to.
	ParticipantID string `json:"participant_id"`
	GoalKey       string `json:"goal_key"`
	// TargetParticipantID is set for goals that target an enemy army.
	TargetParticipantID string `json:"target_participant_id,omitempty"`
	SelectedBy          string `json:"selected_by,omitempty"`
	Abandoned           bool   `json:"abandoned,omitempty"`

	// DiceRoll is the one-shot d20; nil until rolled.
	DiceRoll *int `json:"dice_roll,omitempty"`
	// StatModifier is the acting army's relevant stat minus the neutral
	// value, recorded at roll time.
	StatModifier int `json:"stat_modifier,omitempty"`

	Resolved bool  `json:"resolved,omitempty"`
	DC       *int  `json:"dc,omitempty"`
	Success  *bool `json:"success,omitempty"`
	// AppliedModifier is the signed score change applied on resolution.
	AppliedModifier int        `json:"applied_modifier,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
}

// Battle is the full state document of one mass battle.
type Battle struct {
	ID         string `json:"id"`
	CampaignID string `json:"campaign_id"`
	Name       string `json:"name"`
	// TerrainDescription is the DM's prose description of the battlefield.
	TerrainDescription string `json:"terrain_description,omitempty"`
	Status             Status `json:"status"`
	// Round counts from 1 once goal selection begins.
	Round        int            `json:"round"`
	MaxRounds    int            `json:"max_rounds"`
	Participants []Participant  `json:"participants"`
	Goals        []GoalInstance `json:"goals"`
	// SelectionQueue is the fixed team selection order, first-seen order
	// of team names at battle start.
	SelectionQueue []string `json:"selection_queue,omitempty"`
	// SelectionIndex points into SelectionQueue; len(queue) means every
	// team has selected this round.
	SelectionIndex int       `json:"selection_index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateInput contains parameters for storing a new battle
type CreateInput struct {
	Battle *Battle
}

// CreateOutput contains the stored battle
type CreateOutput struct {
	Battle *Battle
}

// GetInput contains parameters for retrieving a battle
type GetInput struct {
	BattleID string
}

// GetOutput contains the retrieved battle
type GetOutput struct {
	Battle *Battle
}

// GetActiveInput looks up the campaign's current non-terminal battle
type GetActiveInput struct {
	CampaignID string
}

// GetActiveOutput contains the active battle, nil when the campaign has none
type GetActiveOutput struct {
	Battle *Battle
}

// Repository defines the interface for battle storage operations
type Repository interface {
	// Create stores a new battle and marks it the campaign's active battle
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a battle by ID
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// GetActive retrieves the campaign's active battle, if any
	GetActive(ctx context.Context, input GetActiveInput) (*GetActiveOutput, error)

	// Save replaces a battle document; a terminal status clears the
	// campaign's active battle pointer
	Save(ctx context.Context, battle *Battle) error
}
