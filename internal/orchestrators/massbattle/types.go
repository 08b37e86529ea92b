package massbattle

import (
	"github.com/KirkDiggler/campaign-api/internal/auth"
	"github.com/KirkDiggler/campaign-api/internal/events"
	"github.com/KirkDiggler/campaign-api/internal/repositories/armies"
	"github.com/KirkDiggler/campaign-api/internal/repositories/battles"
	"github.com/KirkDiggler/campaign-api/internal/rules/goals"
)

// CreateBattleInput opens a new battle in planning state.
type CreateBattleInput struct {
	CampaignID string
	Name       string
	// TerrainDescription is the DM's prose description of the battlefield.
	TerrainDescription string
	// MaxRounds defaults to 5 when zero and may not exceed 5.
	MaxRounds int
	Actor     auth.Actor
}

// CreateBattleOutput contains the created battle.
type CreateBattleOutput struct {
	Battle *battles.Battle
}

// GetBattleInput retrieves a battle by ID.
type GetBattleInput struct {
	BattleID string
}

// GetBattleOutput contains the battle.
type GetBattleOutput struct {
	Battle *battles.Battle
}

// GetActiveBattleInput looks up a campaign's current battle.
type GetActiveBattleInput struct {
	CampaignID string
}

// GetActiveBattleOutput contains the active battle; nil when the campaign
// has none.
type GetActiveBattleOutput struct {
	Battle *battles.Battle
}

// AddParticipantInput fields an army in a planning-state battle. With an
// ArmyID the roster entry supplies stats; otherwise Stats describe a
// temporary army created for this battle only.
type AddParticipantInput struct {
	BattleID string
	Actor    auth.Actor
	ArmyID   string
	TeamName string
	// FactionColor tints the army's map marker.
	FactionColor string
	// Name, PlayerID, Category and Stats are used only when ArmyID is empty.
	Name     string
	PlayerID string
	Category string
	Stats    battles.ArmyStats
}

// AddParticipantOutput contains the fielded participant.
type AddParticipantOutput struct {
	Participant battles.Participant
}

// StartBattleInput moves a battle from planning to goal selection,
// fixing base scores.
type StartBattleInput struct {
	BattleID string
	Actor    auth.Actor
}

// StartBattleOutput contains the started battle and the team that
// selects first.
type StartBattleOutput struct {
	Battle    *battles.Battle
	FirstTeam string
}

// SetStatusInput requests an explicit state machine transition.
type SetStatusInput struct {
	BattleID string
	Actor    auth.Actor
	Status   battles.Status
}

// SetStatusOutput contains the battle after the transition.
type SetStatusOutput struct {
	Battle *battles.Battle
}

// SelectGoalInput records a team's goal choice for the current round.
type SelectGoalInput struct {
	BattleID      string
	Actor         auth.Actor
	ParticipantID string
	GoalKey       string
	// TargetParticipantID names the enemy army for goals that target one.
	TargetParticipantID string
}

// SelectGoalOutput contains the recorded goal instance and whose selection
// turn is next; NextTeam is empty once every team has selected.
type SelectGoalOutput struct {
	Goal     battles.GoalInstance
	NextTeam string
}

// RollGoalDiceInput performs the one-shot d20 roll for a goal instance.
type RollGoalDiceInput struct {
	BattleID       string
	GoalInstanceID string
	Actor          auth.Actor
}

// RollGoalDiceOutput contains the roll and the acting army's stat modifier.
type RollGoalDiceOutput struct {
	DiceRoll     int
	StatModifier int
	Total        int
}

// ResolveGoalInput is the DM ruling on a rolled goal. ModifierOverride
// replaces the catalog's reward or penalty when set.
type ResolveGoalInput struct {
	BattleID         string
	GoalInstanceID   string
	Actor            auth.Actor
	DC               int
	ModifierOverride *int
}

// ResolveGoalOutput reports the computed outcome and the battle with
// updated scores.
type ResolveGoalOutput struct {
	Success         bool
	AppliedModifier int
	Battle          *battles.Battle
}

// AdvanceRoundInput closes a fully-resolved round; the final round
// completes the battle instead of opening a new one.
type AdvanceRoundInput struct {
	BattleID string
	Actor    auth.Actor
}

// AdvanceRoundOutput contains the battle after the round transition.
type AdvanceRoundOutput struct {
	Battle    *battles.Battle
	Completed bool
}

// CompleteBattleInput ends a battle early after a fully-resolved round.
type CompleteBattleInput struct {
	BattleID string
	Actor    auth.Actor
}

// CompleteBattleOutput contains the final battle, the participant ranking
// and the winning team; WinnerTeam is empty for a draw.
type CompleteBattleOutput struct {
	Battle     *battles.Battle
	Ranking    []events.ParticipantScore
	WinnerTeam string
}

// CancelBattleInput abandons a battle from any non-terminal state.
type CancelBattleInput struct {
	BattleID string
	Actor    auth.Actor
}

// CancelBattleOutput contains the cancelled battle.
type CancelBattleOutput struct {
	Battle *battles.Battle
}

// UpdateParticipantPositionInput repositions an army marker on the
// battlefield map.
type UpdateParticipantPositionInput struct {
	BattleID      string
	ParticipantID string
	Actor         auth.Actor
	X             float64
	Y             float64
}

// UpdateParticipantPositionOutput is empty; positions are cosmetic.
type UpdateParticipantPositionOutput struct{}

// ListGoalsInput filters the goal catalog; ArmyCategory keeps only goals
// the given army category may attempt.
type ListGoalsInput struct {
	ArmyCategory string
}

// ListGoalsOutput contains the matching goal definitions.
type ListGoalsOutput struct {
	Goals []goals.Definition
}

// ListHistoryInput requests a campaign's archived battle records; ArmyID
// narrows to one army's history when set.
type ListHistoryInput struct {
	CampaignID string
	ArmyID     string
}

// ListHistoryOutput contains the archived battle records, newest first.
type ListHistoryOutput struct {
	Records []armies.BattleRecord
}
