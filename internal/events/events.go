// Package events defines the typed event envelope broadcast to connected
// clients and the per-scope ordered bus that delivers it. One event is
// published per committed mutation; rejected intents publish nothing.
package events

import "time"

// Kind tags the delta payload carried by an event
type Kind string

// Skirmish delta kinds
const (
	KindCombatantAdded   Kind = "combatant_added"
	KindCombatantRemoved Kind = "combatant_removed"
	KindTurnAdvanced     Kind = "turn_advanced"
	KindCombatReset      Kind = "combat_reset"
	KindCombatantMoved   Kind = "combatant_moved"
)

// Mass battle delta kinds
const (
	KindBattleCreated        Kind = "battle_created"
	KindBattleStatusChanged  Kind = "battle_status_changed"
	KindBaseScoresCalculated Kind = "base_scores_calculated"
	KindParticipantAdded     Kind = "participant_added"
	KindParticipantMoved     Kind = "participant_moved"
	KindGoalSelected         Kind = "goal_selected"
	KindGoalRolled           Kind = "goal_rolled"
	KindGoalResolved         Kind = "goal_resolved"
	KindRoundAdvanced        Kind = "round_advanced"
	KindBattleCompleted      Kind = "battle_completed"
	KindBattleCancelled      Kind = "battle_cancelled"
)

// Event is the envelope every delta ships in. Seq is assigned per scope in
// commit order; clients may rely on it being gapless within one connection
// except for cosmetic kinds, which a slow consumer may miss.
type Event struct {
	Scope   string    `json:"scope"`
	Seq     uint64    `json:"seq"`
	Kind    Kind      `json:"kind"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload"`
}

// CombatantAdded reports a combatant joining the initiative order.
type CombatantAdded struct {
	SessionID   string  `json:"session_id"`
	CombatantID string  `json:"combatant_id"`
	Name        string  `json:"name"`
	Initiative  int     `json:"initiative"`
	Speed       float64 `json:"speed"`
	// Order is the full initiative order after insertion; insertion can
	// shift positions, so clients replace rather than patch.
	Order            []string `json:"order"`
	CurrentTurnIndex int      `json:"current_turn_index"`
}

// CombatantRemoved reports a combatant leaving the order.
type CombatantRemoved struct {
	SessionID        string   `json:"session_id"`
	CombatantID      string   `json:"combatant_id"`
	Order            []string `json:"order"`
	CurrentTurnIndex int      `json:"current_turn_index"`
}

// TurnAdvanced reports the new current combatant and its restored movement.
type TurnAdvanced struct {
	SessionID        string  `json:"session_id"`
	CombatantID      string  `json:"combatant_id"`
	CurrentTurnIndex int     `json:"current_turn_index"`
	MovementSpeed    float64 `json:"movement_speed"`
}

// CombatReset reports the session returning to its empty state.
type CombatReset struct {
	SessionID string `json:"session_id"`
}

// CombatantMoved is cosmetic: consumers may coalesce or drop it safely.
type CombatantMoved struct {
	SessionID   string  `json:"session_id"`
	CombatantID string  `json:"combatant_id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Remaining   float64 `json:"remaining"`
}

// BattleCreated announces a new mass battle in planning state.
type BattleCreated struct {
	BattleID   string `json:"battle_id"`
	CampaignID string `json:"campaign_id"`
	Name       string `json:"name"`
}

// BattleStatusChanged reports a battle state machine transition.
type BattleStatusChanged struct {
	BattleID string `json:"battle_id"`
	Status   string `json:"status"`
	Round    int    `json:"round"`
}

// ParticipantScore is one participant's authoritative score pair.
type ParticipantScore struct {
	ParticipantID string `json:"participant_id"`
	TeamName      string `json:"team_name"`
	BaseScore     int    `json:"base_score"`
	CurrentScore  int    `json:"current_score"`
}

// BaseScoresCalculated carries every participant's computed starting score.
type BaseScoresCalculated struct {
	BattleID string             `json:"battle_id"`
	Scores   []ParticipantScore `json:"scores"`
}

// ParticipantAdded reports a new army joining a battle roster.
type ParticipantAdded struct {
	BattleID      string `json:"battle_id"`
	ParticipantID string `json:"participant_id"`
	TeamName      string `json:"team_name"`
	Name          string `json:"name"`
	Temporary     bool   `json:"temporary"`
}

// ParticipantMoved is cosmetic battlefield repositioning.
type ParticipantMoved struct {
	BattleID      string  `json:"battle_id"`
	ParticipantID string  `json:"participant_id"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
}

// GoalSelected reports a team's goal choice and whose selection turn is next.
type GoalSelected struct {
	BattleID       string `json:"battle_id"`
	Round          int    `json:"round"`
	GoalInstanceID string `json:"goal_instance_id"`
	TeamName       string `json:"team_name"`
	GoalKey        string `json:"goal_key"`
	GoalName       string `json:"goal_name"`
	TargetID       string `json:"target_id,omitempty"`
	// NextTeam is empty once every team has selected.
	NextTeam string `json:"next_team,omitempty"`
}

// GoalRolled reports the one-shot dice roll attached to a goal instance.
type GoalRolled struct {
	BattleID       string `json:"battle_id"`
	GoalInstanceID string `json:"goal_instance_id"`
	TeamName       string `json:"team_name"`
	DiceRoll       int    `json:"dice_roll"`
	TotalModifier  int    `json:"total_modifier"`
}

// GoalResolved reports the DM ruling and the resulting authoritative scores.
type GoalResolved struct {
	BattleID        string             `json:"battle_id"`
	GoalInstanceID  string             `json:"goal_instance_id"`
	TeamName        string             `json:"team_name"`
	DC              int                `json:"dc"`
	Success         bool               `json:"success"`
	ModifierApplied int                `json:"modifier_applied"`
	Scores          []ParticipantScore `json:"scores"`
}

// RoundAdvanced reports a new goal-selection round opening.
type RoundAdvanced struct {
	BattleID string `json:"battle_id"`
	Round    int    `json:"round"`
	// FirstTeam opens the new round's selection queue.
	FirstTeam string `json:"first_team,omitempty"`
}

// BattleCompleted carries the final ranking after round 5 resolves.
type BattleCompleted struct {
	BattleID string             `json:"battle_id"`
	Ranking  []ParticipantScore `json:"ranking"`
}

// BattleCancelled reports the terminal cancel transition.
type BattleCancelled struct {
	BattleID string `json:"battle_id"`
}
