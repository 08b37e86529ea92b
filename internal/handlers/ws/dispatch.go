package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/KirkDiggler/campaign-api/internal/errors"
	"github.com/KirkDiggler/campaign-api/internal/orchestrators/massbattle"
	"github.com/KirkDiggler/campaign-api/internal/orchestrators/skirmish"
	"github.com/KirkDiggler/campaign-api/internal/repositories/battles"
)

// intentTimeout bounds a single dispatched intent.
const intentTimeout = 10 * time.Second

// Client-facing operation names.
const (
	opCombatAdd     = "combat.add_combatant"
	opCombatRemove  = "combat.remove_combatant"
	opCombatAdvance = "combat.advance_turn"
	opCombatReset   = "combat.reset"
	opCombatMove    = "combat.move"
	opCombatState   = "combat.state"

	opBattleCreate          = "battle.create"
	opBattleGet             = "battle.get"
	opBattleActive          = "battle.active"
	opBattleAddParticipant  = "battle.add_participant"
	opBattleStart           = "battle.start"
	opBattleSetStatus       = "battle.set_status"
	opBattleSelectGoal      = "battle.select_goal"
	opBattleRollGoal        = "battle.roll_goal"
	opBattleResolveGoal     = "battle.resolve_goal"
	opBattleAdvanceRound    = "battle.advance_round"
	opBattleComplete        = "battle.complete"
	opBattleCancel          = "battle.cancel"
	opBattleMoveParticipant = "battle.move_participant"
	opBattleGoals           = "battle.goals"
	opBattleHistory         = "battle.history"
)

type addCombatantPayload struct {
	Combatant          skirmish.Combatant `json:"combatant"`
	Initiative         *int               `json:"initiative,omitempty"`
	InitiativeModifier int                `json:"initiative_modifier,omitempty"`
}

type removeCombatantPayload struct {
	CombatantID string `json:"combatant_id"`
}

type moveCombatantPayload struct {
	CombatantID string            `json:"combatant_id"`
	To          skirmish.Position `json:"to"`
	Distance    float64           `json:"distance"`
	Override    bool              `json:"override,omitempty"`
}

type createBattlePayload struct {
	Name               string `json:"name"`
	TerrainDescription string `json:"terrain_description,omitempty"`
	MaxRounds          int    `json:"max_rounds,omitempty"`
}

type battleIDPayload struct {
	BattleID string `json:"battle_id"`
}

type addParticipantPayload struct {
	BattleID     string            `json:"battle_id"`
	ArmyID       string            `json:"army_id,omitempty"`
	TeamName     string            `json:"team_name"`
	FactionColor string            `json:"faction_color,omitempty"`
	Name         string            `json:"name,omitempty"`
	PlayerID     string            `json:"player_id,omitempty"`
	Category     string            `json:"category,omitempty"`
	Stats        battles.ArmyStats `json:"stats,omitempty"`
}

type setStatusPayload struct {
	BattleID string `json:"battle_id"`
	Status   string `json:"status"`
}

type selectGoalPayload struct {
	BattleID            string `json:"battle_id"`
	ParticipantID       string `json:"participant_id"`
	GoalKey             string `json:"goal_key"`
	TargetParticipantID string `json:"target_participant_id,omitempty"`
}

type rollGoalPayload struct {
	BattleID       string `json:"battle_id"`
	GoalInstanceID string `json:"goal_instance_id"`
}

type resolveGoalPayload struct {
	BattleID         string `json:"battle_id"`
	GoalInstanceID   string `json:"goal_instance_id"`
	DC               int    `json:"dc"`
	ModifierOverride *int   `json:"modifier_override,omitempty"`
}

type moveParticipantPayload struct {
	BattleID      string  `json:"battle_id"`
	ParticipantID string  `json:"participant_id"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
}

type listGoalsPayload struct {
	ArmyCategory string `json:"army_category,omitempty"`
}

type listHistoryPayload struct {
	ArmyID string `json:"army_id,omitempty"`
}

func decode[T any](raw json.RawMessage) (T, error) {
	var payload T
	if len(raw) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, errors.InvalidArgument("malformed payload")
	}
	return payload, nil
}

// dispatch routes one intent frame to its orchestrator. The connection's
// campaign doubles as the skirmish session ID and the event scope.
func (c *client) dispatch(frame intentFrame) (any, error) {
	ctx, cancel := context.WithTimeout(context.Background(), intentTimeout)
	defer cancel()

	switch frame.Op {
	case opCombatAdd:
		p, err := decode[addCombatantPayload](frame.Payload)
		if err != nil {
			return nil, err
		}
		// Players add combatants under their own identity.
		if !c.actor.DM && p.Combatant.MonsterID == "" {
			p.Combatant.OwnerID = c.actor.UserID
		}
		return c.handler.skirmish.AddCombatant(ctx, &skirmish.AddCombatantInput{
			SessionID:          c.campaign,
			Combatant:          p.Combatant,
			Initiative:         p.Initiative,
			InitiativeModifier: p.InitiativeModifier,
		})

	case opCombatRemove:
		p, err := decode[removeCombatantPayload](frame.Payload)
		if err != nil {
			return nil, err
		}
		return c.handler.skirmish.RemoveCombatant(ctx, &skirmish.RemoveCombatantInput{
			SessionID:   c.campaign,
			CombatantID: p.CombatantID,
			Actor:       c.actor,
		})

	case opCombatAdvance:
		return c.handler.skirmish.AdvanceTurn(ctx, &skirmish.AdvanceTurnInput{
			SessionID: c.campaign,
			Actor:     c.actor,
		})

	case opCombatReset:
		return c.handler.skirmish.ResetCombat(ctx, &skirmish.ResetCombatInput{
			SessionID: c.campaign,
			Actor:     c.actor,
		})

	case opCombatMove:
		p, err := decode[moveCombatantPayload](frame.Payload)
		if err != nil {
			return nil, err
		}
		return c.handler.skirmish.MoveCombatant(ctx, &skirmish.MoveCombatantInput{
			SessionID:   c.campaign,
			CombatantID: p.CombatantID,
			Actor:       c.actor,
			To:          p.To,
			Distance:    p.Distance,
			Override:    p.Override,
		})

	case opCombatState:
		return c.handler.skirmish.GetCombatState(ctx, &skirmish.GetCombatStateInput{
			SessionID: c.campaign,
		})

	case opBattleCreate:
		p, err := decode[createBattlePayload](frame.Payload)
		if err != nil {
			return nil, err
		}
		return c.handler.massBattle.CreateBattle(ctx, &massbattle.CreateBattleInput{
			CampaignID:         c.campaign,
			Name:               p.Name,
			TerrainDescription: p.TerrainDescription,
			MaxRounds:          p.MaxRounds,
			Actor:              c.actor,
		})

	case opBattleGet:
		p, err := decode[battleIDPayload](frame.Payload)
		if err != nil {
			return nil, err
		}
		return c.handler.massBattle.GetBattle(ctx, &massbattle.GetBattleInput{BattleID: p.BattleID})

	case opBattleActive:
		return c.handler.massBattle.GetActiveBattle(ctx, &massbattle.GetActiveBattleInput{
			CampaignID: c.campaign,
		})

	case opBattleAddParticipant:
		p, err := decode[addParticipantPayload](frame.Payload)
		if err != nil {
			return nil, err
		}
		return c.handler.massBattle.AddParticipant(ctx, &massbattle.AddParticipantInput{
			BattleID:     p.BattleID,
			Actor:        c.actor,
			ArmyID:       p.ArmyID,
			TeamName:     p.TeamName,
			FactionColor: p.FactionColor,
			Name:         p.Name,
			PlayerID:     p.PlayerID,
			Category:     p.Category,
			Stats:        p.Stats,
		})

	case opBattleStart:
		p, err := decode[battleIDPayload](frame.Payload)
		if err != nil {
			return nil, err
		}
		return c.handler.massBattle.StartBattle(ctx, &massbattle.StartBattleInput{
			BattleID: p.BattleID,
			Actor:    c.actor,
		})

	case opBattleSetStatus:
		p, err := decode[setStatusPayload](frame.Payload)
		if err != nil {
			return nil, err
		}
		return c.handler.massBattle.SetStatus(ctx, &massbattle.SetStatusInput{
			BattleID: p.BattleID,
			Actor:    c.actor,
			Status:   battles.Status(p.Status),
		})

	case opBattleSelectGoal:
		p, err := decode[selectGoalPayload](frame.Payload)
		if err != nil {
			return nil, err
		}
		return c.handler.massBattle.SelectGoal(ctx, &massbattle.SelectGoalInput{
			BattleID:            p.BattleID,
			Actor:               c.actor,
			ParticipantID:       p.ParticipantID,
			GoalKey:             p.GoalKey,
			TargetParticipantID: p.TargetParticipantID,
		})

	case opBattleRollGoal:
		p, err := decode[rollGoalPayload](frame.Payload)
		if err != nil {
			return nil, err
		}
		return c.handler.massBattle.RollGoalDice(ctx, &massbattle.RollGoalDiceInput{
			BattleID:       p.BattleID,
			GoalInstanceID: p.GoalInstanceID,
			Actor:          c.actor,
		})

	case opBattleResolveGoal:
		p, err := decode[resolveGoalPayload](frame.Payload)
		if err != nil {
			return nil, err
		}
		return c.handler.massBattle.ResolveGoal(ctx, &massbattle.ResolveGoalInput{
			BattleID:         p.BattleID,
			GoalInstanceID:   p.GoalInstanceID,
			Actor:            c.actor,
			DC:               p.DC,
			ModifierOverride: p.ModifierOverride,
		})

	case opBattleAdvanceRound:
		p, err := decode[battleIDPayload](frame.Payload)
		if err != nil {
			return nil, err
		}
		return c.handler.massBattle.AdvanceRound(ctx, &massbattle.AdvanceRoundInput{
			BattleID: p.BattleID,
			Actor:    c.actor,
		})

	case opBattleComplete:
		p, err := decode[battleIDPayload](frame.Payload)
		if err != nil {
			return nil, err
		}
		return c.handler.massBattle.CompleteBattle(ctx, &massbattle.CompleteBattleInput{
			BattleID: p.BattleID,
			Actor:    c.actor,
		})

	case opBattleCancel:
		p, err := decode[battleIDPayload](frame.Payload)
		if err != nil {
			return nil, err
		}
		return c.handler.massBattle.CancelBattle(ctx, &massbattle.CancelBattleInput{
			BattleID: p.BattleID,
			Actor:    c.actor,
		})

	case opBattleMoveParticipant:
		p, err := decode[moveParticipantPayload](frame.Payload)
		if err != nil {
			return nil, err
		}
		return c.handler.massBattle.UpdateParticipantPosition(ctx, &massbattle.UpdateParticipantPositionInput{
			BattleID:      p.BattleID,
			ParticipantID: p.ParticipantID,
			Actor:         c.actor,
			X:             p.X,
			Y:             p.Y,
		})

	case opBattleGoals:
		p, err := decode[listGoalsPayload](frame.Payload)
		if err != nil {
			return nil, err
		}
		return c.handler.massBattle.ListGoals(ctx, &massbattle.ListGoalsInput{
			ArmyCategory: p.ArmyCategory,
		})

	case opBattleHistory:
		p, err := decode[listHistoryPayload](frame.Payload)
		if err != nil {
			return nil, err
		}
		return c.handler.massBattle.ListHistory(ctx, &massbattle.ListHistoryInput{
			CampaignID: c.campaign,
			ArmyID:     p.ArmyID,
		})

	default:
		return nil, errors.InvalidArgumentf("unknown operation %q", frame.Op)
	}
}
