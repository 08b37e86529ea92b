// Package massbattle implements the army-scale battle engine: a five-round
// goal-driven state machine where teams pick tactical goals, roll against
// DM-set difficulty, and trade score modifiers until a victor emerges.
package massbattle

//go:generate mockgen -destination=mock/mock_service.go -package=massbattlemock github.com/KirkDiggler/campaign-api/internal/orchestrators/massbattle Service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"

	"github.com/KirkDiggler/campaign-api/internal/errors"
	"github.com/KirkDiggler/campaign-api/internal/events"
	"github.com/KirkDiggler/campaign-api/internal/pkg/clock"
	"github.com/KirkDiggler/campaign-api/internal/pkg/dice"
	"github.com/KirkDiggler/campaign-api/internal/pkg/idgen"
	"github.com/KirkDiggler/campaign-api/internal/repositories/armies"
	"github.com/KirkDiggler/campaign-api/internal/repositories/battles"
	"github.com/KirkDiggler/campaign-api/internal/rules/goals"
)

// DefaultMaxRounds is the battle length when a battle doesn't specify one,
// and the hard cap on any requested length.
const DefaultMaxRounds = 5

// Service defines the interface for mass battle operations
type Service interface {
	// CreateBattle opens a new battle in planning state
	CreateBattle(ctx context.Context, input *CreateBattleInput) (*CreateBattleOutput, error)

	// GetBattle retrieves a battle by ID
	GetBattle(ctx context.Context, input *GetBattleInput) (*GetBattleOutput, error)

	// GetActiveBattle retrieves a campaign's current battle, if any
	GetActiveBattle(ctx context.Context, input *GetActiveBattleInput) (*GetActiveBattleOutput, error)

	// AddParticipant fields an army in a planning-state battle
	AddParticipant(ctx context.Context, input *AddParticipantInput) (*AddParticipantOutput, error)

	// StartBattle fixes base scores and opens round 1 goal selection
	StartBattle(ctx context.Context, input *StartBattleInput) (*StartBattleOutput, error)

	// SetStatus requests an explicit state machine transition
	SetStatus(ctx context.Context, input *SetStatusInput) (*SetStatusOutput, error)

	// SelectGoal records a team's goal choice for the current round
	SelectGoal(ctx context.Context, input *SelectGoalInput) (*SelectGoalOutput, error)

	// RollGoalDice performs the one-shot d20 roll for a goal instance
	RollGoalDice(ctx context.Context, input *RollGoalDiceInput) (*RollGoalDiceOutput, error)

	// ResolveGoal applies the DM ruling and its score modifiers
	ResolveGoal(ctx context.Context, input *ResolveGoalInput) (*ResolveGoalOutput, error)

	// AdvanceRound closes a fully-resolved round
	AdvanceRound(ctx context.Context, input *AdvanceRoundInput) (*AdvanceRoundOutput, error)

	// CompleteBattle ends a battle after a fully-resolved round
	CompleteBattle(ctx context.Context, input *CompleteBattleInput) (*CompleteBattleOutput, error)

	// CancelBattle abandons a battle from any non-terminal state
	CancelBattle(ctx context.Context, input *CancelBattleInput) (*CancelBattleOutput, error)

	// UpdateParticipantPosition repositions an army marker
	UpdateParticipantPosition(ctx context.Context, input *UpdateParticipantPositionInput) (*UpdateParticipantPositionOutput, error)

	// ListGoals returns the goal catalog, optionally filtered by army category
	ListGoals(ctx context.Context, input *ListGoalsInput) (*ListGoalsOutput, error)

	// ListHistory returns a campaign's archived battles
	ListHistory(ctx context.Context, input *ListHistoryInput) (*ListHistoryOutput, error)
}

// Config holds the dependencies for the mass battle orchestrator
type Config struct {
	Repository  battles.Repository
	ArmyStore   armies.Store
	Roller      dice.Roller
	EventBus    *events.Bus
	IDGenerator idgen.Generator
	Clock       clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.ArmyStore == nil {
		vb.RequiredField("ArmyStore")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

type orchestrator struct {
	repo      battles.Repository
	armyStore armies.Store
	roller    dice.Roller
	bus       *events.Bus
	idGen     idgen.Generator
	clock     clock.Clock

	// locks serializes intents per battle; the repository holds state, so
	// only the read-modify-write cycle needs exclusion.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewOrchestrator creates a new mass battle orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		repo:      cfg.Repository,
		armyStore: cfg.ArmyStore,
		roller:    cfg.Roller,
		bus:       cfg.EventBus,
		idGen:     cfg.IDGenerator,
		clock:     cfg.Clock,
		locks:     make(map[string]*sync.Mutex),
	}, nil
}

func (o *orchestrator) lockBattle(battleID string) func() {
	o.mu.Lock()
	m, ok := o.locks[battleID]
	if !ok {
		m = &sync.Mutex{}
		o.locks[battleID] = m
	}
	o.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// CreateBattle opens a new battle in planning state
func (o *orchestrator) CreateBattle(ctx context.Context, input *CreateBattleInput) (*CreateBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CampaignID == "" {
		return nil, errors.InvalidArgument("campaign ID is required")
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument("battle name is required")
	}
	if !input.Actor.DM {
		return nil, errors.PermissionDenied("only the DM may create a battle")
	}

	active, err := o.repo.GetActive(ctx, battles.GetActiveInput{CampaignID: input.CampaignID})
	if err != nil {
		return nil, err
	}
	if active.Battle != nil {
		return nil, errors.AlreadyExistsf("campaign %s already has an active battle", input.CampaignID)
	}

	maxRounds := input.MaxRounds
	switch {
	case maxRounds <= 0:
		maxRounds = DefaultMaxRounds
	case maxRounds > DefaultMaxRounds:
		return nil, errors.InvalidArgumentf("max rounds cannot exceed %d", DefaultMaxRounds)
	}

	battle := &battles.Battle{
		ID:                 o.idGen.Generate(),
		CampaignID:         input.CampaignID,
		Name:               input.Name,
		TerrainDescription: input.TerrainDescription,
		Status:             battles.StatusPlanning,
		MaxRounds:          maxRounds,
	}

	created, err := o.repo.Create(ctx, battles.CreateInput{Battle: battle})
	if err != nil {
		return nil, err
	}

	o.bus.Publish(battle.CampaignID, events.KindBattleCreated, events.BattleCreated{
		BattleID:   battle.ID,
		CampaignID: battle.CampaignID,
		Name:       battle.Name,
	})

	slog.Info("Battle created",
		"battle_id", battle.ID,
		"campaign_id", battle.CampaignID,
		"name", battle.Name,
	)

	return &CreateBattleOutput{Battle: created.Battle}, nil
}

// GetBattle retrieves a battle by ID
func (o *orchestrator) GetBattle(ctx context.Context, input *GetBattleInput) (*GetBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	output, err := o.repo.Get(ctx, battles.GetInput{BattleID: input.BattleID})
	if err != nil {
		return nil, err
	}

	return &GetBattleOutput{Battle: output.Battle}, nil
}

// GetActiveBattle retrieves a campaign's current battle, if any
func (o *orchestrator) GetActiveBattle(ctx context.Context, input *GetActiveBattleInput) (*GetActiveBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	output, err := o.repo.GetActive(ctx, battles.GetActiveInput{CampaignID: input.CampaignID})
	if err != nil {
		return nil, err
	}

	return &GetActiveBattleOutput{Battle: output.Battle}, nil
}

// AddParticipant fields an army in a planning-state battle
func (o *orchestrator) AddParticipant(ctx context.Context, input *AddParticipantInput) (*AddParticipantOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.TeamName == "" {
		return nil, errors.InvalidArgument("team name is required")
	}

	unlock := o.lockBattle(input.BattleID)
	defer unlock()

	battle, err := o.loadBattle(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}
	if battle.Status != battles.StatusPlanning {
		return nil, errors.FailedPrecondition("participants may only be added during planning").
			WithReason(errors.ReasonInvalidTransition)
	}

	participant := battles.Participant{
		ID:           o.idGen.Generate(),
		TeamName:     input.TeamName,
		FactionColor: input.FactionColor,
	}

	if input.ArmyID != "" {
		armyOutput, err := o.armyStore.GetArmy(ctx, armies.GetArmyInput{ArmyID: input.ArmyID})
		if err != nil {
			return nil, err
		}
		army := armyOutput.Army
		if !input.Actor.DM && !input.Actor.Owns(army.PlayerID) {
			return nil, errors.PermissionDenied("you do not control this army")
		}
		for _, p := range battle.Participants {
			if p.ArmyID == input.ArmyID {
				return nil, errors.AlreadyExistsf("army %s is already fielded", input.ArmyID)
			}
		}
		participant.ArmyID = army.ID
		participant.Name = army.Name
		participant.PlayerID = army.PlayerID
		participant.Category = army.Category
		participant.Stats = battles.ArmyStats{
			Numbers:    army.Numbers,
			Equipment:  army.Equipment,
			Discipline: army.Discipline,
			Morale:     army.Morale,
			Command:    army.Command,
			Logistics:  army.Logistics,
		}
	} else {
		if input.Name == "" {
			return nil, errors.InvalidArgument("army name is required")
		}
		if err := validateStats(input.Stats); err != nil {
			return nil, err
		}
		playerID := input.PlayerID
		if !input.Actor.DM {
			playerID = input.Actor.UserID
		}

		// Inline armies are persisted as temporary roster entries so the
		// history archive can reference them.
		army := &armies.Army{
			ID:         o.idGen.Generate(),
			CampaignID: battle.CampaignID,
			Name:       input.Name,
			PlayerID:   playerID,
			Category:   input.Category,
			Temporary:  true,
			Numbers:    input.Stats.Numbers,
			Equipment:  input.Stats.Equipment,
			Discipline: input.Stats.Discipline,
			Morale:     input.Stats.Morale,
			Command:    input.Stats.Command,
			Logistics:  input.Stats.Logistics,
		}
		if _, err := o.armyStore.CreateArmy(ctx, armies.CreateArmyInput{Army: army}); err != nil {
			return nil, err
		}
		participant.ArmyID = army.ID
		participant.Name = army.Name
		participant.PlayerID = playerID
		participant.Category = army.Category
		participant.Temporary = true
		participant.Stats = input.Stats
	}

	battle.Participants = append(battle.Participants, participant)
	if err := o.repo.Save(ctx, battle); err != nil {
		return nil, err
	}

	o.bus.Publish(battle.CampaignID, events.KindParticipantAdded, events.ParticipantAdded{
		BattleID:      battle.ID,
		ParticipantID: participant.ID,
		TeamName:      participant.TeamName,
		Name:          participant.Name,
		Temporary:     participant.Temporary,
	})

	return &AddParticipantOutput{Participant: participant}, nil
}

// StartBattle fixes base scores and opens round 1 goal selection
func (o *orchestrator) StartBattle(ctx context.Context, input *StartBattleInput) (*StartBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if !input.Actor.DM {
		return nil, errors.PermissionDenied("only the DM may start a battle")
	}

	unlock := o.lockBattle(input.BattleID)
	defer unlock()

	battle, err := o.loadBattle(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}
	if err := o.startLocked(ctx, battle); err != nil {
		return nil, err
	}

	return &StartBattleOutput{
		Battle:    battle,
		FirstTeam: battle.SelectionQueue[0],
	}, nil
}

func (o *orchestrator) startLocked(ctx context.Context, battle *battles.Battle) error {
	if battle.Status != battles.StatusPlanning {
		return errors.FailedPreconditionf("cannot start a battle in %s state", battle.Status).
			WithReason(errors.ReasonInvalidTransition)
	}

	// Teams enter the selection queue in the order they first appear.
	var queue []string
	seen := make(map[string]bool)
	for _, p := range battle.Participants {
		if !seen[p.TeamName] {
			seen[p.TeamName] = true
			queue = append(queue, p.TeamName)
		}
	}
	if len(queue) < 2 {
		return errors.FailedPrecondition("a battle needs at least two teams")
	}

	for i := range battle.Participants {
		p := &battle.Participants[i]
		p.BaseScore = p.Stats.Sum()
		p.CurrentScore = p.BaseScore
	}

	battle.Status = battles.StatusGoalSelection
	battle.Round = 1
	battle.SelectionQueue = queue
	battle.SelectionIndex = 0

	if err := o.repo.Save(ctx, battle); err != nil {
		return err
	}

	o.publishStatus(battle)
	o.bus.Publish(battle.CampaignID, events.KindBaseScoresCalculated, events.BaseScoresCalculated{
		BattleID: battle.ID,
		Scores:   scoreSnapshot(battle),
	})

	slog.Info("Battle started",
		"battle_id", battle.ID,
		"teams", len(queue),
		"participants", len(battle.Participants),
	)

	return nil
}

// SetStatus requests an explicit state machine transition
func (o *orchestrator) SetStatus(ctx context.Context, input *SetStatusInput) (*SetStatusOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if !input.Actor.DM {
		return nil, errors.PermissionDenied("only the DM may change battle status")
	}

	unlock := o.lockBattle(input.BattleID)
	defer unlock()

	battle, err := o.loadBattle(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}

	switch input.Status {
	case battles.StatusGoalSelection:
		if err := o.startLocked(ctx, battle); err != nil {
			return nil, err
		}

	case battles.StatusResolution:
		if battle.Status != battles.StatusGoalSelection {
			return nil, errors.FailedPreconditionf("cannot move from %s to resolution", battle.Status).
				WithReason(errors.ReasonInvalidTransition)
		}
		if battle.SelectionIndex < len(battle.SelectionQueue) {
			return nil, errors.FailedPreconditionf(
				"team %s has not selected a goal yet", battle.SelectionQueue[battle.SelectionIndex]).
				WithReason(errors.ReasonRoundNotComplete)
		}
		battle.Status = battles.StatusResolution
		if err := o.repo.Save(ctx, battle); err != nil {
			return nil, err
		}
		o.publishStatus(battle)

	case battles.StatusCompleted:
		if _, err := o.completeLocked(ctx, battle); err != nil {
			return nil, err
		}

	case battles.StatusCancelled:
		if err := o.cancelLocked(ctx, battle); err != nil {
			return nil, err
		}

	default:
		return nil, errors.FailedPreconditionf("no transition to %s", input.Status).
			WithReason(errors.ReasonInvalidTransition)
	}

	return &SetStatusOutput{Battle: battle}, nil
}

// SelectGoal records a team's goal choice for the current round
func (o *orchestrator) SelectGoal(ctx context.Context, input *SelectGoalInput) (*SelectGoalOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	def, ok := goals.Lookup(input.GoalKey)
	if !ok {
		return nil, errors.InvalidArgumentf("unknown goal %q", input.GoalKey)
	}

	unlock := o.lockBattle(input.BattleID)
	defer unlock()

	battle, err := o.loadBattle(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}
	if battle.Status != battles.StatusGoalSelection {
		return nil, errors.FailedPreconditionf("goals are selected during goal_selection, not %s", battle.Status).
			WithReason(errors.ReasonInvalidTransition)
	}

	participant := findParticipant(battle, input.ParticipantID)
	if participant == nil {
		return nil, errors.NotFoundf("participant %s not in battle", input.ParticipantID)
	}
	if !input.Actor.DM && !input.Actor.Owns(participant.PlayerID) {
		return nil, errors.PermissionDenied("you do not control this army")
	}
	if !def.Eligible(participant.Category) {
		return nil, errors.FailedPreconditionf("a %s army cannot attempt %s", participant.Category, def.Name)
	}

	targetID := ""
	if def.TargetsEnemy {
		if input.TargetParticipantID == "" {
			return nil, errors.InvalidArgumentf("goal %s requires an enemy target", def.Name).
				WithReason(errors.ReasonMissingTarget)
		}
		target := findParticipant(battle, input.TargetParticipantID)
		if target == nil {
			return nil, errors.NotFoundf("target participant %s not in battle", input.TargetParticipantID)
		}
		if target.TeamName == participant.TeamName {
			return nil, errors.InvalidArgument("goal target must be on an enemy team")
		}
		targetID = target.ID
	} else if input.TargetParticipantID != "" {
		// Support goals may name a beneficiary; it never swings a score.
		target := findParticipant(battle, input.TargetParticipantID)
		if target == nil {
			return nil, errors.NotFoundf("target participant %s not in battle", input.TargetParticipantID)
		}
		targetID = target.ID
	}

	team := participant.TeamName
	existing := currentRoundGoal(battle, team)

	if existing != nil {
		// A selection can be swapped until the dice commit it.
		if existing.DiceRoll != nil {
			return nil, errors.FailedPrecondition("goal is locked in once rolled").
				WithReason(errors.ReasonAlreadyRolled)
		}
		existing.Abandoned = true
	} else {
		if battle.SelectionIndex >= len(battle.SelectionQueue) ||
			battle.SelectionQueue[battle.SelectionIndex] != team {
			return nil, errors.PermissionDeniedf("it is not team %s's selection turn", team).
				WithReason(errors.ReasonNotYourTurn)
		}
		battle.SelectionIndex++
	}

	instance := battles.GoalInstance{
		ID:                  o.idGen.Generate(),
		Round:               battle.Round,
		TeamName:            team,
		ParticipantID:       participant.ID,
		GoalKey:             def.Key,
		TargetParticipantID: targetID,
		SelectedBy:          input.Actor.UserID,
	}
	battle.Goals = append(battle.Goals, instance)

	if err := o.repo.Save(ctx, battle); err != nil {
		return nil, err
	}

	nextTeam := ""
	if battle.SelectionIndex < len(battle.SelectionQueue) {
		nextTeam = battle.SelectionQueue[battle.SelectionIndex]
	}

	o.bus.Publish(battle.CampaignID, events.KindGoalSelected, events.GoalSelected{
		BattleID:       battle.ID,
		Round:          battle.Round,
		GoalInstanceID: instance.ID,
		TeamName:       team,
		GoalKey:        def.Key,
		GoalName:       def.Name,
		TargetID:       targetID,
		NextTeam:       nextTeam,
	})

	return &SelectGoalOutput{
		Goal:     instance,
		NextTeam: nextTeam,
	}, nil
}

// RollGoalDice performs the one-shot d20 roll for a goal instance
func (o *orchestrator) RollGoalDice(ctx context.Context, input *RollGoalDiceInput) (*RollGoalDiceOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	unlock := o.lockBattle(input.BattleID)
	defer unlock()

	battle, err := o.loadBattle(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}
	if battle.Status != battles.StatusGoalSelection && battle.Status != battles.StatusResolution {
		return nil, errors.FailedPreconditionf("cannot roll in %s state", battle.Status).
			WithReason(errors.ReasonInvalidTransition)
	}

	goal := findGoal(battle, input.GoalInstanceID)
	if goal == nil {
		return nil, errors.NotFoundf("goal instance %s not in battle", input.GoalInstanceID)
	}
	if goal.Abandoned {
		return nil, errors.FailedPrecondition("goal was replaced by a later selection")
	}

	participant := findParticipant(battle, goal.ParticipantID)
	if participant == nil {
		return nil, errors.Internalf("goal %s references missing participant", goal.ID)
	}
	if !input.Actor.DM && !input.Actor.Owns(participant.PlayerID) {
		return nil, errors.PermissionDenied("you do not control this army")
	}
	if goal.DiceRoll != nil {
		return nil, errors.FailedPrecondition("this goal has already been rolled").
			WithReason(errors.ReasonAlreadyRolled)
	}

	def, ok := goals.Lookup(goal.GoalKey)
	if !ok {
		return nil, errors.Internalf("goal %s references unknown key %q", goal.ID, goal.GoalKey)
	}

	roll, err := o.roller.D20()
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll goal dice")
	}
	statMod := goals.StatModifier(statValue(participant.Stats, def.ArmyStat))

	goal.DiceRoll = &roll
	goal.StatModifier = statMod

	if err := o.repo.Save(ctx, battle); err != nil {
		return nil, err
	}

	o.bus.Publish(battle.CampaignID, events.KindGoalRolled, events.GoalRolled{
		BattleID:       battle.ID,
		GoalInstanceID: goal.ID,
		TeamName:       goal.TeamName,
		DiceRoll:       roll,
		TotalModifier:  statMod,
	})

	slog.Info("Goal dice rolled",
		"battle_id", battle.ID,
		"goal", goal.GoalKey,
		"team", goal.TeamName,
		"roll", roll,
		"stat_modifier", statMod,
	)

	return &RollGoalDiceOutput{
		DiceRoll:     roll,
		StatModifier: statMod,
		Total:        roll + statMod,
	}, nil
}

// ResolveGoal applies the DM ruling and its score modifiers
func (o *orchestrator) ResolveGoal(ctx context.Context, input *ResolveGoalInput) (*ResolveGoalOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if !input.Actor.DM {
		return nil, errors.PermissionDenied("only the DM may resolve goals")
	}
	if input.DC < 1 {
		return nil, errors.InvalidArgument("DC must be at least 1")
	}

	unlock := o.lockBattle(input.BattleID)
	defer unlock()

	battle, err := o.loadBattle(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}
	if battle.Status != battles.StatusResolution {
		return nil, errors.FailedPreconditionf("goals are resolved during resolution, not %s", battle.Status).
			WithReason(errors.ReasonInvalidTransition)
	}

	goal := findGoal(battle, input.GoalInstanceID)
	if goal == nil {
		return nil, errors.NotFoundf("goal instance %s not in battle", input.GoalInstanceID)
	}
	if goal.Abandoned {
		return nil, errors.FailedPrecondition("goal was replaced by a later selection")
	}
	if goal.Resolved {
		return nil, errors.FailedPrecondition("this goal has already been resolved").
			WithReason(errors.ReasonAlreadyResolved)
	}
	if goal.DiceRoll == nil {
		return nil, errors.FailedPrecondition("goal must be rolled before it can be resolved")
	}

	def, ok := goals.Lookup(goal.GoalKey)
	if !ok {
		return nil, errors.Internalf("goal %s references unknown key %q", goal.ID, goal.GoalKey)
	}

	// The outcome is computed, never client-reported.
	success := *goal.DiceRoll+goal.StatModifier >= input.DC

	modifier := def.Modifier(success)
	if input.ModifierOverride != nil {
		modifier = *input.ModifierOverride
	}

	acting := findParticipant(battle, goal.ParticipantID)
	if acting == nil {
		return nil, errors.Internalf("goal %s references missing participant", goal.ID)
	}
	acting.CurrentScore += modifier
	// Only enemy-directed goals swing the target's score; a support goal's
	// beneficiary is informational.
	if def.TargetsEnemy && goal.TargetParticipantID != "" {
		if target := findParticipant(battle, goal.TargetParticipantID); target != nil {
			target.CurrentScore -= modifier
		}
	}

	now := o.clock.Now()
	dc := input.DC
	goal.Resolved = true
	goal.DC = &dc
	goal.Success = &success
	goal.AppliedModifier = modifier
	goal.ResolvedAt = &now

	if err := o.repo.Save(ctx, battle); err != nil {
		return nil, err
	}

	o.bus.Publish(battle.CampaignID, events.KindGoalResolved, events.GoalResolved{
		BattleID:        battle.ID,
		GoalInstanceID:  goal.ID,
		TeamName:        goal.TeamName,
		DC:              input.DC,
		Success:         success,
		ModifierApplied: modifier,
		Scores:          scoreSnapshot(battle),
	})

	slog.Info("Goal resolved",
		"battle_id", battle.ID,
		"goal", goal.GoalKey,
		"team", goal.TeamName,
		"success", success,
		"modifier", modifier,
	)

	return &ResolveGoalOutput{
		Success:         success,
		AppliedModifier: modifier,
		Battle:          battle,
	}, nil
}

// AdvanceRound closes a fully-resolved round
func (o *orchestrator) AdvanceRound(ctx context.Context, input *AdvanceRoundInput) (*AdvanceRoundOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if !input.Actor.DM {
		return nil, errors.PermissionDenied("only the DM may advance the round")
	}

	unlock := o.lockBattle(input.BattleID)
	defer unlock()

	battle, err := o.loadBattle(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}
	if battle.Status != battles.StatusResolution {
		return nil, errors.FailedPreconditionf("rounds advance from resolution, not %s", battle.Status).
			WithReason(errors.ReasonInvalidTransition)
	}
	if err := requireRoundResolved(battle); err != nil {
		return nil, err
	}

	if battle.Round >= battle.MaxRounds {
		if _, err := o.completeLocked(ctx, battle); err != nil {
			return nil, err
		}
		return &AdvanceRoundOutput{Battle: battle, Completed: true}, nil
	}

	battle.Round++
	battle.SelectionIndex = 0
	battle.Status = battles.StatusGoalSelection

	if err := o.repo.Save(ctx, battle); err != nil {
		return nil, err
	}

	o.publishStatus(battle)
	o.bus.Publish(battle.CampaignID, events.KindRoundAdvanced, events.RoundAdvanced{
		BattleID:  battle.ID,
		Round:     battle.Round,
		FirstTeam: battle.SelectionQueue[0],
	})

	return &AdvanceRoundOutput{Battle: battle}, nil
}

// CompleteBattle ends a battle after a fully-resolved round
func (o *orchestrator) CompleteBattle(ctx context.Context, input *CompleteBattleInput) (*CompleteBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if !input.Actor.DM {
		return nil, errors.PermissionDenied("only the DM may complete a battle")
	}

	unlock := o.lockBattle(input.BattleID)
	defer unlock()

	battle, err := o.loadBattle(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}
	if battle.Status != battles.StatusResolution {
		return nil, errors.FailedPreconditionf("battles complete from resolution, not %s", battle.Status).
			WithReason(errors.ReasonInvalidTransition)
	}
	if err := requireRoundResolved(battle); err != nil {
		return nil, err
	}

	return o.completeLocked(ctx, battle)
}

func (o *orchestrator) completeLocked(ctx context.Context, battle *battles.Battle) (*CompleteBattleOutput, error) {
	if battle.Status != battles.StatusResolution {
		return nil, errors.FailedPreconditionf("cannot complete a battle in %s state", battle.Status).
			WithReason(errors.ReasonInvalidTransition)
	}

	ranking := scoreSnapshot(battle)
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].CurrentScore > ranking[j].CurrentScore
	})
	winner := winningTeam(battle)

	// History is written before the terminal status commits, so a crash in
	// between leaves a retryable battle rather than a lost record.
	if err := o.archive(ctx, battle, "completed", winner, ranking); err != nil {
		return nil, err
	}

	battle.Status = battles.StatusCompleted
	if err := o.repo.Save(ctx, battle); err != nil {
		return nil, err
	}

	o.publishStatus(battle)
	o.bus.Publish(battle.CampaignID, events.KindBattleCompleted, events.BattleCompleted{
		BattleID: battle.ID,
		Ranking:  ranking,
	})

	slog.Info("Battle completed",
		"battle_id", battle.ID,
		"rounds", battle.Round,
		"winner", winner,
	)

	return &CompleteBattleOutput{
		Battle:     battle,
		Ranking:    ranking,
		WinnerTeam: winner,
	}, nil
}

// CancelBattle abandons a battle from any non-terminal state
func (o *orchestrator) CancelBattle(ctx context.Context, input *CancelBattleInput) (*CancelBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if !input.Actor.DM {
		return nil, errors.PermissionDenied("only the DM may cancel a battle")
	}

	unlock := o.lockBattle(input.BattleID)
	defer unlock()

	battle, err := o.loadBattle(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}
	if err := o.cancelLocked(ctx, battle); err != nil {
		return nil, err
	}

	return &CancelBattleOutput{Battle: battle}, nil
}

func (o *orchestrator) cancelLocked(ctx context.Context, battle *battles.Battle) error {
	switch battle.Status {
	case battles.StatusCancelled:
		// Cancelling twice is a no-op.
		return nil
	case battles.StatusCompleted:
		return errors.FailedPrecondition("a completed battle cannot be cancelled").
			WithReason(errors.ReasonInvalidTransition)
	}

	if err := o.archive(ctx, battle, "cancelled", "", scoreSnapshot(battle)); err != nil {
		return err
	}

	battle.Status = battles.StatusCancelled
	if err := o.repo.Save(ctx, battle); err != nil {
		return err
	}

	o.publishStatus(battle)
	o.bus.Publish(battle.CampaignID, events.KindBattleCancelled, events.BattleCancelled{
		BattleID: battle.ID,
	})

	slog.Info("Battle cancelled", "battle_id", battle.ID, "round", battle.Round)

	return nil
}

// UpdateParticipantPosition repositions an army marker
func (o *orchestrator) UpdateParticipantPosition(ctx context.Context, input *UpdateParticipantPositionInput) (*UpdateParticipantPositionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	unlock := o.lockBattle(input.BattleID)
	defer unlock()

	battle, err := o.loadBattle(ctx, input.BattleID)
	if err != nil {
		return nil, err
	}
	if battle.Status.Terminal() {
		return nil, errors.FailedPreconditionf("battle is %s", battle.Status).
			WithReason(errors.ReasonInvalidTransition)
	}

	participant := findParticipant(battle, input.ParticipantID)
	if participant == nil {
		return nil, errors.NotFoundf("participant %s not in battle", input.ParticipantID)
	}
	if !input.Actor.DM && !input.Actor.Owns(participant.PlayerID) {
		return nil, errors.PermissionDenied("you do not control this army")
	}

	participant.X = input.X
	participant.Y = input.Y

	if err := o.repo.Save(ctx, battle); err != nil {
		return nil, err
	}

	o.bus.Publish(battle.CampaignID, events.KindParticipantMoved, events.ParticipantMoved{
		BattleID:      battle.ID,
		ParticipantID: participant.ID,
		X:             input.X,
		Y:             input.Y,
	})

	return &UpdateParticipantPositionOutput{}, nil
}

// ListGoals returns the goal catalog, optionally filtered by army category
func (o *orchestrator) ListGoals(_ context.Context, input *ListGoalsInput) (*ListGoalsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	all := goals.All()
	if input.ArmyCategory == "" {
		return &ListGoalsOutput{Goals: all}, nil
	}

	var eligible []goals.Definition
	for _, d := range all {
		if d.Eligible(input.ArmyCategory) {
			eligible = append(eligible, d)
		}
	}

	return &ListGoalsOutput{Goals: eligible}, nil
}

// ListHistory returns a campaign's archived battles
func (o *orchestrator) ListHistory(ctx context.Context, input *ListHistoryInput) (*ListHistoryOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	output, err := o.armyStore.ListHistory(ctx, armies.ListHistoryInput{
		CampaignID: input.CampaignID,
		ArmyID:     input.ArmyID,
	})
	if err != nil {
		return nil, err
	}

	return &ListHistoryOutput{Records: output.Records}, nil
}

func (o *orchestrator) loadBattle(ctx context.Context, battleID string) (*battles.Battle, error) {
	if battleID == "" {
		return nil, errors.InvalidArgument("battle ID is required")
	}
	output, err := o.repo.Get(ctx, battles.GetInput{BattleID: battleID})
	if err != nil {
		return nil, err
	}
	return output.Battle, nil
}

// archive writes one history record per participating army. Cancelled
// battles record the terminal outcome verbatim; completed battles grade
// each army against the field.
func (o *orchestrator) archive(ctx context.Context, battle *battles.Battle, outcome, winner string, ranking []events.ParticipantScore) error {
	finalScores, err := json.Marshal(ranking)
	if err != nil {
		return errors.Wrap(err, "failed to encode final scores")
	}

	played := make([]battles.GoalInstance, 0, len(battle.Goals))
	for _, g := range battle.Goals {
		if !g.Abandoned {
			played = append(played, g)
		}
	}
	goalLog, err := json.Marshal(played)
	if err != nil {
		return errors.Wrap(err, "failed to encode goal log")
	}

	for _, p := range battle.Participants {
		if p.ArmyID == "" {
			continue
		}

		armyOutcome := outcome
		if outcome == "completed" {
			armyOutcome = gradeOutcome(battle, p.CurrentScore)
		}

		record := &armies.BattleRecord{
			BattleID:    battle.ID,
			ArmyID:      p.ArmyID,
			CampaignID:  battle.CampaignID,
			Name:        battle.Name,
			Outcome:     armyOutcome,
			Rounds:      battle.Round,
			WinnerTeam:  winner,
			FinalScores: string(finalScores),
			GoalLog:     string(goalLog),
			CompletedAt: o.clock.Now(),
		}

		// A retry after a crash between archive and status commit finds
		// the record already present.
		if err := o.armyStore.AppendHistory(ctx, record); err != nil && !errors.IsAlreadyExists(err) {
			return err
		}
	}

	return nil
}

// gradeOutcome ranks one army's final score: strictly highest is a
// victory, strictly lowest a defeat, anything else a draw.
func gradeOutcome(battle *battles.Battle, score int) string {
	higher, lower := 0, 0
	for _, other := range battle.Participants {
		switch {
		case other.CurrentScore > score:
			higher++
		case other.CurrentScore < score:
			lower++
		}
	}

	switch {
	case higher == 0 && lower > 0:
		return "victory"
	case lower == 0 && higher > 0:
		return "defeat"
	default:
		return "draw"
	}
}

func (o *orchestrator) publishStatus(battle *battles.Battle) {
	o.bus.Publish(battle.CampaignID, events.KindBattleStatusChanged, events.BattleStatusChanged{
		BattleID: battle.ID,
		Status:   string(battle.Status),
		Round:    battle.Round,
	})
}

func requireRoundResolved(battle *battles.Battle) error {
	for _, g := range battle.Goals {
		if g.Round == battle.Round && !g.Abandoned && !g.Resolved {
			return errors.FailedPreconditionf("team %s's goal is not resolved yet", g.TeamName).
				WithReason(errors.ReasonRoundNotComplete)
		}
	}
	return nil
}

func findParticipant(battle *battles.Battle, id string) *battles.Participant {
	for i := range battle.Participants {
		if battle.Participants[i].ID == id {
			return &battle.Participants[i]
		}
	}
	return nil
}

func findGoal(battle *battles.Battle, id string) *battles.GoalInstance {
	for i := range battle.Goals {
		if battle.Goals[i].ID == id {
			return &battle.Goals[i]
		}
	}
	return nil
}

func currentRoundGoal(battle *battles.Battle, team string) *battles.GoalInstance {
	for i := range battle.Goals {
		g := &battle.Goals[i]
		if g.Round == battle.Round && g.TeamName == team && !g.Abandoned {
			return g
		}
	}
	return nil
}

func scoreSnapshot(battle *battles.Battle) []events.ParticipantScore {
	scores := make([]events.ParticipantScore, 0, len(battle.Participants))
	for _, p := range battle.Participants {
		scores = append(scores, events.ParticipantScore{
			ParticipantID: p.ID,
			TeamName:      p.TeamName,
			BaseScore:     p.BaseScore,
			CurrentScore:  p.CurrentScore,
		})
	}
	return scores
}

// winningTeam sums scores per team; a tie at the top is a draw.
func winningTeam(battle *battles.Battle) string {
	totals := make(map[string]int)
	for _, p := range battle.Participants {
		totals[p.TeamName] += p.CurrentScore
	}

	winner := ""
	best := 0
	tied := false
	for team, total := range totals {
		switch {
		case winner == "" || total > best:
			winner = team
			best = total
			tied = false
		case total == best:
			tied = true
		}
	}
	if tied {
		return ""
	}
	return winner
}

func statValue(stats battles.ArmyStats, stat goals.ArmyStat) int {
	switch stat {
	case goals.StatNumbers:
		return stats.Numbers
	case goals.StatEquipment:
		return stats.Equipment
	case goals.StatDiscipline:
		return stats.Discipline
	case goals.StatMorale:
		return stats.Morale
	case goals.StatCommand:
		return stats.Command
	case goals.StatLogistics:
		return stats.Logistics
	default:
		return goals.NeutralStat
	}
}

func validateStats(stats battles.ArmyStats) error {
	return errors.NewValidationBuilder().
		Range("numbers", stats.Numbers, 1, 10).
		Range("equipment", stats.Equipment, 1, 10).
		Range("discipline", stats.Discipline, 1, 10).
		Range("morale", stats.Morale, 1, 10).
		Range("command", stats.Command, 1, 10).
		Range("logistics", stats.Logistics, 1, 10).
		Build()
}
