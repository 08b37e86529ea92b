// Package skirmish implements the turn-based combat session engine:
// initiative ordering, turn advancement, and per-turn movement budgets.
package skirmish

//go:generate mockgen -destination=mock/mock_service.go -package=skirmishmock github.com/KirkDiggler/campaign-api/internal/orchestrators/skirmish Service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/campaign-api/internal/errors"
	"github.com/KirkDiggler/campaign-api/internal/events"
	"github.com/KirkDiggler/campaign-api/internal/pkg/dice"
	"github.com/KirkDiggler/campaign-api/internal/pkg/idgen"
)

// Service defines the interface for skirmish combat operations
type Service interface {
	// AddCombatant inserts a combatant into the session's initiative order
	AddCombatant(ctx context.Context, input *AddCombatantInput) (*AddCombatantOutput, error)

	// RemoveCombatant takes a combatant out of the order, preserving the
	// current turn reference
	RemoveCombatant(ctx context.Context, input *RemoveCombatantInput) (*RemoveCombatantOutput, error)

	// AdvanceTurn starts combat or moves to the next combatant
	AdvanceTurn(ctx context.Context, input *AdvanceTurnInput) (*AdvanceTurnOutput, error)

	// ResetCombat clears the session; idempotent
	ResetCombat(ctx context.Context, input *ResetCombatInput) (*ResetCombatOutput, error)

	// MoveCombatant repositions a combatant and spends its movement budget
	MoveCombatant(ctx context.Context, input *MoveCombatantInput) (*MoveCombatantOutput, error)

	// GetCombatState serves the full session snapshot for late joiners
	GetCombatState(ctx context.Context, input *GetCombatStateInput) (*GetCombatStateOutput, error)
}

// Config holds the dependencies for the skirmish orchestrator
type Config struct {
	Roller      dice.Roller
	EventBus    *events.Bus
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

// session is the authoritative state of one combat session. Sessions are
// memory-resident: a cleared session is indistinguishable from one that
// never existed.
type session struct {
	combatants map[string]*Combatant
	// order holds combatant IDs sorted by descending initiative; equal
	// initiatives keep insertion order.
	order []string
	// current is the index of the acting combatant, -1 before combat starts.
	current int
	// remaining maps combatant ID to feet of movement left this turn.
	remaining map[string]float64
}

type orchestrator struct {
	roller dice.Roller
	bus    *events.Bus
	idGen  idgen.Generator

	// mu serializes every mutating intent: validate, apply, broadcast is
	// one critical section, so concurrent intents never interleave.
	mu       sync.Mutex
	sessions map[string]*session
}

// NewOrchestrator creates a new skirmish orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		roller:   cfg.Roller,
		bus:      cfg.EventBus,
		idGen:    cfg.IDGenerator,
		sessions: make(map[string]*session),
	}, nil
}

func (o *orchestrator) sessionFor(id string) *session {
	s, ok := o.sessions[id]
	if !ok {
		s = &session{
			combatants: make(map[string]*Combatant),
			current:    -1,
			remaining:  make(map[string]float64),
		}
		o.sessions[id] = s
	}
	return s
}

// insertIntoOrder places a combatant at the position its initiative
// dictates. Already-resolved turns are never reshuffled: if the insertion
// lands at or before the current index, the index shifts so the acting
// combatant is unchanged.
func (s *session) insertIntoOrder(id string, initiative int) {
	pos := len(s.order)
	for i, existing := range s.order {
		if s.combatants[existing].Initiative < initiative {
			pos = i
			break
		}
	}

	s.order = append(s.order, "")
	copy(s.order[pos+1:], s.order[pos:])
	s.order[pos] = id

	if s.current >= 0 && pos <= s.current {
		s.current++
	}
}

// AddCombatant inserts a combatant into the session's initiative order
func (o *orchestrator) AddCombatant(ctx context.Context, input *AddCombatantInput) (*AddCombatantOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	combatant := input.Combatant
	if combatant.ID == "" && combatant.MonsterID == "" {
		return nil, errors.InvalidArgument("combatant ID is required")
	}
	if combatant.Speed <= 0 {
		combatant.Speed = 30
	}

	if input.Initiative != nil {
		combatant.Initiative = *input.Initiative
	} else {
		roll, err := o.roller.D20()
		if err != nil {
			return nil, errors.Wrap(err, "failed to roll initiative")
		}
		combatant.Initiative = roll + input.InitiativeModifier
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	s := o.sessionFor(input.SessionID)

	// Monster templates spawn numbered instances with their own identity.
	if combatant.ID == "" {
		n := 1
		for _, existing := range s.combatants {
			if existing.MonsterID == combatant.MonsterID {
				n++
			}
		}
		combatant.InstanceNumber = n
		combatant.ID = o.idGen.Generate()
		combatant.Name = fmt.Sprintf("%s #%d", combatant.Name, n)
	}

	if _, exists := s.combatants[combatant.ID]; exists {
		return nil, errors.AlreadyExistsf("combatant %s is already in this session", combatant.ID).
			WithReason(errors.ReasonDuplicateCombatant)
	}

	s.combatants[combatant.ID] = &combatant
	s.insertIntoOrder(combatant.ID, combatant.Initiative)

	order := snapshotOrder(s)
	o.bus.Publish(input.SessionID, events.KindCombatantAdded, events.CombatantAdded{
		SessionID:        input.SessionID,
		CombatantID:      combatant.ID,
		Name:             combatant.Name,
		Initiative:       combatant.Initiative,
		Speed:            combatant.Speed,
		Order:            order,
		CurrentTurnIndex: s.current,
	})

	slog.Info("Combatant joined combat",
		"session_id", input.SessionID,
		"combatant_id", combatant.ID,
		"name", combatant.Name,
		"initiative", combatant.Initiative,
	)

	return &AddCombatantOutput{
		Combatant:        combatant,
		Order:            order,
		CurrentTurnIndex: s.current,
	}, nil
}

// RemoveCombatant takes a combatant out of the order, preserving the current turn reference
func (o *orchestrator) RemoveCombatant(ctx context.Context, input *RemoveCombatantInput) (*RemoveCombatantOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.sessions[input.SessionID]
	if !ok {
		return nil, errors.NotFoundf("no combat session for %s", input.SessionID)
	}

	combatant, ok := s.combatants[input.CombatantID]
	if !ok {
		return nil, errors.NotFoundf("combatant %s not in session", input.CombatantID)
	}
	if !input.Actor.DM && !input.Actor.Owns(combatant.OwnerID) {
		return nil, errors.PermissionDenied("only the DM or the owning player may remove a combatant")
	}

	idx := -1
	for i, id := range s.order {
		if id == input.CombatantID {
			idx = i
			break
		}
	}

	s.order = append(s.order[:idx], s.order[idx+1:]...)
	delete(s.combatants, input.CombatantID)
	delete(s.remaining, input.CombatantID)

	if s.current >= 0 {
		switch {
		case len(s.order) == 0:
			s.current = -1
		case idx <= s.current:
			// Shift back so the acting combatant keeps its turn; removing
			// the acting combatant hands the next advance to its successor.
			s.current--
			if s.current < 0 {
				s.current = len(s.order) - 1
			}
		}
	}

	order := snapshotOrder(s)
	o.bus.Publish(input.SessionID, events.KindCombatantRemoved, events.CombatantRemoved{
		SessionID:        input.SessionID,
		CombatantID:      input.CombatantID,
		Order:            order,
		CurrentTurnIndex: s.current,
	})

	return &RemoveCombatantOutput{
		Order:            order,
		CurrentTurnIndex: s.current,
	}, nil
}

// AdvanceTurn starts combat or moves to the next combatant
func (o *orchestrator) AdvanceTurn(ctx context.Context, input *AdvanceTurnInput) (*AdvanceTurnOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.sessions[input.SessionID]
	if !ok || len(s.order) == 0 {
		return nil, errors.NotFoundf("no combatants in session %s", input.SessionID)
	}

	if s.current == -1 {
		// Starting combat is a DM call.
		if !input.Actor.DM {
			return nil, errors.PermissionDenied("only the DM may start combat").
				WithReason(errors.ReasonNotYourTurn)
		}
		s.current = 0
	} else {
		acting := s.combatants[s.order[s.current]]
		if !input.Actor.DM && !input.Actor.Owns(acting.OwnerID) {
			return nil, errors.PermissionDenied("only the DM or the acting player may end the turn").
				WithReason(errors.ReasonNotYourTurn)
		}
		s.current = (s.current + 1) % len(s.order)
	}

	current := s.combatants[s.order[s.current]]
	// The budget resets exactly when a combatant's turn begins.
	s.remaining[current.ID] = current.Speed

	o.bus.Publish(input.SessionID, events.KindTurnAdvanced, events.TurnAdvanced{
		SessionID:        input.SessionID,
		CombatantID:      current.ID,
		CurrentTurnIndex: s.current,
		MovementSpeed:    current.Speed,
	})

	slog.Info("Advanced turn",
		"session_id", input.SessionID,
		"combatant_id", current.ID,
		"turn_index", s.current,
	)

	return &AdvanceTurnOutput{
		CombatantID:      current.ID,
		CurrentTurnIndex: s.current,
		MovementSpeed:    current.Speed,
	}, nil
}

// ResetCombat clears the session; idempotent
func (o *orchestrator) ResetCombat(ctx context.Context, input *ResetCombatInput) (*ResetCombatOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if !input.Actor.DM {
		return nil, errors.PermissionDenied("only the DM may reset combat")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.sessions, input.SessionID)

	o.bus.Publish(input.SessionID, events.KindCombatReset, events.CombatReset{
		SessionID: input.SessionID,
	})

	slog.Info("Combat reset", "session_id", input.SessionID)

	return &ResetCombatOutput{}, nil
}

// MoveCombatant repositions a combatant and spends its movement budget
func (o *orchestrator) MoveCombatant(ctx context.Context, input *MoveCombatantInput) (*MoveCombatantOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Distance < 0 {
		return nil, errors.InvalidArgument("distance cannot be negative")
	}
	if input.Override && !input.Actor.DM {
		return nil, errors.PermissionDenied("movement override requires the DM role")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.sessions[input.SessionID]
	if !ok {
		return nil, errors.NotFoundf("no combat session for %s", input.SessionID)
	}
	combatant, ok := s.combatants[input.CombatantID]
	if !ok {
		return nil, errors.NotFoundf("combatant %s not in session", input.CombatantID)
	}

	if !input.Actor.DM && !input.Actor.Owns(combatant.OwnerID) {
		return nil, errors.PermissionDenied("you do not control this combatant")
	}

	remaining := s.remainingOf(input.CombatantID)

	// Before initiative starts, repositioning is free setup.
	consumed := s.current != -1
	if consumed {
		acting := s.order[s.current]
		if !input.Actor.DM && acting != input.CombatantID {
			return nil, errors.PermissionDeniedf("it is not %s's turn", combatant.Name).
				WithReason(errors.ReasonNotYourTurn)
		}

		if input.Distance > remaining && !input.Override {
			return nil, errors.FailedPreconditionf(
				"move of %.0fft exceeds remaining movement %.0fft", input.Distance, remaining).
				WithReason(errors.ReasonInsufficientMovement)
		}

		// A DM override may drive the budget negative; that is displayed,
		// never clamped.
		remaining -= input.Distance
		s.remaining[input.CombatantID] = remaining
	}

	combatant.Position = input.To

	o.bus.Publish(input.SessionID, events.KindCombatantMoved, events.CombatantMoved{
		SessionID:   input.SessionID,
		CombatantID: input.CombatantID,
		X:           input.To.X,
		Y:           input.To.Y,
		Remaining:   remaining,
	})

	return &MoveCombatantOutput{
		Position:  input.To,
		Remaining: remaining,
		Consumed:  consumed,
	}, nil
}

// GetCombatState serves the full session snapshot for late joiners
func (o *orchestrator) GetCombatState(ctx context.Context, input *GetCombatStateInput) (*GetCombatStateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	out := &GetCombatStateOutput{
		CurrentTurnIndex: -1,
		Remaining:        make(map[string]float64),
	}

	s, ok := o.sessions[input.SessionID]
	if !ok {
		// An absent session reads as empty, not as an error: combat that
		// was never started and combat that was reset look the same.
		return out, nil
	}

	out.Order = snapshotOrder(s)
	out.CurrentTurnIndex = s.current
	for _, id := range s.order {
		out.Combatants = append(out.Combatants, *s.combatants[id])
		out.Remaining[id] = s.remainingOf(id)
	}

	return out, nil
}

// remainingOf defaults to base speed for combatants whose budget was never
// touched this turn.
func (s *session) remainingOf(id string) float64 {
	if r, ok := s.remaining[id]; ok {
		return r
	}
	return s.combatants[id].Speed
}

func snapshotOrder(s *session) []string {
	order := make([]string, len(s.order))
	copy(order, s.order)
	return order
}
