// Package goals holds the static mass-battle goal catalog: the tactical
// actions a team may attempt each round, which army stat each scales with,
// and the score deltas applied on success or failure.
package goals

import (
	"regexp"
	"strconv"
)

// Category groups goals the way the battle UI presents them
type Category string

// Goal categories
const (
	CategoryAttacking Category = "attacking"
	CategoryDefending Category = "defending"
	CategoryLogistics Category = "logistics"
	CategoryCustom    Category = "custom"
	CategoryUnique    Category = "unique"
)

// ArmyStat names one of the six army stats a goal scales with
type ArmyStat string

// Army stats
const (
	StatNumbers    ArmyStat = "numbers"
	StatEquipment  ArmyStat = "equipment"
	StatDiscipline ArmyStat = "discipline"
	StatMorale     ArmyStat = "morale"
	StatCommand    ArmyStat = "command"
	StatLogistics  ArmyStat = "logistics"
)

// NeutralStat is the baseline army stat value; a stat above it grants a
// positive modifier, below it a penalty.
const NeutralStat = 5

// StatModifier converts an army stat value to its goal-test modifier.
func StatModifier(value int) int {
	return value - NeutralStat
}

// Definition is one entry of the static goal catalog. RewardText and
// PenaltyText each contain exactly one signed integer, which is the
// authoritative score modifier; the surrounding prose is flavor.
type Definition struct {
	Key         string
	Name        string
	Category    Category
	Requirement string
	TestType    string
	ArmyStat    ArmyStat
	// TargetsEnemy goals require a target participant on another team.
	TargetsEnemy bool
	// EligibleCategories restricts the goal to army categories; empty means
	// every army may attempt it.
	EligibleCategories []string
	RewardText         string
	PenaltyText        string
}

var signedModifierPattern = regexp.MustCompile(`[+-]\d+`)

func extractModifier(text string) int {
	match := signedModifierPattern.FindString(text)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return n
}

// RewardModifier returns the signed score delta applied on success.
func (d Definition) RewardModifier() int {
	return extractModifier(d.RewardText)
}

// PenaltyModifier returns the signed score delta applied on failure.
func (d Definition) PenaltyModifier() int {
	return extractModifier(d.PenaltyText)
}

// Modifier returns the delta for the given outcome.
func (d Definition) Modifier(success bool) int {
	if success {
		return d.RewardModifier()
	}
	return d.PenaltyModifier()
}

// Eligible reports whether an army of the given category may attempt the goal.
func (d Definition) Eligible(armyCategory string) bool {
	if len(d.EligibleCategories) == 0 {
		return true
	}
	for _, c := range d.EligibleCategories {
		if c == armyCategory {
			return true
		}
	}
	return false
}

// Lookup finds a goal definition by key.
func Lookup(key string) (Definition, bool) {
	for _, d := range catalog {
		if d.Key == key {
			return d, true
		}
	}
	return Definition{}, false
}

// All returns the full catalog in presentation order.
func All() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}
