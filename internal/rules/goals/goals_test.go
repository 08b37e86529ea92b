package goals_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/campaign-api/internal/rules/goals"
)

func TestLookup(t *testing.T) {
	def, ok := goals.Lookup("cavalry_charge")
	require.True(t, ok)
	assert.Equal(t, "Cavalry Charge", def.Name)
	assert.Equal(t, goals.CategoryAttacking, def.Category)
	assert.Equal(t, goals.StatEquipment, def.ArmyStat)
	assert.True(t, def.TargetsEnemy)

	_, ok = goals.Lookup("teleport_army")
	assert.False(t, ok)
}

func TestModifierExtraction(t *testing.T) {
	def, ok := goals.Lookup("basic_attack")
	require.True(t, ok)

	assert.Equal(t, 3, def.RewardModifier())
	assert.Equal(t, -2, def.PenaltyModifier())
	assert.Equal(t, 3, def.Modifier(true))
	assert.Equal(t, -2, def.Modifier(false))
}

// Every catalog entry carries exactly one signed integer in each outcome
// text; that integer is the authoritative modifier.
func TestCatalog_ModifierTexts(t *testing.T) {
	signed := regexp.MustCompile(`[+-]\d+`)

	for _, def := range goals.All() {
		assert.Len(t, signed.FindAllString(def.RewardText, -1), 1,
			"goal %s reward text", def.Key)
		assert.Len(t, signed.FindAllString(def.PenaltyText, -1), 1,
			"goal %s penalty text", def.Key)

		assert.GreaterOrEqual(t, def.RewardModifier(), 0, "goal %s reward", def.Key)
		assert.Negative(t, def.PenaltyModifier(), "goal %s penalty", def.Key)
	}
}

func TestCatalog_Shape(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range goals.All() {
		assert.False(t, seen[def.Key], "duplicate key %s", def.Key)
		seen[def.Key] = true

		assert.NotEmpty(t, def.Name, "goal %s", def.Key)
		assert.NotEmpty(t, def.Requirement, "goal %s", def.Key)
		assert.NotEmpty(t, def.TestType, "goal %s", def.Key)
		assert.NotEmpty(t, def.ArmyStat, "goal %s", def.Key)
	}
}

func TestEligible(t *testing.T) {
	basic, ok := goals.Lookup("basic_attack")
	require.True(t, ok)
	charge, ok := goals.Lookup("cavalry_charge")
	require.True(t, ok)

	// No eligibility list means every army qualifies.
	assert.True(t, basic.Eligible("Peasant Levy"))

	assert.True(t, charge.Eligible("Knights"))
	assert.False(t, charge.Eligible("Longbowmen"))
}

func TestStatModifier(t *testing.T) {
	assert.Equal(t, 2, goals.StatModifier(7))
	assert.Equal(t, 0, goals.StatModifier(5))
	assert.Equal(t, -4, goals.StatModifier(1))
}
