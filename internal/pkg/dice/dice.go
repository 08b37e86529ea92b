// Package dice wraps rpg-toolkit dice rolling behind a small interface so
// orchestrators can be tested with deterministic rolls.
package dice

//go:generate mockgen -destination=mock/mock_roller.go -package=dicemock github.com/KirkDiggler/campaign-api/internal/pkg/dice Roller

import (
	rpgdice "github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/campaign-api/internal/errors"
)

// Roller rolls dice
type Roller interface {
	// D20 rolls a single d20 and returns its face value (1-20)
	D20() (int, error)
}

// ToolkitRoller implements Roller using rpg-toolkit's dice
type ToolkitRoller struct{}

// NewToolkitRoller creates a roller backed by rpg-toolkit
func NewToolkitRoller() *ToolkitRoller {
	return &ToolkitRoller{}
}

// D20 rolls 1d20
func (r *ToolkitRoller) D20() (int, error) {
	roll, err := rpgdice.NewRoll(1, 20)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll d20")
	}
	return roll.GetValue(), nil
}
