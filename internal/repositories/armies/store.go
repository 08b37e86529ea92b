// Package armies provides persistent storage for army rosters and the
// battle history archive.
package armies

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_store.go -package=armiesmock github.com/KirkDiggler/campaign-api/internal/repositories/armies Store

// Army is a campaign's saved army roster entry.
type Army struct {
	ID         string `gorm:"primaryKey"`
	CampaignID string `gorm:"index"`
	Name       string
	// PlayerID is the controlling player; empty means DM-controlled.
	PlayerID string `gorm:"index"`
	// Category gates which unique goals the army may select.
	Category string
	// Temporary armies are created inline for one battle and hidden from
	// the roster afterwards.
	Temporary bool

	Numbers    int
	Equipment  int
	Discipline int
	Morale     int
	Command    int
	Logistics  int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatSum is the army's base battle score contribution.
func (a *Army) StatSum() int {
	return a.Numbers + a.Equipment + a.Discipline + a.Morale + a.Command + a.Logistics
}

// BattleRecord is one army's result in a finished battle, archived
// append-only. A battle yields one record per participating army.
type BattleRecord struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	BattleID string `gorm:"uniqueIndex:idx_battle_army"`
	ArmyID   string `gorm:"uniqueIndex:idx_battle_army;index"`

	CampaignID string `gorm:"index"`
	Name       string
	// Outcome is victory, defeat or draw for this army; cancelled battles
	// record cancelled for every army.
	Outcome string
	Rounds  int
	// WinnerTeam is empty for cancelled battles and draws.
	WinnerTeam string
	// FinalScores is the JSON-encoded ranking of participants.
	FinalScores string
	// GoalLog is the JSON-encoded list of goal instances played during the
	// battle, abandoned selections excluded.
	GoalLog     string
	CompletedAt time.Time
}

// CreateArmyInput contains parameters for saving a new army
type CreateArmyInput struct {
	Army *Army
}

// CreateArmyOutput contains the stored army
type CreateArmyOutput struct {
	Army *Army
}

// GetArmyInput contains parameters for retrieving an army
type GetArmyInput struct {
	ArmyID string
}

// GetArmyOutput contains the retrieved army
type GetArmyOutput struct {
	Army *Army
}

// ListArmiesInput filters the campaign roster; PlayerID narrows to one
// player's armies when set
type ListArmiesInput struct {
	CampaignID string
	PlayerID   string
	// IncludeTemporary also returns battle-scoped throwaway armies.
	IncludeTemporary bool
}

// ListArmiesOutput contains the matching armies
type ListArmiesOutput struct {
	Armies []Army
}

// DeleteArmyInput contains parameters for removing an army
type DeleteArmyInput struct {
	ArmyID string
}

// DeleteArmyOutput is empty
type DeleteArmyOutput struct{}

// ListHistoryInput requests a campaign's archived battle records, newest
// first; ArmyID narrows to one army's record per battle when set
type ListHistoryInput struct {
	CampaignID string
	ArmyID     string
}

// ListHistoryOutput contains the archived battle records
type ListHistoryOutput struct {
	Records []BattleRecord
}

// Store defines the interface for army and battle history storage
type Store interface {
	// CreateArmy saves a new army roster entry
	CreateArmy(ctx context.Context, input CreateArmyInput) (*CreateArmyOutput, error)

	// GetArmy retrieves an army by ID
	GetArmy(ctx context.Context, input GetArmyInput) (*GetArmyOutput, error)

	// ListArmies returns a campaign's roster
	ListArmies(ctx context.Context, input ListArmiesInput) (*ListArmiesOutput, error)

	// UpdateArmy replaces an existing army's fields
	UpdateArmy(ctx context.Context, army *Army) error

	// DeleteArmy removes an army from the roster
	DeleteArmy(ctx context.Context, input DeleteArmyInput) (*DeleteArmyOutput, error)

	// AppendHistory archives one army's battle result; writing the same
	// battle twice for the same army is an error, so retries after a
	// partial completion are safe to detect
	AppendHistory(ctx context.Context, record *BattleRecord) error

	// ListHistory returns a campaign's archived battle records, newest first
	ListHistory(ctx context.Context, input ListHistoryInput) (*ListHistoryOutput, error)
}
