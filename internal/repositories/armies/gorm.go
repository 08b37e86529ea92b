package armies

import (
	"context"

	"gorm.io/gorm"

	"github.com/KirkDiggler/campaign-api/internal/errors"
)

const (
	errArmyNil     = "army cannot be nil"
	errArmyIDEmpty = "army ID cannot be empty"
	errRecordNil   = "record cannot be nil"
)

// Config holds the configuration for the gorm store
type Config struct {
	DB *gorm.DB
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.DB == nil {
		return errors.InvalidArgument("gorm DB is required")
	}
	return nil
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new gorm-backed store for armies and battle history
func NewGormStore(cfg *Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &gormStore{db: cfg.DB}, nil
}

// Ensure gormStore implements Store
var _ Store = (*gormStore)(nil)

// Migrate creates or updates the store's tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Army{}, &BattleRecord{}); err != nil {
		return errors.Wrap(err, "failed to migrate army tables")
	}
	return nil
}

// CreateArmy saves a new army roster entry
func (s *gormStore) CreateArmy(ctx context.Context, input CreateArmyInput) (*CreateArmyOutput, error) {
	if input.Army == nil {
		return nil, errors.InvalidArgument(errArmyNil)
	}
	if input.Army.ID == "" {
		return nil, errors.InvalidArgument(errArmyIDEmpty)
	}
	if input.Army.CampaignID == "" {
		return nil, errors.InvalidArgument("campaign ID cannot be empty")
	}

	if err := s.db.WithContext(ctx).Create(input.Army).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.AlreadyExistsf("army %s already exists", input.Army.ID)
		}
		return nil, errors.Wrapf(err, "failed to create army")
	}

	return &CreateArmyOutput{Army: input.Army}, nil
}

// GetArmy retrieves an army by ID
func (s *gormStore) GetArmy(ctx context.Context, input GetArmyInput) (*GetArmyOutput, error) {
	if input.ArmyID == "" {
		return nil, errors.InvalidArgument(errArmyIDEmpty)
	}

	var army Army
	err := s.db.WithContext(ctx).First(&army, "id = ?", input.ArmyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFoundf("army %s not found", input.ArmyID)
		}
		return nil, errors.Wrapf(err, "failed to get army")
	}

	return &GetArmyOutput{Army: &army}, nil
}

// ListArmies returns a campaign's roster
func (s *gormStore) ListArmies(ctx context.Context, input ListArmiesInput) (*ListArmiesOutput, error) {
	if input.CampaignID == "" {
		return nil, errors.InvalidArgument("campaign ID cannot be empty")
	}

	query := s.db.WithContext(ctx).Where("campaign_id = ?", input.CampaignID)
	if input.PlayerID != "" {
		query = query.Where("player_id = ?", input.PlayerID)
	}
	if !input.IncludeTemporary {
		query = query.Where("temporary = ?", false)
	}

	var result []Army
	if err := query.Order("created_at").Find(&result).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to list armies")
	}

	return &ListArmiesOutput{Armies: result}, nil
}

// UpdateArmy replaces an existing army's fields
func (s *gormStore) UpdateArmy(ctx context.Context, army *Army) error {
	if army == nil {
		return errors.InvalidArgument(errArmyNil)
	}
	if army.ID == "" {
		return errors.InvalidArgument(errArmyIDEmpty)
	}

	result := s.db.WithContext(ctx).Model(&Army{}).Where("id = ?", army.ID).Updates(army)
	if result.Error != nil {
		return errors.Wrapf(result.Error, "failed to update army")
	}
	if result.RowsAffected == 0 {
		return errors.NotFoundf("army %s not found", army.ID)
	}

	return nil
}

// DeleteArmy removes an army from the roster
func (s *gormStore) DeleteArmy(ctx context.Context, input DeleteArmyInput) (*DeleteArmyOutput, error) {
	if input.ArmyID == "" {
		return nil, errors.InvalidArgument(errArmyIDEmpty)
	}

	result := s.db.WithContext(ctx).Delete(&Army{}, "id = ?", input.ArmyID)
	if result.Error != nil {
		return nil, errors.Wrapf(result.Error, "failed to delete army")
	}
	if result.RowsAffected == 0 {
		return nil, errors.NotFoundf("army %s not found", input.ArmyID)
	}

	return &DeleteArmyOutput{}, nil
}

// AppendHistory archives one army's battle result
func (s *gormStore) AppendHistory(ctx context.Context, record *BattleRecord) error {
	if record == nil {
		return errors.InvalidArgument(errRecordNil)
	}
	if record.BattleID == "" {
		return errors.InvalidArgument("battle ID cannot be empty")
	}
	if record.ArmyID == "" {
		return errors.InvalidArgument(errArmyIDEmpty)
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.AlreadyExistsf("battle %s is already archived for army %s", record.BattleID, record.ArmyID)
		}
		return errors.Wrapf(err, "failed to archive battle")
	}

	return nil
}

// ListHistory returns a campaign's archived battle records, newest first
func (s *gormStore) ListHistory(ctx context.Context, input ListHistoryInput) (*ListHistoryOutput, error) {
	if input.CampaignID == "" {
		return nil, errors.InvalidArgument("campaign ID cannot be empty")
	}

	query := s.db.WithContext(ctx).Where("campaign_id = ?", input.CampaignID)
	if input.ArmyID != "" {
		query = query.Where("army_id = ?", input.ArmyID)
	}

	var records []BattleRecord
	if err := query.Order("completed_at DESC").Find(&records).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to list battle history")
	}

	return &ListHistoryOutput{Records: records}, nil
}
