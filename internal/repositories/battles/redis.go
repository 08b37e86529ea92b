package battles

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/campaign-api/internal/errors"
	"github.com/KirkDiggler/campaign-api/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/campaign-api/internal/redis"
)

const (
	// Key patterns: battle:{battle_id}, campaign:{campaign_id}:active_battle
	battleKeyPrefix = "battle:"
	activeKeyFormat = "campaign:%s:active_battle"

	errBattleNil     = "battle cannot be nil"
	errBattleIDEmpty = "battle ID cannot be empty"
	errCampaignEmpty = "campaign ID cannot be empty"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for battles
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Create stores a new battle and marks it the campaign's active battle
func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	battle := input.Battle
	if battle == nil {
		return nil, errors.InvalidArgument(errBattleNil)
	}
	if battle.ID == "" {
		return nil, errors.InvalidArgument(errBattleIDEmpty)
	}
	if battle.CampaignID == "" {
		return nil, errors.InvalidArgument(errCampaignEmpty)
	}

	now := r.clock.Now()
	battle.CreatedAt = now
	battle.UpdatedAt = now

	battleJSON, err := json.Marshal(battle)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal battle")
	}

	// The battle document and the active pointer commit together.
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.battleKey(battle.ID), battleJSON, 0)
	pipe.Set(ctx, r.activeKey(battle.CampaignID), battle.ID, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to store battle in Redis")
	}

	return &CreateOutput{
		Battle: battle,
	}, nil
}

// Get retrieves a battle by ID
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.BattleID == "" {
		return nil, errors.InvalidArgument(errBattleIDEmpty)
	}

	battleJSON, err := r.client.Get(ctx, r.battleKey(input.BattleID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("battle %s not found", input.BattleID)
		}
		return nil, errors.Wrapf(err, "failed to get battle from Redis")
	}

	var battle Battle
	if err := json.Unmarshal([]byte(battleJSON), &battle); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal battle")
	}

	return &GetOutput{
		Battle: &battle,
	}, nil
}

// GetActive retrieves the campaign's active battle, if any
func (r *redisRepository) GetActive(ctx context.Context, input GetActiveInput) (*GetActiveOutput, error) {
	if input.CampaignID == "" {
		return nil, errors.InvalidArgument(errCampaignEmpty)
	}

	battleID, err := r.client.Get(ctx, r.activeKey(input.CampaignID)).Result()
	if err != nil {
		if err == redis.Nil {
			return &GetActiveOutput{}, nil
		}
		return nil, errors.Wrapf(err, "failed to get active battle pointer from Redis")
	}

	getOutput, err := r.Get(ctx, GetInput{BattleID: battleID})
	if err != nil {
		if errors.IsNotFound(err) {
			// Dangling pointer; clear it rather than serving a ghost.
			_ = r.client.Del(ctx, r.activeKey(input.CampaignID))
			return &GetActiveOutput{}, nil
		}
		return nil, err
	}

	return &GetActiveOutput{Battle: getOutput.Battle}, nil
}

// Save replaces a battle document; a terminal status clears the campaign's
// active battle pointer
func (r *redisRepository) Save(ctx context.Context, battle *Battle) error {
	if battle == nil {
		return errors.InvalidArgument(errBattleNil)
	}
	if battle.ID == "" {
		return errors.InvalidArgument(errBattleIDEmpty)
	}

	battle.UpdatedAt = r.clock.Now()

	battleJSON, err := json.Marshal(battle)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal battle")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.battleKey(battle.ID), battleJSON, 0)
	if battle.Status.Terminal() {
		pipe.Del(ctx, r.activeKey(battle.CampaignID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "failed to update battle in Redis")
	}

	return nil
}

func (r *redisRepository) battleKey(battleID string) string {
	return battleKeyPrefix + battleID
}

func (r *redisRepository) activeKey(campaignID string) string {
	return fmt.Sprintf(activeKeyFormat, campaignID)
}
