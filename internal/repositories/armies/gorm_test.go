package armies_test

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/KirkDiggler/campaign-api/internal/errors"
	"github.com/KirkDiggler/campaign-api/internal/repositories/armies"
)

type GormStoreTestSuite struct {
	suite.Suite
	store armies.Store
	ctx   context.Context
}

func (s *GormStoreTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	s.Require().NoError(err)
	s.Require().NoError(armies.Migrate(db))

	store, err := armies.NewGormStore(&armies.Config{DB: db})
	s.Require().NoError(err)
	s.store = store
	s.ctx = context.Background()
}

func (s *GormStoreTestSuite) newArmy(id, player string) *armies.Army {
	return &armies.Army{
		ID:         id,
		CampaignID: "campaign_1",
		Name:       "Clan Battlehammer",
		PlayerID:   player,
		Category:   "infantry",
		Numbers:    7,
		Equipment:  8,
		Discipline: 6,
		Morale:     9,
		Command:    8,
		Logistics:  5,
	}
}

func (s *GormStoreTestSuite) TestCreateAndGetArmy() {
	_, err := s.store.CreateArmy(s.ctx, armies.CreateArmyInput{Army: s.newArmy("army_1", "player_1")})
	s.Require().NoError(err)

	got, err := s.store.GetArmy(s.ctx, armies.GetArmyInput{ArmyID: "army_1"})
	s.Require().NoError(err)
	s.Equal("Clan Battlehammer", got.Army.Name)
	s.Equal(43, got.Army.StatSum())
}

func (s *GormStoreTestSuite) TestGetArmy_NotFound() {
	_, err := s.store.GetArmy(s.ctx, armies.GetArmyInput{ArmyID: "army_missing"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *GormStoreTestSuite) TestCreateArmy_DuplicateRejected() {
	_, err := s.store.CreateArmy(s.ctx, armies.CreateArmyInput{Army: s.newArmy("army_1", "player_1")})
	s.Require().NoError(err)

	_, err = s.store.CreateArmy(s.ctx, armies.CreateArmyInput{Army: s.newArmy("army_1", "player_1")})
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))
}

func (s *GormStoreTestSuite) TestListArmies_FiltersPlayerAndTemporary() {
	_, err := s.store.CreateArmy(s.ctx, armies.CreateArmyInput{Army: s.newArmy("army_1", "player_1")})
	s.Require().NoError(err)
	_, err = s.store.CreateArmy(s.ctx, armies.CreateArmyInput{Army: s.newArmy("army_2", "player_2")})
	s.Require().NoError(err)

	throwaway := s.newArmy("army_3", "player_1")
	throwaway.Temporary = true
	_, err = s.store.CreateArmy(s.ctx, armies.CreateArmyInput{Army: throwaway})
	s.Require().NoError(err)

	all, err := s.store.ListArmies(s.ctx, armies.ListArmiesInput{CampaignID: "campaign_1"})
	s.Require().NoError(err)
	s.Len(all.Armies, 2, "temporary armies stay off the roster")

	mine, err := s.store.ListArmies(s.ctx, armies.ListArmiesInput{
		CampaignID: "campaign_1",
		PlayerID:   "player_1",
	})
	s.Require().NoError(err)
	s.Require().Len(mine.Armies, 1)
	s.Equal("army_1", mine.Armies[0].ID)

	withTemp, err := s.store.ListArmies(s.ctx, armies.ListArmiesInput{
		CampaignID:       "campaign_1",
		PlayerID:         "player_1",
		IncludeTemporary: true,
	})
	s.Require().NoError(err)
	s.Len(withTemp.Armies, 2)
}

func (s *GormStoreTestSuite) TestUpdateArmy() {
	_, err := s.store.CreateArmy(s.ctx, armies.CreateArmyInput{Army: s.newArmy("army_1", "player_1")})
	s.Require().NoError(err)

	got, err := s.store.GetArmy(s.ctx, armies.GetArmyInput{ArmyID: "army_1"})
	s.Require().NoError(err)

	army := got.Army
	army.Morale = 4
	army.Name = "Clan Battlehammer, Bloodied"
	s.Require().NoError(s.store.UpdateArmy(s.ctx, army))

	got, err = s.store.GetArmy(s.ctx, armies.GetArmyInput{ArmyID: "army_1"})
	s.Require().NoError(err)
	s.Equal(4, got.Army.Morale)
	s.Equal("Clan Battlehammer, Bloodied", got.Army.Name)
}

func (s *GormStoreTestSuite) TestUpdateArmy_NotFound() {
	err := s.store.UpdateArmy(s.ctx, s.newArmy("army_missing", "player_1"))
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *GormStoreTestSuite) TestDeleteArmy() {
	_, err := s.store.CreateArmy(s.ctx, armies.CreateArmyInput{Army: s.newArmy("army_1", "player_1")})
	s.Require().NoError(err)

	_, err = s.store.DeleteArmy(s.ctx, armies.DeleteArmyInput{ArmyID: "army_1"})
	s.Require().NoError(err)

	_, err = s.store.GetArmy(s.ctx, armies.GetArmyInput{ArmyID: "army_1"})
	s.True(errors.IsNotFound(err))
}

func (s *GormStoreTestSuite) TestHistory_AppendOnlyNewestFirst() {
	older := &armies.BattleRecord{
		BattleID:    "battle_1",
		ArmyID:      "army_1",
		CampaignID:  "campaign_1",
		Name:        "Siege of Mithral Hall",
		Outcome:     "victory",
		Rounds:      5,
		WinnerTeam:  "defenders",
		CompletedAt: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	newer := &armies.BattleRecord{
		BattleID:    "battle_2",
		ArmyID:      "army_1",
		CampaignID:  "campaign_1",
		Name:        "Battle of Keeper's Dale",
		Outcome:     "cancelled",
		Rounds:      2,
		CompletedAt: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	}

	s.Require().NoError(s.store.AppendHistory(s.ctx, older))
	s.Require().NoError(s.store.AppendHistory(s.ctx, newer))

	history, err := s.store.ListHistory(s.ctx, armies.ListHistoryInput{CampaignID: "campaign_1"})
	s.Require().NoError(err)
	s.Require().Len(history.Records, 2)
	s.Equal("battle_2", history.Records[0].BattleID)
	s.Equal("battle_1", history.Records[1].BattleID)
}

func (s *GormStoreTestSuite) TestHistory_FiltersByArmy() {
	completedAt := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.AppendHistory(s.ctx, &armies.BattleRecord{
		BattleID:    "battle_1",
		ArmyID:      "army_1",
		CampaignID:  "campaign_1",
		Outcome:     "victory",
		CompletedAt: completedAt,
	}))
	s.Require().NoError(s.store.AppendHistory(s.ctx, &armies.BattleRecord{
		BattleID:    "battle_1",
		ArmyID:      "army_2",
		CampaignID:  "campaign_1",
		Outcome:     "defeat",
		CompletedAt: completedAt,
	}))

	history, err := s.store.ListHistory(s.ctx, armies.ListHistoryInput{
		CampaignID: "campaign_1",
		ArmyID:     "army_2",
	})
	s.Require().NoError(err)
	s.Require().Len(history.Records, 1)
	s.Equal("defeat", history.Records[0].Outcome)
}

func (s *GormStoreTestSuite) TestHistory_DuplicateBattleRejected() {
	record := &armies.BattleRecord{
		BattleID:    "battle_1",
		ArmyID:      "army_1",
		CampaignID:  "campaign_1",
		Outcome:     "victory",
		CompletedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.store.AppendHistory(s.ctx, record))

	err := s.store.AppendHistory(s.ctx, &armies.BattleRecord{
		BattleID:    "battle_1",
		ArmyID:      "army_1",
		CampaignID:  "campaign_1",
		Outcome:     "victory",
		CompletedAt: time.Now().UTC(),
	})
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))
}

func TestGormStoreTestSuite(t *testing.T) {
	suite.Run(t, new(GormStoreTestSuite))
}
