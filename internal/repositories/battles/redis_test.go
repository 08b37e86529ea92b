package battles_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/campaign-api/internal/errors"
	"github.com/KirkDiggler/campaign-api/internal/pkg/clock"
	"github.com/KirkDiggler/campaign-api/internal/repositories/battles"
	"github.com/KirkDiggler/campaign-api/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	repo    battles.Repository
	cleanup func()
	ctx     context.Context
	now     time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup
	s.ctx = context.Background()
	s.now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	repo, err := battles.NewRedisRepository(&battles.Config{
		Client: client,
		Clock:  &clock.Fixed{T: s.now},
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) newBattle() *battles.Battle {
	return &battles.Battle{
		ID:         "battle_1",
		CampaignID: "campaign_1",
		Name:       "Siege of Mithral Hall",
		Status:     battles.StatusPlanning,
		MaxRounds:  5,
		Participants: []battles.Participant{
			{
				ID:       "participant_1",
				Name:     "Clan Battlehammer",
				TeamName: "defenders",
				Stats: battles.ArmyStats{
					Numbers: 7, Equipment: 8, Discipline: 6,
					Morale: 9, Command: 8, Logistics: 5,
				},
			},
		},
	}
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	created, err := s.repo.Create(s.ctx, battles.CreateInput{Battle: s.newBattle()})
	s.Require().NoError(err)
	s.Equal(s.now, created.Battle.CreatedAt)

	got, err := s.repo.Get(s.ctx, battles.GetInput{BattleID: "battle_1"})
	s.Require().NoError(err)
	s.Equal("Siege of Mithral Hall", got.Battle.Name)
	s.Equal(battles.StatusPlanning, got.Battle.Status)
	s.Len(got.Battle.Participants, 1)
	s.Equal(43, got.Battle.Participants[0].Stats.Sum())
}

func (s *RedisRepositoryTestSuite) TestGet_NotFound() {
	_, err := s.repo.Get(s.ctx, battles.GetInput{BattleID: "battle_missing"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestCreate_SetsActivePointer() {
	_, err := s.repo.Create(s.ctx, battles.CreateInput{Battle: s.newBattle()})
	s.Require().NoError(err)

	active, err := s.repo.GetActive(s.ctx, battles.GetActiveInput{CampaignID: "campaign_1"})
	s.Require().NoError(err)
	s.Require().NotNil(active.Battle)
	s.Equal("battle_1", active.Battle.ID)
}

func (s *RedisRepositoryTestSuite) TestGetActive_NoneReturnsNil() {
	active, err := s.repo.GetActive(s.ctx, battles.GetActiveInput{CampaignID: "campaign_quiet"})
	s.Require().NoError(err)
	s.Nil(active.Battle)
}

func (s *RedisRepositoryTestSuite) TestSave_RoundTripsGoalInstances() {
	_, err := s.repo.Create(s.ctx, battles.CreateInput{Battle: s.newBattle()})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, battles.GetInput{BattleID: "battle_1"})
	s.Require().NoError(err)

	battle := got.Battle
	battle.Status = battles.StatusGoalSelection
	battle.Round = 1
	roll := 14
	battle.Goals = append(battle.Goals, battles.GoalInstance{
		ID:            "goal_1",
		Round:         1,
		TeamName:      "defenders",
		ParticipantID: "participant_1",
		GoalKey:       "hold_the_line",
		DiceRoll:      &roll,
		StatModifier:  1,
	})
	s.Require().NoError(s.repo.Save(s.ctx, battle))

	got, err = s.repo.Get(s.ctx, battles.GetInput{BattleID: "battle_1"})
	s.Require().NoError(err)
	s.Require().Len(got.Battle.Goals, 1)
	s.Require().NotNil(got.Battle.Goals[0].DiceRoll)
	s.Equal(14, *got.Battle.Goals[0].DiceRoll)
	s.Equal(battles.StatusGoalSelection, got.Battle.Status)
}

func (s *RedisRepositoryTestSuite) TestSave_TerminalStatusClearsActivePointer() {
	_, err := s.repo.Create(s.ctx, battles.CreateInput{Battle: s.newBattle()})
	s.Require().NoError(err)

	got, err := s.repo.Get(s.ctx, battles.GetInput{BattleID: "battle_1"})
	s.Require().NoError(err)

	battle := got.Battle
	battle.Status = battles.StatusCancelled
	s.Require().NoError(s.repo.Save(s.ctx, battle))

	active, err := s.repo.GetActive(s.ctx, battles.GetActiveInput{CampaignID: "campaign_1"})
	s.Require().NoError(err)
	s.Nil(active.Battle, "terminal battle must not stay active")

	// The document itself survives for history.
	got, err = s.repo.Get(s.ctx, battles.GetInput{BattleID: "battle_1"})
	s.Require().NoError(err)
	s.Equal(battles.StatusCancelled, got.Battle.Status)
}

func (s *RedisRepositoryTestSuite) TestCreate_Validation() {
	_, err := s.repo.Create(s.ctx, battles.CreateInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Create(s.ctx, battles.CreateInput{Battle: &battles.Battle{ID: "battle_1"}})
	s.True(errors.IsInvalidArgument(err))
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}
