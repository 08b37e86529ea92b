package ws_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/KirkDiggler/campaign-api/internal/events"
	"github.com/KirkDiggler/campaign-api/internal/handlers/ws"
	"github.com/KirkDiggler/campaign-api/internal/orchestrators/massbattle"
	"github.com/KirkDiggler/campaign-api/internal/orchestrators/skirmish"
	"github.com/KirkDiggler/campaign-api/internal/pkg/clock"
	"github.com/KirkDiggler/campaign-api/internal/pkg/dice"
	"github.com/KirkDiggler/campaign-api/internal/pkg/idgen"
	"github.com/KirkDiggler/campaign-api/internal/repositories/armies"
	"github.com/KirkDiggler/campaign-api/internal/repositories/battles"
	"github.com/KirkDiggler/campaign-api/internal/testutils"
)

type HandlerTestSuite struct {
	suite.Suite
	server  *httptest.Server
	cleanup func()
}

func (s *HandlerTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	bus := events.NewBus()
	roller := dice.NewToolkitRoller()

	skirmishOrch, err := skirmish.NewOrchestrator(&skirmish.Config{
		Roller:      roller,
		EventBus:    bus,
		IDGenerator: idgen.NewSequential("combatant"),
	})
	s.Require().NoError(err)

	repo, err := battles.NewRedisRepository(&battles.Config{
		Client: client,
		Clock:  clock.New(),
	})
	s.Require().NoError(err)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	s.Require().NoError(err)
	s.Require().NoError(armies.Migrate(db))
	store, err := armies.NewGormStore(&armies.Config{DB: db})
	s.Require().NoError(err)

	battleOrch, err := massbattle.NewOrchestrator(&massbattle.Config{
		Repository:  repo,
		ArmyStore:   store,
		Roller:      roller,
		EventBus:    bus,
		IDGenerator: idgen.NewSequential("mb"),
		Clock:       clock.New(),
	})
	s.Require().NoError(err)

	handler, err := ws.NewHandler(&ws.Config{
		Skirmish:   skirmishOrch,
		MassBattle: battleOrch,
		EventBus:   bus,
	})
	s.Require().NoError(err)

	s.server = httptest.NewServer(handler)
}

func (s *HandlerTestSuite) TearDownTest() {
	s.server.Close()
	s.cleanup()
}

func (s *HandlerTestSuite) dial(query string) *websocket.Conn {
	s.T().Helper()
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/?" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn
}

// readFrameOfType drains frames until one of the wanted type arrives.
func readFrameOfType(t *testing.T, conn *websocket.Conn, frameType string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))

	for {
		var frame map[string]any
		require.NoError(t, conn.ReadJSON(&frame), "waiting for %q frame", frameType)
		if frame["type"] == frameType {
			return frame
		}
	}
}

func (s *HandlerTestSuite) TestConnectReceivesSnapshot() {
	conn := s.dial("campaign=campaign_1&user=dm_1&dm=true")
	defer func() { _ = conn.Close() }()

	snapshot := readFrameOfType(s.T(), conn, "snapshot")
	s.Equal("campaign_1", snapshot["campaign_id"])

	combat, ok := snapshot["combat"].(map[string]any)
	s.Require().True(ok)
	s.Equal(float64(-1), combat["CurrentTurnIndex"])
}

func (s *HandlerTestSuite) TestIntentRoundTrip() {
	conn := s.dial("campaign=campaign_1&user=player_1&dm=false")
	defer func() { _ = conn.Close() }()

	readFrameOfType(s.T(), conn, "snapshot")

	err := conn.WriteJSON(map[string]any{
		"id": "req_1",
		"op": "combat.add_combatant",
		"payload": map[string]any{
			"combatant": map[string]any{
				"id":    "drizzt",
				"name":  "Drizzt",
				"speed": 30,
			},
			"initiative": 18,
		},
	})
	s.Require().NoError(err)

	result := readFrameOfType(s.T(), conn, "result")
	s.Equal("req_1", result["id"])
	s.Equal("combat.add_combatant", result["op"])

	// The committed delta reaches the same subscriber.
	event := readFrameOfType(s.T(), conn, "event")
	inner, ok := event["event"].(map[string]any)
	s.Require().True(ok)
	s.Equal("combatant_added", inner["kind"])
	s.Equal("campaign_1", inner["scope"])
	s.Equal(float64(1), inner["seq"])
}

func (s *HandlerTestSuite) TestErrorFrameCarriesCodeAndReason() {
	conn := s.dial("campaign=campaign_1&user=player_1&dm=false")
	defer func() { _ = conn.Close() }()

	readFrameOfType(s.T(), conn, "snapshot")

	// Reset is a DM-only intent.
	s.Require().NoError(conn.WriteJSON(map[string]any{
		"id": "req_1",
		"op": "combat.reset",
	}))

	errFrame := readFrameOfType(s.T(), conn, "error")
	s.Equal("req_1", errFrame["id"])
	s.Equal("PERMISSION_DENIED", errFrame["code"])
}

func (s *HandlerTestSuite) TestUnknownOpRejected() {
	conn := s.dial("campaign=campaign_1&user=player_1&dm=false")
	defer func() { _ = conn.Close() }()

	readFrameOfType(s.T(), conn, "snapshot")

	s.Require().NoError(conn.WriteJSON(map[string]any{"op": "combat.fireball"}))

	errFrame := readFrameOfType(s.T(), conn, "error")
	s.Equal("INVALID_ARGUMENT", errFrame["code"])
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
