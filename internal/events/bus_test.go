package events_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/campaign-api/internal/events"
)

func TestBus_PublishAssignsSequencePerScope(t *testing.T) {
	bus := events.NewBus()

	e1 := bus.Publish("campaign_1", events.KindTurnAdvanced, nil)
	e2 := bus.Publish("campaign_1", events.KindTurnAdvanced, nil)
	other := bus.Publish("campaign_2", events.KindCombatReset, nil)

	assert.Equal(t, uint64(1), e1.Seq)
	assert.Equal(t, uint64(2), e2.Seq)
	assert.Equal(t, uint64(1), other.Seq, "scopes sequence independently")
}

func TestBus_SubscriberReceivesInCommitOrder(t *testing.T) {
	bus := events.NewBus()

	ch, cancel := bus.Subscribe("campaign_1")
	defer cancel()

	bus.Publish("campaign_1", events.KindCombatantAdded, events.CombatantAdded{CombatantID: "a"})
	bus.Publish("campaign_1", events.KindTurnAdvanced, events.TurnAdvanced{CombatantID: "a"})
	bus.Publish("campaign_2", events.KindCombatReset, nil)

	first := <-ch
	second := <-ch

	assert.Equal(t, events.KindCombatantAdded, first.Kind)
	assert.Equal(t, uint64(1), first.Seq)
	assert.Equal(t, events.KindTurnAdvanced, second.Kind)
	assert.Equal(t, uint64(2), second.Seq)

	select {
	case e := <-ch:
		t.Fatalf("received event for foreign scope: %+v", e)
	default:
	}
}

func TestBus_FanOut(t *testing.T) {
	bus := events.NewBus()

	ch1, cancel1 := bus.Subscribe("campaign_1")
	defer cancel1()
	ch2, cancel2 := bus.Subscribe("campaign_1")
	defer cancel2()

	bus.Publish("campaign_1", events.KindCombatReset, events.CombatReset{SessionID: "campaign_1"})

	e1 := <-ch1
	e2 := <-ch2
	assert.Equal(t, e1.Seq, e2.Seq)
	assert.Equal(t, events.KindCombatReset, e1.Kind)
}

func TestBus_CancelClosesChannel(t *testing.T) {
	bus := events.NewBus()

	ch, cancel := bus.Subscribe("campaign_1")
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Cancel is idempotent and publishing after cancel must not panic.
	cancel()
	require.NotPanics(t, func() {
		bus.Publish("campaign_1", events.KindCombatReset, nil)
	})
}

func TestBus_SlowSubscriberDoesNotBlockPublish(t *testing.T) {
	bus := events.NewBus()

	_, cancel := bus.Subscribe("campaign_1")
	defer cancel()

	// Never drained; publishing far past the buffer must still return.
	for i := 0; i < 200; i++ {
		bus.Publish("campaign_1", events.KindCombatantMoved, events.CombatantMoved{})
	}
}
