package lux

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saaga0h/lux-platform/internal/command"
	"github.com/saaga0h/lux-platform/internal/engine"
	"github.com/saaga0h/lux-platform/pkg/config"
	"github.com/saaga0h/lux-platform/pkg/mqtt"
	"github.com/saaga0h/lux-platform/pkg/mqtt/mqtttest"
	"github.com/saaga0h/lux-platform/pkg/redis"
	"github.com/saaga0h/lux-platform/pkg/redis/redistest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAgent(t *testing.T) (*Agent, *mqtttest.Fake, *redistest.Fake) {
	t.Helper()
	mq := mqtttest.NewFake()
	rd := redistest.NewFake()
	cfg := config.NewConfig()
	a := NewAgent(mq, rd, engine.New(), cfg, testLogger())
	a.now = func() time.Time { return time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC) }
	return a, mq, rd
}

func decodeLast[T any](t *testing.T, msgs []mqtttest.Published) T {
	t.Helper()
	require.NotEmpty(t, msgs)
	var v T
	require.NoError(t, json.Unmarshal(msgs[len(msgs)-1].Payload, &v))
	return v
}

func TestDispatch_SetRoomPublishesLightCommand(t *testing.T) {
	a, mq, rd := newTestAgent(t)

	outcome := a.Dispatch(context.Background(), "lux set kitchen brightness 40")

	assert.True(t, outcome.Handled)
	assert.Equal(t, "Set kitchen brightness 40", outcome.Message)

	cmds := mq.PublishedTo(mqtt.TopicLightCommandBase)
	require.Len(t, cmds, 1)
	assert.Equal(t, mqtt.LightCommandTopic("kitchen"), cmds[0].Topic)

	msg := decodeLast[LightCommand](t, cmds)
	assert.Equal(t, "kitchen", msg.Name)
	assert.Equal(t, 40.0, msg.Brightness)
	assert.Equal(t, "lux set kitchen brightness 40", msg.Command)
	assert.Equal(t, "lux-agent", msg.Source)
	assert.Equal(t, "2024-03-01T18:30:00Z", msg.Timestamp)

	fields, err := rd.HGetAll(context.Background(), redis.RoomStateKey("kitchen"))
	require.NoError(t, err)
	assert.Equal(t, "40", fields["brightness"])
	assert.Equal(t, 5*time.Minute, rd.TTLs[redis.RoomStateKey("kitchen")])
}

func TestDispatch_AllRoomsFanOut(t *testing.T) {
	a, mq, _ := newTestAgent(t)

	a.Dispatch(context.Background(), "lux off all")

	cmds := mq.PublishedTo(mqtt.TopicLightCommandBase)
	require.Len(t, cmds, len(command.Rooms))
	for i, room := range command.Rooms {
		assert.Equal(t, mqtt.LightCommandTopic(room), cmds[i].Topic)
		var msg LightCommand
		require.NoError(t, json.Unmarshal(cmds[i].Payload, &msg))
		assert.False(t, msg.On)
		assert.Equal(t, "#000000", msg.Hex)
	}
}

func TestDispatch_EffectUpdatesEngine(t *testing.T) {
	a, _, _ := newTestAgent(t)

	a.Dispatch(context.Background(), "lux effect studio wave 1.5 0.5")

	state, err := a.engine.Room("studio")
	require.NoError(t, err)
	assert.Equal(t, engine.EffectWave, state.Effect)
	assert.Equal(t, 1.5, state.Speed)
	assert.Equal(t, 0.5, state.Amount)
}

func TestDispatch_UIEvents(t *testing.T) {
	a, mq, _ := newTestAgent(t)

	outcome := a.Dispatch(context.Background(), "lux os")

	assert.Equal(t, "Opened OS", outcome.Message)
	events := mq.PublishedTo(mqtt.TopicLuxEventBase)
	require.Len(t, events, 1)
	assert.Equal(t, mqtt.LuxEventTopic("luxai-os-open"), events[0].Topic)
	ev := decodeLast[UIEvent](t, events)
	assert.Equal(t, command.EventOSOpen, ev.Type)
}

func TestDispatch_MessagesWithoutEvents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		handled bool
		message string
	}{
		{"non-lux input", "hello there", false, ""},
		{"help", "lux help", true, command.HelpText},
		{"unknown", "lux dance", true, command.UnknownMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, mq, _ := newTestAgent(t)

			outcome := a.Dispatch(context.Background(), tt.input)

			assert.Equal(t, tt.handled, outcome.Handled)
			assert.Equal(t, tt.message, outcome.Message)
			assert.Empty(t, mq.Published())
		})
	}
}

func TestPublishRoomStates_OnlyChangedRooms(t *testing.T) {
	a, mq, _ := newTestAgent(t)
	ctx := context.Background()

	a.publishRoomStates(ctx, true)
	assert.Len(t, mq.PublishedTo(mqtt.TopicRoomContextBase), 4)

	a.publishRoomStates(ctx, false)
	assert.Len(t, mq.PublishedTo(mqtt.TopicRoomContextBase), 4)

	require.NoError(t, a.engine.SetRoom("bedroom", true, 10, 30))
	a.publishRoomStates(ctx, false)

	contexts := mq.PublishedTo(mqtt.TopicRoomContextBase)
	require.Len(t, contexts, 5)
	assert.Equal(t, mqtt.RoomContextTopic("bedroom"), contexts[4].Topic)

	msg := decodeLast[RoomContext](t, contexts)
	assert.Equal(t, 10.0, msg.Brightness)
	assert.Equal(t, 30.0, msg.Hue)
}

func TestPublishRoomStates_RefreshesBeforeTTL(t *testing.T) {
	a, mq, _ := newTestAgent(t)
	ctx := context.Background()
	base := a.now()

	a.publishRoomStates(ctx, true)
	a.now = func() time.Time { return base.Add(a.cfg.RoomStateTTL() / 2) }
	a.publishRoomStates(ctx, false)

	assert.Len(t, mq.PublishedTo(mqtt.TopicRoomContextBase), 8)
}

func TestStep_AnimatesEffects(t *testing.T) {
	a, mq, _ := newTestAgent(t)
	ctx := context.Background()
	start := a.now()
	a.startedAt = start

	a.Dispatch(ctx, "lux effect living pulse 1 1")
	before := len(mq.PublishedTo(mqtt.RoomContextTopic("living")))

	a.now = func() time.Time { return start.Add(250 * time.Millisecond) }
	a.step(ctx)

	state, err := a.engine.Room("living")
	require.NoError(t, err)
	assert.Equal(t, 80.0, state.Brightness)
	assert.Len(t, mq.PublishedTo(mqtt.RoomContextTopic("living")), before+1)
}

func TestHandleCommandMessage(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"json body", `{"cmd":"lux on bedroom"}`},
		{"raw text", "lux on bedroom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, mq, _ := newTestAgent(t)
			require.NoError(t, a.engine.SetRoom("bedroom", false, 60, 210))
			require.NoError(t, mq.Subscribe(mqtt.TopicLuxCommand, 0, a.handleCommandMessage))

			mq.Deliver(mqtt.TopicLuxCommand, []byte(tt.payload))

			state, err := a.engine.Room("bedroom")
			require.NoError(t, err)
			assert.True(t, state.On)
		})
	}
}

func TestStartStop(t *testing.T) {
	a, mq, rd := newTestAgent(t)
	a.cfg.StepIntervalMs = 10

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()

	require.Eventually(t, func() bool {
		return len(mq.PublishedTo(mqtt.TopicRoomContextBase)) >= 4
	}, time.Second, 5*time.Millisecond)
	assert.True(t, mq.IsConnected())

	mq.Deliver(mqtt.TopicLuxCommand, []byte("lux off living"))
	require.Eventually(t, func() bool {
		return len(mq.PublishedTo(mqtt.LightCommandTopic("living"))) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	require.NoError(t, a.Stop())

	assert.False(t, mq.IsConnected())
	assert.True(t, rd.Closed())
}

func TestStart_Errors(t *testing.T) {
	t.Run("mqtt connect", func(t *testing.T) {
		a, mq, _ := newTestAgent(t)
		mq.ConnectErr = errors.New("broker down")
		assert.ErrorContains(t, a.Start(context.Background()), "failed to connect to MQTT")
	})

	t.Run("redis ping", func(t *testing.T) {
		a, _, rd := newTestAgent(t)
		rd.PingErr = errors.New("no route")
		assert.ErrorContains(t, a.Start(context.Background()), "failed to ping Redis")
	})
}

func TestNilRedis(t *testing.T) {
	mq := mqtttest.NewFake()
	a := NewAgent(mq, nil, engine.New(), config.NewConfig(), testLogger())

	a.Dispatch(context.Background(), "lux on all")
	assert.NotEmpty(t, mq.PublishedTo(mqtt.TopicLightCommandBase))
	assert.NoError(t, a.Stop())
}

func TestStop_BeforeStepLoopStarts(t *testing.T) {
	a, _, _ := newTestAgent(t)
	require.NoError(t, a.Stop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, a.Start(ctx))

	a.tickerMux.Lock()
	defer a.tickerMux.Unlock()
	assert.Nil(t, a.ticker, "no ticker is left running after Stop")
}

func TestDispatch_StripsShellCharacters(t *testing.T) {
	a, mq, _ := newTestAgent(t)

	outcome := a.Dispatch(context.Background(), "lux on living; $(reboot)")

	assert.True(t, outcome.Handled)
	assert.Equal(t, command.UnknownMessage, outcome.Message)
	assert.Empty(t, mq.PublishedTo(mqtt.TopicLightCommandBase))

	outcome = a.Dispatch(context.Background(), "lux off <kitchen>")
	assert.Equal(t, "Off kitchen", outcome.Message)

	msg := decodeLast[LightCommand](t, mq.PublishedTo(mqtt.LightCommandTopic("kitchen")))
	assert.Equal(t, "lux off kitchen", msg.Command)
}
