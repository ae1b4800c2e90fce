package pubsub

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestListenCmd_ReceivesEvent(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx := context.Background()
	ch := broker.Subscribe(ctx)
	cmd := ListenCmd(ctx, ch)

	broker.Publish(AppendedEvent, "line")

	msg := cmd()
	event, ok := msg.(Event[string])
	require.True(t, ok, "expected Event[string], got %T", msg)
	require.Equal(t, "line", event.Payload)
}

func TestListenCmd_ContextCancelled(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)
	cmd := ListenCmd(ctx, ch)

	cancel()

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		require.Nil(t, msg)
	case <-time.After(100 * time.Millisecond):
		require.Fail(t, "cmd did not return after cancellation")
	}
}

func TestListenCmd_ChannelClosed(t *testing.T) {
	broker := NewBroker[string]()
	ch := broker.Subscribe(context.Background())
	cmd := ListenCmd(context.Background(), ch)

	broker.Close()

	msg := cmd()
	require.Nil(t, msg)
}

func TestContinuousListener_Listen(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	listener := NewContinuousListener(context.Background(), broker)

	for want := 1; want <= 3; want++ {
		broker.Publish(AppendedEvent, want)
		msg := listener.Listen()()
		event, ok := msg.(Event[int])
		require.True(t, ok, "expected Event[int], got %T", msg)
		require.Equal(t, want, event.Payload)
	}
}
