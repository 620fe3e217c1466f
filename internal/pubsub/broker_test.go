package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan Event[T]) Event[T] {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		require.FailNow(t, "timeout waiting for event")
	}
	return Event[T]{}
}

func TestBroker_DeliversToEverySubscriber(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx := context.Background()
	subs := []<-chan Event[string]{broker.Subscribe(ctx), broker.Subscribe(ctx)}
	require.Equal(t, 2, broker.SubscriberCount())

	broker.Publish(ChangedEvent, "src/main.c")

	for _, ch := range subs {
		ev := receive(t, ch)
		require.Equal(t, ChangedEvent, ev.Type)
		require.Equal(t, "src/main.c", ev.Payload)
		require.False(t, ev.Timestamp.IsZero())
	}
}

func TestBroker_ContextCancellationUnsubscribes(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)
	cancel()

	require.Eventually(t, func() bool { return broker.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-ch
	require.False(t, ok)
}

func TestBroker_PublishDropsWhenFull(t *testing.T) {
	broker := NewBrokerWithBuffer[int](1)
	defer broker.Close()

	ch := broker.Subscribe(context.Background())

	done := make(chan struct{})
	go func() {
		broker.Publish(ClassifiedEvent, 1)
		broker.Publish(ClassifiedEvent, 2)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "publish blocked")
	}

	require.Equal(t, 1, receive(t, ch).Payload)
	select {
	case ev := <-ch:
		require.FailNow(t, "unexpected event", "%v", ev)
	default:
	}
}

func TestBroker_Close(t *testing.T) {
	broker := NewBroker[string]()
	ch := broker.Subscribe(context.Background())

	broker.Close()
	broker.Close()

	_, ok := <-ch
	require.False(t, ok)
	require.Equal(t, 0, broker.SubscriberCount())

	broker.Publish(LoggedEvent, "ignored")
	_, ok = <-broker.Subscribe(context.Background())
	require.False(t, ok)
}

func TestListenCmd(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := NewContinuousListener(ctx, broker)

	broker.Publish(LoggedEvent, "entry one")
	broker.Publish(LoggedEvent, "entry two")

	msg := l.Listen()()
	ev, ok := msg.(Event[string])
	require.True(t, ok)
	require.Equal(t, "entry one", ev.Payload)

	ev = l.Listen()().(Event[string])
	require.Equal(t, "entry two", ev.Payload)
}

func TestListenCmd_NilAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch := make(chan Event[string])
	require.Nil(t, ListenCmd(ctx, ch)())
}
