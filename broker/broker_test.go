package broker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lguibr/actority/broker"
	"github.com/lguibr/actority/envelope"
	"github.com/lguibr/actority/id"
	"github.com/stretchr/testify/require"
)

type chatMsg struct{ Text string }

func (chatMsg) MessageType() string { return "chat" }

func TestPublishNoSubscribersIsNoOp(t *testing.T) {
	b := broker.New[chatMsg]()
	err := b.Publish(context.Background(), envelope.New(chatMsg{Text: "hi"}), id.Named("nobody"))
	require.NoError(t, err)
}

func TestPublishStrictRoutingReturnsNoRecipient(t *testing.T) {
	b := broker.New[chatMsg](broker.WithStrictRouting[chatMsg]())
	err := b.Publish(context.Background(), envelope.New(chatMsg{Text: "hi"}), id.Named("nobody"))
	require.ErrorIs(t, err, broker.ErrNoRecipient)
}

func TestFanOutToMultipleSubscribers(t *testing.T) {
	// Two subscribers each observe all three published envelopes.
	b := broker.New[chatMsg]()
	addr := id.Named("events")

	ch1, cancel1 := b.Subscribe(addr)
	defer cancel1()
	ch2, cancel2 := b.Subscribe(addr)
	defer cancel2()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, b.Publish(ctx, envelope.New(chatMsg{Text: "tick"}), addr))
	}

	for _, ch := range []<-chan *envelope.Envelope[chatMsg]{ch1, ch2} {
		for i := 0; i < 3; i++ {
			select {
			case <-ch:
			case <-time.After(time.Second):
				t.Fatal("subscriber did not observe publication")
			}
		}
	}
}

func TestUnsubscribeStopsFurtherDelivery(t *testing.T) {
	b := broker.New[chatMsg]()
	addr := id.Named("events")
	ctx := context.Background()

	ch1, cancel1 := b.Subscribe(addr)
	ch2, cancel2 := b.Subscribe(addr)
	defer cancel2()

	require.NoError(t, b.Publish(ctx, envelope.New(chatMsg{Text: "1"}), addr))
	require.NoError(t, b.Publish(ctx, envelope.New(chatMsg{Text: "2"}), addr))
	cancel1()
	require.NoError(t, b.Publish(ctx, envelope.New(chatMsg{Text: "3"}), addr))

	var received int
	for range ch1 {
		received++
	}
	require.Equal(t, 2, received)

	for i := 0; i < 3; i++ {
		select {
		case <-ch2:
		case <-time.After(time.Second):
			t.Fatal("second subscriber missed a publication")
		}
	}
}

func TestRequestReplyRoundTrip(t *testing.T) {
	// Basic request/reply correlation round-trip.
	b := broker.New[chatMsg]()
	addr := id.Named("echo")
	ctx := context.Background()

	ch, cancel := b.Subscribe(addr)
	defer cancel()

	go func() {
		req := <-ch
		reply := envelope.New(chatMsg{Text: req.Payload.Text}).
			WithCorrelationID(*req.CorrelationID)
		_ = b.Publish(ctx, reply, id.Named("requester"))
	}()

	reqEnv := envelope.New(chatMsg{Text: "ping"})
	resp, err := b.PublishRequest(ctx, reqEnv, addr, 200*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, "ping", resp.Payload.Text)
	require.True(t, resp.CorrelationID.Equal(*reqEnv.CorrelationID))
}

func TestRequestDoesNotFulfillItself(t *testing.T) {
	// Regression: publishing the outbound request must not satisfy its
	// own pending slot just because the request carries the correlation
	// id the slot is keyed by. Reply payload is deliberately distinct
	// from the request payload so a self-delivered request is caught.
	b := broker.New[chatMsg]()
	addr := id.Named("echo")
	ctx := context.Background()

	ch, cancel := b.Subscribe(addr)
	defer cancel()

	go func() {
		req := <-ch
		reply := envelope.New(chatMsg{Text: "pong"}).
			WithCorrelationID(*req.CorrelationID)
		_ = b.Publish(ctx, reply, id.Named("requester"))
	}()

	resp, err := b.PublishRequest(ctx, envelope.New(chatMsg{Text: "ping"}), addr, 200*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, "pong", resp.Payload.Text)
}

func TestRequestTimesOut(t *testing.T) {
	b := broker.New[chatMsg]()
	addr := id.Named("silent")
	ctx := context.Background()

	_, err := b.PublishRequest(ctx, envelope.New(chatMsg{Text: "ping"}), addr, 20*time.Millisecond)
	require.ErrorIs(t, err, broker.ErrTimeout)
}

func TestRequestRegistersBeforePublishing(t *testing.T) {
	// Race-freedom: the handler replies synchronously inside the
	// subscriber's receive goroutine; if the broker published before
	// registering the pending slot this would be a genuine race that
	// fails intermittently, so run it many times.
	b := broker.New[chatMsg]()
	addr := id.Named("echo")
	ctx := context.Background()

	ch, cancel := b.Subscribe(addr)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for req := range ch {
			reply := envelope.New(chatMsg{Text: req.Payload.Text}).
				WithCorrelationID(*req.CorrelationID)
			_ = b.Publish(ctx, reply, id.Named("requester"))
		}
	}()

	for i := 0; i < 200; i++ {
		resp, err := b.PublishRequest(ctx, envelope.New(chatMsg{Text: "ping"}), addr, 500*time.Millisecond)
		require.NoError(t, err)
		require.Equal(t, "ping", resp.Payload.Text)
	}
	cancel()
	wg.Wait()
}

func TestPublishRequestAlreadyRegisteredSameCorrelationID(t *testing.T) {
	b := broker.New[chatMsg]()
	addr := id.Named("echo")
	rid := id.NewRequestId()
	ctx := context.Background()

	env1 := envelope.New(chatMsg{Text: "a"}).WithCorrelationID(rid)
	env2 := envelope.New(chatMsg{Text: "b"}).WithCorrelationID(rid)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = b.PublishRequest(ctx, env1, addr, 200*time.Millisecond)
	}()
	time.Sleep(20 * time.Millisecond)

	_, err := b.PublishRequest(ctx, env2, addr, 50*time.Millisecond)
	require.ErrorIs(t, err, broker.ErrAlreadyRegistered)
	wg.Wait()
}
