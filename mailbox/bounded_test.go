package mailbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/lguibr/actority/envelope"
	"github.com/lguibr/actority/mailbox"
	"github.com/stretchr/testify/require"
)

type tick struct{}

func (tick) MessageType() string { return "tick" }

func TestBoundedBlockBackpressure(t *testing.T) {
	// capacity=2, strategy=Block: a third concurrent send must wait for
	// a receive to free a slot before it returns.
	mb := mailbox.NewBounded[tick](2, mailbox.Block, nil, nil)
	ctx := context.Background()

	require.NoError(t, mb.Send(ctx, envelope.New[tick](tick{})))
	require.NoError(t, mb.Send(ctx, envelope.New[tick](tick{})))

	sendDone := make(chan error, 1)
	go func() {
		sendDone <- mb.Send(ctx, envelope.New[tick](tick{}))
	}()

	select {
	case <-sendDone:
		t.Fatal("third send should block while mailbox is at capacity")
	case <-time.After(20 * time.Millisecond):
	}

	_, err := mb.Receive(ctx)
	require.NoError(t, err)

	select {
	case err := <-sendDone:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("blocked send never unblocked after a receive freed capacity")
	}

	m := mb.Metrics()
	require.Equal(t, int64(0), m.Dropped)
	require.GreaterOrEqual(t, m.BackpressureEvents, int64(1))
}

func TestBoundedDropBackpressure(t *testing.T) {
	// capacity=1, strategy=Drop: every send counts as enqueued even when
	// the envelope is discarded because the mailbox is full.
	mb := mailbox.NewBounded[tick](1, mailbox.Drop, nil, nil)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, mb.Send(ctx, envelope.New[tick](tick{})))
	}

	_, err := mb.Receive(ctx)
	require.NoError(t, err)

	m := mb.Metrics()
	require.Equal(t, int64(4), m.Enqueued)
	require.Equal(t, int64(1), m.Dequeued)
	require.Equal(t, int64(3), m.Dropped)
}

func TestBoundedErrorStrategy(t *testing.T) {
	mb := mailbox.NewBounded[tick](1, mailbox.Error, nil, nil)
	ctx := context.Background()

	require.NoError(t, mb.Send(ctx, envelope.New[tick](tick{})))
	err := mb.Send(ctx, envelope.New[tick](tick{}))
	require.ErrorIs(t, err, mailbox.ErrFull)
}

func TestBoundedTTLExpiration(t *testing.T) {
	// An envelope with a short TTL expires before being dequeued; it
	// must not be delivered and must bump the expired counter by
	// exactly one.
	now := time.Now()
	clock := func() time.Time { return now }
	mb := mailbox.NewBounded[tick](4, mailbox.Block, nil, clock)
	ctx := context.Background()

	env := envelope.New[tick](tick{}).WithTTL(10 * time.Millisecond)
	require.NoError(t, mb.Send(ctx, env))

	live := envelope.New[tick](tick{})
	require.NoError(t, mb.Send(ctx, live))

	now = now.Add(30 * time.Millisecond)

	got, err := mb.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, live.ID, got.ID)

	m := mb.Metrics()
	require.Equal(t, int64(1), m.Expired)
	require.Equal(t, int64(0), m.CurrentDepth)
}

func TestBoundedCloseUnblocksSend(t *testing.T) {
	mb := mailbox.NewBounded[tick](1, mailbox.Block, nil, nil)
	ctx := context.Background()
	require.NoError(t, mb.Send(ctx, envelope.New[tick](tick{})))

	done := make(chan error, 1)
	go func() { done <- mb.Send(ctx, envelope.New[tick](tick{})) }()

	time.Sleep(10 * time.Millisecond)
	mb.Close()

	select {
	case err := <-done:
		require.ErrorIs(t, err, mailbox.ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("close did not unblock a pending send")
	}

	require.ErrorIs(t, mb.Send(ctx, envelope.New[tick](tick{})), mailbox.ErrClosed)
}
