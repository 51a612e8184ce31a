package mailbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/lguibr/actority/envelope"
	"github.com/lguibr/actority/mailbox"
	"github.com/stretchr/testify/require"
)

func TestUnboundedNeverBlocksOnSend(t *testing.T) {
	mb := mailbox.NewUnbounded[tick](nil, nil)
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		require.NoError(t, mb.Send(ctx, envelope.New[tick](tick{})))
	}
	require.Equal(t, int64(1000), mb.Metrics().Enqueued)

	for i := 0; i < 1000; i++ {
		_, err := mb.Receive(ctx)
		require.NoError(t, err)
	}
	require.Equal(t, int64(0), mb.Metrics().CurrentDepth)
}

func TestUnboundedFIFOOrdering(t *testing.T) {
	type ordered struct{ n int }
	mb := mailbox.NewUnbounded[tick](nil, nil)
	ctx := context.Background()

	envs := make([]*envelope.Envelope[tick], 5)
	for i := range envs {
		envs[i] = envelope.New[tick](tick{})
		require.NoError(t, mb.Send(ctx, envs[i]))
	}
	for i := range envs {
		got, err := mb.Receive(ctx)
		require.NoError(t, err)
		require.Equal(t, envs[i].ID, got.ID)
	}
}

func TestUnboundedTTLExpiration(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	mb := mailbox.NewUnbounded[tick](nil, clock)
	ctx := context.Background()

	expiring := envelope.New[tick](tick{}).WithTTL(5 * time.Millisecond)
	require.NoError(t, mb.Send(ctx, expiring))
	live := envelope.New[tick](tick{})
	require.NoError(t, mb.Send(ctx, live))

	now = now.Add(50 * time.Millisecond)

	got, err := mb.Receive(ctx)
	require.NoError(t, err)
	require.Equal(t, live.ID, got.ID)
	require.Equal(t, int64(1), mb.Metrics().Expired)
}

func TestUnboundedReceiveHonorsContextCancellation(t *testing.T) {
	mb := mailbox.NewUnbounded[tick](nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := mb.Receive(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestUnboundedCloseUnblocksReceive(t *testing.T) {
	mb := mailbox.NewUnbounded[tick](nil, nil)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := mb.Receive(ctx)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	mb.Close()

	select {
	case err := <-done:
		require.ErrorIs(t, err, mailbox.ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("close did not unblock a pending receive")
	}
}
