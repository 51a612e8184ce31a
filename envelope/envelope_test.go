package envelope_test

import (
	"testing"
	"time"

	"github.com/lguibr/actority/envelope"
	"github.com/lguibr/actority/id"
	"github.com/stretchr/testify/require"
)

type testPayload struct{ Text string }

func (testPayload) MessageType() string { return "envelope_test.testPayload" }

func TestNewStampsIDAndDefaults(t *testing.T) {
	before := time.Now()
	env := envelope.New(testPayload{Text: "hi"})
	after := time.Now()

	require.False(t, env.ID.IsZero())
	require.Equal(t, "hi", env.Payload.Text)
	require.Equal(t, envelope.Normal, env.Priority)
	require.False(t, env.CreatedAt.Before(before))
	require.False(t, env.CreatedAt.After(after))
	require.Nil(t, env.Sender)
	require.Nil(t, env.ReplyTo)
	require.Nil(t, env.CorrelationID)
	require.Nil(t, env.TTL)
}

func TestBuilderOptionsAreIndependentAndChainable(t *testing.T) {
	sender := id.Named("sender")
	replyTo := id.Named("reply-to")
	rid := id.NewRequestId()
	ttl := 50 * time.Millisecond

	env := envelope.New(testPayload{Text: "x"}).
		WithSender(sender).
		WithReplyTo(replyTo).
		WithCorrelationID(rid).
		WithTTL(ttl).
		WithPriority(envelope.Urgent)

	require.NotNil(t, env.Sender)
	require.True(t, env.Sender.Equal(sender))
	require.NotNil(t, env.ReplyTo)
	require.True(t, env.ReplyTo.Equal(replyTo))
	require.NotNil(t, env.CorrelationID)
	require.True(t, env.CorrelationID.Equal(rid))
	require.NotNil(t, env.TTL)
	require.Equal(t, ttl, *env.TTL)
	require.Equal(t, envelope.Urgent, env.Priority)
}

func TestBuilderDoesNotObservePayload(t *testing.T) {
	env := envelope.New(testPayload{Text: "untouched"}).WithPriority(envelope.High)
	require.Equal(t, "untouched", env.Payload.Text)
}

func TestExpiredWithNoTTLNeverExpires(t *testing.T) {
	env := envelope.New(testPayload{})
	require.False(t, env.Expired(env.CreatedAt.Add(24*time.Hour)))
}

func TestExpiredUsesCallerSuppliedClock(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	env := &envelope.Envelope[testPayload]{
		Payload:   testPayload{},
		CreatedAt: created,
	}
	ttl := 10 * time.Millisecond
	env.TTL = &ttl

	require.False(t, env.Expired(created))
	require.False(t, env.Expired(created.Add(9*time.Millisecond)))
	require.True(t, env.Expired(created.Add(10*time.Millisecond)))
	require.True(t, env.Expired(created.Add(time.Second)))
}

func TestPriorityString(t *testing.T) {
	cases := map[envelope.Priority]string{
		envelope.Low:           "Low",
		envelope.Normal:        "Normal",
		envelope.High:          "High",
		envelope.Urgent:        "Urgent",
		envelope.Priority(99):  "Unknown",
	}
	for p, want := range cases {
		require.Equal(t, want, p.String())
	}
}
