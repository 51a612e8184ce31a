package actority

import (
	"context"
	"time"

	"github.com/lguibr/actority/broker"
	"github.com/lguibr/actority/envelope"
	"github.com/lguibr/actority/id"
)

// Context carries the metadata of the envelope currently being handled,
// the actor's own address, and a handle to the broker for sending,
// replying and requesting.
type Context[M envelope.Message] interface {
	// Self returns the address of the actor processing the message.
	Self() id.ActorAddress
	// Broker returns the broker handle this actor's system was built on.
	Broker() broker.Broker[M]
	// Sender returns the sender address stamped on the current envelope,
	// if any.
	Sender() *id.ActorAddress
	// ReplyTo returns the reply-to address stamped on the current
	// envelope, if any.
	ReplyTo() *id.ActorAddress
	// CorrelationID returns the request id stamped on the current
	// envelope, if any.
	CorrelationID() *id.RequestId
	// Lifecycle returns a snapshot of the actor's lifecycle bookkeeping.
	Lifecycle() LifecycleSnapshot

	// Send wraps msg in a fresh envelope (stamped with Self() as sender)
	// and publishes it to recipient.
	Send(msg M, recipient id.ActorAddress) error
	// Reply publishes msg to the current envelope's ReplyTo address,
	// carrying forward its CorrelationID. It returns ErrNoReplyTo if the
	// current envelope has no reply-to address.
	Reply(msg M) error
	// Request is shorthand for Broker().PublishRequest using Self() as
	// sender.
	Request(msg M, recipient id.ActorAddress, timeout time.Duration) (*envelope.Envelope[M], error)
}

// actorContext is the concrete Context implementation handed to
// HandleMessage/PreStart/PostStop/OnError for a single envelope.
type actorContext[M envelope.Message] struct {
	goCtx     context.Context
	self      id.ActorAddress
	b         broker.Broker[M]
	env       *envelope.Envelope[M]
	lifecycle *Lifecycle
}

func newActorContext[M envelope.Message](goCtx context.Context, self id.ActorAddress, b broker.Broker[M], env *envelope.Envelope[M], lc *Lifecycle) *actorContext[M] {
	return &actorContext[M]{goCtx: goCtx, self: self, b: b, env: env, lifecycle: lc}
}

func (c *actorContext[M]) Self() id.ActorAddress    { return c.self }
func (c *actorContext[M]) Broker() broker.Broker[M] { return c.b }

func (c *actorContext[M]) Sender() *id.ActorAddress {
	if c.env == nil {
		return nil
	}
	return c.env.Sender
}

func (c *actorContext[M]) ReplyTo() *id.ActorAddress {
	if c.env == nil {
		return nil
	}
	return c.env.ReplyTo
}

func (c *actorContext[M]) CorrelationID() *id.RequestId {
	if c.env == nil {
		return nil
	}
	return c.env.CorrelationID
}

func (c *actorContext[M]) Lifecycle() LifecycleSnapshot { return c.lifecycle.Snapshot() }

func (c *actorContext[M]) Send(msg M, recipient id.ActorAddress) error {
	env := envelope.New(msg).WithSender(c.self)
	return c.b.Publish(c.goContext(), env, recipient)
}

func (c *actorContext[M]) Reply(msg M) error {
	replyTo := c.ReplyTo()
	if replyTo == nil {
		return ErrNoReplyTo
	}
	env := envelope.New(msg).WithSender(c.self)
	if corr := c.CorrelationID(); corr != nil {
		env = env.WithCorrelationID(*corr)
	}
	return c.b.Publish(c.goContext(), env, *replyTo)
}

func (c *actorContext[M]) Request(msg M, recipient id.ActorAddress, timeout time.Duration) (*envelope.Envelope[M], error) {
	env := envelope.New(msg).WithSender(c.self).WithReplyTo(c.self)
	return c.b.PublishRequest(c.goContext(), env, recipient, timeout)
}

func (c *actorContext[M]) goContext() context.Context {
	if c.goCtx != nil {
		return c.goCtx
	}
	return context.Background()
}
