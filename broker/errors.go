package broker

import "errors"

// Sentinel errors returned by Broker operations, per the taxonomy in the
// error handling design: ChannelClosed, SubscriptionFailed, NoRecipient,
// Timeout, AlreadyRegistered, SerializationError, Internal.
var (
	ErrChannelClosed     = errors.New("broker: channel closed")
	ErrSubscriptionFailed = errors.New("broker: subscription failed")
	ErrNoRecipient       = errors.New("broker: no recipient")
	ErrTimeout           = errors.New("broker: request timed out")
	ErrAlreadyRegistered = errors.New("broker: request id already registered")
	ErrSerialization     = errors.New("broker: serialization error")
	ErrInternal          = errors.New("broker: internal error")
)
