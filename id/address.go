package id

import "fmt"

// ActorAddress is a tagged union: an actor is addressed either by a
// unique, case-sensitive name or by its anonymous ActorId. Go has no
// tagged unions, so the discriminant is encoded as a private bool plus
// the two possible payloads, matching the encoding the rest of this
// package uses for its own wrapped-uuid types.
type ActorAddress struct {
	named bool
	name  string
	anon  ActorId
}

// Named constructs an address referring to a registered name. name must
// be non-empty; callers that need to validate this at a system boundary
// should do so before constructing the address (System.Spawn does).
func Named(name string) ActorAddress {
	return ActorAddress{named: true, name: name}
}

// Anonymous constructs an address referring to a specific actor instance
// by id, independent of any registered name.
func Anonymous(actorID ActorId) ActorAddress {
	return ActorAddress{anon: actorID}
}

// IsNamed reports whether this address is a Named address.
func (a ActorAddress) IsNamed() bool { return a.named }

// Name returns the registered name and true if this is a Named address.
func (a ActorAddress) Name() (string, bool) { return a.name, a.named }

// ActorID returns the underlying ActorId and true if this is an
// Anonymous address.
func (a ActorAddress) ActorID() (ActorId, bool) { return a.anon, !a.named }

// Equal reports address equality: Named addresses compare by name
// (case-sensitive), Anonymous addresses compare by id.
func (a ActorAddress) Equal(o ActorAddress) bool {
	if a.named != o.named {
		return false
	}
	if a.named {
		return a.name == o.name
	}
	return a.anon.v == o.anon.v
}

// Key returns a string suitable for use as a map key, such that two
// addresses produce the same key iff Equal reports true for them.
func (a ActorAddress) Key() string {
	if a.named {
		return "name:" + a.name
	}
	return "anon:" + a.anon.String()
}

// String returns a human-readable representation for logging.
func (a ActorAddress) String() string {
	if a.named {
		return fmt.Sprintf("Named(%s)", a.name)
	}
	return fmt.Sprintf("Anonymous(%s)", a.anon.String())
}
