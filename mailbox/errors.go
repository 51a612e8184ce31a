package mailbox

import "errors"

// ErrFull is returned by Send on a Bounded mailbox using the Error
// backpressure strategy when the mailbox is at capacity.
var ErrFull = errors.New("mailbox: full")

// ErrClosed is returned by Send or Receive once the mailbox has been
// closed.
var ErrClosed = errors.New("mailbox: closed")
