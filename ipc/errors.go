// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package ipc

import (
	"errors"
	"fmt"
)

// ErrMalformedMsg means that the ancillary buffer was empty when the
// header declared a non-zero payload length (see ErrNoAncillaryFD),
// that the payload ended before a field it declares, or that a field
// declared textual failed UTF-8 validation.
var ErrMalformedMsg = errors.New("ipc: malformed message")

// ErrBadCode means that the control header named an unknown message
// code.
var ErrBadCode = errors.New("ipc: unknown message code")

// ErrNoAncillaryFD means that a payload was expected but no file
// descriptor was received in the ancillary buffer. It wraps
// ErrMalformedMsg.
var ErrNoAncillaryFD = fmt.Errorf("%w: expected ancillary file descriptor", ErrMalformedMsg)

// ErrTruncatedRead means that fewer than 16 bytes were available when
// reading a control header and the peer's side of the connection was
// closed.
var ErrTruncatedRead = errors.New("ipc: truncated control header read")
