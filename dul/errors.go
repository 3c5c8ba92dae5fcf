package dul

import "errors"

// ErrReleased is returned by ReadMessage once the peer's A-RELEASE-RQ has
// been answered with A-RELEASE-RP — the normal end of an association's
// message stream, not a failure.
var ErrReleased = errors.New("dul: association released")
