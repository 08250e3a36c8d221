package speaker

import "errors"

// ErrPushUnsupported is returned by SubscribeUpdates when the device or the
// local network does not allow event subscriptions.
var ErrPushUnsupported = errors.New("push updates unsupported")

// ErrUnreachable wraps transport-level failures (timeouts, refused
// connections). Use errors.Is to test for it.
var ErrUnreachable = errors.New("device unreachable")

// ErrDesync is returned when a device reports a state that contradicts the
// group it was queried for, e.g. the coordinator now follows another group.
// It is fatal to a mirror attachment.
var ErrDesync = errors.New("device out of sync with group")
