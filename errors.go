// CLAUDE:SUMMARY Sentinel errors for embauche service: fetch failure, unknown posting, bad thread ID.
package embauche

import "errors"

// ErrFetch is returned when the thread page cannot be retrieved upstream.
// Callers that prefer graceful degradation can match it and fall back to
// an empty result set.
var ErrFetch = errors.New("embauche: thread fetch failed")

// ErrPostingNotFound is returned when no posting has the requested ID.
var ErrPostingNotFound = errors.New("embauche: posting not found")

// ErrInvalidThreadID is returned when a thread ID fails validation.
var ErrInvalidThreadID = errors.New("embauche: invalid thread ID")
