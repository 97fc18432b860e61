// Package content defines the text-acquisition boundary: resolving a cell
// reference (literal text or a URL) into plain text content.
package content

import (
	"context"
	"errors"
)

// Sentinel errors distinguishing the acquisition failure kinds. Callers use
// errors.Is; the concrete error carries the URL and detail.
var (
	// ErrUnavailable: the reference could not be fetched (network failure,
	// timeout, non-2xx response).
	ErrUnavailable = errors.New("content unavailable")
	// ErrBlocked: the fetch succeeded but returned a bot-protection or error
	// page instead of real content.
	ErrBlocked = errors.New("content blocked")
	// ErrContentTooShort: extracted content is too small to embed
	// meaningfully.
	ErrContentTooShort = errors.New("content too short")
)

// Resolver turns a reference into plain text. A reference may already be
// literal text, in which case it is returned as-is; the caller does not
// distinguish the two cases.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}
