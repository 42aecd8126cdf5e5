package types

import "errors"

// Resolution and commit errors. Callers match with errors.Is; the webhook
// layer converts each into a user-facing reply and never lets one escape
// as a transport fault.
var (
	// ErrConfig marks a missing destination binding. This is a deployment
	// defect, not a user-input mistake.
	ErrConfig = errors.New("destination not configured")

	// ErrNotFound covers a named destination that no search result matches
	// and a preview token that is absent, expired, or already consumed.
	ErrNotFound = errors.New("not found")

	// ErrAuth marks a rejected credential on the database service.
	ErrAuth = errors.New("authorization rejected")

	// ErrUpstream covers transport and protocol failures against the
	// database service.
	ErrUpstream = errors.New("upstream request failed")

	// ErrUsage marks a well-formed command with unusable arguments, such
	// as "schema:" with no name.
	ErrUsage = errors.New("usage error")
)
