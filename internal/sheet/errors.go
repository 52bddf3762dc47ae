package sheet

import "errors"

// The read path distinguishes four failure kinds so the connection-test UI
// can show an actionable message. Callers match with errors.Is.

// ErrTransport is a network or HTTP-level failure reaching the endpoint.
var ErrTransport = errors.New("network error")

// ErrAccess means the endpoint answered with an HTML page instead of JSON,
// which is what a misconfigured deployment (access not public) looks like.
var ErrAccess = errors.New("access not public")

// ErrRemote is a structured application-level failure reported by the
// remote script itself.
var ErrRemote = errors.New("remote script error")

// ErrParse means the response was neither valid JSON nor a recognizable
// error page.
var ErrParse = errors.New("invalid response")
