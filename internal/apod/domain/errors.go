package domain

import "fmt"

// UpstreamError reports a failed call to the APOD upstream. StatusCode
// is the upstream HTTP status when one was received, 0 for network and
// decode failures. The handler layer decodes it once into a gateway
// response: upstream 400 becomes a gateway 400, everything else a 502.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("apod upstream: %s", e.Message)
	}
	return fmt.Sprintf("apod upstream: status %d: %s", e.StatusCode, e.Message)
}
