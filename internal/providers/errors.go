package providers

import "fmt"

// AuthError indicates the credential is missing or was rejected.
// It always propagates to the request layer; a bad key is systemic,
// not document-specific.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("inference auth error: %s", e.Message)
}

// ServiceUnavailableError indicates the service is reachable in principle
// but cannot serve the request right now (rate limited, 5xx, network down).
type ServiceUnavailableError struct {
	StatusCode int
	Message    string
}

func (e *ServiceUnavailableError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("inference service unavailable (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("inference service unavailable: %s", e.Message)
}

// TransportError covers remaining request failures (bad request shape,
// unexpected status, response read failures).
type TransportError struct {
	StatusCode int
	Message    string
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("inference transport error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("inference transport error: %s", e.Message)
}
