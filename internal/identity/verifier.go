package identity

import "errors"

// ErrInvalidToken is returned for any bearer token that cannot be verified.
// Callers must not learn why verification failed.
var ErrInvalidToken = errors.New("invalid bearer token")

// Verifier maps a bearer token to a stable external subject id. The service
// never issues credentials itself; it only resolves subjects to local users.
type Verifier interface {
	Verify(token string) (subject string, err error)
}
