package identity

// StaticVerifier resolves tokens from a fixed map. Used in tests and local
// development where no identity provider is reachable.
type StaticVerifier struct {
	Subjects map[string]string
}

func (v *StaticVerifier) Verify(token string) (string, error) {
	subject, ok := v.Subjects[token]
	if !ok {
		return "", ErrInvalidToken
	}
	return subject, nil
}
