package rest

import "sync"

// TokenStore holds the bearer token of the signed-in user. How it is obtained and
// persisted is up to the caller.
type TokenStore interface {
	Token() (string, bool)
	Clear()
}

type MemoryTokens struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryTokens(token string) *MemoryTokens {
	//nolint:exhaustruct
	return &MemoryTokens{token: token}
}

func (m *MemoryTokens) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.token, m.token != ""
}

func (m *MemoryTokens) Set(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
}

func (m *MemoryTokens) Clear() {
	m.Set("")
}
