package dns

import (
	"context"
	"sync"
)

// Memory keeps DNS servers in process memory, keyed by link index.
type Memory struct {
	mu      sync.Mutex
	servers map[int][]string
}

// NewMemory creates an empty in-memory resolver.
func NewMemory() *Memory {
	return &Memory{servers: make(map[int][]string)}
}

func (m *Memory) Name() string { return BackendMemory }

func (m *Memory) Nameservers(_ context.Context, link Link) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.servers[link.Index]...), nil
}

func (m *Memory) SetNameservers(_ context.Context, link Link, servers []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(servers) == 0 {
		delete(m.servers, link.Index)
		return nil
	}
	m.servers[link.Index] = append([]string{}, servers...)
	return nil
}

// Seed sets servers without going through SetNameservers.
func (m *Memory) Seed(index int, servers ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.servers[index] = append([]string{}, servers...)
}
