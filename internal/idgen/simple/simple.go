package simple

import (
	"strconv"
	"sync"
)

// Generator hands out sequential numeric ids the way the remote backend does for
// its own records.
type Generator struct {
	mu      sync.Mutex
	counter int
}

func New() *Generator {
	//nolint:exhaustruct
	return &Generator{}
}

// StartingAfter makes the next id n+1, so seeded records keep their ids.
func (g *Generator) StartingAfter(n int) *Generator {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.counter = n

	return g
}

func (g *Generator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.counter++

	return strconv.Itoa(g.counter)
}
