package stamped

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const randomLen = 9

// Generator produces ids of the form "<prefix>_<unix millis>_<random>". The
// timestamp never goes backwards within a process, and the random part comes from a
// v4 UUID.
type Generator struct {
	mu     sync.Mutex
	prefix string
	now    func() time.Time
	last   int64
}

func New(prefix string) *Generator {
	//nolint:exhaustruct
	return &Generator{
		prefix: prefix,
		now:    time.Now,
	}
}

func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now

	return g
}

func (g *Generator) NewID() string {
	g.mu.Lock()

	stamp := g.now().UnixMilli()
	if stamp < g.last {
		stamp = g.last
	}

	g.last = stamp
	g.mu.Unlock()

	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:randomLen]

	return fmt.Sprintf("%s_%d_%s", g.prefix, stamp, random)
}
