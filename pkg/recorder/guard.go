package recorder

import (
	"sync"

	"github.com/giongto35/movierec/pkg/logger"
	"github.com/giongto35/movierec/pkg/monitoring"
)

// Guard counts recorders running at the same time and warns once
// while more than one of them is active. It never blocks recordings.
// One Guard is shared by all the recorders of a run.
type Guard struct {
	mu     sync.Mutex
	count  int
	warned bool

	metrics *monitoring.Metrics
	log     *logger.Logger
}

// NewGuard creates a guard, the metrics param is optional.
func NewGuard(metrics *monitoring.Metrics, log *logger.Logger) *Guard {
	return &Guard{metrics: metrics, log: log}
}

func (g *Guard) Increment() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.count++
	g.metrics.SetActive(g.count)
}

// Decrement is called when an active recording ends.
// More decrements than increments are logged and the count stays at 0.
func (g *Guard) Decrement() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.count--
	if g.count < 0 {
		g.log.Error().Msgf("Recording ended with no active recorders, the count would be %v", g.count)
		g.count = 0
	}
	if g.count <= 1 {
		g.warned = false
	}
	g.metrics.SetActive(g.count)
}

// CheckAndWarn logs one warning while there are concurrent recorders.
// It returns true when the warning was just logged.
func (g *Guard) CheckAndWarn() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.count <= 1 || g.warned {
		return false
	}
	g.warned = true
	g.log.Warn().Msgf("There are %v movie recorders running at the same time, "+
		"the recordings may drop frames or slow down the capture", g.count)
	return true
}

// Reset clears the state for a new run.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.count, g.warned = 0, false
	g.metrics.SetActive(0)
}

func (g *Guard) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count
}

func (g *Guard) Warned() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.warned
}
