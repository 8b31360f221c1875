package onion

import (
	"math/rand"
	"sync"
	"time"

	"github.com/emirpasic/gods/sets/hashset"
	"github.com/pkg/errors"

	"github.com/HannahMarsh/onion-relay/internal/domain/models"
)

// Selector picks circuits. It is safe for concurrent use.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector returns a Selector whose choices are fully determined by seed.
func NewSelector(seed int64) *Selector {
	return &Selector{rng: rand.New(rand.NewSource(seed))}
}

// NewRandomSelector returns a Selector seeded from the clock.
func NewRandomSelector() *Selector {
	return NewSelector(time.Now().UnixNano())
}

func (s *Selector) BuildCircuit(nodes []models.NodeRecord) (models.Circuit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildCircuit(nodes, s.rng)
}

// BuildCircuit samples directory records uniformly without replacement, skipping records whose id
// is already in the circuit, until CircuitLength distinct relays are chosen. The result is in
// sampling order.
func BuildCircuit(nodes []models.NodeRecord, rng *rand.Rand) (models.Circuit, error) {
	distinct := hashset.New()
	for _, n := range nodes {
		distinct.Add(n.ID)
	}
	if distinct.Size() < models.CircuitLength {
		return nil, errors.Wrapf(models.ErrInsufficientNodes, "directory lists %d distinct relays, need %d", distinct.Size(), models.CircuitLength)
	}

	chosen := hashset.New()
	circuit := make(models.Circuit, 0, models.CircuitLength)
	for _, i := range rng.Perm(len(nodes)) {
		if chosen.Contains(nodes[i].ID) {
			continue
		}
		chosen.Add(nodes[i].ID)
		circuit = append(circuit, nodes[i])
		if len(circuit) == models.CircuitLength {
			break
		}
	}
	return circuit, nil
}
