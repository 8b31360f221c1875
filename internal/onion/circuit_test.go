package onion

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HannahMarsh/onion-relay/internal/domain/models"
)

func directoryOf(ids ...int) []models.NodeRecord {
	nodes := make([]models.NodeRecord, len(ids))
	for i, id := range ids {
		nodes[i] = models.NodeRecord{ID: id, PublicKey: fmt.Sprintf("pk%d", id)}
	}
	return nodes
}

func TestBuildCircuitDistinct(t *testing.T) {
	nodes := directoryOf(1, 2, 3, 4, 5, 6, 7, 8)
	for seed := int64(0); seed < 500; seed++ {
		c, err := BuildCircuit(nodes, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		require.Len(t, c, models.CircuitLength)
		ids := c.IDs()
		require.NotEqual(t, ids[0], ids[1])
		require.NotEqual(t, ids[0], ids[2])
		require.NotEqual(t, ids[1], ids[2])
		for _, n := range c {
			require.Equal(t, fmt.Sprintf("pk%d", n.ID), n.PublicKey, "record kept intact")
		}
	}
}

func TestBuildCircuitVaries(t *testing.T) {
	nodes := directoryOf(1, 2, 3, 4, 5)
	s := NewSelector(42)

	circuits := map[string]int{}
	members := map[int]int{}
	for i := 0; i < 300; i++ {
		c, err := s.BuildCircuit(nodes)
		require.NoError(t, err)
		circuits[fmt.Sprint(c.IDs())]++
		for _, id := range c.IDs() {
			members[id]++
		}
	}
	// 5*4*3 ordered circuits exist; a uniform sampler visits most of them in 300 draws
	require.Greater(t, len(circuits), 30)
	for id := 1; id <= 5; id++ {
		require.Greater(t, members[id], 100, "node %d under-selected", id)
	}

	// with exactly three nodes the members are fixed but the order still varies
	orders := map[string]bool{}
	for i := 0; i < 100; i++ {
		c, err := s.BuildCircuit(directoryOf(1, 2, 3))
		require.NoError(t, err)
		orders[fmt.Sprint(c.IDs())] = true
	}
	require.Greater(t, len(orders), 1)
}

func TestBuildCircuitSeeded(t *testing.T) {
	nodes := directoryOf(1, 2, 3, 4, 5, 6)
	a, err := NewSelector(7).BuildCircuit(nodes)
	require.NoError(t, err)
	b, err := NewSelector(7).BuildCircuit(nodes)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestBuildCircuitInsufficientNodes(t *testing.T) {
	s := NewSelector(1)
	for _, nodes := range [][]models.NodeRecord{nil, directoryOf(1), directoryOf(1, 2), directoryOf(1, 2, 2, 1)} {
		_, err := s.BuildCircuit(nodes)
		require.ErrorIs(t, err, models.ErrInsufficientNodes, "nodes %v", nodes)
	}
}

func TestBuildCircuitDuplicateRegistrations(t *testing.T) {
	// a relay registered twice appears twice in the directory but at most once in a circuit
	nodes := directoryOf(1, 1, 1, 2, 3)
	for seed := int64(0); seed < 100; seed++ {
		c, err := BuildCircuit(nodes, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		require.ElementsMatch(t, []int{1, 2, 3}, c.IDs())
	}
}
