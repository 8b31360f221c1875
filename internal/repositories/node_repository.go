package repositories

import (
	"sync"

	"github.com/emirpasic/gods/lists/arraylist"

	"github.com/HannahMarsh/onion-relay/internal/domain/interfaces"
	"github.com/HannahMarsh/onion-relay/internal/domain/models"
)

// NodeRepositoryImpl keeps node records in memory, in registration order.
type NodeRepositoryImpl struct {
	mu    sync.RWMutex
	nodes *arraylist.List
}

// NewNodeRepository creates a new instance of NodeRepositoryImpl
func NewNodeRepository() *NodeRepositoryImpl {
	return &NodeRepositoryImpl{
		nodes: arraylist.New(),
	}
}

// Append stores record. Records with an id that is already present are kept as separate entries.
func (repo *NodeRepositoryImpl) Append(record models.NodeRecord) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.nodes.Add(record)
	return nil
}

// List returns a copy of every record.
func (repo *NodeRepositoryImpl) List() ([]models.NodeRecord, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	nodes := make([]models.NodeRecord, 0, repo.nodes.Size())
	repo.nodes.Each(func(_ int, value interface{}) {
		nodes = append(nodes, value.(models.NodeRecord))
	})
	return nodes, nil
}

func (repo *NodeRepositoryImpl) Len() int {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.nodes.Size()
}

var _ interfaces.NodeRepository = (*NodeRepositoryImpl)(nil)
