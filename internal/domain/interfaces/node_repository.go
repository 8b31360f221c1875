package interfaces

import "github.com/HannahMarsh/onion-relay/internal/domain/models"

// NodeRepository is the directory's backing store. It is append-only: records are never updated or removed.
type NodeRepository interface {
	Append(record models.NodeRecord) error
	List() ([]models.NodeRecord, error)
}
