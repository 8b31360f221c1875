package interfaces

import (
	"context"

	"github.com/HannahMarsh/onion-relay/internal/domain/models"
)

// DirectoryClient is how relays and users reach the directory.
type DirectoryClient interface {
	RegisterNode(ctx context.Context, record models.NodeRecord) error
	ListNodes(ctx context.Context) ([]models.NodeRecord, error)
}
