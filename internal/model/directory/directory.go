package directory

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/HannahMarsh/onion-relay/internal/domain/interfaces"
	"github.com/HannahMarsh/onion-relay/internal/domain/models"
	"github.com/HannahMarsh/onion-relay/internal/metrics"
	"github.com/HannahMarsh/onion-relay/internal/repositories"
)

// Directory keeps track of which relays exist and the public key each one registered.
type Directory struct {
	store interfaces.NodeRepository
}

// New creates a directory backed by store, or by an in-memory repository when store is nil.
func New(store interfaces.NodeRepository) *Directory {
	if store == nil {
		store = repositories.NewNodeRepository()
	}
	return &Directory{store: store}
}

// RegisterNode records a relay. A zero id or an empty key is rejected without touching the store.
func (d *Directory) RegisterNode(id int, publicKey string) error {
	if id == 0 {
		return errors.Wrap(models.ErrValidation, "nodeId is required")
	}
	if publicKey == "" {
		return errors.Wrapf(models.ErrValidation, "pubKey is required for node %d", id)
	}
	if err := d.store.Append(models.NodeRecord{ID: id, PublicKey: publicKey}); err != nil {
		return errors.Wrapf(err, "failed to store node %d", id)
	}
	slog.Info("Registered node", "id", id)
	metrics.Inc(metrics.NODES_REGISTERED)
	return nil
}

// ListNodes returns every registration in the order it was received.
func (d *Directory) ListNodes() ([]models.NodeRecord, error) {
	nodes, err := d.store.List()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list nodes")
	}
	return nodes, nil
}

// LocalClient lets in-process relays and users use d without going over HTTP.
type LocalClient struct {
	Directory *Directory
}

func (c LocalClient) RegisterNode(_ context.Context, record models.NodeRecord) error {
	return c.Directory.RegisterNode(record.ID, record.PublicKey)
}

func (c LocalClient) ListNodes(_ context.Context) ([]models.NodeRecord, error) {
	return c.Directory.ListNodes()
}

var _ interfaces.DirectoryClient = LocalClient{}
