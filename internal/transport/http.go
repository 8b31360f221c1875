package transport

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/HannahMarsh/onion-relay/config"
	"github.com/HannahMarsh/onion-relay/internal/api/api_functions"
	"github.com/HannahMarsh/onion-relay/internal/api/structs"
	"github.com/HannahMarsh/onion-relay/internal/domain/interfaces"
	"github.com/HannahMarsh/onion-relay/internal/domain/models"
)

// HTTPForwarder posts messages to the /message endpoint of whatever listens on the destination port.
type HTTPForwarder struct {
	cfg    *config.Config
	client *http.Client
}

func NewHTTPForwarder(cfg *config.Config) *HTTPForwarder {
	return &HTTPForwarder{cfg: cfg, client: &http.Client{Timeout: cfg.ForwardTimeout}}
}

func (f *HTTPForwarder) Forward(ctx context.Context, to models.Address, message string) error {
	base, err := f.cfg.URLFor(to)
	if err != nil {
		return err
	}
	if err := api_functions.PostJSON(ctx, f.client, base+"/message", structs.MessageApi{Message: message}, nil); err != nil {
		return errors.Wrapf(err, "failed to forward to %s", to)
	}
	return nil
}

// HTTPDirectoryClient talks to a directory over HTTP.
type HTTPDirectoryClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPDirectoryClient(cfg *config.Config) *HTTPDirectoryClient {
	return &HTTPDirectoryClient{baseURL: cfg.DirectoryURL(), client: &http.Client{Timeout: cfg.ForwardTimeout}}
}

func (c *HTTPDirectoryClient) RegisterNode(ctx context.Context, record models.NodeRecord) error {
	body := structs.RegisterNodeApi{NodeID: record.ID, PubKey: record.PublicKey}
	if err := api_functions.PostJSON(ctx, c.client, c.baseURL+"/registerNode", body, nil); err != nil {
		return errors.Wrapf(err, "failed to register node %d", record.ID)
	}
	return nil
}

func (c *HTTPDirectoryClient) ListNodes(ctx context.Context) ([]models.NodeRecord, error) {
	var registry structs.NodeRegistryApi
	if err := api_functions.GetJSON(ctx, c.client, c.baseURL+"/getNodeRegistry", &registry); err != nil {
		return nil, errors.Wrap(err, "failed to fetch node registry")
	}
	return registry.Nodes, nil
}

var (
	_ interfaces.Forwarder       = (*HTTPForwarder)(nil)
	_ interfaces.DirectoryClient = (*HTTPDirectoryClient)(nil)
)
