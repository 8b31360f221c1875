package structs

import "github.com/HannahMarsh/onion-relay/internal/domain/models"

// RegisterNodeApi is the body of POST /registerNode.
type RegisterNodeApi struct {
	NodeID int    `json:"nodeId"`
	PubKey string `json:"pubKey"`
}

func (r RegisterNodeApi) Record() models.NodeRecord {
	return models.NodeRecord{ID: r.NodeID, PublicKey: r.PubKey}
}

// NodeRegistryApi is the body of GET /getNodeRegistry.
type NodeRegistryApi struct {
	Nodes []models.NodeRecord `json:"nodes"`
}
