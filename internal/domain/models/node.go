package models

import "github.com/HannahMarsh/onion-relay/pkg/utils"

// CircuitLength is the number of relays every circuit passes through.
const CircuitLength = 3

// NodeRecord is a relay as the directory knows it.
type NodeRecord struct {
	ID        int    `json:"nodeId"`
	PublicKey string `json:"pubKey"`
}

// Circuit is the ordered path of relays a message traverses, entry node first.
type Circuit []NodeRecord

// IDs returns the node ids of the circuit in path order.
func (c Circuit) IDs() []int {
	return utils.Map(c, func(n NodeRecord) int {
		return n.ID
	})
}

// Reversed returns a copy of the circuit in the opposite order.
func (c Circuit) Reversed() Circuit {
	out := utils.Copy(c)
	utils.Reverse(out)
	return out
}
