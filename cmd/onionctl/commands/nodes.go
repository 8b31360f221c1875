package commands

import (
	"github.com/spf13/cobra"

	"github.com/HannahMarsh/onion-relay/internal/domain/models"
	"github.com/HannahMarsh/onion-relay/internal/transport"
	"github.com/HannahMarsh/onion-relay/pkg/utils"
)

// nodes: list what the directory holds.
func nodesCmd() *cobra.Command {
	var (
		showKeys bool
		onlyID   int
	)
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List the relays registered with the directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := transport.NewHTTPDirectoryClient(cfg).ListNodes(cmd.Context())
			if err != nil {
				return err
			}
			if onlyID != 0 {
				nodes = utils.Filter(nodes, func(n models.NodeRecord) bool {
					return n.ID == onlyID
				})
			}
			type row struct {
				ID        int    `yaml:"id"`
				Address   string `yaml:"address"`
				PublicKey string `yaml:"publicKey,omitempty"`
			}
			rows := make([]row, 0, len(nodes))
			for _, n := range nodes {
				r := row{ID: n.ID, Address: relayURL(n.ID)}
				if showKeys {
					r.PublicKey = n.PublicKey
				}
				rows = append(rows, r)
			}
			return printYAML(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().BoolVar(&showKeys, "keys", false, "include public keys")
	cmd.Flags().IntVar(&onlyID, "id", 0, "only show registrations of this relay id")
	return cmd
}
