package commands

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/HannahMarsh/onion-relay/internal/api/api_functions"
	"github.com/HannahMarsh/onion-relay/internal/api/structs"
)

// inspect relay|user <id>: dump the introspection endpoints of one component.
func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show what a relay or user last saw",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "relay <id>",
		Short: "Show the last envelope a relay peeled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			view, err := inspectRelay(cmd.Context(), relayURL(id))
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), view)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "user <id>",
		Short: "Show the last messages a user sent and received",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			view, err := inspectUser(cmd.Context(), userURL(id))
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), view)
		},
	})
	return cmd
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid id %q", s)
	}
	return id, nil
}

type relayView struct {
	Encrypted   *string               `yaml:"lastReceivedEncryptedMessage"`
	Decrypted   *string               `yaml:"lastReceivedDecryptedMessage"`
	Destination *int                  `yaml:"lastMessageDestination"`
	Hop         *structs.HopResultApi `yaml:"lastHopResult"`
}

func inspectRelay(ctx context.Context, base string) (relayView, error) {
	var view relayView
	var err error
	if view.Encrypted, err = api_functions.GetResult[string](ctx, client, base+"/getLastReceivedEncryptedMessage"); err != nil {
		return view, err
	}
	if view.Decrypted, err = api_functions.GetResult[string](ctx, client, base+"/getLastReceivedDecryptedMessage"); err != nil {
		return view, err
	}
	if view.Destination, err = api_functions.GetResult[int](ctx, client, base+"/getLastMessageDestination"); err != nil {
		return view, err
	}
	if view.Hop, err = api_functions.GetResult[structs.HopResultApi](ctx, client, base+"/getLastHopResult"); err != nil {
		return view, err
	}
	return view, nil
}

type userView struct {
	Received *string `yaml:"lastReceivedMessage"`
	Sent     *string `yaml:"lastSentMessage"`
	Circuit  []int   `yaml:"lastCircuit,flow"`
}

func inspectUser(ctx context.Context, base string) (userView, error) {
	var view userView
	var err error
	if view.Received, err = api_functions.GetResult[string](ctx, client, base+"/getLastReceivedMessage"); err != nil {
		return view, err
	}
	if view.Sent, err = api_functions.GetResult[string](ctx, client, base+"/getLastSentMessage"); err != nil {
		return view, err
	}
	circuit, err := api_functions.GetResult[[]int](ctx, client, base+"/getLastCircuit")
	if err != nil {
		return view, err
	}
	if circuit != nil {
		view.Circuit = *circuit
	}
	return view, nil
}
