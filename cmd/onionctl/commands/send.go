package commands

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/HannahMarsh/onion-relay/internal/api/api_functions"
	"github.com/HannahMarsh/onion-relay/internal/api/structs"
)

// send <to> <message>: ask user --from to route a message to user <to>.
func sendCmd() *cobra.Command {
	var from int
	cmd := &cobra.Command{
		Use:   "send <to> <message>",
		Short: "Send a message from one user to another over a fresh circuit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.Wrapf(err, "invalid destination user %q", args[0])
			}
			var result structs.SendResultApi
			body := structs.SendMessageApi{Message: args[1], DestinationUserID: to}
			if err := api_functions.PostJSON(cmd.Context(), client, userURL(from)+"/sendMessage", body, &result); err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().IntVar(&from, "from", 0, "id of the sending user")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}
