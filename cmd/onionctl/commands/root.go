package commands

import (
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/HannahMarsh/onion-relay/config"
	"github.com/HannahMarsh/onion-relay/pkg/infrastructure/logger"
)

var (
	configPath string
	logLevel   string

	cfg    *config.Config
	client *http.Client
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "onionctl",
		Short:        "Inspect and drive a running onion relay network",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			client = &http.Client{Timeout: cfg.ForwardTimeout}
			if logLevel == "" {
				logLevel = "warn"
			}
			logger.SetUp(cmd.ErrOrStderr(), logLevel, &logrus.TextFormatter{})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yml (default config/config.yml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (default warn)")

	root.AddCommand(sendCmd(), nodesCmd(), inspectCmd(), prometheusCmd())
	return root
}

// printYAML writes v to out in YAML form.
func printYAML(out io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, string(data))
	return err
}

func userURL(id int) string {
	return fmt.Sprintf("http://%s:%d", cfg.Host, cfg.UserPort(id))
}

func relayURL(id int) string {
	return fmt.Sprintf("http://%s:%d", cfg.Host, cfg.RelayPort(id))
}
