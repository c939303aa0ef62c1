package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List completion-capable models available to your API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := NewClient(loadConfig())
		if err != nil {
			return err
		}
		var ids []string
		err = withSpinner("Fetching models...", func() error {
			var err error
			ids, err = client.ListModels(cmd.Context())
			return err
		})
		if err != nil {
			return err
		}
		return deliver(strings.Join(ids, "\n"))
	},
}
