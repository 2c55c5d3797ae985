package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rushteam/reckit-movies/bootstrap"
)

func newPushCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Push local catalog and model files to the store",
		Long: `Read the catalog snapshot and both model artifacts from the local paths in
the config and write them to the configured store under their keys, then
publish the popular list. Instances using the redis backend load from there.

Examples:
  MOVIEREC_STORE_BACKEND=redis movierec push`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kv, err := a.openStore()
			if err != nil {
				return err
			}
			defer kv.Close()
			if err := bootstrap.Push(cmd.Context(), a.cfg, kv); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pushed catalog and models to %s\n", kv.Name())
			return nil
		},
	}
}
