package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resetCmd = &cobra.Command{
	Use:   "reset [module-id]",
	Short: "Delete saved progress and answers",
	Long:  "Delete saved progress and answers for one module, or for every module when no id is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := open(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer rt.Close()

		var moduleID string
		if len(args) == 1 {
			moduleID = args[0]
		}
		if err := rt.store.ResetProgress(cmd.Context(), moduleID); err != nil {
			return err
		}
		rt.log.Info("progress reset", zap.String("module_id", moduleID))

		if moduleID == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Progress reset for all modules.")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Progress reset for %s.\n", moduleID)
		}
		return nil
	},
}
