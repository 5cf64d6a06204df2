package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVaultCmd(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Inspect or reset the encrypted token vault",
	}

	var yes bool
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Forget the vault passphrase; encrypted tokens become unreadable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}
			if err := s.app.vaultSvc.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Vault reset. Log in again to store tokens.")
			return nil
		},
	}
	reset.Flags().BoolVar(&yes, "yes", false, "confirm the reset")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show whether the vault is initialized and unlocked",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ok, err := s.app.vaultSvc.Initialized(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Initialized: %t\n", ok)
				fmt.Fprintf(out, "Unlocked: %t\n", !s.app.vault.Locked())
				return nil
			},
		},
		reset,
	)
	return cmd
}
