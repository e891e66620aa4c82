package commands

import (
	"github.com/spf13/cobra"

	"github.com/provizor/provizor/cmd/provizor/handlers"
)

// Preflight returns the command that probes an account without provisioning.
func Preflight() *cobra.Command {
	var contractPath string
	var secretPath string

	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Probe the cloud account for blockers",
		Long: `Probe the cloud account for quota and permission blockers.

The probe runs the same checks the create session runs, prints each
failure, and exits non-zero when a blocker is found. Nothing is
provisioned.

Examples:
  provizor preflight -c contract.yaml -s secret.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Preflight(cmd.Context(), contractPath, secretPath)
		},
	}

	cmd.Flags().StringVarP(&contractPath, "contract", "c", "", "Path to contract YAML file")
	cmd.Flags().StringVarP(&secretPath, "secret", "s", "", "Path to raw credential file")
	_ = cmd.MarkFlagRequired("contract")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}
