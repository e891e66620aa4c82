package commands

import (
	"github.com/spf13/cobra"

	"github.com/provizor/provizor/cmd/provizor/handlers"
)

// Provision returns the command that submits a contract directly.
func Provision() *cobra.Command {
	var contractPath string
	var credentialID string

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Submit a contract without the guided session",
		Long: `Submit a contract against an already-resolved credential.

This skips credential resolution and preflight, so it suits re-submitting
an edited contract for an existing cluster. The command polls until the
cluster record appears.

Examples:
  provizor provision -c contract.yaml --credential cred-42`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), contractPath, credentialID)
		},
	}

	cmd.Flags().StringVarP(&contractPath, "contract", "c", "", "Path to contract YAML file")
	cmd.Flags().StringVar(&credentialID, "credential", "", "Resolved credential ID")
	_ = cmd.MarkFlagRequired("contract")

	return cmd
}
