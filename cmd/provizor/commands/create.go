package commands

import (
	"github.com/spf13/cobra"

	"github.com/provizor/provizor/cmd/provizor/handlers"
)

// Create returns the command that walks a full provisioning session.
//
// Without flags it runs an interactive wizard and a live dashboard. With
// --contract and --secret it runs non-interactively from files.
//
// Optional flags:
//
//	--contract, -c: Path to a contract YAML file
//	--secret, -s: Path to a raw credential file
//	--auto-escalate: Submit a quota increase for quota blockers and continue
//	--no-tui: Plain log output even on a terminal
//
// Environment variables:
//
//	PROVIZOR_API_URL: Control-plane endpoint (required)
//	PROVIZOR_API_TOKEN: Control-plane API token (required)
//	PROVIZOR_PROJECT: Owning project ID (required)
func Create() *cobra.Command {
	var opts handlers.CreateOptions

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Provision a new cluster",
		Long: `Provision a new managed Kubernetes cluster.

The session resolves your cloud credential, probes the account for quota
and permission blockers, and submits the contract once the account is
clear. Quota blockers can be escalated with --auto-escalate.

Examples:
  # Interactive wizard with live dashboard
  provizor create

  # Non-interactive from files
  provizor create -c contract.yaml -s secret.json

  # Escalate quota blockers instead of stopping
  provizor create -c contract.yaml -s secret.json --auto-escalate`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Create(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ContractPath, "contract", "c", "", "Path to contract YAML file")
	cmd.Flags().StringVarP(&opts.SecretPath, "secret", "s", "", "Path to raw credential file")
	cmd.Flags().BoolVar(&opts.AutoEscalate, "auto-escalate", false, "Escalate quota blockers and continue")
	cmd.Flags().BoolVar(&opts.NoTUI, "no-tui", false, "Disable the dashboard and log plainly")

	return cmd
}
