package commands

import (
	"github.com/spf13/cobra"

	"github.com/provizor/provizor/cmd/provizor/handlers"
)

// Escalate returns the command that submits a quota increase directly.
func Escalate() *cobra.Command {
	var credentialID string
	var region string

	cmd := &cobra.Command{
		Use:   "escalate DIMENSION...",
		Short: "Request a quota increase",
		Long: `Request a quota increase for one or more dimensions.

Dimensions are the provider quota pools preflight checks against:
EIP, VPC, NAT_GATEWAY, VCPU. The provider processes the request
asynchronously; acceptance does not mean the quota is raised yet.

Examples:
  provizor escalate VPC --credential cred-42 --region us-east-1
  provizor escalate EIP VCPU --credential cred-42 --region eu-west-1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Escalate(cmd.Context(), credentialID, region, args)
		},
	}

	cmd.Flags().StringVar(&credentialID, "credential", "", "Resolved credential ID")
	cmd.Flags().StringVar(&region, "region", "", "Provider region")
	_ = cmd.MarkFlagRequired("credential")
	_ = cmd.MarkFlagRequired("region")

	return cmd
}
