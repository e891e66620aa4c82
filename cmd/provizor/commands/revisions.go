package commands

import (
	"github.com/spf13/cobra"

	"github.com/provizor/provizor/cmd/provizor/handlers"
)

// Revisions returns the command that lists stored contract revisions.
func Revisions() *cobra.Command {
	var export bool

	cmd := &cobra.Command{
		Use:   "revisions NAME",
		Short: "List stored revisions of a contract",
		Long: `List the locally stored revisions of a named contract.

Every accepted submission is recorded locally, so the list shows the
full history of the contract. With --export the latest revision is also
uploaded to the S3 archive bucket.

Environment variables for --export:

	PROVIZOR_ARCHIVE_BUCKET: Target bucket (required)
	PROVIZOR_ARCHIVE_REGION: Bucket region
	PROVIZOR_ARCHIVE_ACCESS_KEY, PROVIZOR_ARCHIVE_SECRET_KEY: Credentials

Examples:
  provizor revisions prod-cluster
  provizor revisions prod-cluster --export`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Revisions(cmd.Context(), args[0], export)
		},
	}

	cmd.Flags().BoolVar(&export, "export", false, "Export the latest revision to the archive")

	return cmd
}
