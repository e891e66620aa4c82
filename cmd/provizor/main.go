// Package main is the entry point for the provizor CLI.
//
// provizor is a command-line tool for provisioning managed Kubernetes
// clusters (EKS, AKS, GKE) through the platform control plane. It resolves
// cloud credentials, probes the account for quota and permission blockers,
// and submits declarative cluster contracts, without holding raw cloud
// secrets itself.
//
// Commands: create, preflight, escalate, provision, revisions.
//
// For detailed usage information, run:
//
//	provizor --help
package main

import (
	"fmt"
	"os"

	"github.com/provizor/provizor/cmd/provizor/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
