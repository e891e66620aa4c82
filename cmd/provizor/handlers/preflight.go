package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/provizor/provizor/internal/workflow"
)

// Preflight handles the preflight command: it resolves credentials, submits
// the contract, runs one preflight probe, and prints the per-check outcome.
// A failing report produces a non-zero exit with the blocking fault.
func Preflight(ctx context.Context, contractPath, secretPath string) error {
	cfg, err := loadEnvConfig()
	if err != nil {
		return err
	}
	ct, err := loadContractFile(contractPath)
	if err != nil {
		return err
	}
	secret, err := readFile(secretPath)
	if err != nil {
		return fmt.Errorf("failed to read secret file: %w", err)
	}

	api := newAPIClient(cfg.APIURL, cfg.APIToken)
	s, err := workflow.NewSession(api, cfg.ProjectID, ct.CloudProvider,
		workflow.WithAdminEmail(cfg.AdminEmail))
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.SubmitCredentials(ctx, secret); err != nil {
		return err
	}
	if err := s.SubmitConfiguration(ctx, ct); err != nil {
		return err
	}

	report, err := s.RunPreflight(ctx)
	if err != nil {
		return err
	}

	if report.Passed() {
		log.Printf("all checks passed for %s", report.ProbeKey)
		return nil
	}
	for _, failure := range report.Failures() {
		log.Printf("check %s failed: %s", failure.Check, failure.Message)
	}
	return report.BlockingFault()
}
