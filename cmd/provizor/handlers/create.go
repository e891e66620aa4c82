package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/provizor/provizor/internal/contract"
	"github.com/provizor/provizor/internal/controlplane"
	"github.com/provizor/provizor/internal/preflight"
	"github.com/provizor/provizor/internal/provision"
	"github.com/provizor/provizor/internal/store"
	"github.com/provizor/provizor/internal/util/async"
	"github.com/provizor/provizor/internal/wizard"
	"github.com/provizor/provizor/internal/workflow"
)

// CreateOptions holds the create command inputs.
type CreateOptions struct {
	ContractPath string
	SecretPath   string
	AutoEscalate bool
	NoTUI        bool
}

// Create handles the create command: it walks a full provisioning session
// from credentials through preflight to a running cluster.
//
// With --contract and --secret the inputs come from files; otherwise an
// interactive wizard collects them, which requires a terminal.
func Create(ctx context.Context, opts CreateOptions) error {
	cfg, err := loadEnvConfig()
	if err != nil {
		return err
	}

	ct, secret, err := resolveInputs(ctx, opts)
	if err != nil {
		return err
	}

	api := newAPIClient(cfg.APIURL, cfg.APIToken)
	st, err := openStores(cfg.DBURL)
	if err != nil {
		return err
	}

	sessionOpts := []workflow.SessionOption{
		workflow.WithRecorder(st.revisions),
		workflow.WithAdminEmail(cfg.AdminEmail),
	}

	if isTTY() && !opts.NoTUI {
		return runDashboard(ctx, ct.Name, ct.CloudProvider.String(), ct.Region,
			func(observer workflow.Observer, reportSink func(*preflight.Report)) error {
				s, err := workflow.NewSession(api, cfg.ProjectID, ct.CloudProvider,
					append(sessionOpts,
						workflow.WithObserver(workflow.MultiObserver(workflowMetrics(), observer)))...)
				if err != nil {
					return err
				}
				defer s.Close()
				if _, err := driveSession(ctx, s, ct, secret, opts.AutoEscalate, reportSink); err != nil {
					return err
				}
				recordOutcome(ctx, st, s.CurrentState())
				return nil
			})
	}

	s, err := workflow.NewSession(api, cfg.ProjectID, ct.CloudProvider,
		append(sessionOpts,
			workflow.WithObserver(workflow.MultiObserver(workflowMetrics(), workflow.ConsoleObserver{})))...)
	if err != nil {
		return err
	}
	defer s.Close()

	record, err := driveSession(ctx, s, ct, secret, opts.AutoEscalate, nil)
	if err != nil {
		return err
	}
	recordOutcome(ctx, st, s.CurrentState())
	log.Printf("cluster %s is %s", record.Name, record.Status)
	return nil
}

// recordOutcome runs the post-acceptance bookkeeping: the credential
// reference is saved for reuse and, when an archive bucket is configured,
// the accepted revision is uploaded. The two are independent, so they fan
// out in parallel. Both are best effort and never fail the command.
func recordOutcome(ctx context.Context, st *stores, snap workflow.Snapshot) {
	tasks := []async.Task{
		{Name: "credential", Func: func(ctx context.Context) error {
			return st.credentials.Save(ctx, &store.Credential{
				ID:        snap.CredentialID,
				ProjectID: snap.Contract.ProjectID,
				Provider:  snap.Provider,
			})
		}},
	}
	if os.Getenv(envArchiveBucket) != "" {
		tasks = append(tasks, async.Task{Name: "archive", Func: func(ctx context.Context) error {
			exporter, err := newArchiveExporter()
			if err != nil {
				return err
			}
			return exporter.Export(ctx, snap.Contract)
		}})
	}
	if err := async.RunParallel(ctx, tasks); err != nil {
		log.Printf("post-provision bookkeeping failed (ignored): %v", err)
	}
}

// resolveInputs loads the contract and secret from files, or collects them
// interactively when no files were given.
func resolveInputs(ctx context.Context, opts CreateOptions) (*contract.Contract, []byte, error) {
	if opts.ContractPath != "" || opts.SecretPath != "" {
		if opts.ContractPath == "" || opts.SecretPath == "" {
			return nil, nil, fmt.Errorf("--contract and --secret must be used together")
		}
		ct, err := loadContractFile(opts.ContractPath)
		if err != nil {
			return nil, nil, err
		}
		secret, err := readFile(opts.SecretPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read secret file: %w", err)
		}
		return ct, secret, nil
	}

	if !isTTY() {
		return nil, nil, fmt.Errorf("no terminal detected: pass --contract and --secret for non-interactive use")
	}

	result, err := runWizard(ctx)
	if err != nil {
		return nil, nil, err
	}
	secret, err := wizard.BuildSecret(result)
	if err != nil {
		return nil, nil, err
	}
	return wizard.BuildContract(result), secret, nil
}

// driveSession runs one session end to end. The finished preflight report
// goes to reportSink when one is given, pass or fail. A quota blocker is
// escalated when autoEscalate is set, otherwise the session stays failed
// and the blocking fault is returned.
func driveSession(ctx context.Context, s *workflow.Session, ct *contract.Contract, secret []byte, autoEscalate bool, reportSink func(*preflight.Report)) (*controlplane.ClusterRecord, error) {
	if err := s.SubmitCredentials(ctx, secret); err != nil {
		return nil, err
	}
	if err := s.SubmitConfiguration(ctx, ct); err != nil {
		return nil, err
	}

	report, err := s.RunPreflight(ctx)
	if report != nil && reportSink != nil {
		reportSink(report)
	}
	if err != nil {
		return nil, err
	}
	if !report.Passed() {
		blocking := report.BlockingFault()
		if !blocking.Kind.IsQuota() || !autoEscalate {
			return nil, blocking
		}
		if err := s.RequestQuotaEscalation(ctx, nil); err != nil {
			return nil, err
		}
	}

	record, err := s.Provision(ctx)
	if err != nil {
		if errors.Is(err, provision.ErrStillProvisioning) {
			log.Printf("cluster not visible yet; check again with the control plane")
		}
		return nil, err
	}
	return record, nil
}

// loadContractFile loads a contract without requiring the identity fields
// the workflow fills in on submission, so a file fresh from the wizard or
// a template works as input.
func loadContractFile(path string) (*contract.Contract, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract file: %w", err)
	}
	return contract.ParseUnvalidated(data)
}

// readFile is a variable for test injection.
var readFile = os.ReadFile
