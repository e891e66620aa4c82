package e2e

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/provizor/provizor/internal/contract"
	"github.com/provizor/provizor/internal/controlplane"
	"github.com/provizor/provizor/internal/faults"
	"github.com/provizor/provizor/internal/provision"
	"github.com/provizor/provizor/internal/workflow"
)

const awsSecret = `{"role_arn":"arn:aws:iam::123456789012:role/provizor-provisioner","external_id":"ext-e2e"}`

func awsContract() *contract.Contract {
	return &contract.Contract{
		Name:          "e2e-cluster",
		CloudProvider: contract.ProviderAWS,
		Kind:          contract.KindEKS,
		Region:        "us-east-1",
		NodePools: []contract.NodePool{
			{Name: "workers", InstanceType: "m5.xlarge", MinInstances: 1, MaxInstances: 3},
		},
	}
}

func newClient() controlplane.Client {
	return controlplane.NewRealClient(plane.URL(), "token-e2e")
}

func newSession(provider contract.Provider, opts ...workflow.SessionOption) *workflow.Session {
	base := []workflow.SessionOption{
		workflow.WithDebounce(time.Hour),
		workflow.WithDriverOptions(
			provision.WithPollInterval(time.Millisecond),
			provision.WithMaxPollAttempts(5)),
	}
	s, err := workflow.NewSession(newClient(), "proj-e2e", provider, append(base, opts...)...)
	Expect(err).NotTo(HaveOccurred())
	DeferCleanup(s.Close)
	return s
}

var _ = Describe("Provisioning session", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("provisions a cluster end to end", func() {
		s := newSession(contract.ProviderAWS)

		Expect(s.SubmitCredentials(ctx, []byte(awsSecret))).To(Succeed())
		Expect(s.SubmitConfiguration(ctx, awsContract())).To(Succeed())

		report, err := s.RunPreflight(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Passed()).To(BeTrue())

		record, err := s.Provision(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(record.Status).To(Equal(controlplane.StatusRunning))

		snap := s.CurrentState()
		Expect(snap.State).To(Equal(workflow.StateDone))
		Expect(snap.Contract.ClusterID).NotTo(BeEmpty())
		Expect(plane.clusterCount()).To(Equal(1))
	})

	It("escalates a quota blocker without probing the account again", func() {
		plane.blockVPCQuota()
		s := newSession(contract.ProviderAWS)

		Expect(s.SubmitCredentials(ctx, []byte(awsSecret))).To(Succeed())
		Expect(s.SubmitConfiguration(ctx, awsContract())).To(Succeed())

		report, err := s.RunPreflight(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Passed()).To(BeFalse())
		Expect(s.CurrentState().State).To(Equal(workflow.StateFailed))
		Expect(faults.KindOf(s.CurrentState().Fault)).To(Equal(faults.KindQuotaVPC))

		Expect(s.RequestQuotaEscalation(ctx, nil)).To(Succeed())
		Expect(plane.quotaDimensions()).To(Equal([][]string{{"VPC"}}))

		_, err = s.Provision(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(s.CurrentState().State).To(Equal(workflow.StateDone))
		Expect(plane.preflightCount()).To(Equal(1), "escalation must not trigger a second probe")
	})

	It("rejects a malformed GCP secret before any network call", func() {
		s := newSession(contract.ProviderGCP)

		err := s.SubmitCredentials(ctx, []byte(`{"type":"service_account"}`))
		Expect(err).To(HaveOccurred())
		Expect(faults.KindOf(err)).To(Equal(faults.KindValidation))
		Expect(plane.integrationCount()).To(BeZero())
		Expect(s.CurrentState().State).To(Equal(workflow.StateCredentials))
	})

	It("keeps resubmission idempotent per revision", func() {
		s := newSession(contract.ProviderAWS)

		ct := awsContract()
		Expect(s.SubmitCredentials(ctx, []byte(awsSecret))).To(Succeed())
		Expect(s.SubmitConfiguration(ctx, ct)).To(Succeed())
		_, err := s.RunPreflight(ctx)
		Expect(err).NotTo(HaveOccurred())
		_, err = s.Provision(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(ct.Revision).To(Equal(1))

		driver := provision.NewDriver(newClient(), "proj-e2e",
			provision.WithPollInterval(time.Millisecond),
			provision.WithMaxPollAttempts(5))
		sub, err := driver.Apply(ctx, ct)
		Expect(err).NotTo(HaveOccurred())
		Expect(sub.ClusterID).To(Equal(ct.ClusterID))
		Expect(sub.Revision).To(Equal(2))
		Expect(plane.clusterCount()).To(Equal(1), "updates must not create a second cluster")
	})

	It("rejects a stale revision with a conflict fault", func() {
		s := newSession(contract.ProviderAWS)

		ct := awsContract()
		Expect(s.SubmitCredentials(ctx, []byte(awsSecret))).To(Succeed())
		Expect(s.SubmitConfiguration(ctx, ct)).To(Succeed())
		_, err := s.RunPreflight(ctx)
		Expect(err).NotTo(HaveOccurred())
		_, err = s.Provision(ctx)
		Expect(err).NotTo(HaveOccurred())

		stale := awsContract()
		stale.ProjectID = ct.ProjectID
		stale.CredentialID = ct.CredentialID
		stale.ClusterID = ct.ClusterID
		stale.Revision = 99

		driver := provision.NewDriver(newClient(), "proj-e2e")
		_, err = driver.Apply(ctx, stale)
		Expect(err).To(HaveOccurred())
		Expect(faults.KindOf(err)).To(Equal(faults.KindConflict))
	})

	It("bounds cluster polling and stays provisioning", func() {
		plane.setPollsUntilVisible(100)
		s := newSession(contract.ProviderAWS)

		Expect(s.SubmitCredentials(ctx, []byte(awsSecret))).To(Succeed())
		Expect(s.SubmitConfiguration(ctx, awsContract())).To(Succeed())
		_, err := s.RunPreflight(ctx)
		Expect(err).NotTo(HaveOccurred())

		_, err = s.Provision(ctx)
		Expect(err).To(MatchError(provision.ErrStillProvisioning))

		snap := s.CurrentState()
		Expect(snap.State).To(Equal(workflow.StateProvisioning))
		Expect(snap.StillProvisioning).To(BeTrue())
	})
})
