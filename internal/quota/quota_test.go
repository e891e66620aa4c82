package quota

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provizor/provizor/internal/contract"
	"github.com/provizor/provizor/internal/controlplane"
	"github.com/provizor/provizor/internal/faults"
)

func TestRequestIncrease_Deduplicates(t *testing.T) {
	var got []string
	mock := &controlplane.MockClient{
		RequestQuotaIncreaseFunc: func(_ context.Context, projectID, credentialID, region string, dimensions []string) error {
			assert.Equal(t, "proj-1", projectID)
			assert.Equal(t, "cred-123", credentialID)
			assert.Equal(t, "us-east-1", region)
			got = dimensions
			return nil
		},
	}

	r := NewRequester(mock, "proj-1")
	err := r.RequestIncrease(context.Background(), "cred-123", "us-east-1",
		[]Dimension{DimensionVPC, DimensionEIP, DimensionVPC})

	require.NoError(t, err)
	assert.Equal(t, []string{"VPC", "EIP"}, got)
}

func TestRequestIncrease_EmptyRejected(t *testing.T) {
	r := NewRequester(&controlplane.MockClient{}, "proj-1")
	err := r.RequestIncrease(context.Background(), "cred-123", "us-east-1", nil)
	require.Error(t, err)
	assert.Equal(t, faults.KindValidation, faults.KindOf(err))
}

func TestRequestIncrease_UnknownDimensionRejected(t *testing.T) {
	r := NewRequester(&controlplane.MockClient{}, "proj-1")
	err := r.RequestIncrease(context.Background(), "cred-123", "us-east-1", []Dimension{"FLOPPY_DISKS"})
	require.Error(t, err)
	assert.Equal(t, faults.KindValidation, faults.KindOf(err))
}

func TestRequestIncrease_TransientClassified(t *testing.T) {
	mock := &controlplane.MockClient{
		RequestQuotaIncreaseFunc: func(context.Context, string, string, string, []string) error {
			return &controlplane.APIError{StatusCode: 502, Message: "bad gateway"}
		},
	}

	r := NewRequester(mock, "proj-1")
	err := r.RequestIncrease(context.Background(), "cred-123", "us-east-1", []Dimension{DimensionVCPU})
	require.Error(t, err)
	assert.Equal(t, faults.KindTransientNetwork, faults.KindOf(err))
}

func TestDimensionForKind(t *testing.T) {
	tests := []struct {
		kind faults.Kind
		want Dimension
		ok   bool
	}{
		{faults.KindQuotaEIP, DimensionEIP, true},
		{faults.KindQuotaVPC, DimensionVPC, true},
		{faults.KindQuotaNATGateway, DimensionNATGateway, true},
		{faults.KindQuotaVCPU, DimensionVCPU, true},
		{faults.KindQuotaGeneric, DimensionGeneric, true},
		{faults.KindValidation, "", false},
		{faults.KindUpstreamAuth, "", false},
	}

	for _, tt := range tests {
		got, ok := DimensionForKind(tt.kind)
		assert.Equal(t, tt.ok, ok, "kind %s", tt.kind)
		assert.Equal(t, tt.want, got, "kind %s", tt.kind)
	}
}

func TestDimensionsFor(t *testing.T) {
	assert.Equal(t,
		[]Dimension{DimensionEIP, DimensionVPC, DimensionNATGateway, DimensionVCPU},
		DimensionsFor(contract.ProviderAWS))
	assert.Equal(t, []Dimension{DimensionGeneric}, DimensionsFor(contract.ProviderAzure))
	assert.Equal(t, []Dimension{DimensionGeneric}, DimensionsFor(contract.ProviderGCP))
	assert.Nil(t, DimensionsFor(contract.Provider("digitalocean")))
}

func TestRequestIncrease_GenericDimensionAccepted(t *testing.T) {
	var got []string
	mock := &controlplane.MockClient{
		RequestQuotaIncreaseFunc: func(_ context.Context, _, _, _ string, dimensions []string) error {
			got = dimensions
			return nil
		},
	}

	r := NewRequester(mock, "proj-1")
	err := r.RequestIncrease(context.Background(), "cred-123", "westeurope", []Dimension{DimensionGeneric})
	require.NoError(t, err)
	assert.Equal(t, []string{"GENERIC"}, got)
}

func TestValidDimensions(t *testing.T) {
	for _, d := range ValidDimensions() {
		assert.True(t, d.IsValid())
	}
	assert.False(t, Dimension("TAPE_DRIVES").IsValid())
}
