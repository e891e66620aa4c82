package faults

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Kind
	}{
		{
			name: "vpc limit beats account phrase",
			raw:  "Your AWS account has reached the limit of VPCs allowed per region",
			want: KindQuotaVPC,
		},
		{
			name: "elastic ip",
			raw:  "The maximum number of Elastic IP addresses has been reached",
			want: KindQuotaEIP,
		},
		{
			name: "eip shorthand",
			raw:  "EIP allocation failed: AddressLimitExceeded",
			want: KindQuotaEIP,
		},
		{
			name: "nat gateway",
			raw:  "NatGatewayLimitExceeded: reached the limit of NAT gateway resources",
			want: KindQuotaNATGateway,
		},
		{
			name: "vcpu",
			raw:  "You have requested more vCPU capacity than your current limit",
			want: KindQuotaVCPU,
		},
		{
			name: "generic quota",
			raw:  "Quota 'IN_USE_ADDRESSES' exceeded",
			want: KindQuotaGeneric,
		},
		{
			name: "account login",
			raw:  "Unable to log in to your AWS account with the provided role",
			want: KindUpstreamAuth,
		},
		{
			name: "access denied",
			raw:  "AccessDenied: user is not authorized to perform sts:AssumeRole (access denied)",
			want: KindUpstreamAuth,
		},
		{
			name: "transient",
			raw:  "dial tcp: connection refused",
			want: KindTransientNetwork,
		},
		{
			name: "timeout",
			raw:  "request timed out waiting for response",
			want: KindTransientNetwork,
		},
		{
			name: "revision conflict",
			raw:  "contract revision mismatch: expected 3, current 4",
			want: KindConflict,
		},
		{
			name: "unknown",
			raw:  "something inexplicable happened",
			want: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Classify(tt.raw)
			assert.Equal(t, tt.want, f.Kind)
			assert.Equal(t, tt.raw, f.Detail, "raw text must be preserved as detail")
			assert.NotEmpty(t, f.Remediation)
		})
	}
}

func TestKind_IsQuota(t *testing.T) {
	quota := []Kind{KindQuotaEIP, KindQuotaVPC, KindQuotaNATGateway, KindQuotaVCPU, KindQuotaGeneric}
	for _, k := range quota {
		assert.True(t, k.IsQuota(), "%s should be quota", k)
	}

	other := []Kind{KindValidation, KindUpstreamAuth, KindTransientNetwork, KindRetryExhausted, KindConflict, KindUnknown}
	for _, k := range other {
		assert.False(t, k.IsQuota(), "%s should not be quota", k)
	}
}

func TestKind_Retryable(t *testing.T) {
	assert.True(t, KindTransientNetwork.Retryable())
	assert.True(t, KindConflict.Retryable())
	assert.False(t, KindValidation.Retryable())
	assert.False(t, KindQuotaVPC.Retryable())
	assert.False(t, KindRetryExhausted.Retryable())
}

func TestFromError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, FromError(nil))
	})

	t.Run("existing fault passes through", func(t *testing.T) {
		orig := Validation("bad node pool")
		got := FromError(fmt.Errorf("submit failed: %w", orig))
		require.NotNil(t, got)
		assert.Equal(t, KindValidation, got.Kind)
		assert.Equal(t, orig, got)
	})

	t.Run("plain error is classified", func(t *testing.T) {
		got := FromError(errors.New("NAT Gateway limit reached"))
		require.NotNil(t, got)
		assert.Equal(t, KindQuotaNATGateway, got.Kind)
	})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindQuotaVPC, KindOf(fmt.Errorf("wrap: %w", New(KindQuotaVPC, "x"))))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestFault_Error(t *testing.T) {
	assert.Equal(t, "validation: bad region", New(KindValidation, "bad region").Error())
	assert.Equal(t, "unknown", (&Fault{Kind: KindUnknown}).Error())
}
