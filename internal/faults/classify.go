package faults

import "strings"

// Substring vocabulary for classifying provider error text. Deliberately kept
// as one isolated table: the matching is inherently fragile and should be the
// only thing that needs to change if the upstream API ever returns structured
// error codes.
//
// Order matters. Specific quota resources are matched before the generic
// quota words, and both before account/login phrases: "Your AWS account has
// reached the limit of VPCs" must classify as a VPC quota failure, not an
// account failure.
var classifierRules = []struct {
	substrings []string
	kind       Kind
}{
	{[]string{"elastic ip", "eip"}, KindQuotaEIP},
	{[]string{"vpc"}, KindQuotaVPC},
	{[]string{"nat gateway"}, KindQuotaNATGateway},
	{[]string{"vcpu"}, KindQuotaVCPU},
	{[]string{"quota", "reached the limit", "limit exceeded"}, KindQuotaGeneric},
	{[]string{"aws account", "unable to log in", "login failed", "credential", "unauthorized", "access denied", "forbidden"}, KindUpstreamAuth},
	{[]string{"connection refused", "connection reset", "timeout", "timed out", "temporarily unavailable", "no such host"}, KindTransientNetwork},
	{[]string{"revision mismatch", "conflict"}, KindConflict},
}

// Classify maps raw provider error text to a Fault. Unmatched text maps to
// KindUnknown with a generic remediation message.
func Classify(raw string) *Fault {
	lower := strings.ToLower(raw)
	for _, rule := range classifierRules {
		for _, sub := range rule.substrings {
			if strings.Contains(lower, sub) {
				return New(rule.kind, raw)
			}
		}
	}
	return New(KindUnknown, raw)
}

// remediationFor returns the canned remediation payload for a kind.
func remediationFor(kind Kind) string {
	switch kind {
	case KindValidation:
		return "Correct the highlighted input and resubmit."
	case KindUpstreamAuth:
		return "Verify the cloud credential has the required permissions and try again."
	case KindQuotaEIP:
		return "Your account has reached its Elastic IP limit in this region. Request an increase or release unused addresses."
	case KindQuotaVPC:
		return "Your account has reached its VPC limit in this region. Request an increase or delete unused VPCs."
	case KindQuotaNATGateway:
		return "Your account has reached its NAT gateway limit in this region. Request an increase or delete unused gateways."
	case KindQuotaVCPU:
		return "Your account has reached its vCPU limit in this region. Request an increase or choose smaller instance types."
	case KindQuotaGeneric:
		return "A resource limit on your cloud account is blocking provisioning. Request a quota increase."
	case KindTransientNetwork:
		return "A temporary network error occurred. Retry the operation."
	case KindRetryExhausted:
		return "The operation kept failing after repeated attempts. Check the account state before retrying."
	case KindConflict:
		return "The cluster configuration changed since it was loaded. Reload and resubmit."
	default:
		return "An unexpected error occurred. Contact support if it persists."
	}
}
