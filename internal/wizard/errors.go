package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errClusterNameRequired  = errors.New("cluster name is required")
	errClusterNameInvalid   = errors.New("cluster name must be 1-32 lowercase alphanumeric characters or hyphens, starting and ending with alphanumeric")
	errRegionRequired       = errors.New("region is required")
	errInstanceTypeRequired = errors.New("instance type is required")
	errCIDRInvalid          = errors.New("invalid CIDR format (expected: x.x.x.x/xx)")
	errCountInvalid         = errors.New("instance count must be a non-negative number")
	errMaxBelowMin          = errors.New("maximum instances must be >= minimum instances")
)
