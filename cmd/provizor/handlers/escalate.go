package handlers

import (
	"context"
	"log"

	"github.com/provizor/provizor/internal/quota"
)

// Escalate handles the escalate command: it submits a quota increase for
// the given dimensions against an already-resolved credential. The provider
// processes the request asynchronously; success only means it was accepted.
func Escalate(ctx context.Context, credentialID, region string, dimensions []string) error {
	cfg, err := loadEnvConfig()
	if err != nil {
		return err
	}

	dims := make([]quota.Dimension, 0, len(dimensions))
	for _, d := range dimensions {
		dims = append(dims, quota.Dimension(d))
	}

	api := newAPIClient(cfg.APIURL, cfg.APIToken)
	requester := quota.NewRequester(api, cfg.ProjectID)
	if err := requester.RequestIncrease(ctx, credentialID, region, dims); err != nil {
		return err
	}

	log.Printf("quota increase accepted for %v in %s", dimensions, region)
	return nil
}
