package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/provizor/provizor/internal/provision"
)

// Provision handles the provision command: it submits a contract that
// already carries a credential ID, then polls until the cluster appears.
// This is the non-interactive path for re-submitting an edited contract.
func Provision(ctx context.Context, contractPath, credentialID string) error {
	cfg, err := loadEnvConfig()
	if err != nil {
		return err
	}
	ct, err := loadContractFile(contractPath)
	if err != nil {
		return err
	}

	ct.ProjectID = cfg.ProjectID
	if credentialID != "" {
		ct.CredentialID = credentialID
	}
	if ct.CredentialID == "" {
		return fmt.Errorf("contract has no credential_id: pass --credential")
	}

	api := newAPIClient(cfg.APIURL, cfg.APIToken)
	st, err := openStores(cfg.DBURL)
	if err != nil {
		return err
	}

	driver := provision.NewDriver(api, cfg.ProjectID)
	sub, err := driver.Apply(ctx, ct)
	if err != nil {
		return err
	}
	ct.ClusterID = sub.ClusterID
	ct.Revision = sub.Revision
	log.Printf("contract accepted: cluster %s revision %d", sub.ClusterID, sub.Revision)

	if err := st.revisions.SaveRevision(ctx, ct); err != nil {
		log.Printf("revision not recorded: %v", err)
	}

	record, err := driver.AwaitCluster(ctx, sub.ClusterID)
	if err != nil {
		if errors.Is(err, provision.ErrStillProvisioning) {
			log.Printf("cluster not visible yet; check again with the control plane")
		}
		return err
	}

	log.Printf("cluster %s is %s", record.Name, record.Status)
	return nil
}
