package handlers

import (
	"context"
	"fmt"
	"log"
)

// Revisions handles the revisions command: it lists the locally stored
// revisions of a named contract and optionally exports the latest one to
// the S3 archive.
func Revisions(ctx context.Context, name string, export bool) error {
	cfg, err := loadEnvConfig()
	if err != nil {
		return err
	}
	st, err := openStores(cfg.DBURL)
	if err != nil {
		return err
	}

	revs, err := st.revisions.List(ctx, cfg.ProjectID, name)
	if err != nil {
		return err
	}
	if len(revs) == 0 {
		return fmt.Errorf("no revisions stored for contract %s", name)
	}

	for _, rev := range revs {
		log.Printf("revision %d: cluster %s (%s/%s)",
			rev.Revision, rev.ClusterID, rev.Contract.CloudProvider, rev.Contract.Region)
	}

	if !export {
		return nil
	}

	exporter, err := newArchiveExporter()
	if err != nil {
		return err
	}
	latest := revs[len(revs)-1]
	if err := exporter.Export(ctx, latest.Contract); err != nil {
		return err
	}
	log.Printf("exported revision %d of %s to the archive", latest.Revision, name)
	return nil
}
