package archive

import (
	"context"
	"fmt"

	"github.com/provizor/provizor/internal/contract"
)

// Exporter writes contract revisions as YAML objects into one bucket.
type Exporter struct {
	client *Client
	bucket string
}

// NewExporter creates an exporter targeting bucket.
func NewExporter(client *Client, bucket string) *Exporter {
	return &Exporter{client: client, bucket: bucket}
}

// revisionKey builds the object key for one revision of a named contract.
func revisionKey(projectID, name string, revision int) string {
	return fmt.Sprintf("projects/%s/contracts/%s/rev-%d.yaml", projectID, name, revision)
}

// Export uploads the contract at its current revision. The bucket is
// created on first use.
func (e *Exporter) Export(ctx context.Context, ct *contract.Contract) error {
	data, err := ct.Marshal()
	if err != nil {
		return err
	}
	if err := e.client.EnsureBucket(ctx, e.bucket); err != nil {
		return err
	}
	return e.client.PutObject(ctx, e.bucket, revisionKey(ct.ProjectID, ct.Name, ct.Revision), data)
}

// Fetch downloads and parses one archived revision.
func (e *Exporter) Fetch(ctx context.Context, projectID, name string, revision int) (*contract.Contract, error) {
	data, err := e.client.GetObject(ctx, e.bucket, revisionKey(projectID, name, revision))
	if err != nil {
		return nil, err
	}
	return contract.Parse(data)
}

// ListRevisions returns the archived object keys for a named contract.
func (e *Exporter) ListRevisions(ctx context.Context, projectID, name string) ([]string, error) {
	prefix := fmt.Sprintf("projects/%s/contracts/%s/", projectID, name)
	return e.client.ListObjects(ctx, e.bucket, prefix)
}
