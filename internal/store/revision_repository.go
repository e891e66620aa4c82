package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/provizor/provizor/internal/contract"
)

// ErrRevisionNotFound is returned when a revision lookup matches nothing.
var ErrRevisionNotFound = errors.New("revision not found")

// Revision is one stored contract revision with its decoded spec.
type Revision struct {
	ID        string
	ClusterID string
	Revision  int
	Contract  *contract.Contract
}

// RevisionRepository persists accepted contract revisions.
type RevisionRepository struct{ db *gorm.DB }

func NewRevisionRepository(db *gorm.DB) *RevisionRepository { return &RevisionRepository{db: db} }

// SaveRevision stores the contract as a new revision row. It satisfies the
// workflow recorder hook, so every accepted submission lands here.
func (r *RevisionRepository) SaveRevision(ctx context.Context, ct *contract.Contract) error {
	spec, err := ct.Marshal()
	if err != nil {
		return err
	}
	rec := &RevisionRecord{
		ID:        "rev-" + uuid.NewString(),
		ProjectID: ct.ProjectID,
		Name:      ct.Name,
		ClusterID: ct.ClusterID,
		Revision:  ct.Revision,
		Provider:  string(ct.CloudProvider),
		Region:    ct.Region,
		Spec:      string(spec),
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

// Get returns one revision of a named contract.
func (r *RevisionRepository) Get(ctx context.Context, projectID, name string, revision int) (*Revision, error) {
	var rec RevisionRecord
	err := r.db.WithContext(ctx).
		First(&rec, "project_id = ? AND name = ? AND revision = ?", projectID, name, revision).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRevisionNotFound
		}
		return nil, err
	}
	return toRevision(&rec)
}

// Latest returns the highest stored revision of a named contract.
func (r *RevisionRepository) Latest(ctx context.Context, projectID, name string) (*Revision, error) {
	var rec RevisionRecord
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND name = ?", projectID, name).
		Order("revision DESC").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRevisionNotFound
		}
		return nil, err
	}
	return toRevision(&rec)
}

// List returns all revisions of a named contract, oldest first.
func (r *RevisionRepository) List(ctx context.Context, projectID, name string) ([]*Revision, error) {
	var recs []RevisionRecord
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND name = ?", projectID, name).
		Order("revision ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]*Revision, 0, len(recs))
	for i := range recs {
		rev, err := toRevision(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, nil
}

func toRevision(rec *RevisionRecord) (*Revision, error) {
	ct, err := contract.Parse([]byte(rec.Spec))
	if err != nil {
		return nil, err
	}
	return &Revision{
		ID:        rec.ID,
		ClusterID: rec.ClusterID,
		Revision:  rec.Revision,
		Contract:  ct,
	}, nil
}
