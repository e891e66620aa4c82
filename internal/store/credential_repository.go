package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/provizor/provizor/internal/contract"
)

// ErrCredentialNotFound is returned when a credential lookup matches nothing.
var ErrCredentialNotFound = errors.New("credential not found")

// Credential is a resolved credential reference. The raw secret never
// leaves the control plane.
type Credential struct {
	ID        string
	ProjectID string
	Provider  contract.Provider
}

// CredentialRepository persists resolved credential references so a later
// run can reuse them without re-entering secrets.
type CredentialRepository struct{ db *gorm.DB }

func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) Save(ctx context.Context, c *Credential) error {
	rec := &CredentialRecord{
		ID:        c.ID,
		ProjectID: c.ProjectID,
		Provider:  string(c.Provider),
	}
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *CredentialRepository) Get(ctx context.Context, id string) (*Credential, error) {
	var rec CredentialRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredentialNotFound
		}
		return nil, err
	}
	return &Credential{ID: rec.ID, ProjectID: rec.ProjectID, Provider: contract.Provider(rec.Provider)}, nil
}

// ListByProject returns credential references for a project, oldest first.
func (r *CredentialRepository) ListByProject(ctx context.Context, projectID string) ([]*Credential, error) {
	var recs []CredentialRecord
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]*Credential, 0, len(recs))
	for i := range recs {
		out = append(out, &Credential{
			ID:        recs[i].ID,
			ProjectID: recs[i].ProjectID,
			Provider:  contract.Provider(recs[i].Provider),
		})
	}
	return out, nil
}
