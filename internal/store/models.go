package store

import "time"

// CredentialRecord is the persistence model for a resolved credential.
// Only the opaque control-plane ID is stored, never the raw secret.
// Table name: credentials
type CredentialRecord struct {
	ID        string    `gorm:"primaryKey;type:text;not null"`
	ProjectID string    `gorm:"type:text;not null;index"`
	Provider  string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (CredentialRecord) TableName() string { return "credentials" }

// RevisionRecord is the persistence model for one accepted contract
// revision. Spec holds the YAML-encoded contract as submitted.
// Table name: revisions
type RevisionRecord struct {
	ID        string    `gorm:"primaryKey;type:text;not null"`
	ProjectID string    `gorm:"type:text;not null;index:idx_revisions_contract"`
	Name      string    `gorm:"type:text;not null;index:idx_revisions_contract"`
	ClusterID string    `gorm:"type:text;not null"`
	Revision  int       `gorm:"not null"`
	Provider  string    `gorm:"type:text;not null"`
	Region    string    `gorm:"type:text;not null"`
	Spec      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (RevisionRecord) TableName() string { return "revisions" }
