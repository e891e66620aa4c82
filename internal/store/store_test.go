package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/provizor/provizor/internal/contract"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenFromURL("sqlite::memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func storedContract(revision int) *contract.Contract {
	return &contract.Contract{
		Name:          "prod-cluster",
		ProjectID:     "proj-1",
		ClusterID:     "cluster-1",
		Revision:      revision,
		CloudProvider: contract.ProviderAWS,
		Kind:          contract.KindEKS,
		Region:        "us-east-1",
		CredentialID:  "cred-1",
		NodePools: []contract.NodePool{
			{Name: "workers", InstanceType: "m5.xlarge", MinInstances: 1, MaxInstances: 5},
		},
	}
}

func TestOpenFromURLRejectsUnknownScheme(t *testing.T) {
	_, err := OpenFromURL("postgres://localhost/provizor")
	assert.Error(t, err)
}

func TestRevisionRoundTrip(t *testing.T) {
	repo := NewRevisionRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SaveRevision(ctx, storedContract(1)))

	rev, err := repo.Get(ctx, "proj-1", "prod-cluster", 1)
	require.NoError(t, err)
	assert.Equal(t, "cluster-1", rev.ClusterID)
	assert.Equal(t, 1, rev.Revision)
	assert.Equal(t, contract.ProviderAWS, rev.Contract.CloudProvider)
	assert.Equal(t, "us-east-1", rev.Contract.Region)
	require.Len(t, rev.Contract.NodePools, 1)
	assert.Equal(t, "m5.xlarge", rev.Contract.NodePools[0].InstanceType)
}

func TestRevisionListOrderedOldestFirst(t *testing.T) {
	repo := NewRevisionRepository(openTestDB(t))
	ctx := context.Background()

	for _, n := range []int{2, 1, 3} {
		require.NoError(t, repo.SaveRevision(ctx, storedContract(n)))
	}

	revs, err := repo.List(ctx, "proj-1", "prod-cluster")
	require.NoError(t, err)
	require.Len(t, revs, 3)
	assert.Equal(t, 1, revs[0].Revision)
	assert.Equal(t, 3, revs[2].Revision)

	latest, err := repo.Latest(ctx, "proj-1", "prod-cluster")
	require.NoError(t, err)
	assert.Equal(t, 3, latest.Revision)
}

func TestRevisionNotFound(t *testing.T) {
	repo := NewRevisionRepository(openTestDB(t))

	_, err := repo.Get(context.Background(), "proj-1", "missing", 1)
	assert.ErrorIs(t, err, ErrRevisionNotFound)

	_, err = repo.Latest(context.Background(), "proj-1", "missing")
	assert.ErrorIs(t, err, ErrRevisionNotFound)
}

func TestCredentialRoundTrip(t *testing.T) {
	repo := NewCredentialRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &Credential{
		ID:        "cred-1",
		ProjectID: "proj-1",
		Provider:  contract.ProviderAWS,
	}))

	got, err := repo.Get(ctx, "cred-1")
	require.NoError(t, err)
	assert.Equal(t, contract.ProviderAWS, got.Provider)

	list, err := repo.ListByProject(ctx, "proj-1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = repo.Get(ctx, "cred-missing")
	assert.ErrorIs(t, err, ErrCredentialNotFound)
}
