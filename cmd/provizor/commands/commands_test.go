package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	cmd := Root()

	require.NotNil(t, cmd)
	assert.Equal(t, "provizor", cmd.Use)

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"create", "preflight", "escalate", "provision", "revisions", "version", "completion"} {
		assert.Contains(t, names, want)
	}
}

func TestCreate(t *testing.T) {
	cmd := Create()

	require.NotNil(t, cmd)
	assert.Equal(t, "create", cmd.Use)
	assert.Equal(t, "Provision a new cluster", cmd.Short)
	assert.NotNil(t, cmd.RunE, "create command should have RunE function")
}

func TestCreate_Flags(t *testing.T) {
	cmd := Create()

	contract := cmd.Flags().Lookup("contract")
	require.NotNil(t, contract, "contract flag should exist")
	assert.Equal(t, "c", contract.Shorthand)
	assert.Equal(t, "", contract.DefValue)

	secret := cmd.Flags().Lookup("secret")
	require.NotNil(t, secret, "secret flag should exist")
	assert.Equal(t, "s", secret.Shorthand)

	escalate := cmd.Flags().Lookup("auto-escalate")
	require.NotNil(t, escalate, "auto-escalate flag should exist")
	assert.Equal(t, "false", escalate.DefValue)

	noTUI := cmd.Flags().Lookup("no-tui")
	require.NotNil(t, noTUI, "no-tui flag should exist")
	assert.Equal(t, "false", noTUI.DefValue)
}

func TestPreflight(t *testing.T) {
	cmd := Preflight()

	require.NotNil(t, cmd)
	assert.Equal(t, "preflight", cmd.Use)
	assert.NotNil(t, cmd.RunE, "preflight command should have RunE function")

	for _, name := range []string{"contract", "secret"} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, name+" flag should exist")
		_, required := flag.Annotations["cobra_annotation_bash_completion_one_required_flag"]
		assert.True(t, required, name+" flag should be required")
	}
}

func TestEscalate(t *testing.T) {
	cmd := Escalate()

	require.NotNil(t, cmd)
	assert.Equal(t, "escalate DIMENSION...", cmd.Use)
	assert.NotNil(t, cmd.RunE, "escalate command should have RunE function")

	for _, name := range []string{"credential", "region"} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, name+" flag should exist")
	}
}

func TestProvision(t *testing.T) {
	cmd := Provision()

	require.NotNil(t, cmd)
	assert.Equal(t, "provision", cmd.Use)
	assert.NotNil(t, cmd.RunE, "provision command should have RunE function")

	contract := cmd.Flags().Lookup("contract")
	require.NotNil(t, contract, "contract flag should exist")
	credential := cmd.Flags().Lookup("credential")
	require.NotNil(t, credential, "credential flag should exist")
}

func TestRevisions(t *testing.T) {
	cmd := Revisions()

	require.NotNil(t, cmd)
	assert.Equal(t, "revisions NAME", cmd.Use)
	assert.NotNil(t, cmd.RunE, "revisions command should have RunE function")

	export := cmd.Flags().Lookup("export")
	require.NotNil(t, export, "export flag should exist")
	assert.Equal(t, "false", export.DefValue)
}

func TestVersion(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2026-08-29")
	defer SetVersionInfo("dev", "none", "unknown")

	cmd := Version()
	require.NotNil(t, cmd)
	assert.Equal(t, "version", cmd.Use)
	assert.Equal(t, "1.2.3", version)
}

func TestCompletion(t *testing.T) {
	cmd := Completion()

	require.NotNil(t, cmd)
	assert.Contains(t, cmd.Use, "completion")
	assert.Equal(t, []string{"bash", "zsh", "fish", "powershell"}, cmd.ValidArgs)
}
