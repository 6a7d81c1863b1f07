package gitlab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilsley/gitmanager/pkg/gitlab"
)

func TestAuthnEnvVault_Server(t *testing.T) {
	t.Setenv("GITLAB_PROD_HOST", "git.acme.io")
	t.Setenv("GITLAB_PROD_USER", "deploy-bot")
	t.Setenv("GITLAB_SECRET_PROD_TOKEN", "glpat-secret")

	a := gitlab.NewAuthnEnvVault(nil)
	server, ok := a.Server("PROD", "")

	require.True(t, ok)
	assert.Equal(t, "git.acme.io", server.Host)
	assert.Equal(t, "deploy-bot", server.Authn.UserName.Value())
	assert.Equal(t, "glpat-secret", server.Authn.AccessToken.Value())
	assert.True(t, server.Authn.AccessToken.Secret)
	assert.True(t, a.IsServerConfigAvailable("PROD", ""))
}

func TestAuthnEnvVault_DefaultHost(t *testing.T) {
	t.Setenv("GITLAB_SAAS_USER", "me")
	t.Setenv("GITLAB_SAAS_TOKEN", "glpat-common")

	server, ok := gitlab.NewAuthnEnvVault(nil).Server("SAAS", "gitlab.com")

	require.True(t, ok)
	assert.Equal(t, "gitlab.com", server.Host)
	assert.Equal(t, "glpat-common", server.Authn.AccessToken.Value())
}

func TestAuthnEnvVault_IncompleteConfig(t *testing.T) {
	t.Setenv("GITLAB_HALF_HOST", "git.acme.io")
	t.Setenv("GITLAB_HALF_USER", "bot")

	a := gitlab.NewAuthnEnvVault(nil)
	server, ok := a.Server("HALF", "")

	assert.False(t, ok)
	assert.Nil(t, server)
	assert.False(t, a.IsServerConfigAvailable("HALF", ""))
	assert.False(t, a.IsServerConfigAvailable("NOWHERE", "gitlab.com"))
}

func TestAuthnEnvVault_TokenNeverPrinted(t *testing.T) {
	t.Setenv("GITLAB_PROD_HOST", "git.acme.io")
	t.Setenv("GITLAB_PROD_USER", "deploy-bot")
	t.Setenv("GITLAB_PROD_TOKEN", "glpat-secret")

	server, ok := gitlab.NewAuthnEnvVault(nil).Server("PROD", "")

	require.True(t, ok)
	assert.NotContains(t, server.Authn.AccessToken.String(), "glpat-secret")
}
