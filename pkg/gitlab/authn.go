package gitlab

import "github.com/tilsley/gitmanager/pkg/vault"

// Credential namespaces. A host ID "PROD" reads GITLAB_PROD_HOST,
// GITLAB_PROD_USER and GITLAB_PROD_TOKEN; the token is looked up as
// GITLAB_SECRET_PROD_TOKEN first.
const (
	CommonNamespace  = "GITLAB_"
	SecretsNamespace = "GITLAB_SECRET_"
)

// Authn holds the credentials for one server.
type Authn struct {
	UserName    vault.Attr
	AccessToken vault.Attr
}

// Server is a GitLab instance and the credentials used against it.
type Server struct {
	Host  string
	Authn Authn
}

// AuthnEnvVault resolves GitLab servers from the environment.
type AuthnEnvVault struct {
	vault *vault.EnvVault
}

// NewAuthnEnvVault uses v, or the GITLAB_/GITLAB_SECRET_ namespaces when v is nil.
func NewAuthnEnvVault(v *vault.EnvVault) *AuthnEnvVault {
	if v == nil {
		v = vault.NewEnvVault(CommonNamespace, SecretsNamespace)
	}
	return &AuthnEnvVault{vault: v}
}

// UserName resolves <hostID>_USER.
func (a *AuthnEnvVault) UserName(hostID, defaultUser string) vault.Attr {
	return a.vault.Define(hostID+"_USER", vault.DefineOptions{Default: defaultUser})
}

// AccessToken resolves the secret <hostID>_TOKEN.
func (a *AuthnEnvVault) AccessToken(hostID, defaultToken string) vault.Attr {
	return a.vault.Define(hostID+"_TOKEN", vault.DefineOptions{Default: defaultToken, Secret: true})
}

// HostName resolves <hostID>_HOST.
func (a *AuthnEnvVault) HostName(hostID, defaultHost string) string {
	return a.vault.Define(hostID+"_HOST", vault.DefineOptions{Default: defaultHost}).Value()
}

// IsServerConfigAvailable reports whether host, user and token all resolve.
func (a *AuthnEnvVault) IsServerConfigAvailable(hostID, defaultHost string) bool {
	_, ok := a.Server(hostID, defaultHost)
	return ok
}

// Server builds the server for hostID. It reports false unless host, user
// and token are all set.
func (a *AuthnEnvVault) Server(hostID, defaultHost string) (*Server, bool) {
	host := a.HostName(hostID, defaultHost)
	user := a.UserName(hostID, "")
	token := a.AccessToken(hostID, "")
	if host == "" || !user.IsSet() || !token.IsSet() {
		return nil, false
	}
	return &Server{Host: host, Authn: Authn{UserName: user, AccessToken: token}}, true
}
