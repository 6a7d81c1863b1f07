package inspect

import (
	"log/slog"

	"github.com/tilsley/gitmanager/pkg/gitlab"
	"github.com/tilsley/gitmanager/pkg/httpclient"
	"github.com/tilsley/gitmanager/pkg/vault"
)

// GitLabHosts resolves a host ID to a GitLab manager.
type GitLabHosts interface {
	Manager(hostID string) (*gitlab.Manager, bool)
}

// StaticHosts is a fixed set of managers keyed by normalized host ID.
type StaticHosts map[string]*gitlab.Manager

// Compile-time check: StaticHosts implements GitLabHosts.
var _ GitLabHosts = StaticHosts(nil)

// Manager looks hostID up case-insensitively.
func (h StaticHosts) Manager(hostID string) (*gitlab.Manager, bool) {
	m, ok := h[vault.EnvKey(hostID)]
	return m, ok
}

// IDs returns the configured host IDs.
func (h StaticHosts) IDs() []string {
	ids := make([]string, 0, len(h))
	for id := range h {
		ids = append(ids, id)
	}
	return ids
}

// LoadGitLabHosts builds a manager for every host ID whose host, user and
// token resolve from authn. Incomplete hosts are skipped with a warning.
func LoadGitLabHosts(authn *gitlab.AuthnEnvVault, hostIDs []string, client httpclient.Client, log *slog.Logger) StaticHosts {
	hosts := StaticHosts{}
	for _, id := range hostIDs {
		if id == "" {
			continue
		}
		key := vault.EnvKey(id)
		server, ok := authn.Server(key, "")
		if !ok {
			log.Warn("gitlab host not configured; skipping", "hostId", id,
				"expected", gitlab.CommonNamespace+key+"_{HOST,USER,TOKEN}")
			continue
		}
		hosts[key] = gitlab.NewManager(*server, client, log)
		log.Info("gitlab host configured", "hostId", key, "host", server.Host, "user", server.Authn.UserName)
	}
	return hosts
}
