// Package gitlab adapts the GitLab v4 REST API to the managedgit contract.
//
// Every request carries the server's access token in the PRIVATE-TOKEN
// header. Nested namespaces are addressed by encoding "group/sub/repo" as a
// single path segment.
package gitlab

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/tilsley/gitmanager/pkg/httpclient"
	"github.com/tilsley/gitmanager/pkg/managedgit"
)

const provider = "gitlab"

// DefaultRef is the ref used for content when none is given. It is not
// detected from the project's default branch.
const DefaultRef = "master"

// TokenHeader carries the access token on every request.
const TokenHeader = "PRIVATE-TOKEN"

// missingToken is sent when the server has no token so the failure shows up
// as a GitLab 401 rather than a missing header.
const missingToken = "accessToken?"

// Identity names a project. Group may be nested, e.g. "platform/tools".
type Identity struct {
	Group string `json:"group" yaml:"group"`
	Repo  string `json:"repo" yaml:"repo"`
}

// Manager hands out project handles for one GitLab server.
type Manager struct {
	server    Server
	client    httpclient.Client
	logger    *slog.Logger
	populator managedgit.StructurePopulator
}

// Compile-time checks.
var (
	_ managedgit.Manager[Identity, *Repo] = (*Manager)(nil)
	_ managedgit.Repo                     = (*Repo)(nil)
)

// NewManager creates a manager for server. A nil client uses
// httpclient.NewDefaultClient(0); a nil logger uses slog.Default().
func NewManager(server Server, client httpclient.Client, logger *slog.Logger) *Manager {
	if client == nil {
		client = httpclient.NewDefaultClient(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		server: server,
		client: client,
		logger: logger.With("provider", provider, "host", server.Host),
	}
	m.populator = GroupsPopulator(m, nil)
	return m
}

// Server returns the server this manager talks to.
func (m *Manager) Server() Server {
	return m.server
}

// WithGroupFilter returns a copy of m whose Structure applies filter.
func (m *Manager) WithGroupFilter(filter GroupFilter) *Manager {
	cp := *m
	cp.populator = GroupsPopulator(&cp, filter)
	return &cp
}

func (m *Manager) baseURL() string {
	return "https://" + m.server.Host + "/api/v4"
}

// APIURL builds https://{host}/api/v4/{path}?{query}. path is used as given.
func (m *Manager) APIURL(path string, query url.Values) string {
	u := m.baseURL() + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (m *Manager) request(apiURL string) httpclient.Request {
	token := m.server.Authn.AccessToken.Value()
	if token == "" {
		token = missingToken
	}
	h := http.Header{}
	h.Set(TokenHeader, token)
	return httpclient.Get(apiURL, h)
}

// Repo returns a handle for id. No request is made.
func (m *Manager) Repo(id Identity) *Repo {
	return &Repo{manager: m, id: id}
}

// Repos is not supported for GitLab.
func (m *Manager) Repos(_ context.Context, _ managedgit.RepoHandler[*Repo]) error {
	return managedgit.NotImplemented(provider, "repos")
}

// Structure discovers the server's top-level groups. A failed fetch yields
// an empty structure.
func (m *Manager) Structure(ctx context.Context) (managedgit.Structure, error) {
	return managedgit.Populate(ctx, m.populator)
}

// Repo is a GitLab project handle.
type Repo struct {
	manager *Manager
	id      Identity
}

// Identity returns the project identity.
func (r *Repo) Identity() Identity {
	return r.id
}

// URL returns https://{host}/{group}/{repo}.
func (r *Repo) URL() string {
	return fmt.Sprintf("https://%s/%s/%s", r.manager.server.Host, r.id.Group, r.id.Repo)
}

// EncodedGroupRepo is "group/repo" escaped as one path segment.
func (r *Repo) EncodedGroupRepo() string {
	return url.PathEscape(r.id.Group + "/" + r.id.Repo)
}

// TagsURL is the project's tag listing endpoint.
func (r *Repo) TagsURL() string {
	return r.manager.APIURL("projects/"+r.EncodedGroupRepo()+"/repository/tags", nil)
}

// FilesRawURL is the raw file endpoint for path at ref (DefaultRef when empty).
func (r *Repo) FilesRawURL(path, ref string) string {
	if ref == "" {
		ref = DefaultRef
	}
	return r.manager.APIURL(
		"projects/"+r.EncodedGroupRepo()+"/repository/files/"+url.PathEscape(path)+"/raw",
		url.Values{"ref": []string{ref}},
	)
}

func (r *Repo) log(apiURL string) *slog.Logger {
	return r.manager.logger.With("project", r.id.Group+"/"+r.id.Repo, "url", apiURL)
}

// RepoTags lists the project tags in GitLab order. Transport and shape
// failures are logged at debug level and reported as no tags.
func (r *Repo) RepoTags(ctx context.Context) (*managedgit.TagSet, error) {
	apiURL := r.TagsURL()
	tags, err := httpclient.FetchJSON[[]RepoTag](ctx, r.manager.client, r.manager.request(apiURL), tagsGuard)
	if err != nil {
		r.log(apiURL).DebugContext(ctx, "tag listing unavailable", "error", err)
		return nil, nil //nolint:nilnil // absence
	}

	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return managedgit.NewTagSet(names...), nil
}

// RepoLatestTag returns the first tag GitLab reports, or nil.
func (r *Repo) RepoLatestTag(ctx context.Context) (*managedgit.Tag, error) {
	return managedgit.LatestTag(ctx, r)
}

// Content fetches the raw file at cc.Path and classifies it. A failed
// fetch or an unclassifiable body is absent; enhancer errors are returned.
func (r *Repo) Content(ctx context.Context, cc managedgit.ContentContext) (managedgit.Content, error) {
	apiURL := r.FilesRawURL(cc.Path, cc.BranchOrTag)
	tr, err := r.manager.client.Traverse(ctx, r.manager.request(apiURL))
	if err != nil {
		r.log(apiURL).DebugContext(ctx, "content unavailable", "error", err)
		return nil, nil //nolint:nilnil // absence
	}

	c := managedgit.ResolveContent(cc, tr)
	if c == nil {
		r.log(apiURL).DebugContext(ctx, "content not classifiable", "content_type", tr.ContentType)
		return nil, nil //nolint:nilnil // absence
	}
	return managedgit.Enrich(ctx, cc, c)
}
