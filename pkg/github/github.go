// Package github adapts the GitHub REST API to the managedgit contract.
//
// Tag listing goes through go-github; content retrieval, repository
// enumeration and structure discovery are not supported and fail with
// managedgit.ErrNotImplemented.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	gogithub "github.com/google/go-github/v75/github"

	"github.com/tilsley/gitmanager/pkg/httpclient"
	"github.com/tilsley/gitmanager/pkg/managedgit"
)

const (
	provider = "github"
	webURL   = "https://github.com"
)

var tagsGuard = httpclient.MustSchemaGuard("github-tags", httpclient.NamedArraySchema)

// Identity names a GitHub repository.
type Identity struct {
	Org  string `json:"org" yaml:"org"`
	Repo string `json:"repo" yaml:"repo"`
}

// Manager hands out GitHub repository handles.
type Manager struct {
	gh     *gogithub.Client
	logger *slog.Logger
}

// Compile-time checks.
var (
	_ managedgit.Manager[Identity, *Repo] = (*Manager)(nil)
	_ managedgit.Repo                     = (*Repo)(nil)
)

// NewManager wraps a go-github client. A nil client talks to the public API
// anonymously; a nil logger uses slog.Default().
func NewManager(gh *gogithub.Client, logger *slog.Logger) *Manager {
	if gh == nil {
		gh = gogithub.NewClient(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{gh: gh, logger: logger.With("provider", provider)}
}

// Repo returns a handle for id. No request is made.
func (m *Manager) Repo(id Identity) *Repo {
	return &Repo{id: id, gh: m.gh, logger: m.logger}
}

// Repos is not supported for GitHub.
func (m *Manager) Repos(_ context.Context, _ managedgit.RepoHandler[*Repo]) error {
	return managedgit.NotImplemented(provider, "repos")
}

// Structure is not supported for GitHub.
func (m *Manager) Structure(_ context.Context) (managedgit.Structure, error) {
	return managedgit.Structure{}, managedgit.NotImplemented(provider, "structure")
}

// Repo is a GitHub repository handle.
type Repo struct {
	id     Identity
	gh     *gogithub.Client
	logger *slog.Logger
}

// Identity returns the repository identity.
func (r *Repo) Identity() Identity {
	return r.id
}

// URL returns https://github.com/{org}/{repo}.
func (r *Repo) URL() string {
	return fmt.Sprintf("%s/%s/%s", webURL, r.id.Org, r.id.Repo)
}

// APIURL returns the REST endpoint for suffix under this repository, e.g.
// APIURL("tags") for the tag listing.
func (r *Repo) APIURL(suffix string) string {
	return r.gh.BaseURL.String() + r.apiPath(suffix)
}

func (r *Repo) apiPath(suffix string) string {
	return fmt.Sprintf("repos/%s/%s/%s", url.PathEscape(r.id.Org), url.PathEscape(r.id.Repo), suffix)
}

// RepoTags lists the repository tags in GitHub order. Transport and shape
// failures are logged at debug level and reported as no tags.
func (r *Repo) RepoTags(ctx context.Context) (*managedgit.TagSet, error) {
	endpoint := r.APIURL("tags")
	log := r.logger.With("url", endpoint)

	req, err := r.gh.NewRequest(http.MethodGet, r.apiPath("tags"), nil)
	if err != nil {
		log.DebugContext(ctx, "tag request not built", "error", err)
		return nil, nil //nolint:nilnil // absence
	}

	var raw json.RawMessage
	if _, err := r.gh.Do(ctx, req, &raw); err != nil {
		log.DebugContext(ctx, "tag listing failed", "error", err)
		return nil, nil //nolint:nilnil // absence
	}
	if err := tagsGuard.Check(raw); err != nil {
		log.DebugContext(ctx, "tag listing rejected", "guard", tagsGuard.Name(), "error", err)
		return nil, nil //nolint:nilnil // absence
	}

	var tags []*gogithub.RepositoryTag
	if err := json.Unmarshal(raw, &tags); err != nil {
		log.DebugContext(ctx, "tag listing undecodable", "error", err)
		return nil, nil //nolint:nilnil // absence
	}

	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.GetName())
	}
	return managedgit.NewTagSet(names...), nil
}

// RepoLatestTag returns the first tag GitHub reports, or nil.
func (r *Repo) RepoLatestTag(ctx context.Context) (*managedgit.Tag, error) {
	return managedgit.LatestTag(ctx, r)
}

// Content is not supported for GitHub.
func (r *Repo) Content(_ context.Context, _ managedgit.ContentContext) (managedgit.Content, error) {
	return nil, managedgit.NotImplemented(provider, "content")
}
