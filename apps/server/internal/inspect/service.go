// Package inspect exposes managed repositories through one provider-agnostic
// service: every operation takes a managedgit.Repo and does not care which
// provider produced it.
package inspect

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tilsley/gitmanager/pkg/github"
	"github.com/tilsley/gitmanager/pkg/gitlab"
	"github.com/tilsley/gitmanager/pkg/managedgit"
)

const (
	kindText = "text"
	kindJSON = "json"
)

// ContentRequest selects a file and an optional gjson query.
type ContentRequest struct {
	Path  string
	Ref   string
	Query string
}

// ContentView is the serializable form of managedgit.Content.
type ContentView struct {
	Path        string `json:"path" yaml:"path"`
	Kind        string `json:"kind" yaml:"kind"`
	ContentType string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Text        string `json:"text,omitempty" yaml:"text,omitempty"`
	Value       any    `json:"value,omitempty" yaml:"value,omitempty"`
}

// MarshalJSON always emits value for json views, so a null document stays
// distinguishable from a text view.
func (v ContentView) MarshalJSON() ([]byte, error) {
	type plain ContentView
	if v.Kind != kindJSON {
		return json.Marshal(plain(v))
	}
	return json.Marshal(struct {
		plain
		Value any `json:"value"`
	}{plain(v), v.Value})
}

// StructureView is the serializable form of managedgit.Structure.
type StructureView struct {
	Components []managedgit.Node `json:"components" yaml:"components"`
}

// Service resolves repositories and runs contract operations on them.
type Service struct {
	github *github.Manager
	gitlab GitLabHosts
}

// NewService wires the provider managers.
func NewService(gh *github.Manager, gl GitLabHosts) *Service {
	return &Service{github: gh, gitlab: gl}
}

// GitHubRepo returns the handle for org/repo.
func (s *Service) GitHubRepo(org, repo string) managedgit.Repo {
	return s.github.Repo(github.Identity{Org: org, Repo: repo})
}

// GitLabRepo returns the handle for group/repo on hostID.
func (s *Service) GitLabRepo(hostID, group, repo string) (managedgit.Repo, error) {
	m, err := s.gitLabManager(hostID)
	if err != nil {
		return nil, err
	}
	return m.Repo(gitlab.Identity{Group: group, Repo: repo}), nil
}

func (s *Service) gitLabManager(hostID string) (*gitlab.Manager, error) {
	if s.gitlab == nil {
		return nil, HostNotFoundError{HostID: hostID}
	}
	m, ok := s.gitlab.Manager(hostID)
	if !ok {
		return nil, HostNotFoundError{HostID: hostID}
	}
	return m, nil
}

// Tags lists repo's tags. No tags is an AbsentError.
func (s *Service) Tags(ctx context.Context, repo managedgit.Repo) (*managedgit.TagSet, error) {
	tags, err := repo.RepoTags(ctx)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		return nil, AbsentError{What: "tags", URL: repo.URL()}
	}
	return tags, nil
}

// LatestTag returns repo's most recent tag. No tag is an AbsentError.
func (s *Service) LatestTag(ctx context.Context, repo managedgit.Repo) (*managedgit.Tag, error) {
	tag, err := repo.RepoLatestTag(ctx)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, AbsentError{What: "latest tag", URL: repo.URL()}
	}
	return tag, nil
}

// Content fetches and renders a file. JSON values are parsed here, so a
// deferred parse failure surfaces as ContentParseError.
func (s *Service) Content(ctx context.Context, repo managedgit.Repo, req ContentRequest) (*ContentView, error) {
	cc := managedgit.ContentContext{Path: req.Path, BranchOrTag: req.Ref}
	if req.Query != "" {
		cc.Enhancer = managedgit.JSONPathEnhancer(req.Query)
	}

	content, err := repo.Content(ctx, cc)
	if err != nil {
		return nil, err
	}
	view, err := Render(content)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, AbsentError{What: "content at " + req.Path, URL: repo.URL()}
	}
	return view, nil
}

// Render converts content to a view. Absent content renders as nil.
func Render(content managedgit.Content) (*ContentView, error) {
	var contentType string
	if content != nil && content.Traverse() != nil {
		contentType = content.Traverse().ContentType
	}

	switch c := content.(type) {
	case *managedgit.TextFile:
		return &ContentView{Path: c.Path(), Kind: kindText, ContentType: contentType, Text: c.Text()}, nil
	case *managedgit.JSONFile:
		v, err := c.Value()
		if err != nil {
			return nil, ContentParseError{Path: c.Path(), Err: err}
		}
		return &ContentView{Path: c.Path(), Kind: kindJSON, ContentType: contentType, Value: v}, nil
	case nil:
		return nil, nil //nolint:nilnil // absent content
	default:
		return nil, fmt.Errorf("unsupported content %T", content)
	}
}

// Groups returns the top-level groups of hostID.
func (s *Service) Groups(ctx context.Context, hostID string) (*StructureView, error) {
	m, err := s.gitLabManager(hostID)
	if err != nil {
		return nil, err
	}
	structure, err := m.Structure(ctx)
	if err != nil {
		return nil, err
	}
	return &StructureView{Components: structure.Components()}, nil
}
