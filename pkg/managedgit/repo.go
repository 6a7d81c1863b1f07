// Package managedgit defines the provider-agnostic contract for git
// repositories hosted behind a web API ("managed" repositories: GitHub,
// GitLab and similar), together with the content classifier and the
// organizational structure tree shared by all provider adapters.
//
// Absence is a nil result with a nil error. Operations a provider does not
// support fail with an error wrapping ErrNotImplemented.
package managedgit

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotImplemented is wrapped by every operation a provider does not support.
var ErrNotImplemented = errors.New("not implemented")

// NotImplemented returns an error for op that matches ErrNotImplemented.
func NotImplemented(provider, op string) error {
	return fmt.Errorf("%s: %s: %w", provider, op, ErrNotImplemented)
}

// Repo is a remote repository handle. Constructing one performs no I/O;
// every method except URL issues exactly one request per call.
type Repo interface {
	// URL returns the browsable repository URL. It is pure.
	URL() string

	// RepoTags lists tags in provider order. nil means no tags could be read.
	RepoTags(ctx context.Context) (*TagSet, error)

	// RepoLatestTag returns the first tag reported by the provider, or nil.
	RepoLatestTag(ctx context.Context) (*Tag, error)

	// Content fetches and classifies the file described by cc. nil means no
	// classifiable content.
	Content(ctx context.Context, cc ContentContext) (Content, error)
}

// RepoHandler is invoked once per repository during enumeration.
type RepoHandler[R Repo] func(ctx context.Context, repo R) error

// Manager is a hosting provider: it hands out repository handles for a
// provider-specific identity and can describe its organizational structure.
type Manager[I any, R Repo] interface {
	Repo(identity I) R
	Repos(ctx context.Context, handle RepoHandler[R]) error
	Structure(ctx context.Context) (Structure, error)
}

// TagLister is the subset of Repo that LatestTag needs.
type TagLister interface {
	RepoTags(ctx context.Context) (*TagSet, error)
}

// LatestTag delegates to RepoTags and returns element 0. Providers report
// tags most-recent-first; the order is trusted, never re-sorted.
func LatestTag(ctx context.Context, repo TagLister) (*Tag, error) {
	tags, err := repo.RepoTags(ctx)
	if err != nil {
		return nil, err
	}
	latest, ok := tags.Latest()
	if !ok {
		return nil, nil //nolint:nilnil // nil tag means "no tags"
	}
	return &latest, nil
}
