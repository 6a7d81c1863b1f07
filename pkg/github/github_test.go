package github_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilsley/gitmanager/pkg/github"
	"github.com/tilsley/gitmanager/pkg/managedgit"
)

// tagsServer serves body with status for GET /repos/acme/widget/tags and
// counts hits.
func tagsServer(t *testing.T, status int, body string) (*httptest.Server, *int) {
	t.Helper()
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/acme/widget/tags" {
			http.NotFound(w, r)
			return
		}
		hits++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func repo(srv *httptest.Server) *github.Repo {
	m := github.NewManager(github.NewAnonymousClient(srv.URL), nil)
	return m.Repo(github.Identity{Org: "acme", Repo: "widget"})
}

// ─── URL ─────────────────────────────────────────────────────────────────────

func TestRepo_URL(t *testing.T) {
	r := github.NewManager(nil, nil).Repo(github.Identity{Org: "acme", Repo: "widget"})

	assert.Equal(t, "https://github.com/acme/widget", r.URL())
	assert.Equal(t, "https://api.github.com/repos/acme/widget/tags", r.APIURL("tags"))
}

func TestRepo_APIURLFollowsBaseURL(t *testing.T) {
	gh := github.NewAnonymousClient("https://ghe.example.com/api/v3")
	r := github.NewManager(gh, nil).Repo(github.Identity{Org: "acme", Repo: "widget"})

	assert.Equal(t, "https://ghe.example.com/api/v3/repos/acme/widget/tags", r.APIURL("tags"))
	assert.Equal(t, "https://github.com/acme/widget", r.URL())
}

// ─── Tags ────────────────────────────────────────────────────────────────────

func TestRepoTags_PreservesOrder(t *testing.T) {
	srv, hits := tagsServer(t, http.StatusOK, `[{"name":"v1.2.0","commit":{"sha":"abc"}},{"name":"v1.10.0"},{"name":"v1.1.0"}]`)

	tags, err := repo(srv).RepoTags(context.Background())

	require.NoError(t, err)
	require.NotNil(t, tags)
	assert.Equal(t, []string{"v1.2.0", "v1.10.0", "v1.1.0"}, tags.Names())
	assert.Equal(t, 1, *hits)
}

func TestRepoTags_EmptyList(t *testing.T) {
	srv, _ := tagsServer(t, http.StatusOK, `[]`)

	tags, err := repo(srv).RepoTags(context.Background())

	require.NoError(t, err)
	require.NotNil(t, tags)
	assert.Equal(t, 0, tags.Len())
}

func TestRepoTags_AbsentOnFailure(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
	}{
		"not found":    {http.StatusNotFound, `{"message":"Not Found"}`},
		"server error": {http.StatusInternalServerError, `{}`},
		"not an array": {http.StatusOK, `{"name":"v1"}`},
		"missing name": {http.StatusOK, `[{"name":"v1"},{"commit":{}}]`},
		"empty name":   {http.StatusOK, `[{"name":""}]`},
		"not json":     {http.StatusOK, `<html>`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv, _ := tagsServer(t, tc.status, tc.body)

			tags, err := repo(srv).RepoTags(context.Background())

			require.NoError(t, err)
			assert.Nil(t, tags)
		})
	}
}

func TestRepoTags_AbsentWhenUnreachable(t *testing.T) {
	srv, _ := tagsServer(t, http.StatusOK, `[]`)
	r := repo(srv)
	srv.Close()

	tags, err := r.RepoTags(context.Background())

	require.NoError(t, err)
	assert.Nil(t, tags)
}

func TestRepoTags_AbsentWhenRequestCannotBeBuilt(t *testing.T) {
	srv, hits := tagsServer(t, http.StatusOK, `[{"name":"v1"}]`)
	gh := github.NewAnonymousClient(srv.URL)
	gh.BaseURL.Path = "" // go-github requires a trailing slash
	r := github.NewManager(gh, nil).Repo(github.Identity{Org: "acme", Repo: "widget"})

	tags, err := r.RepoTags(context.Background())

	require.NoError(t, err)
	assert.Nil(t, tags)
	assert.Zero(t, *hits)
}

func TestRepoTags_NoMemoization(t *testing.T) {
	srv, hits := tagsServer(t, http.StatusOK, `[{"name":"v1"}]`)
	r := repo(srv)

	_, _ = r.RepoTags(context.Background())
	_, _ = r.RepoTags(context.Background())

	assert.Equal(t, 2, *hits)
}

func TestRepoLatestTag(t *testing.T) {
	srv, _ := tagsServer(t, http.StatusOK, `[{"name":"v2.0.0"},{"name":"v1.0.0"}]`)

	tag, err := repo(srv).RepoLatestTag(context.Background())

	require.NoError(t, err)
	require.NotNil(t, tag)
	assert.Equal(t, "v2.0.0", tag.Name)
}

func TestRepoLatestTag_AbsentWhenEmpty(t *testing.T) {
	srv, _ := tagsServer(t, http.StatusOK, `[]`)

	tag, err := repo(srv).RepoLatestTag(context.Background())

	require.NoError(t, err)
	assert.Nil(t, tag)
}

func TestTokenClient_SendsBearerToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	m := github.NewManager(github.NewTokenClient("ghp_test", srv.URL), nil)
	_, err := m.Repo(github.Identity{Org: "acme", Repo: "widget"}).RepoTags(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Bearer ghp_test", auth)
}

// ─── Unsupported operations ─────────────────────────────────────────────────

func TestUnsupportedOperations(t *testing.T) {
	m := github.NewManager(nil, nil)
	r := m.Repo(github.Identity{Org: "acme", Repo: "widget"})

	c, err := r.Content(context.Background(), managedgit.ContentContext{Path: "README.md"})
	assert.Nil(t, c)
	assert.ErrorIs(t, err, managedgit.ErrNotImplemented)

	err = m.Repos(context.Background(), func(context.Context, *github.Repo) error { return nil })
	assert.ErrorIs(t, err, managedgit.ErrNotImplemented)

	_, err = m.Structure(context.Background())
	assert.ErrorIs(t, err, managedgit.ErrNotImplemented)
}

// ─── App client ──────────────────────────────────────────────────────────────

func TestNewAppClient(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "app.pem")
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	require.NoError(t, os.WriteFile(path, pemBytes, 0o600))

	gh, err := github.NewAppClient(1, 2, path, "https://ghe.example.com/api/v3")

	require.NoError(t, err)
	assert.Equal(t, "https://ghe.example.com/api/v3/", gh.BaseURL.String())
}

func TestNewAppClient_MissingKey(t *testing.T) {
	_, err := github.NewAppClient(1, 2, filepath.Join(t.TempDir(), "missing.pem"), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "github app auth")
}
