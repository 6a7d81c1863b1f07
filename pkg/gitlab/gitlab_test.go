package gitlab_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilsley/gitmanager/pkg/gitlab"
	"github.com/tilsley/gitmanager/pkg/httpclient"
	"github.com/tilsley/gitmanager/pkg/managedgit"
	"github.com/tilsley/gitmanager/pkg/vault"
)

type recorded struct {
	uri   string
	token string
}

type route struct {
	contentType string
	status      int
	body        string
}

// fakeGitLab is a TLS server answering by escaped request URI.
type fakeGitLab struct {
	srv    *httptest.Server
	routes map[string]route

	mu   sync.Mutex
	reqs []recorded
}

func newFakeGitLab(t *testing.T) *fakeGitLab {
	t.Helper()
	f := &fakeGitLab{routes: map[string]route{}}
	f.srv = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.reqs = append(f.reqs, recorded{uri: r.RequestURI, token: r.Header.Get(gitlab.TokenHeader)})
		f.mu.Unlock()
		rt, ok := f.routes[r.RequestURI]
		if !ok {
			http.Error(w, `{"message":"404 Not Found"}`, http.StatusNotFound)
			return
		}
		if rt.contentType != "" {
			w.Header().Set("Content-Type", rt.contentType)
		}
		if rt.status == 0 {
			rt.status = http.StatusOK
		}
		w.WriteHeader(rt.status)
		_, _ = w.Write([]byte(rt.body))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeGitLab) requests() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recorded(nil), f.reqs...)
}

func (f *fakeGitLab) host() string {
	return strings.TrimPrefix(f.srv.URL, "https://")
}

func (f *fakeGitLab) on(uri, contentType, body string) {
	f.routes[uri] = route{contentType: contentType, body: body}
}

func (f *fakeGitLab) manager(token string) *gitlab.Manager {
	server := gitlab.Server{
		Host: f.host(),
		Authn: gitlab.Authn{
			UserName:    vault.NewAttr("GITLAB_TEST_USER", "bot", false),
			AccessToken: vault.NewAttr("GITLAB_TEST_TOKEN", token, true),
		},
	}
	return gitlab.NewManager(server, httpclient.New(f.srv.Client()), nil)
}

func staticServer(host string) gitlab.Server {
	return gitlab.Server{Host: host}
}

// ─── URLs ────────────────────────────────────────────────────────────────────

func TestRepo_URLs(t *testing.T) {
	m := gitlab.NewManager(staticServer("git.example.com"), nil, nil)
	r := m.Repo(gitlab.Identity{Group: "g1/sub", Repo: "proj"})

	assert.Equal(t, "https://git.example.com/g1/sub/proj", r.URL())
	assert.Equal(t, "g1%2Fsub%2Fproj", r.EncodedGroupRepo())
	assert.Equal(t, "https://git.example.com/api/v4/projects/g1%2Fsub%2Fproj/repository/tags", r.TagsURL())
	assert.Equal(t,
		"https://git.example.com/api/v4/projects/g1%2Fsub%2Fproj/repository/files/docs%2FREADME.md/raw?ref=master",
		r.FilesRawURL("docs/README.md", ""))
	assert.Equal(t,
		"https://git.example.com/api/v4/projects/g1%2Fsub%2Fproj/repository/files/a.json/raw?ref=v1.2.0",
		r.FilesRawURL("a.json", "v1.2.0"))
	assert.Equal(t, "https://git.example.com/api/v4/groups?top_level_only=true",
		m.APIURL("groups", map[string][]string{"top_level_only": {"true"}}))
}

// ─── Tags ────────────────────────────────────────────────────────────────────

func TestRepoTags(t *testing.T) {
	f := newFakeGitLab(t)
	f.on("/api/v4/projects/g1%2Fproj/repository/tags", "application/json",
		`[{"name":"v1.3.0","target":"abc"},{"name":"v1.2.0"}]`)
	r := f.manager("glpat-x").Repo(gitlab.Identity{Group: "g1", Repo: "proj"})

	tags, err := r.RepoTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"v1.3.0", "v1.2.0"}, tags.Names())

	latest, err := r.RepoLatestTag(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1.3.0", latest.Name)

	require.Len(t, f.requests(), 2)
	assert.Equal(t, "glpat-x", f.requests()[0].token)
}

func TestRepoTags_AbsentOnFailure(t *testing.T) {
	cases := map[string]route{
		"bad shape":  {contentType: "application/json", body: `[{"id":1}]`},
		"not json":   {contentType: "text/html", body: `<html>sign in</html>`},
		"forbidden":  {contentType: "application/json", status: http.StatusForbidden, body: `{"message":"403"}`},
		"not array":  {contentType: "application/json", body: `{"name":"v1"}`},
		"empty name": {contentType: "application/json", body: `[{"name":""}]`},
	}
	for name, rt := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFakeGitLab(t)
			f.routes["/api/v4/projects/g1%2Fproj/repository/tags"] = rt
			r := f.manager("t").Repo(gitlab.Identity{Group: "g1", Repo: "proj"})

			tags, err := r.RepoTags(context.Background())
			require.NoError(t, err)
			assert.Nil(t, tags)

			latest, err := r.RepoLatestTag(context.Background())
			require.NoError(t, err)
			assert.Nil(t, latest)
		})
	}
}

func TestRepoLatestTag_EmptyIsAbsent(t *testing.T) {
	f := newFakeGitLab(t)
	f.on("/api/v4/projects/g1%2Fproj/repository/tags", "application/json", `[]`)

	tag, err := f.manager("t").Repo(gitlab.Identity{Group: "g1", Repo: "proj"}).RepoLatestTag(context.Background())

	require.NoError(t, err)
	assert.Nil(t, tag)
}

func TestRequests_MissingTokenPlaceholder(t *testing.T) {
	f := newFakeGitLab(t)
	f.on("/api/v4/projects/g1%2Fproj/repository/tags", "application/json", `[]`)

	_, err := f.manager("").Repo(gitlab.Identity{Group: "g1", Repo: "proj"}).RepoTags(context.Background())

	require.NoError(t, err)
	require.Len(t, f.requests(), 1)
	assert.Equal(t, "accessToken?", f.requests()[0].token)
}

// ─── Content ─────────────────────────────────────────────────────────────────

func TestContent_NestedGroupIsOneSegment(t *testing.T) {
	f := newFakeGitLab(t)
	f.on("/api/v4/projects/g1%2Fsub%2Fproj/repository/files/README.md/raw?ref=master", "text/plain", "# proj\n")
	r := f.manager("t").Repo(gitlab.Identity{Group: "g1/sub", Repo: "proj"})

	c, err := r.Content(context.Background(), managedgit.ContentContext{Path: "README.md"})

	require.NoError(t, err)
	tf, ok := c.(*managedgit.TextFile)
	require.True(t, ok)
	assert.Equal(t, "# proj\n", tf.Text())
	assert.Equal(t, "README.md", tf.Path())
	assert.Equal(t, "text/plain", tf.Traverse().ContentType)
	require.Len(t, f.requests(), 1)
	assert.Equal(t, "/api/v4/projects/g1%2Fsub%2Fproj/repository/files/README.md/raw?ref=master", f.requests()[0].uri)
}

func TestContent_LazyJSONForTextBody(t *testing.T) {
	f := newFakeGitLab(t)
	// GitLab serves raw files as text/plain regardless of extension.
	f.on("/api/v4/projects/g1%2Fproj/repository/files/package.json/raw?ref=main", "text/plain", `{"name":"widget"}`)
	r := f.manager("t").Repo(gitlab.Identity{Group: "g1", Repo: "proj"})

	c, err := r.Content(context.Background(), managedgit.ContentContext{Path: "package.json", BranchOrTag: "main"})

	require.NoError(t, err)
	jf, ok := c.(*managedgit.JSONFile)
	require.True(t, ok)
	assert.True(t, jf.Lazy())
	v, err := jf.Value()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "widget"}, v)
}

func TestContent_EagerJSON(t *testing.T) {
	f := newFakeGitLab(t)
	f.on("/api/v4/projects/g1%2Fproj/repository/files/config/raw?ref=master", "application/json", `{"a":1}`)
	r := f.manager("t").Repo(gitlab.Identity{Group: "g1", Repo: "proj"})

	c, err := r.Content(context.Background(), managedgit.ContentContext{Path: "config"})

	require.NoError(t, err)
	jf, ok := c.(*managedgit.JSONFile)
	require.True(t, ok)
	assert.False(t, jf.Lazy())
}

func TestContent_AppliesEnhancer(t *testing.T) {
	f := newFakeGitLab(t)
	f.on("/api/v4/projects/g1%2Fproj/repository/files/package.json/raw?ref=master", "text/plain",
		`{"name":"widget","version":"2.1.0"}`)
	r := f.manager("t").Repo(gitlab.Identity{Group: "g1", Repo: "proj"})

	c, err := r.Content(context.Background(), managedgit.ContentContext{
		Path:     "package.json",
		Enhancer: managedgit.JSONPathEnhancer("version"),
	})

	require.NoError(t, err)
	v, err := c.(*managedgit.JSONFile).Value()
	require.NoError(t, err)
	assert.Equal(t, "2.1.0", v)
}

func TestContent_Absent(t *testing.T) {
	f := newFakeGitLab(t)
	f.on("/api/v4/projects/g1%2Fproj/repository/files/logo.png/raw?ref=master", "image/png", "\x89PNG\r\n\x1a\n\x00\x00")
	r := f.manager("t").Repo(gitlab.Identity{Group: "g1", Repo: "proj"})

	binary, err := r.Content(context.Background(), managedgit.ContentContext{Path: "logo.png"})
	require.NoError(t, err)
	assert.Nil(t, binary)

	missing, err := r.Content(context.Background(), managedgit.ContentContext{Path: "nope.txt"})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestContent_OversizedFileIsAbsent(t *testing.T) {
	f := newFakeGitLab(t)
	f.on("/api/v4/projects/g1%2Fproj/repository/files/dump.txt/raw?ref=master", "text/plain",
		strings.Repeat("x", httpclient.MaxBodyBytes+1))
	r := f.manager("t").Repo(gitlab.Identity{Group: "g1", Repo: "proj"})

	c, err := r.Content(context.Background(), managedgit.ContentContext{Path: "dump.txt"})

	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestContent_NoMemoization(t *testing.T) {
	f := newFakeGitLab(t)
	f.on("/api/v4/projects/g1%2Fproj/repository/files/a.txt/raw?ref=master", "text/plain", "a")
	r := f.manager("t").Repo(gitlab.Identity{Group: "g1", Repo: "proj"})

	_, _ = r.Content(context.Background(), managedgit.ContentContext{Path: "a.txt"})
	_, _ = r.Content(context.Background(), managedgit.ContentContext{Path: "a.txt"})

	assert.Len(t, f.requests(), 2)
}

func TestRepos_NotImplemented(t *testing.T) {
	m := gitlab.NewManager(staticServer("git.example.com"), nil, nil)

	err := m.Repos(context.Background(), func(context.Context, *gitlab.Repo) error { return nil })

	assert.ErrorIs(t, err, managedgit.ErrNotImplemented)
}
