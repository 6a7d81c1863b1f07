// Command mock-github serves a seeded, in-memory subset of the GitHub REST
// API (repository tags) so the inspection server can run locally with
// GITHUB_API_URL pointing at it.
package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/tilsley/gitmanager/pkg/logging"
)

// Commit is the abbreviated commit object GitHub embeds in a tag.
type Commit struct {
	SHA string `json:"sha"`
	URL string `json:"url"`
}

// Tag mirrors one element of GET /repos/{owner}/{repo}/tags.
type Tag struct {
	Name       string `json:"name"`
	Commit     Commit `json:"commit"`
	ZipballURL string `json:"zipball_url"`
	TarballURL string `json:"tarball_url"`
}

// CreateTagRequest is the body of POST /repos/{owner}/{repo}/tags. The
// real API has no such endpoint; it lets local runs publish new tags.
type CreateTagRequest struct {
	Name string `json:"name" binding:"required"`
	SHA  string `json:"sha"`
}

// store holds tags keyed by "owner/repo", newest first.
type store struct {
	mu      sync.RWMutex
	baseURL string
	tags    map[string][]Tag
}

func newStore(baseURL string) *store {
	return &store{baseURL: baseURL, tags: make(map[string][]Tag)}
}

func (s *store) tag(owner, repo, name, sha string) Tag {
	key := owner + "/" + repo
	return Tag{
		Name: name,
		Commit: Commit{
			SHA: sha,
			URL: fmt.Sprintf("%s/repos/%s/commits/%s", s.baseURL, key, sha),
		},
		ZipballURL: fmt.Sprintf("%s/repos/%s/zipball/refs/tags/%s", s.baseURL, key, name),
		TarballURL: fmt.Sprintf("%s/repos/%s/tarball/refs/tags/%s", s.baseURL, key, name),
	}
}

// push records a tag as the newest one. An existing tag of the same name
// is replaced.
func (s *store) push(owner, repo, name, sha string) Tag {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := owner + "/" + repo
	t := s.tag(owner, repo, name, sha)
	kept := []Tag{t}
	for _, existing := range s.tags[key] {
		if existing.Name != name {
			kept = append(kept, existing)
		}
	}
	s.tags[key] = kept
	return t
}

// list reports the tags of a repository and whether the repository exists.
func (s *store) list(owner, repo string) ([]Tag, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tags, ok := s.tags[owner+"/"+repo]
	if !ok {
		return nil, false
	}
	out := make([]Tag, len(tags))
	copy(out, tags)
	return out, true
}

func main() {
	log := logging.New()

	port := os.Getenv("PORT")
	if port == "" {
		port = "9090"
	}

	s := newStore("http://localhost:" + port)
	seedRepos(s)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	registerAPIRoutes(r, s, log)

	log.Info("mock-github starting", "port", port)
	if err := r.Run(":" + port); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func registerAPIRoutes(r *gin.Engine, s *store, log *slog.Logger) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/repos/:owner/:repo/tags", func(c *gin.Context) {
		owner, repo := c.Param("owner"), c.Param("repo")
		tags, ok := s.list(owner, repo)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"message":           "Not Found",
				"documentation_url": "https://docs.github.com/rest/repos/repos#list-repository-tags",
			})
			return
		}
		c.JSON(http.StatusOK, tags)
	})

	r.POST("/repos/:owner/:repo/tags", func(c *gin.Context) {
		owner, repo := c.Param("owner"), c.Param("repo")
		var req CreateTagRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		t := s.push(owner, repo, req.Name, req.SHA)
		log.Info("tag pushed", "owner", owner, "repo", repo, "tag", t.Name)
		c.JSON(http.StatusCreated, t)
	})
}
