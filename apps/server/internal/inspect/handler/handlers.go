package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tilsley/gitmanager/apps/server/internal/inspect"
	"github.com/tilsley/gitmanager/pkg/managedgit"
)

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GitHubRepo handles GET /github/repos/:org/:repo and returns the browsable URL.
// No request is made to GitHub.
func (h *Handler) GitHubRepo(c *gin.Context) {
	repo := h.svc.GitHubRepo(c.Param("org"), c.Param("repo"))
	c.JSON(http.StatusOK, gin.H{"url": repo.URL()})
}

// GitHubTags handles GET /github/repos/:org/:repo/tags.
func (h *Handler) GitHubTags(c *gin.Context) {
	h.tags(c, h.svc.GitHubRepo(c.Param("org"), c.Param("repo")))
}

// GitHubLatestTag handles GET /github/repos/:org/:repo/tags/latest.
func (h *Handler) GitHubLatestTag(c *gin.Context) {
	h.latestTag(c, h.svc.GitHubRepo(c.Param("org"), c.Param("repo")))
}

// GitHubContent handles GET /github/repos/:org/:repo/content. GitHub content
// is not supported, so this reports 501.
func (h *Handler) GitHubContent(c *gin.Context) {
	h.content(c, h.svc.GitHubRepo(c.Param("org"), c.Param("repo")))
}

// GitLabGroups handles GET /gitlab/:hostId/groups. Only top-level groups are listed.
func (h *Handler) GitLabGroups(c *gin.Context) {
	hostID := c.Param("hostId")
	trace.SpanFromContext(c.Request.Context()).SetAttributes(attribute.String("gitlab.host_id", hostID))

	view, err := h.svc.Groups(c.Request.Context(), hostID)
	if err != nil {
		h.fail(c, "failed to list groups", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GitLabTags handles GET /gitlab/:hostId/projects/tags?group=&repo=.
func (h *Handler) GitLabTags(c *gin.Context) {
	if repo, ok := h.gitLabRepo(c); ok {
		h.tags(c, repo)
	}
}

// GitLabLatestTag handles GET /gitlab/:hostId/projects/tags/latest?group=&repo=.
func (h *Handler) GitLabLatestTag(c *gin.Context) {
	if repo, ok := h.gitLabRepo(c); ok {
		h.latestTag(c, repo)
	}
}

// GitLabContent handles GET /gitlab/:hostId/projects/content?group=&repo=&path=&ref=&query=.
func (h *Handler) GitLabContent(c *gin.Context) {
	if repo, ok := h.gitLabRepo(c); ok {
		h.content(c, repo)
	}
}

func (h *Handler) gitLabRepo(c *gin.Context) (managedgit.Repo, bool) {
	hostID := c.Param("hostId")
	group, name := c.Query("group"), c.Query("repo")
	trace.SpanFromContext(c.Request.Context()).SetAttributes(
		attribute.String("gitlab.host_id", hostID),
		attribute.String("gitlab.project", group+"/"+name),
	)

	repo, err := h.svc.GitLabRepo(hostID, group, name)
	if err != nil {
		h.fail(c, "failed to resolve project", err)
		return nil, false
	}
	return repo, true
}

func (h *Handler) tags(c *gin.Context, repo managedgit.Repo) {
	tags, err := h.svc.Tags(c.Request.Context(), repo)
	if err != nil {
		h.fail(c, "failed to list tags", err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *Handler) latestTag(c *gin.Context, repo managedgit.Repo) {
	tag, err := h.svc.LatestTag(c.Request.Context(), repo)
	if err != nil {
		h.fail(c, "failed to get latest tag", err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *Handler) content(c *gin.Context, repo managedgit.Repo) {
	view, err := h.svc.Content(c.Request.Context(), repo, inspect.ContentRequest{
		Path:  c.Query("path"),
		Ref:   c.Query("ref"),
		Query: c.Query("query"),
	})
	if err != nil {
		h.fail(c, "failed to get content", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// fail maps service errors to status codes.
func (h *Handler) fail(c *gin.Context, msg string, err error) {
	var hostNotFound inspect.HostNotFoundError
	var absent inspect.AbsentError
	var parse inspect.ContentParseError
	switch {
	case errors.As(err, &hostNotFound), errors.As(err, &absent):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, managedgit.ErrNotImplemented):
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
	case errors.As(err, &parse):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.log.ErrorContext(c.Request.Context(), msg, "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
