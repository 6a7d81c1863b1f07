package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/tilsley/gitmanager/apps/server/internal/inspect"
)

// Handler translates HTTP requests into calls on the inspect.Service.
type Handler struct {
	svc *inspect.Service
	log *slog.Logger
}

// RegisterRoutes mounts the inspection API onto the given Gin engine.
func RegisterRoutes(r *gin.Engine, svc *inspect.Service, log *slog.Logger) {
	h := &Handler{svc: svc, log: log}

	r.GET("/health", h.Health)

	// GitHub
	r.GET("/github/repos/:org/:repo", h.GitHubRepo)
	r.GET("/github/repos/:org/:repo/tags", h.GitHubTags)
	r.GET("/github/repos/:org/:repo/tags/latest", h.GitHubLatestTag)
	r.GET("/github/repos/:org/:repo/content", h.GitHubContent)

	// GitLab (project identity in the query so nested groups need no escaping)
	r.GET("/gitlab/:hostId/groups", h.GitLabGroups)
	r.GET("/gitlab/:hostId/projects/tags", h.GitLabTags)
	r.GET("/gitlab/:hostId/projects/tags/latest", h.GitLabLatestTag)
	r.GET("/gitlab/:hostId/projects/content", h.GitLabContent)
}
