package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tilsley/gitmanager/apps/server/internal/inspect"
	"github.com/tilsley/gitmanager/apps/server/internal/inspect/handler"
	"github.com/tilsley/gitmanager/apps/server/internal/platform/telemetry"
	"github.com/tilsley/gitmanager/apps/server/internal/platform/validation"
	"github.com/tilsley/gitmanager/apps/server/schemas"
	"github.com/tilsley/gitmanager/pkg/github"
	"github.com/tilsley/gitmanager/pkg/gitlab"
	"github.com/tilsley/gitmanager/pkg/httpclient"
	"github.com/tilsley/gitmanager/pkg/logging"
)

func main() {
	log := logging.New()
	slog.SetDefault(log)

	// --- Observability ---

	ctx := context.Background()
	tel, err := telemetry.New(ctx, os.Getenv("OTEL_ENABLED") == "true")
	if err != nil {
		log.Error("telemetry init failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Error("telemetry shutdown failed", "error", err)
		}
	}()

	// --- Providers ---

	timeout, err := time.ParseDuration(envOr("HTTP_TIMEOUT", "30s"))
	if err != nil {
		log.Error("invalid HTTP_TIMEOUT", "error", err)
		os.Exit(1)
	}

	gh := github.NewManager(github.NewTokenClient(os.Getenv("GITHUB_TOKEN"), os.Getenv("GITHUB_API_URL")), log)

	hosts := inspect.LoadGitLabHosts(
		gitlab.NewAuthnEnvVault(nil),
		splitList(os.Getenv("GITLAB_HOST_IDS")),
		httpclient.NewDefaultClient(timeout),
		log,
	)

	svc := inspect.NewService(gh, hosts)

	// --- HTTP ---

	router := gin.New()

	validator, err := validation.New(schemas.OpenAPISpec)
	if err != nil {
		log.Error("openapi validation middleware init failed", "error", err)
		os.Exit(1) //nolint:gocritic // telemetry has nothing to flush yet
	}

	router.Use(gin.Recovery(), otelgin.Middleware(telemetry.ServiceName()), validator)
	handler.RegisterRoutes(router, svc, log)

	port := envOr("PORT", "8080")
	log.Info("starting gitmanager server", "port", port, "gitlabHosts", hosts.IDs())
	if err := router.Run(":" + port); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
