package main

import (
	"github.com/spf13/cobra"

	"github.com/tilsley/gitmanager/pkg/github"
	"github.com/tilsley/gitmanager/pkg/managedgit"
)

func (c *cli) githubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "github",
		Short: "Query GitHub repositories",
	}
	f := cmd.PersistentFlags()
	f.String("github-token", "", "Personal access token (env GITHUB_TOKEN); anonymous when empty")
	f.String("github-api-url", "", "REST API base URL (env GITHUB_API_URL); public GitHub when empty")
	c.bind(cmd, "github-token", "github-api-url")

	resolve := func(_ *cobra.Command, args []string) (managedgit.Repo, error) {
		gh := c.deps.githubClient(c.v.GetString("github-token"), c.v.GetString("github-api-url"))
		m := github.NewManager(gh, c.logger())
		return m.Repo(github.Identity{Org: args[0], Repo: args[1]}), nil
	}
	cmd.AddCommand(c.repoCommands("<org> <repo>", resolve)...)
	return cmd
}
