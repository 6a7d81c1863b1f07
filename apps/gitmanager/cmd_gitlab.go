package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tilsley/gitmanager/pkg/gitlab"
	"github.com/tilsley/gitmanager/pkg/managedgit"
	"github.com/tilsley/gitmanager/pkg/vault"
)

func (c *cli) gitlabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitlab",
		Short: "Query GitLab projects and groups",
	}
	f := cmd.PersistentFlags()
	f.String("gitlab-host-id", "", "Host ID selecting GITLAB_<ID>_HOST/_USER/_TOKEN (env GITLAB_HOST_ID)")
	f.String("gitlab-default-host", "", "Hostname used when GITLAB_<ID>_HOST is unset")
	c.bind(cmd, "gitlab-host-id", "gitlab-default-host")

	resolve := func(_ *cobra.Command, args []string) (managedgit.Repo, error) {
		m, err := c.gitlabManager()
		if err != nil {
			return nil, err
		}
		return m.Repo(gitlab.Identity{Group: args[0], Repo: args[1]}), nil
	}
	cmd.AddCommand(c.repoCommands("<group> <repo>", resolve)...)
	cmd.AddCommand(c.groupsCmd())
	return cmd
}

func (c *cli) groupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "List top-level groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := c.gitlabManager()
			if err != nil {
				return err
			}
			s, err := m.Structure(cmd.Context())
			if err != nil {
				return err
			}
			return c.write(cmd.OutOrStdout(), s.Components())
		},
	}
}

func (c *cli) gitlabManager() (*gitlab.Manager, error) {
	hostID := vault.EnvKey(c.v.GetString("gitlab-host-id"))
	if hostID == "" {
		return nil, fmt.Errorf("--gitlab-host-id is required")
	}
	server, ok := gitlab.NewAuthnEnvVault(nil).Server(hostID, c.v.GetString("gitlab-default-host"))
	if !ok {
		return nil, fmt.Errorf("gitlab host %s is not configured: set %s%s_HOST, %s%s_USER and %s%s_TOKEN",
			hostID,
			gitlab.CommonNamespace, hostID,
			gitlab.CommonNamespace, hostID,
			gitlab.CommonNamespace, hostID)
	}
	client := c.deps.httpClient(c.v.GetDuration("http-timeout"))
	return gitlab.NewManager(*server, client, c.logger()), nil
}
