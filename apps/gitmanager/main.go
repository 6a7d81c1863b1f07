// gitmanager queries tags, files and group structure of managed repositories
// on GitHub and GitLab.
//
// Usage:
//
//	gitmanager github url <org> <repo>
//	gitmanager github tags <org> <repo>
//	gitmanager github latest-tag <org> <repo>
//	gitmanager gitlab tags <group> <repo> --gitlab-host-id=PROD
//	gitmanager gitlab content <group> <repo> <path> [--ref=<ref>] [--query=<gjson>] --gitlab-host-id=PROD
//	gitmanager gitlab groups --gitlab-host-id=PROD
//
// GitLab credentials come from GITLAB_<HOSTID>_HOST, GITLAB_<HOSTID>_USER and
// GITLAB_<HOSTID>_TOKEN (or GITLAB_SECRET_<HOSTID>_TOKEN).
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(defaultDeps()).Execute(); err != nil {
		os.Exit(1)
	}
}
