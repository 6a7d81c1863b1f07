package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v75/github"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tilsley/gitmanager/pkg/github"
	"github.com/tilsley/gitmanager/pkg/httpclient"
	"github.com/tilsley/gitmanager/pkg/logging"
)

// deps are the collaborators commands are built from.
type deps struct {
	githubClient func(token, baseURL string) *gogithub.Client
	httpClient   func(timeout time.Duration) httpclient.Client
	logWriter    io.Writer
}

func defaultDeps() deps {
	return deps{
		githubClient: github.NewTokenClient,
		httpClient: func(timeout time.Duration) httpclient.Client {
			return httpclient.NewDefaultClient(timeout)
		},
		logWriter: os.Stderr,
	}
}

// cli carries state shared by every command of one invocation.
type cli struct {
	deps deps
	v    *viper.Viper
	log  *slog.Logger
}

func newRootCmd(d deps) *cobra.Command {
	c := &cli{deps: d, v: viper.New()}
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root := &cobra.Command{
		Use:          "gitmanager",
		Short:        "Inspect managed git repositories on GitHub and GitLab",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			c.log = logging.NewWithWriter(c.deps.logWriter)
		},
	}

	f := root.PersistentFlags()
	f.StringP("output", "o", "json", "Output format (json|yaml)")
	f.Duration("http-timeout", httpclient.DefaultTimeout, "Timeout for each provider request")
	c.bind(root, "output", "http-timeout")

	root.AddCommand(c.githubCmd(), c.gitlabCmd())
	return root
}

// bind exposes flags through viper so they can also come from the
// environment (e.g. --github-token from GITHUB_TOKEN).
func (c *cli) bind(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		fl := cmd.PersistentFlags().Lookup(name)
		if fl == nil {
			fl = cmd.Flags().Lookup(name)
		}
		if err := c.v.BindPFlag(name, fl); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}
}

func (c *cli) logger() *slog.Logger {
	if c.log == nil {
		c.log = logging.NewWithWriter(c.deps.logWriter)
	}
	return c.log
}

func (c *cli) outputFormat() (string, error) {
	switch format := c.v.GetString("output"); format {
	case "json", "yaml":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want json or yaml)", format)
	}
}
