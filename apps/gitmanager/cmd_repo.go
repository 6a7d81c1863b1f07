package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tilsley/gitmanager/pkg/managedgit"
)

// repoResolver turns positional arguments into a repository handle.
type repoResolver func(cmd *cobra.Command, args []string) (managedgit.Repo, error)

// repoCommands builds the provider-independent repository commands. idArgs
// names the positional identity arguments, e.g. "<org> <repo>".
func (c *cli) repoCommands(idArgs string, resolve repoResolver) []*cobra.Command {
	urlCmd := &cobra.Command{
		Use:   "url " + idArgs,
		Short: "Print the browsable repository URL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := resolve(cmd, args)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), repo.URL())
			return err
		},
	}

	tagsCmd := &cobra.Command{
		Use:   "tags " + idArgs,
		Short: "List tags in provider order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := resolve(cmd, args)
			if err != nil {
				return err
			}
			tags, err := repo.RepoTags(cmd.Context())
			if err != nil {
				return err
			}
			if tags == nil {
				return fmt.Errorf("no tags found for %s", repo.URL())
			}
			return c.write(cmd.OutOrStdout(), tags)
		},
	}

	latestCmd := &cobra.Command{
		Use:   "latest-tag " + idArgs,
		Short: "Print the most recent tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := resolve(cmd, args)
			if err != nil {
				return err
			}
			tag, err := repo.RepoLatestTag(cmd.Context())
			if err != nil {
				return err
			}
			if tag == nil {
				return fmt.Errorf("no tags found for %s", repo.URL())
			}
			return c.write(cmd.OutOrStdout(), tag)
		},
	}

	var contentFlags struct {
		ref   string
		query string
	}
	contentCmd := &cobra.Command{
		Use:   "content " + idArgs + " <path>",
		Short: "Fetch a file; text is printed verbatim, JSON in the output format",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := resolve(cmd, args[:2])
			if err != nil {
				return err
			}
			cc := managedgit.ContentContext{Path: args[2], BranchOrTag: contentFlags.ref}
			if contentFlags.query != "" {
				cc.Enhancer = managedgit.JSONPathEnhancer(contentFlags.query)
			}
			content, err := repo.Content(cmd.Context(), cc)
			if err != nil {
				return err
			}
			return c.writeContent(cmd.OutOrStdout(), repo, cc, content)
		},
	}
	contentCmd.Flags().StringVar(&contentFlags.ref, "ref", "", "Branch or tag (provider default when empty)")
	contentCmd.Flags().StringVar(&contentFlags.query, "query", "", "gjson path applied to JSON content")

	return []*cobra.Command{urlCmd, tagsCmd, latestCmd, contentCmd}
}

func (c *cli) writeContent(w io.Writer, repo managedgit.Repo, cc managedgit.ContentContext, content managedgit.Content) error {
	switch f := content.(type) {
	case *managedgit.TextFile:
		_, err := io.WriteString(w, f.Text())
		return err
	case *managedgit.JSONFile:
		v, err := f.Value()
		if err != nil {
			return err
		}
		return c.write(w, v)
	default:
		return fmt.Errorf("no content at %s in %s", cc.Path, repo.URL())
	}
}

// write encodes v in the selected output format.
func (c *cli) write(w io.Writer, v any) error {
	format, err := c.outputFormat()
	if err != nil {
		return err
	}
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
