package gitlab

import (
	"context"
	"net/url"

	"github.com/tilsley/gitmanager/pkg/httpclient"
	"github.com/tilsley/gitmanager/pkg/managedgit"
)

// GroupFilter decides whether a group becomes a component and with which
// population options. Returning false excludes the group.
type GroupFilter func(g Group) (managedgit.PopulateOptions, bool)

// GroupsPopulator adds the server's top-level groups, in GitLab order, as
// level-0 components. A nil filter accepts every group with no options.
//
// Only the root level is populated: passing a non-root StructureContext is a
// no-op, and groups accepted with Descendants set keep that option without
// their sub-groups being fetched.
func GroupsPopulator(m *Manager, filter GroupFilter) managedgit.StructurePopulator {
	return managedgit.EnhancerFunc[managedgit.StructureContext, managedgit.Structure](
		func(ctx context.Context, sc managedgit.StructureContext, s managedgit.Structure) (managedgit.Structure, error) {
			if sc.Parent != managedgit.NoParent {
				m.logger.DebugContext(ctx, "sub-group population not supported", "parent", sc.Parent)
				return s, nil
			}

			apiURL := m.APIURL("groups", url.Values{"top_level_only": []string{"true"}})
			log := m.logger.With("url", apiURL)
			groups, err := httpclient.FetchJSON[[]Group](ctx, m.client, m.request(apiURL), groupsGuard)
			if err != nil {
				log.DebugContext(ctx, "group listing unavailable", "error", err)
				return s, nil
			}

			for _, g := range groups {
				var opts managedgit.PopulateOptions
				if filter != nil {
					var ok bool
					if opts, ok = filter(g); !ok {
						continue
					}
				}
				s, _ = s.Add(sc.Parent, g.Name, opts)
				if opts.Descendants {
					log.DebugContext(ctx, "sub-group population deferred", "group", g.Name)
				}
			}
			return s, nil
		})
}
