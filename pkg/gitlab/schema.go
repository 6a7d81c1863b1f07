package gitlab

import "github.com/tilsley/gitmanager/pkg/httpclient"

// Group is an entry of GET /groups. Only Name is guaranteed.
type Group struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Path        string `json:"path,omitempty"`
	FullPath    string `json:"full_path,omitempty"`
	Description string `json:"description,omitempty"`
	WebURL      string `json:"web_url,omitempty"`
	ParentID    *int   `json:"parent_id,omitempty"`
}

// RepoTag is an entry of GET /projects/:id/repository/tags.
type RepoTag struct {
	Name    string `json:"name"`
	Message string `json:"message,omitempty"`
	Target  string `json:"target,omitempty"`
}

var (
	groupsGuard = httpclient.MustSchemaGuard("gitlab-groups", httpclient.NamedArraySchema)
	tagsGuard   = httpclient.MustSchemaGuard("gitlab-tags", httpclient.NamedArraySchema)
)
