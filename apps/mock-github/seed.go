package main

import (
	"crypto/sha1" //nolint:gosec // fake commit ids
	"encoding/hex"
	"strings"
)

// seedTags lists tags oldest first; seedRepos pushes them in order so the
// last entry ends up newest.
var seedTags = map[string][]string{
	"acme/billing-api":  {"v1.0.0", "v1.1.0", "v1.2.0"},
	"acme/user-service": {"v1.9.0", "v2.0.0-rc1"},
	"acme/empty":        {},
}

// seedRepos populates the store before the server accepts requests.
func seedRepos(s *store) {
	for key, names := range seedTags {
		owner, repo, _ := strings.Cut(key, "/")
		s.mu.Lock()
		if _, ok := s.tags[key]; !ok {
			s.tags[key] = []Tag{}
		}
		s.mu.Unlock()
		for _, name := range names {
			s.push(owner, repo, name, fakeSHA(key+"@"+name))
		}
	}
}

func fakeSHA(seed string) string {
	sum := sha1.Sum([]byte(seed)) //nolint:gosec // fake commit ids
	return hex.EncodeToString(sum[:])
}
