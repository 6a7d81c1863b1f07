package managedgit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilsley/gitmanager/pkg/managedgit"
)

type stubTags struct {
	tags  *managedgit.TagSet
	err   error
	calls int
}

func (s *stubTags) RepoTags(_ context.Context) (*managedgit.TagSet, error) {
	s.calls++
	return s.tags, s.err
}

func TestLatestTag_ReturnsFirst(t *testing.T) {
	repo := &stubTags{tags: managedgit.NewTagSet("v2.0.0", "v1.9.0", "v1.10.0")}

	tag, err := managedgit.LatestTag(context.Background(), repo)

	require.NoError(t, err)
	require.NotNil(t, tag)
	assert.Equal(t, "v2.0.0", tag.Name)
	assert.Equal(t, 1, repo.calls)
}

func TestLatestTag_TrustsProviderOrder(t *testing.T) {
	repo := &stubTags{tags: managedgit.NewTagSet("v1.0.0", "v9.0.0")}

	tag, err := managedgit.LatestTag(context.Background(), repo)

	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", tag.Name)
}

func TestLatestTag_AbsentWhenNoTags(t *testing.T) {
	for name, tags := range map[string]*managedgit.TagSet{
		"absent": nil,
		"empty":  managedgit.NewTagSet(),
	} {
		t.Run(name, func(t *testing.T) {
			tag, err := managedgit.LatestTag(context.Background(), &stubTags{tags: tags})
			require.NoError(t, err)
			assert.Nil(t, tag)
		})
	}
}

func TestLatestTag_PropagatesError(t *testing.T) {
	boom := errors.New("boom")

	_, err := managedgit.LatestTag(context.Background(), &stubTags{err: boom})

	assert.ErrorIs(t, err, boom)
}

func TestNotImplemented(t *testing.T) {
	err := managedgit.NotImplemented("github", "content")

	assert.ErrorIs(t, err, managedgit.ErrNotImplemented)
	assert.Equal(t, "github: content: not implemented", err.Error())
}

func TestTagSet_NilSafe(t *testing.T) {
	var ts *managedgit.TagSet

	assert.Equal(t, 0, ts.Len())
	assert.Empty(t, ts.Names())
	_, ok := ts.Latest()
	assert.False(t, ok)
}

func TestTagSet_Names(t *testing.T) {
	assert.Equal(t, []string{"b", "a"}, managedgit.NewTagSet("b", "a").Names())
}
