package locator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_HasEveryKeyTheCrawlerReads(t *testing.T) {
	c := Default()
	require.NoError(t, c.Require(CrawlKeys...))
	require.NoError(t, c.Require(LoginKeys...))
}

func TestStrategy_CSS(t *testing.T) {
	cases := []struct {
		s    Strategy
		want string
	}{
		{Strategy{ByClass, "result-lockup__name"}, ".result-lockup__name"},
		{Strategy{ByID, "profile-skills"}, `[id="profile-skills"]`},
		{Strategy{ByTag, "button"}, "button"},
		{Strategy{ByCSS, "li > button"}, "li > button"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.s.CSS(), tc.s.String())
	}
}

func TestGet_MissingIsZero(t *testing.T) {
	c := Default()
	s := c.Get("profile.nope")
	assert.True(t, s.IsZero())

	_, ok := c.Lookup("profile.nope")
	assert.False(t, ok)
	assert.Error(t, c.Require("profile.nope"))
}

func TestParse_RejectsUnknownMechanism(t *testing.T) {
	_, err := Parse([]byte("profile:\n  name: {by: xpath, value: //h1}\n"))
	require.ErrorIs(t, err, ErrInvalidStrategy)
}

func TestLoad_OverridesSingleEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locators.yaml")
	require.NoError(t, os.WriteFile(path, []byte("profile:\n  name: {by: css, value: h1.name}\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Strategy{ByCSS, "h1.name"}, c.Get(ProfileName))
	assert.Equal(t, Default().Get(ProfilePhoto), c.Get(ProfilePhoto))
	assert.Equal(t, len(Default().Keys()), len(c.Keys()))
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Keys(), c.Keys())
}
