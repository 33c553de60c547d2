package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) ListReleases(ctx context.Context, repository selfupdate.Repository) ([]selfupdate.SourceRelease, error) {
	args := m.Called(repository)
	releases, _ := args.Get(0).([]selfupdate.SourceRelease)
	return releases, args.Error(1)
}

func (m *mockSource) DownloadReleaseAsset(ctx context.Context, rel *selfupdate.Release, assetID int64) (io.ReadCloser, error) {
	return nil, errors.New("unexpected download")
}

func withSource(t *testing.T, source selfupdate.Source) {
	t.Helper()
	original := newUpdater
	newUpdater = func() (*selfupdate.Updater, error) {
		return selfupdate.NewUpdater(selfupdate.Config{Source: source})
	}
	t.Cleanup(func() { newUpdater = original })
}

func withVersion(t *testing.T, v string) {
	t.Helper()
	original := rootCmd.Version
	rootCmd.Version = v
	t.Cleanup(func() { rootCmd.Version = original })
}

func TestRunSelfUpdate_DevelopmentVersion(t *testing.T) {
	for _, v := range []string{"", "dev"} {
		withVersion(t, v)

		err := runSelfUpdate(nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot self-update a development version")
	}
}

func TestRunSelfUpdate_NoRelease(t *testing.T) {
	withVersion(t, "1.0.0")
	source := &mockSource{}
	source.On("ListReleases", selfupdate.ParseSlug(githubRepoSlug)).Return(nil, nil).Once()
	withSource(t, source)

	err := runSelfUpdate(newSelfUpdateCmd(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not be found")
	source.AssertExpectations(t)
}

func TestRunSelfUpdate_RepoFlag(t *testing.T) {
	withVersion(t, "1.0.0")
	source := &mockSource{}
	source.On("ListReleases", selfupdate.ParseSlug("acme/hlfnet")).Return(nil, errors.New("rate limited")).Once()
	withSource(t, source)

	cmd := newSelfUpdateCmd()
	require.NoError(t, cmd.Flags().Set("repo", "acme/hlfnet"))

	err := runSelfUpdate(cmd, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error occurred while detecting version")
	assert.Contains(t, err.Error(), "rate limited")
	source.AssertExpectations(t)
}

func TestSelfUpdateCommandHelp(t *testing.T) {
	cmd := newSelfUpdateCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Checks for the latest release")
	assert.Contains(t, buf.String(), "--repo")
}
