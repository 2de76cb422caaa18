package wire

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/mdviewer/internal/config"
	"github.com/mithrel/mdviewer/pkg/api"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	v := viper.New()
	v.Set("data_dir", t.TempDir())
	require.NoError(t, config.Load(context.Background(), v))
	return v
}

func TestBuildAppFileBackend(t *testing.T) {
	ctx := context.Background()
	v := newViper(t)
	app, err := BuildApp(ctx, v)
	require.NoError(t, err)
	defer app.Close()

	require.NoError(t, app.Recent.Touch(ctx, api.NewLocalFile("/a.md", "a.md")))
	assert.FileExists(t, filepath.Join(v.GetString("data_dir"), "recent.json"))
	assert.Nil(t, app.Prom)
	assert.Equal(t, int64(5*1024*1024), app.Fetcher.MaxBytes)
}

func TestBuildAppSQLitePersists(t *testing.T) {
	ctx := context.Background()
	v := newViper(t)
	v.Set("storage.backend", "sqlite")

	app, err := BuildApp(ctx, v)
	require.NoError(t, err)
	require.NoError(t, app.Recent.Touch(ctx, api.NewRemoteURL("https://x.io/r.md")))
	require.NoError(t, app.Close())

	again, err := BuildApp(ctx, v)
	require.NoError(t, err)
	defer again.Close()
	items := again.Recent.List(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, "r.md", items[0].DisplayName)
}

func TestBuildAppPrometheusSink(t *testing.T) {
	v := newViper(t)
	v.Set("storage.backend", "mem")
	v.Set("analytics.sink", "both")
	app, err := BuildApp(context.Background(), v)
	require.NoError(t, err)
	require.NotNil(t, app.Prom)

	app.Analytics.AboutShown()
	n, err := app.Prom.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, n)
}

func TestBuildAppAnalyticsDisabled(t *testing.T) {
	v := newViper(t)
	v.Set("storage.backend", "mem")
	v.Set("analytics.enabled", false)
	v.Set("analytics.sink", "prometheus")
	app, err := BuildApp(context.Background(), v)
	require.NoError(t, err)
	assert.Nil(t, app.Prom)
	assert.NotPanics(t, func() { app.Analytics.FileClosed() })
}

func TestBuildAppBadBackend(t *testing.T) {
	v := newViper(t)
	v.Set("storage.backend", "etcd")
	_, err := BuildApp(context.Background(), v)
	assert.Error(t, err)
}
