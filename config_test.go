package imgharvest_test

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"testing"
	"time"

	"github.com/arxiv-tools/imgharvest"
	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	c := imgharvest.NewConfig()

	assert.Equal(t, "arxiv", c.Bucket())
	assert.Equal(t, "src/", c.Prefix())
	assert.Equal(t, imgharvest.DefaultWindow(), c.Window())
	assert.Equal(t, []string{".tar.gz", ".tar", ".zip"}, c.KeySuffixes())
	assert.Equal(t, int32(0), c.PageSize())
	assert.True(t, c.RequesterPays())
	assert.Equal(t, "arxiv_images", c.OutputDir())
	assert.Equal(t, "arxiv_images", c.DownloadDir())
	assert.Equal(t, "arxiv_images", c.WorkDir())
	assert.Equal(t, []string{".png", ".jpg", ".jpeg", ".gif"}, c.ImageExtensions())
	assert.Contains(t, c.NestedSuffixes(), ".gz")
	assert.Contains(t, c.NestedSuffixes(), ".tar")
	assert.Equal(t, int64(700*1024), c.MaxImageSize())
	assert.Equal(t, int64(-1), c.MaxDownloadSize())
	assert.Equal(t, 16, c.MaxDepth())
	assert.False(t, c.RemoveUnsupported())
	assert.False(t, c.VerifyImageContent())
	assert.Equal(t, fs.FileMode(0750), c.CreateDirMode())
	assert.Equal(t, fs.FileMode(0640), c.FileMode())
	assert.NotNil(t, c.Logger())
}

func TestConfigDirectoryFallback(t *testing.T) {
	tests := []struct {
		name         string
		opts         []imgharvest.ConfigOption
		wantDownload string
		wantWork     string
	}{
		{
			name:         "output only",
			opts:         []imgharvest.ConfigOption{imgharvest.WithOutputDir("out")},
			wantDownload: "out",
			wantWork:     "out",
		},
		{
			name:         "download dir",
			opts:         []imgharvest.ConfigOption{imgharvest.WithOutputDir("out"), imgharvest.WithDownloadDir("dl")},
			wantDownload: "dl",
			wantWork:     "dl",
		},
		{
			name: "all dirs",
			opts: []imgharvest.ConfigOption{
				imgharvest.WithOutputDir("out"),
				imgharvest.WithDownloadDir("dl"),
				imgharvest.WithWorkDir("tmp"),
			},
			wantDownload: "dl",
			wantWork:     "tmp",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := imgharvest.NewConfig(tc.opts...)
			assert.Equal(t, tc.wantDownload, c.DownloadDir())
			assert.Equal(t, tc.wantWork, c.WorkDir())
		})
	}
}

func TestConfigOptions(t *testing.T) {
	cutoff := time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC)
	c := imgharvest.NewConfig(
		imgharvest.WithBucket("other"),
		imgharvest.WithPrefix("pdf/"),
		imgharvest.WithCutoff(cutoff),
		imgharvest.WithKeySuffixes(".TAR"),
		imgharvest.WithPageSize(100),
		imgharvest.WithRequesterPays(false),
		imgharvest.WithImageExtensions(".PNG", ".svg"),
		imgharvest.WithNestedSuffixes(".GZ"),
		imgharvest.WithMaxImageSize(1),
		imgharvest.WithMaxDownloadSize(2),
		imgharvest.WithMaxDepth(3),
		imgharvest.WithRemoveUnsupported(true),
		imgharvest.WithVerifyImageContent(true),
		imgharvest.WithCreateDirMode(0700),
		imgharvest.WithFileMode(0600),
	)

	assert.Equal(t, "other", c.Bucket())
	assert.Equal(t, "pdf/", c.Prefix())
	assert.Equal(t, imgharvest.NewDateWindow(cutoff), c.Window())
	assert.Equal(t, []string{".tar"}, c.KeySuffixes())
	assert.Equal(t, int32(100), c.PageSize())
	assert.False(t, c.RequesterPays())
	assert.Equal(t, []string{".png", ".svg"}, c.ImageExtensions())
	assert.Equal(t, []string{".gz"}, c.NestedSuffixes())
	assert.Equal(t, int64(1), c.MaxImageSize())
	assert.Equal(t, int64(2), c.MaxDownloadSize())
	assert.Equal(t, 3, c.MaxDepth())
	assert.True(t, c.RemoveUnsupported())
	assert.True(t, c.VerifyImageContent())
	assert.Equal(t, fs.FileMode(0700), c.CreateDirMode())
	assert.Equal(t, fs.FileMode(0600), c.FileMode())

	window := imgharvest.DateWindow{Start: cutoff.AddDate(0, -1, 0), End: cutoff}
	assert.Equal(t, window, imgharvest.NewConfig(imgharvest.WithWindow(window)).Window())
}

// TestWithLogger implements test cases
func TestWithLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	config := &imgharvest.Config{}
	option := imgharvest.WithLogger(logger)
	option(config)

	if config.Logger() == nil {
		t.Errorf("Expected Logger to be set, but it was nil")
	}
}

func TestWithHooks(t *testing.T) {
	// unset hooks are safe to call
	c := imgharvest.NewConfig()
	c.TelemetryHook()(context.Background(), &imgharvest.TelemetryData{})
	c.EventHook()(context.Background(), imgharvest.Event{})

	telemetryDelivered := false
	eventDelivered := false
	c = imgharvest.NewConfig(
		imgharvest.WithTelemetryHook(func(ctx context.Context, td *imgharvest.TelemetryData) {
			telemetryDelivered = true
		}),
		imgharvest.WithEventHook(func(ctx context.Context, e imgharvest.Event) {
			eventDelivered = true
		}),
	)

	c.TelemetryHook()(context.Background(), &imgharvest.TelemetryData{})
	c.EventHook()(context.Background(), imgharvest.Event{})

	if !telemetryDelivered {
		t.Errorf("Expected telemetry data to be delivered, but it was not")
	}
	if !eventDelivered {
		t.Errorf("Expected event to be delivered, but it was not")
	}
}
