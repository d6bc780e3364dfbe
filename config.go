// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"
)

// ConfigOption is a function pointer to implement the option pattern
type ConfigOption func(*Config)

// Config holds all settings of a harvest run. The zero value is not usable,
// create instances with [NewConfig] and adjust them with the With* options.
//
// The defaults mirror the public arXiv source bucket: bucket "arxiv", prefix
// "src/", requester pays transfers, images up to 700 KiB and the window
// [2023-09-19, 2024-01-01).
type Config struct {
	// bucket is the name of the remote bucket
	bucket string

	// prefix is the key prefix used for listing
	prefix string

	// window restricts the keys by the month encoded in their name
	window DateWindow

	// keySuffixes are the suffixes a listed key must end with to be fetched
	keySuffixes []string

	// pageSize is the maximum number of keys per listing page (0 = server default)
	pageSize int32

	// requesterPays marks list and get requests as requester pays
	requesterPays bool

	// outputDir receives the extracted images
	outputDir string

	// downloadDir receives the downloaded objects. Empty means outputDir.
	downloadDir string

	// workDir receives the materialized nested archives. Empty means downloadDir.
	workDir string

	// imageExtensions are the lowercased suffixes of extracted images
	imageExtensions []string

	// nestedSuffixes are the lowercased suffixes of members that are walked as archives
	nestedSuffixes []string

	// maxImageSize is the maximum size of an extracted image in bytes
	maxImageSize int64

	// maxDownloadSize is the maximum size of a downloaded object in bytes (-1 = unlimited)
	maxDownloadSize int64

	// maxDepth is the maximum nesting depth of archives. The downloaded archive has depth 0.
	maxDepth int

	// removeUnsupported removes downloaded files that cannot be extracted
	removeUnsupported bool

	// verifyImageContent checks the detected content type of images before writing them
	verifyImageContent bool

	// createDirMode is the mode for created directories (respecting umask)
	createDirMode fs.FileMode

	// fileMode is the mode for created files (respecting umask)
	fileMode fs.FileMode

	// logger stream for progress and error messages
	logger logger

	// telemetryHook is called after each processed key
	telemetryHook TelemetryHook

	// eventHook is called for every filtering and extraction decision
	eventHook EventHook
}

const (
	defaultBucket             = "arxiv"         // public arXiv bucket
	defaultPrefix             = "src/"          // source packages
	defaultOutputDir          = "arxiv_images"  // relative to the target root
	defaultMaxImageSize       = 700 * 1024      // 700 KiB
	defaultMaxDownloadSize    = -1              // the monthly packages are several GiB
	defaultMaxDepth           = 16              // archive in archive in ...
	defaultRequesterPays      = true            // the arXiv bucket is requester pays
	defaultRemoveUnsupported  = false           // keep unsupported downloads for inspection
	defaultVerifyImageContent = false           // trust the file extension
	defaultCreateDirMode      = 0750            // rwxr-x---
	defaultFileMode           = 0640            // rw-r-----
	defaultPageSize           = 0               // let the server decide
	defaultTempPrefix         = "imgharvest-"   // prefix of materialized nested archives
)

var (
	// defaultImageExtensions are the supported image formats
	defaultImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif"}

	// defaultKeySuffixes are the object suffixes that are fetched
	defaultKeySuffixes = []string{".tar.gz", ".tar", ".zip"}

	// slog to discard
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
)

// Bucket returns the name of the remote bucket.
func (c *Config) Bucket() string {
	return c.bucket
}

// Prefix returns the listing prefix.
func (c *Config) Prefix() string {
	return c.prefix
}

// Window returns the date window keys are filtered with.
func (c *Config) Window() DateWindow {
	return c.window
}

// KeySuffixes returns the suffixes a key must end with to be fetched.
func (c *Config) KeySuffixes() []string {
	return c.keySuffixes
}

// PageSize returns the maximum number of keys requested per listing page.
func (c *Config) PageSize() int32 {
	return c.pageSize
}

// RequesterPays returns true if requests are sent with the requester pays flag.
func (c *Config) RequesterPays() bool {
	return c.requesterPays
}

// OutputDir returns the directory that receives the extracted images.
func (c *Config) OutputDir() string {
	return c.outputDir
}

// DownloadDir returns the directory that receives downloaded objects.
func (c *Config) DownloadDir() string {
	if len(c.downloadDir) == 0 {
		return c.outputDir
	}
	return c.downloadDir
}

// WorkDir returns the directory for materialized nested archives.
func (c *Config) WorkDir() string {
	if len(c.workDir) == 0 {
		return c.DownloadDir()
	}
	return c.workDir
}

// ImageExtensions returns the lowercased file suffixes of extracted images.
func (c *Config) ImageExtensions() []string {
	return c.imageExtensions
}

// NestedSuffixes returns the lowercased suffixes of members that are
// walked as nested archives.
func (c *Config) NestedSuffixes() []string {
	return c.nestedSuffixes
}

// MaxImageSize returns the maximum size of an extracted image.
func (c *Config) MaxImageSize() int64 {
	return c.maxImageSize
}

// MaxDownloadSize returns the maximum size of a downloaded object.
func (c *Config) MaxDownloadSize() int64 {
	return c.maxDownloadSize
}

// MaxDepth returns the maximum nesting depth of archives.
func (c *Config) MaxDepth() int {
	return c.maxDepth
}

// RemoveUnsupported returns true if downloaded files with an unsupported
// format are removed instead of kept.
func (c *Config) RemoveUnsupported() bool {
	return c.removeUnsupported
}

// VerifyImageContent returns true if the content of an image entry is
// sniffed before it is written.
func (c *Config) VerifyImageContent() bool {
	return c.verifyImageContent
}

// CreateDirMode returns the file mode for created directories.
func (c *Config) CreateDirMode() fs.FileMode {
	return c.createDirMode
}

// FileMode returns the file mode for created files.
func (c *Config) FileMode() fs.FileMode {
	return c.fileMode
}

// Logger returns the logger.
func (c *Config) Logger() logger {
	return c.logger
}

// TelemetryHook returns the telemetry hook.
func (c *Config) TelemetryHook() TelemetryHook {
	if c.telemetryHook == nil {
		return func(ctx context.Context, d *TelemetryData) {
			// noop
		}
	}
	return c.telemetryHook
}

// EventHook returns the event hook.
func (c *Config) EventHook() EventHook {
	if c.eventHook == nil {
		return func(ctx context.Context, e Event) {
			// noop
		}
	}
	return c.eventHook
}

// NewConfig is a generator option that takes opts as adjustments of the
// default configuration in an option pattern style.
func NewConfig(opts ...ConfigOption) *Config {
	config := &Config{
		bucket:             defaultBucket,
		prefix:             defaultPrefix,
		window:             DefaultWindow(),
		keySuffixes:        defaultKeySuffixes,
		pageSize:           defaultPageSize,
		requesterPays:      defaultRequesterPays,
		outputDir:          defaultOutputDir,
		imageExtensions:    defaultImageExtensions,
		nestedSuffixes:     defaultNestedSuffixes(),
		maxImageSize:       defaultMaxImageSize,
		maxDownloadSize:    defaultMaxDownloadSize,
		maxDepth:           defaultMaxDepth,
		removeUnsupported:  defaultRemoveUnsupported,
		verifyImageContent: defaultVerifyImageContent,
		createDirMode:      defaultCreateDirMode,
		fileMode:           defaultFileMode,
		logger:             defaultLogger,
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// WithBucket options pattern function to set the remote bucket.
func WithBucket(bucket string) ConfigOption {
	return func(c *Config) {
		c.bucket = bucket
	}
}

// WithPrefix options pattern function to set the listing prefix.
func WithPrefix(prefix string) ConfigOption {
	return func(c *Config) {
		c.prefix = prefix
	}
}

// WithWindow options pattern function to set the date window.
func WithWindow(w DateWindow) ConfigOption {
	return func(c *Config) {
		c.window = w
	}
}

// WithCutoff options pattern function to set the upper bound of the date
// window while keeping the lower bound.
func WithCutoff(cutoff time.Time) ConfigOption {
	return func(c *Config) {
		c.window.End = cutoff
	}
}

// WithKeySuffixes options pattern function to set the key suffixes that are fetched.
func WithKeySuffixes(suffixes ...string) ConfigOption {
	return func(c *Config) {
		c.keySuffixes = lowerAll(suffixes)
	}
}

// WithPageSize options pattern function to set the listing page size.
func WithPageSize(size int32) ConfigOption {
	return func(c *Config) {
		c.pageSize = size
	}
}

// WithRequesterPays options pattern function to enable/disable requester pays requests.
func WithRequesterPays(enable bool) ConfigOption {
	return func(c *Config) {
		c.requesterPays = enable
	}
}

// WithOutputDir options pattern function to set the image output directory.
func WithOutputDir(dir string) ConfigOption {
	return func(c *Config) {
		c.outputDir = dir
	}
}

// WithDownloadDir options pattern function to set the download directory.
func WithDownloadDir(dir string) ConfigOption {
	return func(c *Config) {
		c.downloadDir = dir
	}
}

// WithWorkDir options pattern function to set the directory for
// materialized nested archives.
func WithWorkDir(dir string) ConfigOption {
	return func(c *Config) {
		c.workDir = dir
	}
}

// WithImageExtensions options pattern function to set the supported image extensions.
func WithImageExtensions(ext ...string) ConfigOption {
	return func(c *Config) {
		c.imageExtensions = lowerAll(ext)
	}
}

// WithNestedSuffixes options pattern function to set the suffixes of
// members that are walked as nested archives.
func WithNestedSuffixes(suffixes ...string) ConfigOption {
	return func(c *Config) {
		c.nestedSuffixes = lowerAll(suffixes)
	}
}

// WithMaxImageSize options pattern function to set maximum image size in bytes.
func WithMaxImageSize(size int64) ConfigOption {
	return func(c *Config) {
		c.maxImageSize = size
	}
}

// WithMaxDownloadSize options pattern function to set maximum download size
// in bytes. (disable check: -1)
func WithMaxDownloadSize(size int64) ConfigOption {
	return func(c *Config) {
		c.maxDownloadSize = size
	}
}

// WithMaxDepth options pattern function to set maximum archive nesting depth.
func WithMaxDepth(depth int) ConfigOption {
	return func(c *Config) {
		c.maxDepth = depth
	}
}

// WithRemoveUnsupported options pattern function to remove downloads with
// an unsupported format instead of keeping them.
func WithRemoveUnsupported(remove bool) ConfigOption {
	return func(c *Config) {
		c.removeUnsupported = remove
	}
}

// WithVerifyImageContent options pattern function to enable content type
// detection for image entries.
func WithVerifyImageContent(verify bool) ConfigOption {
	return func(c *Config) {
		c.verifyImageContent = verify
	}
}

// WithCreateDirMode options pattern function to set the mode of created directories.
func WithCreateDirMode(mode fs.FileMode) ConfigOption {
	return func(c *Config) {
		c.createDirMode = mode
	}
}

// WithFileMode options pattern function to set the mode of created files.
func WithFileMode(mode fs.FileMode) ConfigOption {
	return func(c *Config) {
		c.fileMode = mode
	}
}

// WithLogger options pattern function to set a custom logger.
func WithLogger(logger logger) ConfigOption {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithTelemetryHook options pattern function to set a [TelemetryHook], which is
// called after each key.
func WithTelemetryHook(hook TelemetryHook) ConfigOption {
	return func(c *Config) {
		c.telemetryHook = hook
	}
}

// WithEventHook options pattern function to set an [EventHook].
func WithEventHook(hook EventHook) ConfigOption {
	return func(c *Config) {
		c.eventHook = hook
	}
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
