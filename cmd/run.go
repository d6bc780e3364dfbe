// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/arxiv-tools/imgharvest"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/joho/godotenv"
)

// CLI are the cli parameters for the imgharvest binary
type CLI struct {
	AccessKey         string           `env:"AWS_ACCESS_KEY" optional:"" help:"AWS access key id. (default credential chain if empty)"`
	SecretKey         string           `env:"AWS_SECRET_KEY" optional:"" help:"AWS secret access key."`
	Region            string           `env:"AWS_REGION" default:"us-east-1" help:"AWS region of the bucket."`
	MaxDepth          int              `optional:"" default:"16" help:"Maximum nesting depth of archives."`
	Metrics           bool             `short:"M" optional:"" default:"false" help:"Print telemetry data to log after each archive."`
	RemoveUnsupported bool             `optional:"" help:"Remove downloads with an unsupported format."`
	VerifyContent     bool             `optional:"" help:"Skip image entries whose content is not an image."`
	Verbose           bool             `short:"v" optional:"" help:"Verbose logging."`
	Version           kong.VersionFlag `short:"V" optional:"" help:"Print release version information."`
}

// Run the entrypoint into imgharvest as a cli tool
func Run(version, commit, date string) {
	// a missing .env file is fine
	_ = godotenv.Load()

	var cli CLI
	kong.Parse(&cli,
		kong.Description("Harvests figure images from the arXiv source bucket"),
		kong.UsageOnError(),
		kong.Vars{
			"version": fmt.Sprintf("%s (%s), commit %s, built at %s", filepath.Base(os.Args[0]), version, commit, date),
		},
	)

	// Check for verbose output
	logLevel := slog.LevelInfo
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}

	// setup logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// setup telemetry hook
	telemetryToLog := func(ctx context.Context, td *imgharvest.TelemetryData) {
		if cli.Metrics {
			logger.Info("archive processed", "telemetry", td)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := newClient(ctx, cli)
	if err != nil {
		logger.Error("cannot configure aws client", "error", err)
		os.Exit(-1)
	}

	cfg := imgharvest.NewConfig(
		imgharvest.WithCutoff(imgharvest.DefaultCutoff),
		imgharvest.WithLogger(logger),
		imgharvest.WithMaxDepth(cli.MaxDepth),
		imgharvest.WithRemoveUnsupported(cli.RemoveUnsupported),
		imgharvest.WithTelemetryHook(telemetryToLog),
		imgharvest.WithVerifyImageContent(cli.VerifyContent),
	)

	t := imgharvest.NewTarget(osfs.New(".", osfs.WithBoundOS()))
	if err := imgharvest.New(client, t, cfg).Run(ctx); err != nil {
		logger.Error("harvest failed", "error", err)
		stop()
		os.Exit(-1)
	}
}

// newClient builds the S3 client. Static credentials are used if an access
// key is given, the default credential chain otherwise.
func newClient(ctx context.Context, cli CLI) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cli.Region),
	}
	if len(cli.AccessKey) > 0 {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cli.AccessKey, cli.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg), nil
}
