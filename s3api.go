// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package imgharvest

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

//go:generate mockgen -destination=internal/mock/s3api.go -package=mock . S3API

// ListObjectsV2APIClient is the part of the S3 client used for listing.
type ListObjectsV2APIClient interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// GetObjectAPIClient is the part of the S3 client used for downloads.
type GetObjectAPIClient interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3API is the subset of [s3.Client] a harvest run needs.
type S3API interface {
	ListObjectsV2APIClient
	GetObjectAPIClient
}

var _ S3API = (*s3.Client)(nil)
