package imgharvest_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arxiv-tools/imgharvest"
	"github.com/arxiv-tools/imgharvest/internal/mock"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHarvesterRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockS3API(ctrl)
	target, fs := newMemTarget()
	logs := &logRecorder{}
	cfg := imgharvest.NewConfig(imgharvest.WithLogger(logs))

	client.EXPECT().
		ListObjectsV2(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(listPage("",
			"src/arXiv_src_manifest.xml",
			"src/arXiv_src_2209_001.tar",
			"src/arXiv_src_2309_001.tar",
			"src/arXiv_src_2310_001.zip",
		), nil)

	paper := compressGzip(t, packTar(t, []archiveContent{
		{Name: "fig.png", Content: pngBytes(10 * 1024)},
		{Name: "huge.jpg", Content: randomBytes(800 * 1024)},
	}))
	downloads := map[string][]byte{
		"src/arXiv_src_2309_001.tar": packTar(t, []archiveContent{{Name: "2309.00001.gz", Content: paper}}),
		"src/arXiv_src_2310_001.zip": packZip(t, []archiveContent{{Name: "fig.png", Content: pngBytes(16)}}),
	}
	client.EXPECT().
		GetObject(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			data, ok := downloads[aws.ToString(in.Key)]
			require.True(t, ok, "unexpected download %s", aws.ToString(in.Key))
			return objectBody(data), nil
		}).
		Times(2)

	require.NoError(t, imgharvest.New(client, target, cfg).Run(context.Background()))

	// one image from the tar, the unsupported zip is kept
	outputs := listDir(t, fs, "arxiv_images")
	require.Len(t, outputs, 2)
	assert.Equal(t, "arXiv_src_2310_001.zip", outputs[0])
	assert.True(t, strings.HasPrefix(outputs[1], "fig_"))

	assert.Equal(t, 2, logs.count("Processing file"))
	assert.Equal(t, 1, logs.count("Unsupported file format"))
	assert.Equal(t, 1, logs.count("Deleted archive"))
}

func TestHarvesterListingError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockS3API(ctrl)
	target, _ := newMemTarget()
	cfg := imgharvest.NewConfig()

	throttled := errors.New("slow down")
	client.EXPECT().
		ListObjectsV2(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, throttled)

	err := imgharvest.New(client, target, cfg).Run(context.Background())
	assert.ErrorIs(t, err, throttled)
}

func TestHarvesterStopsOnCleanupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockS3API(ctrl)
	target, _ := newMemTarget()
	cfg := imgharvest.NewConfig()

	client.EXPECT().
		ListObjectsV2(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(listPage("", "src/arXiv_src_2309_001.tar", "src/arXiv_src_2309_002.tar"), nil)

	// the second key is never downloaded
	client.EXPECT().
		GetObject(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(objectBody(packTar(t, []archiveContent{{Name: "a.txt", Content: []byte("a")}})), nil).
		Times(1)

	err := imgharvest.New(client, &removeFailingTarget{target}, cfg).Run(context.Background())
	assert.ErrorIs(t, err, imgharvest.ErrCleanup)
}

func TestHarvesterCanceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewMockS3API(ctrl)
	target, _ := newMemTarget()
	cfg := imgharvest.NewConfig()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client.EXPECT().
		ListObjectsV2(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, context.Canceled).
		AnyTimes()

	err := imgharvest.New(client, target, cfg).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
