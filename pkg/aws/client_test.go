package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/stretchr/testify/assert"
)

type fakeRegionMetadata struct {
	region string
	err    error
	calls  int
}

func (f *fakeRegionMetadata) GetRegion(_ context.Context, _ *imds.GetRegionInput, _ ...func(*imds.Options)) (*imds.GetRegionOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &imds.GetRegionOutput{Region: f.region}, nil
}

func TestResolveDefaultRegion(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit configuration wins", func(t *testing.T) {
		metadata := &fakeRegionMetadata{region: "ap-northeast-2"}
		got := ResolveDefaultRegion(ctx, ClientConfig{DefaultRegion: "eu-west-1"}, "us-west-2", metadata)
		assert.Equal(t, "eu-west-1", got)
		assert.Zero(t, metadata.calls)
	})

	t.Run("sdk region before metadata", func(t *testing.T) {
		metadata := &fakeRegionMetadata{region: "ap-northeast-2"}
		got := ResolveDefaultRegion(ctx, ClientConfig{}, "us-west-2", metadata)
		assert.Equal(t, "us-west-2", got)
		assert.Zero(t, metadata.calls)
	})

	t.Run("metadata region", func(t *testing.T) {
		metadata := &fakeRegionMetadata{region: "ap-northeast-2"}
		got := ResolveDefaultRegion(ctx, ClientConfig{}, "", metadata)
		assert.Equal(t, "ap-northeast-2", got)
		assert.Equal(t, 1, metadata.calls)
	})

	t.Run("metadata failure falls back to us-east-1", func(t *testing.T) {
		metadata := &fakeRegionMetadata{err: errors.New("not on EC2")}
		assert.Equal(t, "us-east-1", ResolveDefaultRegion(ctx, ClientConfig{}, "", metadata))
	})

	t.Run("no metadata client", func(t *testing.T) {
		assert.Equal(t, "us-east-1", ResolveDefaultRegion(ctx, ClientConfig{}, "", nil))
	})
}

func TestHasStaticCredentials(t *testing.T) {
	assert.False(t, ClientConfig{}.HasStaticCredentials())
	assert.False(t, ClientConfig{AccessKeyID: "AKIA"}.HasStaticCredentials())
	assert.True(t, ClientConfig{AccessKeyID: "AKIA", SecretAccessKey: "secret"}.HasStaticCredentials())
}

func TestNewClientsWithStaticCredentialsAndEndpoint(t *testing.T) {
	cc := ClientConfig{
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		DefaultRegion:   testRegion,
		EndpointURL:     "http://localhost:4566",
	}

	ec2Client, err := NewEC2Client(context.Background(), cc, "eu-west-1")
	if assert.NoError(t, err) {
		assert.Equal(t, "eu-west-1", ec2Client.Region())
	}

	cwClient, err := NewCloudWatchClient(context.Background(), cc, "eu-west-1")
	if assert.NoError(t, err) {
		assert.Equal(t, "eu-west-1", cwClient.region)
	}
}
