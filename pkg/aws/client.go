package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/younsl/mincpu/pkg/utils"
)

// imdsRegionTimeout bounds the metadata lookup so hosts outside EC2 don't stall
const imdsRegionTimeout = 2 * time.Second

// ClientConfig carries the provider settings every client is built from.
// Empty fields fall back to the SDK default credential and region chain.
type ClientConfig struct {
	// Profile selects a named profile from the shared AWS config files
	Profile string

	// Static credentials; used only when both AccessKeyID and SecretAccessKey are set
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string

	// DefaultRegion is the home region used for region enumeration
	DefaultRegion string

	// EndpointURL overrides the service endpoint (LocalStack and similar)
	EndpointURL string
}

// HasStaticCredentials reports whether static credentials are configured
func (c ClientConfig) HasStaticCredentials() bool {
	return c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// LoadAWSConfig loads an aws.Config for the given region
func LoadAWSConfig(ctx context.Context, cc ClientConfig, region string) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithEC2IMDSClientEnableState(imds.ClientEnabled),
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if cc.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cc.Profile))
	}
	if cc.HasStaticCredentials() {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cc.AccessKeyID, cc.SecretAccessKey, cc.SessionToken),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("error loading AWS config: %w", err)
	}
	return cfg, nil
}

// RegionMetadataAPI is the part of the IMDS client used for region discovery
type RegionMetadataAPI interface {
	GetRegion(ctx context.Context, params *imds.GetRegionInput, optFns ...func(*imds.Options)) (*imds.GetRegionOutput, error)
}

// ResolveDefaultRegion picks the home region: explicit configuration first,
// then whatever the SDK resolved from env/shared config, then the instance
// metadata service, and finally us-east-1.
func ResolveDefaultRegion(ctx context.Context, cc ClientConfig, sdkRegion string, metadata RegionMetadataAPI) string {
	if cc.DefaultRegion != "" {
		return cc.DefaultRegion
	}
	if sdkRegion != "" {
		return sdkRegion
	}

	if metadata != nil {
		lookupCtx, cancel := context.WithTimeout(ctx, imdsRegionTimeout)
		defer cancel()

		out, err := metadata.GetRegion(lookupCtx, &imds.GetRegionInput{})
		if err == nil && out != nil && out.Region != "" {
			return out.Region
		}
	}

	return utils.GetDefaultRegion()
}

// NewRegionMetadataClient returns an IMDS client for region discovery
func NewRegionMetadataClient() RegionMetadataAPI {
	return imds.New(imds.Options{})
}
