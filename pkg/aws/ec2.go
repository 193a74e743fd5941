package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/younsl/mincpu/internal/models"
	"github.com/younsl/mincpu/pkg/utils"
)

const (
	// instanceStateFilter is the DescribeInstances filter name for lifecycle state
	instanceStateFilter = "instance-state-name"

	// InstanceStateRunning is the only state the report considers
	InstanceStateRunning = string(types.InstanceStateNameRunning)
)

// EC2API is the subset of the EC2 API used by EC2Client
type EC2API interface {
	DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
}

// EC2Client struct for EC2 client
type EC2Client struct {
	client EC2API
	region string
}

// NewEC2Client creates a new EC2Client
func NewEC2Client(ctx context.Context, cc ClientConfig, region string) (*EC2Client, error) {
	cfg, err := LoadAWSConfig(ctx, cc, region)
	if err != nil {
		return nil, err
	}

	var ec2Opts []func(*ec2.Options)
	if cc.EndpointURL != "" {
		endpoint := cc.EndpointURL
		ec2Opts = append(ec2Opts, func(o *ec2.Options) {
			o.BaseEndpoint = &endpoint
		})
	}

	return NewEC2ClientFromAPI(ec2.NewFromConfig(cfg, ec2Opts...), cfg.Region), nil
}

// NewEC2ClientFromAPI wraps an existing EC2 API implementation
func NewEC2ClientFromAPI(api EC2API, region string) *EC2Client {
	return &EC2Client{
		client: api,
		region: region,
	}
}

// Region returns the region this client talks to
func (c *EC2Client) Region() string {
	return c.region
}

// ListRegions returns the names of all regions enabled for the account, in provider order
func (c *EC2Client) ListRegions(ctx context.Context) ([]string, error) {
	result, err := c.client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	if err != nil {
		return nil, fmt.Errorf("error describing regions from %s: %w", c.region, err)
	}

	regions := make([]string, 0, len(result.Regions))
	for _, region := range result.Regions {
		if name := aws.ToString(region.RegionName); name != "" {
			regions = append(regions, name)
		}
	}
	return regions, nil
}

// GetRunningInstances returns all EC2 instances in Running state, following every result page
func (c *EC2Client) GetRunningInstances(ctx context.Context) ([]models.Instance, error) {
	// Filter only running instances
	filter := types.Filter{
		Name:   aws.String(instanceStateFilter),
		Values: []string{InstanceStateRunning},
	}

	input := &ec2.DescribeInstancesInput{
		Filters: []types.Filter{filter},
	}

	instances := []models.Instance{}

	paginator := ec2.NewDescribeInstancesPaginator(c.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error querying EC2 instances in %s: %w", c.region, err)
		}
		instances = append(instances, c.flattenReservations(page.Reservations)...)
	}

	return instances, nil
}

// flattenReservations turns reservation groups into a flat instance list
func (c *EC2Client) flattenReservations(reservations []types.Reservation) []models.Instance {
	var instances []models.Instance

	for _, reservation := range reservations {
		for _, instance := range reservation.Instances {
			// The server-side filter already did this; a stale page must not leak other states
			if instance.State == nil || instance.State.Name != types.InstanceStateNameRunning {
				continue
			}

			instances = append(instances, models.Instance{
				InstanceID:   aws.ToString(instance.InstanceId),
				InstanceType: string(instance.InstanceType),
				Region:       c.region,
				State:        string(instance.State.Name),
				LaunchTime:   instance.LaunchTime,
				Tags:         utils.ConvertEC2Tags(instance.Tags),
			})
		}
	}

	return instances
}
