package main

import (
	"context"

	"github.com/younsl/mincpu/pkg/aws"
	"github.com/younsl/mincpu/pkg/report"
)

// awsClientFactory builds per-region EC2 and CloudWatch clients from one ClientConfig
type awsClientFactory struct {
	cc aws.ClientConfig
}

// Instances returns an EC2 client for the region
func (f awsClientFactory) Instances(ctx context.Context, region string) (report.InstanceLister, error) {
	client, err := aws.NewEC2Client(ctx, f.cc, region)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Utilization returns a CloudWatch client for the region
func (f awsClientFactory) Utilization(ctx context.Context, region string) (report.UtilizationFetcher, error) {
	client, err := aws.NewCloudWatchClient(ctx, f.cc, region)
	if err != nil {
		return nil, err
	}
	return client, nil
}
