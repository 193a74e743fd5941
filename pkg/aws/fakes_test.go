package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

const (
	testRegion     = "us-east-1"
	testInstanceID = "i-abc123"
)

// fakeEC2API serves DescribeRegions and paged DescribeInstances from fixtures
type fakeEC2API struct {
	regions      []string
	pages        [][]types.Reservation
	err          error
	instanceReqs []*ec2.DescribeInstancesInput
}

func (f *fakeEC2API) DescribeRegions(_ context.Context, _ *ec2.DescribeRegionsInput, _ ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := &ec2.DescribeRegionsOutput{}
	for _, r := range f.regions {
		out.Regions = append(out.Regions, types.Region{RegionName: aws.String(r)})
	}
	return out, nil
}

func (f *fakeEC2API) DescribeInstances(_ context.Context, params *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	f.instanceReqs = append(f.instanceReqs, params)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.pages) == 0 {
		return &ec2.DescribeInstancesOutput{}, nil
	}

	page := 0
	if params.NextToken != nil {
		if _, err := fmt.Sscanf(*params.NextToken, "page-%d", &page); err != nil {
			return nil, err
		}
	}

	out := &ec2.DescribeInstancesOutput{Reservations: f.pages[page]}
	if page+1 < len(f.pages) {
		out.NextToken = aws.String(fmt.Sprintf("page-%d", page+1))
	}
	return out, nil
}

// sample is one CPU datapoint
type sample struct {
	at    time.Time
	value float64
}

// fakeCloudWatchAPI returns the samples of an instance that fall inside the requested range
type fakeCloudWatchAPI struct {
	samples  map[string][]sample
	pageSize int
	err      error
	requests []*cloudwatch.GetMetricDataInput
}

func (f *fakeCloudWatchAPI) GetMetricData(_ context.Context, params *cloudwatch.GetMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricDataOutput, error) {
	f.requests = append(f.requests, params)
	if f.err != nil {
		return nil, f.err
	}

	query := params.MetricDataQueries[0]
	instanceID := aws.ToString(query.MetricStat.Metric.Dimensions[0].Value)

	var values []float64
	for _, s := range f.samples[instanceID] {
		if !s.at.Before(*params.StartTime) && !s.at.After(*params.EndTime) {
			values = append(values, s.value)
		}
	}

	offset := 0
	if params.NextToken != nil {
		if _, err := fmt.Sscanf(*params.NextToken, "offset-%d", &offset); err != nil {
			return nil, err
		}
	}

	end := len(values)
	if f.pageSize > 0 && offset+f.pageSize < end {
		end = offset + f.pageSize
	}
	if offset > end {
		offset = end
	}

	out := &cloudwatch.GetMetricDataOutput{
		MetricDataResults: []cwTypes.MetricDataResult{
			{Id: query.Id, Values: values[offset:end]},
		},
	}
	if end < len(values) {
		out.NextToken = aws.String(fmt.Sprintf("offset-%d", end))
	}
	return out, nil
}

// runningInstance builds a running EC2 instance fixture
func runningInstance(id, instanceType string, tags ...types.Tag) types.Instance {
	return types.Instance{
		InstanceId:   aws.String(id),
		InstanceType: types.InstanceType(instanceType),
		State:        &types.InstanceState{Name: types.InstanceStateNameRunning},
		Tags:         tags,
	}
}

func tag(key, value string) types.Tag {
	return types.Tag{Key: aws.String(key), Value: aws.String(value)}
}
