package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	// AWS CloudWatch namespace and metric for instance CPU
	namespaceEC2         = "AWS/EC2"
	metricCPUUtilization = "CPUUtilization"
	dimensionInstanceID  = "InstanceId"

	// cpuQueryID identifies the single query in each GetMetricData request
	cpuQueryID = "cpu"

	// CPUPeriodSeconds is the bucket size of the metric query (5 minutes)
	CPUPeriodSeconds = 300
)

// EmptyWindowMinimum is reported when a window has no data points at all.
// Renderers print it as a bare 0, unlike a real 0.0 sample.
const EmptyWindowMinimum = 0.0

// CloudWatchAPI is the subset of the CloudWatch API used by CloudWatchClient
type CloudWatchAPI interface {
	GetMetricData(ctx context.Context, params *cloudwatch.GetMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricDataOutput, error)
}

// CloudWatchClient struct for CloudWatch client
type CloudWatchClient struct {
	client CloudWatchAPI
	region string
}

// NewCloudWatchClient creates a new CloudWatchClient
func NewCloudWatchClient(ctx context.Context, cc ClientConfig, region string) (*CloudWatchClient, error) {
	cfg, err := LoadAWSConfig(ctx, cc, region)
	if err != nil {
		return nil, err
	}

	var cwOpts []func(*cloudwatch.Options)
	if cc.EndpointURL != "" {
		endpoint := cc.EndpointURL
		cwOpts = append(cwOpts, func(o *cloudwatch.Options) {
			o.BaseEndpoint = &endpoint
		})
	}

	return NewCloudWatchClientFromAPI(cloudwatch.NewFromConfig(cfg, cwOpts...), cfg.Region), nil
}

// NewCloudWatchClientFromAPI wraps an existing CloudWatch API implementation
func NewCloudWatchClientFromAPI(api CloudWatchAPI, region string) *CloudWatchClient {
	return &CloudWatchClient{
		client: api,
		region: region,
	}
}

// GetMinCPUUtilization returns the lowest 5-minute Minimum of CPUUtilization
// for the instance in [start, end] and whether any sample was found.
// A window without samples yields EmptyWindowMinimum and false.
func (c *CloudWatchClient) GetMinCPUUtilization(ctx context.Context, instanceID string, start, end time.Time) (float64, bool, error) {
	input := &cloudwatch.GetMetricDataInput{
		MetricDataQueries: []cwTypes.MetricDataQuery{
			{
				Id: aws.String(cpuQueryID),
				MetricStat: &cwTypes.MetricStat{
					Metric: &cwTypes.Metric{
						Namespace:  aws.String(namespaceEC2),
						MetricName: aws.String(metricCPUUtilization),
						Dimensions: []cwTypes.Dimension{
							{
								Name:  aws.String(dimensionInstanceID),
								Value: aws.String(instanceID),
							},
						},
					},
					Period: aws.Int32(CPUPeriodSeconds),
					Stat:   aws.String(string(cwTypes.StatisticMinimum)),
				},
				ReturnData: aws.Bool(true),
			},
		},
		StartTime: aws.Time(start),
		EndTime:   aws.Time(end),
	}

	var values []float64

	paginator := cloudwatch.NewGetMetricDataPaginator(c.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, false, fmt.Errorf("error getting CPU metrics for %s in %s: %w", instanceID, c.region, err)
		}

		for _, result := range page.MetricDataResults {
			if aws.ToString(result.Id) != cpuQueryID {
				continue
			}
			values = append(values, result.Values...)
		}
	}

	return MinimumOf(values), len(values) > 0, nil
}

// MinimumOf returns the smallest value, or EmptyWindowMinimum for no values
func MinimumOf(values []float64) float64 {
	if len(values) == 0 {
		return EmptyWindowMinimum
	}

	minimum := values[0]
	for _, v := range values[1:] {
		if v < minimum {
			minimum = v
		}
	}
	return minimum
}
