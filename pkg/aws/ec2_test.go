package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/mincpu/internal/models"
)

func TestListRegionsKeepsProviderOrder(t *testing.T) {
	api := &fakeEC2API{regions: []string{"us-east-1", "eu-west-1", "ap-northeast-2"}}
	client := NewEC2ClientFromAPI(api, testRegion)

	regions, err := client.ListRegions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"us-east-1", "eu-west-1", "ap-northeast-2"}, regions)
}

func TestListRegionsPropagatesError(t *testing.T) {
	api := &fakeEC2API{err: errors.New("boom")}
	client := NewEC2ClientFromAPI(api, testRegion)

	_, err := client.ListRegions(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, api.err)
	assert.Contains(t, err.Error(), testRegion)
}

func TestGetRunningInstancesUsesRunningFilter(t *testing.T) {
	api := &fakeEC2API{}
	client := NewEC2ClientFromAPI(api, testRegion)

	_, err := client.GetRunningInstances(context.Background())
	require.NoError(t, err)

	require.Len(t, api.instanceReqs, 1)
	require.Len(t, api.instanceReqs[0].Filters, 1)
	filter := api.instanceReqs[0].Filters[0]
	assert.Equal(t, "instance-state-name", aws.ToString(filter.Name))
	assert.Equal(t, []string{"running"}, filter.Values)
}

func TestGetRunningInstancesFlattensReservationsAcrossPages(t *testing.T) {
	api := &fakeEC2API{
		pages: [][]types.Reservation{
			{
				{Instances: []types.Instance{
					runningInstance("i-1", "t3.micro", tag("Name", "web-1")),
					runningInstance("i-2", "t3.small"),
				}},
				{Instances: []types.Instance{runningInstance("i-3", "m5.large")}},
			},
			{
				{Instances: []types.Instance{runningInstance("i-4", "c5.xlarge", tag("env", "prod"), tag("Name", "batch"))}},
			},
		},
	}
	client := NewEC2ClientFromAPI(api, testRegion)

	instances, err := client.GetRunningInstances(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(instances))
	for _, instance := range instances {
		ids = append(ids, instance.InstanceID)
		assert.Equal(t, testRegion, instance.Region)
		assert.Equal(t, "running", instance.State)
	}
	assert.Equal(t, []string{"i-1", "i-2", "i-3", "i-4"}, ids)
	assert.Len(t, api.instanceReqs, 2, "second page must be requested")

	assert.Equal(t, "t3.micro", instances[0].InstanceType)
	assert.Equal(t, []models.Tag{{Key: "Name", Value: "web-1"}}, instances[0].Tags)
	assert.Nil(t, instances[1].Tags)
	assert.Equal(t, []models.Tag{{Key: "env", Value: "prod"}, {Key: "Name", Value: "batch"}}, instances[3].Tags)
}

func TestGetRunningInstancesDropsOtherStates(t *testing.T) {
	stopped := runningInstance("i-stopped", "t3.micro")
	stopped.State = &types.InstanceState{Name: types.InstanceStateNameStopped}
	noState := runningInstance("i-nostate", "t3.micro")
	noState.State = nil

	api := &fakeEC2API{
		pages: [][]types.Reservation{
			{{Instances: []types.Instance{stopped, runningInstance("i-running", "t3.micro"), noState}}},
		},
	}
	client := NewEC2ClientFromAPI(api, testRegion)

	instances, err := client.GetRunningInstances(context.Background())
	require.NoError(t, err)

	require.Len(t, instances, 1)
	assert.Equal(t, "i-running", instances[0].InstanceID)
}

func TestGetRunningInstancesPropagatesError(t *testing.T) {
	api := &fakeEC2API{err: errors.New("denied")}
	client := NewEC2ClientFromAPI(api, "eu-west-1")

	instances, err := client.GetRunningInstances(context.Background())

	require.Error(t, err)
	assert.Nil(t, instances)
	assert.Contains(t, err.Error(), "eu-west-1")
}
