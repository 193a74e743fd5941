package models

import "time"

// NamePlaceholder is shown when an instance has no usable name tag
const NamePlaceholder = "N/A"

// NamePolicy selects how an instance display name is derived from its tags
type NamePolicy string

const (
	// NamePolicyFirstTag uses the value of the first tag, whatever its key
	NamePolicyFirstTag NamePolicy = "first-tag"

	// NamePolicyTagKey uses the value of the tag with a configured key (usually "Name")
	NamePolicyTagKey NamePolicy = "tag-key"
)

// Tag is an EC2 tag in the order the provider returned it
type Tag struct {
	Key   string
	Value string
}

// Instance represents a running EC2 instance
type Instance struct {
	InstanceID   string
	InstanceType string
	Region       string
	State        string
	LaunchTime   *time.Time
	Tags         []Tag
}

// UtilizationRecord is one line of the minimum CPU utilization report
type UtilizationRecord struct {
	Region         string  `json:"region"`
	InstanceName   string  `json:"instanceName"`
	InstanceID     string  `json:"instanceId"`
	InstanceType   string  `json:"instanceType"`
	MinCPUTwoWeeks float64 `json:"minCpuUtilizationTwoWeeks"`
	MinCPUOneMonth float64 `json:"minCpuUtilizationOneMonth"`

	// Set when the window had no samples and the minimum is the empty window value
	NoDataTwoWeeks bool `json:"noDataTwoWeeks,omitempty"`
	NoDataOneMonth bool `json:"noDataOneMonth,omitempty"`

	LaunchTime *time.Time `json:"launchTime,omitempty"`

	// Populated only when pricing estimation is enabled
	EstimatedMonthlyCost float64 `json:"estimatedMonthlyCost,omitempty"`
	PricingSource        string  `json:"pricingSource,omitempty"` // "API", "Cache", or "N/A"
}
