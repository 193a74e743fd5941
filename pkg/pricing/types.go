package pricing

// PricingSource represents the source of pricing information
type PricingSource string

const (
	// PricingSourceAPI indicates pricing data came from AWS API
	PricingSourceAPI PricingSource = "API"

	// PricingSourceCache indicates pricing data came from cache
	PricingSourceCache PricingSource = "Cache"

	// PricingSourceNA indicates pricing data is not available
	PricingSourceNA PricingSource = "N/A"
)

// Stat counters tracked per service and region
const (
	statSuccess = "success"
	statFailure = "failure"
	statCache   = "cache"
)

// serviceEC2 is the stats key for EC2 instance lookups
const serviceEC2 = "EC2"
