package pricing

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/younsl/mincpu/pkg/utils"
)

// HourlyPrice returns the hourly on-demand Linux price for an EC2 instance type and its source
func (e *Estimator) HourlyPrice(ctx context.Context, instanceType, region string) (float64, PricingSource) {
	cacheKey := fmt.Sprintf("%s:%s", region, instanceType)

	// Check cache first
	e.cacheLock.RLock()
	if price, exists := e.cache[cacheKey]; exists {
		e.cacheLock.RUnlock()
		e.stats.cacheHit(serviceEC2, region)
		return price, PricingSourceCache
	}
	e.cacheLock.RUnlock()

	price, err := e.getEC2PriceFromAPI(ctx, instanceType, region)
	if err != nil {
		e.stats.apiFailure(serviceEC2, region)
		e.logger.V(1).Info("Pricing lookup failed", "instanceType", instanceType, "region", region, "error", err.Error())

		// Return 0 with N/A source, don't use fallback prices
		return 0, PricingSourceNA
	}

	e.stats.apiSuccess(serviceEC2, region)

	e.cacheLock.Lock()
	e.cache[cacheKey] = price
	e.cacheLock.Unlock()

	return price, PricingSourceAPI
}

// MonthlyCost returns the estimated monthly cost for an instance type and the pricing source
func (e *Estimator) MonthlyCost(ctx context.Context, instanceType, region string) (float64, string) {
	hourlyPrice, source := e.HourlyPrice(ctx, instanceType, region)

	// If we couldn't get a price, return 0 and N/A
	if source == PricingSourceNA {
		return 0, string(PricingSourceNA)
	}

	return hourlyPrice * utils.GetMonthlyHours(), string(source)
}

// getEC2PriceFromAPI retrieves EC2 instance pricing from the AWS Pricing API
func (e *Estimator) getEC2PriceFromAPI(ctx context.Context, instanceType, region string) (float64, error) {
	location, ok := utils.GetRegionDescriptiveName(region)
	if !ok {
		return 0, fmt.Errorf("no pricing location known for region %s", region)
	}

	// Construct filters for EC2 Linux on-demand instances
	filters := []types.Filter{
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("instanceType"),
			Value: aws.String(instanceType),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("location"),
			Value: aws.String(location),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("operatingSystem"),
			Value: aws.String("Linux"),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("tenancy"),
			Value: aws.String("Shared"),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("preInstalledSw"),
			Value: aws.String("NA"),
		},
		{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String("capacitystatus"),
			Value: aws.String("Used"),
		},
	}

	priceJSON, err := e.getPriceFromAPI(ctx, "AmazonEC2", filters, instanceType, region)
	if err != nil {
		return 0, err
	}

	return ExtractOnDemandPrice(priceJSON)
}
