package pricing

import (
	"fmt"
	"strconv"

	"github.com/younsl/mincpu/pkg/utils"
)

// cacheHit updates stats when a cache hit occurs
func (s *Stats) cacheHit(service, region string) {
	s.update(service, region, statCache)
}

// apiSuccess updates stats when an API call succeeds
func (s *Stats) apiSuccess(service, region string) {
	s.update(service, region, statSuccess)
}

// apiFailure updates stats when an API call fails
func (s *Stats) apiFailure(service, region string) {
	s.update(service, region, statFailure)
}

// update increments one counter for a service and region
func (s *Stats) update(service, region, statType string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Initialize service map if needed
	if _, exists := s.counts[service]; !exists {
		s.counts[service] = make(map[string]map[string]int)
	}

	// Initialize region map if needed
	if _, exists := s.counts[service][region]; !exists {
		s.counts[service][region] = map[string]int{
			statSuccess: 0,
			statFailure: 0,
			statCache:   0,
		}
	}

	s.counts[service][region][statType]++
}

// ExtractOnDemandPrice extracts the on-demand price from the pricing data JSON
func ExtractOnDemandPrice(priceJSON string) (float64, error) {
	priceData, err := utils.ParseJSON(priceJSON)
	if err != nil {
		return 0, fmt.Errorf("error parsing pricing data: %w", err)
	}

	// The structure of the pricing data can be complex and may change
	onDemand, err := utils.GetNestedMap(priceData, "terms", "OnDemand")
	if err != nil {
		return 0, fmt.Errorf("OnDemand terms not found: %w", err)
	}

	// Extract the first skuOffer
	skuOffer, err := utils.GetFirstMapValue(onDemand)
	if err != nil {
		return 0, fmt.Errorf("no SKU offer found")
	}

	skuOfferMap, ok := skuOffer.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("SKU offer is not a map")
	}

	priceDimensions, ok := skuOfferMap["priceDimensions"].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("priceDimensions field not found or invalid")
	}

	// Extract the first price dimension
	dimension, err := utils.GetFirstMapValue(priceDimensions)
	if err != nil {
		return 0, fmt.Errorf("no price dimension found")
	}

	dimensionMap, ok := dimension.(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("price dimension is not a map")
	}

	pricePerUnit, ok := dimensionMap["pricePerUnit"].(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("pricePerUnit field not found or invalid")
	}

	usd, ok := pricePerUnit["USD"].(string)
	if !ok {
		return 0, fmt.Errorf("USD price not found or invalid")
	}

	price, err := strconv.ParseFloat(usd, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing price: %w", err)
	}

	return price, nil
}
