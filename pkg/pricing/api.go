package pricing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/go-logr/logr"
	awsclient "github.com/younsl/mincpu/pkg/aws"
)

// The AWS Pricing API is only available in us-east-1 and ap-south-1 regions
const pricingRegion = "us-east-1"

// apiTimeout bounds a single GetProducts call
const apiTimeout = 5 * time.Second

// ProductsAPI is the subset of the Pricing API used by Estimator
type ProductsAPI interface {
	GetProducts(ctx context.Context, params *pricing.GetProductsInput, optFns ...func(*pricing.Options)) (*pricing.GetProductsOutput, error)
}

// Estimator looks up on-demand instance prices and caches them for the run
type Estimator struct {
	api    ProductsAPI
	stats  *Stats
	logger logr.Logger

	cacheLock sync.RWMutex
	cache     map[string]float64 // "region:instanceType" -> hourly USD
}

// NewEstimator creates an Estimator backed by the Pricing API in us-east-1
func NewEstimator(ctx context.Context, cc awsclient.ClientConfig, logger logr.Logger) (*Estimator, error) {
	cfg, err := awsclient.LoadAWSConfig(ctx, cc, pricingRegion)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config for pricing API: %w", err)
	}

	var pricingOpts []func(*pricing.Options)
	if cc.EndpointURL != "" {
		endpoint := cc.EndpointURL
		pricingOpts = append(pricingOpts, func(o *pricing.Options) {
			o.BaseEndpoint = &endpoint
		})
	}

	logger.V(1).Info("AWS Pricing API initialized", "region", pricingRegion)
	return NewEstimatorFromAPI(pricing.NewFromConfig(cfg, pricingOpts...), logger), nil
}

// NewEstimatorFromAPI wraps an existing Pricing API implementation
func NewEstimatorFromAPI(api ProductsAPI, logger logr.Logger) *Estimator {
	return &Estimator{
		api:    api,
		stats:  NewStats(),
		logger: logger,
		cache:  make(map[string]float64),
	}
}

// Stats returns the API call statistics collected so far
func (e *Estimator) Stats() *Stats {
	return e.stats
}

// getPriceFromAPI returns the first price list entry matching the filters
func (e *Estimator) getPriceFromAPI(ctx context.Context, serviceCode string, filters []types.Filter, resourceType, region string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	input := &pricing.GetProductsInput{
		ServiceCode: aws.String(serviceCode),
		Filters:     filters,
		MaxResults:  aws.Int32(1),
	}

	resp, err := e.api.GetProducts(ctx, input)
	if err != nil {
		return "", fmt.Errorf("error calling AWS Pricing API: %w", err)
	}

	if len(resp.PriceList) == 0 {
		return "", fmt.Errorf("no pricing found for %s in region %s", resourceType, region)
	}

	return resp.PriceList[0], nil
}
