package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/younsl/mincpu/internal/models"
	"github.com/younsl/mincpu/pkg/utils"
)

// RegionLister enumerates the regions to scan
type RegionLister interface {
	ListRegions(ctx context.Context) ([]string, error)
}

// InstanceLister enumerates running instances in one region
type InstanceLister interface {
	GetRunningInstances(ctx context.Context) ([]models.Instance, error)
}

// UtilizationFetcher returns the minimum CPU utilization of an instance over [start, end]
// and whether the window held any sample
type UtilizationFetcher interface {
	GetMinCPUUtilization(ctx context.Context, instanceID string, start, end time.Time) (float64, bool, error)
}

// CostEstimator estimates the monthly cost of an instance type in a region
type CostEstimator interface {
	MonthlyCost(ctx context.Context, instanceType, region string) (float64, string)
}

// ClientFactory builds the per-region clients a scan needs
type ClientFactory interface {
	Instances(ctx context.Context, region string) (InstanceLister, error)
	Utilization(ctx context.Context, region string) (UtilizationFetcher, error)
}

// Options tunes a Generator
type Options struct {
	// Regions restricts the scan to these regions; empty means every enumerated region
	Regions []string

	NamePolicy models.NamePolicy
	NameTagKey string

	// Concurrency is the number of regions scanned at once; values below 1 mean sequential
	Concurrency int

	// Estimator adds monthly cost estimates when set
	Estimator CostEstimator

	// Now anchors both windows; defaults to time.Now
	Now func() time.Time

	// OnRegionDone is called after each region finishes, possibly from several goroutines
	OnRegionDone func(region string, instances int)
}

// Report is the result of a single scan
type Report struct {
	GeneratedAt time.Time
	TwoWeeks    Window
	OneMonth    Window
	Regions     []string
	Records     []models.UtilizationRecord
}

// Generator produces minimum CPU utilization reports
type Generator struct {
	regions RegionLister
	clients ClientFactory
	opts    Options
	logger  logr.Logger
}

// NewGenerator creates a new Generator
func NewGenerator(regions RegionLister, clients ClientFactory, opts Options, logger logr.Logger) *Generator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Generator{
		regions: regions,
		clients: clients,
		opts:    opts,
		logger:  logger,
	}
}

// regionResult holds the outcome of scanning a single region
type regionResult struct {
	records []models.UtilizationRecord
	err     error
}

// Generate scans every region and returns one record per running instance.
// Any region failure fails the whole report.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	now := g.opts.Now().UTC()
	twoWeeks, oneMonth := StandardWindows(now)

	allRegions, err := g.regions.ListRegions(ctx)
	if err != nil {
		return nil, err
	}
	regions := g.selectRegions(allRegions)
	g.logger.V(1).Info("Regions selected", "count", len(regions), "enumerated", len(allRegions))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Each region writes only its own slot so output order stays region order
	results := make([]regionResult, len(regions))

	sem := make(chan struct{}, g.opts.Concurrency)
	var wg sync.WaitGroup
	for i, region := range regions {
		wg.Add(1)
		go func(idx int, r string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				results[idx].err = ctx.Err()
				return
			}

			records, err := g.scanRegion(ctx, r, twoWeeks, oneMonth)
			if err != nil {
				results[idx].err = fmt.Errorf("region %s: %w", r, err)
				cancel()
				return
			}
			results[idx].records = records

			if g.opts.OnRegionDone != nil {
				g.opts.OnRegionDone(r, len(records))
			}
		}(i, region)
	}
	wg.Wait()

	report := &Report{
		GeneratedAt: now,
		TwoWeeks:    twoWeeks,
		OneMonth:    oneMonth,
		Regions:     regions,
		Records:     []models.UtilizationRecord{},
	}

	// Prefer the error that caused the cancellation over the regions it cancelled
	var firstErr error
	for _, result := range results {
		if result.err == nil {
			report.Records = append(report.Records, result.records...)
			continue
		}
		if firstErr == nil || (isCancellation(firstErr) && !isCancellation(result.err)) {
			firstErr = result.err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	return report, nil
}

// scanRegion builds the records of one region in instance order
func (g *Generator) scanRegion(ctx context.Context, region string, twoWeeks, oneMonth Window) ([]models.UtilizationRecord, error) {
	instanceLister, err := g.clients.Instances(ctx, region)
	if err != nil {
		return nil, err
	}
	fetcher, err := g.clients.Utilization(ctx, region)
	if err != nil {
		return nil, err
	}

	instances, err := instanceLister.GetRunningInstances(ctx)
	if err != nil {
		return nil, err
	}
	g.logger.V(1).Info("Running instances found", "region", region, "count", len(instances))

	records := make([]models.UtilizationRecord, 0, len(instances))
	for _, instance := range instances {
		record, err := g.buildRecord(ctx, region, instance, fetcher, twoWeeks, oneMonth)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// buildRecord fetches both windows for one instance
func (g *Generator) buildRecord(ctx context.Context, region string, instance models.Instance, fetcher UtilizationFetcher, twoWeeks, oneMonth Window) (models.UtilizationRecord, error) {
	minTwoWeeks, hasTwoWeeks, err := fetcher.GetMinCPUUtilization(ctx, instance.InstanceID, twoWeeks.Start, twoWeeks.End)
	if err != nil {
		return models.UtilizationRecord{}, err
	}

	minOneMonth, hasOneMonth, err := fetcher.GetMinCPUUtilization(ctx, instance.InstanceID, oneMonth.Start, oneMonth.End)
	if err != nil {
		return models.UtilizationRecord{}, err
	}

	record := models.UtilizationRecord{
		Region:         region,
		InstanceName:   utils.ResolveName(instance.Tags, g.opts.NamePolicy, g.opts.NameTagKey),
		InstanceID:     instance.InstanceID,
		InstanceType:   instance.InstanceType,
		MinCPUTwoWeeks: minTwoWeeks,
		MinCPUOneMonth: minOneMonth,
		NoDataTwoWeeks: !hasTwoWeeks,
		NoDataOneMonth: !hasOneMonth,
		LaunchTime:     instance.LaunchTime,
	}

	if g.opts.Estimator != nil {
		record.EstimatedMonthlyCost, record.PricingSource = g.opts.Estimator.MonthlyCost(ctx, instance.InstanceType, region)
	}

	return record, nil
}

// selectRegions keeps enumerated regions, in provider order, that pass the region filter
func (g *Generator) selectRegions(enumerated []string) []string {
	if len(g.opts.Regions) == 0 {
		return enumerated
	}

	wanted := make(map[string]bool, len(g.opts.Regions))
	for _, r := range g.opts.Regions {
		wanted[r] = true
	}

	var selected []string
	known := make(map[string]bool, len(enumerated))
	for _, r := range enumerated {
		known[r] = true
		if wanted[r] {
			selected = append(selected, r)
		}
	}

	for _, r := range g.opts.Regions {
		if !known[r] {
			g.logger.Info("Skipping region not enabled for this account", "region", r)
		}
	}

	return selected
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
