package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/younsl/mincpu/internal/config"
	"github.com/younsl/mincpu/internal/logging"
	"github.com/younsl/mincpu/internal/models"
	"github.com/younsl/mincpu/internal/version"
	"github.com/younsl/mincpu/pkg/aws"
	"github.com/younsl/mincpu/pkg/formatter"
	"github.com/younsl/mincpu/pkg/pricing"
	"github.com/younsl/mincpu/pkg/report"
)

var (
	configPath  string
	showVersion bool
)

// startScanSpinner creates and starts a spinner on stderr so stdout stays clean for the report
func startScanSpinner() *spinner.Spinner {
	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " Analyzing EC2 instances ..."
	// Don't set FinalMSG here as it will be set dynamically based on scan time
	s.Start()
	return s
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "mincpu",
		Short: "Report the minimum CPU utilization of running EC2 instances",
		Long: `mincpu lists every running EC2 instance in every enabled region and
prints the minimum CPUUtilization CloudWatch has recorded for it over the
last two weeks and the last 30 days.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// If version flag is set, print version info and exit
			if showVersion {
				fmt.Println(version.Get())
				return nil
			}

			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}

			return run(cmd.Context(), cfg)
		},
	}

	flags := rootCmd.Flags()
	flags.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flags.StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	flags.StringSliceP("regions", "r", nil, "AWS regions to check (comma separated, default: all enabled regions)")
	flags.String("profile", "", "Shared config profile to use")
	flags.String("default-region", "", "Home region used to enumerate regions")
	flags.String("endpoint-url", "", "Override the AWS service endpoint (e.g. LocalStack)")
	flags.String("name-policy", string(models.NamePolicyFirstTag), "Instance name source: first-tag or tag-key")
	flags.String("name-tag-key", "Name", "Tag key read by the tag-key name policy")
	flags.StringP("output", "o", config.OutputText, "Output format: text, table or json")
	flags.Int("concurrency", 1, "Number of regions scanned in parallel")
	flags.Bool("pricing", false, "Add on-demand monthly cost estimates (table and json output)")
	flags.String("timeout", "", "Abort the scan after this duration (e.g. 10m)")
	flags.String("log-level", "info", "Log level: debug, info or error")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if class := aws.Classify(err); class != aws.ErrorClassOther {
			fmt.Fprintf(os.Stderr, "Error class: %s\n", class)
		}
		os.Exit(1)
	}
}

// run generates and prints the report
func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.New(cfg.LogLevel)

	if timeout := cfg.GetTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cc := cfg.ClientConfig()

	// Resolve the home region before enumerating regions from it
	homeCfg, err := aws.LoadAWSConfig(ctx, cc, cc.DefaultRegion)
	if err != nil {
		return err
	}
	cc.DefaultRegion = aws.ResolveDefaultRegion(ctx, cc, homeCfg.Region, aws.NewRegionMetadataClient())

	regionClient, err := aws.NewEC2Client(ctx, cc, cc.DefaultRegion)
	if err != nil {
		return err
	}
	logger.V(1).Info("Using home region", "region", regionClient.Region())

	var estimator *pricing.Estimator
	opts := report.Options{
		Regions:     cfg.Regions,
		NamePolicy:  models.NamePolicy(cfg.NamePolicy),
		NameTagKey:  cfg.NameTagKey,
		Concurrency: cfg.Concurrency,
	}
	if cfg.Pricing {
		estimator, err = pricing.NewEstimator(ctx, cc, logger)
		if err != nil {
			// Pricing is an extra; the report goes on without it
			logger.Error(err, "Pricing disabled")
		} else {
			opts.Estimator = estimator
		}
	}

	scanStartTime := time.Now()
	s := startScanSpinner()

	var (
		progressLock   sync.Mutex
		regionsDone    int
		instancesFound int
	)
	opts.OnRegionDone = func(region string, instances int) {
		progressLock.Lock()
		defer progressLock.Unlock()
		regionsDone++
		instancesFound += instances
		s.Lock()
		s.Suffix = fmt.Sprintf(" [%d regions, %d instances] Last: %s", regionsDone, instancesFound, region)
		s.Unlock()
	}

	generator := report.NewGenerator(regionClient, awsClientFactory{cc: cc}, opts, logger)
	r, err := generator.Generate(ctx)

	scanDuration := time.Since(scanStartTime)
	if err != nil {
		s.FinalMSG = fmt.Sprintf("✗ EC2 scan failed after %.2f seconds\n", scanDuration.Seconds())
		s.Stop()
		return err
	}

	// Set completion message with scan time and resource count
	s.FinalMSG = fmt.Sprintf("✓ [%d instances found] EC2 resources analyzed - Completed in %.2f seconds\n",
		len(r.Records), scanDuration.Seconds())
	s.Stop()

	return render(os.Stdout, cfg, r, estimator, scanStartTime, scanDuration, logger)
}

// render prints the report to w in the configured output format
func render(w io.Writer, cfg *config.Config, r *report.Report, estimator *pricing.Estimator, scanStartTime time.Time, scanDuration time.Duration, logger logr.Logger) error {
	switch cfg.Output {
	case config.OutputText:
		formatter.PrintReportLines(w, r.Records)
	case config.OutputTable:
		formatter.PrintReportTable(w, r, estimator != nil)
		formatter.PrintReportSummary(w, r)
		if estimator != nil {
			formatter.PrintPricingAPIStats(w, estimator.Stats())
		}
		fmt.Fprintln(w)
		formatter.PrintScanDuration(w, scanStartTime, scanDuration)
	case config.OutputJSON:
		if err := formatter.PrintReportJSON(w, r); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q", cfg.Output)
	}

	logger.V(1).Info("Report printed", "records", len(r.Records), "output", cfg.Output)
	return nil
}
