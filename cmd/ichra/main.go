package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/benefitflow/ichra-engine/internal/config"
	"github.com/benefitflow/ichra-engine/internal/domain"
	"github.com/benefitflow/ichra-engine/internal/engine"
	"github.com/benefitflow/ichra-engine/internal/output"
	"github.com/benefitflow/ichra-engine/pkg/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "ichra %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
				fmt.Fprintf(os.Stdout, "module %s %s\n", bi.Main.Path, bi.Main.Version)
			}
		},
	}
}

type quoteFlags struct {
	input         string
	format        string
	metalLevels   []string
	carriers      []string
	planTypes     []string
	market        string
	premiumMin    float64
	premiumMax    float64
	deductibleMin float64
	deductibleMax float64
	networkSize   string
	hsa           string
	prescriptions string
	compliantOnly bool
}

func quoteCmd() *cobra.Command {
	flags := &quoteFlags{}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Run a group quote from an input bundle",
		Long: `Quote loads a YAML input bundle (roster, benefit classes, plan catalog),
applies the requested plan filters, selects the lowest-cost plan per member,
and prints the group summary.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			settings, err := config.LoadSettings(ctx)
			if err != nil {
				return fmt.Errorf("failed to load settings: %w", err)
			}
			if err := logger.SetLevelString(settings.LogLevel); err != nil {
				return err
			}

			parser := config.NewInputParser()
			inputs, loadIssues, err := parser.LoadFromFile(flags.input)
			if err != nil {
				return fmt.Errorf("failed to load input bundle: %w", err)
			}

			spec, err := flags.filterSpec(cmd, inputs.Filter)
			if err != nil {
				return err
			}
			inputs.Filter = spec

			eng := engine.New(
				engine.WithThresholdPercent(decimal.NewFromFloat(settings.AffordabilityPercent)),
				engine.WithParallelism(settings.WorkerCount),
			)

			result, err := eng.Recompute(ctx, *inputs)
			if err != nil {
				return fmt.Errorf("recomputation failed: %w", err)
			}
			result.Issues = append(loadIssues, result.Issues...)

			report, err := output.GenerateReport(result, flags.format)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(report)
			return err
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Path to the YAML input bundle (required)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "console", "Output format: console, json, csv")
	cmd.Flags().StringSliceVar(&flags.metalLevels, "metal", nil, "Restrict to metal levels (bronze, silver, gold, platinum, catastrophic)")
	cmd.Flags().StringSliceVar(&flags.carriers, "carrier", nil, "Restrict to carriers")
	cmd.Flags().StringSliceVar(&flags.planTypes, "plan-type", nil, "Restrict to plan types (HMO, PPO, EPO, POS, HDHP)")
	cmd.Flags().StringVar(&flags.market, "market", "", "Restrict to a market segment (on_market, off_market)")
	cmd.Flags().Float64Var(&flags.premiumMin, "premium-min", 0, "Minimum monthly premium")
	cmd.Flags().Float64Var(&flags.premiumMax, "premium-max", 0, "Maximum monthly premium")
	cmd.Flags().Float64Var(&flags.deductibleMin, "deductible-min", 0, "Minimum deductible")
	cmd.Flags().Float64Var(&flags.deductibleMax, "deductible-max", 0, "Maximum deductible")
	cmd.Flags().StringVar(&flags.networkSize, "network", "", "Restrict to a network size (small, medium, large)")
	cmd.Flags().StringVar(&flags.hsa, "hsa", "any", "HSA eligibility constraint: any, required, excluded")
	cmd.Flags().StringVar(&flags.prescriptions, "rx", "any", "Prescription coverage constraint: any, required, excluded")
	cmd.Flags().BoolVar(&flags.compliantOnly, "compliant-only", false, "Only consider ICHRA-compliant plans")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// filterSpec merges CLI flags over the bundle's starting filter. A flag that
// was not set leaves the bundle's constraint in place.
func (f *quoteFlags) filterSpec(cmd *cobra.Command, base domain.FilterSpec) (domain.FilterSpec, error) {
	spec := base

	if cmd.Flags().Changed("metal") {
		spec.MetalLevels = nil
		for _, m := range f.metalLevels {
			spec.MetalLevels = append(spec.MetalLevels, domain.MetalLevel(m))
		}
	}
	if cmd.Flags().Changed("carrier") {
		spec.Carriers = f.carriers
	}
	if cmd.Flags().Changed("plan-type") {
		spec.PlanTypes = nil
		for _, t := range f.planTypes {
			spec.PlanTypes = append(spec.PlanTypes, domain.PlanType(t))
		}
	}
	if cmd.Flags().Changed("market") {
		spec.Market = domain.MarketSegment(f.market)
	}
	if cmd.Flags().Changed("premium-min") {
		min := decimal.NewFromFloat(f.premiumMin)
		spec.Premium.Min = &min
	}
	if cmd.Flags().Changed("premium-max") {
		max := decimal.NewFromFloat(f.premiumMax)
		spec.Premium.Max = &max
	}
	if cmd.Flags().Changed("deductible-min") {
		min := decimal.NewFromFloat(f.deductibleMin)
		spec.Deductible.Min = &min
	}
	if cmd.Flags().Changed("deductible-max") {
		max := decimal.NewFromFloat(f.deductibleMax)
		spec.Deductible.Max = &max
	}
	if cmd.Flags().Changed("network") {
		spec.NetworkSize = domain.NetworkSize(f.networkSize)
	}
	if cmd.Flags().Changed("hsa") {
		ts, err := domain.ParseTriState(f.hsa)
		if err != nil {
			return spec, err
		}
		spec.HSAEligible = ts
	}
	if cmd.Flags().Changed("rx") {
		ts, err := domain.ParseTriState(f.prescriptions)
		if err != nil {
			return spec, err
		}
		spec.CoversPrescriptions = ts
	}
	if cmd.Flags().Changed("compliant-only") {
		spec.ICHRACompliantOnly = f.compliantOnly
	}

	return spec, nil
}

func main() {
	logger.Init()

	root := &cobra.Command{
		Use:   "ichra",
		Short: "ICHRA group quoting engine",
		Long: `ichra quotes employer health-benefit arrangements: it prices a member
roster against a plan catalog, resolves employer contributions by benefit
class, tests regulatory affordability, and reports group-level costs and
savings.`,
		SilenceUsage: true,
	}
	root.AddCommand(quoteCmd())
	root.AddCommand(versionCmd())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
