// StrategySim — Multi-Agent Business Decision Analysis
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/strategysim/strategysim/api"
	"github.com/strategysim/strategysim/internal/agent"
	"github.com/strategysim/strategysim/internal/config"
	"github.com/strategysim/strategysim/internal/report"
	"github.com/strategysim/strategysim/internal/research"
	"github.com/strategysim/strategysim/internal/toolkit"
	"github.com/strategysim/strategysim/pkg/logger"
	"github.com/strategysim/strategysim/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "strategysim",
	Short: "StrategySim — Multi-Agent Business Decision Analysis",
	Long: `StrategySim
A Go-based multi-agent decision analysis system. Five specialist agents
(investor, legal, analyst, customer, strategist) evaluate a structured
business decision concurrently and merge their findings into a single
decision report with option rankings, a risk register, and action items.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("StrategySim %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Validate Command ---

var validateCmd = &cobra.Command{
	Use:   "validate [decision.json]",
	Short: "Validate a decision input file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		decision, err := readDecision(args[0])
		if err != nil {
			return err
		}

		result := decision.Validate()
		if result.Valid {
			fmt.Printf("✅ %s is valid (completeness %.0f%%)\n", args[0], result.CompletenessScore*100)
		} else {
			fmt.Printf("❌ %s has %d error(s)\n", args[0], len(result.Errors))
			for _, e := range result.Errors {
				fmt.Printf("   error   [%s] %s\n", e.Field, e.Message)
			}
		}
		for _, w := range result.Warnings {
			fmt.Printf("   warning %s\n", w)
		}
		for _, s := range result.Suggestions {
			fmt.Printf("   hint    %s\n", s)
		}
		if !result.Valid {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [decision.json]",
	Short: "Run the full multi-agent analysis on a decision",
	Long: `Run all five specialist agents over a structured decision and produce
a merged decision report.

Examples:
  strategysim analyze decision.json
  strategysim analyze decision.json --format html --output report.html
  strategysim analyze decision.json --seed 42 --iterations 50000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		decision, err := readDecision(args[0])
		if err != nil {
			return err
		}

		log := logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

		iterations := cfg.Analysis.Iterations
		if n, _ := cmd.Flags().GetInt("iterations"); n > 0 {
			iterations = n
		}
		seed := cfg.Analysis.Seed
		if cmd.Flags().Changed("seed") {
			s, _ := cmd.Flags().GetInt64("seed")
			seed = &s
		}

		var researcher agent.Researcher
		if cfg.Analysis.EnableResearch {
			researcher = research.NewSourceFromURLs(cfg.Research.Feeds, research.Options{
				CacheTTL:   time.Duration(cfg.Research.CacheTTL) * time.Second,
				RatePerSec: cfg.Research.RatePerSec,
			})
		}

		quiet, _ := cmd.Flags().GetBool("quiet")
		var progress agent.ProgressFunc
		if !quiet {
			progress = func(ev agent.ProgressEvent) {
				switch ev.Stage {
				case "agent_started":
					fmt.Fprintf(os.Stderr, "🤖 %s started\n", ev.Agent)
				case "agent_finished":
					fmt.Fprintf(os.Stderr, "✅ %s finished\n", ev.Agent)
				case "agent_failed":
					fmt.Fprintf(os.Stderr, "❌ %s failed: %s\n", ev.Agent, ev.Message)
				}
			}
		}

		team := agent.NewTeam(agent.TeamConfig{
			Iterations: iterations,
			Seed:       seed,
			Researcher: researcher,
			Logger:     log,
			Progress:   progress,
		})

		rep, err := team.Analyze(context.Background(), decision)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		if format == "" {
			format = cfg.Report.Format
		}
		rendered, err := report.Generate(rep, report.Config{
			Format: report.Format(format),
			Author: cfg.Report.Author,
		})
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if output != "" {
			if err := os.WriteFile(output, []byte(rendered), 0644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(os.Stderr, "📄 Report written to %s\n", output)
			return nil
		}
		fmt.Println(rendered)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("format", "", "report format: text, html, json (default from config)")
	analyzeCmd.Flags().StringP("output", "o", "", "write report to file instead of stdout")
	analyzeCmd.Flags().Int("iterations", 0, "Monte Carlo iterations override")
	analyzeCmd.Flags().Int64("seed", 0, "fixed RNG seed for reproducible analysis")
	analyzeCmd.Flags().BoolP("quiet", "q", false, "suppress progress output")
}

// --- Assess Command ---

var assessCmd = &cobra.Command{
	Use:   "assess [request.json]",
	Short: "Run a standalone risk assessment",
	Long: `Run the full risk battery (Monte Carlo, scenarios, sensitivity, and
optional historical metrics) from a JSON request file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return invokeFromFile(cmd.Context(), toolkit.OpRiskAssessment, args[0])
	},
}

// --- Simulate Command ---

var simulateCmd = &cobra.Command{
	Use:   "simulate [request.json]",
	Short: "Run a standalone Monte Carlo simulation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return invokeFromFile(cmd.Context(), toolkit.OpMonteCarlo, args[0])
	},
}

// --- Tools Command ---

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the analysis toolkit operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		catalog := toolkit.Catalog()
		if asJSON {
			return printJSON(catalog)
		}
		for _, d := range catalog {
			fmt.Printf("  %-26s %s\n", d.Name, d.Description)
		}
		return nil
	},
}

func init() {
	toolsCmd.Flags().Bool("json", false, "print the full catalog with parameter schemas as JSON")
}

// --- Agents Command ---

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the analysis team",
	RunE: func(cmd *cobra.Command, args []string) error {
		team := agent.NewTeam(agent.TeamConfig{})
		for _, a := range team.Agents() {
			fmt.Printf("  %-22s (%s)\n", a.Name(), a.Role())
			fmt.Printf("      %s\n", a.Description())
		}
		return nil
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
		srv := api.NewServer(cfg, log)

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 Starting StrategySim API server on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  StrategySim — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    Iterations:    %d\n", cfg.Analysis.Iterations)
		if cfg.Analysis.Seed != nil {
			fmt.Printf("    Seed:          %d (fixed)\n", *cfg.Analysis.Seed)
		} else {
			fmt.Printf("    Seed:          random\n")
		}
		fmt.Printf("    Research:      %v\n", cfg.Analysis.EnableResearch)
		fmt.Printf("    Report Format: %s\n", cfg.Report.Format)
		fmt.Printf("    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Printf("    Log Level:     %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

// --- Helpers ---

// readDecision loads and decodes a decision input file.
func readDecision(path string) (*models.DecisionInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read decision file: %w", err)
	}
	var decision models.DecisionInput
	if err := json.Unmarshal(data, &decision); err != nil {
		return nil, fmt.Errorf("parse decision file: %w", err)
	}
	return &decision, nil
}

// invokeFromFile dispatches the file's JSON body to one toolkit operation
// and prints the result.
func invokeFromFile(ctx context.Context, op toolkit.Op, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read request file: %w", err)
	}
	result, err := toolkit.Invoke(ctx, op, data)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
