package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/RussAbbott/cubesat/internal/config"
	"github.com/RussAbbott/cubesat/internal/metrics"
	"github.com/RussAbbott/cubesat/internal/sim"
	"github.com/RussAbbott/cubesat/internal/storage"
	"github.com/RussAbbott/cubesat/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	duration   float64
	integrator string
	workers    int
	frameRate  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cubesat",
		Short: "orbital and attitude simulation for small satellites",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".cubesat", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scenario",
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "leo-hold", "built-in scenario")
	runCmd.Flags().Float64Var(&dt, "dt", 1.0, "timestep seconds")
	runCmd.Flags().Float64Var(&duration, "time", 60.0, "duration seconds")
	runCmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (rk4, euler)")
	runCmd.Flags().IntVar(&workers, "workers", 1, "parallel body workers")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a scenario with a live terminal view",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "chase", "built-in scenario")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	saveCmd := &cobra.Command{
		Use:   "scaffold [path]",
		Short: "write a scenario template to edit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetPreset("chase")
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, presetsCmd, plotCmd, exportCmd, liveCmd, saveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadScenario resolves --config over --preset; explicit flags win over both.
func loadScenario(cmd *cobra.Command) (*config.Config, string, error) {
	var cfg *config.Config
	name := preset

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if cfg.Name != "" {
			name = cfg.Name
		} else {
			name = "custom"
		}
	} else {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}

	return cfg, name, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := cfg.Build()
	if err != nil {
		return err
	}
	s.AddMetric(metrics.NewControlEffort())
	s.AddMetric(metrics.NewViolationCount())
	for _, bc := range cfg.Bodies {
		// Energy drift is only meaningful for uncommanded bodies.
		if bc.Law == nil || bc.Law.Type == "none" {
			s.AddMetric(metrics.NewEnergyDrift(bc.ID))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("running %s...\n", name)
	start := time.Now()

	result, runErr := s.Run(ctx)
	elapsed := time.Since(start)

	runID, err := st.Save(name, cfg.Dt, cfg.Duration, result)
	if err != nil {
		return err
	}

	fmt.Printf("%s in %v\n", result.Status, elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.Ticks)
	if len(result.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		for metric, val := range result.Metrics {
			fmt.Printf("  %s: %.6f\n", metric, val)
		}
	}

	return runErr
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tTICKS\tSTATUS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%.2fs\t%d\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Ticks,
			run.Status,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	records, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(records))

	byBody := make(map[string][]sim.Record)
	order := make([]string, 0)
	for _, rec := range records {
		if _, seen := byBody[rec.BodyID]; !seen {
			order = append(order, rec.BodyID)
		}
		byBody[rec.BodyID] = append(byBody[rec.BodyID], rec)
	}

	for _, id := range order {
		recs := byBody[id]
		radius := make([]float64, len(recs))
		for i, rec := range recs {
			radius[i] = rec.State.Position.Norm() / 1e3
		}
		fmt.Println(asciigraph.Plot(radius,
			asciigraph.Height(8), asciigraph.Width(70),
			asciigraph.Caption(fmt.Sprintf("%s radius (km)", id))))
		fmt.Println()
	}

	if len(order) == 2 {
		a, b := byBody[order[0]], byBody[order[1]]
		n := len(a)
		if len(b) < n {
			n = len(b)
		}
		sep := make([]float64, n)
		for i := 0; i < n; i++ {
			sep[i] = a[i].State.Position.Sub(b[i].State.Position).Norm()
		}
		fmt.Println(asciigraph.Plot(sep,
			asciigraph.Height(8), asciigraph.Width(70),
			asciigraph.Caption(fmt.Sprintf("%s-%s separation (m)", order[0], order[1]))))
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadScenario(cmd)
	if err != nil {
		return err
	}

	s, err := cfg.Build()
	if err != nil {
		return err
	}

	return tui.Run(s, name, frameRate)
}
