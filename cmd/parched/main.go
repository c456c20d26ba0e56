package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/parched/internal/analysis"
	"github.com/san-kum/parched/internal/audio"
	"github.com/san-kum/parched/internal/config"
	"github.com/san-kum/parched/internal/experiment"
	"github.com/san-kum/parched/internal/export"
	"github.com/san-kum/parched/internal/gui"
	"github.com/san-kum/parched/internal/logging"
	"github.com/san-kum/parched/internal/metrics"
	"github.com/san-kum/parched/internal/scene"
	"github.com/san-kum/parched/internal/storage"
	"github.com/san-kum/parched/internal/viz"
)

var (
	configFile string
	preset     string
	storePath  string
	logLevel   string

	dt     float64
	frames int
	seed   int64
	every  int
	wind   bool
	noSave bool

	subSteps   int
	correction float64

	fps       int
	withAudio bool

	outFile string
	metric  string
	svgSize int

	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	sweepWorkers int
	ensembleRuns int
)

// main registers the commands and runs the scene picker when no subcommand
// is given.
func main() {
	rootCmd := &cobra.Command{
		Use:          "parched",
		Short:        "verlet ball sandbox",
		SilenceUsage: true,
		RunE:         runInteractive,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "world preset ("+strings.Join(config.ListPresets(), ", ")+")")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", config.DefaultStore, "run database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and store its metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	addWorldFlags(runCmd)
	runCmd.Flags().IntVar(&every, "every", 1, "sample every n frames")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addWorldFlags(liveCmd)
	liveCmd.Flags().IntVar(&fps, "fps", config.DefaultFPS, "frame rate")

	guiCmd := &cobra.Command{
		Use:   "gui [scene]",
		Short: "run a scene in a desktop window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	addWorldFlags(guiCmd)
	guiCmd.Flags().BoolVar(&withAudio, "audio", false, "play an ambient pad driven by kinetic energy")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "summarise and find the dominant frequency of stored metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list built-in scenes and hooks",
		RunE:  listScenes,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run with its samples as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (stdout when empty)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "plot one stored metric as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (stdout when empty)")
	exportSVGCmd.Flags().StringVar(&metric, "metric", "kinetic_energy", "metric to plot")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [scene]",
		Short: "run a scene headless and draw its last frame as svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshot,
	}
	addWorldFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (stdout when empty)")
	snapshotCmd.Flags().IntVar(&svgSize, "size", 512, "image size in pixels")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "run a scene across a range of one world parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addWorldFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "correction", "parameter (correction, sub_steps, gravity)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 0, "parallel runs (0 for one per CPU)")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [scene]",
		Short: "repeat a scene over consecutive seeds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	addWorldFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&ensembleRuns, "runs", 8, "number of seeds")

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark a scene across sub-step counts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	addWorldFlags(benchCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list world presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, scenesCmd, listCmd, plotCmd, analyzeCmd, deleteCmd,
		exportJSONCmd, exportCSVCmd, exportSVGCmd, snapshotCmd, sweepCmd, ensembleCmd, benchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addWorldFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "frame timestep")
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to simulate")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().BoolVar(&wind, "wind", false, "enable the noise wind field")
	cmd.Flags().IntVar(&subSteps, "sub-steps", config.DefaultSubSteps, "solver sub-steps per frame")
	cmd.Flags().Float64Var(&correction, "correction", 0.5, "collision correction factor")
}

// loadConfig layers defaults, the config file, the preset and finally any
// flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" && !cfg.Apply(preset) {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Changed("frames") {
		cfg.Run.Frames = frames
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("wind") {
		cfg.Wind.Enabled = wind
	}
	if flags.Changed("sub-steps") {
		cfg.World.SubSteps = subSteps
	}
	if flags.Changed("correction") {
		cfg.World.Correction = float32(correction)
	}
	if flags.Changed("fps") {
		cfg.Live.FPS = fps
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, cfg.Validate()
}

func sceneName(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Scene
}

func experimentConfig(cfg *config.Config, s *scene.Scene) experiment.Config {
	ec := experiment.Config{
		Scene:  s,
		World:  cfg.WorldConfig(),
		Dt:     cfg.Run.Dt,
		Frames: cfg.Run.Frames,
		Seed:   cfg.Seed,
		Every:  every,
	}
	if cfg.Wind.Enabled {
		ec.Wind = &experiment.WindConfig{Strength: cfg.Wind.Strength, Scale: cfg.Wind.Scale, Speed: cfg.Wind.Speed}
	}
	return ec
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// openStore opens the --store database, or the config file's store when the
// flag was left at its default.
func openStore(cmd *cobra.Command) (*storage.Store, error) {
	path := storePath
	if !cmd.Flags().Changed("store") && configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		path = cfg.Storage.Path
	}
	return storage.Open(cmd.Context(), path)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.Quiet(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	base := experimentConfig(cfg, nil)
	base.Dt = viz.PhysicsDt
	return viz.RunInteractive(base, liveOptions(cfg, ""), log)
}

func liveOptions(cfg *config.Config, name string) viz.Options {
	return viz.Options{
		Width:  cfg.Live.Width,
		Height: cfg.Live.Height,
		FPS:    cfg.Live.FPS,
		Scene:  name,
		Wind:   experiment.WindConfig{Strength: cfg.Wind.Strength, Scale: cfg.Wind.Scale, Speed: cfg.Wind.Speed},
	}
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	name := sceneName(cfg, args)
	s, err := scene.Resolve(name)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	exp := experiment.New(experimentConfig(cfg, s), log)
	if err := exp.Setup(); err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("scene: %s\n", s.Name)
	fmt.Printf("frames: %s in %v (%s frames/sec)\n",
		humanize.Comma(int64(result.Frames)), result.Elapsed.Round(time.Millisecond),
		humanize.Comma(int64(float64(result.Frames)/result.Elapsed.Seconds())))
	fmt.Printf("balls: %s\n", humanize.Comma(int64(result.Balls)))
	for _, name := range metrics.Names() {
		fmt.Printf("%s: %.6f\n", name, result.Metrics[name])
	}

	if noSave {
		return nil
	}

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	runID, err := st.Save(ctx, storage.RunMetadata{
		Scene:    s.Name,
		Preset:   preset,
		Seed:     cfg.Seed,
		Dt:       cfg.Run.Dt,
		Frames:   result.Frames,
		SubSteps: cfg.World.SubSteps,
		Balls:    result.Balls,
		Metrics:  result.Metrics,
	}, result.Samples)
	if err != nil {
		return err
	}
	log.Info("run saved", zap.String("id", runID))
	fmt.Printf("run: %s\n", runID)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.Quiet(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	name := sceneName(cfg, args)
	s, err := scene.Resolve(name)
	if err != nil {
		return err
	}

	ec := experimentConfig(cfg, s)
	ec.Dt = viz.PhysicsDt
	m, err := viz.Launch(ec, liveOptions(cfg, s.Name), log)
	if err != nil {
		return err
	}
	return viz.RunLive(m)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	s, err := scene.Resolve(sceneName(cfg, args))
	if err != nil {
		return err
	}

	var opts []gui.Option
	if withAudio {
		synth := audio.NewSynth()
		player, err := audio.Start(synth)
		if err != nil {
			log.Warn("audio unavailable", zap.Error(err))
		} else {
			defer player.Stop()
			opts = append(opts, gui.WithObserver(synth))
		}
	}

	wc := experiment.WindConfig{Strength: cfg.Wind.Strength, Scale: cfg.Wind.Scale, Speed: cfg.Wind.Speed}
	return gui.Run(experimentConfig(cfg, s), wc, log, opts...)
}

func listScenes(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tBALLS\tEMITTERS\tDESCRIPTION")
	for _, name := range scene.List() {
		s := scene.Get(name)
		n := 0
		for _, b := range s.Balls {
			n += max(1, b.Count)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", s.Name, n, len(s.Emitters), s.Description)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nhooks: %s (or lua:<name> for scripted hooks)\n", strings.Join(scene.HookNames(), ", "))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tCREATED\tFRAMES\tDT\tSUB\tBALLS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4fs\t%d\t%s\n",
			run.ID,
			run.Scene,
			humanize.Time(run.Timestamp),
			humanize.Comma(int64(run.Frames)),
			run.Dt,
			run.SubSteps,
			humanize.Comma(int64(run.Balls)),
		)
	}
	return w.Flush()
}

func loadRun(cmd *cobra.Command, runID string) (*storage.RunMetadata, []metrics.Sample, error) {
	ctx := cmd.Context()
	st, err := openStore(cmd)
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()

	meta, err := st.Load(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, samples, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(samples))

	for _, name := range metrics.Names() {
		graph := asciigraph.Plot(metrics.Series(samples, name),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(strings.ReplaceAll(name, "_", " ")),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if len(samples) < 4 {
		return fmt.Errorf("not enough samples to analyze")
	}

	// samples may be thinned, so derive spacing from the recorded times
	spacing := (samples[len(samples)-1].Time - samples[0].Time) / float64(len(samples)-1)

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s\n\n", meta.Scene)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV\tMIN\tMAX\tSETTLED\tDOMINANT")
	for _, name := range metrics.Names() {
		series := metrics.Series(samples, name)
		st := analysis.Describe(series)
		settled := samples[analysis.SettleFrame(series, 0.05*math.Max(math.Abs(st.Final), 1e-3))].Frame

		dominant := "-"
		if freq, _, err := analysis.Dominant(series, spacing); err == nil && freq > 0 {
			dominant = fmt.Sprintf("%.3f Hz", freq)
		}
		fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%.4g\t%.4g\t%d\t%s\n",
			name, st.Mean, st.StdDev, st.Min, st.Max, settled, dominant)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	ps := analysis.PowerSpectrum(metrics.Series(samples, "kinetic_energy"))
	if len(ps) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(ps[1:],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (kinetic energy)"),
		))
	}
	return nil
}

func deleteRun(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Delete(cmd.Context(), args[0])
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if outFile == "" {
		return export.ExportJSONStdout(meta, samples)
	}
	return export.ExportJSON(outFile, meta, samples)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	return export.WriteCSV(os.Stdout, samples, nil)
}

func writeOut(body string) error {
	if outFile == "" {
		_, err := fmt.Println(body)
		return err
	}
	return os.WriteFile(outFile, []byte(body), 0644)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	svg := export.SeriesToSVG(metrics.Series(samples, metric), 800, 300, "#00ff88")
	if svg == "" {
		return fmt.Errorf("not enough samples to plot %s", metric)
	}
	return writeOut(svg)
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.Quiet(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	s, err := scene.Resolve(sceneName(cfg, args))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	exp := experiment.New(experimentConfig(cfg, s), log)
	if err := exp.Setup(); err != nil {
		return err
	}
	if _, err := exp.Run(ctx); err != nil {
		return err
	}
	return writeOut(export.FrameToSVG(exp.World().Visuals(), svgSize))
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	s, err := scene.Resolve(sceneName(cfg, args))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := experiment.RunSweep(ctx, &experiment.ParameterSweep{
		Base:      experimentConfig(cfg, s),
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Workers:   sweepWorkers,
	}, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tBALLS\tPENETRATION\tENERGY\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%s\t%.6f\t%.6f\n", r.ParamValue, humanize.Comma(int64(r.Balls)), r.Penetration, r.Energy)
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	if ensembleRuns < 1 {
		return fmt.Errorf("ensemble needs at least one run")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := scene.Resolve(sceneName(cfg, args))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := experiment.NewEnsemble(experimentConfig(cfg, s), ensembleRuns, cfg.Seed).Run(ctx)
	if err != nil {
		return err
	}

	energy := make([]float64, len(results))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tBALLS\tPENETRATION\tENERGY\tSTABILITY")
	for i, r := range results {
		energy[i] = r.Metrics["kinetic_energy"]
		fmt.Fprintf(w, "%d\t%s\t%.6f\t%.6f\t%.2f\n", cfg.Seed+int64(i), humanize.Comma(int64(r.Balls)),
			r.Metrics["penetration"], energy[i], r.Metrics["stability"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	st := analysis.Describe(energy)
	fmt.Printf("\nenergy mean %.6f  std %.6f  min %.6f  max %.6f\n", st.Mean, st.StdDev, st.Min, st.Max)
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := scene.Resolve(sceneName(cfg, args))
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s\n\n", s.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SUB-STEPS\tFRAMES\tBALLS\tTIME\tFRAMES/SEC")

	ctx := cmd.Context()
	for _, n := range []int{1, 2, 4, 8} {
		ec := experimentConfig(cfg, s)
		ec.World.SubSteps = n
		ec.Every = ec.Frames

		exp := experiment.New(ec, nil)
		if err := exp.Setup(); err != nil {
			return err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		fps := float64(result.Frames) / result.Elapsed.Seconds()
		fmt.Fprintf(w, "%d\t%s\t%s\t%v\t%s\n",
			n,
			humanize.Comma(int64(result.Frames)),
			humanize.Comma(int64(result.Balls)),
			result.Elapsed.Round(time.Millisecond),
			humanize.Comma(int64(fps)))
	}
	return w.Flush()
}
