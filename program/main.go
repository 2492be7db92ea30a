package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	tui "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
	"github.com/jonboulle/clockwork"
	"github.com/keilerkonzept/topk/sliding"
	"go.uber.org/zap"

	"github.com/keilerkonzept/sponsorwall/internal/activation"
	"github.com/keilerkonzept/sponsorwall/internal/api"
	"github.com/keilerkonzept/sponsorwall/internal/content"
	"github.com/keilerkonzept/sponsorwall/internal/domain"
	"github.com/keilerkonzept/sponsorwall/internal/logging"
	"github.com/keilerkonzept/sponsorwall/internal/store"
	"github.com/keilerkonzept/sponsorwall/internal/wall"
)

type Config struct {
	// backend
	APIURL          string        `env:"SPONSORWALL_API_URL"`
	RefreshInterval time.Duration `env:"SPONSORWALL_REFRESH_INTERVAL"`
	HealthInterval  time.Duration `env:"SPONSORWALL_HEALTH_INTERVAL"`

	// wall
	Layer     string `env:"SPONSORWALL_LAYER"`
	FPS       int    `env:"SPONSORWALL_FPS"`
	CellWidth int    `env:"SPONSORWALL_CELL_WIDTH"`

	// activation heat
	K           int           `env:"SPONSORWALL_HEAT_K"`
	Width       int           `env:"SPONSORWALL_HEAT_WIDTH"`
	Depth       int           `env:"SPONSORWALL_HEAT_DEPTH"`
	Decay       float64       `env:"SPONSORWALL_HEAT_DECAY"`
	DecayLUT    int           `env:"SPONSORWALL_HEAT_DECAY_LUT"`
	TickSize    time.Duration `env:"SPONSORWALL_HEAT_TICK"`
	WindowSize  time.Duration `env:"SPONSORWALL_HEAT_WINDOW"`
	HeatFPS     int           `env:"SPONSORWALL_HEAT_FPS"`
	FullRefresh time.Duration `env:"SPONSORWALL_HEAT_FULL_REFRESH"`
	PartialSize int           `env:"SPONSORWALL_HEAT_PARTIAL_SIZE"`
	LogScale    bool          `env:"SPONSORWALL_HEAT_LOG_SCALE"`

	StatsEnabled bool `env:"SPONSORWALL_STATS"`
	StatsWindow  int  `env:"SPONSORWALL_STATS_WINDOW"`

	LogFile  string `env:"SPONSORWALL_LOG_FILE"`
	LogLevel string `env:"SPONSORWALL_LOG_LEVEL"`

	Once        bool          `env:"SPONSORWALL_ONCE"`
	OnceTimeout time.Duration `env:"SPONSORWALL_ONCE_TIMEOUT"`
	OnceWidth   int           `env:"SPONSORWALL_ONCE_WIDTH"`
	AltScreen   bool          `env:"SPONSORWALL_ALT_SCREEN"`
}

var config = Config{
	APIURL:          api.DefaultBaseURL,
	RefreshInterval: time.Minute,
	HealthInterval:  store.DefaultHealthInterval,

	Layer:     "static",
	FPS:       12,
	CellWidth: 18,

	K:           10,
	Width:       512,
	Depth:       3,
	Decay:       0.9,
	DecayLUT:    8192,
	TickSize:    time.Second,
	WindowSize:  2 * time.Minute,
	HeatFPS:     2,
	FullRefresh: 5 * time.Second,
	PartialSize: 0,
	LogScale:    false,

	StatsEnabled: false,
	StatsWindow:  128,

	LogFile:  "sponsorwall.log",
	LogLevel: "info",

	Once:        false,
	OnceTimeout: 5 * time.Second,
	OnceWidth:   140,
	AltScreen:   true,
}

func main() {
	log.SetOutput(os.Stderr)
	if err := env.Parse(&config); err != nil {
		log.Fatalf("parse env: %v", err)
	}

	flag.StringVar(&config.APIURL, "api", config.APIURL, "Backend base URL")
	flag.DurationVar(&config.RefreshInterval, "refresh", config.RefreshInterval, "Refetch all backend data this often (0 disables)")
	flag.DurationVar(&config.HealthInterval, "health", config.HealthInterval, "Poll the backend health endpoint this often")
	flag.StringVar(&config.Layer, "layer", config.Layer, "Initial layer: 1-4 or static, hologram, ar, spinning")
	flag.IntVar(&config.FPS, "fps", config.FPS, "Animation frames per second")
	flag.IntVar(&config.CellWidth, "cell-width", config.CellWidth, "Slot width in columns, borders included")
	flag.IntVar(&config.K, "k", config.K, "Track the K most activated slots")
	flag.IntVar(&config.Width, "heat-width", config.Width, "Heat sketch width")
	flag.IntVar(&config.Depth, "heat-depth", config.Depth, "Heat sketch depth")
	flag.Float64Var(&config.Decay, "heat-decay", config.Decay, "Heat sketch counter decay probability on collisions")
	flag.IntVar(&config.DecayLUT, "heat-decay-lut", config.DecayLUT, "Heat sketch decay look-up table size")
	flag.DurationVar(&config.TickSize, "heat-tick", config.TickSize, "Heat window tick size (time bucket precision)")
	flag.DurationVar(&config.WindowSize, "heat-window", config.WindowSize, "Heat window size")
	flag.IntVar(&config.HeatFPS, "heat-fps", config.HeatFPS, "Hot slot list and plot refresh rate (frames per second)")
	flag.DurationVar(&config.FullRefresh, "full-refresh", config.FullRefresh, "How often to fully re-rank hot slots (0 = always)")
	flag.IntVar(&config.PartialSize, "partial-size", config.PartialSize, "How many hot slots to re-sort between full refreshes (0 = all visible)")
	flag.BoolVar(&config.LogScale, "log-scale", config.LogScale, "Use a logarithmic Y axis for the heat plot")
	flag.BoolVar(&config.StatsEnabled, "stats", config.StatsEnabled, "Show runtime stats")
	flag.IntVar(&config.StatsWindow, "stats-window", config.StatsWindow, "Number of recent samples kept per metric")
	flag.StringVar(&config.LogFile, "log-file", config.LogFile, "Write logs to this file (empty disables logging)")
	flag.StringVar(&config.LogLevel, "log-level", config.LogLevel, "Log level: debug, info, warn, error")
	flag.BoolVar(&config.Once, "once", config.Once, "Render a single frame to stdout and exit")
	flag.DurationVar(&config.OnceTimeout, "once-timeout", config.OnceTimeout, "How long -once waits for the backend")
	flag.IntVar(&config.OnceWidth, "once-width", config.OnceWidth, "Frame width for -once")
	flag.BoolVar(&config.AltScreen, "alt-screen", config.AltScreen, "Use the terminal alternate screen buffer")
	flag.Parse()

	if err := validateAndNormalizeConfig(); err != nil {
		log.Fatal(err)
	}
	layer, _ := domain.ParseLayer(config.Layer)

	logger, err := logging.New(config.LogFile, config.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	app, err := newApp(logger, clockwork.NewRealClock())
	if err != nil {
		log.Fatal(err)
	}
	defer app.ctrl.Stop()

	if config.Once || !term.IsTerminal(os.Stdout.Fd()) {
		ctx, cancel := context.WithTimeout(context.Background(), config.OnceTimeout)
		defer cancel()
		fmt.Println(app.renderOnce(ctx, layer))
		return
	}

	if err := app.wall.SelectLayer(layer); err != nil {
		log.Fatal(err)
	}
	m := newModel(app)
	opts := []tui.ProgramOption{tui.WithInputTTY()}
	if config.AltScreen {
		opts = append(opts, tui.WithAltScreen())
	}
	if _, err := tui.NewProgram(m, opts...).Run(); err != nil {
		logger.Error("program exited with error", zap.Error(err))
		log.Fatal(err)
	}
}

func validateAndNormalizeConfig() error {
	config.APIURL = strings.TrimSpace(config.APIURL)
	if config.APIURL == "" {
		return fmt.Errorf("-api must not be empty")
	}
	if config.RefreshInterval < 0 {
		return fmt.Errorf("-refresh must be >= 0")
	}
	if config.HealthInterval <= 0 {
		return fmt.Errorf("-health must be > 0")
	}
	if _, err := domain.ParseLayer(config.Layer); err != nil {
		return fmt.Errorf("-layer: %w", err)
	}
	if config.FPS < 1 || config.FPS > 60 {
		return fmt.Errorf("-fps must be in [1,60]")
	}
	if config.CellWidth < 12 {
		return fmt.Errorf("-cell-width must be >= 12")
	}
	if config.K < 1 {
		return fmt.Errorf("-k must be >= 1")
	}
	if config.Width < 1 {
		return fmt.Errorf("-heat-width must be >= 1")
	}
	if config.Depth < 1 {
		return fmt.Errorf("-heat-depth must be >= 1")
	}
	if config.Decay < 0 || config.Decay > 1 {
		return fmt.Errorf("-heat-decay must be in [0,1]")
	}
	if config.DecayLUT < 1 {
		return fmt.Errorf("-heat-decay-lut must be >= 1")
	}
	if config.TickSize <= 0 {
		return fmt.Errorf("-heat-tick must be > 0")
	}
	if config.WindowSize < config.TickSize {
		return fmt.Errorf("-heat-window must be >= -heat-tick")
	}
	if config.WindowSize%config.TickSize != 0 {
		return fmt.Errorf("-heat-window must be a multiple of -heat-tick (got window=%s tick=%s)", config.WindowSize, config.TickSize)
	}
	if config.HeatFPS < 1 {
		return fmt.Errorf("-heat-fps must be >= 1")
	}
	if config.FullRefresh < 0 {
		return fmt.Errorf("-full-refresh must be >= 0")
	}
	if config.PartialSize < 0 {
		return fmt.Errorf("-partial-size must be >= 0")
	}
	if config.OnceTimeout <= 0 {
		return fmt.Errorf("-once-timeout must be > 0")
	}
	config.StatsWindow = max(16, config.StatsWindow)
	config.OnceWidth = max(60, config.OnceWidth)
	config.LogLevel = strings.ToLower(strings.TrimSpace(config.LogLevel))
	return nil
}

// app holds the long-lived components shared by the TUI and -once.
type app struct {
	logger   *zap.Logger
	clock    clockwork.Clock
	registry *content.Registry
	client   *api.Client
	store    *store.Store
	ctrl     *activation.Controller
	wall     *wall.Wall
	heat     *activationHeat
	metrics  *runtimeMetrics
}

func newApp(logger *zap.Logger, clock clockwork.Clock) (*app, error) {
	reg, err := content.Default()
	if err != nil {
		return nil, fmt.Errorf("load content registry: %w", err)
	}

	metrics := newRuntimeMetrics(config.StatsWindow, clock.Now())
	metrics.setEnabled(config.StatsEnabled)

	client, err := api.New(config.APIURL, api.WithLogger(logger), api.WithObserver(metrics.observeRequest))
	if err != nil {
		return nil, err
	}

	sketch := sliding.New(config.K,
		int(config.WindowSize/config.TickSize),
		sliding.WithWidth(config.Width),
		sliding.WithDepth(config.Depth),
		sliding.WithDecay(float32(config.Decay)),
		sliding.WithDecayLUTSize(config.DecayLUT),
	)
	heat := newActivationHeat(sketch, config.TickSize, newHotSlotRanker(config.K, config.FullRefresh, config.PartialSize))

	ctrl := activation.NewController(
		activation.WithClock(clock),
		activation.WithLogger(logger),
		activation.WithListener(listeners(heat.observe, metrics.observeActivation)),
	)
	return &app{
		logger:   logger,
		clock:    clock,
		registry: reg,
		client:   client,
		store:    store.New(client, clock, logger),
		ctrl:     ctrl,
		wall:     wall.New(reg, ctrl, wall.WithClock(clock), wall.WithLogger(logger)),
		heat:     heat,
		metrics:  metrics,
	}, nil
}

// renderOnce loads the backend data once and renders a still frame of
// layer. Activation never starts, so no slot is active.
func (a *app) renderOnce(ctx context.Context, layer domain.Layer) string {
	if _, err := a.store.Load(ctx); err != nil {
		a.logger.Warn("rendering with fallback content", zap.Error(err))
	}
	_, _ = a.store.Health.Check(ctx)
	if err := a.wall.SelectLayer(layer); err != nil {
		return err.Error()
	}
	a.ctrl.Stop()

	m := newModel(a)
	m.width = config.OnceWidth
	m.height = 0
	m.layout()
	return m.frame(a.clock.Now())
}
