package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/airdesk/internal/app"
	"github.com/zjrosen/airdesk/internal/chatapi"
	"github.com/zjrosen/airdesk/internal/config"
	"github.com/zjrosen/airdesk/internal/conversation"
	"github.com/zjrosen/airdesk/internal/infrastructure/sqlite"
	"github.com/zjrosen/airdesk/internal/log"
	"github.com/zjrosen/airdesk/internal/seatmap"
	"github.com/zjrosen/airdesk/internal/tracing"
	"github.com/zjrosen/airdesk/internal/ui/styles"
	"github.com/zjrosen/airdesk/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const (
	envPrefix        = "AIRDESK"
	localConfigPath  = ".airdesk/config.yaml"
	defaultLogPath   = "debug.log"
	shutdownDeadline = 5 * time.Second
)

var (
	version   = "dev"
	cfgFile   string
	cfg       config.Config
	debugFlag bool
	resumeID  string
)

var rootCmd = &cobra.Command{
	Use:   "airdesk",
	Short: "A terminal console for the airline customer service agents",
	Long: `A terminal console for chatting with the airline customer service
agent network. It shows the conversation alongside the active agent, the
guardrail verdicts, the shared context and the runner's event stream, and
opens a seat map when an agent asks you to pick a seat.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./.airdesk/config.yaml, then ~/.config/airdesk/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log and enable the log overlay (ctrl+x)")
	rootCmd.Flags().StringVarP(&resumeID, "resume", "r", "",
		"resume a saved conversation by id (see `airdesk sessions`)")
	rootCmd.Flags().String("backend-url", "", "chat backend origin (overrides backend.url)")

	_ = viper.BindPFlag("backend.url", rootCmd.Flags().Lookup("backend-url"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	// A missing .env is normal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: reading .env: %v\n", err)
	}

	loaded, err := loadConfig(viper.GetViper(), cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	cfg = loaded
}

// loadConfig resolves and reads the config file into v, layering
// AIRDESK_* environment variables over it and defaults under it.
// Config lookup order:
// 1. explicit path (--config)
// 2. .airdesk/config.yaml (current directory)
// 3. ~/.config/airdesk/config.yaml (user config, created when missing)
func loadConfig(v *viper.Viper, explicit string) (config.Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case explicit != "":
		v.SetConfigFile(explicit)
	case fileExists(localConfigPath):
		v.SetConfigFile(localConfigPath)
	default:
		if dir := config.ConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	var readErr error
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// No config file found anywhere - create the user default
			if path := config.DefaultConfigPath(); path != "" {
				if writeErr := config.WriteDefaultConfig(path); writeErr == nil {
					v.SetConfigFile(path)
					_ = v.ReadInConfig()
				}
			}
		} else {
			readErr = fmt.Errorf("reading config: %w", err)
		}
	}

	var out config.Config
	if err := v.Unmarshal(&out); err != nil {
		return config.Defaults(), fmt.Errorf("decoding config: %w", err)
	}
	return out, readErr
}

func setDefaults(v *viper.Viper) {
	d := config.Defaults()
	v.SetDefault("backend.url", d.Backend.URL)
	v.SetDefault("backend.timeout", d.Backend.Timeout)
	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("ui.show_agent_panel", d.UI.ShowAgentPanel)
	v.SetDefault("ui.show_event_panel", d.UI.ShowEventPanel)
	v.SetDefault("ui.show_context", d.UI.ShowContextView)
	v.SetDefault("ui.mouse", d.UI.Mouse)
	v.SetDefault("seats.watch", d.Seats.Watch)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("mock_backend.addr", d.MockBackend.Addr)
	v.SetDefault("log_level", d.LogLevel)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// initLogging opens the debug log when debug mode is on. The returned
// cleanup is always safe to call.
func initLogging(prefix string) (func(), error) {
	if !cfg.Debug {
		return func() {}, nil
	}
	logPath := os.Getenv("AIRDESK_LOG")
	if logPath == "" {
		logPath = defaultLogPath
	}
	cleanup, err := log.InitWithTeaLog(logPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.SetMinLevel(log.ParseLevel(cfg.LogLevel))
	log.Info(log.CatConfig, "airdesk starting", "version", version, "config", viper.ConfigFileUsed())
	return cleanup, nil
}

func runApp(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cleanupLog, err := initLogging("airdesk")
	if err != nil {
		return err
	}
	defer cleanupLog()

	if err := styles.ApplyTheme(styles.ThemeConfig{
		Preset: cfg.Theme.Preset,
		Colors: cfg.Theme.FlattenedColors(),
	}); err != nil {
		return fmt.Errorf("applying theme: %w", err)
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownDeadline)
		defer cancel()
		_ = provider.Shutdown(ctx)
	}()

	client, err := chatapi.NewHTTPClient(chatapi.Config{
		BaseURL:        cfg.Backend.URL,
		Timeout:        cfg.Backend.Timeout,
		Headers:        cfg.Backend.Headers,
		TracerProvider: provider.TracerProvider(),
	})
	if err != nil {
		return fmt.Errorf("creating chat client: %w", err)
	}

	storeOpts := []conversation.Option{conversation.WithTracer(provider.Tracer())}
	var seatOpts []seatmap.ControllerOption
	var history app.SeatRecorder

	if cfg.History.Enabled {
		db, err := openHistory()
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		repo := db.TranscriptRepository()
		history = repo
		storeOpts = append(storeOpts, conversation.WithRecorder(repo))

		if resumeID != "" {
			stored, err := repo.Load(cmd.Context(), resumeID)
			if err != nil {
				return fmt.Errorf("resuming %s: %w", resumeID, err)
			}
			storeOpts = append(storeOpts, conversation.WithRestored(stored.Snapshot))
			seatOpts = append(seatOpts, seatmap.WithSelectedSeat(stored.SelectedSeat))
			log.Info(log.CatDB, "resumed conversation", "id", resumeID, "messages", len(stored.Snapshot.Messages))
		}
	} else if resumeID != "" {
		return errors.New("--resume requires history.enabled")
	}

	inv, err := loadInventory(cfg.Seats)
	if err != nil {
		return err
	}
	seatOpts = append(seatOpts, seatmap.WithInventory(inv))

	store := conversation.NewStore(client, storeOpts...)
	defer store.Close()
	seats := seatmap.NewController(seatmap.DefaultLayout(), store, seatOpts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var reloader *seatmap.Reloader
	if path := config.ExpandHome(cfg.Seats.InventoryFile); path != "" && cfg.Seats.Watch {
		w, err := watcher.New(watcher.DefaultConfig(path))
		if err != nil {
			return fmt.Errorf("watching inventory: %w", err)
		}
		changes, err := w.Start()
		if err != nil {
			return fmt.Errorf("watching inventory: %w", err)
		}
		defer func() { _ = w.Stop() }()

		reloader = seatmap.NewReloader(path, seats)
		go reloader.Run(ctx, changes)
	}

	model := app.New(app.Services{
		Store:    store,
		Seats:    seats,
		Reloader: reloader,
		History:  history,
		Config:   cfg,
	}, cfg.Debug)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	_, err = tea.NewProgram(&model, opts...).Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func openHistory() (*sqlite.DB, error) {
	path := config.ExpandHome(cfg.History.Path)
	if path == "" {
		return nil, errors.New("history.path is empty")
	}
	db, err := sqlite.NewDB(path)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	return db, nil
}

// loadInventory picks the occupied-seat source: the inventory file, then
// the inline list, then the built-in set.
func loadInventory(sc config.SeatsConfig) (seatmap.Inventory, error) {
	if path := config.ExpandHome(sc.InventoryFile); path != "" {
		inv, err := seatmap.LoadInventoryFile(path)
		if err != nil {
			return seatmap.Inventory{}, fmt.Errorf("loading seat inventory: %w", err)
		}
		return inv, nil
	}
	if len(sc.Occupied) > 0 {
		inv, err := seatmap.NewInventory(sc.Occupied)
		if err != nil {
			return seatmap.Inventory{}, fmt.Errorf("seats.occupied: %w", err)
		}
		return inv, nil
	}
	return seatmap.DefaultInventory(), nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
