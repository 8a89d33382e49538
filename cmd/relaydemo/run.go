package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/relaycore/relay/config"
	"github.com/relaycore/relay/controller"
	"github.com/relaycore/relay/facade"
	"github.com/relaycore/relay/luacmd"
	"github.com/relaycore/relay/metrics"
	"github.com/relaycore/relay/model"
	"github.com/relaycore/relay/notification"
	"github.com/relaycore/relay/view"
)

var (
	metricsAddr string
	serve       bool

	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scoreboard demo scenario",
	RunE:  runDemo,
}

func init() {
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	runCmd.Flags().BoolVar(&serve, "serve", false, "keep running after the scenario, watching the config file")
}

// consoleMediator prints score updates and config changes to stdout.
type consoleMediator struct {
	view.BaseMediator
}

func newConsoleMediator() *consoleMediator {
	return &consoleMediator{BaseMediator: view.NewBaseMediator("console", os.Stdout)}
}

func (m *consoleMediator) Interests() []string {
	return []string{"score.updated", config.ChangedNotification}
}

func (m *consoleMediator) HandleNotification(_ context.Context, note *notification.Notification) error {
	switch note.Name() {
	case "score.updated":
		green.Printf("✓ %v\n", note.Body())
	case config.ChangedNotification:
		yellow.Println("⚠ configuration reloaded")
	}
	return nil
}

func (m *consoleMediator) OnRegister() {
	cyan.Println("console mediator online")
}

func (m *consoleMediator) OnRemove() {
	cyan.Println("console mediator offline")
}

// addScoreCommand mutates the scoreboard proxy and rebroadcasts the new
// total.
func addScoreCommand(f *facade.Facade) controller.Factory {
	return func() controller.Command {
		return controller.CommandFunc(func(ctx context.Context, note *notification.Notification) error {
			body, ok := note.Body().(map[string]any)
			if !ok {
				return fmt.Errorf("score.add: body %T, want map", note.Body())
			}
			player, _ := body["player"].(string)
			points, _ := body["points"].(int)
			if player == "" {
				return fmt.Errorf("score.add: missing player")
			}

			board := f.RetrieveProxy("scoreboard").(*model.JSONProxy)
			total := board.Get(player).Int() + int64(points)
			if err := board.Set(player, total); err != nil {
				return err
			}
			return f.Send(ctx, "score.updated",
				notification.WithBody(fmt.Sprintf("%s: %d", player, total)))
		})
	}
}

func registerScripts(f *facade.Facade, cfg config.Config) error {
	entries, err := os.ReadDir(cfg.Script.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		script, err := luacmd.LoadFile(filepath.Join(cfg.Script.Dir, entry.Name()))
		if err != nil {
			return err
		}
		name := "script." + strings.TrimSuffix(entry.Name(), ".lua")
		if err := f.RegisterCommand(name, script.Bind(f)); err != nil {
			return err
		}
	}
	return nil
}

func runDemo(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	opts := []facade.Option{
		facade.WithLogger(log),
		facade.WithSource(cfg.Dispatch.Source),
	}
	if cfg.Dispatch.PanicTrace {
		opts = append(opts, facade.WithPanicHandler(
			func(note *notification.Notification, v any, stack []byte) {
				log.Error().
					Str("notification", note.Name()).
					Any("panic", v).
					Bytes("stack", stack).
					Msg("handler panic")
			}))
	}
	f := facade.New(opts...)

	board, err := model.NewJSONProxy("scoreboard", "{}")
	if err != nil {
		return err
	}
	if err := f.RegisterProxy(board); err != nil {
		return err
	}
	if err := f.RegisterMediator(newConsoleMediator()); err != nil {
		return err
	}
	if err := f.RegisterCommand("score.add", addScoreCommand(f)); err != nil {
		return err
	}

	// Startup runs once: seed two players through the same command path.
	seed := func(player string) controller.Factory {
		return func() controller.Command {
			return controller.CommandFunc(func(ctx context.Context, _ *notification.Notification) error {
				return f.Send(ctx, "score.add",
					notification.WithBody(map[string]any{"player": player, "points": 10}))
			})
		}
	}
	if err := f.RegisterCommand("startup", func() controller.Command {
		return controller.NewMacroCommand(seed("ada"), seed("lin"))
	}); err != nil {
		return err
	}

	if cfg.Script.Enabled {
		if err := registerScripts(f, cfg); err != nil {
			return err
		}
	}

	if metricsAddr != "" {
		reg := prometheus.NewRegistry()
		if err := reg.Register(metrics.NewCollector(f)); err != nil {
			return err
		}
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			log.Info().Str("addr", metricsAddr).Msg("metrics listening")
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				log.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	ctx := cmd.Context()
	if err := f.Send(ctx, "startup"); err != nil {
		return err
	}
	if err := f.Send(ctx, "score.add",
		notification.WithBody(map[string]any{"player": "ada", "points": 5})); err != nil {
		return err
	}

	printStats(f)

	if serve {
		watcher, err := config.NewWatcher(configPath, f, config.WithWatcherLogger(log))
		if err != nil {
			return err
		}
		defer watcher.Close()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
	}
	return nil
}

func printStats(f *facade.Facade) {
	stats := f.Stats()
	cyan.Println("— registry stats —")
	fmt.Printf("  broadcasts:  %d\n", stats.View.Broadcasts)
	fmt.Printf("  deliveries:  %d\n", stats.View.Deliveries)
	fmt.Printf("  errors:      %d\n", stats.View.HandlerErrors)
	fmt.Printf("  panics:      %d\n", stats.View.HandlerPanics)
	fmt.Printf("  mediators:   %d\n", stats.View.Mediators)
	fmt.Printf("  proxies:     %d\n", stats.Proxies)
	fmt.Printf("  commands:    %d (%d executions)\n", stats.Controller.Commands, stats.Controller.Executions)
}
