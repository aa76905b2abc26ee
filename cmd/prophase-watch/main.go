// prophase-watch runs the game detector without the overlay window.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	xlogrus "github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/spf13/cobra"
	"github.com/xaionaro-go/observability"

	"prophase-overlay/internal/config"
	"prophase-overlay/internal/games"
	"prophase-overlay/internal/tracker"
)

var (
	loggerLevel = logger.LevelInfo
	configPath  string

	root = &cobra.Command{
		Use:   "prophase-watch",
		Short: "Detect supported games from the process list",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			l := logger.FromCtx(ctx).WithLevel(loggerLevel)
			ctx = logger.CtxWithLogger(ctx, l)
			cmd.SetContext(ctx)
			logger.Debugf(ctx, "log-level: %v", loggerLevel)
		},
	}

	detectCmd = &cobra.Command{
		Use:   "detect",
		Short: "Run a single detection and exit",
		Args:  cobra.ExactArgs(0),
		RunE:  detect,
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Track games until interrupted, printing every confirmed change",
		Args:  cobra.ExactArgs(0),
		RunE:  watch,
	}

	profilesCmd = &cobra.Command{
		Use:   "profiles",
		Short: "Print the game profile table",
		Args:  cobra.ExactArgs(0),
		RunE:  profiles,
	}
)

func init() {
	root.PersistentFlags().Var(&loggerLevel, "log-level", "logging level")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file (default ~/.prophase/config.json)")
	root.AddCommand(detectCmd, watchCmd, profilesCmd)
}

func loadConfig() (*config.Config, error) {
	var (
		svc *config.Service
		err error
	)
	if configPath != "" {
		svc, err = config.NewFromPath(configPath)
	} else {
		svc, err = config.New()
	}
	if err != nil {
		return nil, err
	}
	return svc.Get(), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(v)
}

func gameOrNil(id games.ID) *string {
	if id == games.None {
		return nil
	}
	s := string(id)
	return &s
}

func detect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	provider := games.NewProcessList()
	detector := games.NewDetector(provider, cfg.Games)
	snapshot := provider.Capture(ctx)
	return printJSON(struct {
		Game      *string `json:"game"`
		Processes int     `json:"processes"`
	}{
		Game:      gameOrNil(detector.Profiles().Match(snapshot)),
		Processes: snapshot.Len(),
	})
}

func watch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	detector := games.NewDetector(games.NewProcessList(), cfg.Games)
	t := tracker.New(cfg.TrackerConfig(), detector, func(ctx context.Context, u tracker.Update) {
		if err := printJSON(struct {
			Game *string `json:"game"`
			At   string  `json:"at"`
		}{gameOrNil(u.Game), u.At.Format("2006-01-02T15:04:05.000Z07:00")}); err != nil {
			logger.Errorf(ctx, "unable to print the update: %v", err)
		}
	})

	done := make(chan struct{})
	observability.Go(ctx, func(ctx context.Context) {
		defer close(done)
		t.Run(ctx)
	})
	logger.Infof(ctx, "watching %v every %v", detector.Profiles().IDs(), cfg.TrackerConfig().Interval)
	<-done
	return nil
}

func profiles(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return printJSON(games.NewDetector(games.NewProcessList(), cfg.Games).Profiles())
}

func main() {
	ctx := logger.CtxWithLogger(context.Background(), xlogrus.Default())
	logger.Default = func() logger.Logger {
		return logger.FromCtx(ctx)
	}

	err := root.ExecuteContext(ctx)
	belt.Flush(ctx)
	if err != nil {
		os.Exit(1)
	}
}
