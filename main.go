package main

import (
	"context"
	"embed"
	"fmt"
	"os"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
	xlogrus "github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/sirupsen/logrus"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	wailswindows "github.com/wailsapp/wails/v2/pkg/options/windows"
	"github.com/wailsapp/wails/v2/pkg/runtime"
	"github.com/xaionaro-go/observability"

	"prophase-overlay/internal/config"
	"prophase-overlay/internal/deeplink"
	"prophase-overlay/internal/games"
	"prophase-overlay/internal/overlay"
	"prophase-overlay/internal/tracker"
)

//go:embed all:frontend/dist
var assets embed.FS

// Frontend event names
const (
	eventTrackerUpdate    = "tracker:update"
	eventOAuthCallbackURL = "oauth-callback-url"
)

const singleInstanceUniqueID = "d3b5c0a2-prophase-overlay"

// App struct
type App struct {
	ctx         context.Context
	config      *config.Service
	detector    *games.Detector
	tracker     *tracker.Tracker
	overlay     *overlay.Controller
	stopTracker context.CancelFunc
	launchURL   string
	log         logger.Logger
	emit        func(ctx context.Context, eventName string, data ...interface{})
}

// trackerUpdate is the payload of the tracker:update event.
// Game is null when no tracked game is running.
type trackerUpdate struct {
	Game *string `json:"game"`
}

// NewApp creates a new App application struct
func NewApp(configSvc *config.Service, l logger.Logger) *App {
	cfg := configSvc.Get()
	return &App{
		config:   configSvc,
		detector: games.NewDetector(games.NewProcessList(), cfg.Games),
		overlay:  overlay.New(cfg.TopmostRetryDelay()),
		log:      l,
		emit:     runtime.EventsEmit,
	}
}

// OnStartup is called when the app starts up
func (a *App) OnStartup(ctx context.Context) {
	a.ctx = logger.CtxWithLogger(ctx, a.log)
	logger.Debugf(a.ctx, "config: %s", a.config.Path())

	if !a.overlay.Supported() {
		logger.Infof(a.ctx, "window styling is not available on this platform; overlay commands are no-ops")
	}

	a.tracker = tracker.New(a.config.Get().TrackerConfig(), a.detector, a.emitTrackerUpdate)

	trackerCtx, cancel := context.WithCancel(a.ctx)
	a.stopTracker = cancel
	observability.Go(trackerCtx, func(ctx context.Context) {
		a.tracker.Run(ctx)
	})

	if url, ok := deeplink.FromArgs(os.Args[1:]); ok {
		a.launchURL = url
	}
}

// OnDomReady is called once the frontend has loaded and can receive events
func (a *App) OnDomReady(ctx context.Context) {
	if a.launchURL == "" {
		return
	}
	logger.Debugf(a.ctx, "forwarding launch deep link")
	a.emit(a.ctx, eventOAuthCallbackURL, a.launchURL)
	a.launchURL = ""
}

// OnShutdown is called when the app is shutting down
func (a *App) OnShutdown(ctx context.Context) {
	if a.stopTracker != nil {
		if a.tracker.IsRunning() {
			logger.Debugf(a.ctx, "stopping the tracker")
		}
		a.stopTracker()
	}
	belt.Flush(a.ctx)
}

// onSecondInstanceLaunch receives deep links opened while the app is running
func (a *App) onSecondInstanceLaunch(data options.SecondInstanceData) {
	if a.ctx == nil {
		return
	}
	url, ok := deeplink.FromArgs(data.Args)
	if !ok {
		return
	}
	a.emit(a.ctx, eventOAuthCallbackURL, url)
}

func (a *App) emitTrackerUpdate(ctx context.Context, u tracker.Update) {
	a.emit(a.ctx, eventTrackerUpdate, newTrackerUpdate(u.Game))
}

func newTrackerUpdate(id games.ID) trackerUpdate {
	if id == games.None {
		return trackerUpdate{}
	}
	s := string(id)
	return trackerUpdate{Game: &s}
}

// Frontend API methods (these will be exposed to the frontend)

// CheckInitialGameState runs one immediate detection so the frontend can
// seed its view before the tracker confirms anything
func (a *App) CheckInitialGameState() *string {
	return newTrackerUpdate(a.detector.Detect(a.ctx)).Game
}

// CurrentGame returns the last game announced by the tracker
func (a *App) CurrentGame() *string {
	if a.tracker == nil {
		return nil
	}
	return newTrackerUpdate(a.tracker.Current()).Game
}

// SetWindowTopmostForFullscreen forces the overlay above every surface,
// exclusive-fullscreen games included
func (a *App) SetWindowTopmostForFullscreen() error {
	if err := a.overlay.ForceTopmost(a.ctx); err != nil {
		logger.Warnf(a.ctx, "unable to force the overlay topmost: %v", err)
	}
	return nil
}

// SetWindowInteractive toggles whether the overlay receives input or lets
// it pass through to the game
func (a *App) SetWindowInteractive(interactive bool) error {
	if err := a.overlay.SetInteractive(a.ctx, interactive); err != nil {
		logger.Warnf(a.ctx, "unable to set the overlay interactive=%v: %v", interactive, err)
	}
	return nil
}

// OpenBrowser opens url in the default browser
func (a *App) OpenBrowser(url string) error {
	if url == "" {
		return fmt.Errorf("empty url")
	}
	runtime.BrowserOpenURL(a.ctx, url)
	return nil
}

// HandleOAuthCallback forwards a callback URL to the frontend as is.
// The frontend owns the OAuth flow and decides what the URL means.
func (a *App) HandleOAuthCallback(url string) error {
	if !deeplink.IsCallback(url) {
		logger.Debugf(a.ctx, "forwarding a callback url outside the registered schemes")
	}
	a.emit(a.ctx, eventOAuthCallbackURL, url)
	return nil
}

func newLogger(level string) logger.Logger {
	logLevel := logger.LevelInfo
	if err := logLevel.Set(level); err != nil {
		fmt.Fprintf(os.Stderr, "unknown log level %q, using %v\n", level, logLevel)
	}
	ll := xlogrus.DefaultLogrusLogger()
	if f, ok := ll.Formatter.(*logrus.TextFormatter); ok {
		f.FullTimestamp = true
	}
	l := xlogrus.New(ll).WithLevel(logLevel)
	logrus.SetLevel(xlogrus.LevelToLogrus(l.Level()))
	return l
}

func main() {
	configSvc, err := config.New()
	if err != nil {
		fmt.Printf("Failed to initialize config: %v\n", err)
		os.Exit(1)
	}
	cfg := configSvc.Get()

	l := newLogger(cfg.LogLevel)
	logger.Default = func() logger.Logger {
		return l
	}

	// Create an instance of the app structure
	app := NewApp(configSvc, l)

	// Create application with options
	err = wails.Run(&options.App{
		Title:  "ProPhase",
		Width:  cfg.Overlay.Width,
		Height: cfg.Overlay.Height,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Frameless:        true,
		BackgroundColour: &options.RGBA{R: 0, G: 0, B: 0, A: 0}, // Transparent
		Windows: &wailswindows.Options{
			WebviewIsTransparent: true,
			WindowIsTranslucent:  true,
		},
		SingleInstanceLock: &options.SingleInstanceLock{
			UniqueId:               singleInstanceUniqueID,
			OnSecondInstanceLaunch: app.onSecondInstanceLaunch,
		},
		OnStartup:  app.OnStartup,
		OnDomReady: app.OnDomReady,
		OnShutdown: app.OnShutdown,
		Bind:       []interface{}{app},
	})

	if err != nil {
		l.Errorf("Error starting application: %v", err)
		os.Exit(1)
	}
}
