package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/quickqr/internal/client/client"
	"github.com/dmitrijs2005/quickqr/internal/client/config"
	"github.com/dmitrijs2005/quickqr/internal/client/editor"
	"github.com/dmitrijs2005/quickqr/internal/client/preview"
	"github.com/dmitrijs2005/quickqr/internal/client/render"
	"github.com/dmitrijs2005/quickqr/internal/client/services"
	"github.com/dmitrijs2005/quickqr/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Preview surface names.
const (
	surfaceExport  = "export"
	surfaceBrowser = "browser"
	surfaceFile    = "file"
)

// pingTimeout bounds one online status probe.
const pingTimeout = 3 * time.Second

// ShellOptions are the flags of the interactive shell.
type ShellOptions struct {
	// PreviewAddr serves a live browser preview when set, e.g. ":8090".
	PreviewAddr string
	// PreviewFile keeps a PNG of the current code up to date when set.
	PreviewFile string
}

// Services bundles what the shell needs from the rest of the client.
type Services struct {
	Auth   services.AuthService
	Codes  services.CodeService
	Drafts services.DraftService
}

type App struct {
	config *config.Config
	logger logging.Logger
	out    io.Writer
	reader *bufio.Reader

	authService  services.AuthService
	codeService  services.CodeService
	draftService services.DraftService

	editor   *editor.Editor
	preview  *preview.Controller
	surfaces []string

	previewSrv *http.Server
	closers    []func() error

	mu   sync.Mutex
	mode Mode
}

// NewApp wires the local database, the API client and the services, then
// builds the shell around them.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger, opts ShellOptions, in io.Reader, out io.Writer) (*App, error) {
	repos, err := client.InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize local database: %w", err)
	}

	apiClient, err := client.NewHTTPClient(cfg.APIURL, cfg.HealthAddr, cfg.RequestTimeout)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}

	svc := Services{
		Auth:   services.NewAuthService(apiClient, repos.DB, logger, client.DefaultSessionBackoff),
		Codes:  services.NewCodeService(apiClient, &http.Client{Timeout: cfg.RequestTimeout}, logger),
		Drafts: services.NewDraftService(repos.Drafts),
	}
	renderer := render.NewRaster(render.NewLogoLoader(&http.Client{Timeout: cfg.RequestTimeout}), logger)

	a, err := newApp(cfg, logger, svc, renderer, opts, in, out)
	if err != nil {
		_ = apiClient.Close()
		_ = repos.Close()
		return nil, err
	}
	a.closers = append(a.closers, repos.Close)
	return a, nil
}

func newApp(cfg *config.Config, logger logging.Logger, svc Services, r render.Renderer, opts ShellOptions, in io.Reader, out io.Writer) (*App, error) {
	a := &App{
		config:       cfg,
		logger:       logger,
		out:          out,
		reader:       bufio.NewReader(in),
		authService:  svc.Auth,
		codeService:  svc.Codes,
		draftService: svc.Drafts,
		mode:         ModeOffline,
	}

	a.preview = preview.NewController(r, logger, preview.WithSettleDelay(cfg.SettleDelay))
	a.addSurface(surfaceExport, render.NewMemorySurface(true))

	if opts.PreviewFile != "" {
		a.addSurface(surfaceFile, render.NewFileSurface(opts.PreviewFile))
	}
	if opts.PreviewAddr != "" {
		ws := preview.NewWSSurface(logger)
		ws.OnAttach(func() { a.preview.SurfaceAttached(surfaceBrowser) })
		ln, err := net.Listen("tcp", opts.PreviewAddr)
		if err != nil {
			return nil, fmt.Errorf("preview listener: %w", err)
		}
		a.previewSrv = &http.Server{Handler: ws.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := a.previewSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(context.Background(), "preview server stopped", "error", err)
			}
		}()
		a.closers = append(a.closers, func() error { ws.Close(); return nil })
		a.addSurface(surfaceBrowser, ws)
		fmt.Fprintf(out, "Live preview at http://%s/\n", ln.Addr())
	}

	a.editor = editor.New(cfg.AppOrigin, a.preview)
	return a, nil
}

func (a *App) addSurface(name string, s render.Surface) {
	a.preview.Attach(name, s)
	_ = a.preview.Show(name)
	a.surfaces = append(a.surfaces, name)
}

// Run restores the previous session, starts the online watcher and blocks
// in the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)

	fmt.Fprintln(a.out, "Welcome to QuickQR (type 'help' for commands)")
	a.restoreSession(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a)
}

func (a *App) Close(ctx context.Context) {
	a.preview.Close()
	if a.previewSrv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_ = a.previewSrv.Shutdown(sctx)
		cancel()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn(ctx, "close", "error", err)
		}
	}
	if err := a.authService.Close(ctx); err != nil {
		a.logger.Warn(ctx, "close api client", "error", err)
	}
}

func (a *App) restoreSession(ctx context.Context) {
	user, err := a.authService.Restore(ctx)
	switch {
	case err == nil:
		a.setMode(ModeOnline)
		fmt.Fprintf(a.out, "Logged in as %s\n", user.Email)
	case errors.Is(err, services.ErrNoSession):
		fmt.Fprintln(a.out, "Not logged in. Use 'login' or 'register' to save codes.")
	case errors.Is(err, client.ErrUnavailable), errors.Is(err, client.ErrServer):
		fmt.Fprintf(a.out, "Server unreachable, working offline as %s\n", user.Email)
	default:
		fmt.Fprintln(a.out, client.UserMessage(err))
	}
}

func (a *App) isLoggedIn() bool {
	_, ok := a.authService.Current()
	return ok
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) getStatus() string {
	s := string(a.Mode())
	if u, ok := a.authService.Current(); ok {
		s = u.Email + " " + s
	}
	return "(" + s + ")"
}

// StartOnlineStatusWatcher probes the backend every interval and flips the
// shell between online and offline until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := a.authService.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
