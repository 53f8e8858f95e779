package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/naveenspark/aula/internal/browser"
	"github.com/naveenspark/aula/internal/certificate"
	"github.com/naveenspark/aula/internal/config"
	"github.com/naveenspark/aula/internal/handoff"
	"github.com/naveenspark/aula/internal/logger"
	"github.com/naveenspark/aula/internal/session"
	"github.com/naveenspark/aula/internal/tui"
	"github.com/naveenspark/aula/pkg/client"
	"github.com/naveenspark/aula/pkg/domain"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

// loginTimeout bounds the browser login.
const loginTimeout = 2 * time.Minute

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// cli carries what every subcommand needs.
type cli struct {
	cfg   *config.Config
	log   *zap.Logger
	store session.Store
}

func run(args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Println("aula " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "--update-done":
			if len(args) >= 3 {
				printUpdateSuccess(args[1], args[2])
			}
			return nil
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Path: cfg.LogPath()})
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	c := &cli{cfg: cfg, log: log, store: session.NewFileStore(cfg.SessionDir, log)}
	if len(args) == 0 {
		return c.launch()
	}
	switch args[0] {
	case "login":
		return c.login(args[1:])
	case "register", "registro":
		return c.register()
	case "logout":
		return c.logout()
	case "certificate", "certificado":
		return c.certificate(args[1:])
	case "update":
		return runUpdate()
	case "terms":
		return c.openWeb("/terminos")
	case "privacy":
		return c.openWeb("/privacidad")
	case "support":
		return c.openWeb("/soporte")
	}
	return fmt.Errorf("unknown command %q (try: aula help)", args[0])
}

func (c *cli) client(token string) *client.Client {
	return client.New(c.cfg.APIURL, token, client.WithLogger(c.log), client.WithTimeout(c.cfg.Timeout))
}

// session returns the stored session, with AULA_TOKEN taking precedence
// over the stored token. An env token without a stored user gets an empty
// profile that launch fills from /api/me.
func (c *cli) session() domain.Session {
	return sessionWithToken(session.LoadActive(c.store, time.Now()), c.cfg.Token)
}

func sessionWithToken(sess domain.Session, token string) domain.Session {
	if token == "" {
		return sess
	}
	sess.Token = token
	if sess.User == nil {
		sess.User = &domain.UserProfile{}
	}
	return sess
}

func (c *cli) launch() error {
	sess := c.session()
	if !sess.Active() {
		printGreeting()
		return nil
	}

	api := c.client(sess.Token)
	me, err := api.GetMe(context.Background())
	switch {
	case client.IsStatus(err, http.StatusUnauthorized):
		c.store.Clear() //nolint:errcheck
		printExpired()
		return nil
	case err == nil:
		sess.User = me
		if c.cfg.Token == "" {
			if err := c.store.Save(sess); err != nil {
				c.log.Warn("refresh stored profile", zap.Error(err))
			}
		}
	default:
		// Network/server error: launch anyway, the dashboard offers retry.
		c.log.Warn("profile check failed", zap.Error(err))
	}
	return c.runTUI(api, sess)
}

func (c *cli) runTUI(api *client.Client, sess domain.Session) error {
	app := tui.NewApp(api, sess, tui.Options{
		BaseURL:     c.cfg.BaseURL,
		DownloadDir: c.cfg.DownloadDir,
		Version:     version,
		Log:         c.log,
	})
	final, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	done, ok := final.(tui.App)
	if !ok || !done.SessionExpired() {
		return nil
	}
	if err := c.store.Clear(); err != nil {
		c.log.Warn("clear expired session", zap.Error(err))
	}
	if done.ReloginRequested() {
		return c.login(nil)
	}
	printExpired()
	return nil
}

func (c *cli) login(args []string) error {
	fs := pflag.NewFlagSet("login", pflag.ContinueOnError)
	withPassword := fs.BoolP("password", "p", false, "iniciar sesión con correo y contraseña")
	if help, err := parseFlags(fs, args); help || err != nil {
		return err
	}

	anon := c.client("")
	var sess domain.Session
	if *withPassword {
		resp, err := tui.RunLogin(anon)
		if errors.Is(err, tui.ErrAuthCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		sess = resp.Session()
		if err := c.store.Save(sess); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	} else {
		var err error
		if sess, err = c.browserLogin(anon); err != nil {
			return err
		}
	}

	printWelcome(sess.User)
	return c.runTUI(c.client(sess.Token), sess)
}

// browserLogin opens the web login and waits for the localhost callback.
func (c *cli) browserLogin(anon *client.Client) (domain.Session, error) {
	state, err := handoff.NewState()
	if err != nil {
		return domain.Session{}, err
	}
	exchange := func(ctx context.Context, code string) (domain.Session, error) {
		resp, err := anon.ExchangeCode(ctx, code)
		if err != nil {
			return domain.Session{}, err
		}
		return resp.Session(), nil
	}
	srv := handoff.New(c.store, state, exchange, c.log)
	callback, err := srv.Start()
	if err != nil {
		return domain.Session{}, err
	}

	loginURL := buildLoginURL(c.cfg.BaseURL, callback, state)
	fmt.Println("Abriendo el navegador para iniciar sesión...")
	if err := browser.Open(loginURL); err != nil {
		fmt.Printf("No se pudo abrir el navegador. Visita esta URL:\n  %s\n", loginURL)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	sess, err := srv.Wait(ctx, loginTimeout)
	if errors.Is(err, handoff.ErrTimeout) {
		return domain.Session{}, fmt.Errorf("no se recibió respuesta del navegador en %s", loginTimeout)
	}
	return sess, err
}

func buildLoginURL(baseURL, callback, state string) string {
	params := url.Values{}
	params.Set("cli_callback", callback)
	params.Set("state", state)
	return baseURL + "/login?" + params.Encode()
}

// parseFlags parses args and reports whether -h was given, in which case
// the usage has been printed.
func parseFlags(fs *pflag.FlagSet, args []string) (bool, error) {
	help := fs.BoolP("help", "h", false, "mostrar ayuda")
	if err := fs.Parse(args); err != nil {
		return false, err
	}
	if *help {
		fs.PrintDefaults()
	}
	return *help, nil
}

func (c *cli) register() error {
	resp, err := tui.RunRegister(c.client(""))
	if errors.Is(err, tui.ErrAuthCancelled) {
		return nil
	}
	if err != nil {
		return err
	}
	sess := resp.Session()
	if !sess.Active() {
		// Some deployments require e-mail confirmation before the first login.
		fmt.Println("Cuenta creada. Inicia sesión con: aula login --password")
		return nil
	}
	if err := c.store.Save(sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	printWelcome(sess.User)
	return c.runTUI(c.client(sess.Token), sess)
}

func (c *cli) logout() error {
	if !c.store.Load().Active() {
		fmt.Println("No había una sesión iniciada.")
		return nil
	}
	if err := c.store.Clear(); err != nil {
		return err
	}
	fmt.Println("Sesión cerrada.")
	return nil
}

func (c *cli) certificate(args []string) error {
	fs := pflag.NewFlagSet("certificate", pflag.ContinueOnError)
	out := fs.StringP("out", "o", c.cfg.DownloadDir, "carpeta de destino")
	if help, err := parseFlags(fs, args); help || err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: aula certificate <credential-id> [--out dir]")
	}

	sess := c.session()
	if !sess.Active() {
		printGreeting()
		return nil
	}
	path, err := certificate.Download(context.Background(), c.client(sess.Token), *out, fs.Arg(0))
	switch {
	case client.IsStatus(err, http.StatusUnauthorized):
		c.store.Clear() //nolint:errcheck
		printExpired()
		return nil
	case client.IsStatus(err, http.StatusNotFound):
		return fmt.Errorf("no existe el certificado %q", fs.Arg(0))
	case err != nil:
		return err
	}
	fmt.Printf("Certificado guardado en %s\n", path)
	return nil
}

func (c *cli) openWeb(path string) error {
	u := c.cfg.BaseURL + path
	if err := browser.Open(u); err != nil {
		fmt.Println(u)
	}
	return nil
}
