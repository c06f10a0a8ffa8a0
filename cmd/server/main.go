package main

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	signup "github.com/goliatone/go-signup"
	"github.com/goliatone/go-signup/auditlog"
)

//go:embed public
var publicFS embed.FS

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("signup"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	log := lgr.GetLogger("server")

	cfg, err := signup.LoadConfig()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if cfg.UsingFallbackKey() {
		log.Warn("SIGNUP_SIGNING_KEY not set, using the insecure development fallback")
	}

	store := signup.NewUserStore(cfg.UsersFile).
		WithLogger(lgr.GetLogger("store"))
	if err := store.Load(); err != nil {
		log.Error("failed to load user store", "error", err)
		os.Exit(1)
	}

	roster := signup.NewRoster().
		WithLogger(lgr.GetLogger("roster"))
	if err := roster.SeedDefault(); err != nil {
		log.Error("failed to seed activity roster", "error", err)
		os.Exit(1)
	}

	auditLog := lgr.GetLogger("audit")
	auther := signup.NewAuthenticator(store, cfg).
		WithLogger(lgr.GetLogger("auth")).
		WithAuditSink(signup.AuditSinkFunc(func(ctx context.Context, event signup.AuditEvent) error {
			record := auditlog.Normalize(event)
			auditLog.Info(record.Verb,
				"actor", record.ActorID,
				"object_type", record.ObjectType,
				"object_id", record.ObjectID,
				"channel", record.Channel,
				"at", record.OccurredAt,
			)
			return nil
		}))

	controller := signup.NewAPIController(func(c *signup.APIController) *signup.APIController {
		c.Logger = lgr.GetLogger("http")
		c.Auther = auther
		c.Roster = roster
		c.ContextKey = cfg.GetContextKey()
		return c
	})

	app := signup.NewApp(controller)

	mountStatic(app, log)

	go func() {
		log.Info("server starting", "addr", cfg.ListenAddr)
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	sig := waitExitSignal()
	log.Info("shutting down", "signal", sig.String())

	if err := app.Shutdown(); err != nil {
		log.Error("shutdown error", "error", err)
	}
}

func mountStatic(app *fiber.App, log glog.Logger) {
	assets, err := fs.Sub(publicFS, "public")
	if err != nil {
		log.Error("unable to scope embedded assets", "error", err)
		return
	}

	app.Use("/static", filesystem.New(filesystem.Config{
		Root: http.FS(assets),
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/static/index.html", fiber.StatusTemporaryRedirect)
	})
}

func waitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
