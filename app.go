package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trigger-bot/internal/authoring"
	"trigger-bot/internal/bot"
	"trigger-bot/internal/cache"
	"trigger-bot/internal/config"
	"trigger-bot/internal/database"
	"trigger-bot/internal/logger"
	"trigger-bot/internal/messenger/client"
	"trigger-bot/internal/queue"
	"trigger-bot/internal/texts"
	"trigger-bot/internal/triggers"

	"github.com/gin-gonic/gin"
)

func main() {
	var (
		cnf = &config.Conf{}

		configFile = flag.String("config", "./config/config.yml", "Usage: -config=<config_file>")
		textsFile  = flag.String("texts", "", "Usage: -texts=<texts_file>")
		loggerFile = flag.String("logger", "", "Usage: -logger=<logger_file>")
		debug      = flag.Bool("debug", false, "Print debug information on stderr")
	)

	flag.Parse()

	if err := config.GetConfig(*configFile, cnf); err != nil {
		logger.Crit("Error while read config:", err)
	}
	cnf.RunInDebug = *debug
	if *textsFile != "" {
		cnf.TextsFile = *textsFile
	}
	if *loggerFile != "" {
		cnf.LoggerFile = *loggerFile
	}

	if logFile := logger.InitLogger(*debug, cnf.LoggerFile); logFile != nil {
		defer logFile.Close()
	}
	lg := logger.Default()
	lg.Info("Application starting...")

	if *debug {
		lg.Debug("Config:", cnf)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := database.Open(cnf.Database.Path)
	if err != nil {
		lg.Crit("Error while open database:", err)
	}
	defer store.Close()

	var states cache.Store
	switch cnf.State.Backend {
	case config.STATE_BACKEND_SQLITE:
		states = cache.NewSQLStore(store, cnf.StateTTL())

		sweeper, err := cache.StartSweeper(cnf.State.SweepSchedule, store, lg)
		if err != nil {
			lg.Crit("Error while start state sweeper:", err)
		}
		defer sweeper.Stop()
	default:
		bc, err := database.ConnectInMemoryCache(cnf.StateTTL())
		if err != nil {
			lg.Crit("Error while init state cache:", err)
		}
		defer bc.Close()
		states = cache.NewBigCacheStore(bc, cnf.StateTTL())
	}

	replies, err := texts.Load(cnf.TextsFile)
	if err != nil {
		lg.Crit("Error while load texts:", err)
	}
	// следим за изменениями текстов
	if cnf.TextsFile != "" {
		stopWatch, err := replies.Watch(lg)
		if err != nil {
			lg.Warning("Texts will not be reloaded:", err)
		} else {
			defer stopWatch()
		}
	}

	api := client.New(cnf.Bot.ApiServer, cnf.Bot.Token, lg)
	svc := triggers.NewService(store, replies, lg)
	machine := authoring.New(svc, states, api, lg)

	jobsCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()
	jobs := queue.New(cnf.Queue.MaxConcurrent, lg)

	b := bot.New(jobsCtx, cnf, api, svc, machine, jobs, lg)

	app := gin.Default()
	app.Use(
		config.Inject("cnf", cnf),
	)

	hookCtx, cancelHook := context.WithTimeout(context.Background(), 10*time.Second)
	if err := b.InitHooks(hookCtx, app, api); err != nil {
		lg.Crit("Error while setup hook:", err)
	}
	cancelHook()

	srv := &http.Server{
		Addr:    cnf.Server.Listen,
		Handler: app,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Listen: %s\n", err)
		}
	}()

	lg.Info("Application started")

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	// kill -SIGHUP XXXX
	// kill -SIGINT XXXX or Ctrl+c
	<-signals
	lg.Info("Catch OS signal! Exiting...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b.DestroyHooks(ctx, api)

	if err := srv.Shutdown(ctx); err != nil {
		lg.Warning("App forced to shutdown:", err)
	}
	if err := jobs.Wait(ctx); err != nil {
		lg.Warning("Not all updates were processed:", err)
	}
	stopJobs()

	lg.Info("Application stopped correctly!")
}
