// Package main backs up the gymlog data to Google Drive, either as a single
// run or as a daemon taking periodic backups on a cron schedule.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vstrand/gymlog/internal/backup"
	"github.com/vstrand/gymlog/internal/config"
	"github.com/vstrand/gymlog/internal/db"
	"github.com/vstrand/gymlog/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	credentialsFile := flag.String(
		"gd-creds",
		"./gymlog-drive-credentials.json",
		"google drive service account credentials json",
	)
	shareWith := flag.String("share-with", "", "google account email given reader permission on backup files")
	logsPath := flag.String("logs-path", "", "logs file path (empty for stdout)")
	reinit := flag.Bool("reinit", false, "drop all backups and take a fresh full one")
	destroy := flag.Bool("destroy", false, "destroy all files (warning!!) (try running more times, if more than 100 files are present)")
	daemon := flag.Bool("daemon", false, "keep running and back up on a schedule instead of a single run")
	schedule := flag.String("schedule", "0 3 * * *", "cron schedule for daemon mode")
	metricsAddr := flag.String("metrics-addr", "", "serve prometheus metrics on this address in daemon mode (empty to disable)")

	flag.Parse()

	loggingSetup(*logsPath)

	log.Println("starting gymlog backup ...")

	credsPath := *credentialsFile
	if envPath := os.Getenv("GYMLOG_GDRIVE_CREDS_JSON_PATH"); envPath != "" {
		credsPath = envPath
	}
	if credsPath == "" {
		log.Fatalln("google drive credentials json not specified")
	}

	credentialsFileBytes, err := os.ReadFile(credsPath)
	if err != nil {
		log.Fatalf("unable to read credentials file: %v", err)
	}

	ctx := context.Background()

	if *destroy {
		if err := backup.DestroyAllFiles(ctx, credentialsFileBytes); err != nil {
			log.Fatalf("destroy failed: %s", err)
		}
		log.Println("destroy done!")
		return
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("gymlog", "backup", promRegistry)
	if *daemon && *metricsAddr != "" {
		metricsRouter := http.NewServeMux()
		metricsRouter.Handle("/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
		go func() {
			log.Printf("serving metrics on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, metricsRouter); err != nil {
				log.Printf("metrics server error: %s", err)
			}
		}()
	}

	s, err := backup.NewGoogleDriveBackupService(
		ctx,
		credentialsFileBytes,
		backup.NewPsqlSource(dbPool),
		*shareWith,
		metricsManager,
	)
	if err != nil {
		log.Fatalf("failed to create google drive backup service: %s", err)
	}

	if *reinit {
		log.Println("!! attention: will reinitialize all again...")
		if err := s.Reinit(ctx, time.Now()); err != nil {
			log.Fatalf("reinit failed: %s", err)
		}
		log.Println("reinit done")
		return
	}

	if !*daemon {
		if err := s.DoBackup(ctx, time.Now()); err != nil {
			log.Fatalf("%+v", err)
		}
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(*schedule, func() {
		if err := s.DoBackup(ctx, time.Now()); err != nil {
			log.Printf("scheduled backup failed: %s", err)
		}
	}); err != nil {
		log.Fatalf("invalid schedule %q: %s", *schedule, err)
	}
	c.Start()
	log.Printf("backup daemon started, schedule: %s", *schedule)

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)
	<-chOsInterrupt

	log.Println("interrupt signal received, stopping ...")
	// lets a backup in flight finish
	<-c.Stop().Done()
}

func loggingSetup(logFileName string) {
	if logFileName == "" {
		log.SetOutput(os.Stdout)
		return
	}

	if !strings.HasSuffix(logFileName, ".log") {
		logFileName += ".log"
	}

	log.SetOutput(&lumberjack.Logger{
		Filename:  logFileName,
		MaxSize:   50,    // megabytes
		LocalTime: false, // false -> use UTC
		Compress:  true,
	})
}
