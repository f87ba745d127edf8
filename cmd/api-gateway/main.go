package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/habit-alert-api/api/swagger"
	"github.com/noah-isme/habit-alert-api/internal/handler"
	"github.com/noah-isme/habit-alert-api/internal/middleware"
	"github.com/noah-isme/habit-alert-api/internal/models"
	"github.com/noah-isme/habit-alert-api/internal/notify"
	"github.com/noah-isme/habit-alert-api/internal/repository"
	"github.com/noah-isme/habit-alert-api/internal/service"
	"github.com/noah-isme/habit-alert-api/pkg/clock"
	"github.com/noah-isme/habit-alert-api/pkg/config"
	"github.com/noah-isme/habit-alert-api/pkg/jobs"
	"github.com/noah-isme/habit-alert-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/habit-alert-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/habit-alert-api/pkg/middleware/requestid"
)

// @title Habit Alert API
// @version 0.1.0
// @description Daily habit schedules, assignments and local reminders
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := repository.NewStore(ctx, cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to open store", "driver", cfg.Store.Driver, "error", err)
	}
	defer store.Close() //nolint:errcheck

	scheduleRepo := repository.NewScheduleRepository(store)
	templateRepo := repository.NewTemplateRepository(store)
	assignmentRepo := repository.NewAssignmentRepository(store)

	metricsSvc := service.NewMetricsService()
	validate := validator.New()
	clk := clock.New()

	permission := notify.NewPermission()
	banner := notify.NewBanner(cfg.Notify.BannerSize)
	channels := []notify.Channel{banner}
	if cfg.Notify.SpeechEnabled {
		channels = append(channels, notify.NewSpeech(cfg.Notify.SpeechCommand, cfg.Notify.SpeechVoice, cfg.Notify.SpeechRate))
	}
	if cfg.Notify.ToneEnabled {
		channels = append(channels, notify.NewTone(cfg.Notify.ToneFrequency, cfg.Notify.ToneDurationMs))
	}
	if cfg.Notify.DesktopEnabled {
		channels = append(channels, notify.NewDesktop(permission))
	}
	dispatcher := notify.NewDispatcher(logr, channels...)
	dispatcher.SetObserver(metricsSvc.ObserveDelivery)

	queue := jobs.NewQueue("notifications", func(ctx context.Context, job jobs.Job) error {
		msg, ok := job.Payload.(notify.Message)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", job.Payload)
		}
		dispatcher.Dispatch(ctx, msg)
		return nil
	}, jobs.QueueConfig{
		Workers:    cfg.Reminder.QueueWorkers,
		MaxRetries: cfg.Reminder.QueueRetries,
		Logger:     logr,
	})

	scheduleSvc := service.NewScheduleService(scheduleRepo, templateRepo, clk, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, clk, validate, logr)
	reminderSvc := service.NewReminderService(clk, queue, scheduleSvc, assignmentSvc, logr)
	reminderSvc.SetObserver(metricsSvc.ObserveReminderEvent)

	scheduleSvc.SetChangeListener(func(schedule models.DaySchedule) {
		reminderSvc.ScheduleActivityReminders(schedule.Activities, clk.Now())
	})
	assignmentSvc.SetChangeListener(func() {
		if err := reminderSvc.ScheduleAssignmentReminders(ctx); err != nil {
			logr.Sugar().Warnw("assignment reminder reschedule failed", "error", err)
		}
	})

	queue.Start(ctx)
	defer queue.Stop()
	if cfg.Reminder.Enabled {
		go reminderSvc.Run(ctx, cfg.Reminder.RefreshInterval)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	handler.RegisterRoutes(api,
		handler.NewScheduleHandler(scheduleSvc),
		handler.NewAssignmentHandler(assignmentSvc),
		handler.NewNotificationHandler(permission, dispatcher, banner, reminderSvc),
	)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
