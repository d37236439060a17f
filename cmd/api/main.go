package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/progress/internal/api"
	"example.com/progress/internal/auth"
	"example.com/progress/internal/config"
	"example.com/progress/internal/domain"
	"example.com/progress/internal/notify"
	persistence "example.com/progress/internal/persistence/postgres"
	"example.com/progress/internal/report"
	"example.com/progress/internal/scheduler"
	httptransport "example.com/progress/internal/transport/http"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	repo := persistence.NewRepository(pool)
	service := domain.NewService(repo)

	notifier := notify.NewKafkaNotifier(cfg.KafkaBrokers, cfg.NotifyTopic)
	defer notifier.Close()

	renderer := report.NewTextRenderer()

	sched, err := scheduler.New(scheduler.Config{
		TickInterval:    cfg.TickInterval,
		FireTimeout:     cfg.NotifyTimeout,
		DefaultTimezone: cfg.DefaultTimezone,
	}, service, renderer, notifier, scheduler.SystemClock())
	if err != nil {
		log.Fatalf("failed to build scheduler: %v", err)
	}

	if err := rebuildJobs(ctx, service, sched, cfg); err != nil {
		log.Fatalf("failed to rebuild scheduler jobs: %v", err)
	}
	go sched.Start(ctx)

	handler := api.NewHandler(service, sched, renderer, notifier, cfg.ReportDayOfWeek, cfg.ReportHour)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	authMiddleware := auth.NewMiddleware(auth.Config{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
	}, func(r *http.Request) bool {
		return r.URL.Path == "/healthz" || r.URL.Path == "/metrics"
	})

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:           cfg.HTTPAddress,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}, authMiddleware.Wrap(logger(mux)))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("progress-engine listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	sched.Wait()
}

// rebuildJobs registers reminder and report jobs for every user with
// notifications enabled. Job state lives in memory, so a restart starts from
// the stored schedules.
func rebuildJobs(ctx context.Context, service *domain.Service, sched *scheduler.Scheduler, cfg config.Config) error {
	users, err := service.NotifiableUsers(ctx)
	if err != nil {
		return err
	}
	for _, settings := range users {
		slots, err := service.ScheduleSlots(ctx, settings.UserID)
		if err != nil {
			return err
		}
		if _, err := sched.RegisterSportReminders(settings.UserID, settings.Timezone, slots); err != nil {
			return err
		}
		if _, err := sched.RegisterWeeklyReport(settings.UserID, settings.Timezone, cfg.ReportDayOfWeek, cfg.ReportHour); err != nil {
			return err
		}
	}
	return nil
}
