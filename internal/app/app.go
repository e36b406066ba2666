// Package app собирает приложение: конфигурация, хранилище, восстановление
// состояния, интерактивная сессия и сохранение на выходе.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/sales/internal/cli"
	"github.com/vladislavdragonenkov/sales/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/sales/internal/health"
	"github.com/vladislavdragonenkov/sales/internal/service/sales"
	"github.com/vladislavdragonenkov/sales/internal/version"
)

// Run запускает приложение и блокируется до выхода оператора или отмены
// контекста. Каталог, пороги и пользователи сохраняются при любом выходе.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.WithError(err).Warn("не удалось закрыть хранилище")
		}
	}()

	st, err := restoreState(deps, cfg)
	if err != nil {
		return err
	}

	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		healthHandler := healthcheck.NewHandler(version.String())
		healthHandler.Register("storage", func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return deps.PingStore(pingCtx)
		})
		metricsSrv = startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)
	}

	session := cli.NewSession(st.svc, deps.OrderLog, os.Stdin, os.Stdout, log.WithField("component", "cli"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- session.Run(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки")
		runErr = ctx.Err()
	case err := <-errCh:
		runErr = err
	}

	shutdownHTTP(metricsSrv, logger)

	if err := saveState(deps, st); err != nil {
		logger.WithError(err).Error("состояние сохранено не полностью")
		if runErr == nil {
			runErr = err
		}
	} else {
		logger.Info("состояние сохранено")
	}
	return runErr
}

// state — восстановленные агрегаты процесса и собранный поверх них сервис.
type state struct {
	catalog *domain.Catalog
	reorder *domain.ReorderTable
	users   *domain.UserList
	svc     *sales.Service
}

// restoreState загружает данные из репозиториев и собирает сервис продаж.
func restoreState(deps *Dependencies, cfg Config) (*state, error) {
	products, err := deps.Products.Load()
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	levels, err := deps.Reorder.Load()
	if err != nil {
		return nil, fmt.Errorf("load reorder levels: %w", err)
	}
	userRows, err := deps.Users.Load()
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	purchases, err := deps.Purchases.Load()
	if err != nil {
		return nil, fmt.Errorf("load purchases: %w", err)
	}

	st := &state{
		catalog: domain.NewCatalog(),
		reorder: domain.NewReorderTable(),
		users:   domain.NewUserList(),
	}
	st.catalog.Restore(products)
	st.reorder.Restore(levels)
	st.users.Restore(userRows)

	deps.Logger.WithFields(log.Fields{
		"products":  len(products),
		"levels":    len(levels),
		"users":     len(userRows),
		"purchases": len(purchases),
	}).Info("состояние восстановлено")

	st.svc = sales.NewService(
		st.catalog,
		domain.NewLedger(),
		st.reorder,
		st.users,
		deps.OrderLog,
		deps.Purchases,
		deps.Users,
		cfg.DefaultReorderLevel,
		log.WithField("component", "sales"),
	)
	st.svc.RestorePurchases(purchases)
	return st, nil
}

// saveState записывает каталог, пороги и пользователей. Журналы заказов
// и закупок append-only и уже на диске.
func saveState(deps *Dependencies, st *state) error {
	var errs []error
	if err := deps.Products.Save(st.catalog.List()); err != nil {
		errs = append(errs, fmt.Errorf("save products: %w", err))
	}
	if err := deps.Reorder.Save(st.reorder.Levels()); err != nil {
		errs = append(errs, fmt.Errorf("save reorder levels: %w", err))
	}
	if err := deps.Users.Save(st.users.All()); err != nil {
		errs = append(errs, fmt.Errorf("save users: %w", err))
	}
	return errors.Join(errs...)
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
