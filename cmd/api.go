package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	cartController "github.com/Alturino/storefront/cart/internal/controller"
	cartService "github.com/Alturino/storefront/cart/internal/service"
	"github.com/Alturino/storefront/internal/cache"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/middleware"
	"github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	orderController "github.com/Alturino/storefront/order/internal/controller"
	orderService "github.com/Alturino/storefront/order/internal/service"
	productController "github.com/Alturino/storefront/product/internal/controller"
	productService "github.com/Alturino/storefront/product/internal/service"
	userController "github.com/Alturino/storefront/user/internal/controller"
	userService "github.com/Alturino/storefront/user/internal/service"
)

func newRouter(cfg *config.Config, store repository.Store, productCache cache.Cache) http.Handler {
	router := mux.NewRouter()
	router.StrictSlash(true)
	router.Use(
		otelmux.Middleware(constants.APP_API_SERVICE),
		middleware.Logging,
		middleware.RecoverPanic,
		middleware.Metrics,
	)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		inHttp.WriteJsonResponse(r.Context(), w, http.StatusOK, inHttp.MessageResponse{Message: "ok"})
	}).Methods(http.MethodGet)

	userController.AttachUserController(
		router,
		userService.NewUserService(store, cfg.Application),
	)

	authenticated := router.PathPrefix("/").Subrouter()
	authenticated.Use(middleware.Auth(cfg.Application))
	productController.AttachProductController(
		authenticated,
		productService.NewProductService(store, productCache),
	)
	cartController.AttachCartController(
		authenticated,
		cartService.NewCartService(store, cfg.Cart),
	)
	orderController.AttachOrderController(
		authenticated,
		orderService.NewOrderService(store),
	)

	return cors.New(cors.Options{
		AllowedOrigins: cfg.Application.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedHeaders: []string{
			inHttp.KEY_HEADER_AUTHORIZATION,
			inHttp.KEY_HEADER_CONTENT_TYPE,
			inHttp.KEY_HEADER_REQUEST_ID,
		},
		ExposedHeaders: []string{inHttp.KEY_HEADER_REQUEST_ID},
	}).Handler(router)
}

func runApi(c context.Context) error {
	c, cfg, logger := bootstrap(c, constants.APP_API_SERVICE)
	logger = logger.With().Str(constants.KEY_TAG, "main runApi").Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	shutdownFuncs, err := otel.InitOtelSdk(logger.WithContext(c), constants.APP_API_SERVICE, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("initialized otel sdk")
	defer func() {
		logger := logger.With().Str(constants.KEY_PROCESS, "shutting down otel").Logger()
		logger.Info().Msg("shutting down otel")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otel.ShutdownOtel(shutdownCtx, shutdownFuncs); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	pool, err := infra.NewDatabaseClient(logger.WithContext(c), cfg.Database)
	if err != nil {
		err = fmt.Errorf("failed initializing database with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("initialized database")
	defer func() {
		logger := logger.With().Str(constants.KEY_PROCESS, "shutting down database connection").Logger()
		logger.Info().Msg("shutting down database connection")
		pool.Close()
		logger.Info().Msg("shutdown database connection")
	}()

	var redisClient *redis.Client
	if cfg.Cache.Driver == config.CACHE_DRIVER_REDIS {
		logger = logger.With().Str(constants.KEY_PROCESS, "initializing cache client").Logger()
		logger.Info().Msg("initializing cache client")
		redisClient, err = infra.NewCacheClient(logger.WithContext(c), cfg.Cache)
		if err != nil {
			err = fmt.Errorf("failed initializing cache client with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
		logger.Info().Msg("initialized cache client")
		defer func() {
			logger := logger.With().Str(constants.KEY_PROCESS, "shutting down cache connection").Logger()
			logger.Info().Msg("shutting down cache connection")
			if err := redisClient.Close(); err != nil {
				err = fmt.Errorf("failed closing cache with error=%w", err)
				logger.Error().Err(err).Msg(err.Error())
				return
			}
			logger.Info().Msg("shutdown cache connection")
		}()
	}
	productCache, err := cache.New(cfg.Cache, redisClient)
	if err != nil {
		err = fmt.Errorf("failed initializing cache with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	server := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      newRouter(cfg, repository.NewStore(pool), productCache),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Info().Msg("initialized server")

	serverErr := make(chan error, 1)
	go func() {
		logger := logger.With().Str(constants.KEY_PROCESS, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("encounter error=%w while running server", err)
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error().Err(err).Msg(err.Error())
			return err
		}
	case <-c.Done():
		logger.Info().Msg("received interuption signal shutting down")
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "shutdown server").Logger()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed shutting down server with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("shutdown server")

	return nil
}
