package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"gorm.io/gorm"

	"github.com/totegamma/itemtag/internal/config"
	"github.com/totegamma/itemtag/internal/infra/database"
	"github.com/totegamma/itemtag/internal/infra/repository"
	"github.com/totegamma/itemtag/internal/infra/telemetry"
	"github.com/totegamma/itemtag/internal/present/rest"
	"github.com/totegamma/itemtag/internal/usecase"
)

var version = "dev"

type stores struct {
	items        usecase.ItemRepository
	tags         usecase.TagRepository
	associations usecase.AssociationRepository
	pinger       usecase.Pinger
	close        func(context.Context) error
}

func main() {
	configPath := flag.String("config", os.Getenv("ITEMTAG_CONFIG"), "path to the YAML config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if conf.Server.EnableTrace {
		shutdown, err := telemetry.SetupTraceProvider(ctx, conf.Server.TraceEndpoint, "itemtag", version)
		if err != nil {
			slog.Error("failed to setup tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer shutdown(context.Background())
	}

	st, err := openStores(ctx, conf.Server)
	if err != nil {
		slog.Error("failed to open storage", slog.String("error", err.Error()), slog.String("storage", conf.Server.Storage))
		os.Exit(1)
	}
	defer st.close(context.Background())

	itemUC := usecase.NewItemUsecase(st.items)
	tagUC := usecase.NewTagUsecase(st.tags)
	associationUC := usecase.NewAssociationUsecase(st.items, st.tags, st.associations)
	healthUC := usecase.NewHealthUsecase(st.pinger)

	handler := rest.NewHandler(itemUC, tagUC, associationUC, healthUC)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware("itemtag"))
	}

	handler.RegisterRoutes(e)

	go func() {
		slog.Info("starting server", slog.String("addr", conf.Server.ListenAddr), slog.String("storage", conf.Server.Storage))
		err := e.Start(conf.Server.ListenAddr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = e.Shutdown(shutdownCtx)
	if err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
}

func openStores(ctx context.Context, conf config.Server) (stores, error) {
	switch conf.Storage {
	case config.StorageMongoDB:
		client, db, err := database.NewMongo(ctx, conf.MongoURI)
		if err != nil {
			return stores{}, err
		}
		err = database.EnsureMongoIndexes(ctx, db)
		if err != nil {
			_ = client.Disconnect(ctx)
			return stores{}, err
		}
		return stores{
			items:        repository.NewMongoItemRepository(db),
			tags:         repository.NewMongoTagRepository(db),
			associations: repository.NewMongoAssociationRepository(db),
			pinger:       repository.NewMongoPinger(client),
			close:        client.Disconnect,
		}, nil
	case config.StoragePostgres:
		db, err := database.NewPostgres(conf.PostgresDsn)
		if err != nil {
			return stores{}, err
		}
		return sqlStores(db)
	case config.StorageSQLite:
		db, err := database.NewSQLite(conf.SQLitePath)
		if err != nil {
			return stores{}, err
		}
		return sqlStores(db)
	default:
		return stores{}, errors.New("unknown storage " + conf.Storage)
	}
}

func sqlStores(db *gorm.DB) (stores, error) {
	err := database.MigrateSQL(db)
	if err != nil {
		return stores{}, err
	}
	return stores{
		items:        repository.NewSQLItemRepository(db),
		tags:         repository.NewSQLTagRepository(db),
		associations: repository.NewSQLAssociationRepository(db),
		pinger:       repository.NewSQLPinger(db),
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}, nil
}
