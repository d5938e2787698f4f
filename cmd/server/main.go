package main

import (
	"context"
	"encoding/base64"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/juniorcav/gestao-pesca-sub000/internal/config"
	"github.com/juniorcav/gestao-pesca-sub000/internal/db"
	"github.com/juniorcav/gestao-pesca-sub000/internal/handler"
	"github.com/juniorcav/gestao-pesca-sub000/internal/repository"
	"github.com/juniorcav/gestao-pesca-sub000/internal/server"
	"github.com/juniorcav/gestao-pesca-sub000/internal/service"
	"google.golang.org/api/option"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	// Firebase Auth (optional)
	var firebaseAuth *auth.Client
	if cfg.FirebaseProjectID != "" {
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, firebaseOptions(cfg)...)
		if err != nil {
			logger.Error("failed to init firebase app", "err", err)
			os.Exit(1)
		}
		client, err := app.Auth(ctx)
		if err != nil {
			logger.Error("failed to init firebase auth", "err", err)
			os.Exit(1)
		}
		firebaseAuth = client
	}

	// repositories
	userRepo := repository.UserRepository{DB: pg}
	settingsRepo := repository.SettingsRepository{DB: pg}
	roomRepo := repository.RoomRepository{DB: pg}
	boatRepo := repository.BoatRepository{DB: pg}
	guideRepo := repository.GuideRepository{DB: pg}
	productRepo := repository.ProductRepository{DB: pg}
	templateRepo := repository.BudgetTemplateRepository{DB: pg}
	dealRepo := repository.DealRepository{DB: pg}
	reservationRepo := repository.ReservationRepository{DB: pg}
	logRepo := repository.ActivityLogRepository{DB: pg}
	dashboardRepo := repository.DashboardRepository{DB: pg}
	platformRepo := repository.PlatformRepository{DB: pg}

	// services
	authSvc := service.AuthService{Config: cfg, Users: userRepo, Logger: logger, FirebaseAuth: firebaseAuth}
	dealSvc := service.DealService{Deals: dealRepo, Templates: templateRepo, Logger: logger}
	checkinSvc := service.CheckinService{
		Deals:        dealRepo,
		Reservations: reservationRepo,
		Rooms:        roomRepo,
		Boats:        boatRepo,
		Guides:       guideRepo,
		Logger:       logger,
	}
	reservationSvc := service.ReservationService{
		Reservations: reservationRepo,
		Products:     productRepo,
		Rooms:        roomRepo,
		Boats:        boatRepo,
		Guides:       guideRepo,
		Logger:       logger,
	}

	documents := handler.NewDocumentRenderer()

	// handlers
	healthHandler := handler.HealthHandler{DB: pg}
	authHandler := handler.AuthHandler{Service: &authSvc}
	resourceHandler := handler.NewResourceHandler(roomRepo, boatRepo, guideRepo, productRepo)
	templateHandler := handler.BudgetTemplateHandler{Repo: templateRepo}
	dealHandler := handler.DealHandler{
		Repo:      dealRepo,
		Service:   dealSvc,
		Checkin:   checkinSvc,
		Settings:  settingsRepo,
		Logs:      logRepo,
		Documents: documents,
	}
	reservationHandler := handler.ReservationHandler{
		Repo:      reservationRepo,
		Service:   reservationSvc,
		Checkin:   checkinSvc,
		Settings:  settingsRepo,
		Logs:      logRepo,
		Documents: documents,
	}
	settingsHandler := handler.SettingsHandler{Repo: settingsRepo}
	dashboardHandler := handler.DashboardHandler{Repo: dashboardRepo}
	logHandler := handler.ActivityLogHandler{Repo: logRepo}
	platformHandler := handler.PlatformHandler{Repo: platformRepo}
	docsHandler := handler.DocsHandler{OpenAPIPath: cfg.OpenAPIPath}
	homeHandler := handler.HomeHandler{}

	router := server.NewRouter(cfg, logger,
		healthHandler,
		authHandler,
		resourceHandler,
		templateHandler,
		dealHandler,
		reservationHandler,
		settingsHandler,
		dashboardHandler,
		logHandler,
		platformHandler,
		docsHandler,
		homeHandler,
	)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

func firebaseOptions(cfg config.Config) []option.ClientOption {
	if cfg.FirebaseCredFile == "" {
		return nil
	}

	cred := cfg.FirebaseCredFile
	// Allow inline JSON or base64-encoded JSON in env to avoid writing a file.
	if strings.HasPrefix(strings.TrimSpace(cred), "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cred))}
	}
	if decoded, err := base64.StdEncoding.DecodeString(cred); err == nil && strings.HasPrefix(strings.TrimSpace(string(decoded)), "{") {
		return []option.ClientOption{option.WithCredentialsJSON(decoded)}
	}

	return []option.ClientOption{option.WithCredentialsFile(cred)}
}
