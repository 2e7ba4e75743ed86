package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"zakupBack/internal/config"
	"zakupBack/internal/handlers"
	"zakupBack/internal/repositories"
	"zakupBack/internal/services"
	"zakupBack/utils"
)

type application struct {
	errorLog  *log.Logger
	infoLog   *log.Logger
	db        *sql.DB
	tokens    *utils.Manager
	accessTTL time.Duration

	userRepo    *repositories.UserRepository
	invoiceRepo *repositories.InvoiceRepository
	poRepo      *repositories.PurchaseOrderRepository

	invoiceService       *services.InvoiceService
	purchaseOrderService *services.PurchaseOrderService
	dashboardService     *services.DashboardService

	userHandler          *handlers.UserHandler
	vendorHandler        *handlers.VendorHandler
	projectHandler       *handlers.ProjectHandler
	purchaseOrderHandler *handlers.PurchaseOrderHandler
	invoiceHandler       *handlers.InvoiceHandler
	requisitionHandler   *handlers.CheckRequisitionHandler
	disbursementHandler  *handlers.DisbursementHandler
	dashboardHandler     *handlers.DashboardHandler

	eventsHub *handlers.EventsHub
}

func initializeApp(db *sql.DB, rdb *redis.Client, cfg config.Config, errorLog, infoLog *log.Logger) *application {
	tokens, err := utils.NewManager(cfg.Auth.SigningKey)
	if err != nil {
		errorLog.Fatal(err)
	}

	storage, err := utils.NewFileStorage(
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.Bucket,
		cfg.Storage.Region,
		cfg.Storage.Endpoint,
	)
	if err != nil {
		errorLog.Printf("file storage disabled: %v", err)
	}

	// Repositories
	userRepo := repositories.UserRepository{DB: db}
	vendorRepo := repositories.VendorRepository{DB: db}
	projectRepo := repositories.ProjectRepository{DB: db}
	poRepo := repositories.PurchaseOrderRepository{DB: db}
	invoiceRepo := repositories.InvoiceRepository{DB: db}
	requisitionRepo := repositories.CheckRequisitionRepository{DB: db}
	disbursementRepo := repositories.DisbursementRepository{DB: db}
	auditRepo := repositories.AuditRepository{DB: db}
	dashboardRepo := repositories.DashboardRepository{DB: db}

	// Services
	accessTTL := time.Duration(cfg.Auth.AccessTTLMin) * time.Minute
	refreshTTL := time.Duration(cfg.Auth.RefreshTTLHours) * time.Hour

	userService := &services.UserService{
		UserRepo:   &userRepo,
		Tokens:     tokens,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
	vendorService := &services.VendorService{VendorRepo: &vendorRepo}
	projectService := &services.ProjectService{ProjectRepo: &projectRepo}
	dashboardService := &services.DashboardService{DashboardRepo: &dashboardRepo, RDB: rdb}
	poService := &services.PurchaseOrderService{PORepo: &poRepo, Dashboard: dashboardService}
	invoiceService := &services.InvoiceService{InvoiceRepo: &invoiceRepo, AuditRepo: &auditRepo}
	requisitionService := &services.CheckRequisitionService{RequisitionRepo: &requisitionRepo, AuditRepo: &auditRepo}
	disbursementService := &services.DisbursementService{DisbursementRepo: &disbursementRepo, AuditRepo: &auditRepo}

	// Handlers
	eventsHub := handlers.NewEventsHub()

	userHandler := &handlers.UserHandler{Service: userService}
	vendorHandler := &handlers.VendorHandler{Service: vendorService}
	projectHandler := &handlers.ProjectHandler{Service: projectService}
	purchaseOrderHandler := &handlers.PurchaseOrderHandler{Service: poService}
	invoiceHandler := &handlers.InvoiceHandler{Service: invoiceService, Storage: storage, Events: eventsHub}
	requisitionHandler := &handlers.CheckRequisitionHandler{Service: requisitionService, Events: eventsHub}
	disbursementHandler := &handlers.DisbursementHandler{Service: disbursementService, Events: eventsHub}
	dashboardHandler := &handlers.DashboardHandler{Service: dashboardService}

	return &application{
		errorLog:             errorLog,
		infoLog:              infoLog,
		db:                   db,
		tokens:               tokens,
		accessTTL:            accessTTL,
		userRepo:             &userRepo,
		invoiceRepo:          &invoiceRepo,
		poRepo:               &poRepo,
		invoiceService:       invoiceService,
		purchaseOrderService: poService,
		dashboardService:     dashboardService,
		userHandler:          userHandler,
		vendorHandler:        vendorHandler,
		projectHandler:       projectHandler,
		purchaseOrderHandler: purchaseOrderHandler,
		invoiceHandler:       invoiceHandler,
		requisitionHandler:   requisitionHandler,
		disbursementHandler:  disbursementHandler,
		dashboardHandler:     dashboardHandler,
		eventsHub:            eventsHub,
	}
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
