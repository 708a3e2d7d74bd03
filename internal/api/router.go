package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/presenca/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/presenca/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/presenca/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/presenca/internal/attendance"
	"github.com/saturnino-fabrica-de-software/presenca/internal/capture"
	"github.com/saturnino-fabrica-de-software/presenca/internal/gallery"
	"github.com/saturnino-fabrica-de-software/presenca/internal/ledger"
)

type Dependencies struct {
	Gallery    *gallery.Store
	Ledger     *ledger.Ledger
	Attendance *attendance.Service
	Session    *capture.Session
	DB         *pgxpool.Pool
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Presença API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints
	var db handler.Pinger
	if r.deps != nil && r.deps.DB != nil {
		db = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(db)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// API v1 group
	v1 := r.app.Group("/v1")

	// Only configure domain routes if dependencies were provided
	if r.deps != nil {
		identityHandler := handler.NewIdentityHandler(r.deps.Attendance, r.deps.Gallery, r.logger)
		cameraHandler := handler.NewCameraHandler(r.deps.Session, r.logger)
		attendanceHandler := handler.NewAttendanceHandler(r.deps.Attendance, r.deps.Ledger, r.logger)

		// Identity routes
		v1.Post("/identities", identityHandler.Enroll)
		v1.Get("/identities", identityHandler.List)
		v1.Get("/identities/:roll_number", identityHandler.Get)
		v1.Delete("/identities/:roll_number", identityHandler.Delete)

		// Camera routes
		v1.Post("/camera/start", cameraHandler.Start)
		v1.Post("/camera/stop", cameraHandler.Stop)
		v1.Get("/camera", cameraHandler.Status)
		v1.Get("/camera/feed", cameraHandler.Feed)

		// Attendance routes
		v1.Post("/attendance/capture", attendanceHandler.Capture)
		v1.Get("/attendance/records", attendanceHandler.Records)
		v1.Get("/attendance/export", attendanceHandler.Export)
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Release the camera before the listener goes away
	if r.deps != nil && r.deps.Session != nil {
		r.deps.Session.Stop()
	}

	return r.app.Shutdown()
}
