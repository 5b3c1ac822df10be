package api

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"

	"github.com/Phucht59/Face-detect/internal/api/docs"
	"github.com/Phucht59/Face-detect/internal/api/handler"
	"github.com/Phucht59/Face-detect/internal/api/middleware"
)

type Dependencies struct {
	Attendance handler.AttendanceServiceInterface
	Employees  handler.EmployeeServiceInterface
	DB         handler.Pinger
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Face Attendance API",
		BodyLimit:    12 * 1024 * 1024,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	var db handler.Pinger
	if r.deps != nil {
		db = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(db)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil {
		return
	}

	v1 := r.app.Group("/v1")

	attendanceHandler := handler.NewAttendanceHandler(r.deps.Attendance)
	v1.Post("/enroll", attendanceHandler.Enroll)
	v1.Post("/recognize", attendanceHandler.Recognize)
	v1.Post("/retrain", attendanceHandler.Retrain)
	v1.Get("/model", attendanceHandler.Model)
	v1.Get("/attendance", attendanceHandler.History)

	employeeHandler := handler.NewEmployeeHandler(r.deps.Employees)
	v1.Post("/employees", employeeHandler.Create)
	v1.Get("/employees", employeeHandler.List)
	v1.Get("/employees/:id", employeeHandler.Get)
	v1.Put("/employees/:id", employeeHandler.Update)
	v1.Delete("/employees/:id", employeeHandler.Delete)
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.ShutdownWithTimeout(10 * time.Second)
}

// App exposes the underlying fiber app for tests.
func (r *Router) App() *fiber.App {
	return r.app
}
