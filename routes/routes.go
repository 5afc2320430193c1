package routes

import (
	aiController "clinic-booking/controllers/ai"
	appointmentController "clinic-booking/controllers/appointment"
	authController "clinic-booking/controllers/auth"
	catalogController "clinic-booking/controllers/catalog"
	dashboardController "clinic-booking/controllers/dashboard"
	indicatorController "clinic-booking/controllers/indicator"
	patientController "clinic-booking/controllers/patient"
	scheduleController "clinic-booking/controllers/schedule"
	userController "clinic-booking/controllers/user"
	"clinic-booking/httpServices/dni"
	"clinic-booking/logger"
	"clinic-booking/middleware"
	userModel "clinic-booking/models/user"
	bookingService "clinic-booking/services/booking"
	scheduleService "clinic-booking/services/schedule"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	asyncLogger := logger.NewAsyncLogger(db)
	dniClient := dni.NewClient()
	booking := bookingService.NewService(db)
	schedules := scheduleService.NewService(db)

	auth := authController.NewAuthController(db)
	users := userController.NewUserController(db)
	patients := patientController.NewPatientController(db, dniClient)
	appointments := appointmentController.NewAppointmentController(db, booking, asyncLogger)
	horarios := scheduleController.NewScheduleController(db, schedules)
	catalogs := catalogController.NewCatalogController(db)
	dashboard := dashboardController.NewDashboardController(db)
	indicators := indicatorController.NewIndicatorController(db)
	ai := aiController.NewAIController(db)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": "clinic-booking", "status": "ok"})
	})

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api", middleware.RequestLogger(asyncLogger))
	api.Post("/auth/login", auth.Login)
	api.Post("/auth/refresh", auth.Refresh)
	api.Post("/auth/logout", auth.Logout)

	/*=============================================================================
	| Authenticated Routes
	===============================================================================*/
	authGroup := api.Group("/auth").Use(middleware.IsAuthenticated())
	authGroup.Get("/perfil", auth.Profile)
	authGroup.Put("/password", auth.ChangePassword)

	/*=============================================================================
	| Users (admin only) and doctor directory
	===============================================================================*/
	userGroup := api.Group("/usuarios").Use(middleware.IsAuthenticated(), middleware.RequireRoles(userModel.RoleAdmin))
	userGroup.Get("/", users.Index)
	userGroup.Post("/", users.Store)
	userGroup.Get("/:id", users.Show)
	userGroup.Put("/:id", users.Update)
	userGroup.Delete("/:id", users.Destroy)

	api.Get("/medicos", middleware.IsAuthenticated(), users.Medicos)

	/*=============================================================================
	| Patients
	===============================================================================*/
	patientGroup := api.Group("/pacientes").Use(middleware.IsAuthenticated())
	patientGroup.Get("/", patients.Index)
	patientGroup.Post("/", patients.Store)
	patientGroup.Get("/dni/:dni", patients.LookupDNI)
	patientGroup.Get("/:id", patients.Show)
	patientGroup.Put("/:id", patients.Store)
	patientGroup.Get("/:id/citas", patients.Citas)

	/*=============================================================================
	| Appointments
	===============================================================================*/
	citaGroup := api.Group("/citas").Use(middleware.IsAuthenticated())
	citaGroup.Get("/", appointments.Index)
	citaGroup.Post("/", appointments.Store)
	citaGroup.Get("/confirmadas", appointments.Confirmadas)
	citaGroup.Get("/confirmadas/pdf", appointments.ConfirmadasPDF)
	citaGroup.Get("/:id", appointments.Show)
	citaGroup.Put("/:id", appointments.Update)
	citaGroup.Patch("/:id/estado", appointments.ChangeStatus)
	citaGroup.Get("/:id/historial", appointments.Historial)
	citaGroup.Delete("/:id", middleware.RequireRoles(userModel.RoleAdmin), appointments.Destroy)

	/*=============================================================================
	| Schedules
	===============================================================================*/
	horarioGroup := api.Group("/horarios").Use(middleware.IsAuthenticated())
	horarioGroup.Get("/", horarios.Index)
	horarioGroup.Get("/resumen", horarios.Resumen)
	horarioGroup.Post("/", middleware.RequireRoles(userModel.RoleAdmin, userModel.RoleDoctor), horarios.Store)
	horarioGroup.Put("/:id", middleware.RequireRoles(userModel.RoleAdmin, userModel.RoleDoctor), horarios.Update)
	horarioGroup.Delete("/mes", middleware.RequireRoles(userModel.RoleAdmin), horarios.DestroyMonth)
	horarioGroup.Delete("/:id", middleware.RequireRoles(userModel.RoleAdmin, userModel.RoleDoctor), horarios.Destroy)

	/*=============================================================================
	| Catalogs, dashboard, indicators, AI
	===============================================================================*/
	api.Get("/catalogos", middleware.IsAuthenticated(), catalogs.Index)

	specGroup := api.Group("/especialidades").Use(middleware.IsAuthenticated())
	specGroup.Get("/", catalogs.SpecialtyIndex)
	specGroup.Post("/", middleware.RequireRoles(userModel.RoleAdmin), catalogs.SpecialtyStore)
	specGroup.Put("/:id", middleware.RequireRoles(userModel.RoleAdmin), catalogs.SpecialtyUpdate)
	specGroup.Delete("/:id", middleware.RequireRoles(userModel.RoleAdmin), catalogs.SpecialtyDestroy)

	dashboardGroup := api.Group("/dashboard").Use(middleware.IsAuthenticated())
	dashboardGroup.Get("/stats", dashboard.Stats)
	dashboardGroup.Get("/proximas", dashboard.Proximas)
	dashboardGroup.Get("/especialidades", dashboard.PorEspecialidad)

	api.Get("/indicadores", middleware.IsAuthenticated(), indicators.Index)
	api.Post("/ai/recomendar-area", middleware.IsAuthenticated(), ai.RecomendarArea)
}
