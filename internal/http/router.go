package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sadhna-backend/internal/handlers"
	"sadhna-backend/internal/logger"
	"sadhna-backend/internal/middleware"
	"sadhna-backend/internal/models"
	"sadhna-backend/internal/realtime"
	"sadhna-backend/pkg/utils"
)

const (
	admin      = models.RoleAdmin
	manager    = models.RoleManager
	supervisor = models.RoleSupervisor
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	totpHandler *handlers.TOTPHandler,
	employeeHandler *handlers.EmployeeHandler,
	attendanceHandler *handlers.AttendanceHandler,
	payrollHandler *handlers.PayrollHandler,
	leaveHandler *handlers.LeaveHandler,
	applicationHandler *handlers.ApplicationHandler,
	siteReportHandler *handlers.SiteReportHandler,
	uploadHandler *handlers.UploadHandler,
	healthHandler *handlers.HealthHandler,
	hub *realtime.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(logger.AddRequestID, middleware.MetricsMiddleware)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		utils.Error(w, http.StatusNotFound, "Route not found")
	})

	authed := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.Authenticate(h)
	}
	only := func(h http.HandlerFunc, roles ...string) http.Handler {
		return authMiddleware.RequireRole(roles...)(h)
	}

	api := r.PathPrefix("/api").Subrouter()

	// Auth
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.Handle("/auth/register", only(authHandler.Register, admin)).Methods("POST")
	api.Handle("/auth/me", authed(authHandler.Me)).Methods("GET")
	api.Handle("/auth/2fa/setup", authed(totpHandler.SetupTOTP)).Methods("POST")
	api.Handle("/auth/2fa/enable", authed(totpHandler.EnableTOTP)).Methods("POST")
	api.Handle("/auth/2fa/disable", authed(totpHandler.DisableTOTP)).Methods("POST")

	// Users
	api.Handle("/users", only(userHandler.ListUsers, admin)).Methods("GET")
	api.Handle("/users/{id}/role", only(userHandler.UpdateRole, admin)).Methods("PUT")

	// Employees - profile is registered before {id}
	api.Handle("/employees", only(employeeHandler.ListEmployees, admin, manager)).Methods("GET")
	api.Handle("/employees", only(employeeHandler.CreateEmployee, admin, manager)).Methods("POST")
	api.Handle("/employees/profile", authed(employeeHandler.Profile)).Methods("GET")
	api.Handle("/employees/{id}", authed(employeeHandler.GetEmployee)).Methods("GET")
	api.Handle("/employees/{id}", only(employeeHandler.UpdateEmployee, admin, manager)).Methods("PATCH")
	api.Handle("/employees/{id}", only(employeeHandler.DeleteEmployee, admin, manager)).Methods("DELETE")

	// Attendance
	api.Handle("/attendance", only(attendanceHandler.ListAttendance, admin, manager, supervisor)).Methods("GET")
	api.Handle("/attendance", only(attendanceHandler.AddAttendance, admin, manager, supervisor)).Methods("POST")
	api.Handle("/attendance/my-attendance", authed(attendanceHandler.MyAttendance)).Methods("GET")
	api.Handle("/attendance/employee/{id}", authed(attendanceHandler.EmployeeAttendance)).Methods("GET")
	api.Handle("/attendance/export", only(attendanceHandler.ExportAttendance, admin, manager)).Methods("GET")

	// Payroll
	api.Handle("/payroll/generate/{employeeId}", only(payrollHandler.GeneratePayslip, admin, manager)).Methods("GET")
	api.Handle("/payroll/my-pay", authed(payrollHandler.MyPay)).Methods("GET")

	// Leaves
	api.Handle("/leaves/apply", authed(leaveHandler.ApplyLeave)).Methods("POST")
	api.Handle("/leaves/my-leaves", authed(leaveHandler.MyLeaves)).Methods("GET")
	api.Handle("/leaves/admin", only(leaveHandler.AllLeaves, admin, manager)).Methods("GET")
	api.Handle("/leaves/{id}/status", only(leaveHandler.UpdateLeaveStatus, admin, manager)).Methods("PUT")
	api.Handle("/leaves/admin/{id}", only(leaveHandler.UpdateLeaveStatus, admin, manager)).Methods("PATCH")

	// Applications - register and apply are public
	api.HandleFunc("/applications/register", applicationHandler.Register).Methods("POST")
	api.HandleFunc("/applications/apply", applicationHandler.Apply).Methods("POST")
	api.Handle("/applications", only(applicationHandler.ListApplications, admin, manager)).Methods("GET")
	api.Handle("/applications/{id}/status", only(applicationHandler.UpdateStatus, admin, manager)).Methods("PUT")
	api.Handle("/applications/{id}/hire", only(applicationHandler.Hire, admin)).Methods("POST")
	api.Handle("/applications/{id}/resume", only(applicationHandler.Resume, admin, manager)).Methods("GET")
	api.Handle("/applications/{id}/document/{type}", only(applicationHandler.Document, admin, manager)).Methods("GET")

	// Site monitoring - edit and delete also check ownership in the service
	api.Handle("/site-monitoring", authed(siteReportHandler.ListReports)).Methods("GET")
	api.Handle("/site-monitoring", only(siteReportHandler.CreateReport, supervisor, manager, admin)).Methods("POST")
	api.Handle("/site-monitoring/{id}", authed(siteReportHandler.GetReport)).Methods("GET")
	api.Handle("/site-monitoring/{id}", only(siteReportHandler.UpdateReport, supervisor, manager, admin)).Methods("PUT")
	api.Handle("/site-monitoring/{id}", only(siteReportHandler.DeleteReport, supervisor, manager, admin)).Methods("DELETE")
	api.Handle("/site-monitoring/{id}/comments", authed(siteReportHandler.AddComment)).Methods("POST")

	// Stored documents and photos
	r.HandleFunc("/uploads/{key:.+}", uploadHandler.ServeFile).Methods("GET")

	// Realtime, authenticated by ?token=
	r.HandleFunc("/ws", hub.ServeWS)

	// Health and metrics
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}
