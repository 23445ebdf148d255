package main

import (
	"fmt"
	"net/http"

	"github.com/hrsuite/hr-backend-go/internal/config"
	appHTTP "github.com/hrsuite/hr-backend-go/internal/handler/http"
	"github.com/hrsuite/hr-backend-go/internal/pkg/cron"
	"github.com/hrsuite/hr-backend-go/internal/pkg/database"
	"github.com/hrsuite/hr-backend-go/internal/pkg/jwt"
	"github.com/hrsuite/hr-backend-go/internal/repository/postgresql"
	attendanceService "github.com/hrsuite/hr-backend-go/internal/service/attendance"
	deviceService "github.com/hrsuite/hr-backend-go/internal/service/device"
	employeeService "github.com/hrsuite/hr-backend-go/internal/service/employee"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), cfg.Database.MaxConns)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	transactor := postgresql.NewTransactor(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	ledgerRepo := postgresql.NewOvertimeLedgerRepository(db)
	activityRepo := postgresql.NewActivityRepository(db)
	conditionRepo := postgresql.NewValidationConditionRepository(db)
	lateEarlyRepo := postgresql.NewLateComeEarlyOutRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	attendanceSvc := attendanceService.NewAttendanceService(
		transactor,
		attendanceRepo,
		ledgerRepo,
		activityRepo,
		conditionRepo,
		lateEarlyRepo,
		employeeRepo,
		shiftRepo,
		cfg.Device.DefaultMinimumHour,
	)
	conditionSvc := attendanceService.NewConditionService(transactor, conditionRepo)
	deviceSvc := deviceService.NewDeviceService(
		attendanceSvc,
		employeeRepo,
		shiftRepo,
		cfg.Device.DefaultMinimumHour,
	)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, shiftRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	deviceHandler := appHTTP.NewDeviceHandler(deviceSvc)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	settingsHandler := appHTTP.NewSettingsHandler(conditionSvc)

	router := appHTTP.NewRouter(
		cfg,
		jwtService,
		attendanceHandler,
		deviceHandler,
		employeeHandler,
		settingsHandler,
	)

	scheduler := cron.NewScheduler()
	cron.NewActivityJobs(activityRepo).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
