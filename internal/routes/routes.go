// Package routes wires every API endpoint to its handler and role
// allow-list under the /api prefix.
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Patilgrv/student-management-api/internal/app/domain/attendance"
	"github.com/Patilgrv/student-management-api/internal/app/domain/auth"
	"github.com/Patilgrv/student-management-api/internal/app/domain/class"
	"github.com/Patilgrv/student-management-api/internal/app/domain/enrollment"
	"github.com/Patilgrv/student-management-api/internal/app/domain/student"
	"github.com/Patilgrv/student-management-api/internal/app/domain/subject"
	"github.com/Patilgrv/student-management-api/internal/app/domain/teacher"
	"github.com/Patilgrv/student-management-api/internal/app/domain/user"
	"github.com/Patilgrv/student-management-api/internal/app/handlers"
	"github.com/Patilgrv/student-management-api/internal/app/middleware"
	"github.com/Patilgrv/student-management-api/internal/app/models"
	"github.com/Patilgrv/student-management-api/internal/pkg/config"
)

// Setup builds the full handler graph and registers every route.
func Setup(r *gin.Engine, pool *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) {
	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	base := handlers.NewBaseHandler(logger)

	authHandlers := auth.NewAuthHandlers(base,
		auth.NewAuthService(auth.NewPostgresAuthRepo(pool, logger), tokens, logger))
	userHandlers := user.NewUserHandlers(base,
		user.NewUserService(user.NewPostgresUserRepo(pool, logger), logger))
	studentHandlers := student.NewStudentHandlers(base,
		student.NewStudentService(student.NewPostgresStudentRepo(pool, logger), logger))
	teacherHandlers := teacher.NewTeacherHandlers(base,
		teacher.NewTeacherService(teacher.NewPostgresTeacherRepo(pool, logger), logger))
	classHandlers := class.NewClassHandlers(base,
		class.NewClassService(class.NewPostgresClassRepo(pool, logger), logger))
	subjectHandlers := subject.NewSubjectHandlers(base,
		subject.NewSubjectService(subject.NewPostgresSubjectRepo(pool, logger), logger))
	enrollmentHandlers := enrollment.NewEnrollmentHandlers(base,
		enrollment.NewEnrollmentService(enrollment.NewPostgresEnrollmentRepo(pool, logger), logger))
	attendanceHandlers := attendance.NewAttendanceHandlers(base,
		attendance.NewAttendanceService(attendance.NewPostgresAttendanceRepo(pool, logger), logger))

	authenticate := middleware.Authenticate(tokens, logger)
	admin := middleware.Authorize(models.RoleAdmin)
	adminTeacher := middleware.Authorize(models.RoleAdmin, models.RoleTeacher)
	anyRole := middleware.Authorize(models.RoleAdmin, models.RoleTeacher, models.RoleStudent)
	teacherOnly := middleware.Authorize(models.RoleTeacher)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	api.POST("/auth/login", authHandlers.Login)
	api.POST("/auth/register", authenticate, admin, authHandlers.Register)

	api.GET("/users", authenticate, admin, userHandlers.List)
	api.GET("/users/:id", authenticate, admin, userHandlers.GetByID)
	api.POST("/users", authenticate, admin, userHandlers.Create)
	api.PUT("/users/:id", authenticate, admin, userHandlers.Update)
	api.DELETE("/users/:id", authenticate, admin, userHandlers.Delete)

	api.GET("/students", authenticate, adminTeacher, studentHandlers.List)
	api.GET("/students/:id", authenticate, anyRole, studentHandlers.GetByID)
	api.POST("/students", authenticate, admin, studentHandlers.Create)
	api.PUT("/students/:id", authenticate, admin, studentHandlers.Update)
	api.DELETE("/students/:id", authenticate, admin, studentHandlers.Delete)

	api.GET("/teachers", authenticate, admin, teacherHandlers.List)
	api.GET("/teachers/:id", authenticate, adminTeacher, teacherHandlers.GetByID)
	api.POST("/teachers", authenticate, admin, teacherHandlers.Create)
	api.PUT("/teachers/:id", authenticate, admin, teacherHandlers.Update)
	api.DELETE("/teachers/:id", authenticate, admin, teacherHandlers.Delete)

	api.GET("/classes", authenticate, adminTeacher, classHandlers.List)
	api.GET("/classes/:id", authenticate, adminTeacher, classHandlers.GetByID)
	api.POST("/classes", authenticate, admin, classHandlers.Create)
	api.PUT("/classes/:id", authenticate, admin, classHandlers.Update)
	api.DELETE("/classes/:id", authenticate, admin, classHandlers.Delete)

	api.GET("/subjects", authenticate, adminTeacher, subjectHandlers.List)
	api.GET("/subjects/:id", authenticate, adminTeacher, subjectHandlers.GetByID)
	api.POST("/subjects", authenticate, admin, subjectHandlers.Create)
	api.PUT("/subjects/:id", authenticate, admin, subjectHandlers.Update)
	api.DELETE("/subjects/:id", authenticate, admin, subjectHandlers.Delete)
	api.POST("/subjects/:id/assign-teacher", authenticate, admin, subjectHandlers.AssignTeacher)
	api.DELETE("/subjects/:id/unassign-teacher/:teacherId", authenticate, admin, subjectHandlers.UnassignTeacher)

	api.GET("/enrollments", authenticate, adminTeacher, enrollmentHandlers.List)
	api.GET("/enrollments/:id", authenticate, adminTeacher, enrollmentHandlers.GetByID)
	api.POST("/enrollments", authenticate, admin, enrollmentHandlers.Create)
	api.DELETE("/enrollments/:id", authenticate, admin, enrollmentHandlers.Delete)

	api.GET("/attendance", authenticate, adminTeacher, attendanceHandlers.List)
	api.GET("/attendance/reports", authenticate, adminTeacher, attendanceHandlers.GetReports)
	api.GET("/attendance/student/:studentId", authenticate, anyRole, attendanceHandlers.GetStudentAttendance)
	api.GET("/attendance/:id", authenticate, adminTeacher, attendanceHandlers.GetByID)
	api.POST("/attendance", authenticate, teacherOnly, attendanceHandlers.Create)
	api.PUT("/attendance/:id", authenticate, teacherOnly, attendanceHandlers.Update)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.Response{Success: false, Message: "Route not found"})
	})
}
