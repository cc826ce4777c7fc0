package admin

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/zitlabs/campus/config"
	"github.com/zitlabs/campus/internal/controller"
	"github.com/zitlabs/campus/internal/dto"
	"github.com/zitlabs/campus/internal/middleware"
	"github.com/zitlabs/campus/internal/model"
	"github.com/zitlabs/campus/internal/repository"
	"github.com/zitlabs/campus/internal/service"
)

type AdminController struct {
	adminService  service.AdminService
	courseService service.CourseService
}

func NewAdminController(adminService service.AdminService, courseService service.CourseService) *AdminController {
	return &AdminController{adminService: adminService, courseService: courseService}
}

func (ctrl *AdminController) RegisterRoutes(router *gin.RouterGroup, cfg *config.Config, userRepo repository.UserRepository) {
	group := router.Group("/admin")
	group.Use(middleware.RequireAuth(cfg, userRepo), middleware.RequireRole(model.RoleAdmin))

	group.GET("/stats", ctrl.PlatformStats)
	group.GET("/analytics", ctrl.Analytics)

	group.GET("/users", ctrl.ListUsers)
	group.POST("/users", ctrl.CreateUser)
	group.PUT("/users/:id", ctrl.UpdateUser)
	group.DELETE("/users/:id", ctrl.DeleteUser)

	group.GET("/courses/moderation", ctrl.ModerationQueue)
	group.POST("/courses/:id/approve", ctrl.ApproveCourse)
	group.POST("/courses/:id/reject", ctrl.RejectCourse)

	group.GET("/export/users.csv", ctrl.ExportUsers)
	group.GET("/export/courses.csv", ctrl.ExportCourses)
	group.GET("/export/enrollments.csv", ctrl.ExportEnrollments)
}

// PlatformStats godoc
// @Summary Platform-wide totals
// @Tags admin
// @Produce json
// @Success 200 {object} dto.PlatformStatsResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/stats [get]
func (ctrl *AdminController) PlatformStats(c *gin.Context) {
	resp, err := ctrl.adminService.PlatformStats(middleware.Actor(c))
	if err != nil {
		log.Error().Err(err).Msg("PlatformStats: service error")
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Analytics godoc
// @Summary Course completion rates and top students
// @Tags admin
// @Produce json
// @Success 200 {object} dto.AnalyticsResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/analytics [get]
func (ctrl *AdminController) Analytics(c *gin.Context) {
	resp, err := ctrl.adminService.Analytics(middleware.Actor(c))
	if err != nil {
		log.Error().Err(err).Msg("Analytics: service error")
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListUsers godoc
// @Summary List all accounts
// @Tags admin
// @Produce json
// @Success 200 {array} dto.UserResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/users [get]
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	users, err := ctrl.adminService.ListUsers(middleware.Actor(c))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser godoc
// @Summary Create an account with any role
// @Tags admin
// @Accept json
// @Produce json
// @Param user body dto.AdminCreateUserRequest true "Account details"
// @Success 201 {object} dto.UserResponse
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Security BearerAuth
// @Router /admin/users [post]
func (ctrl *AdminController) CreateUser(c *gin.Context) {
	var req dto.AdminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	user, err := ctrl.adminService.CreateUser(middleware.Actor(c), req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser godoc
// @Summary Update an account's name, email or role
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body dto.AdminUpdateUserRequest true "Account details"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Security BearerAuth
// @Router /admin/users/{id} [put]
func (ctrl *AdminController) UpdateUser(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	user, err := ctrl.adminService.UpdateUser(middleware.Actor(c), id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete an account
// @Description Admins cannot delete their own account.
// @Tags admin
// @Param id path int true "User ID"
// @Success 204 "No Content"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id} [delete]
func (ctrl *AdminController) DeleteUser(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.adminService.DeleteUser(middleware.Actor(c), id); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ModerationQueue godoc
// @Summary Courses grouped by moderation state
// @Description All pending courses plus the ten most recent approved and rejected ones.
// @Tags admin
// @Produce json
// @Success 200 {object} dto.ModerationQueueResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/courses/moderation [get]
func (ctrl *AdminController) ModerationQueue(c *gin.Context) {
	resp, err := ctrl.courseService.ModerationQueue(middleware.Actor(c))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ApproveCourse godoc
// @Summary Approve a course for the public catalog
// @Tags admin
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.CourseResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/courses/{id}/approve [post]
func (ctrl *AdminController) ApproveCourse(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	course, err := ctrl.courseService.ApproveCourse(middleware.Actor(c), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// RejectCourse godoc
// @Summary Reject a course with a reason
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param rejection body dto.RejectCourseRequest true "Rejection reason"
// @Success 200 {object} dto.CourseResponse
// @Failure 400 {object} dto.ErrorResponse "Missing reason"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/courses/{id}/reject [post]
func (ctrl *AdminController) RejectCourse(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.RejectCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	course, err := ctrl.courseService.RejectCourse(middleware.Actor(c), id, req.Reason)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// ExportUsers godoc
// @Summary Export all accounts as CSV
// @Tags admin
// @Produce text/csv
// @Success 200 {string} string "CSV file"
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/export/users.csv [get]
func (ctrl *AdminController) ExportUsers(c *gin.Context) {
	ctrl.export(c, ctrl.adminService.ExportUsersCSV)
}

// ExportCourses godoc
// @Summary Export all courses as CSV
// @Tags admin
// @Produce text/csv
// @Success 200 {string} string "CSV file"
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/export/courses.csv [get]
func (ctrl *AdminController) ExportCourses(c *gin.Context) {
	ctrl.export(c, ctrl.adminService.ExportCoursesCSV)
}

// ExportEnrollments godoc
// @Summary Export all enrollments as CSV
// @Tags admin
// @Produce text/csv
// @Success 200 {string} string "CSV file"
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /admin/export/enrollments.csv [get]
func (ctrl *AdminController) ExportEnrollments(c *gin.Context) {
	ctrl.export(c, ctrl.adminService.ExportEnrollmentsCSV)
}

func (ctrl *AdminController) export(c *gin.Context, fn func(*model.User) (string, []byte, error)) {
	filename, data, err := fn(middleware.Actor(c))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", data)
}
