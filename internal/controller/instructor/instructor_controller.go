package instructor

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/zitlabs/campus/config"
	"github.com/zitlabs/campus/internal/controller"
	"github.com/zitlabs/campus/internal/dto"
	"github.com/zitlabs/campus/internal/middleware"
	"github.com/zitlabs/campus/internal/repository"
	"github.com/zitlabs/campus/internal/service"
)

type InstructorController struct {
	courseService  service.CourseService
	quizService    service.QuizService
	resultsService service.ResultsService
}

func NewInstructorController(
	courseService service.CourseService,
	quizService service.QuizService,
	resultsService service.ResultsService,
) *InstructorController {
	return &InstructorController{
		courseService:  courseService,
		quizService:    quizService,
		resultsService: resultsService,
	}
}

func (ctrl *InstructorController) RegisterRoutes(router *gin.RouterGroup, cfg *config.Config, userRepo repository.UserRepository) {
	group := router.Group("")
	group.Use(middleware.RequireAuth(cfg, userRepo))

	group.POST("/courses", ctrl.CreateCourse)
	group.PUT("/courses/:id", ctrl.UpdateCourse)
	group.DELETE("/courses/:id", ctrl.DeleteCourse)
	group.POST("/courses/:id/modules", ctrl.AddModule)
	group.POST("/courses/:id/announcements", ctrl.AddAnnouncement)
	group.POST("/courses/:id/videos", ctrl.AddVideo)
	group.POST("/courses/:id/quizzes", ctrl.CreateQuiz)
	group.GET("/instructor/dashboard", ctrl.Dashboard)

	// Results are visible to the course's instructor and admins; the
	// service enforces that.
	group.GET("/quizzes/:id/results", ctrl.QuizResults)
	group.GET("/quizzes/:id/results/export", ctrl.ExportQuizResults)
}

// CreateCourse godoc
// @Summary Create a course
// @Description New courses start in the pending moderation state.
// @Tags instructor
// @Accept json
// @Produce json
// @Param course body dto.CourseCreateRequest true "Course details"
// @Success 201 {object} dto.CourseResponse
// @Failure 403 {object} dto.ErrorResponse "Not an instructor"
// @Security BearerAuth
// @Router /courses [post]
func (ctrl *InstructorController) CreateCourse(c *gin.Context) {
	var req dto.CourseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateCourse: failed to bind request")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	course, err := ctrl.courseService.CreateCourse(middleware.Actor(c), req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// UpdateCourse godoc
// @Summary Update a course's title, description or price
// @Tags instructor
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param course body dto.CourseUpdateRequest true "Course details"
// @Success 200 {object} dto.CourseResponse
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /courses/{id} [put]
func (ctrl *InstructorController) UpdateCourse(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.CourseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	course, err := ctrl.courseService.UpdateCourse(middleware.Actor(c), id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// DeleteCourse godoc
// @Summary Delete a course and everything it owns
// @Tags instructor
// @Param id path int true "Course ID"
// @Success 204 "No Content"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /courses/{id} [delete]
func (ctrl *InstructorController) DeleteCourse(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.courseService.DeleteCourse(middleware.Actor(c), id); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddModule godoc
// @Summary Add a module to a course
// @Tags instructor
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param module body dto.ModuleCreateRequest true "Module details"
// @Success 201 {object} dto.ModuleResponse
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Security BearerAuth
// @Router /courses/{id}/modules [post]
func (ctrl *InstructorController) AddModule(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.ModuleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	module, err := ctrl.courseService.AddModule(middleware.Actor(c), id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, module)
}

// AddAnnouncement godoc
// @Summary Post an announcement to a course
// @Tags instructor
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param announcement body dto.AnnouncementCreateRequest true "Announcement"
// @Success 201 {object} dto.AnnouncementResponse
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Security BearerAuth
// @Router /courses/{id}/announcements [post]
func (ctrl *InstructorController) AddAnnouncement(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.AnnouncementCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	announcement, err := ctrl.courseService.AddAnnouncement(middleware.Actor(c), id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, announcement)
}

// AddVideo godoc
// @Summary Register video metadata for a course
// @Description Stores metadata only; the file itself lives in external storage.
// @Tags instructor
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param video body dto.VideoCreateRequest true "Video metadata"
// @Success 201 {object} dto.VideoResponse
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Security BearerAuth
// @Router /courses/{id}/videos [post]
func (ctrl *InstructorController) AddVideo(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.VideoCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	video, err := ctrl.courseService.AddVideo(middleware.Actor(c), id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, video)
}

// CreateQuiz godoc
// @Summary Create a quiz with questions and choices
// @Tags instructor
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param quiz body dto.QuizCreateRequest true "Quiz with questions"
// @Success 201 {object} dto.QuizDetailResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid quiz structure"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Security BearerAuth
// @Router /courses/{id}/quizzes [post]
func (ctrl *InstructorController) CreateQuiz(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	var req dto.QuizCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateQuiz: failed to bind request")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	quiz, err := ctrl.quizService.CreateQuiz(middleware.Actor(c), id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

// Dashboard godoc
// @Summary Instructor dashboard
// @Description The instructor's courses with enrollment counts, distinct students and recent enrollments.
// @Tags instructor
// @Produce json
// @Success 200 {object} dto.InstructorDashboardResponse
// @Failure 403 {object} dto.ErrorResponse "Not an instructor"
// @Security BearerAuth
// @Router /instructor/dashboard [get]
func (ctrl *InstructorController) Dashboard(c *gin.Context) {
	resp, err := ctrl.courseService.InstructorDashboard(middleware.Actor(c))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// QuizResults godoc
// @Summary Aggregate quiz results
// @Description Per-student scores with per-question detail, course average and top-5 leaderboard.
// @Tags results
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.QuizSummaryResponse
// @Failure 403 {object} dto.ErrorResponse "Not the course instructor or an admin"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /quizzes/{id}/results [get]
func (ctrl *InstructorController) QuizResults(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	summary, err := ctrl.resultsService.Summarize(middleware.Actor(c), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ExportQuizResults godoc
// @Summary Export quiz results as CSV
// @Tags results
// @Produce text/csv
// @Param id path int true "Quiz ID"
// @Success 200 {string} string "CSV file"
// @Failure 403 {object} dto.ErrorResponse "Not the course instructor or an admin"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /quizzes/{id}/results/export [get]
func (ctrl *InstructorController) ExportQuizResults(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	filename, data, err := ctrl.resultsService.ExportCSV(middleware.Actor(c), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", data)
}
