package student

import (
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

type StudentController struct {
	courseService     service.CourseService
	enrollmentService service.EnrollmentService
	progressService   service.ProgressService
	quizService       service.QuizService
}

func NewStudentController(
	courseService service.CourseService,
	enrollmentService service.EnrollmentService,
	progressService service.ProgressService,
	quizService service.QuizService,
) *StudentController {
	return &StudentController{
		courseService:     courseService,
		enrollmentService: enrollmentService,
		progressService:   progressService,
		quizService:       quizService,
	}
}

func (ctrl *StudentController) RegisterRoutes(router *gin.RouterGroup, cfg *config.Config, userRepo repository.UserRepository) {
	// Catalog browsing and the payment callback are unauthenticated; the
	// callback identifies the student from the verified transaction.
	router.GET("/courses", ctrl.ListCourses)
	router.GET("/courses/:id", middleware.OptionalAuth(cfg, userRepo), ctrl.GetCourse)
	router.GET("/payments/verify", ctrl.VerifyPayment)

	authed := router.Group("")
	authed.Use(middleware.RequireAuth(cfg, userRepo))
	authed.POST("/courses/:id/enroll", ctrl.Enroll)
	authed.POST("/courses/:id/pay", ctrl.StartPayment)
	authed.GET("/student/dashboard", ctrl.Dashboard)
	authed.POST("/modules/:id/complete", ctrl.MarkModuleComplete)
	authed.GET("/quizzes/:id", ctrl.GetQuiz)
	authed.POST("/quizzes/:id/questions/:question_id/answer", ctrl.SubmitAnswer)
}

// ListCourses godoc
// @Summary List approved courses
// @Tags courses
// @Produce json
// @Success 200 {array} dto.CourseResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /courses [get]
func (ctrl *StudentController) ListCourses(c *gin.Context) {
	courses, err := ctrl.courseService.ListApproved()
	if err != nil {
		log.Error().Err(err).Msg("ListCourses: service error")
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// GetCourse godoc
// @Summary Get course detail with modules, quizzes and videos
// @Description With a Bearer token from a student, the response also carries their enrolled flag.
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.CourseDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id} [get]
func (ctrl *StudentController) GetCourse(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	detail, err := ctrl.courseService.CourseDetail(id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if actor := middleware.Actor(c); actor != nil && actor.Role == model.RoleStudent {
		enrolled, err := ctrl.enrollmentService.IsEnrolled(actor.ID, id)
		if err != nil {
			log.Error().Err(err).Uint("studentID", actor.ID).Uint("courseID", id).Msg("GetCourse: enrollment lookup failed")
			controller.RespondError(c, err)
			return
		}
		detail.Enrolled = &enrolled
	}
	c.JSON(http.StatusOK, detail)
}

// Enroll godoc
// @Summary Enroll in a free course
// @Tags enrollments
// @Produce json
// @Param id path int true "Course ID"
// @Success 201 {object} dto.EnrollmentResponse
// @Failure 403 {object} dto.ErrorResponse "Not a student"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Failure 422 {object} dto.ErrorResponse "Course has no modules"
// @Security BearerAuth
// @Router /courses/{id}/enroll [post]
func (ctrl *StudentController) Enroll(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	enrollment, err := ctrl.enrollmentService.Enroll(middleware.Actor(c), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

// StartPayment godoc
// @Summary Start checkout for a course
// @Description Free courses enroll immediately; paid courses return a gateway checkout URL.
// @Tags enrollments
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.StartPaymentResponse "Checkout opened"
// @Success 201 {object} dto.EnrollmentResponse "Free course, enrolled directly"
// @Failure 402 {object} dto.ErrorResponse "Gateway unavailable"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Security BearerAuth
// @Router /courses/{id}/pay [post]
func (ctrl *StudentController) StartPayment(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	checkout, enrollment, err := ctrl.enrollmentService.StartPayment(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if enrollment != nil {
		c.JSON(http.StatusCreated, enrollment)
		return
	}
	c.JSON(http.StatusOK, checkout)
}

// VerifyPayment godoc
// @Summary Payment gateway callback
// @Description Verifies the transaction reference with the gateway and enrolls the paying student.
// @Tags enrollments
// @Produce json
// @Param reference query string true "Transaction reference"
// @Success 200 {object} dto.EnrollmentResponse
// @Failure 402 {object} dto.ErrorResponse "Transaction not successful"
// @Failure 422 {object} dto.ErrorResponse "Payer does not match an account"
// @Router /payments/verify [get]
func (ctrl *StudentController) VerifyPayment(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "missing reference"})
		return
	}
	enrollment, err := ctrl.enrollmentService.EnrollViaPayment(c.Request.Context(), reference)
	if err != nil {
		log.Warn().Err(err).Str("reference", reference).Msg("VerifyPayment: enrollment failed")
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

// Dashboard godoc
// @Summary Student dashboard
// @Description Enrolled courses with percent complete, plus recent announcements.
// @Tags students
// @Produce json
// @Success 200 {object} dto.StudentDashboardResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /student/dashboard [get]
func (ctrl *StudentController) Dashboard(c *gin.Context) {
	resp, err := ctrl.enrollmentService.Dashboard(middleware.Actor(c))
	if err != nil {
		log.Error().Err(err).Msg("Dashboard: service error")
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarkModuleComplete godoc
// @Summary Mark a module complete
// @Description Idempotent; repeating the call acknowledges the existing completion.
// @Tags progress
// @Produce json
// @Param id path int true "Module ID"
// @Success 200 {object} dto.MarkCompleteResponse
// @Failure 403 {object} dto.ErrorResponse "Not enrolled in the module's course"
// @Failure 404 {object} dto.ErrorResponse "Module not found"
// @Security BearerAuth
// @Router /modules/{id}/complete [post]
func (ctrl *StudentController) MarkModuleComplete(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.progressService.MarkComplete(middleware.Actor(c), id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetQuiz godoc
// @Summary Get a quiz with questions and choices
// @Description Choices never disclose which one is correct.
// @Tags quizzes
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.QuizDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /quizzes/{id} [get]
func (ctrl *StudentController) GetQuiz(c *gin.Context) {
	id, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	quiz, err := ctrl.quizService.GetQuiz(id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// SubmitAnswer godoc
// @Summary Submit an answer to a quiz question
// @Description Scores the choice immediately. Resubmitting replaces the stored answer.
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Param question_id path int true "Question ID"
// @Param answer body dto.SubmitAnswerRequest true "Selected choice"
// @Success 200 {object} dto.SubmitAnswerResponse
// @Failure 400 {object} dto.ErrorResponse "Choice does not belong to the question"
// @Failure 404 {object} dto.ErrorResponse "Question not in this quiz"
// @Security BearerAuth
// @Router /quizzes/{id}/questions/{question_id}/answer [post]
func (ctrl *StudentController) SubmitAnswer(c *gin.Context) {
	quizID, ok := controller.ParseID(c, "id")
	if !ok {
		return
	}
	questionID, ok := controller.ParseID(c, "question_id")
	if !ok {
		return
	}
	var req dto.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.quizService.SubmitAnswer(middleware.Actor(c), quizID, questionID, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
