package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/zitlabs/campus/internal/controller"
	"github.com/zitlabs/campus/internal/dto"
	"github.com/zitlabs/campus/internal/model"
	"github.com/zitlabs/campus/internal/service"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

func (ctrl *AuthController) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/auth")
	group.POST("/register", ctrl.Register)
	group.POST("/login", ctrl.Login)
}

// Register godoc
// @Summary Register a new account
// @Description Create a student or instructor account. Admin accounts are provisioned separately.
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body dto.RegisterRequest true "Account details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or weak password"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Register: failed to bind request")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	role := model.Role(req.Role)
	if req.Role == "" {
		role = model.RoleStudent
	}
	resp, err := ctrl.authService.Register(req, role)
	if err != nil {
		status := controller.StatusFromError(err)
		if status == http.StatusInternalServerError {
			// weak password and malformed email come back as plain errors
			status = http.StatusBadRequest
		}
		c.JSON(status, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in
// @Description Exchange email and password for a signed token.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Bad credentials"
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.authService.Login(req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
