package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"labslot/internal/api"
	"labslot/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB, jwtSecret string) *Handler {
	return &Handler{service: NewService(NewRepository(db), jwtSecret)}
}

// Register godoc
// @Summary      Register user
// @Description  Creates a user with an institutional code and role. Admin only.
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "User data"
// @Success      201      {object}  User
// @Router       /admin/users [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, u)
}

// Login godoc
// @Summary      Login
// @Description  Exchanges code and password for a JWT.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      LoginRequest  true  "Credentials"
// @Success      200      {object}  LoginResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		// Do not reveal whether the code or the password was wrong.
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMe godoc
// @Summary      Current user
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  User
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	code, ok := auth.GetUserCode(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	u, err := h.service.Resolve(c.Request.Context(), code)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, u)
}
