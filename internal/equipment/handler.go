package equipment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"labslot/internal/api"
	"labslot/internal/auth"
	"labslot/internal/user"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB, jwtSecret string, notifier Notifier) *Handler {
	gate := user.NewService(user.NewRepository(db), jwtSecret)
	return &Handler{service: NewService(NewRepository(db), gate, notifier)}
}

// CreateEquipment godoc
// @Summary      Register equipment
// @Description  Adds a new equipment pool; all units start available.
// @Tags         equipment
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateEquipmentRequest  true  "Equipment data"
// @Success      201      {object}  EquipmentResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /equipment [post]
func (h *Handler) CreateEquipment(c *gin.Context) {
	var req CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.service.CreateEquipment(c.Request.Context(), req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListEquipment godoc
// @Summary      List equipment
// @Description  Lists equipment pools with their derived availability status.
// @Tags         equipment
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  EquipmentResponse
// @Router       /equipment [get]
func (h *Handler) ListEquipment(c *gin.Context) {
	limit, offset := api.Pagination(c)
	items, err := h.service.ListEquipment(c.Request.Context(), limit, offset)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// LendEquipment godoc
// @Summary      Lend a unit
// @Description  Lends one unit of the barcoded equipment to a student.
// @Tags         loans
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      LoanRequest  true  "Loan data"
// @Success      201      {object}  LoanResponse
// @Failure      403      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /loans [post]
func (h *Handler) LendEquipment(c *gin.Context) {
	monitorCode, ok := auth.GetUserCode(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req LoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.service.Lend(c.Request.Context(), monitorCode, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ReturnEquipment godoc
// @Summary      Return a unit
// @Description  Closes an active loan and puts its unit back in the pool.
// @Tags         loans
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Loan ID"
// @Success      200  {object}  LoanResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /loans/{id}/return [post]
func (h *Handler) ReturnEquipment(c *gin.Context) {
	monitorCode, ok := auth.GetUserCode(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	loanID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid loan id"})
		return
	}

	resp, err := h.service.Return(c.Request.Context(), monitorCode, loanID)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListActiveLoans godoc
// @Summary      List active loans
// @Description  Lists loans whose unit has not been returned yet.
// @Tags         loans
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  LoanResponse
// @Router       /loans/active [get]
func (h *Handler) ListActiveLoans(c *gin.Context) {
	limit, offset := api.Pagination(c)
	loans, err := h.service.ListActiveLoans(c.Request.Context(), limit, offset)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, loans)
}

// StudentLoanHistory godoc
// @Summary      Student loans
// @Description  Lists the loans issued to the given student code; pass active=true for open loans only.
// @Tags         loans
// @Security     BearerAuth
// @Produce      json
// @Param        code    path     string  true   "Student code"
// @Param        active  query    bool    false  "Only loans not yet returned"
// @Success      200     {array}  LoanResponse
// @Router       /loans/student/{code} [get]
func (h *Handler) StudentLoanHistory(c *gin.Context) {
	limit, offset := api.Pagination(c)
	activeOnly := c.Query("active") == "true"
	loans, err := h.service.StudentLoans(c.Request.Context(), c.Param("code"), activeOnly, limit, offset)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, loans)
}
