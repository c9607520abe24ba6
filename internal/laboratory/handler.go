package laboratory

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"labslot/internal/api"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{service: NewService(NewRepository(db))}
}

// CreateLaboratory godoc
// @Summary      Create laboratory
// @Description  Registers a bookable laboratory. Admin only.
// @Tags         laboratories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateLaboratoryRequest  true  "Laboratory data"
// @Success      201      {object}  Laboratory
// @Router       /admin/laboratories [post]
func (h *Handler) CreateLaboratory(c *gin.Context) {
	var req CreateLaboratoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	lab, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, lab)
}

// ListLaboratories godoc
// @Summary      List active laboratories
// @Tags         laboratories
// @Security     BearerAuth
// @Produce      json
// @Param        page  query     int  false  "Page number (1-based)"
// @Param        size  query     int  false  "Page size"
// @Success      200   {array}   Laboratory
// @Router       /laboratories [get]
func (h *Handler) ListLaboratories(c *gin.Context) {
	limit, offset := api.Pagination(c)

	labs, err := h.service.ListActive(c.Request.Context(), limit, offset)
	if err != nil {
		api.Error(c, err)
		return
	}

	if labs == nil {
		labs = []Laboratory{}
	}
	c.JSON(http.StatusOK, labs)
}

// DeactivateLaboratory godoc
// @Summary      Deactivate laboratory
// @Description  Soft-deletes a laboratory; its booking history is preserved.
// @Tags         laboratories
// @Security     BearerAuth
// @Produce      json
// @Param        labID  path      int  true  "Laboratory ID"
// @Success      200    {object}  api.MessageResponse
// @Router       /admin/laboratories/{labID} [delete]
func (h *Handler) DeactivateLaboratory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("labID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid laboratory ID"})
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), id); err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "laboratory deactivated"})
}
