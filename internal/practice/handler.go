package practice

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"labslot/internal/api"
	"labslot/internal/auth"
	"labslot/internal/laboratory"
	"labslot/internal/user"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB, jwtSecret string, notifier Notifier) *Handler {
	gate := user.NewService(user.NewRepository(db), jwtSecret)
	labs := laboratory.NewService(laboratory.NewRepository(db))
	return &Handler{service: NewService(NewRepository(db), gate, labs, notifier)}
}

// SchedulePractice godoc
// @Summary      Schedule practice
// @Description  Books a laboratory time slot for the authenticated teacher.
// @Tags         practices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      ScheduleRequest  true  "Practice data"
// @Success      201      {object}  PracticeResponse
// @Failure      409      {object}  api.ErrorResponse
// @Failure      422      {object}  api.ErrorResponse
// @Router       /practices [post]
func (h *Handler) SchedulePractice(c *gin.Context) {
	teacherCode, ok := auth.GetUserCode(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.service.Schedule(c.Request.Context(), teacherCode, req)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListMyPractices godoc
// @Summary      List my practices
// @Description  Returns the authenticated teacher's bookings, newest date first.
// @Tags         practices
// @Security     BearerAuth
// @Produce      json
// @Param        page  query     int  false  "Page number (1-based)"
// @Param        size  query     int  false  "Page size"
// @Success      200   {array}   PracticeResponse
// @Router       /practices/mine [get]
func (h *Handler) ListMyPractices(c *gin.Context) {
	teacherCode, ok := auth.GetUserCode(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	limit, offset := api.Pagination(c)
	practices, err := h.service.ListMine(c.Request.Context(), teacherCode, limit, offset)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, practices)
}

// DaySchedule godoc
// @Summary      Day occupancy
// @Description  Returns the occupied time ranges of a laboratory on a date.
// @Tags         practices
// @Security     BearerAuth
// @Produce      json
// @Param        lab   query     string  false  "Laboratory name (default lab when omitted)"
// @Param        date  query     string  true   "Date (YYYY-MM-DD)"
// @Success      200   {array}   string
// @Router       /practices/day [get]
func (h *Handler) DaySchedule(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "date parameter required"})
		return
	}

	ranges, err := h.service.DaySchedule(c.Request.Context(), c.Query("lab"), date)
	if err != nil {
		api.Error(c, err)
		return
	}

	occupied := make([]string, 0, len(ranges))
	for _, r := range ranges {
		occupied = append(occupied, r.String())
	}
	c.JSON(http.StatusOK, occupied)
}
