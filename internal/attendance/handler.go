package attendance

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"labslot/internal/api"
	"labslot/internal/auth"
	"labslot/internal/user"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB, jwtSecret string) *Handler {
	gate := user.NewService(user.NewRepository(db), jwtSecret)
	return &Handler{service: NewService(NewRepository(db), gate)}
}

// Register godoc
// @Summary      Register attendance
// @Description  Records a student's lab entry for today, scanned by the authenticated monitor.
// @Tags         attendance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      RegisterRequest  true  "Student to register"
// @Success      201      {object}  AttendanceResponse
// @Failure      409      {object}  api.ErrorResponse
// @Failure      422      {object}  api.ErrorResponse
// @Router       /attendance [post]
func (h *Handler) Register(c *gin.Context) {
	monitorCode, ok := auth.GetUserCode(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.service.Register(c.Request.Context(), monitorCode, req.StudentCode)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// History godoc
// @Summary      My attendance history
// @Description  Lists the authenticated user's own attendance records, newest first.
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  AttendanceResponse
// @Router       /attendance/history [get]
func (h *Handler) History(c *gin.Context) {
	code, ok := auth.GetUserCode(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	limit, offset := api.Pagination(c)
	responses, err := h.service.History(c.Request.Context(), code, limit, offset)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, responses)
}

// List godoc
// @Summary      List attendance records
// @Description  Attendance records in a date range, newest first.
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Param        from  query  string  true  "Range start (YYYY-MM-DD)"
// @Param        to    query  string  true  "Range end (YYYY-MM-DD)"
// @Success      200   {array}  AttendanceResponse
// @Router       /attendance [get]
func (h *Handler) List(c *gin.Context) {
	limit, offset := api.Pagination(c)
	responses, err := h.service.List(c.Request.Context(),
		c.Query("from"), c.Query("to"), limit, offset)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, responses)
}

// MonthlyReport godoc
// @Summary      Monthly attendance report
// @Description  Per-student attendance counts and dates for one month, paginated across students.
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Param        year   query  int  true  "Year"
// @Param        month  query  int  true  "Month (1-12)"
// @Success      200    {array}  MonthlyRow
// @Router       /attendance/report [get]
func (h *Handler) MonthlyReport(c *gin.Context) {
	year, month := yearMonth(c)
	limit, offset := api.Pagination(c)
	rows, err := h.service.MonthlyReport(c.Request.Context(), year, month, limit, offset)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// MonthlySummary godoc
// @Summary      Monthly attendance summary
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Param        year   query  int  true  "Year"
// @Param        month  query  int  true  "Month (1-12)"
// @Success      200    {object}  MonthlySummary
// @Router       /attendance/report/summary [get]
func (h *Handler) MonthlySummary(c *gin.Context) {
	year, month := yearMonth(c)
	summary, err := h.service.MonthlySummary(c.Request.Context(), year, month)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ExportMonthlyReport godoc
// @Summary      Export monthly attendance report
// @Description  Same report as CSV, one row per student.
// @Tags         attendance
// @Security     BearerAuth
// @Produce      text/csv
// @Param        year   query  int  true  "Year"
// @Param        month  query  int  true  "Month (1-12)"
// @Success      200
// @Router       /attendance/report/export [get]
func (h *Handler) ExportMonthlyReport(c *gin.Context) {
	year, month := yearMonth(c)
	limit, offset := api.Pagination(c)
	rows, err := h.service.MonthlyReport(c.Request.Context(), year, month, limit, offset)
	if err != nil {
		api.Error(c, err)
		return
	}

	filename := fmt.Sprintf("attendance_report_%d_%02d.csv", year, month)
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"student_code", "student_name", "total_attendances", "dates"})
	for _, r := range rows {
		_ = w.Write([]string{
			r.StudentCode,
			r.StudentName,
			strconv.Itoa(r.Total),
			strings.Join(r.Dates, " "),
		})
	}
	w.Flush()
}

func yearMonth(c *gin.Context) (int, int) {
	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))
	return year, month
}
