package shift

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

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

// CheckIn godoc
// @Summary      Check in
// @Description  Opens a shift for the authenticated monitor.
// @Tags         shifts
// @Security     BearerAuth
// @Produce      json
// @Success      201  {object}  ShiftResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /shifts/check-in [post]
func (h *Handler) CheckIn(c *gin.Context) {
	monitorCode, ok := auth.GetUserCode(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	resp, err := h.service.CheckIn(c.Request.Context(), monitorCode)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// CheckOut godoc
// @Summary      Check out
// @Description  Closes the authenticated monitor's open shift.
// @Tags         shifts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  ShiftResponse
// @Failure      409  {object}  api.ErrorResponse
// @Failure      422  {object}  api.ErrorResponse
// @Router       /shifts/check-out [post]
func (h *Handler) CheckOut(c *gin.Context) {
	monitorCode, ok := auth.GetUserCode(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	resp, err := h.service.CheckOut(c.Request.Context(), monitorCode)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ReportAll godoc
// @Summary      Shift report for all monitors
// @Description  Worked days and hours of every monitor in a date range, paginated across monitors.
// @Tags         shifts
// @Security     BearerAuth
// @Produce      json
// @Param        from  query     string  true  "Range start (YYYY-MM-DD)"
// @Param        to    query     string  true  "Range end (YYYY-MM-DD)"
// @Param        page  query     int     false "Page number (1-based)"
// @Param        size  query     int     false "Page size"
// @Success      200   {array}   ReportResponse
// @Router       /shifts/report [get]
func (h *Handler) ReportAll(c *gin.Context) {
	limit, offset := api.Pagination(c)
	reports, err := h.service.ReportAll(c.Request.Context(),
		c.Query("from"), c.Query("to"), limit, offset)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, reports)
}

// ExportReportAll godoc
// @Summary      Export shift report for all monitors
// @Description  Same report as CSV, one row per monitor.
// @Tags         shifts
// @Security     BearerAuth
// @Produce      text/csv
// @Param        from  query  string  true  "Range start (YYYY-MM-DD)"
// @Param        to    query  string  true  "Range end (YYYY-MM-DD)"
// @Success      200
// @Router       /shifts/report/export [get]
func (h *Handler) ExportReportAll(c *gin.Context) {
	limit, offset := api.Pagination(c)
	reports, err := h.service.ReportAll(c.Request.Context(),
		c.Query("from"), c.Query("to"), limit, offset)
	if err != nil {
		api.Error(c, err)
		return
	}

	filename := fmt.Sprintf("monitor_report_%s_%s.csv", c.Query("from"), c.Query("to"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"monitor_code", "monitor_name", "days_worked", "hours_worked"})
	for _, r := range reports {
		_ = w.Write([]string{
			r.MonitorCode,
			r.MonitorName,
			strconv.Itoa(r.DaysWorked),
			strconv.FormatFloat(r.TotalHours, 'f', 2, 64),
		})
	}
	w.Flush()
}

// Report godoc
// @Summary      Shift report
// @Description  Worked days and hours of a monitor in a date range.
// @Tags         shifts
// @Security     BearerAuth
// @Produce      json
// @Param        code  path      string  true  "Monitor code"
// @Param        from  query     string  true  "Range start (YYYY-MM-DD)"
// @Param        to    query     string  true  "Range end (YYYY-MM-DD)"
// @Success      200   {object}  ReportResponse
// @Failure      404   {object}  api.ErrorResponse
// @Router       /shifts/report/{code} [get]
func (h *Handler) Report(c *gin.Context) {
	limit, offset := api.Pagination(c)
	resp, err := h.service.Report(c.Request.Context(),
		c.Param("code"), c.Query("from"), c.Query("to"), limit, offset)
	if err != nil {
		api.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ExportReport godoc
// @Summary      Export shift report
// @Description  Same report as CSV, one row per shift.
// @Tags         shifts
// @Security     BearerAuth
// @Produce      text/csv
// @Param        code  path   string  true  "Monitor code"
// @Param        from  query  string  true  "Range start (YYYY-MM-DD)"
// @Param        to    query  string  true  "Range end (YYYY-MM-DD)"
// @Success      200
// @Router       /shifts/report/{code}/export [get]
func (h *Handler) ExportReport(c *gin.Context) {
	limit, offset := api.Pagination(c)
	report, err := h.service.Report(c.Request.Context(),
		c.Param("code"), c.Query("from"), c.Query("to"), limit, offset)
	if err != nil {
		api.Error(c, err)
		return
	}

	filename := fmt.Sprintf("shifts_%s_%s_%s.csv",
		report.MonitorCode, c.Query("from"), c.Query("to"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"monitor_code", "date", "check_in", "check_out", "hours_worked", "status"})
	for _, s := range report.Shifts {
		checkOut := ""
		if s.CheckOut != nil {
			checkOut = s.CheckOut.Format(time.RFC3339)
		}
		_ = w.Write([]string{
			s.MonitorCode,
			s.Date,
			s.CheckIn.Format(time.RFC3339),
			checkOut,
			strconv.FormatFloat(s.HoursWorked, 'f', 2, 64),
			s.Status,
		})
	}
	w.Flush()
}
