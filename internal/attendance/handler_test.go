package attendance

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	rows []MonthlyRow
	err  error
}

func (s *stubService) Register(ctx context.Context, monitorCode, studentCode string) (*AttendanceResponse, error) {
	return nil, s.err
}

func (s *stubService) History(ctx context.Context, studentCode string, limit, offset int) ([]AttendanceResponse, error) {
	return nil, s.err
}

func (s *stubService) List(ctx context.Context, from, to string, limit, offset int) ([]AttendanceResponse, error) {
	return nil, s.err
}

func (s *stubService) MonthlyReport(ctx context.Context, year, month, limit, offset int) ([]MonthlyRow, error) {
	return s.rows, s.err
}

func (s *stubService) MonthlySummary(ctx context.Context, year, month int) (*MonthlySummary, error) {
	return nil, s.err
}

func TestExportMonthlyReportWritesStudentRows(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := &Handler{service: &stubService{rows: []MonthlyRow{
		{StudentCode: "S-300", StudentName: "Perez", Total: 2,
			Dates: []string{"2025-03-01", "2025-03-15"}},
		{StudentCode: "S-301", StudentName: "Rios", Total: 1,
			Dates: []string{"2025-03-10"}},
	}}}

	router := gin.New()
	router.GET("/admin/attendance/report/export", handler.ExportMonthlyReport)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/admin/attendance/report/export?year=2025&month=3", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attendance_report_2025_03.csv")

	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"student_code", "student_name", "total_attendances", "dates"}, records[0])
	assert.Equal(t, []string{"S-300", "Perez", "2", "2025-03-01 2025-03-15"}, records[1])
	assert.Equal(t, []string{"S-301", "Rios", "1", "2025-03-10"}, records[2])
}
