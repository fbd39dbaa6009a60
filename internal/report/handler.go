package report

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Arulthas05/gym-management-backend/internal/api"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Monthly serves the aggregate report for a month given as ?month=YYYY-MM,
// defaulting to the current month.
func (h *Handler) Monthly(c *gin.Context) {
	month := time.Now()
	if q := c.Query("month"); q != "" {
		parsed, err := time.Parse("2006-01", q)
		if err != nil {
			api.Fail(c, http.StatusBadRequest, "Invalid month, expected YYYY-MM")
			return
		}
		month = parsed
	}

	report, err := h.repo.MonthlyReport(c.Request.Context(), month)
	if err != nil {
		api.Fail(c, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	api.OK(c, http.StatusOK, "", report)
}
