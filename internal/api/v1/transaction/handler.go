package transaction

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"openears-backend/internal/middleware"
	"openears-backend/internal/models"
	"openears-backend/internal/services"
	"openears-backend/internal/utils"
)

type Handler struct {
	users *services.UserService
}

func NewHandler(users *services.UserService) *Handler {
	return &Handler{users: users}
}

func parseFilter(c *gin.Context) services.TransactionFilter {
	var filter services.TransactionFilter
	if t := c.Query("type"); t != "" {
		txType := models.TransactionType(t)
		filter.Type = &txType
	}
	if m := c.Query("min_amount"); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			filter.MinAmount = &v
		}
	}
	if m := c.Query("max_amount"); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			filter.MaxAmount = &v
		}
	}
	return filter
}

// List returns the caller's ledger, newest first.
func (h *Handler) List(c *gin.Context) {
	u := c.MustGet(middleware.ContextUserKey).(models.User)

	txs, err := h.users.Transactions(c.Request.Context(), u.ID, parseFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load transactions"))
		return
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("OK", NewTransactionResponses(txs)))
}

// Export streams the caller's ledger as a CSV statement.
func (h *Handler) Export(c *gin.Context) {
	u := c.MustGet(middleware.ContextUserKey).(models.User)

	txs, err := h.users.Transactions(c.Request.Context(), u.ID, parseFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to load transactions"))
		return
	}

	csvData, err := services.TransactionsCSV(txs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to generate export"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="transactions.csv"`)
	c.Data(http.StatusOK, "text/csv", csvData)
}
