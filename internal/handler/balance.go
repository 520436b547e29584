package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/CristianAmparoSynermaxx/ExpenseTracker/internal/ledger"
	"github.com/CristianAmparoSynermaxx/ExpenseTracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BalanceHandler exposes the balance and history endpoints on top of the
// ledger service.
type BalanceHandler struct {
	Ledger *ledger.Service
}

func NewBalanceHandler(svc *ledger.Service) *BalanceHandler {
	return &BalanceHandler{Ledger: svc}
}

// parseUserID reads the :id route param.
func parseUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "User ID is required")
		return 0, false
	}
	return uint(id), true
}

// ---------- read balance ----------

func (h *BalanceHandler) GetBalance(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	amount, err := h.Ledger.GetBalance(userID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "Balance not found for the given user ID")
			return
		}
		util.Error(c, http.StatusInternalServerError, "An error occurred while retrieving the balance")
		return
	}

	util.Success(c, http.StatusOK, util.Response{"balance": amount})
}

// ---------- add to balance ----------

type addBalanceReq struct {
	AddedBalance decimal.Decimal `json:"added_balance"`
}

func (h *BalanceHandler) AddBalance(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req addBalanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Valid added balance is required")
		return
	}

	newBalance, err := h.Ledger.AdjustBalance(userID, req.AddedBalance)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidArgument) {
			util.Error(c, http.StatusBadRequest, "Valid added balance is required")
			return
		}
		util.Error(c, http.StatusInternalServerError,
			"An error occurred while updating the balance and recording the history")
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"message":     "Balance updated and history recorded successfully",
		"new_balance": newBalance,
	})
}

// ---------- overwrite balance ----------

type editBalanceReq struct {
	NewBalance decimal.Decimal `json:"new_balance"`
}

func (h *BalanceHandler) EditBalance(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req editBalanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Valid new balance amount is required")
		return
	}

	newBalance, err := h.Ledger.SetBalance(userID, req.NewBalance)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidArgument):
			util.Error(c, http.StatusBadRequest, "Valid new balance amount is required")
		case errors.Is(err, ledger.ErrNotFound):
			util.Error(c, http.StatusNotFound, "Balance not found for the given user ID")
		default:
			util.Error(c, http.StatusInternalServerError,
				"An error occurred while updating the balance and recording the history")
		}
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"message":     "Balance updated and history recorded successfully",
		"new_balance": newBalance,
	})
}

// ---------- history ----------

func (h *BalanceHandler) GetHistory(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	page, limit, ok := parsePaging(c)
	if !ok {
		return
	}

	entries, total, err := h.Ledger.ListHistory(userID, page, limit)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidArgument) {
			util.Error(c, http.StatusBadRequest, "Invalid page number")
			return
		}
		util.Error(c, http.StatusInternalServerError, "An error occurred while retrieving the history")
		return
	}

	if total == 0 {
		util.Error(c, http.StatusNotFound, "No history found for the given user ID")
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"history":    entries,
		"pagination": paginationBody(total, page, limit),
	})
}

// ---------- shared paging helpers ----------

// parsePaging reads the ?page and ?limit query params.
func parsePaging(c *gin.Context) (page, limit int, ok bool) {
	var err error

	page, err = strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page <= 0 {
		util.Error(c, http.StatusBadRequest, "Invalid page number")
		return 0, 0, false
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		util.Error(c, http.StatusBadRequest, "Invalid limit")
		return 0, 0, false
	}

	return page, limit, true
}

func paginationBody(total int64, page, limit int) gin.H {
	totalPages := (total + int64(limit) - 1) / int64(limit)
	return gin.H{
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": totalPages,
	}
}
