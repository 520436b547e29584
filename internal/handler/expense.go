package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/CristianAmparoSynermaxx/ExpenseTracker/internal/ledger"
	"github.com/CristianAmparoSynermaxx/ExpenseTracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ExpenseHandler exposes the expense CRUD endpoints. Every mutation goes
// through the ledger service so the balance and history stay consistent.
type ExpenseHandler struct {
	Ledger *ledger.Service
}

func NewExpenseHandler(svc *ledger.Service) *ExpenseHandler {
	return &ExpenseHandler{Ledger: svc}
}

type expenseReq struct {
	UserID   uint            `json:"userId"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// validate runs the field presence checks before any transaction is opened.
func (r *expenseReq) validate(c *gin.Context) bool {
	if r.UserID == 0 {
		util.Error(c, http.StatusBadRequest, "Not Authorized")
		return false
	}
	if strings.TrimSpace(r.Title) == "" {
		util.Error(c, http.StatusBadRequest, "Please fill out the title field")
		return false
	}
	if r.Amount.IsZero() {
		util.Error(c, http.StatusBadRequest, "Please fill out the amount field")
		return false
	}
	if err := util.ValidateAmount(r.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, "Please enter a valid amount")
		return false
	}
	if err := util.ValidateCategory(strings.TrimSpace(r.Category)); err != nil {
		util.Error(c, http.StatusBadRequest, "Please select a category")
		return false
	}
	return true
}

// ---------- list ----------

func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	page, limit, ok := parsePaging(c)
	if !ok {
		return
	}
	filterBy := strings.TrimSpace(c.Query("filterBy"))

	expenses, total, sum, err := h.Ledger.ListExpenses(userID, page, limit, filterBy)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "An error occurred while fetching expenses")
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"data":        expenses,
		"pagination":  paginationBody(total, page, limit),
		"totalAmount": sum,
	})
}

// ---------- add ----------

func (h *ExpenseHandler) AddExpense(c *gin.Context) {
	var req expenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.validate(c) {
		return
	}

	newBalance, err := h.Ledger.AddExpense(req.UserID, req.Title, req.Category, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidArgument):
			util.Error(c, http.StatusBadRequest, "Please fill out all the fields")
		case errors.Is(err, ledger.ErrBalanceNotFound):
			util.Error(c, http.StatusNotFound, "Balance not found for the user")
		default:
			util.Error(c, http.StatusInternalServerError,
				"An error occurred while adding expense and updating balance")
		}
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"message":     "Expense added and balance updated successfully",
		"new_balance": newBalance,
	})
}

// ---------- update ----------

func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	expenseID, err := strconv.Atoi(c.Param("id"))
	if err != nil || expenseID <= 0 {
		util.Error(c, http.StatusBadRequest, "Expense ID is required")
		return
	}

	var req expenseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.validate(c) {
		return
	}

	if _, err := h.Ledger.UpdateExpense(uint(expenseID), req.UserID, req.Title, req.Category, req.Amount); err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidArgument):
			util.Error(c, http.StatusBadRequest, "Please fill out all the fields")
		case errors.Is(err, ledger.ErrBalanceNotFound):
			util.Error(c, http.StatusNotFound, "Balance not found for the user")
		case errors.Is(err, ledger.ErrNotFound):
			util.Error(c, http.StatusNotFound, "Expense not found")
		default:
			util.Error(c, http.StatusInternalServerError,
				"An error occurred while updating the expense and adjusting balance")
		}
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"message": "Expense updated and balance adjusted successfully",
	})
}

// ---------- delete ----------

func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	expenseID, err := strconv.Atoi(c.Param("id"))
	if err != nil || expenseID <= 0 {
		util.Error(c, http.StatusBadRequest, "Expense ID is required")
		return
	}

	newBalance, err := h.Ledger.DeleteExpense(uint(expenseID))
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrBalanceNotFound):
			util.Error(c, http.StatusNotFound, "Balance not found for the user")
		case errors.Is(err, ledger.ErrNotFound):
			util.Error(c, http.StatusNotFound, "Expense not found")
		default:
			util.Error(c, http.StatusInternalServerError,
				"An error occurred while deleting the expense and updating balance")
		}
		return
	}

	util.Success(c, http.StatusOK, util.Response{
		"message":     "Expense deleted and balance updated successfully",
		"new_balance": newBalance,
	})
}
