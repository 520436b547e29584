package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/CristianAmparoSynermaxx/ExpenseTracker/internal/models"
	"github.com/CristianAmparoSynermaxx/ExpenseTracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler serves CSV/XLSX downloads of a user's expenses.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

func (h *ExportHandler) userExpenses(c *gin.Context) ([]models.Expense, bool) {
	userID, ok := parseUserID(c)
	if !ok {
		return nil, false
	}

	var expenses []models.Expense
	if err := h.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&expenses).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "An error occurred while fetching expenses")
		return nil, false
	}
	return expenses, true
}

// ExportCSV writes the user's expenses as a CSV attachment.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	expenses, ok := h.userExpenses(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"expenses_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"Title", "Category", "Amount", "Date"})
	for _, e := range expenses {
		writer.Write([]string{
			e.Title,
			e.Category,
			e.Amount.StringFixed(2),
			e.CreatedAt.Format("2006-01-02"),
		})
	}
}

// ExportXLSX writes the user's expenses as an XLSX attachment.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	expenses, ok := h.userExpenses(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	sheetName := "Expenses"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "An error occurred while exporting expenses")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Title", "Category", "Amount", "Date"}
	for i, name := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, name)
	}

	for idx, e := range expenses {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), e.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), e.Amount.StringFixed(2))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.CreatedAt.Format("2006-01-02"))
	}

	f.SetColWidth(sheetName, "A", "A", 30)
	f.SetColWidth(sheetName, "B", "B", 15)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"expenses_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, "An error occurred while exporting expenses")
	}
}
