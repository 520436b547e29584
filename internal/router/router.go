package router

import (
	"github.com/CristianAmparoSynermaxx/ExpenseTracker/internal/config"
	"github.com/CristianAmparoSynermaxx/ExpenseTracker/internal/handler"
	"github.com/CristianAmparoSynermaxx/ExpenseTracker/internal/ledger"
	"github.com/CristianAmparoSynermaxx/ExpenseTracker/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the API route table.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// uploaded avatars
	r.Static("/uploads", cfg.Upload.Dir)

	svc := ledger.New(db)

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret

	// registration and login need no token
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireHours, cfg.Upload.Dir, cfg.Upload.MaxSizeMB)
	api.POST("/users/login", authHandler.Login)
	api.POST("/users", authHandler.Register)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtSecret, db))

	userHandler := handler.NewUserHandler(db, cfg.Upload.Dir, cfg.Upload.MaxSizeMB)
	protected.GET("/users", userHandler.GetUsers)
	protected.GET("/users/:id", userHandler.GetUser)
	protected.PUT("/users/:id", userHandler.UpdateUser)
	protected.DELETE("/users/:id", userHandler.DeleteUser)

	balanceHandler := handler.NewBalanceHandler(svc)
	protected.GET("/balance/history/:id", balanceHandler.GetHistory)
	protected.GET("/balance/:id", balanceHandler.GetBalance)
	protected.POST("/balance/:id", balanceHandler.AddBalance)
	protected.PUT("/balance/:id", balanceHandler.EditBalance)

	expenseHandler := handler.NewExpenseHandler(svc)
	protected.GET("/expenses/:id", expenseHandler.GetExpenses)
	protected.POST("/expenses", expenseHandler.AddExpense)
	protected.PUT("/expenses/:id", expenseHandler.UpdateExpense)
	protected.DELETE("/expenses/:id", expenseHandler.DeleteExpense)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/expenses/csv/:id", exportHandler.ExportCSV)
	protected.GET("/export/expenses/xlsx/:id", exportHandler.ExportXLSX)

	return r
}
