package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CristianAmparoSynermaxx/ExpenseTracker/internal/models"
	"github.com/CristianAmparoSynermaxx/ExpenseTracker/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret string
	TokenTTL  time.Duration
	UploadDir string
	MaxUpload int64 // MB
}

func NewAuthHandler(db *gorm.DB, jwtSecret string, ttlHours int, uploadDir string, maxUploadMB int64) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		DB:        db,
		JWTSecret: jwtSecret,
		TokenTTL:  time.Duration(ttlHours) * time.Hour,
		UploadDir: uploadDir,
		MaxUpload: maxUploadMB,
	}
}

// ---------- register ----------

// Register creates a user from a multipart form: fname, lname, username,
// password, password2 and an avatar image file.
func (h *AuthHandler) Register(c *gin.Context) {
	fname := strings.TrimSpace(c.PostForm("fname"))
	lname := strings.TrimSpace(c.PostForm("lname"))
	// handles are stored lowercase so the unique index is case-insensitive
	username := strings.ToLower(strings.TrimSpace(c.PostForm("username")))
	password := c.PostForm("password")
	password2 := c.PostForm("password2")

	file, err := c.FormFile("image")
	if err != nil {
		util.Error(c, http.StatusBadRequest, "Please upload an image")
		return
	}
	if fname == "" {
		util.Error(c, http.StatusBadRequest, "Please provide the first name")
		return
	}
	if lname == "" {
		util.Error(c, http.StatusBadRequest, "Please provide the last name")
		return
	}
	if err := util.ValidateUsername(username); err != nil {
		util.Error(c, http.StatusBadRequest, "Please provide the username")
		return
	}
	if password == "" {
		util.Error(c, http.StatusBadRequest, "Please provide the password")
		return
	}
	if password2 == "" {
		util.Error(c, http.StatusBadRequest, "Please retype your password")
		return
	}
	if password != password2 {
		util.Error(c, http.StatusBadRequest, "Passwords do not match")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "An error occurred while registering the user")
		return
	}

	avatar, err := saveAvatar(c, file, h.UploadDir, h.MaxUpload)
	if err != nil {
		util.Error(c, http.StatusBadRequest, "Please upload a valid image")
		return
	}

	user := models.User{
		Name:         fname + " " + lname,
		Username:     username,
		PasswordHash: string(hash),
		Avatar:       avatar,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		// the avatar is already on disk; do not leave it orphaned
		_ = os.Remove(filepath.Join(h.UploadDir, avatar))
		if isUniqueViolation(err) {
			util.Error(c, http.StatusBadRequest, "User Already Exists")
			return
		}
		util.Error(c, http.StatusInternalServerError, "An error occurred while registering the user")
		return
	}

	util.Success(c, http.StatusOK, util.Response{"message": "Registration Successful"})
}

// isUniqueViolation reports whether err is the sqlite unique-index error.
// Check-then-insert would race between concurrent registrations, so the
// index itself is the authority on duplicate handles.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ---------- login ----------

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "Please provide both username and password")
		return
	}

	var user models.User
	if err := h.DB.Where("LOWER(username) = LOWER(?)", strings.TrimSpace(req.Username)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusBadRequest, "Incorrect email or password")
		} else {
			util.Error(c, http.StatusInternalServerError, "An error occurred during login")
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		util.Error(c, http.StatusBadRequest, "Incorrect email or password")
		return
	}

	token, err := util.GenerateToken(h.JWTSecret, user.ID, user.Username, h.TokenTTL)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "An error occurred during login")
		return
	}

	util.Success(c, http.StatusCreated, util.Response{
		"user":  user,
		"token": token,
	})
}
