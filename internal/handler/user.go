package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/CristianAmparoSynermaxx/ExpenseTracker/internal/models"
	"github.com/CristianAmparoSynermaxx/ExpenseTracker/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserHandler serves the user management endpoints.
type UserHandler struct {
	DB        *gorm.DB
	UploadDir string
	MaxUpload int64 // MB
}

func NewUserHandler(db *gorm.DB, uploadDir string, maxUploadMB int64) *UserHandler {
	return &UserHandler{DB: db, UploadDir: uploadDir, MaxUpload: maxUploadMB}
}

// ---------- list ----------

// GetUsers lists users with paging and an optional name filter.
func (h *UserHandler) GetUsers(c *gin.Context) {
	page, limit, ok := parsePaging(c)
	if !ok {
		return
	}
	filterBy := strings.TrimSpace(c.Query("filterBy"))

	base := h.DB.Model(&models.User{})
	if filterBy != "" {
		base = base.Where("name LIKE ?", "%"+filterBy+"%")
	}

	var users []models.User
	if err := base.
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&users).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "An error occurred while fetching user data")
		return
	}

	c.JSON(http.StatusOK, users)
}

// ---------- detail ----------

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "User not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "An error occurred while fetching user data")
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

// ---------- update ----------

// UpdateUser rewrites a user's profile from the same multipart form the
// registration uses. A new image is optional; the stored one is kept when
// the form carries none.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, "User not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "An error occurred while updating the user")
		}
		return
	}

	fname := strings.TrimSpace(c.PostForm("fname"))
	lname := strings.TrimSpace(c.PostForm("lname"))
	username := strings.ToLower(strings.TrimSpace(c.PostForm("username")))
	password := c.PostForm("password")
	password2 := c.PostForm("password2")

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

	avatar := user.Avatar
	newAvatar := false
	if file, err := c.FormFile("image"); err == nil {
		avatar, err = saveAvatar(c, file, h.UploadDir, h.MaxUpload)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "Please upload a valid image")
			return
		}
		newAvatar = true
	}
	if avatar == "" {
		util.Error(c, http.StatusBadRequest, "Please upload an image")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "An error occurred while updating the user")
		return
	}

	user.Name = fname + " " + lname
	user.Username = username
	user.PasswordHash = string(hash)
	user.Avatar = avatar

	if err := h.DB.Save(&user).Error; err != nil {
		if newAvatar {
			_ = os.Remove(filepath.Join(h.UploadDir, avatar))
		}
		if isUniqueViolation(err) {
			util.Error(c, http.StatusBadRequest, "User Already Exists")
			return
		}
		util.Error(c, http.StatusInternalServerError, "An error occurred while updating the user")
		return
	}

	util.Success(c, http.StatusOK, util.Response{"message": "Updated Successfully"})
}

// ---------- delete ----------

// DeleteUser removes a user together with the dependent balance, expense
// and history rows in one transaction (owned cascade).
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "User ID is required")
		return
	}
	userID := uint(id)

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Expense{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.HistoryEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Balance{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "Error deleting user")
		return
	}

	util.Success(c, http.StatusOK, util.Response{"message": "User Deleted"})
}
