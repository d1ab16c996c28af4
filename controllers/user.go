package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"Meeple/middleware"
	models "Meeple/models/postgres"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// @Summary Creates a new user account
// @Description Registers a user and returns their id plus a bearer token
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} object{user_id=string,token=string}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /signup [post]
func SignUp(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
			FullName string `json:"full_name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		// Minimum input sanitizing
		if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" ||
			strings.TrimSpace(req.Password) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parameters can't be empty"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error hashing password"})
			return
		}

		user := models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: string(hash),
			FullName:     req.FullName,
		}
		if err := db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Username or email already taken"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating user"})
			return
		}

		token, err := middleware.IssueToken(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error issuing token"})
			return
		}
		if err := middleware.SetSessionUser(c, user.ID); err != nil {
			log.Printf("Error saving session: %v", err)
		}

		c.JSON(http.StatusOK, gin.H{"user_id": user.ID, "token": token})
	}
}

// @Summary Logs a user in
// @Description Validates credentials, sets the session cookie and returns a bearer token
// @Tags users
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} object{user_id=string,token=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /login [post]
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.PostForm("email")
		password := c.PostForm("password")

		// Minimum input sanitizing
		if strings.Trim(email, " ") == "" || strings.Trim(password, " ") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parameters can't be empty"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password!"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password!"})
			return
		}

		token, err := middleware.IssueToken(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error issuing token"})
			return
		}
		if err := middleware.SetSessionUser(c, user.ID); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No session!"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user_id": user.ID, "token": token})
	}
}

// @Summary Logs the user out
// @Description Deletes the session associated with the user
// @Tags users
// @Produce json
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /auth/logout [delete]
func Logout(c *gin.Context) {
	if err := middleware.ClearSessionUser(c); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// @Summary Public info of one user
// @Description Returns the public profile of a user by id
// @Tags users
// @Produce json
// @Param user_id path string true "Id of the user"
// @Success 200 {object} object{user_id=string,username=string,full_name=string,icon=integer}
// @Failure 404 {object} object{error=string}
// @Router /users/{user_id} [get]
func GetUserPublicInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")

		var user models.User
		if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching user"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user_id":   user.ID,
			"username":  user.Username,
			"full_name": user.FullName,
			"icon":      user.UserIcon,
		})
	}
}

// @Summary Lists all users
// @Description Returns the public profiles of all users (for the invite picker)
// @Tags users
// @Produce json
// @Success 200 {array} object{user_id=string,username=string,icon=integer}
// @Failure 500 {object} object{error=string}
// @Router /allusers [get]
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching users"})
			return
		}

		simplified := make([]gin.H, len(users))
		for i, user := range users {
			simplified[i] = gin.H{
				"user_id":  user.ID,
				"username": user.Username,
				"icon":     user.UserIcon,
			}
		}
		c.JSON(http.StatusOK, simplified)
	}
}

// @Summary Updates the user's profile
// @Description Merges the provided fields into the authenticated user's profile
// @Tags users
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/update [patch]
// @Security ApiKeyAuth
func UpdateUserInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.CurrentUserID(c)

		var req struct {
			FullName *string `json:"full_name"`
			Icon     *int    `json:"icon"`
			FcmToken *string `json:"fcm_token"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		updates := map[string]interface{}{}
		if req.FullName != nil {
			updates["full_name"] = *req.FullName
		}
		if req.Icon != nil {
			updates["user_icon"] = *req.Icon
		}
		if req.FcmToken != nil {
			updates["fcm_token"] = *req.FcmToken
		}
		if len(updates) == 0 {
			c.JSON(http.StatusOK, gin.H{"message": "Nothing to update"})
			return
		}

		if err := db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
	}
}
