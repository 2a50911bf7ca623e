package controllers

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"paper-share-api/config"
	"paper-share-api/middleware"
	"paper-share-api/models"
	"paper-share-api/services"
	"paper-share-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles user authentication
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "username or password not provided or empty"})
		return
	}

	var user models.User
	if err := config.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "error": "invalid credentials"})
		return
	}

	if !CheckPasswordHash(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "error": "invalid credentials"})
		return
	}

	token, err := generateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to generate token"})
		return
	}

	refresh, err := issueRefreshToken(c, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to store session"})
		return
	}

	now := time.Now()
	config.DB.Model(&user).Update("last_login", now)

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"message":       "login success",
		"token":         token,
		"refresh_token": refresh,
	})
}

// Signup registers a new user account.
func Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Username, password and email are required"})
		return
	}

	req.Username = utils.SanitizeInput(req.Username)
	req.Email = utils.SanitizeInput(req.Email)
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Invalid email format"})
		return
	}
	if ok, reason := utils.ValidatePassword(req.Password); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": reason})
		return
	}

	var count int64
	config.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
	if count != 0 {
		c.JSON(http.StatusConflict, gin.H{"status": "error", "error": "Username already exists"})
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to hash password"})
		return
	}

	user := models.User{Username: req.Username, Email: req.Email, Password: hashed}
	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok", "message": "User created successfully"})
}

// RefreshToken exchanges a stored refresh token for a fresh JWT.
func RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "refresh_token is required"})
		return
	}

	var token models.UserToken
	err := config.DB.Preload("User").
		Where("token = ? AND token_type = ? AND is_revoked = ? AND expires_at > ?",
			req.RefreshToken, "refresh", false, time.Now()).
		First(&token).Error
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "error": "Invalid or expired refresh token"})
		return
	}

	jwtToken, err := generateToken(token.User)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "token": jwtToken})
}

// Logout revokes the caller's refresh tokens.
func Logout(c *gin.Context) {
	userID, _ := c.Get("userID")
	now := time.Now()

	err := config.DB.Model(&models.UserToken{}).
		Where("user_id = ? AND token_type = ? AND is_revoked = ?", userID, "refresh", false).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to revoke session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetUserDetail returns the caller's account info.
func GetUserDetail(c *gin.Context) {
	userID, _ := c.Get("userID")

	var user models.User
	if err := config.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":    user.UserID,
		"username":   user.Username,
		"email":      user.Email,
		"last_login": user.LastLogin,
	})
}

// GetUserLoggedIn reports whether the request carries a valid session.
func GetUserLoggedIn(c *gin.Context) {
	actor := currentActor(c)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "loggedin": !actor.Anonymous})
}

// DeleteAccount removes the caller's account; owned papers, paper sets,
// comments and ratings go with it.
func DeleteAccount(c *gin.Context) {
	userID, _ := c.Get("userID")

	var user models.User
	if err := config.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "User not found"})
		return
	}

	if err := services.DeleteUserCascade(config.DB, user.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to delete account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func issueRefreshToken(c *gin.Context, user models.User) (string, error) {
	value := uuid.NewString()
	now := time.Now()

	token := models.UserToken{
		UserID:     user.UserID,
		TokenType:  "refresh",
		Token:      value,
		ExpiresAt:  now.Add(30 * 24 * time.Hour),
		DeviceInfo: "login",
		IPAddress:  c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := config.DB.Create(&token).Error; err != nil {
		return "", err
	}
	return value, nil
}

// generateToken creates JWT token
func generateToken(user models.User) (string, error) {
	expireHours, err := strconv.Atoi(os.Getenv("JWT_EXPIRE_HOURS"))
	if err != nil {
		expireHours = 24 // default 24 hours
	}

	claims := middleware.Claims{
		UserID:   user.UserID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// HashPassword hashes password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares password with hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
