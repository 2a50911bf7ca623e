package controllers

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"paper-share-api/config"
	"paper-share-api/models"
	"paper-share-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	passwordResetTokenGenerator = utils.GenerateToken

	sendMailFunc                              = config.SendMail
	passwordResetRepo passwordResetRepository = &gormPasswordResetRepository{}
)

type passwordResetRepository interface {
	FindUserByEmail(email string) (*models.User, error)
	RevokePasswordResetTokens(userID int, now time.Time) error
	CreateUserToken(token *models.UserToken) error
	FindActivePasswordResetTokens(now time.Time) ([]models.UserToken, error)
	UpdateUserPassword(userID int, hashedPassword string, now time.Time) error
	RevokeToken(tokenID int, now time.Time) error
}

type gormPasswordResetRepository struct{}

func (r *gormPasswordResetRepository) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormPasswordResetRepository) RevokePasswordResetTokens(userID int, now time.Time) error {
	if userID == 0 {
		return nil
	}

	return config.DB.Model(&models.UserToken{}).
		Where("user_id = ? AND token_type = ? AND is_revoked = ?", userID, "password_reset", false).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		}).Error
}

func (r *gormPasswordResetRepository) CreateUserToken(token *models.UserToken) error {
	return config.DB.Create(token).Error
}

func (r *gormPasswordResetRepository) FindActivePasswordResetTokens(now time.Time) ([]models.UserToken, error) {
	var tokens []models.UserToken
	err := config.DB.Where("token_type = ? AND is_revoked = ? AND expires_at > ?", "password_reset", false, now).
		Order("created_at DESC").
		Find(&tokens).Error
	return tokens, err
}

func (r *gormPasswordResetRepository) UpdateUserPassword(userID int, hashedPassword string, now time.Time) error {
	return config.DB.Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"password":  hashedPassword,
			"update_at": now,
		}).Error
}

func (r *gormPasswordResetRepository) RevokeToken(tokenID int, now time.Time) error {
	return config.DB.Model(&models.UserToken{}).
		Where("token_id = ?", tokenID).
		Updates(map[string]interface{}{
			"is_revoked": true,
			"updated_at": now,
			"expires_at": now,
		}).Error
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ForgotPassword handles password reset token generation and email dispatch.
func ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Invalid request payload"})
		return
	}

	req.Email = utils.SanitizeInput(req.Email)
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Invalid email format"})
		return
	}

	user, err := passwordResetRepo.FindUserByEmail(req.Email)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to process request"})
			return
		}

		// Always return success for non-existing users to avoid email enumeration.
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "If the email exists, a reset link has been sent."})
		return
	}

	rawToken, err := passwordResetTokenGenerator()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to create reset token"})
		return
	}

	hashedToken, err := HashPassword(rawToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to secure reset token"})
		return
	}

	now := time.Now()
	if err := passwordResetRepo.RevokePasswordResetTokens(user.UserID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to prepare reset token"})
		return
	}

	token := models.UserToken{
		UserID:     user.UserID,
		TokenType:  "password_reset",
		Token:      hashedToken,
		ExpiresAt:  now.Add(10 * time.Minute),
		IsRevoked:  false,
		DeviceInfo: "password_reset",
		IPAddress:  c.ClientIP(),
		UserAgent:  c.GetHeader("User-Agent"),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := passwordResetRepo.CreateUserToken(&token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to store reset token"})
		return
	}

	if err := sendPasswordResetEmail(*user, rawToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to send reset email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "If the email exists, a reset link has been sent."})
}

// ResetPassword consumes a reset token and updates the user's password.
func ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Invalid request payload"})
		return
	}

	if req.NewPassword != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": "Passwords do not match"})
		return
	}
	if ok, reason := utils.ValidatePassword(req.NewPassword); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": reason})
		return
	}

	now := time.Now()
	tokens, err := passwordResetRepo.FindActivePasswordResetTokens(now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to verify reset token"})
		return
	}

	// Tokens are stored hashed; compare against every live one.
	var matched *models.UserToken
	for i := range tokens {
		if CheckPasswordHash(req.Token, tokens[i].Token) {
			matched = &tokens[i]
			break
		}
	}
	if matched == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "error": "Invalid or expired reset token"})
		return
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to hash password"})
		return
	}

	if err := passwordResetRepo.UpdateUserPassword(matched.UserID, hashed, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to update password"})
		return
	}
	if err := passwordResetRepo.RevokeToken(matched.TokenID, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Failed to revoke reset token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Password has been reset"})
}

func sendPasswordResetEmail(user models.User, rawToken string) error {
	baseURL := os.Getenv("FRONTEND_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", baseURL, rawToken)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>A password reset was requested for your account. The link below is valid for 10 minutes.</p><p><a href=\"%s\">Reset your password</a></p>",
		user.Username, link)

	return sendMailFunc([]string{user.Email}, "Password reset", html)
}
