package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tradesim/middleware"
	"tradesim/models"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

type registerInput struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}

func (h *Handler) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch {
	case input.Username == "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing username"})
		return
	case input.Password == "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing password"})
		return
	case input.Confirmation == "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "please confirm your password"})
		return
	case input.Password != input.Confirmation:
		c.JSON(http.StatusBadRequest, gin.H{"error": "passwords do not match"})
		return
	}

	var existing models.User
	err := h.DB.Where("username = ?", input.Username).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		return
	}
	if err != gorm.ErrRecordNotFound {
		h.abortForError(c, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		h.abortForError(c, err)
		return
	}

	user := models.User{
		Username:     input.Username,
		PasswordHash: string(hashed),
		Cash:         h.Cfg.StartingCash,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		// The unique index is authoritative when two registrations race
		// past the pre-check.
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "username": user.Username, "cash": user.Cash})
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Username == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	var user models.User
	if err := h.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	accessToken, err := h.signToken(user.ID, accessTokenTTL)
	if err != nil {
		h.abortForError(c, err)
		return
	}

	resp := gin.H{"access_token": accessToken}

	if h.Rdb != nil {
		refreshToken, err := h.signToken(user.ID, refreshTokenTTL)
		if err != nil {
			h.abortForError(c, err)
			return
		}
		if err := h.Rdb.Set(c.Request.Context(), refreshToken, user.ID, refreshTokenTTL).Err(); err != nil {
			h.abortForError(c, err)
			return
		}
		resp["refresh_token"] = refreshToken
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) signToken(userID uint, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		middleware.UserIDKey: userID,
		"exp":                time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.Cfg.JWTSecret))
}

type logoutInput struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout revokes the refresh token. The access token stays valid until
// it expires; only the long-lived credential is invalidated.
func (h *Handler) Logout(c *gin.Context) {
	var input logoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.Rdb != nil && input.RefreshToken != "" {
		if err := h.Rdb.Del(c.Request.Context(), input.RefreshToken).Err(); err != nil {
			h.abortForError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

type changePasswordInput struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	NewConfirmation string `json:"new_confirmation"`
}

func (h *Handler) ChangePassword(c *gin.Context) {
	userID := middleware.UserID(c)

	var input changePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.OldPassword == "" || input.NewPassword == "" || input.NewConfirmation == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please fill out all fields"})
		return
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		h.abortForError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "the old password is incorrect"})
		return
	}
	if input.NewPassword != input.NewConfirmation {
		c.JSON(http.StatusBadRequest, gin.H{"error": "new password and confirmation do not match"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.abortForError(c, err)
		return
	}

	if err := h.DB.Model(&user).Update("password_hash", string(hashed)).Error; err != nil {
		h.abortForError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
