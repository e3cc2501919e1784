package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/sca-inventory-backend/internal/http/response"
	"github.com/yungbote/sca-inventory-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &req) {
		return
	}
	res, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"token":         res.Token,
		"session_token": res.SessionToken,
		"expires_at":    res.ExpiresAt,
		"expires_in":    int(ah.authService.SessionTTL().Seconds()),
		"user":          res.User,
	})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context()); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
