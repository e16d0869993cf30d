package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vocabuilder/api/internal/auth"
	"github.com/vocabuilder/api/internal/model"
	"github.com/vocabuilder/api/internal/store"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type AuthHandler struct {
	users        *store.UserStore
	tokens       *store.RefreshTokenStore
	jwtSecret    string
	adminEmails  []string
	googleConfig *oauth2.Config
	frontendURL  string
	log          *zap.Logger
}

func NewAuthHandler(users *store.UserStore, tokens *store.RefreshTokenStore, jwtSecret string, adminEmails []string, googleConfig *oauth2.Config, frontendURL string, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:        users,
		tokens:       tokens,
		jwtSecret:    jwtSecret,
		adminEmails:  adminEmails,
		googleConfig: googleConfig,
		frontendURL:  frontendURL,
		log:          log,
	}
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type tokenPair struct {
	AccessToken  string
	RefreshToken string
}

func (h *AuthHandler) isAdminEmail(email string) bool {
	for _, admin := range h.adminEmails {
		if strings.EqualFold(admin, email) {
			return true
		}
	}
	return false
}

// issueTokens signs an access token and stores a new refresh token for user.
func (h *AuthHandler) issueTokens(c *gin.Context, user *model.User) (*tokenPair, error) {
	accessToken, err := auth.GenerateAccessToken(user, h.jwtSecret)
	if err != nil {
		return nil, err
	}
	refreshToken, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	if err := h.tokens.Create(c.Request.Context(), &model.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(auth.RefreshTokenExpiry),
	}); err != nil {
		return nil, err
	}
	return &tokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (h *AuthHandler) respondTokens(c *gin.Context, status int, message string, user *model.User, tokens *tokenPair) {
	c.JSON(status, gin.H{
		"success":      true,
		"message":      message,
		"token":        tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"expiresIn":    int(auth.AccessTokenExpiry.Seconds()),
		"user":         user,
	})
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		respondError(c, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = email
	}
	firstName := strings.TrimSpace(req.FirstName)
	if firstName == "" {
		firstName = "User"
	}

	ctx := c.Request.Context()
	exists, err := h.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		respondInternal(c, h.log, "Error registering user", err)
		return
	}
	if exists {
		respondError(c, http.StatusBadRequest, "User with this email or username already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondInternal(c, h.log, "Error registering user", err)
		return
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     strings.TrimSpace(req.LastName),
		Role:         model.RoleUser,
		IsActive:     true,
		Provider:     model.ProviderLocal,
	}
	if h.isAdminEmail(email) {
		user.Role = model.RoleAdmin
	}
	if err := h.users.Create(ctx, user); err != nil {
		respondInternal(c, h.log, "Error registering user", err)
		return
	}

	tokens, err := h.issueTokens(c, user)
	if err != nil {
		respondInternal(c, h.log, "Error registering user", err)
		return
	}

	h.log.Info("user registered", zap.String("user_id", user.ID), zap.String("role", user.Role))
	h.respondTokens(c, http.StatusCreated, "User registered successfully", user, tokens)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusBadRequest, "Invalid email or password")
		return
	}
	if err != nil {
		respondInternal(c, h.log, "Error logging in", err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(c, http.StatusBadRequest, "Invalid email or password")
		return
	}
	if !user.IsActive {
		respondError(c, http.StatusForbidden, "Account is deactivated")
		return
	}

	tokens, err := h.issueTokens(c, user)
	if err != nil {
		respondInternal(c, h.log, "Error logging in", err)
		return
	}

	h.respondTokens(c, http.StatusOK, "Login successful", user, tokens)
}

// Profile handles GET /auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	session, _ := auth.CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": session.User})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "refreshToken is required")
		return
	}
	ctx := c.Request.Context()

	token, err := h.tokens.FindValid(ctx, req.RefreshToken, time.Now())
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.log.Error("refresh token lookup failed", zap.Error(err))
		}
		respondError(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	user, err := h.users.FindByID(ctx, token.UserID)
	if err != nil || !user.IsActive {
		respondError(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	accessToken, err := auth.GenerateAccessToken(user, h.jwtSecret)
	if err != nil {
		respondInternal(c, h.log, "Error refreshing token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"token":     accessToken,
		"expiresIn": int(auth.AccessTokenExpiry.Seconds()),
	})
}

// Logout handles POST /auth/logout by revoking the refresh token.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "refreshToken is required")
		return
	}

	if err := h.tokens.Revoke(c.Request.Context(), req.RefreshToken); err != nil {
		respondInternal(c, h.log, "Error logging out", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// GoogleAuth redirects to the Google consent page.
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	if h.googleConfig == nil {
		respondError(c, http.StatusNotFound, "Google login is not configured")
		return
	}

	state := generateState()
	// state cookie guards the callback against CSRF
	c.SetCookie("oauth_state", state, 600, "/", "", false, true)

	c.Redirect(http.StatusTemporaryRedirect, h.googleConfig.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

func (h *AuthHandler) redirectError(c *gin.Context, code string) {
	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"?error="+url.QueryEscape(code))
}

// GoogleCallback finishes the OAuth flow and redirects to the frontend with tokens.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.googleConfig == nil {
		respondError(c, http.StatusNotFound, "Google login is not configured")
		return
	}

	state := c.Query("state")
	savedState, err := c.Cookie("oauth_state")
	if err != nil || state == "" || state != savedState {
		h.redirectError(c, "invalid_state")
		return
	}
	c.SetCookie("oauth_state", "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		h.redirectError(c, "no_code")
		return
	}

	ctx := c.Request.Context()
	token, err := h.googleConfig.Exchange(ctx, code)
	if err != nil {
		h.log.Warn("google code exchange failed", zap.Error(err))
		h.redirectError(c, "exchange_failed")
		return
	}

	info, err := auth.GetGoogleUserInfo(ctx, token)
	if err != nil {
		h.log.Warn("google user info failed", zap.Error(err))
		h.redirectError(c, "user_info_failed")
		return
	}

	user, err := h.findOrCreateGoogleUser(c, info)
	if err != nil {
		h.log.Error("google user provisioning failed", zap.Error(err))
		h.redirectError(c, "db_error")
		return
	}
	if !user.IsActive {
		h.redirectError(c, "account_disabled")
		return
	}

	tokens, err := h.issueTokens(c, user)
	if err != nil {
		h.log.Error("failed to issue tokens", zap.Error(err))
		h.redirectError(c, "token_failed")
		return
	}

	q := url.Values{}
	q.Set("accessToken", tokens.AccessToken)
	q.Set("refreshToken", tokens.RefreshToken)
	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"?"+q.Encode())
}

func (h *AuthHandler) findOrCreateGoogleUser(c *gin.Context, info *auth.GoogleUserInfo) (*model.User, error) {
	ctx := c.Request.Context()
	email := strings.ToLower(info.Email)
	firstName := info.GivenName
	if firstName == "" {
		firstName = "User"
	}

	user, err := h.users.FindByProvider(ctx, model.ProviderGoogle, info.ID)
	if err == nil {
		if err := h.users.UpdateProfile(ctx, user, email, firstName, info.Picture); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	user = &model.User{
		Username:   email,
		Email:      email,
		FirstName:  firstName,
		LastName:   info.FamilyName,
		Role:       model.RoleUser,
		IsActive:   true,
		Provider:   model.ProviderGoogle,
		ProviderID: info.ID,
		AvatarURL:  info.Picture,
	}
	if h.isAdminEmail(email) {
		user.Role = model.RoleAdmin
	}
	if err := h.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func generateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
