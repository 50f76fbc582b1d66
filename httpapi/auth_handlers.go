package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"assetflow/auth"
)

func (a *API) requestOTP(c *gin.Context) {
	var req auth.OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	if err := a.Auth.RequestCode(c.Request.Context(), req.Email); err != nil {
		a.renderAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent"})
}

func (a *API) verifyOTP(c *gin.Context) {
	var req auth.OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	res, err := a.Auth.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		a.renderAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Authenticated", "user": res.User, "token": res.Token})
}

func (a *API) signup(c *gin.Context) {
	var req auth.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	res, err := a.Auth.Signup(c.Request.Context(), req)
	if err != nil {
		a.renderAuthError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully", "user": res.User, "token": res.Token})
}

func (a *API) login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	res, err := a.Auth.Login(c.Request.Context(), req)
	if err != nil {
		a.renderAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Authenticated", "user": res.User, "token": res.Token})
}

func (a *API) logout(c *gin.Context) {
	var req auth.OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	a.Auth.Logout(req.Email)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (a *API) currentUser(c *gin.Context) {
	c.JSON(http.StatusOK, requestUser(c))
}

// renderAuthError maps the auth error taxonomy onto HTTP statuses. Expected
// outcomes render as client errors; anything else is a 500 and logged.
func (a *API) renderAuthError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, auth.ErrEmailRequired),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrUserExists),
		errors.Is(err, auth.ErrInvalidOrExpiredCode):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrUnauthorized):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		a.Logger.Error("auth request failed", "error", err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": strings.TrimPrefix(err.Error(), "auth: ")})
}
