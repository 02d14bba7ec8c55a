package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/safar/medshop/internal/auth"
	"github.com/safar/medshop/internal/store"
)

type signupRequest struct {
	ShopName string `json:"shopName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// signup creates an unverified account and mails a one-time passcode. A
// failed mail send is not retried: the passcode comes back inline instead.
func (a *API) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		a.respondStoreError(c, err)
		return
	}

	otp := auth.GenerateOTP()
	otpExpiresAt := time.Now().Add(a.otpTTL)

	_, err = store.CreateRetailer(c.Request.Context(), a.db, store.CreateRetailerRequest{
		ShopName:     req.ShopName,
		Email:        req.Email,
		PasswordHash: hash,
		OTP:          &otp,
		OTPExpiresAt: &otpExpiresAt,
	})
	if err != nil {
		a.respondStoreError(c, err)
		return
	}

	if err := a.mailer.SendOTP(req.Email, otp, req.ShopName); err != nil {
		a.log.WithError(err).WithField("email", req.Email).Warn("OTP mail failed, returning passcode inline")
		c.JSON(http.StatusCreated, gin.H{
			"message": "Signup successful. Email delivery failed; use the OTP below.",
			"otp":     otp,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Signup successful. Please verify OTP sent to your email."})
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

func (a *API) verifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	retailer, err := store.GetRetailerByEmail(c.Request.Context(), a.db, req.Email)
	if err != nil {
		a.respondStoreError(c, err)
		return
	}

	if retailer.IsVerified {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email already verified"})
		return
	}

	if retailer.OTP == nil || *retailer.OTP != req.OTP || otpExpired(time.Now(), retailer.OTPExpiresAt) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired OTP"})
		return
	}

	if err := store.MarkRetailerVerified(c.Request.Context(), a.db, retailer.ID); err != nil {
		a.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

// otpExpired reports whether a passcode is no longer usable at now. The
// expiry instant itself counts as expired.
func otpExpired(now time.Time, expiresAt *time.Time) bool {
	return expiresAt == nil || !now.Before(*expiresAt)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (a *API) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	retailer, err := store.GetRetailerByEmail(c.Request.Context(), a.db, req.Email)
	if err != nil {
		a.respondStoreError(c, err)
		return
	}

	if !retailer.IsVerified {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Email not verified"})
		return
	}

	if !auth.CheckPassword(retailer.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := a.tokens.Issue(retailer.ID, retailer.ShopName, retailer.Email, retailer.IsGuest)
	if err != nil {
		a.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "shopName": retailer.ShopName})
}

// guestSignup creates a pre-verified demo account. The bearer token is good
// for its full lifetime, but the demo data only survives the guest session
// window; the two durations are deliberately independent.
func (a *API) guestSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		a.respondStoreError(c, err)
		return
	}

	retailer, err := store.CreateRetailer(c.Request.Context(), a.db, store.CreateRetailerRequest{
		ShopName:     req.ShopName,
		Email:        req.Email,
		PasswordHash: hash,
		IsVerified:   true,
		IsGuest:      true,
	})
	if err != nil {
		a.respondStoreError(c, err)
		return
	}

	token, err := a.tokens.Issue(retailer.ID, retailer.ShopName, retailer.Email, true)
	if err != nil {
		a.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":            token,
		"shopName":         retailer.ShopName,
		"isGuest":          true,
		"sessionExpiresAt": a.sweeper.SessionExpiresAt(retailer.CreatedAt),
	})
}

// checkAuth lets a returning client confirm its stored token still maps to a
// live account. Guest accounts get the wall-clock session window re-checked
// here even when the token itself is still valid; an expired guest is cleaned
// up on the spot.
func (a *API) checkAuth(c *gin.Context) {
	retailer := currentRetailer(c)

	if retailer.IsGuest && a.sweeper.Expired(retailer.CreatedAt) {
		if err := store.CleanupGuest(c.Request.Context(), a.db, retailer.ID); err != nil {
			a.log.WithError(err).WithField("retailer_id", retailer.ID).Error("expired guest cleanup failed")
		}
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Guest session expired"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    c.GetString(ctxToken),
		"shopName": retailer.ShopName,
		"isGuest":  retailer.IsGuest,
	})
}

// guestCleanup deletes the calling guest's account and all its data.
func (a *API) guestCleanup(c *gin.Context) {
	retailer := currentRetailer(c)

	if !retailer.IsGuest {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Not a guest account"})
		return
	}

	if err := store.CleanupGuest(c.Request.Context(), a.db, retailer.ID); err != nil {
		a.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Guest account deleted"})
}
