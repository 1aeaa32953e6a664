package handlers

import (
	"net/http"

	"lawlink/middleware"
	"lawlink/services/identity"
	"lawlink/utils"

	"github.com/gin-gonic/gin"
)

// IdentityHandler serves onboarding and identity endpoints.
type IdentityHandler struct {
	Identity identity.IdentityService
}

// CheckRole reports the caller's role and onboarding state. Unlike the
// rest of the API it works before onboarding completes.
func (h *IdentityHandler) CheckRole(c *gin.Context) {
	status, err := h.Identity.CheckRole(middleware.ExternalID(c))
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, status, "")
}

// Onboard fixes the caller's role and creates the matching profile.
func (h *IdentityHandler) Onboard(c *gin.Context) {
	var req identity.OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.Identity.Onboard(middleware.ExternalID(c), req)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, user, "Onboarding completed")
}

// GetMe returns the caller's user record with its profile expanded.
func (h *IdentityHandler) GetMe(c *gin.Context) {
	me, err := h.Identity.GetMe(middleware.ExternalID(c))
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, me, "")
}
