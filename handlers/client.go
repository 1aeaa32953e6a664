package handlers

import (
	"net/http"
	"time"

	"lawlink/models"
	"lawlink/services/client"
	"lawlink/services/identity"
	"lawlink/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler serves the client profile endpoints.
type ClientHandler struct {
	Identity identity.IdentityService
	Clients  client.ClientService
}

// Get returns the caller's own client profile.
func (h *ClientHandler) Get(c *gin.Context) {
	caller, err := resolveCaller(c, h.Identity)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}

	detail, err := h.Clients.Get(caller)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, detail, "")
}

type updateClientInput struct {
	DateOfBirth        string          `json:"dateOfBirth"` // "2006-01-02"
	Address            *models.Address `json:"address"`
	PreferredLanguages []string        `json:"preferredLanguages"`
	LegalIssueType     *string         `json:"legalIssueType"`
}

// Update edits the caller's own client profile.
func (h *ClientHandler) Update(c *gin.Context) {
	caller, err := resolveCaller(c, h.Identity)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}

	var input updateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req := client.UpdateRequest{
		Address:            input.Address,
		PreferredLanguages: input.PreferredLanguages,
		LegalIssueType:     input.LegalIssueType,
	}
	if input.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", input.DateOfBirth)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid date of birth")
			return
		}
		req.DateOfBirth = &dob
	}

	detail, err := h.Clients.Update(caller, req)
	if err != nil {
		utils.JSONFromError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, detail, "Profile updated")
}
