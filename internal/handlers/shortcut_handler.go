package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "jodtang/internal/errors"
	"jodtang/internal/services"
)

// ShortcutHandler handles shortcut-related requests.
type ShortcutHandler struct {
	shortcutService services.ShortcutServicer
}

// NewShortcutHandler creates a new ShortcutHandler.
func NewShortcutHandler(shortcutService services.ShortcutServicer) *ShortcutHandler {
	return &ShortcutHandler{shortcutService: shortcutService}
}

// CreateShortcutRequest represents the shortcut creation payload
type CreateShortcutRequest struct {
	Keyword    string `json:"keyword" binding:"required,max=50"`
	Emoji      string `json:"emoji" binding:"max=10"`
	CategoryID uint   `json:"category_id" binding:"required"`
}

// UpdateShortcutRequest represents the shortcut update payload
type UpdateShortcutRequest struct {
	Keyword    string `json:"keyword" binding:"omitempty,max=50"`
	Emoji      string `json:"emoji" binding:"omitempty,max=10"`
	CategoryID uint   `json:"category_id"`
}

// CreateShortcut creates a new shortcut
// @Summary     Create shortcut
// @Description Create a keyword shortcut pointing at a visible category
// @Tags        shortcuts
// @Accept      json
// @Produce     json
// @Param       request body CreateShortcutRequest true "Shortcut data"
// @Success     201 {object} object "Shortcut created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Duplicate keyword"
// @Router      /shortcuts [post]
// @Security    BearerAuth
func (h *ShortcutHandler) CreateShortcut(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateShortcutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	shortcut, err := h.shortcutService.CreateShortcut(userID, req.Keyword, req.Emoji, req.CategoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"shortcut": shortcut})
}

// GetShortcuts lists the user's shortcuts
// @Summary     List shortcuts
// @Description List all shortcuts for the authenticated user, newest first
// @Tags        shortcuts
// @Accept      json
// @Produce     json
// @Success     200 {object} object "Shortcuts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /shortcuts [get]
// @Security    BearerAuth
func (h *ShortcutHandler) GetShortcuts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	shortcuts, err := h.shortcutService.GetUserShortcuts(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shortcuts": shortcuts})
}

// GetShortcut retrieves one shortcut
// @Summary     Get shortcut
// @Description Get a single shortcut by ID
// @Tags        shortcuts
// @Accept      json
// @Produce     json
// @Param       id path int true "Shortcut ID"
// @Success     200 {object} object "Shortcut"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /shortcuts/{id} [get]
// @Security    BearerAuth
func (h *ShortcutHandler) GetShortcut(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	shortcutID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	shortcut, err := h.shortcutService.GetShortcutByID(userID, shortcutID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shortcut": shortcut})
}

// UpdateShortcut updates a shortcut
// @Summary     Update shortcut
// @Description Update a shortcut's keyword, emoji, or target category
// @Tags        shortcuts
// @Accept      json
// @Produce     json
// @Param       id path int true "Shortcut ID"
// @Param       request body UpdateShortcutRequest true "Fields to update"
// @Success     200 {object} object "Shortcut updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Duplicate keyword"
// @Router      /shortcuts/{id} [put]
// @Security    BearerAuth
func (h *ShortcutHandler) UpdateShortcut(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	shortcutID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateShortcutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	shortcut, err := h.shortcutService.UpdateShortcut(userID, shortcutID, req.Keyword, req.Emoji, req.CategoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shortcut": shortcut})
}

// DeleteShortcut deletes a shortcut
// @Summary     Delete shortcut
// @Description Delete a shortcut by ID
// @Tags        shortcuts
// @Accept      json
// @Produce     json
// @Param       id path int true "Shortcut ID"
// @Success     200 {object} object "Shortcut deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /shortcuts/{id} [delete]
// @Security    BearerAuth
func (h *ShortcutHandler) DeleteShortcut(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	shortcutID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.shortcutService.DeleteShortcut(userID, shortcutID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
