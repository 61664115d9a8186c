package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jodtang/internal/config"
	apperrors "jodtang/internal/errors"
	"jodtang/internal/services"
)

// ConnectionHandler handles LINE account linking requests.
type ConnectionHandler struct {
	connectionService services.ConnectionServicer
	userService       services.UserServicer
}

// NewConnectionHandler creates a new ConnectionHandler.
func NewConnectionHandler(connectionService services.ConnectionServicer, userService services.UserServicer) *ConnectionHandler {
	return &ConnectionHandler{
		connectionService: connectionService,
		userService:       userService,
	}
}

// GetStatus retrieves the user's LINE connection status
// @Summary     Get LINE connection status
// @Description Get the current LINE link and any pending connection code
// @Tags        line
// @Accept      json
// @Produce     json
// @Success     200 {object} object "Connection status"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /line/connection [get]
// @Security    BearerAuth
func (h *ConnectionHandler) GetStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := gin.H{"connected": user.IsLinked()}

	code, err := h.connectionService.ActiveCode(userID)
	if err != nil && !errors.Is(err, apperrors.ErrCodeNotFound) {
		respondWithError(c, err)
		return
	}
	if code != nil {
		resp["pending_code"] = gin.H{
			"code":       code.ConnectionCode,
			"expires_at": code.CodeExpiresAt,
		}
	}

	c.JSON(http.StatusOK, resp)
}

// GenerateCode issues a new one-time connection code
// @Summary     Generate connection code
// @Description Generate a new one-time CONNECT-XXXXXX code; any previous unconsumed code is invalidated
// @Tags        line
// @Accept      json
// @Produce     json
// @Success     200 {object} object "Connection code generated"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /line/generate-code [post]
// @Security    BearerAuth
func (h *ConnectionHandler) GenerateCode(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	code, err := h.connectionService.IssueCode(userID, config.Get().ConnectionCodeTTL)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":       code.ConnectionCode,
		"expires_at": code.CodeExpiresAt,
	})
}

// Disconnect unlinks the user's LINE account
// @Summary     Disconnect LINE account
// @Description Remove the LINE link from the authenticated user
// @Tags        line
// @Accept      json
// @Produce     json
// @Success     200 {object} object "Disconnected"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No LINE account linked"
// @Router      /line/disconnect [post]
// @Security    BearerAuth
func (h *ConnectionHandler) Disconnect(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.connectionService.Disconnect(userID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"disconnected": true})
}
