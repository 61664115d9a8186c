package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "jodtang/internal/errors"
	"jodtang/internal/models"
	"jodtang/internal/services"
)

// CategoryHandler handles category-related requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents the category creation payload
type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Emoji string `json:"emoji" binding:"max=10"`
	Type  string `json:"type" binding:"required,transaction_type"`
}

// UpdateCategoryRequest represents the category update payload
type UpdateCategoryRequest struct {
	Name  string `json:"name" binding:"omitempty,max=100"`
	Emoji string `json:"emoji" binding:"omitempty,max=10"`
}

// CreateCategory creates a user-owned category
// @Summary     Create category
// @Description Create a custom category for the authenticated user
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       request body CreateCategoryRequest true "Category data"
// @Success     201 {object} object "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /categories [post]
// @Security    BearerAuth
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(userID, req.Name, req.Emoji, models.TransactionType(req.Type))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// GetCategories lists categories visible to the user
// @Summary     List categories
// @Description List default categories plus the user's own, optionally filtered by type
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       type query string false "Filter by type (income|expense)"
// @Success     200 {object} object "Categories"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /categories [get]
// @Security    BearerAuth
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var categoryType *models.TransactionType
	if t := c.Query("type"); t != "" {
		if t != string(models.TransactionTypeIncome) && t != string(models.TransactionTypeExpense) {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be income or expense"))
			return
		}
		ct := models.TransactionType(t)
		categoryType = &ct
	}

	categories, err := h.categoryService.VisibleCategories(&userID, categoryType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory retrieves one category
// @Summary     Get category
// @Description Get a single category visible to the user
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id path int true "Category ID"
// @Success     200 {object} object "Category"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /categories/{id} [get]
// @Security    BearerAuth
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(userID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// UpdateCategory updates a user-owned category
// @Summary     Update category
// @Description Update a custom category's name or emoji; defaults are immutable
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id path int true "Category ID"
// @Param       request body UpdateCategoryRequest true "Fields to update"
// @Success     200 {object} object "Category updated"
// @Failure     403 {object} ErrorResponse "Default category"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /categories/{id} [put]
// @Security    BearerAuth
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.UpdateCategory(userID, categoryID, req.Name, req.Emoji)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory deletes a user-owned category
// @Summary     Delete category
// @Description Delete a custom category along with its shortcuts; defaults are immutable
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id path int true "Category ID"
// @Success     200 {object} object "Category deleted"
// @Failure     403 {object} ErrorResponse "Default category"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /categories/{id} [delete]
// @Security    BearerAuth
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(userID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
