package handler

import (
	"context"
	"net/http"

	"github.com/ErlanBelekov/student-gifts/internal/domain"
	"github.com/gin-gonic/gin"
)

type giftUsecaser interface {
	GetGifts(ctx context.Context, token string, raw domain.RawFilters, page int, sort domain.Sort) (*domain.GiftPage, error)
	SearchGifts(ctx context.Context, token, input string, page int, sort domain.Sort) (*domain.GiftPage, error)
	GetUser(ctx context.Context, token, email string) (*domain.User, error)
	ClaimGift(ctx context.Context, token, email, giftID string) error
}

type GiftHandler struct {
	giftUsecase giftUsecaser
}

func NewGiftHandler(giftUsecase giftUsecaser) *GiftHandler {
	return &GiftHandler{giftUsecase: giftUsecase}
}

type giftsQuery struct {
	Channels    string `form:"channels"`
	Types       string `form:"types"`
	BrandTitles string `form:"brandTitles"`
	Category    string `form:"category"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	Sort        string `form:"sort" binding:"omitempty,oneof=NEW_IN ENDING_SOON"`
}

type searchQuery struct {
	Input string `form:"input" binding:"max=100"`
	Page  int    `form:"page"  binding:"omitempty,min=1"`
	Sort  string `form:"sort"  binding:"omitempty,oneof=NEW_IN ENDING_SOON"`
}

type claimRequest struct {
	User struct {
		Email string `json:"email" binding:"required,email"`
	} `json:"user"`
	Gift struct {
		ID string `json:"id" binding:"required"`
	} `json:"gift"`
}

type giftPageResponse struct {
	Data *domain.GiftPage `json:"data"`
}

// GET /api/v1/gifts
func (h *GiftHandler) List(c *gin.Context) {
	tok, err := authToken(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var q giftsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(bindError(errInvalidQuery, err))
		return
	}

	page, err := h.giftUsecase.GetGifts(c.Request.Context(), tok, domain.RawFilters{
		Channels:    q.Channels,
		Types:       q.Types,
		BrandTitles: q.BrandTitles,
		Category:    q.Category,
	}, q.Page, domain.ParseSort(q.Sort))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, giftPageResponse{Data: page})
}

// GET /api/v1/gifts/search
func (h *GiftHandler) Search(c *gin.Context) {
	tok, err := authToken(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(bindError(errInvalidQuery, err))
		return
	}

	page, err := h.giftUsecase.SearchGifts(c.Request.Context(), tok, q.Input, q.Page, domain.ParseSort(q.Sort))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, giftPageResponse{Data: page})
}

// POST /api/v1/gifts/claim
func (h *GiftHandler) Claim(c *gin.Context) {
	tok, err := authToken(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(bindError(errInvalidBody, err))
		return
	}

	if err := h.giftUsecase.ClaimGift(c.Request.Context(), tok, req.User.Email, req.Gift.ID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: "Gift claimed successfully"})
}
