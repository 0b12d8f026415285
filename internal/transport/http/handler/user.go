package handler

import (
	"net/http"

	"github.com/ErlanBelekov/student-gifts/internal/domain"
	"github.com/gin-gonic/gin"
)

type userQuery struct {
	Email string `form:"email" binding:"required,email"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

// GET /api/v1/user?email=
func (h *GiftHandler) GetUser(c *gin.Context) {
	tok, err := authToken(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var q userQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(bindError(errInvalidQuery, err))
		return
	}

	u, err := h.giftUsecase.GetUser(c.Request.Context(), tok, q.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, userResponse{User: u})
}
