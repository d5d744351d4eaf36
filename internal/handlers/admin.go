package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type listUsersQuery struct {
	Limit  int `form:"limit" binding:"min=0,max=100"`
	Offset int `form:"offset" binding:"min=0"`
}

func (h HandlerSet) AdminListUsers(c *gin.Context) {
	var q listUsersQuery
	if !h.bindQuery(c, &q) {
		return
	}

	users, err := h.accounts.ListUsers(c.Request.Context(), q.Limit, q.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	items := make([]userView, len(users))
	for i, u := range users {
		items[i] = newUserView(u)
	}

	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"offset": q.Offset,
	})
}
