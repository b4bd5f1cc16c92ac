package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talekeep/talekeep-backend/internal/requestdata"
)

// currentUserID reads the identity the auth middleware stowed on the
// request context. Nil means the middleware did not run.
func currentUserID(c *gin.Context) uuid.UUID {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		return uuid.Nil
	}
	return rd.UserID
}
