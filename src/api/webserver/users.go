package webserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/armandouv/petitions-backend/src/api/petitions"
)

type Users struct {
	svc petitions.Service
}

func NewUsers(db *gorm.DB) Users {
	return Users{svc: petitions.NewService(db)}
}

// Saved lists the authenticated user's saved petitions.
func (u Users) Saved(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad page"})
		return
	}

	result, err := u.svc.SavedPage(c, viewerID(c), page)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
