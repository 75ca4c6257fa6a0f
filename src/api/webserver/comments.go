package webserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/armandouv/petitions-backend/src/api/petitions"
	"github.com/armandouv/petitions-backend/src/api/types"
)

type Comments struct {
	db       *gorm.DB
	svc      petitions.Service
	sanitize *bluemonday.Policy
}

func NewComments(db *gorm.DB) Comments {
	return Comments{db: db, svc: petitions.NewService(db), sanitize: bluemonday.StrictPolicy()}
}

func (h Comments) List(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad page"})
		return
	}

	result, err := h.svc.CommentsPage(c, id, page, viewerID(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h Comments) Create(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	commentID, err := h.svc.CreateComment(c, id, viewerID(c), h.sanitize.Sanitize(req.Text))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": commentID})
}

func (h Comments) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var cm types.PetitionComment
	if err := h.db.First(&cm, "id = ?", id).Error; err != nil {
		writeErr(c, err)
		return
	}
	if cm.UserID != viewerID(c) {
		c.JSON(http.StatusForbidden, gin.H{"err": "not the comment author"})
		return
	}
	if err := h.svc.DeleteComment(c, cm.ID); err != nil {
		writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h Comments) Like(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.LikeComment(c, id, viewerID(c)); err != nil {
		writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h Comments) Unlike(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.svc.UnlikeComment(c, id, viewerID(c)); err != nil {
		writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
