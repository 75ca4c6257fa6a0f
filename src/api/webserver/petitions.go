package webserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"

	"github.com/armandouv/petitions-backend/src/api/petitions"
	"github.com/armandouv/petitions-backend/src/api/types"
)

type Petitions struct {
	db       *gorm.DB
	svc      petitions.Service
	sanitize *bluemonday.Policy
}

func NewPetitions(db *gorm.DB) Petitions {
	return Petitions{db: db, svc: petitions.NewService(db), sanitize: bluemonday.StrictPolicy()}
}

func writeErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"err": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
	}
}

func idParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad id"})
		return 0, false
	}
	return id, true
}

// List serves GET /v1/petitions. All enum and range validation happens here,
// before the query engine runs.
func (p Petitions) List(c *gin.Context) {
	var req struct {
		Page    int    `form:"page" binding:"required,min=1"`
		OrderBy string `form:"orderBy" binding:"required,oneof=MOST_RECENT OLDEST NUMBER_OF_VOTES RELEVANCE"`
		Year    int    `form:"year" binding:"required"`
		School  string `form:"school" binding:"required"`
		Show    string `form:"show" binding:"omitempty,oneof=NO_RESOLUTION IN_PROGRESS OVERDUE TERMINATED"`
		Search  string `form:"search"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if req.Year < petitions.FirstValidYear {
		c.JSON(http.StatusBadRequest, gin.H{"err": "year out of range"})
		return
	}

	page, err := p.svc.ListPage(c, petitions.QueryParams{
		Page:    req.Page,
		OrderBy: petitions.OrderBy(req.OrderBy),
		Year:    req.Year,
		School:  req.School,
		Show:    types.PetitionStatus(req.Show),
		Search:  req.Search,
	}, viewerID(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (p Petitions) Detail(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	info, err := p.svc.PetitionDetail(c, id, viewerID(c))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (p Petitions) Create(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required,max=255"`
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	var user types.User
	if err := p.db.First(&user, "id = ?", viewerID(c)).Error; err != nil {
		writeErr(c, err)
		return
	}

	id, err := p.svc.CreatePetition(c, user.ID, user.Campus,
		p.sanitize.Sanitize(req.Title), p.sanitize.Sanitize(req.Description))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (p Petitions) Edit(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Title       string `json:"title" binding:"required,max=255"`
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	pet, ok := p.requireOwner(c, id, false)
	if !ok {
		return
	}
	err := p.svc.EditPetition(c, pet.ID,
		p.sanitize.Sanitize(req.Title), p.sanitize.Sanitize(req.Description))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (p Petitions) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	pet, ok := p.requireOwner(c, id, true)
	if !ok {
		return
	}
	if err := p.svc.DeletePetition(c, pet.ID); err != nil {
		writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// requireOwner loads the petition and checks the viewer owns it. Admins pass
// when adminOverride is set (moderation deletes).
func (p Petitions) requireOwner(c *gin.Context, id uint64, adminOverride bool) (types.Petition, bool) {
	var pet types.Petition
	if err := p.db.First(&pet, "id = ?", id).Error; err != nil {
		writeErr(c, err)
		return pet, false
	}
	if pet.UserID == viewerID(c) {
		return pet, true
	}
	if adminOverride {
		var user types.User
		if err := p.db.First(&user, "id = ?", viewerID(c)).Error; err == nil && user.Admin {
			return pet, true
		}
	}
	c.JSON(http.StatusForbidden, gin.H{"err": "not the petition owner"})
	return pet, false
}

func (p Petitions) Vote(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := p.svc.Vote(c, id, viewerID(c)); err != nil {
		writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (p Petitions) Unvote(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := p.svc.Unvote(c, id, viewerID(c)); err != nil {
		writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (p Petitions) Save(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := p.svc.Save(c, id, viewerID(c)); err != nil {
		writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (p Petitions) Unsave(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := p.svc.Unsave(c, id, viewerID(c)); err != nil {
		writeErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
