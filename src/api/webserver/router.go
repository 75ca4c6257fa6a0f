package webserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/armandouv/petitions-backend/src/api/config"
)

func New(cfg config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	r := gin.Default()
	attachRoutes(r, cfg, db, rdb)
	return r
}

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB, rdb *redis.Client) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	secret := []byte(cfg.JWTSecret)
	authH := NewAuth(db, rdb, secret)
	petH := NewPetitions(db)
	cmtH := NewComments(db)
	userH := NewUsers(db)
	limiter := NewRateLimiter(30, time.Minute)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/challenge", authH.Challenge)
		v1.POST("/auth/verify", authH.Verify)

		// Reads personalize when a token is present but never require one.
		reads := v1.Group("")
		reads.Use(OptionalJWT(secret))
		reads.GET("/petitions", petH.List)
		reads.GET("/petitions/:id", petH.Detail)
		reads.GET("/petitions/:id/comments", cmtH.List)

		secured := v1.Group("")
		secured.Use(JWTMiddleware(secret), RateLimitMiddleware(limiter))
		secured.POST("/petitions", petH.Create)
		secured.PUT("/petitions/:id", petH.Edit)
		secured.DELETE("/petitions/:id", petH.Delete)
		secured.POST("/petitions/:id/vote", petH.Vote)
		secured.DELETE("/petitions/:id/vote", petH.Unvote)
		secured.POST("/petitions/:id/save", petH.Save)
		secured.DELETE("/petitions/:id/save", petH.Unsave)
		secured.POST("/petitions/:id/comments", cmtH.Create)
		secured.DELETE("/comments/:id", cmtH.Delete)
		secured.POST("/comments/:id/like", cmtH.Like)
		secured.DELETE("/comments/:id/like", cmtH.Unlike)
		secured.GET("/users/saved", userH.Saved)
	}
}
