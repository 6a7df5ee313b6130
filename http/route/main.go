package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-wiki-gateway/http/controller"
	middlewares "github.com/tnqbao/gau-wiki-gateway/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}
	r.Use(middles.CORSMiddleware, middles.RequestLogger)

	r.GET("/health", ctrl.Health)
	r.GET("/health/storage", ctrl.StorageHealth)

	apiRoutes := r.Group("/api/v1")
	{
		fileRoutes := apiRoutes.Group("/files")
		{
			fileRoutes.Use(middles.OptionalAuthMiddleware)
			fileRoutes.POST("/upload/init", ctrl.InitUpload)
			fileRoutes.POST("/upload/sign", ctrl.SignUploadPart)
			fileRoutes.POST("/upload/complete", ctrl.CompleteUpload)
			fileRoutes.POST("/batch-info", ctrl.BatchFileInfo)
		}

		publicRoutes := apiRoutes.Group("")
		{
			publicRoutes.Use(middles.OptionalAuthMiddleware)

			publicRoutes.GET("/users/search", ctrl.SearchUsers)
			publicRoutes.GET("/users/:id", ctrl.GetUserByID)

			publicRoutes.GET("/modules", ctrl.GetModuleTree)
			publicRoutes.GET("/modules/:id", ctrl.GetModule)
			publicRoutes.GET("/modules/:id/moderators", ctrl.GetModerators)
			publicRoutes.GET("/modules/:id/articles", ctrl.GetModuleArticles)

			publicRoutes.GET("/articles/:id", ctrl.GetArticle)
			publicRoutes.GET("/articles/:id/collaborators", ctrl.GetArticleCollaborators)
			publicRoutes.GET("/articles/:id/discussions", ctrl.GetArticleComments)

			publicRoutes.GET("/reviews", ctrl.GetReviews)
			publicRoutes.GET("/reviews/:id", ctrl.GetReviewDetail)
		}

		authRoutes := apiRoutes.Group("")
		{
			authRoutes.Use(middles.AuthMiddleware)

			authRoutes.POST("/articles/:id/discussions", ctrl.CreateComment)
			authRoutes.POST("/comments/:id/replies", ctrl.ReplyComment)
			authRoutes.PUT("/comments/:id", ctrl.UpdateComment)
			authRoutes.DELETE("/comments/:id", ctrl.DeleteComment)

			authRoutes.POST("/reviews/:id/action", ctrl.ReviewAction)
		}
	}
	return r
}
