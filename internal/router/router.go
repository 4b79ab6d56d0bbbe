package router

import (
	"net/http"

	"ShengHang/internal/handler"
	"ShengHang/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	User     handler.UserHandler
	Follow   handler.FollowHandler
	Comment  handler.CommentHandler
	Songlist handler.SonglistHandler
	Favorite handler.FavoriteHandler
	Catalog  handler.CatalogHandler
	History  handler.HistoryHandler
}

type AuthDeps struct {
	SecretKey []byte
	Revoked   middleware.RevocationChecker
	Admins    middleware.AdminChecker
}

func SetupRouter(h Handlers, auth AuthDeps) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pang",
		})
	})
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		userGroup := apiV1.Group("/users")
		{
			userGroup.POST("/register", h.User.Register)
			userGroup.POST("/login", h.User.Login)
			userGroup.GET("/:user_id", h.User.GetUserInfo)
			userGroup.GET("/:user_id/followers", h.Follow.GetFollowers)
			userGroup.GET("/:user_id/followings", h.Follow.GetFollowings)
			userGroup.GET("/:user_id/followed_singers", h.Follow.GetFollowedSingers)
		}

		apiV1.GET("/targets/:target_type/:target_id/comments", h.Comment.GetCommentsByTarget)
		apiV1.GET("/targets/:target_type/:target_id/comments/stats", h.Comment.GetCommentStats)
		apiV1.GET("/comments/:comment_id", h.Comment.GetCommentDetail)
		apiV1.GET("/favorites/top", h.Favorite.GetTopFavorited)
		apiV1.GET("/search/songlists", h.Songlist.SearchSonglists)
		apiV1.GET("/search/songs", h.Catalog.SearchSongs)
		apiV1.GET("/songs/:song_id", h.Catalog.GetSong)
		apiV1.GET("/albums/:album_id", h.Catalog.GetAlbum)
		apiV1.GET("/singers/:singer_id", h.Catalog.GetSinger)

		// 带token就识别用户，不带也能访问
		optional := apiV1.Group("/")
		optional.Use(middleware.OptionalAuthMiddleware(auth.SecretKey, auth.Revoked))
		{
			optional.POST("/comments/:comment_id/like", h.Comment.LikeComment)
			optional.GET("/songlists", h.Songlist.ListSonglists)
			optional.GET("/songlists/:songlist_id", h.Songlist.GetSonglistDetail)
			optional.POST("/songlists/:songlist_id/like", h.Songlist.LikeSonglist)
		}

		authorized := apiV1.Group("/")
		authorized.Use(middleware.AuthMiddleware(auth.SecretKey, auth.Revoked))
		{
			authorized.GET("/profile", h.User.GetProfile)
			authorized.POST("/users/logout", h.User.Logout)
			authorized.PUT("/users/password", h.User.ChangePassword)
			authorized.PUT("/users/profile", h.User.UpdateProfile)

			authorized.POST("/follows/users/:user_id", h.Follow.FollowUser)
			authorized.DELETE("/follows/users/:user_id", h.Follow.UnfollowUser)
			authorized.POST("/follows/singers/:singer_id", h.Follow.FollowSinger)
			authorized.DELETE("/follows/singers/:singer_id", h.Follow.UnfollowSinger)

			authorized.POST("/comments", h.Comment.PublishComment)
			authorized.DELETE("/comments/:comment_id", h.Comment.DeleteComment)
			authorized.POST("/comments/:comment_id/report", h.Comment.ReportComment)
			authorized.GET("/me/comments", h.Comment.GetMyComments)

			authorized.POST("/songlists", h.Songlist.CreateSonglist)
			authorized.PUT("/songlists/:songlist_id", h.Songlist.UpdateSonglist)
			authorized.DELETE("/songlists/:songlist_id", h.Songlist.DeleteSonglist)
			authorized.POST("/songlists/:songlist_id/songs", h.Songlist.AddSong)
			authorized.DELETE("/songlists/:songlist_id/songs/:song_id", h.Songlist.RemoveSong)

			authorized.POST("/favorites", h.Favorite.AddFavorite)
			authorized.DELETE("/favorites", h.Favorite.RemoveFavorite)
			authorized.GET("/favorites", h.Favorite.ListFavorites)
			authorized.GET("/favorites/songs/stats", h.Favorite.GetMySongStats)

			authorized.POST("/history/plays", h.History.RecordPlay)
			authorized.GET("/history", h.History.GetMyHistory)
			authorized.GET("/history/stats", h.History.GetMyStats)
			authorized.GET("/history/top", h.History.GetMyTopSongs)
		}

		admin := apiV1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(auth.SecretKey, auth.Revoked), middleware.RequireAdmin(auth.Admins))
		{
			admin.POST("/singers", h.Catalog.CreateSinger)
			admin.POST("/albums", h.Catalog.CreateAlbum)
			admin.POST("/songs", h.Catalog.CreateSong)
			admin.DELETE("/singers/:singer_id", h.Catalog.DeleteSinger)
			admin.DELETE("/albums/:album_id", h.Catalog.DeleteAlbum)
			admin.DELETE("/songs/:song_id", h.Catalog.DeleteSong)
		}
	}

	return r
}
