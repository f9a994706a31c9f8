package delivery_http

import (
	auth_service "yatube-post-service/internal/domain/ports/input/auth"
	post_service "yatube-post-service/internal/domain/ports/input/post"
	ports "yatube-post-service/internal/domain/ports/output"
	auth_http "yatube-post-service/internal/infrastructure/inbound/http/auth"
	"yatube-post-service/internal/infrastructure/inbound/http/middleware"
	post_http "yatube-post-service/internal/infrastructure/inbound/http/post"
	"yatube-post-service/internal/infrastructure/inbound/http/render"

	"github.com/gin-gonic/gin"
)

func NewRouter(
	posts post_service.Service,
	auth auth_service.Service,
	cookie auth_http.CookieConfig,
	log ports.Logger,
	metrics ports.MetricsProvider,
) *gin.Engine {
	r := gin.New()
	r.HTMLRender = render.MustNew()
	r.Use(
		gin.Recovery(),
		middleware.Metrics(metrics),
		middleware.Logger(log),
		middleware.Identity(auth, cookie.Name, log),
	)

	index := post_http.NewIndexHandler(posts, log)
	groupList := post_http.NewGroupListHandler(posts, log)
	profile := post_http.NewProfileHandler(posts, log)
	detail := post_http.NewPostDetailHandler(posts, log)
	create := post_http.NewPostCreateHandler(posts, log)
	edit := post_http.NewPostEditHandler(posts, log)

	r.GET("/", index.Index)
	r.GET("/group/:slug/", groupList.GroupList)
	r.GET("/profile/:username/", profile.Profile)
	r.GET("/posts/:id/", detail.PostDetail)

	authorized := r.Group("/", middleware.RequireLogin())
	authorized.GET("/create/", create.Form)
	authorized.POST("/create/", create.Create)
	authorized.GET("/posts/:id/edit/", edit.Form)
	authorized.POST("/posts/:id/edit/", edit.Edit)

	login := auth_http.NewLoginHandler(auth, cookie, log)
	signup := auth_http.NewSignupHandler(auth, cookie, log)
	logout := auth_http.NewLogoutHandler(auth, cookie, log)

	accounts := r.Group("/auth")
	accounts.GET("/login/", login.Form)
	accounts.POST("/login/", login.Login)
	accounts.GET("/signup/", signup.Form)
	accounts.POST("/signup/", signup.Signup)
	accounts.GET("/logout/", logout.Logout)
	accounts.POST("/logout/", logout.Logout)

	r.NoRoute(render.NotFound)
	return r
}
