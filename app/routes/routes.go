package routes

import (
	"net/http"

	"postboard/app/auth"
	"postboard/app/config"
	"postboard/app/controllers"
	"postboard/app/middleware"
	"postboard/app/repositories"
	"postboard/app/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// SetupRoutes wires services and controllers over store and returns the router.
func SetupRoutes(store repositories.Store, cfg *config.Config, logger zerolog.Logger) *mux.Router {
	router := mux.NewRouter()
	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL, cfg.SecureCookies)

	// Apply global middleware
	chain := []mux.MiddlewareFunc{
		middleware.Logger(logger),
		middleware.Recoverer,
		middleware.ContentTypeJSON,
		auth.Authenticate(tokens, store.Users()),
	}
	router.Use(chain...)

	// Unmatched requests skip router.Use, so they get the chain explicitly.
	router.NotFoundHandler = wrap(http.HandlerFunc(controllers.NotFound), chain)
	router.MethodNotAllowedHandler = wrap(http.HandlerFunc(controllers.MethodNotAllowed), chain)

	settings := controllers.Settings{
		PostsPageSize:            cfg.PostsPageSize,
		CommentsPageSize:         cfg.CommentsPageSize,
		CommentsLoadMorePageSize: cfg.CommentsLoadMorePageSize,
		PreviewWords:             cfg.PreviewWords,
	}
	postController := controllers.NewPostController(services.NewPostService(store, cfg.SearchLimit), settings)
	commentController := controllers.NewCommentController(services.NewCommentService(store, cfg.CommentPlacementPageSize), settings)
	likeController := controllers.NewLikeController(services.NewLikeService(store))
	authController := controllers.NewAuthController(services.NewUserService(store), tokens)

	// Routes live on the root router so a method mismatch reaches MethodNotAllowedHandler.
	router.HandleFunc("/", postController.Index).Methods("GET")
	router.HandleFunc("/search", postController.Search).Methods("GET")

	// Posts endpoints
	router.HandleFunc("/posts", postController.Index).Methods("GET")
	router.HandleFunc("/posts", postController.Create).Methods("POST")
	router.HandleFunc("/posts/{id:[0-9]+}", postController.Show).Methods("GET")
	router.HandleFunc("/posts/{id:[0-9]+}", postController.Update).Methods("PUT")
	router.HandleFunc("/posts/{id:[0-9]+}", postController.Delete).Methods("DELETE")
	router.HandleFunc("/posts/{id:[0-9]+}/like", likeController.Toggle).Methods("POST")

	// Comments endpoints
	router.HandleFunc("/posts/{post_id:[0-9]+}/comments", commentController.Index).Methods("GET")
	router.HandleFunc("/posts/{post_id:[0-9]+}/comments", commentController.Create).Methods("POST")
	router.HandleFunc("/posts/{post_id:[0-9]+}/comments/more", commentController.More).Methods("GET")
	router.HandleFunc("/comments/{id:[0-9]+}", commentController.Update).Methods("PUT")
	router.HandleFunc("/comments/{id:[0-9]+}", commentController.Delete).Methods("DELETE")

	// Account endpoints
	router.HandleFunc("/auth/register", authController.Register).Methods("POST")
	router.HandleFunc("/auth/login", authController.Login).Methods("POST")
	router.HandleFunc("/auth/logout", authController.Logout).Methods("POST")
	router.HandleFunc("/auth/me", authController.Me).Methods("GET")

	return router
}

func wrap(h http.Handler, chain []mux.MiddlewareFunc) http.Handler {
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return h
}
