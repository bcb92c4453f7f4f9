package routes

import (
	"net/http"

	"blogd/app/blog"
	"blogd/app/config"
	"blogd/app/controllers"
	"blogd/app/metrics"
	"blogd/app/middleware"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Controllers groups the handlers the router dispatches to.
type Controllers struct {
	Blog     *controllers.BlogController
	Entry    *controllers.EntryController
	Response *controllers.ResponseController
	Category *controllers.CategoryController
	Health   *controllers.HealthController
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(c *Controllers, manager *blog.Manager, m metrics.MetricsProviderInterface, conf *config.Config, log *logrus.Logger) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recoverer(log))
	router.Use(middleware.Metrics(m))
	router.Use(middleware.ContentTypeJSON)

	router.HandleFunc("/health", c.Health.Health).Methods("GET")
	router.Handle("/metrics", m.Handler()).Methods("GET")

	blogs := router.PathPrefix("/blogs/{blog}").Subrouter()
	blogs.Use(middleware.RequestLog(manager))

	blogs.HandleFunc("", c.Blog.Summary).Methods("GET")

	// Entries
	blogs.HandleFunc("/entries", c.Blog.Entries).Methods("GET")
	blogs.HandleFunc("/entries", c.Entry.Create).Methods("POST")
	blogs.HandleFunc("/entries/{id:[0-9]+}", c.Entry.Show).Methods("GET")
	blogs.HandleFunc("/entries/{id:[0-9]+}", c.Entry.Update).Methods("PUT")
	blogs.HandleFunc("/entries/{id:[0-9]+}", c.Entry.Delete).Methods("DELETE")
	blogs.HandleFunc("/entries/{id:[0-9]+}/previous", c.Entry.Previous).Methods("GET")
	blogs.HandleFunc("/entries/{id:[0-9]+}/next", c.Entry.Next).Methods("GET")
	blogs.HandleFunc("/entries/{id:[0-9]+}/publish", c.Entry.Publish).Methods("POST")

	// Responses, submissions are rate limited per client
	limit := middleware.RateLimit(conf.RateLimit.ResponsesPerMinute, conf.RateLimit.Burst, log)
	blogs.Handle("/entries/{id:[0-9]+}/comments", limit(http.HandlerFunc(c.Response.AddComment))).Methods("POST")
	blogs.Handle("/entries/{id:[0-9]+}/trackbacks", limit(http.HandlerFunc(c.Response.AddTrackBack))).Methods("POST")
	blogs.HandleFunc("/entries/{id:[0-9]+}/comments/{cid:[0-9]+}/{action:approve|reject}", c.Response.ModerateComment).Methods("PUT")
	blogs.HandleFunc("/entries/{id:[0-9]+}/trackbacks/{tid:[0-9]+}/{action:approve|reject}", c.Response.ModerateTrackBack).Methods("PUT")
	blogs.HandleFunc("/entries/{id:[0-9]+}/comments/{cid:[0-9]+}", c.Response.RemoveComment).Methods("DELETE")
	blogs.HandleFunc("/entries/{id:[0-9]+}/trackbacks/{tid:[0-9]+}", c.Response.RemoveTrackBack).Methods("DELETE")
	blogs.HandleFunc("/responses", c.Blog.Responses).Methods("GET")

	// Calendar
	blogs.HandleFunc("/archives/{year:[0-9]{4}}", c.Blog.Archive).Methods("GET")
	blogs.HandleFunc("/archives/{year:[0-9]{4}}/{month:[0-9]{2}}", c.Blog.Archive).Methods("GET")
	blogs.HandleFunc("/archives/{year:[0-9]{4}}/{month:[0-9]{2}}/{day:[0-9]{2}}", c.Blog.Archive).Methods("GET")
	blogs.HandleFunc("/{year:[0-9]{4}}/{month:[0-9]{2}}/{day:[0-9]{2}}/{slug}", c.Blog.Permalink).Methods("GET")

	// Tags and categories
	blogs.HandleFunc("/tags", c.Blog.Tags).Methods("GET")
	blogs.HandleFunc("/tags/{tag}", c.Blog.Tag).Methods("GET")
	blogs.HandleFunc("/categories", c.Category.Index).Methods("GET")
	blogs.HandleFunc("/categories", c.Category.Create).Methods("POST")
	blogs.HandleFunc("/categories/{id:.+}", c.Category.Delete).Methods("DELETE")

	blogs.HandleFunc("/search", c.Blog.Search).Methods("GET")
	blogs.HandleFunc("/drafts", c.Blog.Drafts).Methods("GET")
	blogs.HandleFunc("/templates", c.Blog.Templates).Methods("GET")
	blogs.HandleFunc("/pages", c.Blog.Pages).Methods("GET")

	return router
}
