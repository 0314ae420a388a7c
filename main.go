package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipepress/comments"
	"recipepress/db"
	"recipepress/globals"
	"recipepress/logging"
	"recipepress/media"
	"recipepress/metadata"
	"recipepress/mq"
	"recipepress/posts"
	"recipepress/ratelim"
	"recipepress/ratings"
	"recipepress/rdx"
	"recipepress/recipes"
	"recipepress/routes"
	"recipepress/settings"
	"recipepress/terms"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs each request method, path, status and duration.
func loggingMiddleware(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func main() {
	globals.LoadEnv()

	log, err := logging.Init(globals.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Connect(ctx, globals.MongoURI, globals.MongoDB); err != nil {
		log.Fatal("mongo", zap.Error(err))
	}
	if err := db.CreateIndexes(ctx); err != nil {
		log.Warn("create indexes", zap.Error(err))
	}
	if err := rdx.Connect(ctx, globals.RedisAddr, globals.RedisPass); err != nil {
		log.Fatal("redis", zap.Error(err))
	}

	cache := rdx.NewRedisCache(rdx.Conn)
	events := &mq.RedisEmitter{Client: rdx.Conn}

	metaStore := metadata.NewMongoStore(db.PostMetaCollection)
	commentStore := comments.NewMongoStore(db.CommentsCollection)
	termStore := terms.NewCached(terms.NewMongoStore(db.TermsCollection, db.TermRelationsCollection), 5*time.Minute)
	go mq.StartInvalidationWorker(ctx, rdx.Conn, cache, termStore)
	mediaStore := media.NewMongoStore(db.MediaCollection)
	settingsStore := settings.NewMongoStore(db.OptionsCollection)
	ratingService := ratings.NewService(commentStore, metaStore, events)

	handlers := routes.Handlers{
		Recipes: &recipes.Handler{
			Posts:    posts.NewMongoStore(db.PostsCollection),
			Meta:     metaStore,
			Terms:    termStore,
			Media:    mediaStore,
			Settings: settingsStore,
			Ratings:  ratingService,
			Comments: commentStore,
			Cache:    cache,
			Events:   events,
			SiteURL:  globals.SiteURL,
			CacheTTL: time.Hour,
		},
		Comments: &comments.Handler{Store: commentStore, Ratings: ratingService, Events: events},
		Terms:    &terms.Handler{Store: termStore, Events: events},
		Settings: &settings.Handler{Store: settingsStore, Events: events, SiteURL: globals.SiteURL},
		Media:    &media.Handler{Store: mediaStore, UploadDir: globals.UploadDir, BaseURL: globals.SiteURL + "/static/uploads"},
	}

	// 10 comments a minute per IP
	rateLimiter := ratelim.NewRateLimiter(10, 5)
	go func() {
		t := time.NewTicker(5 * time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				rateLimiter.Cleanup(10 * time.Minute)
			}
		}
	}()

	router := httprouter.New()
	router.GET("/health", Index)
	routes.RoutesWrapper(router, handlers, globals.UploadDir, rateLimiter)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "If-None-Match"},
		ExposedHeaders:   []string{"ETag"},
		AllowCredentials: true,
	}).Handler(router)

	server := &http.Server{
		Addr:              globals.Port,
		Handler:           loggingMiddleware(log, securityHeaders(corsHandler)),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", globals.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received; shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := rdx.Close(); err != nil {
		log.Warn("close redis", zap.Error(err))
	}
	if err := db.Disconnect(shutdownCtx); err != nil {
		log.Warn("disconnect mongo", zap.Error(err))
	}
	log.Info("server stopped cleanly")
}
