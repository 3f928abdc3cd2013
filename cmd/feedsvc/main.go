package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/gameshelf/gameshelf-services/configs"
	"github.com/gameshelf/gameshelf-services/internal/db"
	"github.com/gameshelf/gameshelf-services/internal/feedsvc/broker"
	svcconfig "github.com/gameshelf/gameshelf-services/internal/feedsvc/config"
	handlers "github.com/gameshelf/gameshelf-services/internal/feedsvc/handlers"
	"github.com/gameshelf/gameshelf-services/internal/feedsvc/service"
	"github.com/gameshelf/gameshelf-services/internal/feedsvc/store"
	"github.com/gameshelf/gameshelf-services/internal/media"
	natscli "github.com/gameshelf/gameshelf-services/internal/nats"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "feed"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	cfg := svcconfig.Load()

	// mongo connection
	database, cancelDB, err := db.ConnectToDB()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer cancelDB()
	log.Printf("mongo connection established successfully")

	db.CreateFeedIndexForCollection(database, "games")
	db.CreateOwnerIndexForCollection(database, "games")

	gameStore := store.NewGameStore(database)
	userStore := store.NewUserStore(database)

	mediaStore, err := media.NewStore()
	if err != nil {
		log.Fatalf("Failed to init media store: %v", err)
	}

	// Connect to NATS for lifecycle events; the feed works without it
	var events service.EventPublisher
	if cfg.NatsURL != "" {
		n, err := natscli.Connect()
		if err != nil {
			log.Warnf("unable to connect to NATS server, events disabled %v", err)
		} else {
			defer n.Conn.Close()
			log.Printf("NATS connection established successfully %s", n.Url)
			events = broker.NewBroker(n.Conn)
		}
	}

	feedService := service.NewFeedService(gameStore, userStore, mediaStore, events, cfg.MaxPageLimit)

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	if cfg.RateLimit <= 0 {
		log.Fatalf("Invalid RATE_LIMIT value: %d", cfg.RateLimit)
	}
	r.Use(httprate.LimitByIP(cfg.RateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(feedService, userStore)
	h.InitAuth()
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
