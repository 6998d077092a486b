package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/lfcamara/user-auth-service/internal/config"
	"github.com/lfcamara/user-auth-service/internal/database"
	"github.com/lfcamara/user-auth-service/internal/handler"
	"github.com/lfcamara/user-auth-service/internal/notifier"
	"github.com/lfcamara/user-auth-service/internal/repository"
	"github.com/lfcamara/user-auth-service/internal/router"
	"github.com/lfcamara/user-auth-service/internal/service"
	"github.com/lfcamara/user-auth-service/internal/utils"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, "migrations"); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	hasher := utils.NewBcryptHasher(cfg.BcryptCost)
	mailer := notifier.NewAMQPPublisher(cfg.AMQPURL)

	auth := service.NewAuthService(cfg, users, tokens, hasher, mailer)

	// Background delivery worker for queued recovery emails.
	go func() {
		if err := notifier.StartEmailConsumer(cfg.AMQPURL); err != nil {
			log.Printf("email consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, handler.NewAuthHandler(auth), handler.NewUsersHandler(users), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
