package main

import (
    "log"
    "net/http"

    "github.com/joho/godotenv"

    "github.com/circlearena/circlearena-backend/config"
    "github.com/circlearena/circlearena-backend/game"
    "github.com/circlearena/circlearena-backend/handlers"
    "github.com/circlearena/circlearena-backend/repository"
)

func main() {
    if err := godotenv.Load(); err != nil {
        log.Fatal("Error loading .env file:", err)
    }

    cfg := config.LoadConfig()
    users := repository.NewUserStore(cfg.UsersFile)

    hub := handlers.NewHub(game.NewWorld(), cfg.ValidateCollisions)
    go hub.Run()

    h := handlers.New(cfg, users, hub)

    log.Printf("Server running at http://localhost:%s", cfg.Port)
    log.Fatal(http.ListenAndServe(":"+cfg.Port, h.NewRouter()))
}
