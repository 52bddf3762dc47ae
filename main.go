package main

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"golfpos/api"
	"golfpos/internal/config"
)

func main() {
	cfg := config.Load()

	r := gin.Default()
	if err := api.InitRoutes(r, cfg); err != nil {
		panic(fmt.Errorf("error wiring routes: %v", err))
	}

	if err := r.Run(fmt.Sprintf(":%d", cfg.ServerPort)); err != nil {
		panic(fmt.Errorf("error trying to start server: %v", err))
	}
}
