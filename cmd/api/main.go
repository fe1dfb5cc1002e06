package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/pimpraxis/therapy-scheduler/internal/config"
	dbpkg "github.com/pimpraxis/therapy-scheduler/internal/db"
	infraRepo "github.com/pimpraxis/therapy-scheduler/internal/infra/repository"
	"github.com/pimpraxis/therapy-scheduler/internal/jobs"
	"github.com/pimpraxis/therapy-scheduler/internal/routes"
	"github.com/pimpraxis/therapy-scheduler/internal/store"
)

func main() {

	_ = godotenv.Load()

	cfg := config.Load()
	s := store.New(dbpkg.NewDynamoClient(), cfg.TableName)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, s, cfg)

	scheduler := jobs.StartScheduler(jobs.NewSweeper(infraRepo.NewAppointmentDynamoRepository(s)))
	defer scheduler.Stop()

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
