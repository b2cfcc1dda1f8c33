package main

import (
	"context"
	"log"

	"machinaka-be/internal/bootstrap"
	"machinaka-be/internal/config"
	"machinaka-be/internal/server"
	"machinaka-be/internal/tracer"
	"machinaka-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database (optional; empty DSN means in-memory mode)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		var err error
		gormDB, err = database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer func() {
		if container.NatsPub != nil {
			container.NatsPub.Close()
		}
		if container.NatsSub != nil {
			container.NatsSub.Close()
		}
		container.Logger.Sync()
	}()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
