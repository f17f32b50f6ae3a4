package cmd

import (
	"context"
	"fmt"
	"time"

	"quiniela/application"
	"quiniela/config"
	"quiniela/database"
	"quiniela/domain/interfaces"
	"quiniela/infrastructure"
	"quiniela/repository"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the lifecycle engine
func Run(ctx context.Context) error {
	log.Info("Starting quiniela lifecycle engine...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	// The audit sink is optional: without NATS_SERVERS the engine runs with
	// audit records dropped.
	var auditPublisher interfaces.AuditPublisher
	var natsConn *nats.Conn
	if cfg.NATSServers != "" {
		natsConn, err = infrastructure.ConnectNATS(cfg.NATSServers)
		if err != nil {
			return fmt.Errorf("failed to connect audit sink: %w", err)
		}
		defer natsConn.Close()
		auditPublisher = infrastructure.NewNATSAuditPublisher(natsConn)
	} else {
		log.Warn("NATS_SERVERS not set, audit records will be dropped")
		auditPublisher = infrastructure.NewNoopAuditPublisher()
	}

	uowFactory := repository.NewUnitOfWorkFactory(db, infrastructure.NewAuditPublisherFactory(auditPublisher))
	engine := application.NewEngine(uowFactory)

	sweepWorker := application.NewStateSweepWorker(engine, cfg.SweepInterval)
	stopSweep := sweepWorker.Start(ctx)

	log.Infof("Engine is running in %s mode", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down...")

	// Join the in-flight sweep cycle, bounded so a wedged transaction cannot
	// hang shutdown
	stopped := make(chan struct{})
	go func() {
		stopSweep()
		close(stopped)
	}()

	select {
	case <-stopped:
		log.Info("Shutdown complete")
	case <-time.After(10 * time.Second):
		log.Warn("Shutdown timeout exceeded")
	}

	return nil
}
