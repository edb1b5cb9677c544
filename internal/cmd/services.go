package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ScriptoWhisp/what-where-when-server/internal/engine"
	"github.com/ScriptoWhisp/what-where-when-server/internal/game"
	"github.com/ScriptoWhisp/what-where-when-server/internal/gamedb"
	"github.com/ScriptoWhisp/what-where-when-server/internal/gateway"
	"github.com/ScriptoWhisp/what-where-when-server/internal/outbox"
)

// Services holds all wired application components.
type Services struct {
	Games   *game.App
	Engine  *engine.Engine
	Gateway *gateway.Service
	Auth    *gateway.Authenticator

	ConnectionManager *ConnectionManagerRunner
	OutboxListener    *outbox.Listener
	OutboxPublisher   *outbox.JetStreamPublisher
	EventConsumer     *gateway.EventConsumer
}

// ConnectionManagerRunner pairs the manager with its broadcast loop.
type ConnectionManagerRunner struct {
	Manager *gateway.ConnectionManager
}

func setupServices(db *sql.DB, config *Config) (*Services, error) {
	queries := gamedb.New(db)

	engineRepo := engine.NewSQLRepository(db, queries)
	cache := engine.NewCache(engineRepo)
	outboxApp := outbox.NewApp(outbox.NewRepository(queries))
	eng := engine.NewEngine(engineRepo, outboxApp, cache, clockwork.NewRealClock())

	gameRepo := game.NewRepository(db, queries)
	gameApp := game.NewApp(gameRepo, rand.New(rand.NewSource(time.Now().UnixNano())))

	auth := gateway.NewAuthenticator(config.JWT.Secret)
	cm := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	gatewayService := gateway.NewService(eng, cm, auth)

	publisherCfg := outbox.DefaultJetStreamConfig()
	publisherCfg.URL = config.NATS.URL
	publisher, err := outbox.NewJetStreamPublisher(publisherCfg)
	if err != nil {
		return nil, fmt.Errorf("setup JetStream publisher: %w", err)
	}

	listenerCfg := outbox.DefaultListenerConfig()
	listenerCfg.DatabaseURL = databaseDSN()
	listenerCfg.NotifyChannel = config.Outbox.NotifyChannel
	listener, err := outbox.NewListener(outboxApp, publisher, listenerCfg)
	if err != nil {
		publisher.Close()
		return nil, fmt.Errorf("setup outbox listener: %w", err)
	}

	consumerCfg := gateway.DefaultJetStreamConsumerConfig()
	consumerCfg.URL = config.NATS.URL
	consumer, err := gateway.NewEventConsumer(cm, consumerCfg)
	if err != nil {
		publisher.Close()
		listener.Stop()
		return nil, fmt.Errorf("setup event consumer: %w", err)
	}

	return &Services{
		Games:             gameApp,
		Engine:            eng,
		Gateway:           gatewayService,
		Auth:              auth,
		ConnectionManager: &ConnectionManagerRunner{Manager: cm},
		OutboxListener:    listener,
		OutboxPublisher:   publisher,
		EventConsumer:     consumer,
	}, nil
}
