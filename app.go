package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yeremiapane/tableorder/config"
	"github.com/yeremiapane/tableorder/database"
	"github.com/yeremiapane/tableorder/kds"
	"github.com/yeremiapane/tableorder/services"
	"github.com/yeremiapane/tableorder/utils"
)

// app is the wired service graph shared by the commands.
type app struct {
	cfg      *config.Config
	db       *gorm.DB
	hub      *kds.Hub
	relay    *kds.RedisRelay
	redis    *redis.Client
	sessions *services.SessionService
	orders   *services.OrderService
	menu     *services.MenuService
}

func newApp(cfg *config.Config, db *gorm.DB, clock services.Clock) *app {
	a := &app{cfg: cfg, db: db, hub: kds.NewHub(kds.DefaultQueueSize)}

	var events services.Publisher = a.hub
	if cfg.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		a.relay = kds.NewRedisRelay(a.hub, a.redis)
		events = a.relay
	}

	tables := database.NewTableRepo(db)
	menus := database.NewMenuRepo(db)
	a.sessions = services.NewSessionService(tables, clock, events)
	a.orders = services.NewOrderService(database.NewOrderRepo(db), menus, a.sessions, clock, events)
	a.menu = services.NewMenuService(menus, tables)
	return a
}

// bootstrap loads configuration, connects and migrates the database.
func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	utils.InitLogger(cfg.LogLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return newApp(cfg, db, services.SystemClock{}), nil
}

// startRelay runs the Redis relay in the background when one is configured.
func (a *app) startRelay(ctx context.Context) error {
	if a.relay == nil {
		return nil
	}
	if err := a.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis at %s: %w", a.cfg.RedisAddr, err)
	}
	go func() {
		if err := a.relay.Run(ctx); err != nil && ctx.Err() == nil {
			utils.ErrorLogger.Printf("Redis relay stopped: %v", err)
		}
	}()
	return nil
}

func (a *app) close() {
	a.hub.Close()
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
