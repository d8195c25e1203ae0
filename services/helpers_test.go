package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/tableorder/database"
	"github.com/yeremiapane/tableorder/kds"
	"github.com/yeremiapane/tableorder/services"
	"github.com/yeremiapane/tableorder/testhelpers"
)

var t0 = time.Date(2024, 5, 17, 18, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []kds.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev kds.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) kinds() []kds.EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]kds.EventKind, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Kind
	}
	return out
}

type engine struct {
	db       *gorm.DB
	fx       *testhelpers.Fixture
	clock    *services.ManualClock
	pub      *recordingPublisher
	tables   *database.TableRepo
	orderDB  *database.OrderRepo
	sessions *services.SessionService
	orders   *services.OrderService
	menu     *services.MenuService
}

func newEngine(t *testing.T, tables int) *engine {
	t.Helper()
	db := testhelpers.NewDB(t)
	e := &engine{
		db:      db,
		fx:      testhelpers.Seed(t, db, tables),
		clock:   services.NewManualClock(t0),
		pub:     &recordingPublisher{},
		tables:  database.NewTableRepo(db),
		orderDB: database.NewOrderRepo(db),
	}
	menus := database.NewMenuRepo(db)
	e.sessions = services.NewSessionService(e.tables, e.clock, e.pub)
	e.orders = services.NewOrderService(e.orderDB, menus, e.sessions, e.clock, e.pub)
	e.menu = services.NewMenuService(menus, e.tables)
	return e
}
