package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/tableorder/kds"
	"github.com/yeremiapane/tableorder/models"
	"github.com/yeremiapane/tableorder/utils"
)

// SessionService decides which tables may take orders. Every answer is read
// through to the store against the injected clock.
type SessionService struct {
	tables TableStore
	clock  Clock
	events Publisher
}

func NewSessionService(tables TableStore, clock Clock, events Publisher) *SessionService {
	if clock == nil {
		clock = SystemClock{}
	}
	if events == nil {
		events = noopPublisher{}
	}
	return &SessionService{tables: tables, clock: clock, events: events}
}

// BulkResult is the outcome for one table of a bulk session operation.
type BulkResult struct {
	TableID     uint          `json:"table_id"`
	TableNumber int           `json:"table_number"`
	Success     bool          `json:"success"`
	Error       string        `json:"error,omitempty"`
	Code        string        `json:"code,omitempty"`
	Table       *models.Table `json:"table,omitempty"`
	Err         error         `json:"-"`
}

type SessionView struct {
	TableID          uint                `json:"table_id"`
	TableNumber      int                 `json:"table_number"`
	Capacity         int                 `json:"capacity"`
	Location         string              `json:"location"`
	IsActive         bool                `json:"is_active"`
	State            models.SessionState `json:"state"`
	MinutesRemaining int                 `json:"minutes_remaining"`
	ExpiresAt        *time.Time          `json:"expires_at"`
	ActivatedBy      string              `json:"activated_by"`
	Orderable        bool                `json:"orderable"`
}

type SessionSummary struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Expiring int `json:"expiring"`
	Expired  int `json:"expired"`
	Inactive int `json:"inactive"`
}

type SessionOverview struct {
	Tables  []SessionView  `json:"tables"`
	Summary SessionSummary `json:"summary"`
}

// enabledTable loads a table and hides admin-disabled ones.
func (s *SessionService) enabledTable(ctx context.Context, tableID uint) (*models.Table, error) {
	table, err := s.tables.FindByID(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if !table.IsActive {
		return nil, fmt.Errorf("table %d is disabled: %w", tableID, utils.ErrNotFound)
	}
	return table, nil
}

// Activate opens an ordering session on the table. A zero duration means no
// expiry. Activating an already active table resets owner and expiry.
func (s *SessionService) Activate(ctx context.Context, tableID uint, activatedBy string, duration time.Duration) (*models.Table, error) {
	if duration < 0 {
		return nil, fmt.Errorf("%w: negative session duration %s", utils.ErrInvalidArgument, duration)
	}
	if _, err := s.enabledTable(ctx, tableID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var expiresAt *time.Time
	if duration > 0 {
		exp := now.Add(duration)
		expiresAt = &exp
	}

	table, err := s.tables.UpdateSession(ctx, tableID, true, expiresAt, activatedBy, now)
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"table_id":     table.ID,
		"table_number": table.TableNumber,
		"activated_by": activatedBy,
		"expires_at":   expiresAt,
	}).Info("table session activated")
	s.events.Publish(ctx, kds.TableSession(table))
	return table, nil
}

// Deactivate closes the session. Deactivating an inactive table succeeds.
func (s *SessionService) Deactivate(ctx context.Context, tableID uint) (*models.Table, error) {
	if _, err := s.enabledTable(ctx, tableID); err != nil {
		return nil, err
	}

	table, err := s.tables.UpdateSession(ctx, tableID, false, nil, "", s.clock.Now())
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"table_id":     table.ID,
		"table_number": table.TableNumber,
	}).Info("table session deactivated")
	s.events.Publish(ctx, kds.TableSession(table))
	return table, nil
}

// Extend pushes the expiry of a live session back by additional. An
// unlimited session gets a bounded expiry of now plus additional.
func (s *SessionService) Extend(ctx context.Context, tableID uint, additional time.Duration) (*models.Table, error) {
	if additional <= 0 {
		return nil, fmt.Errorf("%w: extension must be positive, got %s", utils.ErrInvalidArgument, additional)
	}
	table, err := s.enabledTable(ctx, tableID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !table.SessionValidAt(now) {
		return nil, fmt.Errorf("table %d has no live session: %w", tableID, utils.ErrInvalidState)
	}

	var exp time.Time
	if table.SessionExpiresAt == nil {
		exp = now.Add(additional)
	} else {
		exp = table.SessionExpiresAt.Add(additional)
	}

	updated, err := s.tables.UpdateSession(ctx, tableID, true, &exp, table.ActivatedBy, now)
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"table_id":   updated.ID,
		"expires_at": exp,
	}).Info("table session extended")
	s.events.Publish(ctx, kds.TableSession(updated))
	return updated, nil
}

// OrderableTable returns the table when it accepts orders right now, and
// ErrTableNotOrderable when it exists but does not.
func (s *SessionService) OrderableTable(ctx context.Context, restaurantID uint, tableNumber int) (*models.Table, error) {
	table, err := s.tables.FindByNumber(ctx, restaurantID, tableNumber)
	if err != nil {
		return nil, err
	}
	if !table.AcceptsOrdersAt(s.clock.Now()) {
		return nil, fmt.Errorf("table %d: %w", tableNumber, utils.ErrTableNotOrderable)
	}
	return table, nil
}

func (s *SessionService) IsOrderable(ctx context.Context, restaurantID uint, tableNumber int) (bool, error) {
	table, err := s.tables.FindByNumber(ctx, restaurantID, tableNumber)
	if err != nil {
		return false, err
	}
	return table.AcceptsOrdersAt(s.clock.Now()), nil
}

// BulkActivate activates every table of the restaurant independently. A
// failing table does not stop or undo the others.
func (s *SessionService) BulkActivate(ctx context.Context, restaurantID uint, duration time.Duration, activatedBy string) ([]BulkResult, error) {
	if duration < 0 {
		return nil, fmt.Errorf("%w: negative session duration %s", utils.ErrInvalidArgument, duration)
	}
	return s.bulk(ctx, restaurantID, func(id uint) (*models.Table, error) {
		return s.Activate(ctx, id, activatedBy, duration)
	})
}

func (s *SessionService) BulkDeactivate(ctx context.Context, restaurantID uint) ([]BulkResult, error) {
	return s.bulk(ctx, restaurantID, func(id uint) (*models.Table, error) {
		return s.Deactivate(ctx, id)
	})
}

func (s *SessionService) bulk(ctx context.Context, restaurantID uint, apply func(id uint) (*models.Table, error)) ([]BulkResult, error) {
	tables, err := s.tables.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	results := make([]BulkResult, 0, len(tables))
	failed := 0
	for _, t := range tables {
		res := BulkResult{TableID: t.ID, TableNumber: t.TableNumber}
		table, err := apply(t.ID)
		if err != nil {
			failed++
			res.Err = err
			res.Error = err.Error()
			res.Code = utils.ErrorCode(err)
		} else {
			res.Success = true
			res.Table = table
		}
		results = append(results, res)
	}

	if failed > 0 {
		utils.ErrorLogger.Printf("Bulk session update for restaurant %d: %d of %d tables failed", restaurantID, failed, len(tables))
	}
	return results, nil
}

// Sessions lists every table of the restaurant with its session state.
func (s *SessionService) Sessions(ctx context.Context, restaurantID uint) (*SessionOverview, error) {
	tables, err := s.tables.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	overview := &SessionOverview{Tables: make([]SessionView, 0, len(tables))}
	for i := range tables {
		view := viewOf(&tables[i], now)
		overview.Tables = append(overview.Tables, view)

		overview.Summary.Total++
		switch view.State {
		case models.SessionActive:
			overview.Summary.Active++
		case models.SessionExpiring:
			overview.Summary.Active++
			overview.Summary.Expiring++
		case models.SessionExpired:
			overview.Summary.Expired++
		default:
			overview.Summary.Inactive++
		}
	}
	return overview, nil
}

// TableSession is the session view customers get for their table.
func (s *SessionService) TableSession(ctx context.Context, restaurantID uint, tableNumber int) (*SessionView, error) {
	table, err := s.tables.FindByNumber(ctx, restaurantID, tableNumber)
	if err != nil {
		return nil, err
	}
	view := viewOf(table, s.clock.Now())
	return &view, nil
}

func viewOf(t *models.Table, now time.Time) SessionView {
	state, minutes := t.SessionStateAt(now)
	return SessionView{
		TableID:          t.ID,
		TableNumber:      t.TableNumber,
		Capacity:         t.Capacity,
		Location:         t.Location,
		IsActive:         t.IsActive,
		State:            state,
		MinutesRemaining: minutes,
		ExpiresAt:        t.SessionExpiresAt,
		ActivatedBy:      t.ActivatedBy,
		Orderable:        t.AcceptsOrdersAt(now),
	}
}
