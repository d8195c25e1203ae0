package models

import "time"

// ExpiringWindow is how close to expiry a session is flagged to staff.
const ExpiringWindow = 30 * time.Minute

type SessionState string

const (
	SessionInactive SessionState = "inactive"
	SessionActive   SessionState = "active"
	SessionExpiring SessionState = "expiring"
	SessionExpired  SessionState = "expired"
)

type Table struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	RestaurantID     uint       `gorm:"not null;uniqueIndex:idx_restaurant_table_number,priority:1" json:"restaurant_id"`
	TableNumber      int        `gorm:"not null;uniqueIndex:idx_restaurant_table_number,priority:2" json:"table_number"`
	Capacity         int        `gorm:"not null" json:"capacity"`
	Location         string     `gorm:"type:varchar(100)" json:"location"`
	IsActive         bool       `gorm:"not null" json:"is_active"`
	SessionActive    bool       `gorm:"not null" json:"session_active"`
	SessionExpiresAt *time.Time `json:"session_expires_at"`
	ActivatedBy      string     `gorm:"type:varchar(100)" json:"activated_by"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updated_at"`
}

// SessionValidAt reports whether the session window is open at now.
// Expiry is evaluated lazily; nothing flips session_active when it passes.
func (t *Table) SessionValidAt(now time.Time) bool {
	if !t.SessionActive {
		return false
	}
	return t.SessionExpiresAt == nil || t.SessionExpiresAt.After(now)
}

// AcceptsOrdersAt combines the permanent active flag with the session window.
func (t *Table) AcceptsOrdersAt(now time.Time) bool {
	return t.IsActive && t.SessionValidAt(now)
}

// SessionStateAt classifies the session for staff displays, together with the
// whole minutes left. Minutes is -1 when the session has no expiry.
func (t *Table) SessionStateAt(now time.Time) (SessionState, int) {
	if !t.SessionActive {
		return SessionInactive, 0
	}
	if t.SessionExpiresAt == nil {
		return SessionActive, -1
	}
	left := t.SessionExpiresAt.Sub(now)
	if left <= 0 {
		return SessionExpired, 0
	}
	minutes := int(left / time.Minute)
	if left <= ExpiringWindow {
		return SessionExpiring, minutes
	}
	return SessionActive, minutes
}
