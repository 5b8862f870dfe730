// Package domain defines the persistence models for campaign groups, target
// users, and email receipts. These types are mapped with GORM and form the
// core data layer of the phishing-simulation backend.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ClickComment is the fixed annotation stored with every recorded click.
const ClickComment = "User clicked the phishing link"

// Result is a single recorded interaction (click) by one target with one
// template. Results are embedded in their Group as a JSON array and are only
// ever written by replacing the whole array; individual fields are never
// patched in place.
//
// Fields:
//   - ID: client-supplied unique token for the click event (server-generated
//     when the client omits it, so it is always present in storage).
//   - User: target identifier; not required to exist in the user directory.
//   - Username: denormalized display name resolved best-effort at write time;
//     empty string when resolution fails.
//   - TemplateID: the simulated email/page variant that was clicked.
//   - Comment: fixed annotation (ClickComment).
//   - UpdatedAt: timestamp of this write, RFC3339 UTC.
type Result struct {
	ID         string    `json:"id"`
	User       string    `json:"user"`
	Username   string    `json:"username"`
	TemplateID string    `json:"templateId"`
	Comment    string    `json:"comment"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ResultList is the JSON-encoded sequence of Results stored on a Group row.
// It implements driver.Valuer and sql.Scanner so GORM persists it as a single
// TEXT column, mirroring the document-style layout of the original store.
type ResultList []Result

// Value serializes the list to JSON for storage. A nil list is stored as an
// empty array rather than NULL so reads always yield a usable slice.
func (r ResultList) Value() (driver.Value, error) {
	if r == nil {
		r = ResultList{}
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan deserializes a JSON column value into the list. NULL and empty values
// scan to an empty list.
func (r *ResultList) Scan(src any) error {
	if src == nil {
		*r = ResultList{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("domain: unsupported source type for ResultList")
	}
	if len(b) == 0 {
		*r = ResultList{}
		return nil
	}
	return json.Unmarshal(b, r)
}

// Group represents a cohort of phishing-simulation targets sharing one set of
// tracked results.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Name: operator-facing label for the campaign cohort.
//   - Results: JSON array of Result; at most one entry per distinct
//     (User, TemplateID) pair at any time. Always replaced wholesale.
//   - Version: optimistic-concurrency counter. Every results write must name
//     the version it read; a stale write affects zero rows and is retried
//     from a fresh read (see repo.UpdateGroupResults).
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker.
type Group struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	Name      string         `json:"name"       gorm:"type:varchar(255);not null;default:''"`
	Results   ResultList     `json:"results"    gorm:"type:text;not null"`
	Version   int64          `json:"-"          gorm:"not null;default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Group.
func (Group) TableName() string { return "groups" }

// TargetUser is an entry in the user directory: a simulation target whose
// display name is denormalized into Results at click time. Directory lookups
// are best-effort; a missing or failing row never blocks click recording.
type TargetUser struct {
	ID          string         `json:"id"           gorm:"type:char(36);primaryKey"`
	DisplayName string         `json:"display_name" gorm:"type:varchar(255);not null;default:''"`
	Email       string         `json:"email"        gorm:"type:varchar(255);not null;default:'';index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"            gorm:"index"`
}

// TableName returns the database table name for TargetUser.
func (TargetUser) TableName() string { return "users" }
