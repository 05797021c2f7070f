// Package store holds the gorm models and repositories backing the
// relational, authoritative half of the canvas's two-tier cache: pixel
// history, user accounts, and the singleton cache coordination row.
package store

import "time"

// User is a registered canvas participant, identified by the external
// identity provider's id. KeySalt is embedded in every minted token; rotating
// it invalidates every token issued before the rotation.
type User struct {
	UserID   int64  `gorm:"primaryKey;autoIncrement:false"`
	KeySalt  string `gorm:"size:22;not null"`
	IsMod    bool   `gorm:"not null;default:false"`
	IsBanned bool   `gorm:"not null;default:false"`
}

func (User) TableName() string { return "users" }

// PixelHistory is an append-only log of placements. The current pixel at
// (X, Y) is the highest-id non-deleted row for that coordinate; rows are
// never mutated except Deleted, which a moderator ban cascade flips to true.
type PixelHistory struct {
	PixelHistoryID uint64    `gorm:"primaryKey;autoIncrement"`
	X              int       `gorm:"not null;index:idx_pixel_history_coord"`
	Y              int       `gorm:"not null;index:idx_pixel_history_coord"`
	RGB            string    `gorm:"size:6;not null"`
	UserID         int64     `gorm:"not null;index"`
	Deleted        bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime"`
}

func (PixelHistory) TableName() string { return "pixel_history" }

// CacheState is the singleton row coordinating flat-buffer rebuilds across
// every server process sharing the canvas. LastModified advances on every
// write; LastSynced advances after a successful rebuild; SyncLock, when
// non-nil, marks that some worker currently holds the rebuild lock.
type CacheState struct {
	ID           uint8      `gorm:"primaryKey;autoIncrement:false"`
	LastModified time.Time  `gorm:"not null"`
	LastSynced   time.Time  `gorm:"not null"`
	SyncLock     *time.Time
}

func (CacheState) TableName() string { return "cache_state" }

// SingletonCacheStateID is the fixed primary key of the one CacheState row
// the table ever holds.
const SingletonCacheStateID uint8 = 1
