// Package history records directories the user jumped to, so the widget
// can surface recently visited entries first. Storage failures are never
// fatal to a completion: the widget degrades to plain enumeration order.
package history

import (
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Manager struct {
	db *gorm.DB
}

// VisitEntry is one accepted completion result.
type VisitEntry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`

	// Path is the absolute literal path that was accepted.
	Path string `gorm:"index"`

	// Parent is the directory containing Path, used to rank candidates
	// while completing inside Parent.
	Parent string `gorm:"index"`

	// Name is the entry name within Parent.
	Name string
}

// NewManager opens (and migrates) the visit database at dbFilePath.
func NewManager(dbFilePath string) (*Manager, error) {
	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&VisitEntry{}); err != nil {
		return nil, err
	}

	return &Manager{db: db}, nil
}

// RecordVisit stores an accepted result path.
func (m *Manager) RecordVisit(path, parent, name string) error {
	entry := VisitEntry{Path: path, Parent: parent, Name: name}
	return m.db.Create(&entry).Error
}

// RecentNames returns the names most recently visited under parent, newest
// first, deduplicated.
func (m *Manager) RecentNames(parent string, limit int) ([]string, error) {
	var entries []VisitEntry
	result := m.db.
		Where("parent = ?", parent).
		Order("id desc").
		Limit(limit * 4). // over-fetch, duplicates collapse below
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	seen := make(map[string]bool, len(entries))
	names := make([]string, 0, limit)
	for _, e := range entries {
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		names = append(names, e.Name)
		if len(names) >= limit {
			break
		}
	}
	return names, nil
}

// RecentPaths returns the most recently visited paths across all parents,
// newest first, deduplicated.
func (m *Manager) RecentPaths(limit int) ([]string, error) {
	var entries []VisitEntry
	result := m.db.
		Order("id desc").
		Limit(limit * 4).
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	seen := make(map[string]bool, len(entries))
	paths := make([]string, 0, limit)
	for _, e := range entries {
		if seen[e.Path] {
			continue
		}
		seen[e.Path] = true
		paths = append(paths, e.Path)
		if len(paths) >= limit {
			break
		}
	}
	return paths, nil
}
