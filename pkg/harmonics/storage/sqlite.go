//go:build !js && !wasm
// +build !js,!wasm

// Package storage keeps rendered harmonic charts in a SQLite catalog.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	customlogger "github.com/himanishpuri/StringHarmonics/pkg/logger"
)

const DefaultDBFile = "harmonics.sqlite3"
const errDBClientNil = "db client is nil"

var ErrChartNotFound = errors.New("chart not found")

// Chart kinds.
const (
	KindHarmonics = "harmonics"
	KindNotes     = "notes"
)

type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

// Chart is a rendered report together with the query that produced it.
type Chart struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Kind        string    `gorm:"index:idx_chart_kind" json:"kind"`
	Title       string    `json:"title"`
	Strings     string    `json:"strings"`         // comma-separated open strings
	Notes       string    `json:"notes,omitempty"` // comma-separated targets of a notes chart
	MaxHarmonic int       `json:"max_harmonic"`
	Region      int       `json:"region"`
	Body        string    `gorm:"type:text" json:"body"`
	Markdown    string    `gorm:"type:text" json:"markdown"`
	CreatedAt   time.Time `gorm:"index:idx_chart_created" json:"created_at"`
}

func NewDBClient() (*DBClient, error) {
	dbPath := os.Getenv("HARMONICS_DB_PATH")
	if dbPath == "" {
		dbPath = DefaultDBFile
	}
	return NewDBClientWithPath(dbPath)
}

func NewDBClientWithPath(dbPath string) (*DBClient, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !os.IsExist(err) {
		if filepath.Dir(dbPath) != "." {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Chart{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	customlogger.GetLogger().Debugf("Chart catalog opened at %s", dbPath)
	return &DBClient{DB: db, db: sqlDB}, nil
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// SaveChart stores chart, assigning a new id when it has none, and returns
// the id.
func (c *DBClient) SaveChart(chart *Chart) (string, error) {
	if c == nil || c.DB == nil {
		return "", errors.New(errDBClientNil)
	}
	if chart == nil {
		return "", errors.New("chart is nil")
	}
	if chart.ID == "" {
		chart.ID = uuid.NewString()
	}
	if err := c.DB.Create(chart).Error; err != nil {
		return "", fmt.Errorf("creating chart: %w", err)
	}
	return chart.ID, nil
}

func (c *DBClient) GetChart(id string) (*Chart, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	var chart Chart
	if err := c.DB.Where("id = ?", id).First(&chart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrChartNotFound, id)
		}
		return nil, fmt.Errorf("querying chart %s: %w", id, err)
	}
	return &chart, nil
}

// ListCharts returns the newest charts first. An empty kind lists every
// kind; limit <= 0 means no limit. Bodies are not loaded.
func (c *DBClient) ListCharts(kind string, limit int) ([]Chart, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	q := c.DB.Model(&Chart{}).
		Select("id", "kind", "title", "strings", "notes", "max_harmonic", "region", "created_at").
		Order("created_at DESC").Order("id")
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var charts []Chart
	if err := q.Find(&charts).Error; err != nil {
		return nil, fmt.Errorf("listing charts: %w", err)
	}
	return charts, nil
}

func (c *DBClient) DeleteChart(id string) error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}
	res := c.DB.Where("id = ?", id).Delete(&Chart{})
	if res.Error != nil {
		return fmt.Errorf("deleting chart %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrChartNotFound, id)
	}
	return nil
}

func (c *DBClient) CountCharts() (int64, error) {
	if c == nil || c.DB == nil {
		return 0, errors.New(errDBClientNil)
	}
	var count int64
	if err := c.DB.Model(&Chart{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting charts: %w", err)
	}
	return count, nil
}
