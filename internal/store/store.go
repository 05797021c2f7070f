package store

import (
	"database/sql"
	"net/http"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "modernc.org/sqlite"

	"github.com/pixelcanvas/pixels/internal/yaerrors"
)

// Store wraps the gorm handle shared by every relational repository.
type Store struct {
	DB *gorm.DB
}

// Open connects to dsn using the Postgres driver, runs migrations, and seeds
// the singleton cache_state row if it does not already exist.
func Open(dsn string) (*Store, yaerrors.Error) {
	return open(postgres.Open(dsn))
}

// OpenSQLite connects to an in-memory or file-backed SQLite database using
// the driverless modernc.org/sqlite engine, going through the same
// migration path as Open. Intended for tests.
func OpenSQLite(dsn string) (*Store, yaerrors.Error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"store: failed to open sqlite database",
		)
	}

	return open(sqlite.Dialector{Conn: sqlDB, DriverName: "sqlite"})
}

func open(dialector gorm.Dialector) (*Store, yaerrors.Error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"store: failed to open database connection",
		)
	}

	if err := db.AutoMigrate(&User{}, &PixelHistory{}, &CacheState{}); err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"store: failed to auto migrate",
		)
	}

	s := &Store{DB: db}

	if err := s.seedCacheState(); err != nil {
		return nil, err.Wrap("store: failed to seed cache state")
	}

	return s, nil
}

func (s *Store) seedCacheState() yaerrors.Error {
	var count int64

	if err := s.DB.Model(&CacheState{}).Count(&count).Error; err != nil {
		return yaerrors.FromError(http.StatusInternalServerError, err, "count cache state rows")
	}

	if count > 0 {
		return nil
	}

	if err := s.DB.Create(&CacheState{ID: SingletonCacheStateID}).Error; err != nil {
		return yaerrors.FromError(http.StatusInternalServerError, err, "seed cache state row")
	}

	return nil
}

// Close releases the underlying database connection.
func (s *Store) Close() yaerrors.Error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return yaerrors.FromError(http.StatusInternalServerError, err, "store: get sql.DB")
	}

	if err := sqlDB.Close(); err != nil {
		return yaerrors.FromError(http.StatusInternalServerError, err, "store: close connection")
	}

	return nil
}
