package store

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store wraps the GORM handle and hands out repositories.
type Store struct {
	db *gorm.DB
}

// Open connects to Postgres at dsn and runs auto-migration for the tables
// this subsystem owns.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db}, nil
}

func migrate(db *gorm.DB) error {
	for _, src := range []Source{SourceBank, SourceQuiz, SourceExam} {
		if err := db.Table(tableFor(src)).AutoMigrate(&questionRow{}); err != nil {
			return fmt.Errorf("%s: %w", tableFor(src), err)
		}
	}
	return db.AutoMigrate(
		&verdictRow{},
		&reviewRow{},
		&assessmentRow{},
		&enrollmentRow{},
		&userRow{},
		&notificationRow{},
		&analysisEventRow{},
	)
}

// DB exposes the underlying handle for raw queries.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Questions() QuestionRepo         { return &questionRepo{db: s.db} }
func (s *Store) Verdicts() VerdictRepo           { return &verdictRepo{db: s.db} }
func (s *Store) Reviews() ReviewRepo             { return &reviewRepo{db: s.db} }
func (s *Store) Assessments() AssessmentRepo     { return &assessmentRepo{db: s.db} }
func (s *Store) Roster() RosterRepo              { return &rosterRepo{db: s.db} }
func (s *Store) Notifications() NotificationRepo { return &notificationRepo{db: s.db} }
func (s *Store) Events() EventRepo               { return &eventRepo{db: s.db} }
