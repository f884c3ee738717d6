package database

import (
	"ativflow_backend/internal/config"
	"ativflow_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

// Migrate applies the schema. The unique index on answer_attempts
// (question_id, student_id) is what turns duplicate concurrent submissions
// into a skip instead of a second graded row.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Activity{},
		&model.Question{},
		&model.AnswerAttempt{},
		&model.Delivery{},
		&model.Evaluation{},
		&model.Group{},
		&model.GroupMember{},
		&model.FollowUp{},
		&model.Notification{},
	)
}
