package mysql

import (
	"community-mod/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func InitDB(dsn string) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(dsn), &gorm.Config{
		// 唯一键冲突要翻译成 gorm.ErrDuplicatedKey，上层才能映射为 409
		TranslateError: true,
	})
}

// AutoMigrate 自动建表（开发阶段 OK），测试里也复用同一份表结构
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Community{},
		&model.Member{},
		&model.Post{},
		&model.Rule{},
		&model.CommunityActivitySample{},
		&model.ModerationOutbox{},
	)
}
