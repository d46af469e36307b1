package model

import "github.com/YasaminRahnavard/chatFlow/platform"

func InstallDB() {
	db := platform.DB
	if err := db.AutoMigrate(
		&User{},
		&Conversation{},
		&Message{},
		&UsageRecord{}); err != nil {
		panic(err)
	}
}
