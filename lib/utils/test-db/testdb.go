package testdb

import (
	"fmt"
	"testing"
	"time"
	"travel-order-backend/db"
	dbmodels "travel-order-backend/models/db"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated in-memory database private to the test.
func Open(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.Nil(t, err)
	sqlDB, err := conn.DB()
	require.Nil(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	require.Nil(t, db.Migrate(conn))
	return conn
}

func CreatePersonnel(t *testing.T, conn *gorm.DB, username string) dbmodels.Personnel {
	rec := dbmodels.Personnel{Account: account(username)}
	require.Nil(t, conn.Create(&rec).Error)
	return rec
}

func CreateDirector(t *testing.T, conn *gorm.DB, username string) dbmodels.Director {
	rec := dbmodels.Director{
		Account:       account(username),
		DirectorLevel: "Regional Director",
	}
	require.Nil(t, conn.Create(&rec).Error)
	return rec
}

func DeactivateDirector(t *testing.T, conn *gorm.DB, id string) {
	err := conn.Model(&dbmodels.Director{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_active": false, "reason_for_deactivation": "on leave"}).
		Error
	require.Nil(t, err)
}

func CreateDraft(t *testing.T, conn *gorm.DB, personnelID string) dbmodels.TravelOrder {
	amount := 1500.0
	rec := dbmodels.TravelOrder{
		PersonnelID:      personnelID,
		TravelPurpose:    "Regional planning workshop",
		Destination:      "Cebu City",
		OfficialStation:  "Manila",
		StartDate:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
		Objectives:       "Attend the workshop",
		PerDiemsExpenses: &amount,
	}
	require.Nil(t, conn.Omit("Personnel", "Approvals", "Attachments").Create(&rec).Error)
	return rec
}

func account(username string) dbmodels.Account {
	return dbmodels.Account{
		Username:  username,
		Password:  "not-a-hash",
		Email:     username + "@example.com",
		FirstName: username,
		LastName:  "Tester",
		IsActive:  true,
	}
}
