package snapshot

import (
	"fmt"

	"github.com/ayatori/workspace-chat-api/internal/models"
	"github.com/ayatori/workspace-chat-api/internal/store"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Open connects to the snapshot database. The driver selects the dialect;
// sqlite is the default and needs nothing but a file path for a DSN.
func Open(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown snapshot driver %q", driver)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the snapshot tables.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Channel{},
		&models.ChannelMember{},
		&models.StandupEntry{},
		&models.Message{},
		&models.RemovedMessage{},
		&models.Session{},
		&models.WorkspaceState{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate snapshot tables: %w", err)
	}
	return nil
}

// Save writes a full state capture, replacing whatever snapshot was there.
// The whole write happens in one transaction so a crash mid-save leaves the
// previous snapshot intact.
func Save(db *gorm.DB, state store.State) error {
	return db.Transaction(func(tx *gorm.DB) error {
		tables := []any{
			&models.User{},
			&models.ChannelMember{},
			&models.StandupEntry{},
			&models.Channel{},
			&models.Message{},
			&models.RemovedMessage{},
			&models.Session{},
			&models.WorkspaceState{},
		}
		for _, table := range tables {
			if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
				return fmt.Errorf("failed to clear snapshot table: %w", err)
			}
		}

		if len(state.Users) > 0 {
			if err := tx.Create(&state.Users).Error; err != nil {
				return fmt.Errorf("failed to save users: %w", err)
			}
		}
		for i := range state.Channels {
			channel := state.Channels[i]
			members := channel.Members
			queue := channel.StandupQueue
			channel.Members = nil
			channel.StandupQueue = nil
			// Surrogate ids are reassigned on every save; insertion order is
			// what must survive the round trip
			for j := range members {
				members[j].ID = 0
			}
			for j := range queue {
				queue[j].ID = 0
			}
			if err := tx.Omit(clause.Associations).Create(&channel).Error; err != nil {
				return fmt.Errorf("failed to save channel: %w", err)
			}
			if len(members) > 0 {
				if err := tx.Create(&members).Error; err != nil {
					return fmt.Errorf("failed to save channel members: %w", err)
				}
			}
			if len(queue) > 0 {
				if err := tx.Create(&queue).Error; err != nil {
					return fmt.Errorf("failed to save standup queue: %w", err)
				}
			}
		}
		if len(state.Messages) > 0 {
			if err := tx.Create(&state.Messages).Error; err != nil {
				return fmt.Errorf("failed to save messages: %w", err)
			}
		}
		if len(state.Removed) > 0 {
			if err := tx.Create(&state.Removed).Error; err != nil {
				return fmt.Errorf("failed to save removed messages: %w", err)
			}
		}
		if len(state.Sessions) > 0 {
			if err := tx.Create(&state.Sessions).Error; err != nil {
				return fmt.Errorf("failed to save sessions: %w", err)
			}
		}

		counters := models.WorkspaceState{
			ID:            1,
			NextUserID:    state.NextUserID,
			NextChannelID: state.NextChannelID,
			NextMessageID: state.NextMessageID,
		}
		if err := tx.Create(&counters).Error; err != nil {
			return fmt.Errorf("failed to save counters: %w", err)
		}
		return nil
	})
}

// Load reads the latest snapshot. The second return value is false when no
// snapshot has ever been saved.
func Load(db *gorm.DB) (store.State, bool, error) {
	var state store.State

	var counters models.WorkspaceState
	if err := db.First(&counters).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return state, false, nil
		}
		return state, false, fmt.Errorf("failed to load counters: %w", err)
	}
	state.NextUserID = counters.NextUserID
	state.NextChannelID = counters.NextChannelID
	state.NextMessageID = counters.NextMessageID

	if err := db.Order("id").Find(&state.Users).Error; err != nil {
		return state, false, fmt.Errorf("failed to load users: %w", err)
	}
	err := db.Preload("Members", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id")
	}).Preload("StandupQueue", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id")
	}).Order("id").Find(&state.Channels).Error
	if err != nil {
		return state, false, fmt.Errorf("failed to load channels: %w", err)
	}
	if err := db.Order("id").Find(&state.Messages).Error; err != nil {
		return state, false, fmt.Errorf("failed to load messages: %w", err)
	}
	if err := db.Order("id").Find(&state.Removed).Error; err != nil {
		return state, false, fmt.Errorf("failed to load removed messages: %w", err)
	}
	if err := db.Find(&state.Sessions).Error; err != nil {
		return state, false, fmt.Errorf("failed to load sessions: %w", err)
	}
	return state, true, nil
}
