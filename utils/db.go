package utils

import (
	"sync"

	"gorm.io/gorm"
)

var (
	sharedDB *gorm.DB
	dbOnce   sync.Once
	dbMu     sync.RWMutex
)

// InitDB stores the boot-time connection for handlers that run outside
// the injected-controller path, like the websocket snapshot on connect.
// Only the first call wins.
func InitDB(database *gorm.DB) {
	dbOnce.Do(func() {
		dbMu.Lock()
		defer dbMu.Unlock()
		sharedDB = database
	})
}

// GetDB returns the shared connection, nil before InitDB.
func GetDB() *gorm.DB {
	dbMu.RLock()
	defer dbMu.RUnlock()
	return sharedDB
}
