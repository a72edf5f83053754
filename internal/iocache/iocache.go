// Package iocache persists daily records and the ingest ledger.
package iocache

import (
	"sync"

	"github.com/huangsam/codepulse/internal/contract"
)

// RecordStoreManager holds the RecordStore used by the running command.
type RecordStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	records      contract.RecordStore
}

var _ contract.StoreManager = &RecordStoreManager{} // Compile-time check

// GetRecordStore returns the RecordStore.
func (mgr *RecordStoreManager) GetRecordStore() contract.RecordStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.records
}
