package enums

import "fmt"

// SyncOperation is the kind of mutation queued for cloud propagation.
type SyncOperation string

const (
	SyncOpInsert SyncOperation = "insert"
	SyncOpUpdate SyncOperation = "update"
	SyncOpDelete SyncOperation = "delete"
)

var validSyncOperations = []SyncOperation{
	SyncOpInsert,
	SyncOpUpdate,
	SyncOpDelete,
}

// IsValid reports whether the value matches a known operation.
func (o SyncOperation) IsValid() bool {
	for _, candidate := range validSyncOperations {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseSyncOperation converts raw input into SyncOperation.
func ParseSyncOperation(value string) (SyncOperation, error) {
	for _, candidate := range validSyncOperations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sync operation %q", value)
}

// SyncStatus tracks an outbox entry through its lifecycle. Transitions are
// pending -> synced or pending -> failed; terminal states are never
// re-processed automatically.
type SyncStatus string

const (
	SyncStatusPending SyncStatus = "pending"
	SyncStatusSynced  SyncStatus = "synced"
	SyncStatusFailed  SyncStatus = "failed"
)

var validSyncStatuses = []SyncStatus{
	SyncStatusPending,
	SyncStatusSynced,
	SyncStatusFailed,
}

// IsValid reports whether the value matches a known status.
func (s SyncStatus) IsValid() bool {
	for _, candidate := range validSyncStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}
