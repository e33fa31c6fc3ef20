package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"domino/internal/ports"
)

const resultsCollection = "domino_results"

// storageWriter is the slice of runtime.NakamaModule the record adapter needs.
type storageWriter interface {
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
}

// NakamaRecordAdapter implements ports.RecordPort with Nakama storage objects,
// one per player keyed by game id.
type NakamaRecordAdapter struct {
	nk storageWriter
}

// NewNakamaRecordAdapter creates a new record adapter.
func NewNakamaRecordAdapter(nk storageWriter) *NakamaRecordAdapter {
	return &NakamaRecordAdapter{nk: nk}
}

// SaveResult writes rec under every player. Rewriting the same game overwrites in place.
func (a *NakamaRecordAdapter) SaveResult(ctx context.Context, rec ports.GameRecord) error {
	if rec.GameID == "" {
		return fmt.Errorf("game id is required")
	}
	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal game record: %w", err)
	}

	writes := make([]*runtime.StorageWrite, 0, len(rec.Players))
	for _, userID := range rec.Players {
		if userID == "" {
			continue
		}
		writes = append(writes, &runtime.StorageWrite{
			Collection:      resultsCollection,
			Key:             rec.GameID,
			UserID:          userID,
			Value:           string(value),
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		})
	}
	if len(writes) == 0 {
		return nil
	}

	if _, err := a.nk.StorageWrite(ctx, writes); err != nil {
		return fmt.Errorf("failed to store game record %s: %w", rec.GameID, err)
	}
	return nil
}

var _ ports.RecordPort = (*NakamaRecordAdapter)(nil)
