package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"domino/internal/ports"
)

type mockStorage struct {
	writes []*runtime.StorageWrite
	err    error
}

func (m *mockStorage) StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	m.writes = append(m.writes, writes...)
	return nil, m.err
}

func TestSaveResultWritesPerPlayer(t *testing.T) {
	store := &mockStorage{}
	adapter := NewNakamaRecordAdapter(store)

	rec := ports.GameRecord{GameID: "g1", Players: []string{"u1", "u2"}, Pips: []int{40, 35}, WinnerSeat: 0}
	if err := adapter.SaveResult(context.Background(), rec); err != nil {
		t.Fatalf("SaveResult() error: %v", err)
	}

	if len(store.writes) != 2 {
		t.Fatalf("writes = %d, want 2", len(store.writes))
	}
	for i, w := range store.writes {
		if w.Collection != resultsCollection || w.Key != "g1" || w.UserID != rec.Players[i] {
			t.Fatalf("write %d = %+v", i, w)
		}
		if w.PermissionRead != runtime.STORAGE_PERMISSION_OWNER_READ || w.PermissionWrite != runtime.STORAGE_PERMISSION_NO_WRITE {
			t.Fatalf("write %d permissions = %d/%d", i, w.PermissionRead, w.PermissionWrite)
		}
		var got ports.GameRecord
		if err := json.Unmarshal([]byte(w.Value), &got); err != nil {
			t.Fatalf("stored value: %v", err)
		}
		if got.GameID != "g1" || got.Pips[0] != 40 {
			t.Fatalf("stored record = %+v", got)
		}
	}
}

func TestSaveResultErrors(t *testing.T) {
	store := &mockStorage{err: errors.New("db down")}
	adapter := NewNakamaRecordAdapter(store)

	if err := adapter.SaveResult(context.Background(), ports.GameRecord{Players: []string{"u1"}}); err == nil {
		t.Fatalf("record without game id accepted")
	}
	if err := adapter.SaveResult(context.Background(), ports.GameRecord{GameID: "g1", Players: []string{"u1"}}); !errors.Is(err, store.err) {
		t.Fatalf("SaveResult() error = %v, want wrapped storage error", err)
	}
}
