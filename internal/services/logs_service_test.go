package services

import (
	"encoding/json"
	"testing"

	"github.com/webrtc-analyzer/backend/internal/models"
	"github.com/webrtc-analyzer/backend/internal/storage"
)

func persistedLogs(t *testing.T, store storage.Store) []models.Log {
	t.Helper()
	saved, ok, err := store.Get(storage.KeyLogs)
	if err != nil {
		t.Fatalf("Failed to read persisted logs: %v", err)
	}
	if !ok {
		t.Fatal("Expected logs to be persisted")
	}
	var logs []models.Log
	if err := json.Unmarshal([]byte(saved), &logs); err != nil {
		t.Fatalf("Failed to parse persisted logs: %v", err)
	}
	return logs
}

func TestAddLogDerivesTypeFromExtension(t *testing.T) {
	store := storage.NewMemoryStore()
	service := NewLogsService(store)

	log := service.AddLog("session.json", `{"events":[]}`)

	if log.Type != models.LogTypeJSON {
		t.Errorf("Expected type json, got %s", log.Type)
	}
	if log.Name != "session.json" {
		t.Errorf("Expected name session.json, got %s", log.Name)
	}
	if log.ID == "" {
		t.Error("Expected a generated id")
	}

	textLog := service.AddLog("call.txt", "line one")
	if textLog.Type != models.LogTypeText {
		t.Errorf("Expected type txt, got %s", textLog.Type)
	}
}

func TestLogsPersistenceInvariant(t *testing.T) {
	store := storage.NewMemoryStore()
	service := NewLogsService(store)

	service.AddLog("a.txt", "aaa")
	b := service.AddLog("b.json", "bbb")
	service.UpdateLogName(b.ID, "renamed.json")

	persisted := persistedLogs(t, store)
	inMemory := service.List()

	if len(persisted) != len(inMemory) {
		t.Fatalf("Expected %d persisted logs, got %d", len(inMemory), len(persisted))
	}
	for i := range persisted {
		if persisted[i].ID != inMemory[i].ID || persisted[i].Name != inMemory[i].Name {
			t.Errorf("Persisted log %d differs from in-memory list", i)
		}
	}
}

func TestDeleteLogRemovesFromPersistence(t *testing.T) {
	store := storage.NewMemoryStore()
	service := NewLogsService(store)

	log := service.AddLog("session.json", "content")
	service.AddLog("other.txt", "content")

	before := len(service.List())
	service.DeleteLog(log.ID)

	if len(service.List()) != before-1 {
		t.Errorf("Expected %d logs after delete, got %d", before-1, len(service.List()))
	}
	for _, persisted := range persistedLogs(t, store) {
		if persisted.ID == log.ID {
			t.Error("Deleted log still present in persisted value")
		}
	}
}

func TestDeleteUnknownLogIsNoOp(t *testing.T) {
	store := storage.NewMemoryStore()
	service := NewLogsService(store)

	service.AddLog("a.txt", "aaa")
	service.DeleteLog("missing")

	if len(service.List()) != 1 {
		t.Errorf("Expected 1 log, got %d", len(service.List()))
	}
}

func TestUpdateUnknownLogIsIgnored(t *testing.T) {
	store := storage.NewMemoryStore()
	service := NewLogsService(store)

	log := service.AddLog("a.txt", "aaa")
	service.UpdateLogName("missing", "x")

	got, _ := service.GetLog(log.ID)
	if got.Name != "a.txt" {
		t.Errorf("Expected name a.txt, got %s", got.Name)
	}
}

func TestClearAllLogs(t *testing.T) {
	store := storage.NewMemoryStore()
	service := NewLogsService(store)

	service.AddLog("a.txt", "aaa")
	service.AddLog("b.txt", "bbb")
	service.ClearAll()

	if len(service.List()) != 0 {
		t.Errorf("Expected empty store, got %d logs", len(service.List()))
	}
}

func TestLogsRoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	service := NewLogsService(store)

	service.AddLog("a.txt", "aaa")
	service.AddLog("b.json", "bbb")

	reconstructed := NewLogsService(store)
	original := service.List()
	restored := reconstructed.List()

	if len(restored) != len(original) {
		t.Fatalf("Expected %d logs after reconstruction, got %d", len(original), len(restored))
	}
	for i := range original {
		if restored[i].ID != original[i].ID ||
			restored[i].Name != original[i].Name ||
			restored[i].Content != original[i].Content ||
			restored[i].Type != original[i].Type {
			t.Errorf("Log %d differs after round trip", i)
		}
	}
}

func TestLogsCorruptedPersistenceFallsBackToEmpty(t *testing.T) {
	store := storage.NewMemoryStore()
	if err := store.Set(storage.KeyLogs, "{not json"); err != nil {
		t.Fatalf("Failed to seed corrupted value: %v", err)
	}

	service := NewLogsService(store)
	if len(service.List()) != 0 {
		t.Errorf("Expected empty store after corrupted load, got %d logs", len(service.List()))
	}
}

func TestLogsSubscribeReceivesSnapshots(t *testing.T) {
	store := storage.NewMemoryStore()
	service := NewLogsService(store)

	var snapshots [][]models.Log
	unsubscribe := service.Subscribe(func(logs []models.Log) {
		snapshots = append(snapshots, logs)
	})

	service.AddLog("a.txt", "aaa")
	service.AddLog("b.txt", "bbb")

	if len(snapshots) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(snapshots))
	}
	if len(snapshots[0]) != 1 || len(snapshots[1]) != 2 {
		t.Errorf("Expected snapshots of 1 and 2 logs, got %d and %d", len(snapshots[0]), len(snapshots[1]))
	}

	unsubscribe()
	service.AddLog("c.txt", "ccc")
	if len(snapshots) != 2 {
		t.Errorf("Expected no notifications after unsubscribe, got %d", len(snapshots))
	}
}
