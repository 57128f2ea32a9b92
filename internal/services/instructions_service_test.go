package services

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/webrtc-analyzer/backend/internal/models"
	"github.com/webrtc-analyzer/backend/internal/storage"
)

func assertExactlyOneDefault(t *testing.T, service *InstructionsService) {
	t.Helper()
	list := service.List()
	if len(list) == 0 {
		t.Fatal("Expected at least the default instruction")
	}
	if list[0].ID != models.DefaultInstructionID || !list[0].IsDefault {
		t.Errorf("Expected the default instruction first, got id %q", list[0].ID)
	}
	defaults := 0
	for _, instruction := range list {
		if instruction.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Errorf("Expected exactly one default instruction, got %d", defaults)
	}
}

func TestDefaultInstructionAlwaysPresent(t *testing.T) {
	store := storage.NewMemoryStore()
	service := NewInstructionsService(store)

	assertExactlyOneDefault(t, service)

	service.AddInstruction("Greeting", "Say hi")
	assertExactlyOneDefault(t, service)
}

func TestDefaultInstructionCannotBeDeleted(t *testing.T) {
	store := storage.NewMemoryStore()
	service := NewInstructionsService(store)

	before := len(service.List())
	service.DeleteInstruction(models.DefaultInstructionID)

	if len(service.List()) != before {
		t.Errorf("Expected list unchanged, got %d instructions", len(service.List()))
	}
	assertExactlyOneDefault(t, service)
}

func TestDefaultInstructionCannotBeEdited(t *testing.T) {
	store := storage.NewMemoryStore()
	service := NewInstructionsService(store)

	original, _ := service.GetInstruction(models.DefaultInstructionID)
	service.UpdateInstruction(models.DefaultInstructionID, "X", "Y")

	after, _ := service.GetInstruction(models.DefaultInstructionID)
	if after.Name != original.Name || after.Content != original.Content {
		t.Error("Default instruction was modified")
	}
}

func TestUpdateUnknownInstructionIsIgnored(t *testing.T) {
	store := storage.NewMemoryStore()
	service := NewInstructionsService(store)

	service.AddInstruction("Greeting", "Say hi")
	before := service.List()

	service.UpdateInstruction("nonexistent-id", "X", "Y")

	after := service.List()
	if len(after) != len(before) {
		t.Fatalf("Expected %d instructions, got %d", len(before), len(after))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Errorf("Instruction %d changed unexpectedly", i)
		}
	}
}

func TestDuplicateInstruction(t *testing.T) {
	store := storage.NewMemoryStore()
	service := NewInstructionsService(store)

	original := service.AddInstruction("Greeting", "Say hi")
	duplicate, ok := service.DuplicateInstruction(original.ID)
	if !ok {
		t.Fatal("Expected duplicate to succeed")
	}

	if duplicate.Name != "Greeting (copy)" {
		t.Errorf("Expected name 'Greeting (copy)', got %q", duplicate.Name)
	}
	if duplicate.Content != original.Content {
		t.Error("Expected duplicated content to match")
	}
	if duplicate.IsDefault {
		t.Error("Expected duplicate to not be default")
	}
	if duplicate.ID == original.ID {
		t.Error("Expected duplicate to get a fresh id")
	}
}

func TestDuplicateDefaultInstruction(t *testing.T) {
	store := storage.NewMemoryStore()
	service := NewInstructionsService(store)

	duplicate, ok := service.DuplicateInstruction(models.DefaultInstructionID)
	if !ok {
		t.Fatal("Expected duplicating the default instruction to succeed")
	}
	if duplicate.IsDefault {
		t.Error("Expected the copy to be a regular instruction")
	}
	assertExactlyOneDefault(t, service)
}

func TestClearAllKeepsDefault(t *testing.T) {
	store := storage.NewMemoryStore()
	service := NewInstructionsService(store)

	service.AddInstruction("A", "aaa")
	service.AddInstruction("B", "bbb")
	service.ClearAll()

	list := service.List()
	if len(list) != 1 {
		t.Fatalf("Expected only the default instruction, got %d", len(list))
	}
	assertExactlyOneDefault(t, service)
}

func TestPersistedInstructionsExcludeDefault(t *testing.T) {
	store := storage.NewMemoryStore()
	service := NewInstructionsService(store)

	service.AddInstruction("Greeting", "Say hi")

	saved, ok, err := store.Get(storage.KeyInstructions)
	if err != nil || !ok {
		t.Fatalf("Expected instructions to be persisted, ok=%v err=%v", ok, err)
	}

	var persisted []models.Instruction
	if err := json.Unmarshal([]byte(saved), &persisted); err != nil {
		t.Fatalf("Failed to parse persisted instructions: %v", err)
	}
	if len(persisted) != 1 {
		t.Fatalf("Expected 1 persisted instruction, got %d", len(persisted))
	}
	if persisted[0].IsDefault || persisted[0].ID == models.DefaultInstructionID {
		t.Error("Default instruction leaked into the persisted value")
	}
}

func TestInstructionsRoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	service := NewInstructionsService(store)

	added := service.AddInstruction("Greeting", "Say hi")

	reconstructed := NewInstructionsService(store)
	assertExactlyOneDefault(t, reconstructed)

	restored, ok := reconstructed.GetInstruction(added.ID)
	if !ok {
		t.Fatal("Expected added instruction to survive reconstruction")
	}
	if restored.Name != added.Name || restored.Content != added.Content {
		t.Error("Instruction differs after round trip")
	}
}

func TestImportInstructionRejectsUnsupportedExtension(t *testing.T) {
	store := storage.NewMemoryStore()
	service := NewInstructionsService(store)

	before := len(service.List())
	_, err := service.ImportInstruction("notes.pdf", "content")

	var importErr *ImportError
	if !errors.As(err, &importErr) {
		t.Fatalf("Expected ImportError, got %v", err)
	}
	if len(service.List()) != before {
		t.Error("Failed import mutated the store")
	}
}

func TestImportInstructionStripsExtension(t *testing.T) {
	store := storage.NewMemoryStore()
	service := NewInstructionsService(store)

	instruction, err := service.ImportInstruction("my-checklist.md", "check things")
	if err != nil {
		t.Fatalf("Expected import to succeed, got %v", err)
	}
	if instruction.Name != "my-checklist" {
		t.Errorf("Expected name 'my-checklist', got %q", instruction.Name)
	}
	if instruction.Content != "check things" {
		t.Errorf("Unexpected content %q", instruction.Content)
	}
}
