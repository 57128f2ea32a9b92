package services

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/webrtc-analyzer/backend/internal/logger"
	"github.com/webrtc-analyzer/backend/internal/models"
	"github.com/webrtc-analyzer/backend/internal/storage"
)

// Candidate locations for the bundled default instruction content, relative
// to the working directory.
var defaultInstructionPaths = []string{
	"assets/default_instruction.md",
	"../../assets/default_instruction.md",
}

// InstructionsService holds the analysis instructions. The list always
// contains exactly one built-in instruction with id "default", pinned first;
// it can never be edited, deleted or cleared, and it is excluded from the
// persisted blob.
type InstructionsService struct {
	mu           sync.Mutex
	store        storage.Store
	instructions []models.Instruction
	notifier     notifier[[]models.Instruction]
}

func NewInstructionsService(store storage.Store) *InstructionsService {
	s := &InstructionsService{store: store}

	defaultInstruction := models.Instruction{
		ID:        models.DefaultInstructionID,
		Name:      "Default analysis instruction",
		Content:   loadDefaultInstructionContent(),
		IsDefault: true,
	}
	s.instructions = []models.Instruction{defaultInstruction}

	saved, ok, err := store.Get(storage.KeyInstructions)
	if err != nil {
		logger.WithStore(storage.KeyInstructions).Warn("Failed to read persisted instructions, starting with default only")
		return s
	}
	if ok {
		var persisted []models.Instruction
		if err := json.Unmarshal([]byte(saved), &persisted); err != nil {
			logger.WithStore(storage.KeyInstructions).WithField("error", err.Error()).
				Warn("Failed to parse persisted instructions, starting with default only")
		} else {
			for _, instruction := range persisted {
				// The persisted blob never legitimately contains the
				// built-in entry; drop impostors instead of breaking the
				// exactly-one-default invariant.
				if instruction.ID == models.DefaultInstructionID || instruction.IsDefault {
					continue
				}
				s.instructions = append(s.instructions, instruction)
			}
		}
	}

	return s
}

func loadDefaultInstructionContent() string {
	for _, path := range defaultInstructionPaths {
		if content, err := os.ReadFile(path); err == nil {
			return string(content)
		}
	}
	// Missing asset is tolerated; the default instruction stays empty.
	logger.Warn("Default instruction asset not found, using empty content", nil)
	return ""
}

// List returns a snapshot with the default instruction first.
func (s *InstructionsService) List() []models.Instruction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// AddInstruction creates a user instruction.
func (s *InstructionsService) AddInstruction(name, content string) models.Instruction {
	instruction := models.Instruction{
		ID:        uuid.NewString(),
		Name:      name,
		Content:   content,
		IsDefault: false,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.instructions = append(s.instructions, instruction)
	s.persist()
	s.notifier.emit(s.snapshot())
	return instruction
}

// UpdateInstruction replaces name and content of the matching instruction.
// The default instruction and unknown ids are ignored.
func (s *InstructionsService) UpdateInstruction(id, name, content string) {
	if id == models.DefaultInstructionID {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.instructions {
		if s.instructions[i].ID == id {
			s.instructions[i].Name = name
			s.instructions[i].Content = content
			s.persist()
			s.notifier.emit(s.snapshot())
			return
		}
	}
}

// DeleteInstruction removes the matching instruction. The default
// instruction cannot be deleted.
func (s *InstructionsService) DeleteInstruction(id string) {
	if id == models.DefaultInstructionID {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.instructions[:0]
	for _, instruction := range s.instructions {
		if instruction.ID != id {
			kept = append(kept, instruction)
		}
	}
	s.instructions = kept
	s.persist()
	s.notifier.emit(s.snapshot())
}

// DuplicateInstruction copies any instruction, including the default one,
// into a new user instruction named "<name> (copy)".
func (s *InstructionsService) DuplicateInstruction(id string) (models.Instruction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, instruction := range s.instructions {
		if instruction.ID == id {
			duplicate := models.Instruction{
				ID:        uuid.NewString(),
				Name:      instruction.Name + " (copy)",
				Content:   instruction.Content,
				IsDefault: false,
			}
			s.instructions = append(s.instructions, duplicate)
			s.persist()
			s.notifier.emit(s.snapshot())
			return duplicate, true
		}
	}
	return models.Instruction{}, false
}

// GetInstruction returns an instruction by id.
func (s *InstructionsService) GetInstruction(id string) (models.Instruction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, instruction := range s.instructions {
		if instruction.ID == id {
			return instruction, true
		}
	}
	return models.Instruction{}, false
}

// ClearAll removes every user instruction, retaining only the default one.
func (s *InstructionsService) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instructions = s.instructions[:1]
	s.persist()
	s.notifier.emit(s.snapshot())
}

// ImportInstruction creates an instruction from an uploaded .txt or .md
// file. Any other extension fails with an ImportError and leaves the store
// untouched.
func (s *InstructionsService) ImportInstruction(filename, content string) (models.Instruction, error) {
	lower := strings.ToLower(filename)
	if !strings.HasSuffix(lower, ".txt") && !strings.HasSuffix(lower, ".md") {
		return models.Instruction{}, &ImportError{Filename: filename}
	}

	name := strings.TrimSuffix(strings.TrimSuffix(filename, ".txt"), ".md")
	return s.AddInstruction(name, content), nil
}

// Subscribe registers fn to receive the full list after every mutation.
func (s *InstructionsService) Subscribe(fn func([]models.Instruction)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	unsubscribe := s.notifier.subscribe(fn)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		unsubscribe()
	}
}

func (s *InstructionsService) snapshot() []models.Instruction {
	snapshot := make([]models.Instruction, len(s.instructions))
	copy(snapshot, s.instructions)
	return snapshot
}

// persist writes every instruction except the built-in default.
func (s *InstructionsService) persist() {
	persisted := make([]models.Instruction, 0, len(s.instructions))
	for _, instruction := range s.instructions {
		if !instruction.IsDefault {
			persisted = append(persisted, instruction)
		}
	}

	data, err := json.Marshal(persisted)
	if err != nil {
		logger.WithError(err, "instructions_service").Error("Failed to serialize instructions")
		return
	}
	if err := s.store.Set(storage.KeyInstructions, string(data)); err != nil {
		logger.WithError(err, "instructions_service").Error("Failed to persist instructions")
	}
}
