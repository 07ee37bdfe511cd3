package store

import (
	"context"
	"log/slog"

	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

// KanjiAPI is implemented by service.KanjiService.
type KanjiAPI interface {
	Create(ctx context.Context, entry pkgapi.KanjiEntry) (*pkgapi.KanjiEntry, error)
	Get(ctx context.Context, id string) (*pkgapi.KanjiEntry, error)
	ByCharacter(ctx context.Context, character string) (*pkgapi.KanjiEntry, error)
	List(ctx context.Context) ([]pkgapi.KanjiEntry, error)
	Update(ctx context.Context, id string, entry pkgapi.KanjiEntry) (*pkgapi.KanjiEntry, error)
	Delete(ctx context.Context, id string) (*pkgapi.MessageResponse, error)
	Search(ctx context.Context, req pkgapi.KanjiSearchRequest) ([]pkgapi.KanjiEntry, error)
}

// KanjiStore holds kanji entries; a search replaces the list with its results.
type KanjiStore struct {
	api KanjiAPI
	crud[pkgapi.KanjiEntry]
}

// NewKanjiStore creates an empty kanji container.
func NewKanjiStore(api KanjiAPI, logger *slog.Logger) *KanjiStore {
	return &KanjiStore{
		api:  api,
		crud: newCrud("kanji", logger, func(k pkgapi.KanjiEntry) string { return k.ID }),
	}
}

// FetchAll загружает весь словарь кандзи.
func (s *KanjiStore) FetchAll(ctx context.Context) ([]pkgapi.KanjiEntry, error) {
	return s.fetchAll(ctx, "fetchAll", "Failed to fetch kanji", s.api.List)
}

// Search replaces items with the search result.
func (s *KanjiStore) Search(ctx context.Context, req pkgapi.KanjiSearchRequest) ([]pkgapi.KanjiEntry, error) {
	return s.fetchAll(ctx, "search", "Failed to search kanji", func(ctx context.Context) ([]pkgapi.KanjiEntry, error) {
		return s.api.Search(ctx, req)
	})
}

// FetchByID makes the entry current.
func (s *KanjiStore) FetchByID(ctx context.Context, id string) (*pkgapi.KanjiEntry, error) {
	return s.fetchOne(ctx, "fetchById", "Failed to fetch kanji", func(ctx context.Context) (*pkgapi.KanjiEntry, error) {
		return s.api.Get(ctx, id)
	})
}

// FetchByCharacter ищет кандзи по символу и делает его текущим.
func (s *KanjiStore) FetchByCharacter(ctx context.Context, character string) (*pkgapi.KanjiEntry, error) {
	return s.fetchOne(ctx, "fetchByCharacter", "Failed to fetch kanji", func(ctx context.Context) (*pkgapi.KanjiEntry, error) {
		return s.api.ByCharacter(ctx, character)
	})
}

// Create adds the new entry to items.
func (s *KanjiStore) Create(ctx context.Context, entry pkgapi.KanjiEntry) (*pkgapi.KanjiEntry, error) {
	return s.create(ctx, "create", "Failed to create kanji", func(ctx context.Context) (*pkgapi.KanjiEntry, error) {
		return s.api.Create(ctx, entry)
	})
}

// Update patches the entry in items and current.
func (s *KanjiStore) Update(ctx context.Context, id string, entry pkgapi.KanjiEntry) (*pkgapi.KanjiEntry, error) {
	return s.update(ctx, "update", "Failed to update kanji", func(ctx context.Context) (*pkgapi.KanjiEntry, error) {
		return s.api.Update(ctx, id, entry)
	})
}

// Delete удаляет запись после ответа сервера.
func (s *KanjiStore) Delete(ctx context.Context, id string) error {
	return s.remove(ctx, id, "delete", "Failed to delete kanji", func(ctx context.Context) error {
		_, err := s.api.Delete(ctx, id)
		return err
	})
}

// VocabularyAPI is implemented by service.JapaneseTextService.
type VocabularyAPI interface {
	Furigana(ctx context.Context, text string) (string, error)
	CreateVocabulary(ctx context.Context, entry pkgapi.VocabularyEntry) (*pkgapi.VocabularyEntry, error)
	GetVocabulary(ctx context.Context, id string) (*pkgapi.VocabularyEntry, error)
	LookupVocabulary(ctx context.Context, word string) (*pkgapi.VocabularyEntry, error)
	ListVocabulary(ctx context.Context) ([]pkgapi.VocabularyEntry, error)
	UpdateVocabulary(ctx context.Context, id string, entry pkgapi.VocabularyEntry) (*pkgapi.VocabularyEntry, error)
	DeleteVocabulary(ctx context.Context, id string) (*pkgapi.MessageResponse, error)
	PopulateMockVocabulary(ctx context.Context) error
}

// VocabularyState is a snapshot of VocabularyStore.
type VocabularyState struct {
	State[pkgapi.VocabularyEntry]
	LastFurigana string
}

// VocabularyStore holds vocabulary entries and the last furigana reading.
type VocabularyStore struct {
	api          VocabularyAPI
	lastFurigana string
	crud[pkgapi.VocabularyEntry]
}

// NewVocabularyStore creates an empty vocabulary container.
func NewVocabularyStore(api VocabularyAPI, logger *slog.Logger) *VocabularyStore {
	return &VocabularyStore{
		api:  api,
		crud: newCrud("vocabulary", logger, func(v pkgapi.VocabularyEntry) string { return v.ID }),
	}
}

// State returns a copy of the container state.
func (s *VocabularyStore) State() VocabularyState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return VocabularyState{State: s.state(), LastFurigana: s.lastFurigana}
}

// Reset drops entries and the last furigana reading.
func (s *VocabularyStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	s.lastFurigana = ""
}

// FetchAll loads every vocabulary entry.
func (s *VocabularyStore) FetchAll(ctx context.Context) ([]pkgapi.VocabularyEntry, error) {
	return s.fetchAll(ctx, "fetchAll", "Failed to fetch vocabulary", s.api.ListVocabulary)
}

// FetchByID делает слово текущим.
func (s *VocabularyStore) FetchByID(ctx context.Context, id string) (*pkgapi.VocabularyEntry, error) {
	return s.fetchOne(ctx, "fetchById", "Failed to fetch vocabulary entry", func(ctx context.Context) (*pkgapi.VocabularyEntry, error) {
		return s.api.GetVocabulary(ctx, id)
	})
}

// Lookup finds the entry for word and makes it current.
func (s *VocabularyStore) Lookup(ctx context.Context, word string) (*pkgapi.VocabularyEntry, error) {
	return s.fetchOne(ctx, "lookup", "Failed to look up word", func(ctx context.Context) (*pkgapi.VocabularyEntry, error) {
		return s.api.LookupVocabulary(ctx, word)
	})
}

// Create adds the new entry to items.
func (s *VocabularyStore) Create(ctx context.Context, entry pkgapi.VocabularyEntry) (*pkgapi.VocabularyEntry, error) {
	return s.create(ctx, "create", "Failed to create vocabulary entry", func(ctx context.Context) (*pkgapi.VocabularyEntry, error) {
		return s.api.CreateVocabulary(ctx, entry)
	})
}

// Update patches the entry in items and current.
func (s *VocabularyStore) Update(ctx context.Context, id string, entry pkgapi.VocabularyEntry) (*pkgapi.VocabularyEntry, error) {
	return s.update(ctx, "update", "Failed to update vocabulary entry", func(ctx context.Context) (*pkgapi.VocabularyEntry, error) {
		return s.api.UpdateVocabulary(ctx, id, entry)
	})
}

// Delete removes the entry locally after the server confirms.
func (s *VocabularyStore) Delete(ctx context.Context, id string) error {
	return s.remove(ctx, id, "delete", "Failed to delete vocabulary entry", func(ctx context.Context) error {
		_, err := s.api.DeleteVocabulary(ctx, id)
		return err
	})
}

// GenerateFurigana returns the reading for text and remembers it.
func (s *VocabularyStore) GenerateFurigana(ctx context.Context, text string) (string, error) {
	return call(ctx, &s.base, "generateFurigana", "Failed to generate furigana", func(ctx context.Context) (string, error) {
		return s.api.Furigana(ctx, text)
	}, func(reading string) {
		s.lastFurigana = reading
	})
}

// PopulateMockData seeds the server with demo entries and reloads the list.
func (s *VocabularyStore) PopulateMockData(ctx context.Context) ([]pkgapi.VocabularyEntry, error) {
	_, err := call(ctx, &s.base, "populateMockData", "Failed to populate mock data", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.api.PopulateMockVocabulary(ctx)
	}, nil)
	if err != nil {
		return nil, err
	}
	return s.FetchAll(ctx)
}
