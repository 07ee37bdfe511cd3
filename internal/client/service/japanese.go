package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/iudanet/nihongo/internal/client/api"
	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

// KanjiService wraps /kanji.
type KanjiService struct {
	client Doer
}

// NewKanjiService creates the kanji endpoints client.
func NewKanjiService(client Doer) *KanjiService {
	return &KanjiService{client: client}
}

// Create добавляет кандзи в словарь.
func (s *KanjiService) Create(ctx context.Context, entry pkgapi.KanjiEntry) (*pkgapi.KanjiEntry, error) {
	return send[pkgapi.KanjiEntry](ctx, s.client, http.MethodPost, "/kanji", nil, entry)
}

// Get returns a kanji entry by id.
func (s *KanjiService) Get(ctx context.Context, id string) (*pkgapi.KanjiEntry, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	return fetchOne[pkgapi.KanjiEntry](ctx, s.client, "/kanji/"+escape(id), nil)
}

// ByCharacter looks a kanji up by the character itself.
func (s *KanjiService) ByCharacter(ctx context.Context, character string) (*pkgapi.KanjiEntry, error) {
	if err := required("kanjiCharacter", character); err != nil {
		return nil, err
	}
	return fetchOne[pkgapi.KanjiEntry](ctx, s.client, "/kanji/character/"+escape(character), nil)
}

// List returns the whole kanji dictionary.
func (s *KanjiService) List(ctx context.Context) ([]pkgapi.KanjiEntry, error) {
	return fetchList[pkgapi.KanjiEntry](ctx, s.client, "/kanji", nil)
}

// Update replaces the entry, PUT /kanji/{id}.
func (s *KanjiService) Update(ctx context.Context, id string, entry pkgapi.KanjiEntry) (*pkgapi.KanjiEntry, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	return send[pkgapi.KanjiEntry](ctx, s.client, http.MethodPut, "/kanji/"+escape(id), nil, entry)
}

// Delete удаляет кандзи.
func (s *KanjiService) Delete(ctx context.Context, id string) (*pkgapi.MessageResponse, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	return remove(ctx, s.client, "/kanji/"+escape(id))
}

// Search queries GET /kanji/search.
func (s *KanjiService) Search(ctx context.Context, req pkgapi.KanjiSearchRequest) ([]pkgapi.KanjiEntry, error) {
	query := url.Values{"query": {req.Query}}
	if req.SearchType != "" {
		query.Set("searchType", req.SearchType)
	}
	return fetchList[pkgapi.KanjiEntry](ctx, s.client, "/kanji/search", query)
}

// JapaneseTextService wraps /japanese-text: furigana generation and the vocabulary list.
type JapaneseTextService struct {
	client Doer
}

// NewJapaneseTextService creates the furigana and vocabulary endpoints client.
func NewJapaneseTextService(client Doer) *JapaneseTextService {
	return &JapaneseTextService{client: client}
}

// Furigana returns the server's reading annotation for text. The server answers with
// plain text, not JSON.
func (s *JapaneseTextService) Furigana(ctx context.Context, text string) (string, error) {
	if err := required("text", text); err != nil {
		return "", err
	}
	var reading string
	err := s.client.Do(ctx, api.Request{
		Method: http.MethodGet,
		Path:   "/japanese-text/furigana",
		Query:  url.Values{"text": {text}},
	}, &reading)
	if err != nil {
		return "", err
	}
	return reading, nil
}

// CreateVocabulary добавляет слово.
func (s *JapaneseTextService) CreateVocabulary(ctx context.Context, entry pkgapi.VocabularyEntry) (*pkgapi.VocabularyEntry, error) {
	return send[pkgapi.VocabularyEntry](ctx, s.client, http.MethodPost, "/japanese-text/vocabulary", nil, entry)
}

// GetVocabulary returns a vocabulary entry by id.
func (s *JapaneseTextService) GetVocabulary(ctx context.Context, id string) (*pkgapi.VocabularyEntry, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	return fetchOne[pkgapi.VocabularyEntry](ctx, s.client, "/japanese-text/vocabulary/"+escape(id), nil)
}

// LookupVocabulary finds the entry for an exact word.
func (s *JapaneseTextService) LookupVocabulary(ctx context.Context, word string) (*pkgapi.VocabularyEntry, error) {
	if err := required("word", word); err != nil {
		return nil, err
	}
	return fetchOne[pkgapi.VocabularyEntry](ctx, s.client, "/japanese-text/vocabulary/lookup", url.Values{"word": {word}})
}

// ListVocabulary returns every vocabulary entry.
func (s *JapaneseTextService) ListVocabulary(ctx context.Context) ([]pkgapi.VocabularyEntry, error) {
	return fetchList[pkgapi.VocabularyEntry](ctx, s.client, "/japanese-text/vocabulary", nil)
}

// UpdateVocabulary replaces the entry.
func (s *JapaneseTextService) UpdateVocabulary(ctx context.Context, id string, entry pkgapi.VocabularyEntry) (*pkgapi.VocabularyEntry, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	return send[pkgapi.VocabularyEntry](ctx, s.client, http.MethodPut, "/japanese-text/vocabulary/"+escape(id), nil, entry)
}

// DeleteVocabulary удаляет слово.
func (s *JapaneseTextService) DeleteVocabulary(ctx context.Context, id string) (*pkgapi.MessageResponse, error) {
	if err := required("id", id); err != nil {
		return nil, err
	}
	return remove(ctx, s.client, "/japanese-text/vocabulary/"+escape(id))
}

// PopulateMockVocabulary asks the server to seed demo vocabulary.
func (s *JapaneseTextService) PopulateMockVocabulary(ctx context.Context) error {
	return s.client.Do(ctx, api.Request{Method: http.MethodPost, Path: "/japanese-text/vocabulary/mock-data"}, nil)
}

// SearchService wraps /search.
type SearchService struct {
	client Doer
}

// NewSearchService creates the full-text search client.
func NewSearchService(client Doer) *SearchService {
	return &SearchService{client: client}
}

// Text ищет по кандзи, словарю, курсам и урокам, GET /search/text.
func (s *SearchService) Text(ctx context.Context, req pkgapi.SearchRequest) (*pkgapi.SearchResult, error) {
	query := url.Values{"query": {req.Query}}
	if req.ScriptType != "" {
		query.Set("scriptType", req.ScriptType)
	}
	return fetchOne[pkgapi.SearchResult](ctx, s.client, "/search/text", query)
}
