package api

// FlashcardSet представляет набор карточек урока
type FlashcardSet struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	LessonID    string      `json:"lessonId,omitempty"`
	Flashcards  []Flashcard `json:"flashcards,omitempty"`
	CreatedAt   Timestamp   `json:"createdAt"`
	UpdatedAt   Timestamp   `json:"updatedAt"`
}

// Flashcard представляет одну карточку
type Flashcard struct {
	ID              string `json:"id,omitempty"`
	Front           string `json:"front,omitempty"`
	Back            string `json:"back,omitempty"`
	FrontText       string `json:"frontText,omitempty"`
	BackText        string `json:"backText,omitempty"`
	Furigana        string `json:"furigana,omitempty"`
	Romaji          string `json:"romaji,omitempty"`
	ExampleSentence string `json:"exampleSentence,omitempty"`
	AudioURL        string `json:"audioUrl,omitempty"`
	ImageURL        string `json:"imageUrl,omitempty"`
	OrderIndex      int    `json:"orderIndex"`
}

// FlashcardSetRequest представляет запрос на создание/обновление набора карточек
type FlashcardSetRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Flashcards  []Flashcard `json:"flashcards,omitempty"`
}

// KanjiEntry представляет иероглиф
type KanjiEntry struct {
	ID             string   `json:"id"`
	KanjiCharacter string   `json:"kanjiCharacter"`
	Onyomi         string   `json:"onyomi,omitempty"`
	Kunyomi        string   `json:"kunyomi,omitempty"`
	Meaning        string   `json:"meaning,omitempty"`
	StrokeOrderSVG string   `json:"strokeOrderSvg,omitempty"`
	JLPTLevel      string   `json:"jlptLevel,omitempty"` // N5..N1
	Examples       []string `json:"examples,omitempty"`
	Radicals       []string `json:"radicals,omitempty"`
	StrokeCount    int      `json:"strokeCount,omitempty"`
}

// KanjiSearchRequest представляет параметры поиска иероглифов
type KanjiSearchRequest struct {
	Query      string `json:"query"`
	SearchType string `json:"searchType,omitempty"` // ALL по умолчанию на сервере
}

// VocabularyEntry представляет словарную статью
type VocabularyEntry struct {
	ID               string   `json:"id"`
	JapaneseWord     string   `json:"japaneseWord"`
	Furigana         string   `json:"furigana,omitempty"`
	Romaji           string   `json:"romaji,omitempty"`
	Meaning          string   `json:"meaning,omitempty"`
	PartOfSpeech     string   `json:"partOfSpeech,omitempty"`
	JLPTLevel        string   `json:"jlptLevel,omitempty"`
	AudioURL         string   `json:"audioUrl,omitempty"`
	ExampleSentences []string `json:"exampleSentences,omitempty"`
}

// SearchRequest представляет параметры полнотекстового поиска
type SearchRequest struct {
	Query      string `json:"query"`
	ScriptType string `json:"scriptType,omitempty"`
}

// SearchResult представляет результат полнотекстового поиска
type SearchResult struct {
	Query             string            `json:"query"`
	RecognizedText    string            `json:"recognizedText,omitempty"`
	Message           string            `json:"message,omitempty"`
	KanjiResults      []KanjiEntry      `json:"kanjiResults,omitempty"`
	VocabularyResults []VocabularyEntry `json:"vocabularyResults,omitempty"`
	LessonResults     []Lesson          `json:"lessonResults,omitempty"`
	CourseResults     []Course          `json:"courseResults,omitempty"`
}
