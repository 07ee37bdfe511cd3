package api

// Course представляет курс
type Course struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	DifficultyLevel string         `json:"difficultyLevel,omitempty"` // BEGINNER, INTERMEDIATE, ADVANCED
	CreatedByUserID string         `json:"createdByUserId,omitempty"`
	Modules         []CourseModule `json:"modules,omitempty"`
	CreatedAt       Timestamp      `json:"createdAt"`
	UpdatedAt       Timestamp      `json:"updatedAt"`
}

// CourseModule представляет модуль курса
type CourseModule struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	LessonIDs   []string `json:"lessonIds,omitempty"`
	OrderIndex  int      `json:"orderIndex"`
}

// CourseRequest представляет запрос на создание/обновление курса
type CourseRequest struct {
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	DifficultyLevel string         `json:"difficultyLevel,omitempty"`
	Modules         []CourseModule `json:"modules,omitempty"`
}

// Lesson представляет урок внутри модуля курса
type Lesson struct {
	ID             string    `json:"id"`
	ModuleID       string    `json:"moduleId,omitempty"`
	CourseID       string    `json:"courseId,omitempty"`
	Title          string    `json:"title"`
	Content        string    `json:"content,omitempty"`
	LessonType     string    `json:"lessonType,omitempty"` // TEXT, QUIZ, FLASHCARD, VIDEO
	QuizID         string    `json:"quizId,omitempty"`
	FlashcardSetID string    `json:"flashcardSetId,omitempty"`
	VideoURL       string    `json:"videoUrl,omitempty"`
	CreatedAt      Timestamp `json:"createdAt"`
	UpdatedAt      Timestamp `json:"updatedAt"`
	OrderIndex     int       `json:"orderIndex"`
}

// LessonRequest представляет запрос на создание/обновление урока
type LessonRequest struct {
	Title          string `json:"title"`
	Content        string `json:"content,omitempty"`
	LessonType     string `json:"lessonType,omitempty"`
	QuizID         string `json:"quizId,omitempty"`
	FlashcardSetID string `json:"flashcardSetId,omitempty"`
	VideoURL       string `json:"videoUrl,omitempty"`
	OrderIndex     int    `json:"orderIndex"`
}
