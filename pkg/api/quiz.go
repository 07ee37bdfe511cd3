package api

// Quiz представляет тест, привязанный к уроку
type Quiz struct {
	ID          string     `json:"id"`
	LessonID    string     `json:"lessonId,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions,omitempty"`
	CreatedAt   Timestamp  `json:"createdAt"`
	UpdatedAt   Timestamp  `json:"updatedAt"`
}

// Question представляет вопрос теста
type Question struct {
	ID            string           `json:"id,omitempty"`
	QuestionText  string           `json:"questionText"`
	QuestionType  string           `json:"questionType"` // MCQ, FILL_BLANK
	CorrectAnswer string           `json:"correctAnswer,omitempty"`
	Options       []QuestionOption `json:"options,omitempty"`
}

// QuestionOption представляет вариант ответа
type QuestionOption struct {
	ID         string `json:"id,omitempty"`
	OptionText string `json:"optionText"`
	IsCorrect  bool   `json:"isCorrect"`
}

// QuizRequest представляет запрос на создание/обновление теста
type QuizRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions,omitempty"`
}

// UserAnswer представляет ответ пользователя на вопрос
type UserAnswer struct {
	ID                  string `json:"id,omitempty"`
	QuestionID          string `json:"questionId" validate:"required"`
	SelectedOptionID    string `json:"selectedOptionId,omitempty"`
	SubmittedTextAnswer string `json:"submittedTextAnswer,omitempty"`
	IsCorrect           bool   `json:"isCorrect,omitempty"`
}

// SubmitQuizRequest представляет отправку ответов на тест
type SubmitQuizRequest struct {
	QuizID  string       `json:"quizId" validate:"required"`
	Answers []UserAnswer `json:"answers" validate:"dive"`
}

// QuizAttempt представляет результат прохождения теста
type QuizAttempt struct {
	ID              string       `json:"id"`
	UserID          string       `json:"userId,omitempty"`
	QuizID          string       `json:"quizId"`
	LessonID        string       `json:"lessonId,omitempty"`
	Answers         []UserAnswer `json:"answers,omitempty"`
	SubmittedAt     Timestamp    `json:"submittedAt"`
	PercentageScore float64      `json:"percentageScore"`
	Score           int          `json:"score"`
	TotalQuestions  int          `json:"totalQuestions"`
	Passed          bool         `json:"passed"`
}
