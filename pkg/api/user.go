package api

// User представляет профиль пользователя
type User struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	Bio               string    `json:"bio,omitempty"`
	ProfilePictureURL string    `json:"profilePictureUrl,omitempty"`
	Roles             []string  `json:"roles,omitempty"`
	CreatedAt         Timestamp `json:"createdAt"`
	UpdatedAt         Timestamp `json:"updatedAt"`
}

// UserProfileUpdateRequest представляет запрос на обновление профиля
type UserProfileUpdateRequest struct {
	Username          string `json:"username,omitempty"`
	Email             string `json:"email,omitempty" validate:"omitempty,email"`
	Bio               string `json:"bio,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}

// Progress представляет прогресс пользователя по курсу
type Progress struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"userId,omitempty"`
	CourseID             string    `json:"courseId"`
	Status               string    `json:"status,omitempty"`
	LastAccessedLessonID string    `json:"lastAccessedLessonId,omitempty"`
	CompletedLessonIDs   []string  `json:"completedLessonIds,omitempty"`
	EnrolledAt           Timestamp `json:"enrolledAt"`
	LastAccessedAt       Timestamp `json:"lastAccessedAt"`
	CompletedAt          Timestamp `json:"completedAt"`
	ProgressPercentage   float64   `json:"progressPercentage"`
}

// LessonCompletionRequest представляет отметку о прохождении урока
type LessonCompletionRequest struct {
	LessonID string `json:"lessonId" validate:"required"`
}

// Achievement представляет достижение
type Achievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IconURL     string    `json:"iconUrl,omitempty"`
	Criteria    string    `json:"criteria,omitempty"`
	Type        string    `json:"type,omitempty"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

// ModerationLog представляет запись журнала модерации
type ModerationLog struct {
	ID                string    `json:"id"`
	EntityType        string    `json:"entityType"` // LESSON, COMMENT, USER_PROFILE
	EntityID          string    `json:"entityId"`
	ReportedByUserID  string    `json:"reportedByUserId,omitempty"`
	ModeratedByUserID string    `json:"moderatedByUserId,omitempty"`
	ModerationAction  string    `json:"moderationAction,omitempty"` // REVIEWED, BLOCKED, DELETED, APPROVED
	Reason            string    `json:"reason,omitempty"`
	ModerationDate    Timestamp `json:"moderationDate"`
}

// StudySession представляет учебную сессию
type StudySession struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId,omitempty"`
	LessonID        string    `json:"lessonId,omitempty"`
	CourseID        string    `json:"courseId,omitempty"`
	ActivityType    string    `json:"activityType"` // LESSON_READING, QUIZ, FLASHCARD_REVIEW, WRITING_PRACTICE
	StartTime       Timestamp `json:"startTime"`
	EndTime         Timestamp `json:"endTime"`
	CreatedAt       Timestamp `json:"createdAt"`
	DurationMinutes int64     `json:"durationMinutes"`
}

// StartStudySessionRequest представляет параметры начала учебной сессии
type StartStudySessionRequest struct {
	LessonID     string `json:"lessonId,omitempty"`
	CourseID     string `json:"courseId,omitempty"`
	ActivityType string `json:"activityType" validate:"required"`
}
