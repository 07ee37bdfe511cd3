package apitest

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req pkgapi.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.Email]
	s.mu.Unlock()
	if !ok || acc.Password != req.Password {
		writeError(w, http.StatusUnauthorized, "Bad credentials")
		return
	}

	token := s.IssueToken(acc.User.ID)
	writeJSON(w, http.StatusOK, pkgapi.AuthResponse{
		Token:    token,
		Type:     "Bearer",
		ID:       acc.User.ID,
		Username: acc.User.Username,
		Email:    acc.User.Email,
		Roles:    acc.User.Roles,
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req pkgapi.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	_, taken := s.accounts[req.Email]
	s.mu.Unlock()
	if taken {
		writeError(w, http.StatusBadRequest, "Error: Email is already in use!")
		return
	}

	s.AddAccount(req.Username, req.Email, req.Password, pkgapi.RoleStudent)
	writeMessage(w, "User registered successfully!")
}

// crudRoutes mounts list/create on base and get/update/delete on base/{id}.
func crudRoutes[T any](r chi.Router, base string, res *resource[T], write func(chi.Router)) {
	r.Get(base, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, res.all())
	})
	r.Get(base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		v, ok := res.get(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "Not found: "+chi.URLParam(r, "id"))
			return
		}
		writeJSON(w, http.StatusOK, v)
	})

	r.Group(func(r chi.Router) {
		if write != nil {
			write(r)
		}
		r.Post(base, func(w http.ResponseWriter, r *http.Request) {
			var v T
			if !decode(w, r, &v) {
				return
			}
			*res.id(&v) = ""
			writeJSON(w, http.StatusCreated, res.add(v))
		})
		r.Put(base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
			var v T
			if !decode(w, r, &v) {
				return
			}
			*res.id(&v) = chi.URLParam(r, "id")
			if !res.put(v) {
				writeError(w, http.StatusNotFound, "Not found: "+chi.URLParam(r, "id"))
				return
			}
			writeJSON(w, http.StatusOK, v)
		})
		r.Delete(base+"/{id}", func(w http.ResponseWriter, r *http.Request) {
			if !res.delete(chi.URLParam(r, "id")) {
				writeError(w, http.StatusNotFound, "Not found: "+chi.URLParam(r, "id"))
				return
			}
			writeMessage(w, "Deleted successfully")
		})
	})
}

func (s *Server) mountContent(r chi.Router) {
	crudRoutes(r, "/courses", s.courses, nil)

	r.Post("/courses/{courseId}/modules/{moduleId}/lessons", func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.LessonRequest
		if !decode(w, r, &req) {
			return
		}
		l := s.lessons.add(pkgapi.Lesson{
			CourseID:   chi.URLParam(r, "courseId"),
			ModuleID:   chi.URLParam(r, "moduleId"),
			Title:      req.Title,
			Content:    req.Content,
			LessonType: req.LessonType,
			OrderIndex: req.OrderIndex,
		})
		writeJSON(w, http.StatusCreated, l)
	})
	r.Get("/courses/{courseId}/modules/{moduleId}/lessons/{lessonId}", func(w http.ResponseWriter, r *http.Request) {
		l, ok := s.lessons.get(chi.URLParam(r, "lessonId"))
		if !ok || l.ModuleID != chi.URLParam(r, "moduleId") {
			writeError(w, http.StatusNotFound, "Lesson not found")
			return
		}
		writeJSON(w, http.StatusOK, l)
	})
	r.Get("/modules/{moduleId}/lessons", func(w http.ResponseWriter, r *http.Request) {
		moduleID := chi.URLParam(r, "moduleId")
		writeJSON(w, http.StatusOK, s.lessons.filter(func(l pkgapi.Lesson) bool { return l.ModuleID == moduleID }))
	})
	r.Put("/lessons/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.LessonRequest
		if !decode(w, r, &req) {
			return
		}
		l, ok := s.lessons.get(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "Lesson not found")
			return
		}
		l.Title, l.Content, l.LessonType, l.OrderIndex = req.Title, req.Content, req.LessonType, req.OrderIndex
		s.lessons.put(l)
		writeJSON(w, http.StatusOK, l)
	})
	r.Delete("/lessons/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !s.lessons.delete(chi.URLParam(r, "id")) {
			writeError(w, http.StatusNotFound, "Lesson not found")
			return
		}
		writeMessage(w, "Lesson deleted successfully")
	})

	// Quizzes
	r.Post("/lessons/{lessonId}/quizzes", func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.QuizRequest
		if !decode(w, r, &req) {
			return
		}
		q := s.quizzes.add(pkgapi.Quiz{
			LessonID:    chi.URLParam(r, "lessonId"),
			Title:       req.Title,
			Description: req.Description,
			Questions:   req.Questions,
		})
		writeJSON(w, http.StatusCreated, q)
	})
	r.Get("/lessons/{lessonId}/quizzes", func(w http.ResponseWriter, r *http.Request) {
		lessonID := chi.URLParam(r, "lessonId")
		writeJSON(w, http.StatusOK, s.quizzes.filter(func(q pkgapi.Quiz) bool { return q.LessonID == lessonID }))
	})
	r.Post("/quizzes/submit", s.submitQuiz)
	r.Get("/quizzes/my-quiz-attempts", func(w http.ResponseWriter, r *http.Request) {
		me := currentUser(r).ID
		writeJSON(w, http.StatusOK, s.attempts.filter(func(a pkgapi.QuizAttempt) bool { return a.UserID == me }))
	})
	r.Get("/quizzes/quiz-attempts/{attemptId}", func(w http.ResponseWriter, r *http.Request) {
		a, ok := s.attempts.get(chi.URLParam(r, "attemptId"))
		if !ok {
			writeError(w, http.StatusNotFound, "Quiz attempt not found")
			return
		}
		writeJSON(w, http.StatusOK, a)
	})
	crudRoutes(r, "/quizzes", s.quizzes, nil)

	// Flashcards
	r.Post("/lessons/{lessonId}/flashcards", func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.FlashcardSetRequest
		if !decode(w, r, &req) {
			return
		}
		f := s.flashcards.add(pkgapi.FlashcardSet{
			LessonID:    chi.URLParam(r, "lessonId"),
			Title:       req.Title,
			Description: req.Description,
			Flashcards:  req.Flashcards,
		})
		writeJSON(w, http.StatusCreated, f)
	})
	r.Get("/lessons/{lessonId}/flashcards", func(w http.ResponseWriter, r *http.Request) {
		lessonID := chi.URLParam(r, "lessonId")
		writeJSON(w, http.StatusOK, s.flashcards.filter(func(f pkgapi.FlashcardSet) bool { return f.LessonID == lessonID }))
	})
	crudRoutes(r, "/flashcards", s.flashcards, nil)
}

// submitQuiz оценивает ответы по correctAnswer или isCorrect у варианта
func (s *Server) submitQuiz(w http.ResponseWriter, r *http.Request) {
	var req pkgapi.SubmitQuizRequest
	if !decode(w, r, &req) {
		return
	}
	quiz, ok := s.quizzes.get(req.QuizID)
	if !ok {
		writeError(w, http.StatusNotFound, "Quiz not found with id: "+req.QuizID)
		return
	}

	score := 0
	answers := slices.Clone(req.Answers)
	for i, a := range answers {
		for _, q := range quiz.Questions {
			if q.ID != a.QuestionID {
				continue
			}
			correct := q.CorrectAnswer != "" && strings.EqualFold(q.CorrectAnswer, a.SubmittedTextAnswer)
			for _, o := range q.Options {
				if o.ID == a.SelectedOptionID && o.IsCorrect {
					correct = true
				}
			}
			answers[i].IsCorrect = correct
			if correct {
				score++
			}
		}
	}

	total := len(quiz.Questions)
	pct := 0.0
	if total > 0 {
		pct = float64(score) * 100 / float64(total)
	}
	attempt := s.attempts.add(pkgapi.QuizAttempt{
		UserID:          currentUser(r).ID,
		QuizID:          quiz.ID,
		LessonID:        quiz.LessonID,
		Answers:         answers,
		SubmittedAt:     pkgapi.Timestamp{Time: time.Now().UTC()},
		Score:           score,
		TotalQuestions:  total,
		PercentageScore: pct,
		Passed:          pct >= 70,
	})
	writeJSON(w, http.StatusOK, attempt)
}

func (s *Server) mountJapanese(r chi.Router) {
	r.Get("/kanji/search", func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(r.URL.Query().Get("query"))
		writeJSON(w, http.StatusOK, s.kanji.filter(func(k pkgapi.KanjiEntry) bool {
			return strings.Contains(strings.ToLower(k.KanjiCharacter+" "+k.Meaning+" "+k.Onyomi+" "+k.Kunyomi), q)
		}))
	})
	r.Get("/kanji/character/{c}", func(w http.ResponseWriter, r *http.Request) {
		c := chi.URLParam(r, "c")
		k, ok := s.kanji.find(func(k pkgapi.KanjiEntry) bool { return k.KanjiCharacter == c })
		if !ok {
			writeError(w, http.StatusNotFound, "Kanji not found: "+c)
			return
		}
		writeJSON(w, http.StatusOK, k)
	})
	crudRoutes(r, "/kanji", s.kanji, nil)

	r.Get("/japanese-text/furigana", func(w http.ResponseWriter, r *http.Request) {
		text := r.URL.Query().Get("text")
		reading := text
		for _, v := range s.vocabulary.all() {
			if v.Furigana != "" {
				reading = strings.ReplaceAll(reading, v.JapaneseWord, v.JapaneseWord+"("+v.Furigana+")")
			}
		}
		w.Header().Set("Content-Type", "text/plain;charset=UTF-8")
		_, _ = w.Write([]byte(reading))
	})
	r.Get("/japanese-text/vocabulary/lookup", func(w http.ResponseWriter, r *http.Request) {
		word := r.URL.Query().Get("word")
		v, ok := s.vocabulary.find(func(v pkgapi.VocabularyEntry) bool { return v.JapaneseWord == word })
		if !ok {
			writeError(w, http.StatusNotFound, "Vocabulary entry not found for word: "+word)
			return
		}
		writeJSON(w, http.StatusOK, v)
	})
	r.Post("/japanese-text/vocabulary/mock-data", func(w http.ResponseWriter, r *http.Request) {
		for _, v := range []pkgapi.VocabularyEntry{
			{JapaneseWord: "日本語", Furigana: "にほんご", Romaji: "nihongo", Meaning: "Japanese language", JLPTLevel: "N5"},
			{JapaneseWord: "学生", Furigana: "がくせい", Romaji: "gakusei", Meaning: "student", JLPTLevel: "N5"},
			{JapaneseWord: "先生", Furigana: "せんせい", Romaji: "sensei", Meaning: "teacher", JLPTLevel: "N5"},
		} {
			s.vocabulary.add(v)
		}
		w.WriteHeader(http.StatusOK)
	})
	crudRoutes(r, "/japanese-text/vocabulary", s.vocabulary, nil)

	r.Get("/search/text", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("query")
		writeJSON(w, http.StatusOK, pkgapi.SearchResult{
			Query: q,
			KanjiResults: s.kanji.filter(func(k pkgapi.KanjiEntry) bool {
				return strings.Contains(q, k.KanjiCharacter) || strings.EqualFold(k.Meaning, q)
			}),
			VocabularyResults: s.vocabulary.filter(func(v pkgapi.VocabularyEntry) bool {
				return strings.Contains(q, v.JapaneseWord) || strings.EqualFold(v.Meaning, q)
			}),
			CourseResults: s.courses.filter(func(c pkgapi.Course) bool {
				return q != "" && strings.Contains(strings.ToLower(c.Title), strings.ToLower(q))
			}),
		})
	})
}

func (s *Server) mountLearner(r chi.Router) {
	r.Post("/progress/enroll/{courseId}", func(w http.ResponseWriter, r *http.Request) {
		me, courseID := currentUser(r).ID, chi.URLParam(r, "courseId")
		if _, ok := s.courses.get(courseID); !ok {
			writeError(w, http.StatusNotFound, "Course not found with id: "+courseID)
			return
		}
		if p, ok := s.progress.find(func(p pkgapi.Progress) bool { return p.UserID == me && p.CourseID == courseID }); ok {
			writeJSON(w, http.StatusOK, p)
			return
		}
		now := pkgapi.Timestamp{Time: time.Now().UTC()}
		writeJSON(w, http.StatusOK, s.progress.add(pkgapi.Progress{
			UserID:         me,
			CourseID:       courseID,
			Status:         "IN_PROGRESS",
			EnrolledAt:     now,
			LastAccessedAt: now,
		}))
	})
	r.Post("/progress/courses/{courseId}/complete-lesson", func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.LessonCompletionRequest
		if !decode(w, r, &req) {
			return
		}
		me, courseID := currentUser(r).ID, chi.URLParam(r, "courseId")
		p, ok := s.progress.find(func(p pkgapi.Progress) bool { return p.UserID == me && p.CourseID == courseID })
		if !ok {
			writeError(w, http.StatusNotFound, "User is not enrolled in course: "+courseID)
			return
		}
		if !slices.Contains(p.CompletedLessonIDs, req.LessonID) {
			p.CompletedLessonIDs = append(p.CompletedLessonIDs, req.LessonID)
		}
		p.LastAccessedLessonID = req.LessonID
		p.LastAccessedAt = pkgapi.Timestamp{Time: time.Now().UTC()}
		if total := len(s.lessons.filter(func(l pkgapi.Lesson) bool { return l.CourseID == courseID })); total > 0 {
			p.ProgressPercentage = float64(len(p.CompletedLessonIDs)) * 100 / float64(total)
		}
		s.progress.put(p)
		writeJSON(w, http.StatusOK, p)
	})
	r.Get("/progress/courses/{courseId}", func(w http.ResponseWriter, r *http.Request) {
		me, courseID := currentUser(r).ID, chi.URLParam(r, "courseId")
		p, ok := s.progress.find(func(p pkgapi.Progress) bool { return p.UserID == me && p.CourseID == courseID })
		if !ok {
			writeError(w, http.StatusNotFound, "Progress not found for course: "+courseID)
			return
		}
		writeJSON(w, http.StatusOK, p)
	})
	r.Get("/progress/my-progress", func(w http.ResponseWriter, r *http.Request) {
		me := currentUser(r).ID
		writeJSON(w, http.StatusOK, s.progress.filter(func(p pkgapi.Progress) bool { return p.UserID == me }))
	})

	r.Post("/achievements/check-my-achievements", func(w http.ResponseWriter, r *http.Request) {
		me := currentUser(r).ID
		// достижения за курс выдаются, если хотя бы один курс пройден полностью
		completed := s.progress.filter(func(p pkgapi.Progress) bool { return p.UserID == me && p.ProgressPercentage >= 100 })
		if len(completed) > 0 {
			for _, a := range s.achievements.all() {
				if a.Type == "COURSE_COMPLETION" {
					s.grant(me, a.ID)
				}
			}
		}
		writeMessage(w, "Achievement check completed.")
	})
	r.Get("/achievements/user/{userId}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		ids := slices.Clone(s.granted[chi.URLParam(r, "userId")])
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, s.achievements.filter(func(a pkgapi.Achievement) bool { return slices.Contains(ids, a.ID) }))
	})
	r.With(requireRole(pkgapi.RoleAdmin)).Post("/achievements/{id}/grant-to-user/{userId}", func(w http.ResponseWriter, r *http.Request) {
		id, userID := chi.URLParam(r, "id"), chi.URLParam(r, "userId")
		if _, ok := s.achievements.get(id); !ok {
			writeError(w, http.StatusNotFound, "Achievement not found")
			return
		}
		if _, ok := s.users.get(userID); !ok {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		s.grant(userID, id)
		writeMessage(w, "Achievement granted successfully.")
	})
	crudRoutes(r, "/achievements", s.achievements, func(r chi.Router) { r.Use(requireRole(pkgapi.RoleAdmin)) })

	r.Post("/study-sessions/start", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("activityType") == "" {
			writeError(w, http.StatusBadRequest, "Required request parameter 'activityType' is not present")
			return
		}
		now := pkgapi.Timestamp{Time: time.Now().UTC()}
		writeJSON(w, http.StatusOK, s.studySessions.add(pkgapi.StudySession{
			UserID:       currentUser(r).ID,
			LessonID:     q.Get("lessonId"),
			CourseID:     q.Get("courseId"),
			ActivityType: q.Get("activityType"),
			StartTime:    now,
			CreatedAt:    now,
		}))
	})
	r.Post("/study-sessions/{id}/end", func(w http.ResponseWriter, r *http.Request) {
		ss, ok := s.studySessions.get(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "Study session not found")
			return
		}
		if !ss.EndTime.IsZero() {
			writeError(w, http.StatusBadRequest, "Study session already ended")
			return
		}
		ss.EndTime = pkgapi.Timestamp{Time: time.Now().UTC()}
		ss.DurationMinutes = int64(ss.EndTime.Sub(ss.StartTime.Time) / time.Minute)
		s.studySessions.put(ss)
		writeJSON(w, http.StatusOK, ss)
	})
	r.Get("/study-sessions/my-sessions", func(w http.ResponseWriter, r *http.Request) {
		me := currentUser(r).ID
		writeJSON(w, http.StatusOK, s.studySessions.filter(func(ss pkgapi.StudySession) bool { return ss.UserID == me }))
	})
	r.Get("/study-sessions/user/{userId}", func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userId")
		writeJSON(w, http.StatusOK, s.studySessions.filter(func(ss pkgapi.StudySession) bool { return ss.UserID == userID }))
	})
	r.Get("/study-sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		ss, ok := s.studySessions.get(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "Study session not found")
			return
		}
		writeJSON(w, http.StatusOK, ss)
	})
	r.Delete("/study-sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !s.studySessions.delete(chi.URLParam(r, "id")) {
			writeError(w, http.StatusNotFound, "Study session not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func (s *Server) grant(userID, achievementID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.granted[userID], achievementID) {
		s.granted[userID] = append(s.granted[userID], achievementID)
	}
}

func (s *Server) mountAdmin(r chi.Router) {
	r.Get("/users/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentUser(r))
	})
	r.Put("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req pkgapi.UserProfileUpdateRequest
		if !decode(w, r, &req) {
			return
		}
		me, id := currentUser(r), chi.URLParam(r, "id")
		if me.ID != id && !slices.Contains(me.Roles, pkgapi.RoleAdmin) {
			writeError(w, http.StatusForbidden, "Access Denied")
			return
		}
		u, ok := s.users.get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		if req.Username != "" {
			u.Username = req.Username
		}
		if req.Email != "" {
			u.Email = req.Email
		}
		if req.Bio != "" {
			u.Bio = req.Bio
		}
		if req.ProfilePictureURL != "" {
			u.ProfilePictureURL = req.ProfilePictureURL
		}
		u.UpdatedAt = pkgapi.Timestamp{Time: time.Now().UTC()}
		s.users.put(u)
		writeJSON(w, http.StatusOK, u)
	})
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.users.get(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeJSON(w, http.StatusOK, u)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireRole(pkgapi.RoleAdmin))
		r.Get("/users", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, s.users.all())
		})
		r.Delete("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
			if !s.users.delete(chi.URLParam(r, "id")) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			writeMessage(w, "User deleted successfully")
		})
		crudRoutes(r, "/moderation-logs", s.moderation, nil)
	})
}
