package store

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

func TestProgressStore_EnrollAndComplete(t *testing.T) {
	ctx := context.Background()
	srv, svc, user := newTestBackend(t)
	course := srv.AddCourse(pkgapi.Course{Title: "Kana"})
	srv.AddLesson(pkgapi.Lesson{CourseID: course.ID, Title: "あ行"})
	srv.AddLesson(pkgapi.Lesson{CourseID: course.ID, Title: "か行"})
	s := NewProgressStore(svc.Progress, quietLogger)

	p, err := s.Enroll(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, p.UserID)

	// повторная запись на курс не дублирует прогресс
	_, err = s.Enroll(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, s.State().Items, 1)

	done, err := s.CompleteLesson(ctx, course.ID, "lesson-1")
	require.NoError(t, err)
	assert.InDelta(t, 50.0, done.ProgressPercentage, 0.001)

	st := s.State()
	assert.Equal(t, []string{"lesson-1"}, st.Items[0].CompletedLessonIDs)
	require.NotNil(t, st.Current)
	assert.Equal(t, []string{"lesson-1"}, st.Current.CompletedLessonIDs)
}

func TestProgressStore_FetchForCourseClearsCurrentOnFailure(t *testing.T) {
	ctx := context.Background()
	srv, svc, _ := newTestBackend(t)
	enrolled := srv.AddCourse(pkgapi.Course{Title: "Kana"})
	other := srv.AddCourse(pkgapi.Course{Title: "Keigo"})
	s := NewProgressStore(svc.Progress, quietLogger)

	_, err := s.Enroll(ctx, enrolled.ID)
	require.NoError(t, err)
	_, err = s.FetchForCourse(ctx, enrolled.ID)
	require.NoError(t, err)
	require.NotNil(t, s.State().Current)

	_, err = s.FetchForCourse(ctx, other.ID)
	require.Error(t, err)

	st := s.State()
	assert.Nil(t, st.Current)
	assert.Equal(t, "Progress not found for course: "+other.ID, st.Error)
	assert.Len(t, st.Items, 1)
}

func TestStudySessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	_, svc, user := newTestBackend(t)
	s := NewStudySessionStore(svc.StudySessions, quietLogger)

	started, err := s.Start(ctx, pkgapi.StartStudySessionRequest{ActivityType: "KANJI_PRACTICE"})
	require.NoError(t, err)

	st := s.State()
	require.NotNil(t, st.Current)
	assert.Equal(t, started.ID, st.Current.ID)
	assert.Len(t, st.Mine, 1)

	_, err = s.FetchByUser(ctx, user.ID)
	require.NoError(t, err)

	ended, err := s.End(ctx, started.ID)
	require.NoError(t, err)

	st = s.State()
	assert.Nil(t, st.Current)
	assert.Equal(t, ended.EndTime, st.Mine[0].EndTime)
	assert.Equal(t, ended.EndTime, st.ByUser[0].EndTime)

	require.NoError(t, s.Delete(ctx, started.ID))
	st = s.State()
	assert.Empty(t, st.Mine)
	assert.Empty(t, st.ByUser)
}

func TestStudySessionStore_StartWithoutActivityFailsLocally(t *testing.T) {
	srv, svc, _ := newTestBackend(t)
	s := NewStudySessionStore(svc.StudySessions, quietLogger)
	before := len(srv.Requests())

	_, err := s.Start(context.Background(), pkgapi.StartStudySessionRequest{CourseID: "course-1"})
	require.Error(t, err)
	assert.NotEmpty(t, s.State().Error)
	assert.Len(t, srv.Requests(), before)
	assert.Empty(t, s.State().Mine)
}

func TestAchievementStore_GrantAndCheck(t *testing.T) {
	ctx := context.Background()
	srv, svc, user := newTestBackend(t, pkgapi.RoleAdmin)
	badge := srv.AddAchievement(pkgapi.Achievement{Name: "First steps", Type: "COURSE_COMPLETION"})
	s := NewAchievementStore(svc.Achievements, quietLogger)

	msg, err := s.Grant(ctx, badge.ID, user.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, msg)

	granted, err := s.FetchUserGranted(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, granted, 1)
	assert.Equal(t, badge.ID, granted[0].ID)
	assert.Equal(t, granted, s.State().UserAchievements)

	msg, err = s.CheckMine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Achievement check completed.", msg)
}

func TestAchievementStore_GrantForbiddenForStudent(t *testing.T) {
	ctx := context.Background()
	srv, svc, user := newTestBackend(t, pkgapi.RoleStudent)
	badge := srv.AddAchievement(pkgapi.Achievement{Name: "First steps"})
	s := NewAchievementStore(svc.Achievements, quietLogger)

	_, err := s.Grant(ctx, badge.ID, user.ID)
	require.Error(t, err)
	assert.Equal(t, "Access Denied", s.State().Error)
}

func TestQuizStore_SubmitMakesAttemptCurrent(t *testing.T) {
	ctx := context.Background()
	srv, svc, _ := newTestBackend(t)
	quiz := srv.AddQuiz(pkgapi.Quiz{
		LessonID: "lesson-1",
		Title:    "Hiragana",
		Questions: []pkgapi.Question{
			{ID: "q1", QuestionType: "FILL_BLANK", CorrectAnswer: "a"},
			{ID: "q2", QuestionType: "MCQ", Options: []pkgapi.QuestionOption{{ID: "o1"}, {ID: "o2", IsCorrect: true}}},
		},
	})
	s := NewQuizStore(svc.Quizzes, quietLogger)

	_, err := s.FetchByLesson(ctx, "lesson-1")
	require.NoError(t, err)
	assert.Len(t, s.State().Items, 1)

	attempt, err := s.Submit(ctx, pkgapi.SubmitQuizRequest{
		QuizID: quiz.ID,
		Answers: []pkgapi.UserAnswer{
			{QuestionID: "q1", SubmittedTextAnswer: "A"},
			{QuestionID: "q2", SelectedOptionID: "o1"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempt.Score)
	assert.False(t, attempt.Passed)

	st := s.State()
	require.NotNil(t, st.CurrentAttempt)
	assert.Equal(t, attempt.ID, st.CurrentAttempt.ID)
	assert.Len(t, st.Attempts, 1)

	attempts, err := s.FetchMyAttempts(ctx)
	require.NoError(t, err)
	assert.Len(t, attempts, 1)
}

func TestVocabularyStore_FuriganaAndMockData(t *testing.T) {
	ctx := context.Background()
	srv, svc, _ := newTestBackend(t)
	s := NewVocabularyStore(svc.JapaneseText, quietLogger)

	entries, err := s.PopulateMockData(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Len(t, s.State().Items, 3)

	reading, err := s.GenerateFurigana(ctx, "先生")
	require.NoError(t, err)
	assert.Equal(t, reading, s.State().LastFurigana)

	srv.FailNext(http.MethodGet, "/japanese-text/furigana", http.StatusInternalServerError, "")
	_, err = s.GenerateFurigana(ctx, "学生")
	require.Error(t, err)
	assert.Equal(t, reading, s.State().LastFurigana)
	// без message берется поле error
	assert.Equal(t, "Internal Server Error", s.State().Error)
}

func TestKanjiStore_SearchReplacesItems(t *testing.T) {
	ctx := context.Background()
	srv, svc, _ := newTestBackend(t)
	srv.AddKanji(pkgapi.KanjiEntry{KanjiCharacter: "日", Meaning: "sun, day"})
	srv.AddKanji(pkgapi.KanjiEntry{KanjiCharacter: "月", Meaning: "moon, month"})
	s := NewKanjiStore(svc.Kanji, quietLogger)

	_, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, s.State().Items, 2)

	found, err := s.Search(ctx, pkgapi.KanjiSearchRequest{Query: "moon", SearchType: "MEANING"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "月", s.State().Items[0].KanjiCharacter)

	k, err := s.FetchByCharacter(ctx, "日")
	require.NoError(t, err)
	assert.Equal(t, k.ID, s.State().Current.ID)
}

type fixedQuizzes struct {
	QuizAPI
}

func (fixedQuizzes) List(ctx context.Context) ([]pkgapi.Quiz, error) {
	return []pkgapi.Quiz{{ID: "q1"}}, nil
}

func (fixedQuizzes) MyAttempts(ctx context.Context) ([]pkgapi.QuizAttempt, error) {
	return []pkgapi.QuizAttempt{{ID: "a1", QuizID: "q1"}}, nil
}

func TestQuizStore_StateIsOneSnapshot(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		s := NewQuizStore(fixedQuizzes{}, quietLogger)
		_, err := s.FetchAll(ctx)
		require.NoError(t, err)
		_, err = s.FetchMyAttempts(ctx)
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Reset()
		}()
		// квизы и попытки видны вместе или не видны вовсе
		st := s.State()
		wg.Wait()

		assert.Equal(t, len(st.Items), len(st.Attempts), "iteration %d", i)
	}
}
