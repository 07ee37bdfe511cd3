package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

func (c *Cli) coursesCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "courses", Short: "Browse and manage courses"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all courses",
		Args:  cobra.NoArgs,
		RunE: c.guarded(at("/courses"), func(ctx context.Context, _ []string) error {
			courses, err := c.app.Stores.Courses.FetchAll(ctx)
			if err != nil {
				return failure("failed to fetch courses", err)
			}
			c.title("Courses")
			if len(courses) == 0 {
				c.io.Println("No courses found.")
				return nil
			}
			rows := make([][]string, 0, len(courses))
			for _, course := range courses {
				rows = append(rows, []string{course.ID, course.Title, orDash(course.DifficultyLevel), strconv.Itoa(len(course.Modules))})
			}
			return c.table("ID\tTITLE\tLEVEL\tMODULES", rows)
		}),
	}

	show := &cobra.Command{
		Use:   "show <courseId>",
		Short: "Show a course with its modules",
		Args:  cobra.ExactArgs(1),
		RunE: c.guarded(func(args []string) string { return "/courses/" + segment(args[0]) }, func(ctx context.Context, args []string) error {
			course, err := c.app.Stores.Courses.FetchByID(ctx, args[0])
			if err != nil {
				return failure("failed to fetch course", err)
			}
			return c.render(courseTemplate, course)
		}),
	}

	var req pkgapi.CourseRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a course",
		Args:  cobra.NoArgs,
		RunE: c.guarded(at("/admin/courses"), func(ctx context.Context, _ []string) error {
			if err := c.prompt(&req.Title, "Title: "); err != nil {
				return err
			}
			course, err := c.app.Stores.Courses.Create(ctx, req)
			if err != nil {
				return failure("failed to create course", err)
			}
			c.io.Printf("✓ Course created: %s (%s)\n", course.Title, course.ID)
			return nil
		}),
	}
	create.Flags().StringVar(&req.Title, "title", "", "Course title")
	create.Flags().StringVar(&req.Description, "description", "", "Course description")
	create.Flags().StringVar(&req.DifficultyLevel, "level", "BEGINNER", "BEGINNER, INTERMEDIATE or ADVANCED")

	del := &cobra.Command{
		Use:   "delete <courseId>",
		Short: "Delete a course",
		Args:  cobra.ExactArgs(1),
		RunE: c.guarded(at("/admin/courses"), func(ctx context.Context, args []string) error {
			if err := c.app.Stores.Courses.Delete(ctx, args[0]); err != nil {
				return failure("failed to delete course", err)
			}
			c.io.Printf("✓ Course %s deleted\n", args[0])
			return nil
		}),
	}

	cmd.AddCommand(list, show, create, del)
	return cmd
}

func (c *Cli) lessonsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "lessons", Short: "Browse lessons"}

	list := &cobra.Command{
		Use:   "list <moduleId>",
		Short: "List the lessons of a course module",
		Args:  cobra.ExactArgs(1),
		RunE: c.guarded(at("/courses"), func(ctx context.Context, args []string) error {
			lessons, err := c.app.Stores.Lessons.FetchByModule(ctx, args[0])
			if err != nil {
				return failure("failed to fetch lessons", err)
			}
			if len(lessons) == 0 {
				c.io.Println("No lessons found.")
				return nil
			}
			rows := make([][]string, 0, len(lessons))
			for _, l := range lessons {
				rows = append(rows, []string{strconv.Itoa(l.OrderIndex), l.ID, l.Title, orDash(l.LessonType)})
			}
			return c.table("#\tID\tTITLE\tTYPE", rows)
		}),
	}

	show := &cobra.Command{
		Use:   "show <courseId> <moduleId> <lessonId>",
		Short: "Show a lesson",
		Args:  cobra.ExactArgs(3),
		RunE: c.guarded(func(args []string) string {
			return "/courses/" + segment(args[0]) + "/modules/" + segment(args[1]) + "/lessons/" + segment(args[2])
		}, func(ctx context.Context, args []string) error {
			lesson, err := c.app.Stores.Lessons.FetchByID(ctx, args[0], args[1], args[2])
			if err != nil {
				return failure("failed to fetch lesson", err)
			}
			return c.render(lessonTemplate, lesson)
		}),
	}

	cmd.AddCommand(list, show)
	return cmd
}

func (c *Cli) quizzesCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "quizzes", Short: "Quizzes and attempts"}

	list := &cobra.Command{
		Use:   "list <lessonId>",
		Short: "List the quizzes of a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: c.guarded(at("/courses"), func(ctx context.Context, args []string) error {
			quizzes, err := c.app.Stores.Quizzes.FetchByLesson(ctx, args[0])
			if err != nil {
				return failure("failed to fetch quizzes", err)
			}
			if len(quizzes) == 0 {
				c.io.Println("No quizzes found.")
				return nil
			}
			rows := make([][]string, 0, len(quizzes))
			for _, q := range quizzes {
				rows = append(rows, []string{q.ID, q.Title, strconv.Itoa(len(q.Questions))})
			}
			return c.table("ID\tTITLE\tQUESTIONS", rows)
		}),
	}

	show := &cobra.Command{
		Use:   "show <quizId>",
		Short: "Show a quiz",
		Args:  cobra.ExactArgs(1),
		RunE: c.guarded(at("/courses"), func(ctx context.Context, args []string) error {
			quiz, err := c.app.Stores.Quizzes.FetchByID(ctx, args[0])
			if err != nil {
				return failure("failed to fetch quiz", err)
			}
			return c.render(quizTemplate, quiz)
		}),
	}

	play := &cobra.Command{
		Use:   "play <lessonId> <quizId>",
		Short: "Answer a quiz interactively and submit it",
		Args:  cobra.ExactArgs(2),
		RunE: c.guarded(func(args []string) string {
			return "/lessons/" + segment(args[0]) + "/quizzes/" + segment(args[1]) + "/play"
		}, func(ctx context.Context, args []string) error {
			return c.playQuiz(ctx, args[1])
		}),
	}

	attempts := &cobra.Command{
		Use:   "attempts",
		Short: "List my quiz attempts",
		Args:  cobra.NoArgs,
		RunE: c.guarded(at("/dashboard"), func(ctx context.Context, _ []string) error {
			list, err := c.app.Stores.Quizzes.FetchMyAttempts(ctx)
			if err != nil {
				return failure("failed to fetch quiz attempts", err)
			}
			if len(list) == 0 {
				c.io.Println("No attempts yet.")
				return nil
			}
			rows := make([][]string, 0, len(list))
			for _, a := range list {
				rows = append(rows, []string{a.ID, a.QuizID, fmt.Sprintf("%d/%d", a.Score, a.TotalQuestions), formatPercent(a.PercentageScore), formatTime(a.SubmittedAt)})
			}
			return c.table("ID\tQUIZ\tSCORE\tPERCENT\tSUBMITTED", rows)
		}),
	}

	cmd.AddCommand(list, show, play, attempts)
	return cmd
}

// playQuiz спрашивает ответ на каждый вопрос и отправляет попытку
func (c *Cli) playQuiz(ctx context.Context, quizID string) error {
	quiz, err := c.app.Stores.Quizzes.FetchByID(ctx, quizID)
	if err != nil {
		return failure("failed to fetch quiz", err)
	}
	c.title(quiz.Title)

	req := pkgapi.SubmitQuizRequest{QuizID: quiz.ID}
	for i, q := range quiz.Questions {
		c.io.Printf("%d. %s\n", i+1, q.QuestionText)
		answer := pkgapi.UserAnswer{QuestionID: q.ID}

		if len(q.Options) == 0 {
			text, err := c.io.ReadInput("Answer: ")
			if err != nil {
				return fmt.Errorf("failed to read answer: %w", err)
			}
			answer.SubmittedTextAnswer = text
		} else {
			for j, o := range q.Options {
				c.io.Printf("   %d) %s\n", j+1, o.OptionText)
			}
			choice, err := c.io.ReadInput("Choice: ")
			if err != nil {
				return fmt.Errorf("failed to read answer: %w", err)
			}
			n, err := strconv.Atoi(strings.TrimSpace(choice))
			if err != nil || n < 1 || n > len(q.Options) {
				return fmt.Errorf("invalid choice %q: expected 1-%d", choice, len(q.Options))
			}
			answer.SelectedOptionID = q.Options[n-1].ID
		}
		req.Answers = append(req.Answers, answer)
		c.io.Println()
	}

	attempt, err := c.app.Stores.Quizzes.Submit(ctx, req)
	if err != nil {
		return failure("failed to submit quiz", err)
	}
	return c.render(attemptTemplate, attempt)
}

func (c *Cli) flashcardsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "flashcards", Short: "Flashcard sets"}

	list := &cobra.Command{
		Use:   "list <lessonId>",
		Short: "List the flashcard sets of a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: c.guarded(at("/courses"), func(ctx context.Context, args []string) error {
			sets, err := c.app.Stores.Flashcards.FetchByLesson(ctx, args[0])
			if err != nil {
				return failure("failed to fetch flashcards", err)
			}
			if len(sets) == 0 {
				c.io.Println("No flashcard sets found.")
				return nil
			}
			rows := make([][]string, 0, len(sets))
			for _, s := range sets {
				rows = append(rows, []string{s.ID, s.Title, strconv.Itoa(len(s.Flashcards))})
			}
			return c.table("ID\tTITLE\tCARDS", rows)
		}),
	}

	show := &cobra.Command{
		Use:   "show <setId>",
		Short: "Show all cards of a set",
		Args:  cobra.ExactArgs(1),
		RunE: c.guarded(at("/courses"), func(ctx context.Context, args []string) error {
			set, err := c.app.Stores.Flashcards.FetchByID(ctx, args[0])
			if err != nil {
				return failure("failed to fetch flashcard set", err)
			}
			return c.render(flashcardSetTemplate, set)
		}),
	}

	review := &cobra.Command{
		Use:   "review <lessonId> <setId>",
		Short: "Review a set card by card inside a study session",
		Args:  cobra.ExactArgs(2),
		RunE: c.guarded(func(args []string) string {
			return "/lessons/" + segment(args[0]) + "/flashcards/" + segment(args[1]) + "/review"
		}, func(ctx context.Context, args []string) error {
			return c.reviewFlashcards(ctx, args[0], args[1])
		}),
	}

	cmd.AddCommand(list, show, review)
	return cmd
}

// reviewFlashcards показывает лицевую сторону, ждет Enter и показывает оборот
func (c *Cli) reviewFlashcards(ctx context.Context, lessonID, setID string) error {
	set, err := c.app.Stores.Flashcards.FetchByID(ctx, setID)
	if err != nil {
		return failure("failed to fetch flashcard set", err)
	}

	ss, err := c.app.Stores.StudySessions.Start(ctx, pkgapi.StartStudySessionRequest{
		LessonID:     lessonID,
		ActivityType: "FLASHCARD_REVIEW",
	})
	if err != nil {
		return failure("failed to start study session", err)
	}

	c.title(set.Title)
	flipped := 0
	for i, card := range set.Flashcards {
		front, back := card.FrontText, card.BackText
		if front == "" {
			front = card.Front
		}
		if back == "" {
			back = card.Back
		}
		c.io.Printf("[%d/%d] %s\n", i+1, len(set.Flashcards), front)
		if _, err := c.io.ReadInput("(press Enter to flip) "); err != nil {
			break
		}
		c.io.Printf("      %s\n", back)
		if card.Furigana != "" {
			c.io.Printf("      %s\n", card.Furigana)
		}
		c.io.Println()
		flipped++
	}

	// сессию закрываем даже после отмены, иначе она останется открытой на сервере
	ended, err := c.app.Stores.StudySessions.End(context.WithoutCancel(ctx), ss.ID)
	if err != nil {
		return failure("failed to end study session", err)
	}
	c.io.Printf("✓ Reviewed %d card(s), %d minute(s)\n", flipped, ended.DurationMinutes)
	return nil
}
