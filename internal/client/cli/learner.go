package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

func (c *Cli) dashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show enrolled courses, achievements and recent study sessions",
		Args:  cobra.NoArgs,
		RunE: c.guarded(at("/dashboard"), func(ctx context.Context, _ []string) error {
			var (
				progress     []pkgapi.Progress
				achievements []pkgapi.Achievement
				sessions     []pkgapi.StudySession
			)

			// контейнеры независимы, грузим параллельно
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) {
				progress, err = c.app.Stores.Progress.FetchMine(gctx)
				if err != nil {
					return failure("failed to fetch progress", err)
				}
				return nil
			})
			g.Go(func() (err error) {
				achievements, err = c.app.Stores.Achievements.FetchUserGranted(gctx, c.app.Session.UserID())
				if err != nil {
					return failure("failed to fetch achievements", err)
				}
				return nil
			})
			g.Go(func() (err error) {
				sessions, err = c.app.Stores.StudySessions.FetchMine(gctx)
				if err != nil {
					return failure("failed to fetch study sessions", err)
				}
				return nil
			})
			if err := g.Wait(); err != nil {
				return err
			}

			c.title("Dashboard: " + c.app.Session.User().Username)

			c.io.Println("Courses:")
			if len(progress) == 0 {
				c.io.Println("  not enrolled yet, see 'nihongo courses list'")
			} else if err := c.table("COURSE\tSTATUS\tPROGRESS\tLAST ACCESSED", progressRows(progress)); err != nil {
				return err
			}
			c.io.Println()

			c.io.Println("Achievements:")
			if len(achievements) == 0 {
				c.io.Println("  none yet")
			}
			for _, a := range achievements {
				c.io.Printf("  ★ %s\n", a.Name)
			}
			c.io.Println()

			c.io.Println("Study sessions:")
			if len(sessions) == 0 {
				c.io.Println("  none yet")
				return nil
			}
			return c.table("ID\tACTIVITY\tSTARTED\tMINUTES", sessionRows(sessions))
		}),
	}
}

func progressRows(list []pkgapi.Progress) [][]string {
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		rows = append(rows, []string{p.CourseID, orDash(p.Status), formatPercent(p.ProgressPercentage), formatTime(p.LastAccessedAt)})
	}
	return rows
}

func sessionRows(list []pkgapi.StudySession) [][]string {
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		minutes := "-"
		if !s.EndTime.IsZero() {
			minutes = strconv.FormatInt(s.DurationMinutes, 10)
		}
		rows = append(rows, []string{s.ID, s.ActivityType, formatTime(s.StartTime), minutes})
	}
	return rows
}

func courseView(args []string) string { return "/courses/" + segment(args[0]) }

func (c *Cli) progressCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "progress", Short: "Course enrollment and progress"}

	mine := &cobra.Command{
		Use:   "mine",
		Short: "List my course progress",
		Args:  cobra.NoArgs,
		RunE: c.guarded(at("/dashboard"), func(ctx context.Context, _ []string) error {
			list, err := c.app.Stores.Progress.FetchMine(ctx)
			if err != nil {
				return failure("failed to fetch progress", err)
			}
			if len(list) == 0 {
				c.io.Println("Not enrolled in any course.")
				return nil
			}
			return c.table("COURSE\tSTATUS\tPROGRESS\tLAST ACCESSED", progressRows(list))
		}),
	}

	course := &cobra.Command{
		Use:   "course <courseId>",
		Short: "Show my progress in a course",
		Args:  cobra.ExactArgs(1),
		RunE: c.guarded(courseView, func(ctx context.Context, args []string) error {
			p, err := c.app.Stores.Progress.FetchForCourse(ctx, args[0])
			if err != nil {
				return failure("failed to fetch progress", err)
			}
			return c.render(progressTemplate, p)
		}),
	}

	enroll := &cobra.Command{
		Use:   "enroll <courseId>",
		Short: "Enroll in a course",
		Args:  cobra.ExactArgs(1),
		RunE: c.guarded(courseView, func(ctx context.Context, args []string) error {
			p, err := c.app.Stores.Progress.Enroll(ctx, args[0])
			if err != nil {
				return failure("failed to enroll", err)
			}
			c.io.Printf("✓ Enrolled in %s\n", p.CourseID)
			return nil
		}),
	}

	complete := &cobra.Command{
		Use:   "complete <courseId> <lessonId>",
		Short: "Mark a lesson as completed",
		Args:  cobra.ExactArgs(2),
		RunE: c.guarded(courseView, func(ctx context.Context, args []string) error {
			p, err := c.app.Stores.Progress.CompleteLesson(ctx, args[0], args[1])
			if err != nil {
				return failure("failed to complete lesson", err)
			}
			c.io.Printf("✓ Lesson completed, course progress %s\n", formatPercent(p.ProgressPercentage))
			return nil
		}),
	}

	cmd.AddCommand(mine, course, enroll, complete)
	return cmd
}

func (c *Cli) achievementsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "achievements", Short: "Achievements"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all achievements",
		Args:  cobra.NoArgs,
		RunE: c.guarded(at("/dashboard"), func(ctx context.Context, _ []string) error {
			list, err := c.app.Stores.Achievements.FetchAll(ctx)
			if err != nil {
				return failure("failed to fetch achievements", err)
			}
			if len(list) == 0 {
				c.io.Println("No achievements defined.")
				return nil
			}
			rows := make([][]string, 0, len(list))
			for _, a := range list {
				rows = append(rows, []string{a.ID, a.Name, orDash(a.Type), orDash(a.Description)})
			}
			return c.table("ID\tNAME\tTYPE\tDESCRIPTION", rows)
		}),
	}

	mine := &cobra.Command{
		Use:   "mine",
		Short: "List achievements granted to me",
		Args:  cobra.NoArgs,
		RunE: c.guarded(at("/profile"), func(ctx context.Context, _ []string) error {
			list, err := c.app.Stores.Achievements.FetchUserGranted(ctx, c.app.Session.UserID())
			if err != nil {
				return failure("failed to fetch achievements", err)
			}
			if len(list) == 0 {
				c.io.Println("No achievements yet.")
				return nil
			}
			for _, a := range list {
				c.io.Printf("★ %s\n", a.Name)
			}
			return nil
		}),
	}

	check := &cobra.Command{
		Use:   "check",
		Short: "Ask the server to evaluate my achievements",
		Args:  cobra.NoArgs,
		RunE: c.guarded(at("/dashboard"), func(ctx context.Context, _ []string) error {
			msg, err := c.app.Stores.Achievements.CheckMine(ctx)
			if err != nil {
				return failure("achievement check failed", err)
			}
			c.io.Println("✓ " + msg)
			return nil
		}),
	}

	grant := &cobra.Command{
		Use:   "grant <achievementId> <userId>",
		Short: "Grant an achievement to a user",
		Args:  cobra.ExactArgs(2),
		RunE: c.guarded(at("/admin/achievements"), func(ctx context.Context, args []string) error {
			msg, err := c.app.Stores.Achievements.Grant(ctx, args[0], args[1])
			if err != nil {
				return failure("failed to grant achievement", err)
			}
			c.io.Println("✓ " + msg)
			return nil
		}),
	}

	cmd.AddCommand(list, mine, check, grant)
	return cmd
}

func (c *Cli) sessionsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "sessions", Short: "Study sessions"}

	mine := &cobra.Command{
		Use:   "mine",
		Short: "List my study sessions",
		Args:  cobra.NoArgs,
		RunE: c.guarded(at("/dashboard"), func(ctx context.Context, _ []string) error {
			list, err := c.app.Stores.StudySessions.FetchMine(ctx)
			if err != nil {
				return failure("failed to fetch study sessions", err)
			}
			if len(list) == 0 {
				c.io.Println("No study sessions yet.")
				return nil
			}
			return c.table("ID\tACTIVITY\tSTARTED\tMINUTES", sessionRows(list))
		}),
	}

	var req pkgapi.StartStudySessionRequest
	start := &cobra.Command{
		Use:   "start",
		Short: "Start a study session",
		Args:  cobra.NoArgs,
		RunE: c.guarded(at("/dashboard"), func(ctx context.Context, _ []string) error {
			s, err := c.app.Stores.StudySessions.Start(ctx, req)
			if err != nil {
				return failure("failed to start study session", err)
			}
			c.io.Printf("✓ Study session %s started\n", s.ID)
			return nil
		}),
	}
	start.Flags().StringVar(&req.ActivityType, "activity", "", "LESSON_READING, QUIZ, FLASHCARD_REVIEW or WRITING_PRACTICE")
	start.Flags().StringVar(&req.LessonID, "lesson", "", "Lesson id")
	start.Flags().StringVar(&req.CourseID, "course", "", "Course id")

	end := &cobra.Command{
		Use:   "end <sessionId>",
		Short: "End a study session",
		Args:  cobra.ExactArgs(1),
		RunE: c.guarded(at("/dashboard"), func(ctx context.Context, args []string) error {
			s, err := c.app.Stores.StudySessions.End(ctx, args[0])
			if err != nil {
				return failure("failed to end study session", err)
			}
			c.io.Printf("✓ Study session ended after %d minute(s)\n", s.DurationMinutes)
			return nil
		}),
	}

	del := &cobra.Command{
		Use:   "delete <sessionId>",
		Short: "Delete a study session",
		Args:  cobra.ExactArgs(1),
		RunE: c.guarded(at("/dashboard"), func(ctx context.Context, args []string) error {
			if err := c.app.Stores.StudySessions.Delete(ctx, args[0]); err != nil {
				return failure("failed to delete study session", err)
			}
			c.io.Printf("✓ Study session %s deleted\n", args[0])
			return nil
		}),
	}

	cmd.AddCommand(mine, start, end, del)
	return cmd
}
