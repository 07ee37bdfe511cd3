package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	pkgapi "github.com/iudanet/nihongo/pkg/api"
)

func kanjiRows(list []pkgapi.KanjiEntry) [][]string {
	rows := make([][]string, 0, len(list))
	for _, k := range list {
		rows = append(rows, []string{k.KanjiCharacter, k.ID, orDash(k.JLPTLevel), orDash(k.Onyomi), orDash(k.Kunyomi), k.Meaning})
	}
	return rows
}

const kanjiHeader = "KANJI\tID\tJLPT\tON\tKUN\tMEANING"

func vocabRows(list []pkgapi.VocabularyEntry) [][]string {
	rows := make([][]string, 0, len(list))
	for _, v := range list {
		rows = append(rows, []string{v.JapaneseWord, v.ID, orDash(v.Furigana), orDash(v.Romaji), v.Meaning})
	}
	return rows
}

const vocabHeader = "WORD\tID\tFURIGANA\tROMAJI\tMEANING"

func (c *Cli) kanjiCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "kanji", Short: "Kanji dictionary"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all kanji",
		Args:  cobra.NoArgs,
		RunE: c.guarded(at("/kanji"), func(ctx context.Context, _ []string) error {
			list, err := c.app.Stores.Kanji.FetchAll(ctx)
			if err != nil {
				return failure("failed to fetch kanji", err)
			}
			if len(list) == 0 {
				c.io.Println("No kanji found.")
				return nil
			}
			return c.table(kanjiHeader, kanjiRows(list))
		}),
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a kanji entry",
		Args:  cobra.ExactArgs(1),
		RunE: c.guarded(func(args []string) string { return "/kanji/" + segment(args[0]) }, func(ctx context.Context, args []string) error {
			k, err := c.app.Stores.Kanji.FetchByID(ctx, args[0])
			if err != nil {
				return failure("failed to fetch kanji", err)
			}
			return c.render(kanjiTemplate, k)
		}),
	}

	char := &cobra.Command{
		Use:   "char <kanji>",
		Short: "Look a kanji up by its character",
		Args:  cobra.ExactArgs(1),
		RunE: c.guarded(at("/kanji"), func(ctx context.Context, args []string) error {
			k, err := c.app.Stores.Kanji.FetchByCharacter(ctx, args[0])
			if err != nil {
				return failure("failed to fetch kanji", err)
			}
			return c.render(kanjiTemplate, k)
		}),
	}

	var searchType string
	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search kanji by character, reading or meaning",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.guarded(at("/kanji"), func(ctx context.Context, args []string) error {
			list, err := c.app.Stores.Kanji.Search(ctx, pkgapi.KanjiSearchRequest{
				Query:      strings.Join(args, " "),
				SearchType: searchType,
			})
			if err != nil {
				return failure("kanji search failed", err)
			}
			if len(list) == 0 {
				c.io.Println("Nothing found.")
				return nil
			}
			return c.table(kanjiHeader, kanjiRows(list))
		}),
	}
	search.Flags().StringVar(&searchType, "type", "", "CHARACTER, READING, MEANING or ALL")

	cmd.AddCommand(list, show, char, search)
	return cmd
}

func (c *Cli) vocabCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "vocab", Aliases: []string{"vocabulary"}, Short: "Vocabulary and furigana"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all vocabulary entries",
		Args:  cobra.NoArgs,
		RunE: c.guarded(at("/vocabulary"), func(ctx context.Context, _ []string) error {
			list, err := c.app.Stores.Vocabulary.FetchAll(ctx)
			if err != nil {
				return failure("failed to fetch vocabulary", err)
			}
			if len(list) == 0 {
				c.io.Println("No vocabulary found. Try 'nihongo vocab mock-data'.")
				return nil
			}
			return c.table(vocabHeader, vocabRows(list))
		}),
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a vocabulary entry",
		Args:  cobra.ExactArgs(1),
		RunE: c.guarded(at("/vocabulary"), func(ctx context.Context, args []string) error {
			v, err := c.app.Stores.Vocabulary.FetchByID(ctx, args[0])
			if err != nil {
				return failure("failed to fetch vocabulary entry", err)
			}
			return c.render(vocabularyTemplate, v)
		}),
	}

	lookup := &cobra.Command{
		Use:   "lookup <word>",
		Short: "Look a word up",
		Args:  cobra.ExactArgs(1),
		RunE: c.guarded(at("/vocabulary"), func(ctx context.Context, args []string) error {
			v, err := c.app.Stores.Vocabulary.Lookup(ctx, args[0])
			if err != nil {
				return failure("lookup failed", err)
			}
			return c.render(vocabularyTemplate, v)
		}),
	}

	furigana := &cobra.Command{
		Use:   "furigana <text>",
		Short: "Generate the reading of a Japanese text",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.guarded(at("/vocabulary"), func(ctx context.Context, args []string) error {
			reading, err := c.app.Stores.Vocabulary.GenerateFurigana(ctx, strings.Join(args, " "))
			if err != nil {
				return failure("failed to generate furigana", err)
			}
			c.io.Println(reading)
			return nil
		}),
	}

	mock := &cobra.Command{
		Use:   "mock-data",
		Short: "Populate the server with demo vocabulary",
		Args:  cobra.NoArgs,
		RunE: c.guarded(at("/vocabulary"), func(ctx context.Context, _ []string) error {
			list, err := c.app.Stores.Vocabulary.PopulateMockData(ctx)
			if err != nil {
				return failure("failed to populate mock data", err)
			}
			c.io.Printf("✓ %d vocabulary entries available\n", len(list))
			return nil
		}),
	}

	cmd.AddCommand(list, show, lookup, furigana, mock)
	return cmd
}

func (c *Cli) searchCommand() *cobra.Command {
	var script string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search kanji, vocabulary, courses and lessons",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.guarded(at("/kanji"), func(ctx context.Context, args []string) error {
			res, err := c.app.Services.Search.Text(ctx, pkgapi.SearchRequest{
				Query:      strings.Join(args, " "),
				ScriptType: script,
			})
			if err != nil {
				return failure("search failed", err)
			}
			return c.printSearch(res)
		}),
	}
	cmd.Flags().StringVar(&script, "script", "", "HIRAGANA, KATAKANA, KANJI, ROMAJI or ENGLISH")
	return cmd
}

func (c *Cli) printSearch(res *pkgapi.SearchResult) error {
	c.title("Search: " + res.Query)
	if res.Message != "" {
		c.io.Println(res.Message)
		c.io.Println()
	}

	empty := true
	if len(res.KanjiResults) > 0 {
		empty = false
		c.io.Println("Kanji:")
		if err := c.table(kanjiHeader, kanjiRows(res.KanjiResults)); err != nil {
			return err
		}
		c.io.Println()
	}
	if len(res.VocabularyResults) > 0 {
		empty = false
		c.io.Println("Vocabulary:")
		if err := c.table(vocabHeader, vocabRows(res.VocabularyResults)); err != nil {
			return err
		}
		c.io.Println()
	}
	if len(res.CourseResults) > 0 {
		empty = false
		c.io.Println("Courses:")
		rows := make([][]string, 0, len(res.CourseResults))
		for _, course := range res.CourseResults {
			rows = append(rows, []string{course.ID, course.Title})
		}
		if err := c.table("ID\tTITLE", rows); err != nil {
			return err
		}
		c.io.Println()
	}
	if len(res.LessonResults) > 0 {
		empty = false
		c.io.Println("Lessons:")
		rows := make([][]string, 0, len(res.LessonResults))
		for _, l := range res.LessonResults {
			rows = append(rows, []string{l.ID, l.Title, orDash(l.ModuleID)})
		}
		if err := c.table("ID\tTITLE\tMODULE", rows); err != nil {
			return err
		}
	}
	if empty {
		c.io.Println("Nothing found.")
	}
	return nil
}
