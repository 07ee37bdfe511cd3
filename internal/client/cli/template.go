package cli

const userTemplate = `
=== Profile ===

Username: {{.Username}}
ID:       {{.ID}}
Email:    {{.Email}}
{{- if .Roles }}
Roles:    {{join .Roles ", "}}
{{- end}}
{{- if .Bio }}
Bio:      {{.Bio}}
{{- end}}
`

const courseTemplate = `
=== Course Details ===

Title:      {{.Title}}
ID:         {{.ID}}
{{- if .DifficultyLevel }}
Level:      {{.DifficultyLevel}}
{{- end}}
{{- if .Description }}
Description:
{{.Description}}
{{- end}}
{{- if .Modules }}

Modules:
{{- range .Modules }}
  [{{.OrderIndex}}] {{.Title}} ({{.ID}}) - {{len .LessonIDs}} lesson(s)
{{- end}}
{{- end}}
`

const lessonTemplate = `
=== Lesson Details ===

Title:  {{.Title}}
ID:     {{.ID}}
{{- if .LessonType }}
Type:   {{.LessonType}}
{{- end}}
{{- if .QuizID }}
Quiz:   {{.QuizID}}
{{- end}}
{{- if .FlashcardSetID }}
Cards:  {{.FlashcardSetID}}
{{- end}}
{{- if .VideoURL }}
Video:  {{.VideoURL}}
{{- end}}
{{- if .Content }}

Content:
---
{{.Content}}
---
{{- end}}
`

const quizTemplate = `
=== Quiz Details ===

Title:     {{.Title}}
ID:        {{.ID}}
Lesson:    {{.LessonID}}
Questions: {{len .Questions}}
{{- range $i, $q := .Questions }}

Q{{$i}}: {{$q.QuestionText}} [{{$q.QuestionType}}]
{{- range $q.Options }}
   - {{.OptionText}} ({{.ID}})
{{- end}}
{{- end}}
`

const attemptTemplate = `
=== Quiz Result ===

Attempt: {{.ID}}
Quiz:    {{.QuizID}}
Score:   {{.Score}}/{{.TotalQuestions}} ({{printf "%.0f" .PercentageScore}}%)
Passed:  {{if .Passed}}yes{{else}}no{{end}}
`

const flashcardSetTemplate = `
=== Flashcards: {{.Title}} ===

ID:     {{.ID}}
Lesson: {{.LessonID}}
{{- range .Flashcards }}

[{{.OrderIndex}}] {{if .FrontText}}{{.FrontText}}{{else}}{{.Front}}{{end}}
     {{if .BackText}}{{.BackText}}{{else}}{{.Back}}{{end}}
{{- if .Furigana }}
     {{.Furigana}}{{if .Romaji}} / {{.Romaji}}{{end}}
{{- end}}
{{- end}}
`

const kanjiTemplate = `
=== Kanji {{.KanjiCharacter}} ===

ID:      {{.ID}}
Meaning: {{.Meaning}}
{{- if .Onyomi }}
On:      {{.Onyomi}}
{{- end}}
{{- if .Kunyomi }}
Kun:     {{.Kunyomi}}
{{- end}}
{{- if .JLPTLevel }}
JLPT:    {{.JLPTLevel}}
{{- end}}
{{- if .Examples }}
Examples:
{{- range .Examples }}
  {{.}}
{{- end}}
{{- end}}
`

const vocabularyTemplate = `
=== {{.JapaneseWord}} ===

ID:       {{.ID}}
{{- if .Furigana }}
Furigana: {{.Furigana}}
{{- end}}
{{- if .Romaji }}
Romaji:   {{.Romaji}}
{{- end}}
Meaning:  {{.Meaning}}
{{- if .PartOfSpeech }}
Part:     {{.PartOfSpeech}}
{{- end}}
{{- if .JLPTLevel }}
JLPT:     {{.JLPTLevel}}
{{- end}}
{{- range .ExampleSentences }}
  {{.}}
{{- end}}
`

const progressTemplate = `
=== Course Progress ===

Course:    {{.CourseID}}
Status:    {{.Status}}
Progress:  {{printf "%.0f" .ProgressPercentage}}%
Completed: {{len .CompletedLessonIDs}} lesson(s)
{{- if .LastAccessedLessonID }}
Last:      {{.LastAccessedLessonID}}
{{- end}}
`
