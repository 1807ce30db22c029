/* bot.go
 * Contains the Bot struct and the helpers for resolving typed student and platform names against
 * the database. Requires a discord bot token and ApiPtr, both of which are passed in from main.go
 */

package bot

import (
	"fmt"
	"strings"

	"cptracker/api/api"
	"cptracker/api/logic"
	"cptracker/api/shared"
	"cptracker/api/store"
)

type Bot struct {
	BotToken string
	APIPtr   *api.API
}

func NewBot(botToken string, apiPtr *api.API) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}

	return &Bot{
		BotToken: botToken,
		APIPtr:   apiPtr,
	}, nil
}

// resolveStudent matches a typed name against the stored students: usernames first, display names
// second, both with fuzzy matching.
// Preconditions: receives the typed name
// Postconditions: returns the matched student record, or an error when nothing matches
func (b *Bot) resolveStudent(input string) (store.Student, error) {
	students, err := b.APIPtr.Store.GetAllStudents()
	if err != nil {
		return store.Student{}, err
	}

	usernames := make([]string, 0, len(students))
	names := make([]string, 0, len(students))
	byName := make(map[string]string, len(students))
	for _, student := range students {
		usernames = append(usernames, student.Username)
		if student.Name != "" {
			names = append(names, student.Name)
			byName[student.Name] = student.Username
		}
	}

	if username, ok := logic.MatchName(input, usernames); ok {
		return b.APIPtr.Store.GetStudentByUsername(username)
	}
	if name, ok := logic.MatchName(input, names); ok {
		return b.APIPtr.Store.GetStudentByUsername(byName[name])
	}
	return store.Student{}, fmt.Errorf("no student matching '%s' was found", input)
}

// Helper function to check if a string starts with a given substring
// Preconditions: Recieves an input string and a substring
// Postconditions: Returns true if the substring is at the start of the string, else returns false
func startsWith(inputString string, substring string) bool {
	return strings.HasPrefix(inputString, substring)
}

// formatStats builds the $stats reply for one student.
func formatStats(student store.Student) string {
	var res strings.Builder
	res.WriteString(fmt.Sprintf("**%s** (%s)", student.Name, student.Username))
	if student.Department != "" {
		res.WriteString(fmt.Sprintf(" - %s", student.Department))
	}
	res.WriteString("\n")
	res.WriteString(fmt.Sprintf("Total solved: %d (easy %d / medium %d / hard %d)\n",
		student.Problems.Total, student.Problems.Easy, student.Problems.Medium, student.Problems.Hard))

	for _, platform := range shared.AllPlatforms {
		count, hasProblems := student.Problems.PlatformStats[platform]
		record, hasContests := student.Contests[platform]
		if !hasProblems && !hasContests {
			continue
		}
		res.WriteString(fmt.Sprintf("- %s: %d solved", platform, count))
		if hasContests {
			res.WriteString(fmt.Sprintf(", rating %d (peak %d), %d contests",
				record.CurrentRating, record.HighestRating, record.TotalContests))
		}
		res.WriteString("\n")
	}

	if len(student.Badges) > 0 {
		res.WriteString("Badges: ")
		parts := make([]string, 0, len(student.Badges))
		for _, badge := range student.Badges {
			parts = append(parts, fmt.Sprintf("%s %s", badge.Icon, badge.Name))
		}
		res.WriteString(strings.Join(parts, ", "))
		res.WriteString("\n")
	}
	if !student.LastScrapedAt.IsZero() {
		res.WriteString(fmt.Sprintf("Last updated: %s\n", student.LastScrapedAt.Format("2006-01-02 15:04 MST")))
	}
	return res.String()
}

// formatLeaderboard builds the $leaderboard reply from a cached leaderboard document.
func formatLeaderboard(board *store.Leaderboard) string {
	if board == nil || len(board.Entries) == 0 {
		return "The leaderboard has not been computed yet. Run $refresh first"
	}

	var res strings.Builder
	if board.Scope == store.ScopePlatform {
		res.WriteString(fmt.Sprintf("%s leaderboard:\n", board.Platform))
	} else {
		res.WriteString("Overall leaderboard:\n")
	}
	for _, entry := range board.Entries {
		res.WriteString(fmt.Sprintf("%d. %s - %d solved", entry.Rank, entry.Name, entry.TotalSolved))
		if entry.HighestRating > 0 {
			res.WriteString(fmt.Sprintf(" (peak rating %d)", entry.HighestRating))
		}
		res.WriteString("\n")
	}
	return res.String()
}

// formatWeekly builds the $weekly reply from the ranked weekly metrics.
func formatWeekly(ranked []logic.WeeklyMetrics) string {
	if len(ranked) == 0 {
		return "No students are eligible this week yet"
	}

	var res strings.Builder
	res.WriteString("Weekly leaderboard:\n")
	for i, m := range ranked {
		res.WriteString(fmt.Sprintf("%d. %s - %.1f impact (%.1f weighted problems", i+1, m.Name, m.ImpactScore, m.WeightedProblems))
		if m.TotalRatingDelta > 0 {
			res.WriteString(fmt.Sprintf(", +%d rating", m.TotalRatingDelta))
		}
		res.WriteString(fmt.Sprintf(", %d active days)\n", m.ActiveDays))
	}
	return res.String()
}

// formatProgress builds the $progress reply from the bulk run state.
func formatProgress(progress api.Progress) string {
	if progress.StartedAt.IsZero() {
		return "No bulk refresh has been run yet"
	}

	var res strings.Builder
	if progress.Running {
		res.WriteString(fmt.Sprintf("Refresh running: %d/%d done", progress.Completed+progress.Failed, progress.Total))
		if progress.Current != "" {
			res.WriteString(fmt.Sprintf(" (currently %s)", progress.Current))
		}
		res.WriteString("\n")
	} else if progress.Cancelled {
		res.WriteString(fmt.Sprintf("Last refresh was cancelled after %d/%d students\n",
			progress.Completed+progress.Failed, progress.Total))
	} else {
		res.WriteString(fmt.Sprintf("Last refresh finished: %d completed, %d failed of %d\n",
			progress.Completed, progress.Failed, progress.Total))
	}

	for _, batchErr := range progress.Errors {
		res.WriteString(fmt.Sprintf("- %s: %s\n", batchErr.Username, batchErr.Message))
	}
	return res.String()
}
