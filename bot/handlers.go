/* handlers.go
 * Contains testable handler methods that accept the DiscordSession interface. The runtime wiring
 * to a live *discordgo.Session lives in bot_runtime.go
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cptracker/api/api"
	"cptracker/api/shared"

	"github.com/bwmarrin/discordgo"
	"github.com/go-andiamo/splitter"
	"go.mongodb.org/mongo-driver/mongo"
)

// helpMessageHandler handles the $help command
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("CP Tracker Bot\n")
	res.WriteString("`$stats name`: shows a student's solved problems, ratings and badges across platforms. Names with spaces need to be encased in \" (e.g. \"Aditya Kumar\")\n")
	res.WriteString("`$leaderboard [platform]`: shows the overall leaderboard, or one platform's rating leaderboard (codeforces, codechef, leetcode)\n")
	res.WriteString("`$weekly`: shows this week's impact leaderboard. Students need at least 5 weighted problems and 3 active days to appear\n")
	res.WriteString("`$topper`: shows the student with the highest impact score this week\n")
	res.WriteString("`$scrape username`: refreshes one student's stats from every platform they have an account on\n")
	res.WriteString("`$refresh [department]`: refreshes every student, or every student in one department. Only one refresh can run at a time\n")
	res.WriteString("`$progress`: shows the status of the running (or last) refresh\n")
	res.WriteString("`$cancel`: stops the running refresh at the next student boundary\n")
	res.WriteString("There is fuzzy matching on names, however you should try and have a close match for the best results\n")
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// statsHandler handles the $stats command
func (b *Bot) statsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := commandArgs(message.Content)
	if len(args) == 0 {
		session.ChannelMessageSend(message.ChannelID, "Usage: $stats name")
		return
	}

	student, err := b.resolveStudent(strings.Join(args, " "))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			session.ChannelMessageSend(message.ChannelID, "That student does not exist any more")
			return
		}
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, err.Error())
		return
	}

	session.ChannelMessageSend(message.ChannelID, formatStats(student))
}

// leaderboardHandler handles the $leaderboard command
func (b *Bot) leaderboardHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := commandArgs(message.Content)

	if len(args) == 0 {
		board, err := b.APIPtr.GetOverallLeaderboard(leaderboardLimit)
		if err != nil {
			log.Println(err)
			session.ChannelMessageSend(message.ChannelID, "An error occured getting the leaderboard")
			return
		}
		session.ChannelMessageSend(message.ChannelID, formatLeaderboard(board))
		return
	}

	platform, ok := shared.ParsePlatform(args[0])
	if !ok {
		session.ChannelMessageSend(message.ChannelID,
			fmt.Sprintf("Unknown platform '%s'. Try codeforces, codechef or leetcode", args[0]))
		return
	}

	board, err := b.APIPtr.GetPlatformLeaderboard(platform, leaderboardLimit)
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An error occured getting the leaderboard")
		return
	}
	session.ChannelMessageSend(message.ChannelID, formatLeaderboard(board))
}

// weeklyHandler handles the $weekly command
func (b *Bot) weeklyHandler(session DiscordSession, message *discordgo.MessageCreate) {
	ranked, err := b.APIPtr.GetWeeklyLeaderboard(leaderboardLimit)
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An error occured getting the weekly leaderboard")
		return
	}
	session.ChannelMessageSend(message.ChannelID, formatWeekly(ranked))
}

// topperHandler handles the $topper command
func (b *Bot) topperHandler(session DiscordSession, message *discordgo.MessageCreate) {
	topper, err := b.APIPtr.GetTopperOfTheWeek()
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An error occured getting the topper of the week")
		return
	}
	if topper == nil {
		session.ChannelMessageSend(message.ChannelID, "No student is eligible for topper of the week yet")
		return
	}
	session.ChannelMessageSend(message.ChannelID,
		fmt.Sprintf("🏆 Topper of the week: **%s** with %.1f impact (%.1f weighted problems, %d active days)",
			topper.Name, topper.ImpactScore, topper.WeightedProblems, topper.ActiveDays))
}

// scrapeHandler handles the $scrape command
func (b *Bot) scrapeHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := commandArgs(message.Content)
	if len(args) == 0 {
		session.ChannelMessageSend(message.ChannelID, "Usage: $scrape username")
		return
	}

	student, err := b.resolveStudent(strings.Join(args, " "))
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, err.Error())
		return
	}

	session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("Scraping %s, this can take a little while...", student.Username))

	result, err := b.APIPtr.ScrapeStudent(context.Background(), student.Username)
	if err != nil {
		if errors.Is(err, api.ErrNoAccounts) {
			session.ChannelMessageSend(message.ChannelID,
				fmt.Sprintf("%s has no platform accounts configured", student.Username))
			return
		}
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("An error occured scraping %s", student.Username))
		return
	}

	session.ChannelMessageSend(message.ChannelID,
		fmt.Sprintf("%s's stats have been updated: %d problems found this run", student.Username, result.Problems.Total))
}

// refreshHandler handles the $refresh command
func (b *Bot) refreshHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := commandArgs(message.Content)

	var err error
	if len(args) == 0 {
		err = b.APIPtr.RefreshAll(context.Background())
	} else {
		err = b.APIPtr.RefreshDepartment(context.Background(), strings.Join(args, " "))
	}

	if err != nil {
		if errors.Is(err, api.ErrBulkConflict) {
			session.ChannelMessageSend(message.ChannelID, "A refresh is already running. Use $progress to follow it")
			return
		}
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("An error occured starting the refresh: %s", err))
		return
	}

	session.ChannelMessageSend(message.ChannelID, "Refresh started. Use $progress to follow it")
}

// progressHandler handles the $progress command
func (b *Bot) progressHandler(session DiscordSession, message *discordgo.MessageCreate) {
	session.ChannelMessageSend(message.ChannelID, formatProgress(b.APIPtr.GetProgress()))
}

// cancelHandler handles the $cancel command
func (b *Bot) cancelHandler(session DiscordSession, message *discordgo.MessageCreate) {
	if b.APIPtr.CancelRefresh() {
		session.ChannelMessageSend(message.ChannelID, "Cancelling; the refresh stops after the current student")
		return
	}
	session.ChannelMessageSend(message.ChannelID, "No refresh is running")
}

// leaderboardLimit caps how many rows a discord reply lists.
const leaderboardLimit = 10

// commandArgs splits everything after the command word, honouring double quoted arguments so
// names that contain spaces stay together.
func commandArgs(content string) []string {
	spaceSplitter, _ := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	parts, _ := spaceSplitter.Split(content)

	args := make([]string, 0, len(parts))
	for i, part := range parts {
		if i == 0 {
			continue // the command word itself
		}
		part = strings.Trim(strings.TrimSpace(part), `"`)
		if part != "" {
			args = append(args, part)
		}
	}
	return args
}

// newMessageHandler routes messages to the appropriate handler.
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	if message.Author.ID == botUserID {
		return
	}

	switch {
	case startsWith(message.Content, "$help"):
		b.helpMessageHandler(session, message)

	case startsWith(message.Content, "$stats"):
		b.statsHandler(session, message)

	case startsWith(message.Content, "$leaderboard"):
		b.leaderboardHandler(session, message)

	case startsWith(message.Content, "$weekly"):
		b.weeklyHandler(session, message)

	case startsWith(message.Content, "$topper"):
		b.topperHandler(session, message)

	case startsWith(message.Content, "$scrape"):
		b.scrapeHandler(session, message)

	case startsWith(message.Content, "$refresh"):
		b.refreshHandler(session, message)

	case startsWith(message.Content, "$progress"):
		b.progressHandler(session, message)

	case startsWith(message.Content, "$cancel"):
		b.cancelHandler(session, message)
	}
}
