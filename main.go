/* main.go
 * The "main" method for running the tracker. Loads configuration from .env and flags, builds the
 * API facade, then starts the Discord bot, the web surface and the background schedulers.
 * Usage: go run main.go -db="<database>" -addr="<listen address>"
 */

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"cptracker/api/api"
	"cptracker/bot"
	"cptracker/web"

	"github.com/joho/godotenv"
)

// How often the background schedulers fire. Leaderboards are cheap to recompute; snapshots are
// once a day so weekly baselines stay dense enough for the scoring window.
const (
	leaderboardInterval = 30 * time.Minute
	snapshotInterval    = 24 * time.Hour
)

func main() {
	err := godotenv.Load()

	//Flags
	dbPtr := flag.String("db", "cptracker", "Mongo database name")
	addrPtr := flag.String("addr", ":8080", "Listen address for the web surface, e.g. :8080")
	botPtr := flag.String("bot", "true", "Run the discord bot: takes true or false as argument")
	webPtr := flag.String("web", "true", "Run the web surface: takes true or false as argument")
	testPtr := flag.String("test", "false", "Use main or test bot: takes true or false as argument")

	flag.Parse()

	if err != nil {
		log.Fatal("Error loading .env file")
	}

	runBot, err := convertStrToBool(*botPtr)
	if err != nil {
		log.Fatal("Invalid \"bot\" flag. Should be true or false")
	}
	runWeb, err := convertStrToBool(*webPtr)
	if err != nil {
		log.Fatal("Invalid \"web\" flag. Should be true or false")
	}
	useTestBot, err := convertStrToBool(*testPtr)
	if err != nil {
		log.Fatal("Invalid \"test\" flag. Should be true or false")
	}

	discordToken := os.Getenv("DISCORD_PROD_TOKEN")
	if useTestBot {
		discordToken = os.Getenv("DISCORD_BETA_TOKEN")
	}

	trackerAPI, err := api.NewAPI(*dbPtr, os.Getenv("MONGO_PROD_URI"))
	if err != nil {
		log.Fatalf("failed to initialize API: %v", err)
	}
	defer func() {
		if err = trackerAPI.Store.GetClient().Disconnect(context.TODO()); err != nil {
			panic(err)
		}
	}()

	go runSchedulers(trackerAPI)

	if runWeb {
		cfg := web.Config{Addr: *addrPtr, API: trackerAPI}
		if runBot {
			go func() {
				log.Fatal(web.Start(cfg))
			}()
		} else {
			log.Fatal(web.Start(cfg))
		}
	}

	if runBot {
		trackerBot, err := bot.NewBot(discordToken, trackerAPI)
		if err != nil {
			log.Fatalf("failed to initialize bot: %v", err)
		}
		if err := trackerBot.Run(); err != nil {
			log.Fatalf("bot exited: %v", err)
		}
	} else if !runWeb {
		log.Println("Nothing to run: both the bot and the web surface are disabled")
	}
}

// runSchedulers drives the periodic leaderboard recompute and the daily snapshot capture. Errors
// are logged and the next tick retries.
func runSchedulers(trackerAPI *api.API) {
	leaderboardTicker := time.NewTicker(leaderboardInterval)
	snapshotTicker := time.NewTicker(snapshotInterval)
	defer leaderboardTicker.Stop()
	defer snapshotTicker.Stop()

	for {
		select {
		case <-leaderboardTicker.C:
			if err := trackerAPI.ComputeAndStoreLeaderboards(); err != nil {
				log.Printf("scheduled leaderboard recompute failed: %v", err)
			}
		case <-snapshotTicker.C:
			result, err := trackerAPI.CreateDailySnapshot()
			if err != nil {
				log.Printf("scheduled snapshot run failed: %v", err)
				continue
			}
			log.Printf("daily snapshot run: %d created, %d failed", result.SnapshotsCreated, len(result.Errors))
		}
	}
}
