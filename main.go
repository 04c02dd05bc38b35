package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/studybot/internal/bot"
	"github.com/example/studybot/internal/database"
	"github.com/example/studybot/internal/milestones"
	"github.com/example/studybot/internal/recommendations"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Connect(database.ConfigFromEnv())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	milestoneRepo := database.NewMilestoneRepository(db)
	recommendationRepo := database.NewRecommendationRepository(db)
	sessionRepo := database.NewSessionRepository(db)
	fileRepo := database.NewFileRepository(db)
	topicRepo := database.NewTopicRepository(db)
	noteRepo := database.NewNoteRepository(db)
	bookmarkRepo := database.NewBookmarkRepository(db)

	engine := milestones.NewEngine(milestoneRepo)
	if err := engine.InitMilestones(ctx); err != nil {
		log.Fatalf("Failed to seed milestone catalog: %v", err)
	}

	aggregator := recommendations.NewStudyAggregator(recommendationRepo, sessionRepo)
	manager := recommendations.NewManager(recommendationRepo, aggregator)

	config, err := bot.ConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load bot configuration: %v", err)
	}

	b, err := bot.New(config, bot.Deps{
		Engine:    engine,
		Manager:   manager,
		Sessions:  sessionRepo,
		Files:     fileRepo,
		Topics:    topicRepo,
		Notes:     noteRepo,
		Bookmarks: bookmarkRepo,
	})
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	done := make(chan struct{})

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		cancel()
		b.Stop()
		close(done)
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	go func() {
		if err := b.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Bot error: %v", err)
		}
	}()

	<-done
	log.Println("Bot stopped successfully")
}
