package bot

import (
	"fmt"
	"os"
	"strconv"
)

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Chat the bot answers to; everything else is ignored
	OwnerChatID int64
	// Whether the daily recommendation scheduler runs
	SchedulerEnabled bool
}

// ConfigFromEnv loads the bot configuration from the environment
func ConfigFromEnv() (*BotConfig, error) {
	ownerStr := os.Getenv("OWNER_CHAT_ID")
	if ownerStr == "" {
		return nil, fmt.Errorf("OWNER_CHAT_ID environment variable is not set")
	}
	owner, err := strconv.ParseInt(ownerStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OWNER_CHAT_ID %q: %v", ownerStr, err)
	}

	return &BotConfig{
		OwnerChatID:      owner,
		SchedulerEnabled: os.Getenv("ENABLE_SCHEDULER") != "false",
	}, nil
}
