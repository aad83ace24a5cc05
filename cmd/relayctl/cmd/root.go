package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/skyline-media/realtime-relay/config"
	"github.com/skyline-media/realtime-relay/domain"
	"github.com/skyline-media/realtime-relay/log"
	"github.com/skyline-media/realtime-relay/mongodb"
)

var (
	appLogger log.Logger
	cfg       *config.ServerConfig

	sessionRepo domain.SessionRepository
	userRepo    domain.UserRepository
)

var rootCmd = &cobra.Command{
	Use:   "relayctl",
	Short: "relayctl is a CLI tool to administer the realtime-relay backend",
	Long: `A command-line interface for inspecting and revoking relay sessions
and managing user activation state, operating directly on the relay's store.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		appLogger = log.NewZerologAdapter(zerolog.WarnLevel, true)

		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx := cmd.Context()
		if err := mongodb.InitMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName); err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		db := mongodb.GetDB()

		sessionRepo, err = mongodb.NewSessionRepositoryMongo(ctx, db)
		if err != nil {
			return fmt.Errorf("failed to initialize session repository: %w", err)
		}
		userRepo, err = mongodb.NewUserRepository(ctx, db)
		if err != nil {
			return fmt.Errorf("failed to initialize user repository: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		mongodb.CloseMongoDB(cmd.Context())
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
