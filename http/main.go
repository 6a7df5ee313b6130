package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tnqbao/gau-wiki-gateway/config"
	"github.com/tnqbao/gau-wiki-gateway/http/controller"
	"github.com/tnqbao/gau-wiki-gateway/http/route"
	infraPkg "github.com/tnqbao/gau-wiki-gateway/infra"
	"github.com/tnqbao/gau-wiki-gateway/repository"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "gau-wiki-gateway",
		Short:         "Wiki BFF gateway",
		Long:          "HTTP gateway in front of the wiki backends: user profile enrichment, resumable file uploads and request forwarding.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(envFile); err != nil {
				log.Println("No .env file found, continuing with environment variables")
			}
		},
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading configuration")

	cmd.AddCommand(newServeCommand(), newMigrateCommand(), newConfigCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfig()
			if cfg.EnvConfig.Environment.Mode == "production" {
				gin.SetMode(gin.ReleaseMode)
			}

			infra := infraPkg.InitInfra(cfg)
			if err := infra.Postgres.Migrate(); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			repo := repository.InitRepository(infra)

			ctrl := controller.NewController(cfg, infra, repo)
			router := routes.SetupRouter(ctrl)

			server := &http.Server{
				Addr:              ":" + cfg.EnvConfig.Port,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Printf("HTTP Server started on %s", server.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("failed to start server: %w", err)
				}
			case <-ctx.Done():
			}

			log.Println("Shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Printf("HTTP shutdown error: %v", err)
			}
			return infra.Close(shutdownCtx)
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the files table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfig()
			db, err := infraPkg.OpenDatabase(cfg.EnvConfig)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			if err := infraPkg.AutoMigrate(db); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}
			log.Println("Migration complete")
			return nil
		},
	}
}

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management utilities",
	}

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Write the default settings to a config.yaml file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			if err := config.WriteDefaults(output); err != nil {
				return err
			}
			fmt.Printf("Generated %s\n", output)
			return nil
		},
	}
	generate.Flags().String("output", "config.yaml", "path of the generated file")

	cmd.AddCommand(generate)
	return cmd
}
