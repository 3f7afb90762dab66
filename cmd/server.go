package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/taskboard/taskboard/internal/api"
	"github.com/taskboard/taskboard/internal/config"
	"github.com/taskboard/taskboard/internal/migrations"
	"github.com/taskboard/taskboard/internal/services"
	"github.com/taskboard/taskboard/internal/telemetry"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the task API server",
	Run: func(cmd *cobra.Command, args []string) {
		conf := config.ReadConfig()

		shutdownTelemetry := telemetry.NewProvider(conf.OTEL_EXPORTER_OTLP_ENDPOINT)
		defer shutdownTelemetry()

		migrator, err := migrations.NewMigrator()
		if err != nil {
			log.Fatalln("Unable to create migrator", err)
		}
		if err := migrator.Up(0); err != nil {
			log.Fatalln("Unable to run migrations", err)
		}

		s := api.New(conf, services.NewServices(conf))
		s.Start()
	},
}

// Register the "server" command
func init() {
	rootCmd.AddCommand(serverCmd)
}
