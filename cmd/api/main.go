package main

import (
	"fmt"
	"os"

	"pet-tag-lookup/internal/config"

	"github.com/spf13/cobra"
)

// @title Pet Tag Lookup API
// @version 1.0
// @description Perfiles públicos de mascotas vía QR, activación de tags y registro de escaneos.
// @BasePath /

var (
	version = "dev"
	commit  = "none"

	cfgPath string
	cfg     config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "api",
		Short: "Pet tag lookup service",
		Long: `Servicio de perfiles públicos para tags QR de mascotas.
Sin subcomando levanta el servidor HTTP (igual que "api serve").`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "archivo de configuración (yaml)")

	rootCmd.AddCommand(
		serveCmd(),
		tagsCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// no necesita config
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pet-tag-lookup %s (%s)\n", version, commit)
		},
	}
}
