package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/prospector/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the generation API over HTTP",
	Long: `Serve the approach, case-study, email and profile endpoints as JSON
over HTTP for a browser front end. Logs are written to stderr as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		l := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		addr := cfg.Server.Addr
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			addr = v
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		srv := server.New(newService(l), s, server.Config{KnowledgeDir: cfg.Server.KnowledgeDir}, l)
		return srv.ListenAndServe(cmd.Context(), addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}
