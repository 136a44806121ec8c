package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	serverrun "github.com/JosiasAurel/scrapbook-v2/internal/cmd/server"
	cfgpkg "github.com/JosiasAurel/scrapbook-v2/internal/config"
	pebblestore "github.com/JosiasAurel/scrapbook-v2/internal/storage/pebble"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "scrapbook",
		Short: "Scrapbook server CLI",
		Long:  "Scrapbook is a single-binary social feed server. This CLI manages the server and basic operations.",
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the scrapbook server",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			dataDir, _ := cmd.Flags().GetString("data-dir")
			httpAddr, _ := cmd.Flags().GetString("http")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")

			cfg, err := cfgpkg.Load(configPath)
			if err != nil {
				return err
			}
			cfgpkg.FromEnv(&cfg)
			if httpAddr != "" {
				cfg.HTTPAddr = httpAddr
			}
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			if fsyncMode != "" {
				cfg.Fsync = fsyncMode
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if logFormat != "" {
				cfg.Log.Format = logFormat
			}

			var mode pebblestore.FsyncMode
			switch cfg.Fsync {
			case "never":
				mode = pebblestore.FsyncModeNever
			case "interval":
				mode = pebblestore.FsyncModeInterval
			case "always", "":
				mode = pebblestore.FsyncModeAlways
			default:
				return fmt.Errorf("invalid fsync mode %q; use always|interval|never", cfg.Fsync)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return serverrun.Run(ctx, serverrun.Options{
				DataDir:  cfg.DataDir,
				HTTPAddr: cfg.HTTPAddr,
				Fsync:    mode,
				Config:   cfg,
			})
		},
	}
	serverStartCmd.Flags().String("config", "", "Config file (JSON or YAML)")
	serverStartCmd.Flags().String("data-dir", "", "Data directory (defaults to OS-specific application data directory)")
	serverStartCmd.Flags().String("http", "", "HTTP listen address (default :3000)")
	serverStartCmd.Flags().String("fsync", "", "Fsync mode: always|interval|never")
	serverStartCmd.Flags().String("log-level", os.Getenv("SCRAPBOOK_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("SCRAPBOOK_LOG_FORMAT"), "Log format: text|json (default text)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	// post create
	postCmd := &cobra.Command{Use: "post", Short: "Post operations"}
	postCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post through a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _ := cmd.Flags().GetString("text")
			source, _ := cmd.Flags().GetString("source")
			token, _ := cmd.Flags().GetString("token")
			body, _ := json.Marshal(map[string]string{"text": text, "source": source})
			req, err := http.NewRequest(http.MethodPost, apiURL()+"/v1/posts/create", bytes.NewReader(body))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			out, _ := io.ReadAll(resp.Body)
			fmt.Println("status:", resp.Status)
			fmt.Println(string(out))
			return nil
		},
	}
	postCreateCmd.Flags().String("text", "", "Post text")
	postCreateCmd.Flags().String("source", "CLI", "Post source")
	postCreateCmd.Flags().String("token", os.Getenv("SCRAPBOOK_TOKEN"), "Session bearer token")
	postCmd.AddCommand(postCreateCmd)
	rootCmd.AddCommand(postCmd)

	// feed list
	feedCmd := &cobra.Command{
		Use:   "feed",
		Short: "Print recent posts from a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			resp, err := http.Get(fmt.Sprintf("%s/v1/feed?limit=%d", apiURL(), limit))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			out, _ := io.ReadAll(resp.Body)
			fmt.Println(string(out))
			return nil
		},
	}
	feedCmd.Flags().Int("limit", 20, "Number of posts")
	rootCmd.AddCommand(feedCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func apiURL() string {
	if v := os.Getenv("SCRAPBOOK_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:3000"
}
