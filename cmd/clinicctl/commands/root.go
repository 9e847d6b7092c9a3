package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AngelCh415/clinicpulse/internal/config"
	"github.com/AngelCh415/clinicpulse/internal/ingest"
	"github.com/AngelCh415/clinicpulse/internal/models"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "clinicctl",
	Short: "Compute clinic sales metrics, goal progress and alerts from a snapshot file",
	Long: `clinicctl reads a JSON snapshot (leads, extra_sales, expenses, campaigns,
posts, followers, goals) and prints reports as JSON.

Examples:
  clinicctl summary --snapshot data.json --from 2024-03-01 --to 2024-03-31
  clinicctl goals --snapshot data.json --active
  clinicctl notifications --snapshot data.json --now 2024-03-15T10:00:00Z`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: config.ParseLevel(viper.GetString("loglevel")),
		})))
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.clinicctl.yaml)")
	rootCmd.PersistentFlags().String("snapshot", "", "snapshot JSON file")
	rootCmd.PersistentFlags().String("now", "", "reference time (RFC3339 or YYYY-MM-DD, default: current time)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "warn", "log level: debug, info, warn, error")
	viper.BindPFlag("snapshot", rootCmd.PersistentFlags().Lookup("snapshot"))
	viper.BindPFlag("now", rootCmd.PersistentFlags().Lookup("now"))
	viper.BindPFlag("loglevel", rootCmd.PersistentFlags().Lookup("loglevel"))

	rootCmd.AddCommand(summaryCmd(), goalsCmd(), notificationsCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".clinicctl")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("CLINICCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "config:", err)
		}
	}
}

func loadSnapshot() (models.Snapshot, error) {
	path := viper.GetString("snapshot")
	if path == "" {
		return models.Snapshot{}, fmt.Errorf("--snapshot is required")
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return models.Snapshot{}, err
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return decodeSnapshot(f)
}

func decodeSnapshot(r io.Reader) (models.Snapshot, error) {
	var doc ingest.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	snap := ingest.Normalize(doc)
	slog.Debug("snapshot loaded",
		slog.Int("leads", len(snap.Leads)),
		slog.Int("extra_sales", len(snap.ExtraSales)),
		slog.Int("expenses", len(snap.Expenses)),
		slog.Int("goals", len(snap.Goals)))
	return snap, nil
}

func referenceTime() (time.Time, error) {
	s := viper.GetString("now")
	if s == "" {
		return time.Now().UTC(), nil
	}
	t := ingest.ParseDate(s)
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("bad --now %q", s)
	}
	return t, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
