package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/vietddude/faultcore/internal/core/config"
	"github.com/vietddude/faultcore/internal/ledger"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show error ledger statistics of a running instance",
	Run:   runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%d/errors/stats", cfg.Server.Port))
	if err != nil {
		slog.Error("Failed to query stats", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var stats ledger.Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		slog.Error("Failed to decode stats", "error", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "TOTAL\tRESOLVED\tUNRESOLVED")
	_, _ = fmt.Fprintf(w, "%d\t%d\t%d\n", stats.Total, stats.Resolved, stats.Unresolved)
	_ = w.Flush()

	fmt.Println()

	w = tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "TYPE\tCOUNT")
	for code, n := range stats.ByType {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", code, n)
	}
	_ = w.Flush()
}
