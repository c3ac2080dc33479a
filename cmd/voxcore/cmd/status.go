package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voxcore/voxcore/internal/stats"
)

var (
	statusJSON  bool
	statusSpeak bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print a system status snapshot",
	Long:  "Collect CPU, memory, and disk figures and print them; with --speak the report is also read aloud.",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print the snapshot as JSON")
	statusCmd.Flags().BoolVar(&statusSpeak, "speak", false, "also speak the report")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	snap := stats.NewCollector().Collect()

	if statusJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	for _, line := range stats.HUDLines(snap) {
		fmt.Println(line)
	}
	fmt.Println()
	fmt.Println(stats.SpokenReport(snap))

	if statusSpeak {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		return speaker(cfg).Speak(cmd.Context(), stats.SpokenReport(snap))
	}
	return nil
}
