package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jaypipes/ghw"
	"github.com/spf13/cobra"

	"github.com/voxcore/voxcore/internal/tui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check backends and hardware",
	Long:  "Verify that the model backend and audio bridge are reachable and summarize the local hardware.",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("Checking backends...")
	fmt.Println()

	printCheck("terminal", tui.IsTerminal(os.Stdout), "interactive mode unavailable")

	brainOK := probe(cmd.Context(), baseOf(cfg.Brain.URL))
	printCheck("brain "+baseOf(cfg.Brain.URL), brainOK, "is the model server running?")

	if cfg.Speech.BridgeURL == "" {
		fmt.Println("  ○ speech bridge not configured (simulated playback)")
	} else {
		printCheck("speech "+cfg.Speech.BridgeURL, probe(cmd.Context(), cfg.Speech.BridgeURL), "is the cast bridge running?")
	}

	fmt.Println()
	fmt.Println("Hardware...")
	fmt.Println()
	printHardware()
	return nil
}

func printCheck(name string, ok bool, hint string) {
	if ok {
		fmt.Printf("  ✓ %s\n", name)
		return
	}
	fmt.Printf("  ✗ %s — %s\n", name, hint)
}

// probe considers any HTTP response a success; only transport errors count
// as unreachable.
func probe(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return true
}

// baseOf strips the API path so the probe hits the server root.
func baseOf(url string) string {
	if i := strings.Index(url, "/api/"); i > 0 {
		return url[:i]
	}
	return url
}

func printHardware() {
	if cpu, err := ghw.CPU(); err == nil && len(cpu.Processors) > 0 {
		fmt.Printf("  cpu: %s (%d threads)\n", cpu.Processors[0].Model, cpu.TotalThreads)
	}
	if mem, err := ghw.Memory(); err == nil && mem.TotalPhysicalBytes > 0 {
		fmt.Printf("  mem: %.1f GB\n", float64(mem.TotalPhysicalBytes)/(1<<30))
	}
	if gpu, err := ghw.GPU(); err == nil {
		for _, card := range gpu.GraphicsCards {
			if card.DeviceInfo != nil && card.DeviceInfo.Product != nil {
				fmt.Printf("  gpu: %s\n", card.DeviceInfo.Product.Name)
			}
		}
	}
}
