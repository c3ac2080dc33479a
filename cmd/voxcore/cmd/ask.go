package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/voxcore/voxcore/internal/tui"
)

var askPlain bool

var askCmd = &cobra.Command{
	Use:   "ask [prompt...]",
	Short: "Ask one question and print the reply",
	Long:  "Send a single prompt to the model and print the answer, without the full-screen session.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askPlain, "plain", false, "print raw text without markdown rendering")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	log := buildLogger(cfg)

	prompt := strings.Join(args, " ")
	log.Debug("one-shot ask", "prompt_len", len(prompt))

	reply, err := brainClient(cfg).Ask(cmd.Context(), prompt)
	if err != nil {
		return err
	}

	if askPlain || !tui.IsTerminal(os.Stdout) {
		fmt.Println(reply)
		return nil
	}
	md := tui.NewMarkdown(100, true)
	fmt.Println(md.Render(reply))
	return nil
}
