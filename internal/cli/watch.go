package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		name        string
		adminSecret string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream live session events",
		Long: `Connect to the server's websocket endpoint and stream events in real-time.

Events include:
  - init: shop catalog, leaderboard and recent chat snapshot
  - tap: a player's counters after a manual tap
  - ranks: refreshed leaderboard
  - chat: a chat message
  - system: a server notice (bans, unbans)
  - banned: this connection's player was banned

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchEvents(name, adminSecret, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Claim this nickname before watching")
	cmd.Flags().StringVar(&adminSecret, "admin-secret", os.Getenv("COINPIT_ADMIN_SECRET"), "Admin secret for claiming the admin nickname (env: COINPIT_ADMIN_SECRET)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

func watchEvents(name, adminSecret string, jsonOutput bool) error {
	session, err := dialSession()
	if err != nil {
		return err
	}
	defer session.close()

	if name != "" {
		if err := session.claim(name, adminSecret); err != nil {
			return err
		}
		if !jsonOutput {
			fmt.Printf("Claimed nickname %q\n", name)
		}
	}

	// Disconnect cleanly on Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		session.close()
	}()

	for {
		frameType, raw, err := session.read()
		if err != nil {
			// Normal exit path after the signal handler closes the socket
			return nil
		}
		printFrame(frameType, raw, jsonOutput)
		if frameType == "banned" {
			return fmt.Errorf("disconnected: player was banned")
		}
	}
}

func printFrame(frameType string, raw json.RawMessage, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(string(raw))
		return
	}

	ts := time.Now().Format("15:04:05")

	switch frameType {
	case "chat":
		var ev struct {
			Nickname string `json:"nickname"`
			Text     string `json:"text"`
		}
		if json.Unmarshal(raw, &ev) == nil {
			fmt.Printf("[%s] <%s> %s\n", ts, ev.Nickname, ev.Text)
			return
		}
	case "system":
		var ev struct {
			Text string `json:"text"`
		}
		if json.Unmarshal(raw, &ev) == nil {
			fmt.Printf("[%s] * %s\n", ts, ev.Text)
			return
		}
	case "tap":
		var ev struct {
			Nickname string `json:"nickname"`
			Coins    int64  `json:"coins"`
			Taps     int64  `json:"taps"`
		}
		if json.Unmarshal(raw, &ev) == nil {
			fmt.Printf("[%s] %s tapped: %d coins, %d taps\n", ts, ev.Nickname, ev.Coins, ev.Taps)
			return
		}
	case "ranks":
		var ev struct {
			Ranks []struct {
				Nickname string `json:"nickname"`
				Taps     int64  `json:"taps"`
				Coins    int64  `json:"coins"`
			} `json:"ranks"`
		}
		if json.Unmarshal(raw, &ev) == nil {
			fmt.Printf("[%s] leaderboard (%d players):\n", ts, len(ev.Ranks))
			for i, r := range ev.Ranks {
				fmt.Printf("  %d. %s - %d taps, %d coins\n", i+1, r.Nickname, r.Taps, r.Coins)
			}
			return
		}
	}

	fmt.Printf("[%s] %s: %s\n", ts, frameType, string(raw))
}
