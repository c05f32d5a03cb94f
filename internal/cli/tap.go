package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newTapCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "tap <nickname>",
		Short: "Claim a nickname and tap for coins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaps(args[0], count)
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of taps to send")

	return cmd
}

func runTaps(name string, count int) error {
	if count < 1 {
		return fmt.Errorf("count must be at least 1")
	}

	session, err := dialSession()
	if err != nil {
		return err
	}
	defer session.close()

	if err := session.claim(name, ""); err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		if err := session.send(map[string]string{"type": "tap"}); err != nil {
			return fmt.Errorf("failed to send tap: %w", err)
		}
	}

	// Taps come back as targeted updates; the last one has the final counters.
	var last struct {
		Coins    int64 `json:"coins"`
		Taps     int64 `json:"taps"`
		TapValue int64 `json:"tapValue"`
	}
	seen := 0
	deadline := time.Now().Add(10 * time.Second)
	for seen < count && time.Now().Before(deadline) {
		frameType, raw, err := session.read()
		if err != nil {
			return fmt.Errorf("connection lost: %w", err)
		}
		if frameType != "tap" {
			continue
		}
		if err := json.Unmarshal(raw, &last); err != nil {
			return fmt.Errorf("unparseable tap update: %w", err)
		}
		seen++
	}
	if seen < count {
		return fmt.Errorf("timed out after %d of %d tap updates", seen, count)
	}

	out := NewOutput(cfg.Output)
	if cfg.Output == "json" {
		out.Print(last)
	} else {
		out.PrintMessage(fmt.Sprintf("%s: %d coins, %d taps (+%d per tap)", name, last.Coins, last.Taps, last.TapValue))
	}
	return nil
}
