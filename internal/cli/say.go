package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newSayCmd() *cobra.Command {
	var adminSecret string

	cmd := &cobra.Command{
		Use:   "say <nickname> <text>...",
		Short: "Claim a nickname and post a chat message",
		Long: `Claim a nickname and post a single chat message.

When run as the admin nickname with the admin secret, moderation commands
can be sent as chat text, e.g.:

  coinpit say admin --admin-secret=... /ban mallory`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSay(args[0], strings.Join(args[1:], " "), adminSecret)
		},
	}

	cmd.Flags().StringVar(&adminSecret, "admin-secret", os.Getenv("COINPIT_ADMIN_SECRET"), "Admin secret for claiming the admin nickname (env: COINPIT_ADMIN_SECRET)")

	return cmd
}

func runSay(name, text, adminSecret string) error {
	session, err := dialSession()
	if err != nil {
		return err
	}
	defer session.close()

	if err := session.claim(name, adminSecret); err != nil {
		return err
	}

	if err := session.send(map[string]string{"type": "chat", "text": text}); err != nil {
		return fmt.Errorf("failed to send chat: %w", err)
	}

	// Wait for the echo so the message is known to have been accepted.
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		frameType, _, err := session.read()
		if err != nil {
			return fmt.Errorf("connection lost: %w", err)
		}
		if frameType == "chat" || frameType == "system" {
			NewOutput(cfg.Output).PrintMessage("sent")
			return nil
		}
	}

	return fmt.Errorf("timed out waiting for chat echo")
}
