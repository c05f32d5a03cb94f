package cli

import (
	"github.com/spf13/cobra"
)

func newUploadIconCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload-icon <nickname> <file>",
		Short: "Upload a player icon",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			nickname, filePath := args[0], args[1]

			var result UploadResult
			if err := client.UploadFile("/upload-icon", nickname, "icon", filePath, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
