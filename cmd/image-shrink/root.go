package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func newRootCommand() *cobra.Command {
	var maxSize float64

	cmd := &cobra.Command{
		Use:   "image-shrink <folder>",
		Short: "Recompress every image in a storage folder to fit a size budget",
		Long: `image-shrink lists a folder in the configured Supabase bucket, recompresses
every image in it as JPEG, lowering the quality until the file fits
--max-size, and uploads the result next to the original as compressed_<name>.

Connection settings are read from the environment or a .env file.`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if maxSize <= 0 {
				return fmt.Errorf("--max-size must be greater than 0, got %g", maxSize)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return runShrink(ctx, cmd.OutOrStdout(), os.Stderr, args[0], maxSize)
		},
	}

	cmd.Flags().Float64Var(&maxSize, "max-size", 1.0, "maximum size of each compressed image in MB")
	cmd.SetVersionTemplate(fmt.Sprintf(
		"image-shrink %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))

	return cmd
}
