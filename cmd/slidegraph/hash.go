package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/slidegraph/slide"
)

func hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <slide>...",
		Short: "Print the content address of slide files",
		Long: `Hash prints the urn:md5 content address used as each slide's
document identifier, one line per file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				digest, err := slide.Digest(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", slide.ContentRef(digest), path)
			}
			return nil
		},
	}
}
