package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCredentialsCmd() *cobra.Command {
	var credentialsFile string

	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Show where the OCR credential is loaded from",
		Long: `Resolves the Google Cloud credential the same way the server does:
an injected GOOGLE_APPLICATION_CREDENTIALS_JSON secret first, then the
well-known credential file. Exits with an error when neither is available.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := newResolver(credentialsFile).Resolve()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "source: %s\npath: %s\n", state.Source, state.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&credentialsFile, "credentials-file", "", "Well-known credential file used when no secret is injected")

	return cmd
}
