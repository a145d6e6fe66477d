package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nhle/prospector/internal/credential"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage stored secrets",
	Long: `Manage the secrets prospector keeps in the OS keyring.

By default the commands act on the Gemini API key. The GEMINI_API_KEY and
API_KEY environment variables take precedence over the stored key. Use
--imap to act on the mailbox password instead.`,
}

var keySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a secret in the OS keyring",
	Long: `Store a secret in the OS keyring.

The value is read from a hidden prompt, or from stdin when it is not a
terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		item := keyItem(cmd)

		value, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), "Enter "+itemLabel(item)+": ")
		if err != nil {
			return err
		}
		if value == "" {
			return fmt.Errorf("empty %s", itemLabel(item))
		}

		if err := credential.Set(item, value); err != nil {
			return fmt.Errorf("storing %s: %w", itemLabel(item), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %s in the OS keyring\n", itemLabel(item))
		return nil
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove a secret from the OS keyring",
	RunE: func(cmd *cobra.Command, args []string) error {
		item := keyItem(cmd)

		err := credential.Delete(item)
		if errors.Is(err, credential.ErrNotFound) {
			fmt.Fprintf(cmd.OutOrStdout(), "No %s stored\n", itemLabel(item))
			return nil
		}
		if err != nil {
			return fmt.Errorf("deleting %s: %w", itemLabel(item), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", itemLabel(item))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{keySetCmd, keyDeleteCmd} {
		c.Flags().Bool("imap", false, "act on the IMAP password instead of the API key")
		keyCmd.AddCommand(c)
	}
	rootCmd.AddCommand(keyCmd)
}

func keyItem(cmd *cobra.Command) string {
	if imap, _ := cmd.Flags().GetBool("imap"); imap {
		return credential.IMAPPasswordItem
	}
	return credential.APIKeyItem
}

func itemLabel(item string) string {
	if item == credential.IMAPPasswordItem {
		return "IMAP password"
	}
	return "API key"
}

// readSecret prompts without echo when in is a terminal, otherwise it
// reads the first line of in.
func readSecret(in io.Reader, prompt io.Writer, label string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("reading secret: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	return strings.TrimSpace(line), nil
}
