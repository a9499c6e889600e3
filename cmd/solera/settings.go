package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and change platform settings",
}

var (
	settingSetPublic      bool
	settingSecretCategory string
)

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all platform settings and secret metadata",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}
		ctx := context.Background()

		plain, err := store.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to list settings: %w", err)
		}
		secrets, err := store.ListSecretMeta(ctx)
		if err != nil {
			return fmt.Errorf("failed to list secrets: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tVALUE\tPUBLIC")
		for _, s := range plain {
			fmt.Fprintf(w, "%s\t%s\t%t\n", s.Key, s.Value, s.IsPublic)
		}
		for _, s := range secrets {
			fmt.Fprintf(w, "%s\t<encrypted>\tfalse\n", s.SettingKey)
		}
		return w.Flush()
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the raw JSON value of a plain setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}

		value, err := store.GetPlain(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get setting %q: %w", args[0], err)
		}
		fmt.Println(value)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a plain setting",
	Long: `Set a plain platform setting. The value is parsed as JSON; values
that do not parse are stored as strings.

Examples:
  solera settings set min_age_for_alcohol 21 --public
  solera settings set platform_name '"Barrel & Vine"' --public
  solera settings set google.enabled true`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}

		var value any
		if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
			value = args[1]
		}

		if err := store.SetPlain(context.Background(), args[0], value, settingSetPublic); err != nil {
			return fmt.Errorf("failed to set setting %q: %w", args[0], err)
		}
		fmt.Printf("Set %s (public=%t)\n", args[0], settingSetPublic)
		return nil
	},
}

var settingsSetSecretCmd = &cobra.Command{
	Use:   "set-secret <key>",
	Short: "Set an encrypted setting, reading the value from stdin",
	Long: `Set an encrypted platform setting. The value is read from stdin so
it never appears in shell history or process listings.

Examples:
  solera settings set-secret stripe.secret_key --category stripe < key.txt
  echo -n "$SMTP_PASSWORD" | solera settings set-secret email.password --category email`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}

		reader := bufio.NewReader(os.Stdin)
		value, err := reader.ReadString('\n')
		if err != nil && value == "" {
			return fmt.Errorf("failed to read secret from stdin: %w", err)
		}
		value = strings.TrimRight(value, "\r\n")

		if err := store.SetSecret(context.Background(), args[0], settingSecretCategory, value, nil); err != nil {
			return fmt.Errorf("failed to set secret %q: %w", args[0], err)
		}
		fmt.Printf("Set secret %s (category=%s)\n", args[0], settingSecretCategory)
		return nil
	},
}

func init() {
	settingsSetCmd.Flags().BoolVar(&settingSetPublic, "public", false, "Expose the setting through the public settings endpoint")
	settingsSetSecretCmd.Flags().StringVar(&settingSecretCategory, "category", "general", "Integration category (google, stripe, email, ...)")

	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsSetSecretCmd)
}
