package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/lu-zhengda/mailroom/internal/config"
	"github.com/spf13/cobra"
)

type envItem struct {
	Name   string
	Loaded bool
}

// envStatus reports which connection settings are present once the config
// file and environment have been merged.
func envStatus(cfg *config.Config) []envItem {
	return []envItem{
		{"supabaseUrl", cfg.Supabase.URL != ""},
		{"supabaseKey", cfg.Supabase.AnonKey != ""},
		{"appwriteEndpoint", cfg.Appwrite.Endpoint != ""},
		{"appwriteProject", cfg.Appwrite.Project != ""},
		{"smtpHost", cfg.SMTP.Host != ""},
		{"smtpUser", cfg.SMTP.User != ""},
		{"smtpFrom", cfg.Transport.From != ""},
		{"gmailClient", cfg.Gmail.ClientID != "" && cfg.Gmail.ClientSecret != ""},
	}
}

func statusText(loaded bool) string {
	if loaded {
		return "✅ Loaded"
	}
	return "❌ Missing"
}

func writeEnvStatus(w io.Writer, items []envItem) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	for _, it := range items {
		status := red(statusText(false))
		if it.Loaded {
			status = green(statusText(true))
		}
		fmt.Fprintf(w, "%-18s %s\n", it.Name, status)
	}
}

func newEnvCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env-check",
		Short: "Report which provider and transport settings are loaded",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			items := envStatus(cfg)

			if jsonFlag {
				out := make(map[string]string, len(items))
				for _, it := range items {
					out[it.Name] = statusText(it.Loaded)
				}
				return fprintJSON(cmd.OutOrStdout(), out)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "auth provider:     %s\n", cfg.Auth.Provider)
			fmt.Fprintf(cmd.OutOrStdout(), "transport:         %s\n\n", cfg.Transport.Kind)
			writeEnvStatus(cmd.OutOrStdout(), items)
			return nil
		},
	}
}
