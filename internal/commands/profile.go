package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Yus314/MoLe-sub005/internal/config"
	"github.com/Yus314/MoLe-sub005/internal/fetch"
	"github.com/Yus314/MoLe-sub005/internal/model"
)

func newProfileCommand(g *globals) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage hledger-web server profiles",
	}
	profileCmd.AddCommand(
		newProfileAddCommand(g),
		newProfileListCommand(g),
		newProfileDetectCommand(g),
	)
	return profileCmd
}

func newProfileAddCommand(g *globals) *cobra.Command {
	var (
		url, user, password string
		apiVersion          string
		commodity           string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a server profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := model.ParseAPIVersion(apiVersion)
			if err != nil {
				return err
			}
			p := config.ProfileConfig{
				Name:             args[0],
				URL:              url,
				APIVersion:       v,
				DefaultCommodity: commodity,
			}
			if user != "" {
				p.Auth = &config.AuthConfig{User: user, Password: password}
			}
			return runProfileAdd(cmd.OutOrStdout(), g, p)
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "hledger-web base URL (required)")
	_ = cmd.MarkFlagRequired("url")
	cmd.Flags().StringVar(&user, "user", "", "basic-auth user")
	cmd.Flags().StringVar(&password, "password", "", "basic-auth password")
	cmd.Flags().StringVar(&apiVersion, "api-version", "auto", "auto, html or a version such as 1.32")
	cmd.Flags().StringVar(&commodity, "default-commodity", "", "commodity shown for amounts without one")

	return cmd
}

func runProfileAdd(out io.Writer, g *globals, p config.ProfileConfig) error {
	proj, err := openProject(g)
	if err != nil {
		return err
	}
	defer proj.Close()

	added, err := proj.cfg.AddProfile(p)
	if err != nil {
		return err
	}
	if err := proj.saveConfig(); err != nil {
		return err
	}
	proj.log.Printf("added profile %q (id %d, %s)", added.Name, added.ID, added.URL)
	fmt.Fprintf(out, "Added profile %q (id %d)\n", added.Name, added.ID)
	return nil
}

func newProfileListCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List server profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfileList(cmd.OutOrStdout(), g)
		},
	}
}

func runProfileList(out io.Writer, g *globals) error {
	proj, err := openProject(g)
	if err != nil {
		return err
	}
	defer proj.Close()

	if len(proj.cfg.Profiles) == 0 {
		fmt.Fprintln(out, "No profiles. Add one with 'hlsync profile add'.")
		return nil
	}
	fmt.Fprintf(out, "%-4s %-16s %-8s %-10s %s\n", "ID", "NAME", "API", "SERVER", "URL")
	for _, p := range proj.cfg.Profiles {
		server := "-"
		if p.DetectedVersion != nil {
			server = p.DetectedVersion.String()
		}
		fmt.Fprintf(out, "%-4d %-16s %-8s %-10s %s\n", p.ID, p.Name, p.APIVersion, server, p.URL)
	}
	return nil
}

func newProfileDetectCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "detect <name>",
		Short: "Ask the server for its hledger-web version and remember it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := openProject(g)
			if err != nil {
				return err
			}
			defer proj.Close()

			p, err := proj.cfg.Profile(args[0])
			if err != nil {
				return err
			}
			v, err := fetch.DetectVersion(cmd.Context(), proj.client(), p.Model())
			if err != nil {
				return fmt.Errorf("detecting version of %q: %w", p.Name, err)
			}
			p.DetectedVersion = &v
			if err := proj.saveConfig(); err != nil {
				return err
			}
			proj.log.Printf("profile %q: server version %s", p.Name, v)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s runs hledger-web %s\n", color.GreenString("✓"), p.Name, v)
			return nil
		},
	}
}
