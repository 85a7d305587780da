package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"authorsite/internal/catalog"
	"authorsite/internal/platform/crypto"
	"authorsite/internal/redirect"
	"authorsite/internal/slug"
	"authorsite/internal/upcoming"
)

func newSlugCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "slug <title>",
		Short: "Print the slug generated for a title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := slug.Generate(strings.Join(args, " "))
			if s == "" {
				return fmt.Errorf("title %q has no slug characters", strings.Join(args, " "))
			}
			if id != "" {
				s = slug.WithShortID(s, id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Append the short form of this id")
	return cmd
}

func newRedirectCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "redirect <books|multimedia> <id>",
		Short:     "Resolve a legacy id the way the redirect endpoints do",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(redirect.Books), string(redirect.Multimedia)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ns := redirect.Namespace(args[0])
			if ns != redirect.Books && ns != redirect.Multimedia {
				return fmt.Errorf("unknown namespace %q (want books or multimedia)", args[0])
			}

			v, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			pool, timeout, err := openPool(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := catalog.NewService(catalog.NewPostgresRepo(pool, timeout))
			resp := redirect.NewResolver(svc, ns).Resolve(cmd.Context(), args[1])

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d %s\n", resp.Status, resp.Body)
			if resp.Location != "" {
				fmt.Fprintf(out, "Location: %s\n", resp.Location)
			}
			return nil
		},
	}
}

func newUpcomingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Inspect upcoming books",
	}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List upcoming books by expected release date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			pool, timeout, err := openPool(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer pool.Close()

			books, err := upcoming.NewService(upcoming.NewPostgresStore(pool, timeout)).ListAll(cmd.Context())
			if err != nil {
				return err
			}
			return printUpcoming(cmd, books, asJSON)
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	cmd.AddCommand(list)
	return cmd
}

func printUpcoming(cmd *cobra.Command, books []upcoming.UpcomingBook, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(books)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RELEASE\tID\tTITLE\tAUTHOR\tPREORDER")
	for _, b := range books {
		preorder := "-"
		if b.PreorderURL != nil {
			preorder = *b.PreorderURL
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", b.ExpectedReleaseDate, slug.ShortID(b.ID), b.Title, b.Author, preorder)
	}
	return tw.Flush()
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print its bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scanner := bufio.NewScanner(cmd.InOrStdin())
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				return fmt.Errorf("no password on stdin")
			}
			password := strings.TrimRight(scanner.Text(), "\r")

			if err := crypto.ValidatePasswordStrength(password); err != nil {
				return err
			}
			hash, err := crypto.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
