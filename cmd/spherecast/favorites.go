package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/spherecast/spherecast/internal/favorites"
	"github.com/spherecast/spherecast/internal/kvstore"
	"github.com/spherecast/spherecast/internal/validate"
)

// printView writes the favorites list to a terminal.
type printView struct {
	w io.Writer
}

func (v printView) Render(urls []string) {
	if len(urls) == 0 {
		fmt.Fprintln(v.w, favorites.EmptyMessage)
		return
	}
	for i, u := range urls {
		fmt.Fprintf(v.w, "%3d  %s\n", i+1, u)
	}
}

func (v printView) Notify(message string) {
	fmt.Fprintln(v.w, message)
}

// surveyConfirmer asks on the terminal unless assumeYes is set.
type surveyConfirmer struct {
	assumeYes bool
}

func (c surveyConfirmer) Confirm(prompt string) bool {
	if c.assumeYes {
		return true
	}
	var ok bool
	confirm := survey.Confirm{Message: prompt, Default: false}
	if err := survey.AskOne(&confirm, &ok); err != nil {
		slog.Warn("confirmation aborted", "error", err)
		return false
	}
	return ok
}

func newFavoritesCmd(a *app) *cobra.Command {
	var (
		namespace string
		assumeYes bool
	)

	open := func(cmd *cobra.Command) (*favorites.Store, func(), error) {
		b, err := openBackend(cmd.Context(), a.cfg.Storage)
		if err != nil {
			return nil, nil, err
		}
		ns := namespace
		if ns == "" {
			ns = a.cfg.FavoritesNamespace
		}
		items := kvstore.NewItemStorage(cmd.Context(), b.store, ns)
		store := favorites.New(items, printView{w: cmd.OutOrStdout()}, surveyConfirmer{assumeYes: assumeYes})
		return store, b.close, nil
	}

	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage saved stream URLs",
	}
	cmd.PersistentFlags().StringVar(&namespace, "namespace", "", "storage namespace; a player's client ID edits that browser's list")

	list := &cobra.Command{
		Use:   "list",
		Short: "Print saved streams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, done, err := open(cmd)
			if err != nil {
				return err
			}
			defer done()
			store.Load()
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <url>",
		Short: "Save a stream URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if msg := validate.SourceURL(args[0]); msg != "" {
				return errors.New(msg)
			}
			store, done, err := open(cmd)
			if err != nil {
				return err
			}
			defer done()
			store.Add(args[0])
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <position>",
		Short: "Remove the saved stream at a 1-based position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[0])
			if err != nil || pos < 1 {
				return fmt.Errorf("invalid position %q", args[0])
			}
			store, done, err := open(cmd)
			if err != nil {
				return err
			}
			defer done()
			if !store.Remove(pos - 1) {
				return fmt.Errorf("no favorite at position %d", pos)
			}
			return nil
		},
	}

	clearAll := &cobra.Command{
		Use:   "clear",
		Short: "Remove every saved stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, done, err := open(cmd)
			if err != nil {
				return err
			}
			defer done()
			store.ClearAll()
			return nil
		},
	}
	clearAll.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(list, add, remove, clearAll)
	return cmd
}
