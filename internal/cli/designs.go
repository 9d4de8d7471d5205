package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// designsCommand creates the designs command group for catalog management.
func (c *CLI) designsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "designs",
		Short: "Validate and manage stored vessel designs",
	}

	cmd.AddCommand(c.designsValidateCommand())
	cmd.AddCommand(c.designsListCommand())
	cmd.AddCommand(c.designsPutCommand())
	cmd.AddCommand(c.designsDeleteCommand())
	cmd.AddCommand(c.designsBrowseCommand())

	return cmd
}

// designsValidateCommand checks a design file against the engine invariants.
func (c *CLI) designsValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [design.json]",
		Short: "Validate a design file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := readDesignFile(args[0])
			if err != nil {
				printError("%s", err)
				return err
			}
			printSuccess("%s is valid", args[0])
			printDetail("%s: %d plies, %.0f bar test / %.0f bar burst",
				d.Name, d.LayerCount(), d.Pressures.TestBar, d.Pressures.BurstBar)
			return nil
		},
	}
}

// designsListCommand prints the IDs of all stored designs.
func (c *CLI) designsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored design IDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := c.openStore(cmd, cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			ids, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				printInfo("no designs stored")
				return nil
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	}
}

// designsPutCommand stores a design file in the catalog.
func (c *CLI) designsPutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "put [design.json]",
		Short: "Store a design in the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := readDesignFile(args[0])
			if err != nil {
				return err
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := c.openStore(cmd, cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			id, err := st.Put(cmd.Context(), d)
			if err != nil {
				return err
			}
			printSuccess("stored %s", d.Name)
			printKeyValue("ID", id)
			return nil
		},
	}
}

// designsDeleteCommand removes a design from the catalog.
func (c *CLI) designsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Remove a design from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := c.openStore(cmd, cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("deleted %s", args[0])
			return nil
		},
	}
}

// designsBrowseCommand opens the interactive design browser.
func (c *CLI) designsBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse stored designs interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			st, err := c.openStore(cmd, cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			ids, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				printInfo("no designs stored")
				return nil
			}

			entries := make([]designEntry, 0, len(ids))
			for _, id := range ids {
				d, err := st.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				entries = append(entries, designEntry{Design: d})
			}

			selected, err := runDesignBrowser(entries)
			if err != nil {
				return err
			}
			if selected == nil {
				return nil
			}
			printDesignDetails(selected.Design)
			return nil
		},
	}
}
