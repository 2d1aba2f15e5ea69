package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsb/pkg/config"
)

// configCommand creates the project settings command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and change project settings",
	}

	cmd.AddCommand(c.configGetCommand())
	cmd.AddCommand(c.configSetCommand())
	cmd.AddCommand(c.configListCommand())

	return cmd
}

func (c *CLI) configGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Short:     "Print one setting",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := c.loadProject()
			if err != nil {
				return err
			}
			v, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			c.out.plain(v)
			return nil
		},
	}
}

func (c *CLI) configSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change one setting and save the project file",
		Example:   `  jsb config set java.main_class com.example.App`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := c.loadProject()
			if err != nil {
				return err
			}
			key, value := args[0], args[1]
			fromEnv := cfg.Overridden(key)
			if err := cfg.Set(key, value); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			path, err := c.configPath()
			if err != nil {
				return err
			}
			if err := cfg.Save(path); err != nil {
				return err
			}

			c.out.success("Set %s = %s", key, value)
			if fromEnv {
				c.out.warning("%s is overridden by the environment; the saved value applies once the override is unset", key)
			}
			return nil
		},
	}
}

func (c *CLI) configListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print every setting",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := c.loadProject()
			if err != nil {
				return err
			}
			for _, key := range config.Keys() {
				v, err := cfg.Get(key)
				if err != nil {
					return err
				}
				if cfg.Overridden(key) {
					v += " " + StyleDim.Render("(env)")
				}
				c.out.keyValue(key, v)
			}
			return nil
		},
	}
}
