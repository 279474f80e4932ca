package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/avitaltamir/sqli/internal/config"
)

func newConfigCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage connections",
	}
	cmd.AddCommand(newConfigListCmd(e), newConfigAddCmd(e))
	return cmd
}

func newConfigListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured connections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conns, err := config.NewManager(e.settings).Connections()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(conns) == 0 {
				fmt.Fprintln(out, "No connections. Add one with 'sqli config add'.")
				return nil
			}

			rows := make([][]string, len(conns))
			for i, c := range conns {
				host := "-"
				if c.Host != "" {
					host = c.Host
					if c.Port != 0 {
						host += ":" + strconv.Itoa(c.Port)
					}
				}
				rows[i] = []string{c.Name, c.Conn, host, c.Database}
			}
			writeTable(out, []string{"NAME", "CONN", "HOST", "DATABASE"}, rows)
			fmt.Fprintf(out, "\n%d connection(s)\n", len(conns))
			return nil
		},
	}
}

func newConfigAddCmd(e *env) *cobra.Command {
	var (
		c        config.Connection
		password string
	)

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add or replace a connection",
		Long: `Add a connection to config.yaml. A connection with the same name is
replaced.

Examples:
  sqli config add local --database ./app.db
  sqli config add mem --database :memory:
  sqli config add prod --conn postgresql --host db.internal --user me --database app`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Name = args[0]
			if cmd.Flags().Changed("password") {
				c.Password = &password
			}

			m := config.NewManager(e.settings)
			if err := m.AddConnection(c); err != nil {
				return err
			}
			e.logger.Info("connection added", "name", c.Name, "conn", c.Conn)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", c, m.Path())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&c.Conn, "conn", config.DriverSQLite, "connection type: sqlite or postgresql")
	f.StringVar(&c.Database, "database", "", "database name, or file path for sqlite")
	f.StringVar(&c.Host, "host", "", "server host")
	f.IntVar(&c.Port, "port", 0, "server port")
	f.StringVar(&c.User, "user", "", "user name")
	f.StringVar(&password, "password", "", "store a password instead of prompting")
	f.StringVar(&c.ServerCA, "server-ca", "", "server CA certificate")
	f.StringVar(&c.ClientCert, "client-cert", "", "client certificate")
	f.StringVar(&c.ClientKey, "client-key", "", "client key")
	return cmd
}
