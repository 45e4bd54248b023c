package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"gorm.io/oci"
	"gorm.io/oci/clause"
	"gorm.io/oci/migrator"
	"gorm.io/oci/types"
)

func newPingCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Connect and run SELECT 1 FROM DUAL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *oci.Session) error {
				begin := time.Now()
				if err := s.Ping(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is alive (%s)\n", s.Descriptor.String(), time.Since(begin).Round(time.Microsecond))
				return nil
			})
		},
	}
}

func newQueryCommand(a *app) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "query SQL [ARG...]",
		Short: "Run a query, ? placeholders are bound to ARGs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *oci.Session) error {
				rows, err := s.Raw(cmd.Context(), args[0], parseArgs(args[1:], a.timeZone(), raw)...)
				if err != nil {
					return err
				}
				defer rows.Close()

				var header []string
				for _, column := range rows.Columns() {
					header = append(header, column.Name)
				}
				var data [][]string
				for rows.Next() {
					line := make([]string, 0, len(header))
					for _, v := range rows.Values() {
						line = append(line, cell(v))
					}
					data = append(data, line)
				}
				if err := rows.Err(); err != nil {
					return err
				}

				render(cmd.OutOrStdout(), header, data)
				fmt.Fprintf(cmd.OutOrStdout(), "(%d rows)\n", len(data))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "bind every ARG as text")
	return cmd
}

func newExecCommand(a *app) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "exec SQL [ARG...]",
		Short: "Execute a statement, ? placeholders are bound to ARGs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *oci.Session) error {
				result, err := s.Exec(cmd.Context(), clause.RawQuery{SQL: args[0], Vars: parseArgs(args[1:], a.timeZone(), raw)})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d rows affected\n", result.RowsAffected)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "bind every ARG as text")
	return cmd
}

func newTablesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables of the current schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *oci.Session) error {
				tables, err := migrator.New(s).GetTables(cmd.Context())
				if err != nil {
					return err
				}
				data := make([][]string, len(tables))
				for idx, table := range tables {
					data[idx] = []string{table}
				}
				render(cmd.OutOrStdout(), []string{"Table"}, data)
				return nil
			})
		},
	}
}

func newDescribeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe TABLE",
		Short: "Show the columns and indexes of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(cmd.Context(), func(s *oci.Session) error {
				m := migrator.New(s)
				columns, err := m.ColumnTypes(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(columns) == 0 {
					return fmt.Errorf("%w: table %s", oci.ErrNoData, args[0])
				}
				indexes, err := m.GetIndexes(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				render(out, []string{"Column", "Type", "Maps to", "Nullable", "Key", "Default", "Comment"}, describeColumns(columns))
				if len(indexes) > 0 {
					fmt.Fprintln(out)
					render(out, []string{"Index", "Columns", "Unique", "Type"}, describeIndexes(indexes))
				}
				return nil
			})
		},
	}
}

func describeColumns(columns []migrator.ColumnType) [][]string {
	data := make([][]string, 0, len(columns))
	for _, column := range columns {
		columnType, _ := column.ColumnType()
		nullable, _ := column.Nullable()
		def, _ := column.DefaultValue()
		comment, _ := column.Comment()

		var key string
		if pk, _ := column.PrimaryKey(); pk {
			key = "PRI"
		} else if unique, _ := column.Unique(); unique {
			key = "UNI"
		}
		if auto, _ := column.AutoIncrement(); auto {
			key = strings.TrimSpace(key + " IDENTITY")
		}

		tag := column.Tag()
		mapsTo := tag.String()
		if tag == types.Unknown {
			mapsTo = "-"
		}
		data = append(data, []string{
			column.Name(), columnType, mapsTo, strconv.FormatBool(nullable), key, strings.TrimSpace(def), comment,
		})
	}
	return data
}

func describeIndexes(indexes []migrator.Index) [][]string {
	data := make([][]string, 0, len(indexes))
	for _, index := range indexes {
		unique, _ := index.Unique()
		data = append(data, []string{
			index.Name(), strings.Join(index.Columns(), ", "), strconv.FormatBool(unique), index.Option(),
		})
	}
	return data
}

func render(w io.Writer, header []string, data [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.AppendBulk(data)
	table.Render()
}
