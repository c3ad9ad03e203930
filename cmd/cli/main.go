package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"coursedash/adapters/excel"
	"coursedash/app"
	"coursedash/domain/catalog"
	"coursedash/internal"
	"coursedash/internal/config"
	"coursedash/internal/errors"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// globalFlags configure where and how semester files are read
type globalFlags struct {
	dir       string
	sheet     string
	columnMap string
	logLevel  string
}

// filterFlags mirror the dashboard query parameters
type filterFlags struct {
	years       []string
	terms       []string
	colleges    []string
	departments []string
	tags        []string
	keyword     string
	top         int
}

func main() {
	_ = godotenv.Load()

	var global globalFlags
	rootCmd := &cobra.Command{
		Use:   "coursedash-cli",
		Short: "Query semester course catalogs from the terminal",
		Long: `Load every semester spreadsheet (files named like 114-1.xlsx) from a
directory and print lookups, aggregates or the filtered course table.`,
		SilenceUsage: true,
	}

	defaults := config.LoadDataConfig()
	rootCmd.PersistentFlags().StringVar(&global.dir, "dir", defaults.Dir, "directory holding semester files")
	rootCmd.PersistentFlags().StringVar(&global.sheet, "sheet", defaults.SheetName, "sheet to read (default first sheet)")
	rootCmd.PersistentFlags().StringVar(&global.columnMap, "column-map", defaults.ColumnMapFile, "YAML file overriding column header aliases")
	rootCmd.PersistentFlags().StringVar(&global.logLevel, "log-level", "WARN", "log level (ERROR, WARN, INFO, DEBUG)")

	rootCmd.AddCommand(
		newLookupsCmd(&global),
		newSummaryCmd(&global),
		newCoursesCmd(&global),
		newDepartmentsCmd(&global),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLookupsCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "lookups",
		Short: "List loaded files and the distinct years, colleges, departments and tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newDashboardService(global)
			if err != nil {
				return err
			}
			result, err := svc.Store().Get(cmd.Context())
			if err != nil {
				return err
			}
			if err := printStatus(result.Status, result.Message, result.Warnings); err != nil {
				return err
			}

			cat := result.Catalog
			color.Yellow("Files")
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"File", "Year", "Term", "Rows", "Error"})
			for _, f := range cat.Files {
				table.Append([]string{f.Name, f.Year, f.Term, fmt.Sprintf("%d", f.Rows), f.Error})
			}
			table.Render()

			color.Yellow("\nLookups")
			table = tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Field", "Count", "Values"})
			table.SetAutoWrapText(false)
			for _, row := range []struct {
				name   string
				values []string
			}{
				{"years", cat.Lookups.Years},
				{"terms", cat.Lookups.Terms},
				{"colleges", cat.Lookups.Colleges},
				{"departments", cat.Lookups.Departments},
				{"tags", cat.Lookups.Tags},
			} {
				table.Append([]string{row.name, fmt.Sprintf("%d", len(row.values)), strings.Join(row.values, ", ")})
			}
			table.Render()
			return nil
		},
	}
}

func newSummaryCmd(global *globalFlags) *cobra.Command {
	var filters filterFlags
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print distinct course totals, the semester trend and college/department rankings",
		Example: `  coursedash-cli summary
  coursedash-cli summary --year 112,113,114 --college 工學院 --top 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := runQuery(cmd, global, &filters)
			if err != nil {
				return err
			}

			color.Green("Distinct courses: %d", d.Total)
			fmt.Printf("years=%v terms=%v\n", d.Criteria.Years, d.Criteria.Terms)

			printAggregate("Courses per semester", "Semester", d.Trend)
			s := d.TrendSummary
			fmt.Printf("mean %.2f  median %.1f  min %.0f  max %.0f\n", s.Mean, s.Median, s.Min, s.Max)
			printAggregate("By college", "College", d.Colleges)
			printAggregate(fmt.Sprintf("Top %d departments", len(d.Departments)), "Department", d.Departments)
			return nil
		},
	}
	bindFilterFlags(cmd, &filters)
	return cmd
}

func newCoursesCmd(global *globalFlags) *cobra.Command {
	var filters filterFlags
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "Print the deduplicated course table for a selection",
		Example: `  coursedash-cli courses --tag AI --tag SDGs
  coursedash-cli courses --q 程式 --term 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := runQuery(cmd, global, &filters)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Year", "Term", "College", "Department", "Code", "Name", "Tags"})
			for _, r := range d.Courses {
				table.Append([]string{r.Year, r.Term, r.College, r.Department, r.CourseCode, r.CourseName, strings.Join(r.Tags, ", ")})
			}
			table.SetFooter([]string{"", "", "", "", "", "Total", fmt.Sprintf("%d", d.Total)})
			table.Render()
			return nil
		},
	}
	bindFilterFlags(cmd, &filters)
	return cmd
}

func newDepartmentsCmd(global *globalFlags) *cobra.Command {
	var colleges []string
	cmd := &cobra.Command{
		Use:   "departments",
		Short: "List departments offered under the given colleges",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newDashboardService(global)
			if err != nil {
				return err
			}
			departments, err := svc.DepartmentOptions(cmd.Context(), colleges)
			if err != nil {
				return err
			}
			for _, d := range departments {
				fmt.Println(d)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&colleges, "college", nil, "restrict to these colleges (repeat the flag)")
	return cmd
}

func bindFilterFlags(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().StringSliceVar(&f.years, "year", nil, "academic years (default latest year)")
	cmd.Flags().StringSliceVar(&f.terms, "term", nil, "terms 1 and/or 2 (default both)")
	// Free-text values may contain commas, so they are repeated rather than split.
	cmd.Flags().StringArrayVar(&f.colleges, "college", nil, "colleges (repeat the flag)")
	cmd.Flags().StringArrayVar(&f.departments, "department", nil, "departments (repeat the flag)")
	cmd.Flags().StringArrayVar(&f.tags, "tag", nil, "course tags, any match (repeat the flag)")
	cmd.Flags().StringVar(&f.keyword, "q", "", "course name substring, case-insensitive")
	cmd.Flags().IntVar(&f.top, "top", 0, "department ranking size")
}

// runQuery fails with NO_DATA when no semester file could be loaded.
func runQuery(cmd *cobra.Command, global *globalFlags, f *filterFlags) (*app.Dashboard, error) {
	svc, err := newDashboardService(global)
	if err != nil {
		return nil, err
	}

	criteria := catalog.Criteria{
		Years:       nonNil(f.years),
		Terms:       nonNil(f.terms),
		Colleges:    f.colleges,
		Departments: f.departments,
		Tags:        f.tags,
		Keyword:     strings.TrimSpace(f.keyword),
	}
	opts := app.QueryOptions{
		TopN:         f.top,
		DefaultYears: !cmd.Flags().Changed("year"),
		DefaultTerms: !cmd.Flags().Changed("term"),
	}

	d, err := svc.Query(cmd.Context(), criteria, opts)
	if err != nil {
		return nil, err
	}
	if err := printStatus(d.Status, d.Message, d.Warnings); err != nil {
		return nil, err
	}
	return d, nil
}

func newDashboardService(global *globalFlags) (*app.DashboardService, error) {
	logger, err := internal.NewLogger(internal.ParseLogLevel(global.logLevel), "dev")
	if err != nil {
		return nil, err
	}
	columns, err := excel.LoadColumnMap(global.columnMap)
	if err != nil {
		return nil, err
	}
	source := excel.NewDirectorySource(excel.ExcelConfig{Dir: global.dir, SheetName: global.sheet, Columns: columns}, logger)
	loader := app.NewCatalogLoader(source, config.DefaultLoadConcurrency, logger)
	return app.NewDashboardService(app.NewCatalogStore(loader, logger), app.DefaultTopDepartments, logger), nil
}

// printStatus reports file warnings and turns the empty state into a
// NO_DATA error, so the command exits non-zero.
func printStatus(status app.LoadStatus, message string, warnings []app.Warning) error {
	for _, w := range warnings {
		color.Red("warning: %s", w.Message)
	}
	if status == app.StatusNoData {
		return errors.NoData(strings.ReplaceAll(message, "`", ""))
	}
	return nil
}

func printAggregate(title, column string, rows []catalog.AggregateRow) {
	color.Yellow("\n%s", title)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{column, "Courses"})
	for _, r := range rows {
		table.Append([]string{r.Label, fmt.Sprintf("%d", r.Count)})
	}
	table.Render()
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
