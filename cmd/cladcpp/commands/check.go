package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/clad/parser"
	"github.com/teranos/clad/config"
	"github.com/teranos/clad/emitter/cpp"
)

// CheckCmd validates schemas without writing anything
var CheckCmd = &cobra.Command{
	Use:   "check <schema.clad>...",
	Short: "Check schemas against the C++ emitter constraints",
	Long: `Parse each schema, run the C++ emitter constraint checks and print the
wire-size bounds of every message and union. Nothing is written.

Examples:
  cladcpp check robot.clad
  cladcpp check --max-message-size 2048 robot.clad`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func parseSchema(c *config.Config, path string) (*ast.DeclList, error) {
	return parser.ParseFile(path, parser.Options{IncludeDirectories: c.Input.IncludeDirectories})
}

func runCheck(cmd *cobra.Command, args []string) error {
	opts := cpp.OptionsFromConfig(cfg)
	for _, schema := range args {
		list, err := parseSchema(cfg, schema)
		if err != nil {
			return err
		}
		if err := cpp.Check(list, opts); err != nil {
			return err
		}
		if err := cpp.CheckHelperConstructors(list, opts); err != nil {
			return err
		}

		pterm.DefaultSection.WithWriter(cmd.OutOrStdout()).Println(schema)
		if err := pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).
			WithData(sizeTable(list)).Render(); err != nil {
			return err
		}
		pterm.Success.WithWriter(cmd.OutOrStdout()).Println("No constraint violations")
	}
	return nil
}

// sizeTable lists every message and union declared in list, includes excluded
func sizeTable(list *ast.DeclList) pterm.TableData {
	data := pterm.TableData{{"Name", "Kind", "MIN_SIZE", "MAX_SIZE", "Alignment", "Fixed"}}
	for _, obj := range ast.Objects(list.Decls, false) {
		data = append(data, []string{
			obj.FullyQualifiedName(),
			ast.KindOf(obj),
			strconv.Itoa(obj.MinMessageSize()),
			strconv.Itoa(obj.MaxMessageSize()),
			strconv.Itoa(obj.Alignment()),
			fmt.Sprint(obj.IsMessageSizeFixed()),
		})
	}
	return data
}
