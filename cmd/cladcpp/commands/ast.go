package commands

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/clad/clad/ast"
	"github.com/teranos/clad/errors"
)

// ASTCmd dumps the resolved syntax tree
var ASTCmd = &cobra.Command{
	Use:   "ast <schema.clad>",
	Short: "Print the resolved schema as YAML",
	Long: `Parse a schema with its includes and print every declaration with its
fully qualified name, members, wire sizes and version hash.`,
	Args: cobra.ExactArgs(1),
	RunE: runAST,
}

func runAST(cmd *cobra.Command, args []string) error {
	list, err := parseSchema(cfg, args[0])
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(ast.Summarize(list.Decls)); err != nil {
		return errors.Wrap(err, "failed to encode AST")
	}
	return enc.Close()
}
