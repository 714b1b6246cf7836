package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/clad/cmd/cladcpp/commands"
	"github.com/teranos/clad/config"
	"github.com/teranos/clad/logger"
)

var rootCmd = &cobra.Command{
	Use:   "cladcpp [flags] <schema.clad>...",
	Short: "Generate C++ message buffers from CLAD schemas",
	Long: `cladcpp - CLAD C++ emitter

Reads a CLAD schema and writes a C++ declaration header, a definition source
file and, when the schema declares unions, a tag header.

Configuration sources (in order of precedence):
1. Command line flags
2. CLADCPP_FLAGS (extra flags, shell-quoted)
3. Environment variables (CLADCPP_* prefix)
4. Project config (./cladcpp.toml, searched upward)
5. Default values

Examples:
  cladcpp -C schemas -o generated schemas/robot.clad
  cladcpp -o - robot.clad                  # Write generated code to stdout
  cladcpp check robot.clad                 # Constraint check and size table
  cladcpp watch -C schemas schemas/*.clad  # Regenerate on change`,
	Args:              cobra.MinimumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: commands.Setup,
	RunE:              commands.RunGenerate,
}

func init() {
	commands.AddPersistentFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.ASTCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	args, err := commands.ArgsWithEnv(os.Args[1:], os.Getenv(config.EnvPrefix+"_FLAGS"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
	rootCmd.SetArgs(args)

	err = rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		commands.Report(os.Stderr, err)
		os.Exit(1)
	}
}
