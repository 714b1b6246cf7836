package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/clad/emitter/cpp"
	"github.com/teranos/clad/logger"
)

// RunGenerate compiles every schema named on the command line
func RunGenerate(cmd *cobra.Command, args []string) error {
	for _, schema := range args {
		unit, err := cpp.Compile(cfg, schema, os.Args, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if cfg.ToStdout() || !logger.ShouldOutput(verbosity, logger.OutputFilesWritten) {
			continue
		}
		written := []string{unit.Paths.Header, unit.Paths.Source}
		if unit.HasTagHeader() {
			written = append(written, unit.Paths.TagHeader)
		}
		for _, path := range written {
			logger.Infow("Generated", logger.FieldFile, schema, logger.FieldOutput, path)
		}
	}
	return nil
}
