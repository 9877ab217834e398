package gcn

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/halvard/gcnasm/architecture/gcn"
	"github.com/halvard/gcnasm/internal/config"
	"github.com/halvard/gcnasm/internal/driver"
	"github.com/spf13/cobra"
)

var (
	gpuFlag string
	outFlag string
)

var AssembleFileCmd = &cobra.Command{
	Use:     "assemble-file <assembly-file>",
	GroupID: "file-operations",
	Short:   "Assemble a GCN assembly file into a binary file.",
	Long:    `Assemble a GCN assembly file into a binary file.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runAssembleFile(cmd, args); err != nil {
			cmd.PrintErrln("Error:", err)
		}
	},
}

func init() {
	AssembleFileCmd.Flags().StringVar(&gpuFlag, "gpu", "", "GPU family to start assembling for (overrides the config default; a .gpu directive in the source still switches it)")
	AssembleFileCmd.Flags().StringVarP(&outFlag, "out", "o", "", "output binary file path (defaults to the input file with a .bin extension)")
}

// runAssembleFile orchestrates the full assembly pipeline: resolve the
// file, load the CLI config, read the source, run it through the driver,
// and report diagnostics or write the assembled bytes.
func runAssembleFile(cmd *cobra.Command, args []string) error {
	fullPath, err := resolveFilePath(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	source, err := readSourceFile(fullPath)
	if err != nil {
		return err
	}

	family := gcn.ParseGPUName(cfg.Assemble.DefaultGPU)
	if gpuFlag != "" {
		family = gcn.ParseGPUName(gpuFlag)
	}

	d := driver.New(family, gcn.DefaultInstructions)
	d.AssembleSource(source)

	if report := d.Report(); report != "" {
		cmd.Print(report)
	}
	if d.Sink.HasErrors() {
		return fmt.Errorf("assembly of %s failed", fullPath)
	}

	outPath := outFlag
	if outPath == "" {
		outPath = withExtension(fullPath, ".bin")
	}
	if err := os.WriteFile(outPath, d.Section.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	cmd.Printf("assembled %d bytes, %d usage records -> %s\n", len(d.Section.Bytes()), len(d.Section.Usages()), outPath)
	return nil
}

// resolveFilePath validates the CLI arguments and returns the absolute
// path to the assembly file.
func resolveFilePath(args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("no assembly file provided")
	}
	if args[0] == "" {
		return "", fmt.Errorf("assembly file path is empty")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("unable to get current working directory: %w", err)
	}

	fullPath := filepath.Join(cwd, args[0])
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return "", fmt.Errorf("assembly file does not exist at path: %s", fullPath)
	}

	return fullPath, nil
}

// readSourceFile reads the assembly source file and returns its content.
func readSourceFile(path string) (string, error) {
	sourceBytes, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read assembly file: %w", err)
	}
	return string(sourceBytes), nil
}

func withExtension(path, ext string) string {
	trimmed := path[:len(path)-len(filepath.Ext(path))]
	return trimmed + ext
}
