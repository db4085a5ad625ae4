// Command nagac is the shaderlift command-line translator.
//
// Usage:
//
//	nagac translate <input> [<output>] [flags]
//
// Examples:
//
//	nagac translate shader.wgsl                    # parse and validate only
//	nagac translate shader.wgsl shader.spv         # compile to SPIR-V
//	nagac translate shader.wgsl shader.metal       # compile to Metal
//	nagac translate --debug shader.wgsl shader.spv # include debug info
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shaderlift/shaderlift"
	"github.com/shaderlift/shaderlift/config"
	"github.com/shaderlift/shaderlift/glsl"
	"github.com/shaderlift/shaderlift/hlsl"
	"github.com/shaderlift/shaderlift/internal/clilog"
	"github.com/shaderlift/shaderlift/ir"
	"github.com/shaderlift/shaderlift/msl"
	"github.com/shaderlift/shaderlift/spirv"
)

var (
	outputFlag   string
	debugFlag    bool
	skipValidate bool
)

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "dev"
}

func main() {
	root := &cobra.Command{
		Use:     "nagac",
		Short:   "Translate shaders between WGSL, SPIR-V, MSL, HLSL, and GLSL",
		Version: version(),
	}

	translate := &cobra.Command{
		Use:   "translate <input.wgsl> [output]",
		Short: "Parse, validate, and optionally emit a shader in another dialect",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runTranslate,
	}
	translate.Flags().StringVarP(&outputFlag, "output", "o", "", "output file (default: positional arg; with neither, only validate)")
	translate.Flags().BoolVar(&debugFlag, "debug", false, "include debug info in the emitted shader")
	translate.Flags().BoolVar(&skipValidate, "no-validate", false, "skip IR validation (diagnostic use only)")
	root.AddCommand(translate)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTranslate(_ *cobra.Command, args []string) error {
	log := clilog.New(debugFlag)
	red := color.New(color.FgRed, color.Bold).SprintFunc()

	inputPath := args[0]
	outputPath := outputFlag
	if outputPath == "" && len(args) > 1 {
		outputPath = args[1]
	}

	source, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s reading %s: %v\n", red("error:"), inputPath, err)
		os.Exit(1)
	}
	log.WithField("path", inputPath).Debug("read input")

	ast, err := shaderlift.Parse(string(source))
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	module, err := shaderlift.LowerWithSource(ast, string(source))
	if err != nil {
		return fmt.Errorf("lowering: %w", err)
	}
	module.Header.GeneratorTag = "nagac/" + uuid.NewString()
	log.WithFields(map[string]any{
		"types":     len(module.Types),
		"functions": len(module.Functions),
	}).Debug("lowered to IR")

	var info *ir.ModuleInfo
	if !skipValidate {
		info, err = shaderlift.Validate(module)
		if err != nil {
			return fmt.Errorf("validation: %w", err)
		}
		log.WithField("functions_analyzed", len(info.Functions)).Debug("validation passed")
	}

	if outputPath == "" {
		fmt.Println("OK: parsed, lowered, and validated")
		return nil
	}

	out, err := emit(module, outputPath, debugFlag)
	if err != nil {
		return fmt.Errorf("emission: %w", err)
	}

	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	log.WithFields(map[string]any{"output": outputPath, "bytes": len(out)}).Info("wrote shader")
	return nil
}

// emit selects a back-end by the output file extension and a sibling
// configuration file (see config.SiblingPath) for resource remaps.
func emit(module *ir.Module, outputPath string, includeDebug bool) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(outputPath))

	switch ext {
	case ".spv":
		opts := spirv.DefaultOptions()
		opts.Debug = includeDebug
		return shaderlift.GenerateSPIRV(module, opts)

	case ".metal":
		opts := msl.DefaultOptions()
		text, _, err := msl.Compile(module, opts)
		return []byte(text), err

	case ".hlsl":
		cfg, err := config.Load(config.SiblingPath(outputPath))
		if err != nil {
			return nil, err
		}
		opts := hlsl.DefaultOptions()
		opts.BindingMap = cfg.HLSLBindingMap()
		opts.FakeMissingBindings = len(opts.BindingMap) == 0
		text, _, err := hlsl.Compile(module, opts)
		return []byte(text), err

	case ".vert", ".frag", ".comp", ".glsl":
		opts := glsl.DefaultOptions()
		text, _, err := glsl.Compile(module, opts)
		return []byte(text), err

	default:
		return nil, fmt.Errorf("unrecognized output extension %q", ext)
	}
}
