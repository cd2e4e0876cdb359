package resolve

import (
	"context"
	"fmt"

	"github.com/cardioml/cardioml/internal/config"
	"github.com/cardioml/cardioml/internal/ctxlog"
	"github.com/cardioml/cardioml/internal/identity"
	"github.com/cardioml/cardioml/internal/registry"
	"github.com/cardioml/cardioml/internal/tensormap"
	"github.com/cardioml/cardioml/internal/tmapgen"
)

// Resolve runs the full post-parse pass. Any error is fatal to the run;
// there is no partial resolution.
func Resolve(ctx context.Context, args *config.Arguments, reg *registry.Registry) (*Model, error) {
	logger := ctxlog.FromContext(ctx)

	if err := args.Validate(); err != nil {
		return nil, err
	}

	model := &Model{
		UConnect:     make(map[string]*SkipConnection),
		InputIDs:     make(map[string]string),
		OutputIDs:    make(map[string]string),
		NamedOutputs: args.NamedOutputs,
	}

	if err := resolveUConnect(args, reg, model); err != nil {
		return nil, err
	}
	if err := resolvePairs(args, reg, model); err != nil {
		return nil, err
	}
	if err := resolveInputs(args, reg, model); err != nil {
		return nil, err
	}
	if err := resolveOutputs(args, reg, model); err != nil {
		return nil, err
	}
	if err := resolveProtected(args, reg, model); err != nil {
		return nil, err
	}
	if err := checkNoBottleneck(model); err != nil {
		return nil, err
	}
	if err := checkLabelWeights(args, model); err != nil {
		return nil, err
	}

	for _, tm := range model.Inputs {
		model.InputIDs[tm.Name] = identity.TensorMapID(tm)
	}
	for _, tm := range model.Outputs {
		model.OutputIDs[tm.Name] = identity.TensorMapID(tm)
	}
	model.ModelID = identity.ModelID(model.Inputs, model.Outputs)

	logger.Info("Resolution complete.",
		"inputs", len(model.Inputs),
		"outputs", len(model.Outputs),
		"skip_connections", len(model.UConnect),
		"pairs", len(model.Pairs),
		"model_sha256", model.ModelID,
	)
	for _, tm := range model.Inputs {
		logger.Debug("Input tensor map resolved.", "name", tm.Name, "sha256", model.InputIDs[tm.Name])
	}
	for _, tm := range model.Outputs {
		logger.Debug("Output tensor map resolved.", "name", tm.Name, "sha256", model.OutputIDs[tm.Name])
	}
	return model, nil
}

// resolveUConnect resolves each skip-connection pair and enforces the shape
// contract: same shape except the channel axis, and at least two axes on
// both sides.
func resolveUConnect(args *config.Arguments, reg *registry.Registry, model *Model) error {
	for _, pair := range args.UConnect {
		in, err := reg.Lookup(pair.In, args.TensormapPrefix)
		if err != nil {
			return fmt.Errorf("u_connect: %w", err)
		}
		out, err := reg.Lookup(pair.Out, args.TensormapPrefix)
		if err != nil {
			return fmt.Errorf("u_connect: %w", err)
		}
		if in.Axes() < 2 || out.Axes() < 2 {
			return fmt.Errorf("cannot u_connect 1d tensor maps (%s, %s)", in.Name, out.Name)
		}
		if !in.SameShapeExceptChannels(out) {
			return fmt.Errorf("u_connect of %s %v and %s %v requires matching shapes besides the channel dimension", in.Name, in.Shape, out.Name, out.Shape)
		}

		sc, ok := model.UConnect[in.Name]
		if !ok {
			sc = &SkipConnection{In: in, Outs: make(map[string]*tensormap.TensorMap)}
			model.UConnect[in.Name] = sc
		}
		sc.Outs[out.Name] = out
	}
	return nil
}

func resolvePairs(args *config.Arguments, reg *registry.Registry, model *Model) error {
	for _, pair := range args.Pairs {
		a, err := reg.Lookup(pair.In, args.TensormapPrefix)
		if err != nil {
			return fmt.Errorf("pairs: %w", err)
		}
		b, err := reg.Lookup(pair.Out, args.TensormapPrefix)
		if err != nil {
			return fmt.Errorf("pairs: %w", err)
		}
		model.Pairs = append(model.Pairs, EmbeddingPair{A: a, B: b})
	}
	return nil
}

// resolveInputs builds the input list: text-window and latent generators
// consume leading input_tensors names, the rest resolve via the catalog.
func resolveInputs(args *config.Arguments, reg *registry.Registry, model *Model) error {
	names := append([]string(nil), args.InputTensors...)
	outNames := append([]string(nil), args.OutputTensors...)

	if args.TextFile != "" || args.HD5AsText != "" {
		flagName := "text_file"
		if args.HD5AsText != "" {
			flagName = "hd5_as_text"
		}
		if len(names) == 0 || len(outNames) == 0 {
			return fmt.Errorf("%s requires one input_tensors and one output_tensors name to replace", flagName)
		}
		names = names[1:]
		var in, out *tensormap.TensorMap
		var err error
		if args.HD5AsText != "" {
			in, out, err = tmapgen.PixelTextFromPrefix(args.HD5AsText, args.TextWindow)
		} else {
			in, out, err = tmapgen.RandomTextFromFile(args.TextFile, args.TextWindow)
		}
		if err != nil {
			return err
		}
		model.Inputs = append(model.Inputs, in)
		model.textOutput = out
	}

	if args.LatentInputFile != "" {
		if len(names) == 0 {
			return fmt.Errorf("latent_input_file requires an input_tensors name to attach to")
		}
		tm, err := tmapgen.LatentFromFile(args.LatentInputFile, names[0])
		if err != nil {
			return err
		}
		names = names[1:]
		model.Inputs = append(model.Inputs, tm)
	}

	for _, name := range names {
		tm, err := reg.Lookup(name, args.TensormapPrefix)
		if err != nil {
			return fmt.Errorf("input_tensors: %w", err)
		}
		model.Inputs = append(model.Inputs, tm)
	}
	return nil
}

// resolveOutputs builds the output list: file-backed generators consume
// leading output_tensors names, the rest resolve via the catalog. The final
// list is deduplicated and, unless disabled, parent sorted.
func resolveOutputs(args *config.Arguments, reg *registry.Registry, model *Model) error {
	names := append([]string(nil), args.OutputTensors...)

	if args.TextFile != "" || args.HD5AsText != "" {
		// The matching text output was generated alongside the input; it
		// replaces the leading output name.
		if len(names) == 0 {
			return fmt.Errorf("text generators require an output_tensors name to replace")
		}
		names = names[1:]
		model.Outputs = append(model.Outputs, model.textOutput)
	}

	if args.ContinuousFile != "" {
		for _, column := range args.ContinuousFileColumns {
			if len(names) == 0 {
				return fmt.Errorf("continuous_file_columns needs an output_tensors name per column")
			}
			tm, err := tmapgen.ContinuousFromFile(
				args.ContinuousFile,
				column,
				names[0],
				args.ContinuousFileNormalize,
				args.ContinuousFileDiscretizationBounds,
			)
			if err != nil {
				return err
			}
			names = names[1:]
			model.Outputs = append(model.Outputs, tm)
		}
	}

	if args.CategoricalFile != "" {
		for _, column := range args.CategoricalFileColumns {
			if len(names) == 0 {
				return fmt.Errorf("categorical_file_columns needs an output_tensors name per column")
			}
			tm, err := tmapgen.CategoricalFromFile(args.CategoricalFile, column, names[0])
			if err != nil {
				return err
			}
			names = names[1:]
			model.Outputs = append(model.Outputs, tm)
		}
	}

	for _, path := range args.LatentOutputFiles {
		if len(names) == 0 {
			return fmt.Errorf("latent_output_files needs an output_tensors name per file")
		}
		tm, err := tmapgen.LatentFromFile(path, names[0])
		if err != nil {
			return err
		}
		names = names[1:]
		model.Outputs = append(model.Outputs, tm)
	}

	for _, name := range names {
		tm, err := reg.Lookup(name, args.TensormapPrefix)
		if err != nil {
			return fmt.Errorf("output_tensors: %w", err)
		}
		model.Outputs = append(model.Outputs, tm)
	}

	model.Outputs = dedupe(model.Outputs)

	if args.ParentSort {
		sorted, err := parentSort(model.Outputs)
		if err != nil {
			return err
		}
		model.Outputs = sorted
	}
	return nil
}

func resolveProtected(args *config.Arguments, reg *registry.Registry, model *Model) error {
	for _, name := range args.ProtectedTensors {
		tm, err := reg.Lookup(name, args.TensormapPrefix)
		if err != nil {
			return fmt.Errorf("protected_tensors: %w", err)
		}
		model.Protected = append(model.Protected, tm)
	}
	return nil
}

// checkNoBottleneck requires every skip-connection target to be a resolved
// output: a u_connect into a map the model never produces would silently
// starve the decoder of its connection.
func checkNoBottleneck(model *Model) error {
	outputs := make(map[string]bool, len(model.Outputs))
	for _, tm := range model.Outputs {
		outputs[tm.Name] = true
	}
	for _, sc := range model.UConnect {
		for name := range sc.Outs {
			if !outputs[name] {
				return fmt.Errorf("u_connect target '%s' is not among the resolved output tensor maps", name)
			}
		}
	}
	return nil
}

// checkLabelWeights enforces the 1:1 mapping between label_weights and the
// channels of the categorical outputs.
func checkLabelWeights(args *config.Arguments, model *Model) error {
	if len(args.LabelWeights) == 0 {
		return nil
	}
	var labels int
	for _, tm := range model.Outputs {
		if tm.Interpretation == tensormap.Categorical {
			labels += tm.Channels()
		}
	}
	if labels != len(args.LabelWeights) {
		return fmt.Errorf("label_weights has %d entries but categorical outputs have %d labels", len(args.LabelWeights), labels)
	}
	return nil
}

func dedupe(maps []*tensormap.TensorMap) []*tensormap.TensorMap {
	seen := make(map[string]bool, len(maps))
	out := maps[:0]
	for _, tm := range maps {
		if seen[tm.Name] {
			continue
		}
		seen[tm.Name] = true
		out = append(out, tm)
	}
	return out
}
