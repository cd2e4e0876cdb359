// Package cli parses the command-line argument surface shared by every
// recipe mode. Parsing stops at a populated config.Arguments; resolving the
// tensor identifiers it names is the resolve package's job.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/cardioml/cardioml/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns populated Arguments, a
// boolean indicating the program should exit cleanly (help requested), or an
// ExitError. Precedence is flag > preset > default: presets are applied
// before flag parsing so explicit flags override them.
func Parse(args []string, output io.Writer) (*config.Arguments, bool, error) {
	a := config.NewArguments()

	if preset := scanPreset(args); preset != "" {
		a.Preset = preset
		if err := a.ApplyPreset(preset); err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
	}

	flagSet := flag.NewFlagSet("recipes", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
recipes - cardiovascular disease machine learning recipe configuration.

Usage:
  recipes [options]

Tensor map identifiers resolve against the catalog loaded from --tensormaps,
qualified with --tensormap_prefix. List flags accept comma-separated values
and may be repeated.

Options:
`)
		flagSet.PrintDefaults()
	}
	registerFlags(flagSet, a)

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected positional arguments: %s", strings.Join(flagSet.Args(), " "))}
	}

	// The logger is built from these two before full validation runs, so
	// they are checked here.
	switch a.LoggingFormat {
	case "text", "json":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid logging_format: must be 'text' or 'json'"}
	}
	switch a.LoggingLevel {
	case "DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid logging_level: must be DEBUG, INFO, WARNING, ERROR or CRITICAL"}
	}

	return a, false, nil
}

// scanPreset finds the --preset flag before the full parse, because the
// preset must be applied underneath every other flag.
func scanPreset(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		for _, form := range []string{"--preset", "-preset"} {
			if arg == form && i+1 < len(args) {
				return args[i+1]
			}
			if strings.HasPrefix(arg, form+"=") {
				return strings.TrimPrefix(arg, form+"=")
			}
		}
	}
	return ""
}

// registerFlags binds every flag to its Arguments field. Defaults come from
// the (possibly preset-overlaid) Arguments value itself.
func registerFlags(fs *flag.FlagSet, a *config.Arguments) {
	// Run configuration.
	fs.StringVar(&a.Mode, "mode", a.Mode, "What would you like to do?")
	fs.StringVar(&a.LoggingLevel, "logging_level", a.LoggingLevel, "Logging level: DEBUG, INFO, WARNING, ERROR or CRITICAL.")
	fs.StringVar(&a.LoggingFormat, "logging_format", a.LoggingFormat, "Log output format: 'text' or 'json'.")
	fs.StringVar(&a.ID, "id", a.ID, "Identifier for this run, user-defined string to keep experiments organized.")
	fs.IntVar(&a.RandomSeed, "random_seed", a.RandomSeed, "Random seed to use throughout the run.")
	fs.StringVar(&a.Preset, "preset", a.Preset, "Path to a recipe preset YAML applied underneath explicit flags.")

	// Tensor map arguments.
	fs.Var(newStringList(&a.InputTensors), "input_tensors", "Tensor map identifiers for model inputs.")
	fs.Var(newStringList(&a.OutputTensors), "output_tensors", "Tensor map identifiers for model outputs.")
	fs.Var(newStringList(&a.ProtectedTensors), "protected_tensors", "Tensor map identifiers for protected attributes.")
	fs.StringVar(&a.TensormapPrefix, "tensormap_prefix", a.TensormapPrefix, "Namespace prefix for tensor map identifiers.")
	fs.BoolVar(&a.ParentSort, "parent_sort", a.ParentSort, "Enable or disable parent sorting of output tensor maps.")
	fs.BoolVar(&a.NamedOutputs, "named_outputs", a.NamedOutputs, "Pass output tensor maps as a dictionary if true, else as a list.")

	// Input and output files and directories.
	fs.StringVar(&a.Tensormaps, "tensormaps", a.Tensormaps, "Path to a tensor map catalog .hcl file or a directory of them.")
	fs.StringVar(&a.BigQueryCredentialsFile, "bigquery_credentials_file", a.BigQueryCredentialsFile, "Path to service account credentials for looking up BigQuery tables.")
	fs.StringVar(&a.BigQueryDataset, "bigquery_dataset", a.BigQueryDataset, "BigQuery dataset containing the tables to query.")
	fs.StringVar(&a.GCSCloudBucket, "gcs_cloud_bucket", a.GCSCloudBucket, "Path to a google cloud bucket to use as the output folder for training and inference runs.")
	fs.StringVar(&a.XMLFolder, "xml_folder", a.XMLFolder, "Path to folder of XMLs of ECG data.")
	fs.StringVar(&a.ZipFolder, "zip_folder", a.ZipFolder, "Path to folder of zipped dicom images.")
	fs.StringVar(&a.Dicoms, "dicoms", a.Dicoms, "Path to folder of dicoms.")
	fs.StringVar(&a.SampleCSV, "sample_csv", a.SampleCSV, "Path to CSV with sample IDs to restrict tensor paths.")
	fs.StringVar(&a.TSVStyle, "tsv_style", a.TSVStyle, "Format choice ('standard' or 'genetics') for TSV files produced by infer and explore modes.")
	fs.StringVar(&a.AppCSV, "app_csv", a.AppCSV, "Path to file used by the recipe.")
	fs.StringVar(&a.Tensors, "tensors", a.Tensors, "Path to folder containing tensors, or where tensors will be written.")
	fs.StringVar(&a.OutputFolder, "output_folder", a.OutputFolder, "Path to output folder for recipes runs.")
	fs.StringVar(&a.ModelFile, "model_file", a.ModelFile, "Path to a saved model architecture and weights.")
	fs.Var(newStringList(&a.ModelFiles), "model_files", "List of paths to saved model architectures and weights.")
	fs.StringVar(&a.ModelLayers, "model_layers", a.ModelLayers, "Path to a model file to load by layer, useful for transfer learning.")
	fs.BoolVar(&a.FreezeModelLayers, "freeze_model_layers", a.FreezeModelLayers, "Whether to freeze the layers from model_layers.")
	fs.StringVar(&a.TextFile, "text_file", a.TextFile, "Path to a file with text.")
	fs.StringVar(&a.HD5AsText, "hd5_as_text", a.HD5AsText, "Path prefix for a tensor map to learn language models from flattened tensor arrays. Replaces the leading input_tensors and output_tensors names.")
	fs.StringVar(&a.ContinuousFile, "continuous_file", a.ContinuousFile, "Path to a file of continuous values an output tensor map is made from. Links the leading output_tensors name to the generated map.")
	fs.StringVar(&a.CategoricalFile, "categorical_file", a.CategoricalFile, "Path to a file of categorical values an output tensor map is made from. Links the leading output_tensors name to the generated map.")
	fs.StringVar(&a.LatentInputFile, "latent_input_file", a.LatentInputFile, "Path to a file of latent space values an input tensor map is made from. Links the leading input_tensors name to the generated map.")
	fs.Var(newStringList(&a.LatentOutputFiles), "latent_output_files", "Paths to files of latent space values output tensor maps are made from.")

	// Data selection parameters.
	fs.Var(newStringList(&a.ContinuousFileColumns), "continuous_file_columns", "Column headers in continuous_file to make tensor maps from.")
	fs.BoolVar(&a.ContinuousFileNormalize, "continuous_file_normalize", a.ContinuousFileNormalize, "Whether to normalize a continuous tensor map made from a file.")
	fs.Var(newFloatList(&a.ContinuousFileDiscretizationBounds), "continuous_file_discretization_bounds", "Bin boundaries to discretize a continuous tensor map read from a file.")
	fs.Var(newStringList(&a.CategoricalFileColumns), "categorical_file_columns", "Column headers in categorical_file to make tensor maps from.")
	fs.Var(newIntList(&a.CategoricalFieldIDs), "categorical_field_ids", "List of field ids input features are collected from.")
	fs.Var(newIntList(&a.ContinuousFieldIDs), "continuous_field_ids", "List of field ids continuous real-valued input features are collected from.")
	fs.BoolVar(&a.IncludeArray, "include_array", a.IncludeArray, "Include array idx for phenotypes.")
	fs.BoolVar(&a.IncludeInstance, "include_instance", a.IncludeInstance, "Include instances for phenotypes.")
	fs.IntVar(&a.MinValues, "min_values", a.MinValues, "Per feature size minimum.")
	fs.IntVar(&a.MinSamples, "min_samples", a.MinSamples, "Min number of samples to require for calculating correlations.")
	fs.IntVar(&a.MaxSamples, "max_samples", a.MaxSamples, "Max number of samples to use for tensor reporting; all samples are used if not specified.")
	fs.Var(newStringList(&a.MRIFieldIDs), "mri_field_ids", "Field ids for MR images.")
	fs.Var(newStringList(&a.XMLFieldIDs), "xml_field_ids", "Field ids for XMLs of resting and exercise ECG data.")
	fs.IntVar(&a.MaxPatients, "max_patients", a.MaxPatients, "Maximum number of patient data to read.")
	fs.IntVar(&a.MinSampleID, "min_sample_id", a.MinSampleID, "Minimum sample id to write to tensor.")
	fs.IntVar(&a.MaxSampleID, "max_sample_id", a.MaxSampleID, "Maximum sample id to write to tensor.")
	fs.IntVar(&a.MaxSlices, "max_slices", a.MaxSlices, "Maximum number of dicom slices to read.")
	fs.StringVar(&a.DicomSeries, "dicom_series", a.DicomSeries, "Name of the dicom series to load.")
	fs.StringVar(&a.BSliceForce, "b_slice_force", a.BSliceForce, "If set, only load a specific b slice for short axis MRI diastole systole tensor maps (i.e. b0, b1, ... b10).")
	fs.BoolVar(&a.IncludeMissingContinuousChannel, "include_missing_continuous_channel", a.IncludeMissingContinuousChannel, "Include missing channels in continuous tensors.")
	fs.StringVar(&a.ImputationMethodForContinuousFields, "imputation_method_for_continuous_fields", a.ImputationMethodForContinuousFields, "Imputation method for continuous fields: 'random' or 'mean'.")

	// Model architecture parameters.
	fs.IntVar(&a.X, "x", a.X, "x tensor resolution.")
	fs.IntVar(&a.Y, "y", a.Y, "y tensor resolution.")
	fs.IntVar(&a.Z, "z", a.Z, "z tensor resolution.")
	fs.IntVar(&a.T, "t", a.T, "Number of time slices.")
	fs.IntVar(&a.ZoomX, "zoom_x", a.ZoomX, "zoom_x tensor resolution.")
	fs.IntVar(&a.ZoomY, "zoom_y", a.ZoomY, "zoom_y tensor resolution.")
	fs.IntVar(&a.ZoomWidth, "zoom_width", a.ZoomWidth, "zoom_width tensor resolution.")
	fs.IntVar(&a.ZoomHeight, "zoom_height", a.ZoomHeight, "zoom_height tensor resolution.")
	fs.BoolVar(&a.MLPConcat, "mlp_concat", a.MLPConcat, "Concatenate input with every multilayer perceptron layer.")
	fs.Var(newIntList(&a.DenseLayers), "dense_layers", "List of number of hidden units in neural nets dense layers.")
	fs.Float64Var(&a.DenseRegularizeRate, "dense_regularize_rate", a.DenseRegularizeRate, "Rate parameter for dense_regularize.")
	fs.StringVar(&a.DenseRegularize, "dense_regularize", a.DenseRegularize, "Type of regularization layer for dense layers.")
	fs.StringVar(&a.DenseNormalize, "dense_normalize", a.DenseNormalize, "Type of normalization layer for dense layers.")
	fs.StringVar(&a.Activation, "activation", a.Activation, "Activation function for hidden units in neural nets dense layers.")
	fs.Var(newIntList(&a.ConvLayers), "conv_layers", "List of number of kernels in convolutional layers.")
	fs.Var(newIntList(&a.ConvWidth), "conv_width", "X dimension of convolutional kernel for 1D models. Filter sizes repeat if fewer than the number of layers/blocks.")
	fs.Var(newIntList(&a.ConvX), "conv_x", "X dimension of convolutional kernel. Filter sizes repeat if fewer than the number of layers/blocks.")
	fs.Var(newIntList(&a.ConvY), "conv_y", "Y dimension of convolutional kernel. Filter sizes repeat if fewer than the number of layers/blocks.")
	fs.Var(newIntList(&a.ConvZ), "conv_z", "Z dimension of convolutional kernel. Filter sizes repeat if fewer than the number of layers/blocks.")
	fs.BoolVar(&a.ConvDilate, "conv_dilate", a.ConvDilate, "Dilate the convolutional layers.")
	fs.StringVar(&a.ConvType, "conv_type", a.ConvType, "Type of convolutional layer: 'conv', 'separable' or 'depth'.")
	fs.StringVar(&a.ConvNormalize, "conv_normalize", a.ConvNormalize, "Type of normalization layer for convolutions.")
	fs.StringVar(&a.ConvRegularize, "conv_regularize", a.ConvRegularize, "Type of regularization layer for convolutions.")
	fs.Float64Var(&a.ConvRegularizeRate, "conv_regularize_rate", a.ConvRegularizeRate, "Rate parameter for conv_regularize.")
	fs.IntVar(&a.ConvStrides, "conv_strides", a.ConvStrides, "Strides to take during convolution.")
	fs.BoolVar(&a.ConvWithoutBias, "conv_without_bias", a.ConvWithoutBias, "If true, do not add bias to convolutional layers.")
	fs.StringVar(&a.ConvBiasInitializer, "conv_bias_initializer", a.ConvBiasInitializer, "Initializer for the bias vector.")
	fs.StringVar(&a.ConvKernelInitializer, "conv_kernel_initializer", a.ConvKernelInitializer, "Initializer for the convolutional weight kernel.")
	fs.Var(newIntList(&a.MaxPools), "max_pools", "List of maxpooling layers.")
	fs.StringVar(&a.PoolType, "pool_type", a.PoolType, "Type of pooling layers: 'max' or 'average'.")
	fs.IntVar(&a.PoolX, "pool_x", a.PoolX, "Pooling size in the x-axis; 1 disables pooling.")
	fs.IntVar(&a.PoolY, "pool_y", a.PoolY, "Pooling size in the y-axis; 1 disables pooling.")
	fs.IntVar(&a.PoolZ, "pool_z", a.PoolZ, "Pooling size in the z-axis; 1 disables pooling.")
	fs.StringVar(&a.Padding, "padding", a.Padding, "'valid' or 'same' border padding on the convolutional layers.")
	fs.Var(newIntList(&a.DenseBlocks), "dense_blocks", "List of number of kernels in convolutional blocks.")
	fs.IntVar(&a.MergeDimension, "merge_dimension", a.MergeDimension, "Dimension of the merge layer.")
	fs.Var(newIntList(&a.MergeDenseBlocks), "merge_dense_blocks", "List of number of kernels in the convolutional merge layer.")
	fs.Var(newIntList(&a.DecoderDenseBlocks), "decoder_dense_blocks", "List of number of kernels in convolutional decoder layers.")
	fs.Var(newStringList(&a.EncoderBlocks), "encoder_blocks", "List of encoding blocks.")
	fs.Var(newStringList(&a.MergeBlocks), "merge_blocks", "List of merge blocks.")
	fs.Var(newStringList(&a.DecoderBlocks), "decoder_blocks", "List of decoding blocks.")
	fs.IntVar(&a.BlockSize, "block_size", a.BlockSize, "Number of convolutional layers within a block.")
	fs.Var(newPairList(&a.UConnect), "u_connect", "U-Net connect first tensor map to second tensor map as 'encoder,decoder'. Both must share all dimensions except channels. May be repeated.")
	fs.Var(newPairList(&a.Pairs), "pairs", "Tensor map pairs for paired autoencoder as 'first,second'. The pair loss encourages similar embeddings. May be repeated.")
	fs.StringVar(&a.PairLoss, "pair_loss", a.PairLoss, "Distance metric between paired embeddings: 'euclid', 'cosine' or 'contrastive'.")
	fs.StringVar(&a.PairMerge, "pair_merge", a.PairMerge, "Merging method for paired modality embeddings: 'average', 'concat', 'dropout' or 'kronecker'.")
	fs.Float64Var(&a.PairLossWeight, "pair_loss_weight", a.PairLossWeight, "Weight on the pair loss term relative to other losses.")
	fs.IntVar(&a.MaxParameters, "max_parameters", a.MaxParameters, "Maximum number of trainable parameters during hyperparameter optimization.")
	fs.StringVar(&a.HiddenLayer, "hidden_layer", a.HiddenLayer, "Name of a hidden layer for inspections.")
	fs.StringVar(&a.LanguageLayer, "language_layer", a.LanguageLayer, "Name of tensor map for learning language models.")
	fs.StringVar(&a.LanguagePrefix, "language_prefix", a.LanguagePrefix, "Path prefix for a tensor map to learn language models.")
	fs.IntVar(&a.TextWindow, "text_window", a.TextWindow, "Size of text window in number of tokens.")
	fs.IntVar(&a.AttentionHeads, "attention_heads", a.AttentionHeads, "Number of attention heads in multi-headed attention layers.")
	fs.IntVar(&a.AttentionWindow, "attention_window", a.AttentionWindow, "For diffusion models, cross-attention applies when the U-Net representation size is smaller than attention_window.")
	fs.IntVar(&a.AttentionModulo, "attention_modulo", a.AttentionModulo, "For diffusion models, how frequently cross-attention is applied; 2 means every other residual block.")
	fs.StringVar(&a.DiffusionConditionStrategy, "diffusion_condition_strategy", a.DiffusionConditionStrategy, "For diffusion models, how conditional embeddings integrate into the U-Net: 'cross_attention', 'concat' or 'film'.")
	fs.StringVar(&a.DiffusionLoss, "diffusion_loss", a.DiffusionLoss, "Loss function for diffusion models: 'sigmoid', 'mean_absolute_error' or 'mean_squared_error'.")
	fs.Float64Var(&a.SigmoidBeta, "sigmoid_beta", a.SigmoidBeta, "Beta to use with sigmoid loss for diffusion models.")
	fs.Float64Var(&a.SupervisionScalar, "supervision_scalar", a.SupervisionScalar, "Weights the supervision loss from phenotype prediction on denoised data.")
	fs.IntVar(&a.TransformerSize, "transformer_size", a.TransformerSize, "Number of output neurons in transformer encoders and decoders.")
	fs.BoolVar(&a.PretrainTrainable, "pretrain_trainable", a.PretrainTrainable, "If set, do not freeze pretrained layers.")

	// Training and hyper-parameter optimization parameters.
	fs.IntVar(&a.Epochs, "epochs", a.Epochs, "Number of training epochs.")
	fs.IntVar(&a.BatchSize, "batch_size", a.BatchSize, "Mini batch size for stochastic gradient descent algorithms.")
	fs.StringVar(&a.TrainCSV, "train_csv", a.TrainCSV, "Path to CSV with sample IDs to reserve for training.")
	fs.StringVar(&a.ValidCSV, "valid_csv", a.ValidCSV, "Path to CSV with sample IDs to reserve for validation. Takes precedence over valid_ratio.")
	fs.StringVar(&a.TestCSV, "test_csv", a.TestCSV, "Path to CSV with sample IDs to reserve for testing. Takes precedence over test_ratio.")
	fs.Float64Var(&a.ValidRatio, "valid_ratio", a.ValidRatio, "Rate of training tensors saved for validation, in [0.0, 1.0].")
	fs.Float64Var(&a.TestRatio, "test_ratio", a.TestRatio, "Rate of training tensors saved for testing, in [0.0, 1.0].")
	fs.IntVar(&a.TestSteps, "test_steps", a.TestSteps, "Number of batches to use for testing.")
	fs.IntVar(&a.TrainingSteps, "training_steps", a.TrainingSteps, "Number of training batches to examine in an epoch.")
	fs.IntVar(&a.ValidationSteps, "validation_steps", a.ValidationSteps, "Number of validation batches to examine in an epoch validation.")
	fs.Float64Var(&a.LearningRate, "learning_rate", a.LearningRate, "Learning rate during training.")
	fs.Float64Var(&a.MixupAlpha, "mixup_alpha", a.MixupAlpha, "If positive, apply mixup and sample from a Beta with this shape parameter alpha.")
	fs.Var(newFloatList(&a.LabelWeights), "label_weights", "Per-label weights for weighted categorical cross entropy. Must map 1:1 to the number of labels.")
	fs.IntVar(&a.Patience, "patience", a.Patience, "Early stopping: maximum epochs to run without validation loss improvement.")
	fs.IntVar(&a.MaxModels, "max_models", a.MaxModels, "Maximum number of models for the hyper-parameter optimizer to evaluate.")
	fs.Var(newStringList(&a.BalanceCSVs), "balance_csvs", "Balances batches with representation from sample IDs in this list of CSVs.")
	fs.StringVar(&a.Optimizer, "optimizer", a.Optimizer, "Optimizer for model training.")
	fs.StringVar(&a.LearningRateSchedule, "learning_rate_schedule", a.LearningRateSchedule, "Adjusts learning rate during training: 'triangular', 'triangular2' or 'cosine_decay'.")
	fs.Float64Var(&a.AnnealRate, "anneal_rate", a.AnnealRate, "Annealing rate in epochs of loss terms during training.")
	fs.Float64Var(&a.AnnealShift, "anneal_shift", a.AnnealShift, "Annealing offset in epochs of loss terms during training.")
	fs.Float64Var(&a.AnnealMax, "anneal_max", a.AnnealMax, "Annealing maximum value.")
	fs.BoolVar(&a.SaveLastModel, "save_last_model", a.SaveLastModel, "If true, save the weights from the last epoch instead of the best validation loss.")

	// 2D image data augmentation parameters.
	fs.Float64Var(&a.RotationFactor, "rotation_factor", a.RotationFactor, "Data augmentation rotation, as a fraction of 2 pi.")
	fs.Float64Var(&a.ZoomFactor, "zoom_factor", a.ZoomFactor, "Data augmentation zoom, as a fraction of value.")
	fs.Float64Var(&a.TranslationFactor, "translation_factor", a.TranslationFactor, "Data augmentation translation, as a fraction of value.")

	// Run-specific and debugging arguments.
	fs.BoolVar(&a.WritePNGs, "write_pngs", a.WritePNGs, "Write pngs of slices.")
	fs.IntVar(&a.DPI, "dpi", a.DPI, "Dots per inch of generated figures.")
	fs.IntVar(&a.PlotWidth, "plot_width", a.PlotWidth, "Width in inches of generated figures.")
	fs.IntVar(&a.PlotHeight, "plot_height", a.PlotHeight, "Height in inches of generated figures.")
	fs.BoolVar(&a.Debug, "debug", a.Debug, "Run in debug mode.")
	fs.BoolVar(&a.InspectModel, "inspect_model", a.InspectModel, "Plot model architecture, measure inference and training speeds.")
	fs.BoolVar(&a.InspectShowLabels, "inspect_show_labels", a.InspectShowLabels, "Plot model architecture with labels for each layer.")
	fs.Float64Var(&a.Alpha, "alpha", a.Alpha, "Alpha transparency for t-SNE plots, in [0.0, 1.0].")
	fs.StringVar(&a.PlotMode, "plot_mode", a.PlotMode, "ECG view to plot: 'clinical' or 'full'.")
	fs.StringVar(&a.EmbedVisualization, "embed_visualization", a.EmbedVisualization, "Method to visualize the embed layer: 'tsne' or 'umap'.")
	fs.IntVar(&a.AttractorIterations, "attractor_iterations", a.AttractorIterations, "Number of iterations for autoencoder generated fixed points.")
	fs.BoolVar(&a.ExploreExportErrors, "explore_export_errors", a.ExploreExportErrors, "Export error_type columns in CSVs generated by explore.")
	fs.BoolVar(&a.PlotHist, "plot_hist", a.PlotHist, "Plot histograms of continuous tensors in explore mode.")

	// Training optimization options.
	fs.IntVar(&a.NumWorkers, "num_workers", a.NumWorkers, "Number of workers to use for every tensor generator.")
	fs.Float64Var(&a.CacheSize, "cache_size", a.CacheSize, "Tensor map cache size per worker.")

	// Cross-reference arguments.
	fs.StringVar(&a.TensorsSource, "tensors_source", a.TensorsSource, "Either a CSV or a directory containing a source dataset.")
	fs.StringVar(&a.TensorsName, "tensors_name", a.TensorsName, "Name of the source dataset; adds contextual detail to summary CSV and plots.")
	fs.Var(newStringList(&a.JoinTensors), "join_tensors", "Tensor map or column name used in the join with the reference. May list more than one join value.")
	fs.StringVar(&a.TimeTensor, "time_tensor", a.TimeTensor, "Tensor map or column name to perform time cross-referencing on.")
	fs.StringVar(&a.ReferenceTensors, "reference_tensors", a.ReferenceTensors, "Either a CSV or a directory containing a reference dataset.")
	fs.StringVar(&a.ReferenceName, "reference_name", a.ReferenceName, "Name of the reference dataset; adds contextual detail to summary CSV and plots.")
	fs.Var(newStringList(&a.ReferenceJoinTensors), "reference_join_tensors", "Tensor map or column name in the reference used in the join.")
	fs.Var(newGroupList(&a.ReferenceStartTimeTensor), "reference_start_time_tensor", "Start of a time window in the reference, optionally with an integer day offset, e.g. 'tStart,-30'. Repeat to define multiple windows.")
	fs.Var(newGroupList(&a.ReferenceEndTimeTensor), "reference_end_time_tensor", "End of a time window in the reference, optionally with an integer day offset, e.g. 'tEnd,30'. Repeat to define multiple windows.")
	fs.Var(newStringList(&a.WindowName), "window_name", "Name of a time window; defaults to the window index. Repeat to define multiple windows.")
	fs.Var(newStringList(&a.OrderInWindow), "order_in_window", "Which source tensors of a time series to use in each window: 'newest', 'oldest' or 'random'. Repeat per window.")
	fs.IntVar(&a.NumberPerWindow, "number_per_window", a.NumberPerWindow, "Minimum number of rows with the join tensor to use in each time window.")
	fs.BoolVar(&a.MatchAnyWindow, "match_any_window", a.MatchAnyWindow, "If set, the join tensor needs to be found in at least one time window rather than all of them.")
	fs.Var(newStringList(&a.ReferenceLabels), "reference_labels", "Tensor map or column names of values to report distributions on, e.g. mortality.")
	fs.StringVar(&a.TimeFrequency, "time_frequency", a.TimeFrequency, "Frequency string for the resolution of counts over time; multiples are accepted, e.g. '3M'.")

	// Segmented-region inference statistics.
	fs.BoolVar(&a.AnalyzeGroundTruth, "analyze_ground_truth", a.AnalyzeGroundTruth, "Whether to filter by images with ground truth segmentations for comparison.")
	fs.Var(newStringList(&a.StructuresToAnalyze), "structures_to_analyze", "Structure names to include in TSV files and scatter plots, in output channel map order. Use + to merge before postprocessing and ++ to merge after.")
	fs.Var(newIntList(&a.ErosionRadius), "erosion_radius", "Radius of the unit disk structuring element for erosion preprocessing, optionally per structure.")
	fs.Float64Var(&a.IntensityThresh, "intensity_thresh", a.IntensityThresh, "Threshold value for preprocessing.")
	fs.Var(newStringList(&a.IntensityThreshInStructures), "intensity_thresh_in_structures", "Structure names whose pixels are replaced when intensity exceeds the threshold.")
	fs.StringVar(&a.IntensityThreshOutStructure, "intensity_thresh_out_structure", a.IntensityThreshOutStructure, "Replacement structure name.")
	fs.StringVar(&a.IntensityThreshAuto, "intensity_thresh_auto", a.IntensityThreshAuto, "Auto preprocessing using histograms or k-means into two clusters, on the image or a region.")
	fs.IntVar(&a.IntensityThreshAutoRegionRadius, "intensity_thresh_auto_region_radius", a.IntensityThreshAutoRegionRadius, "Radius of the unit disk structuring element for auto-thresholding in a region.")
	fs.Float64Var(&a.IntensityThreshAutoClipLow, "intensity_thresh_auto_clip_low", a.IntensityThreshAutoClipLow, "Lower clip value before auto thresholding.")
	fs.Float64Var(&a.IntensityThreshAutoClipHigh, "intensity_thresh_auto_clip_high", a.IntensityThreshAutoClipHigh, "Higher clip value before auto thresholding.")
}
