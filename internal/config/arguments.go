// Package config defines the flat namespace of command-line arguments shared
// by every recipe mode. The fields are a bit of a hodge-podge and are used
// promiscuously by downstream model-building code; the resolver sometimes
// overwrites user-provided values to enforce assumptions or sanity.
package config

import (
	"runtime"
)

// Arguments holds every command-line argument after parsing and preset
// overlay, before resolution. Field names follow the flag surface; yaml tags
// are the preset file keys.
type Arguments struct {
	// Run configuration.
	Mode          string `yaml:"mode"`
	LoggingLevel  string `yaml:"logging_level" validate:"oneof=DEBUG INFO WARNING ERROR CRITICAL"`
	LoggingFormat string `yaml:"logging_format" validate:"oneof=text json"`
	ID            string `yaml:"id"`
	RandomSeed    int    `yaml:"random_seed"`

	// Tensor map arguments. InputTensors/OutputTensors/ProtectedTensors are
	// the user-facing identifiers; the resolved descriptors live on
	// resolve.Model, never here.
	InputTensors     []string `yaml:"input_tensors"`
	OutputTensors    []string `yaml:"output_tensors"`
	ProtectedTensors []string `yaml:"protected_tensors"`
	TensormapPrefix  string   `yaml:"tensormap_prefix"`
	ParentSort       bool     `yaml:"parent_sort"`
	NamedOutputs     bool     `yaml:"named_outputs"`

	// Input and output files and directories.
	Tensormaps              string   `yaml:"tensormaps"`
	Preset                  string   `yaml:"preset"`
	BigQueryCredentialsFile string   `yaml:"bigquery_credentials_file"`
	BigQueryDataset         string   `yaml:"bigquery_dataset"`
	GCSCloudBucket          string   `yaml:"gcs_cloud_bucket"`
	XMLFolder               string   `yaml:"xml_folder"`
	ZipFolder               string   `yaml:"zip_folder"`
	Dicoms                  string   `yaml:"dicoms"`
	SampleCSV               string   `yaml:"sample_csv"`
	TSVStyle                string   `yaml:"tsv_style" validate:"oneof=standard genetics"`
	AppCSV                  string   `yaml:"app_csv"`
	Tensors                 string   `yaml:"tensors"`
	OutputFolder            string   `yaml:"output_folder"`
	ModelFile               string   `yaml:"model_file"`
	ModelFiles              []string `yaml:"model_files"`
	ModelLayers             string   `yaml:"model_layers"`
	FreezeModelLayers       bool     `yaml:"freeze_model_layers"`
	TextFile                string   `yaml:"text_file"`
	HD5AsText               string   `yaml:"hd5_as_text"`
	ContinuousFile          string   `yaml:"continuous_file"`
	CategoricalFile         string   `yaml:"categorical_file"`
	LatentInputFile         string   `yaml:"latent_input_file"`
	LatentOutputFiles       []string `yaml:"latent_output_files"`

	// Data selection parameters.
	ContinuousFileColumns              []string  `yaml:"continuous_file_columns"`
	ContinuousFileNormalize            bool      `yaml:"continuous_file_normalize"`
	ContinuousFileDiscretizationBounds []float64 `yaml:"continuous_file_discretization_bounds"`
	CategoricalFileColumns             []string  `yaml:"categorical_file_columns"`
	CategoricalFieldIDs                []int     `yaml:"categorical_field_ids"`
	ContinuousFieldIDs                 []int     `yaml:"continuous_field_ids"`
	IncludeArray                       bool      `yaml:"include_array"`
	IncludeInstance                    bool      `yaml:"include_instance"`
	MinValues                          int       `yaml:"min_values"`
	MinSamples                         int       `yaml:"min_samples"`
	MaxSamples                         int       `yaml:"max_samples"`
	MRIFieldIDs                        []string  `yaml:"mri_field_ids"`
	XMLFieldIDs                        []string  `yaml:"xml_field_ids"`
	MaxPatients                        int       `yaml:"max_patients"`
	MinSampleID                        int       `yaml:"min_sample_id"`
	MaxSampleID                        int       `yaml:"max_sample_id"`
	MaxSlices                          int       `yaml:"max_slices"`
	DicomSeries                        string    `yaml:"dicom_series"`
	BSliceForce                        string    `yaml:"b_slice_force"`
	IncludeMissingContinuousChannel    bool      `yaml:"include_missing_continuous_channel"`
	ImputationMethodForContinuousFields string   `yaml:"imputation_method_for_continuous_fields" validate:"oneof=random mean"`

	// Model architecture parameters.
	X                          int       `yaml:"x"`
	Y                          int       `yaml:"y"`
	Z                          int       `yaml:"z"`
	T                          int       `yaml:"t"`
	ZoomX                      int       `yaml:"zoom_x"`
	ZoomY                      int       `yaml:"zoom_y"`
	ZoomWidth                  int       `yaml:"zoom_width"`
	ZoomHeight                 int       `yaml:"zoom_height"`
	MLPConcat                  bool      `yaml:"mlp_concat"`
	DenseLayers                []int     `yaml:"dense_layers"`
	DenseRegularizeRate        float64   `yaml:"dense_regularize_rate"`
	DenseRegularize            string    `yaml:"dense_regularize" validate:"omitempty,oneof=dropout l1 l2 l1l2"`
	DenseNormalize             string    `yaml:"dense_normalize" validate:"omitempty,oneof=batch_norm layer_norm"`
	Activation                 string    `yaml:"activation"`
	ConvLayers                 []int     `yaml:"conv_layers"`
	ConvWidth                  []int     `yaml:"conv_width"`
	ConvX                      []int     `yaml:"conv_x"`
	ConvY                      []int     `yaml:"conv_y"`
	ConvZ                      []int     `yaml:"conv_z"`
	ConvDilate                 bool      `yaml:"conv_dilate"`
	ConvType                   string    `yaml:"conv_type" validate:"oneof=conv separable depth"`
	ConvNormalize              string    `yaml:"conv_normalize" validate:"omitempty,oneof=batch_norm layer_norm"`
	ConvRegularize             string    `yaml:"conv_regularize" validate:"omitempty,oneof=dropout spatial_dropout"`
	ConvRegularizeRate         float64   `yaml:"conv_regularize_rate"`
	ConvStrides                int       `yaml:"conv_strides"`
	ConvWithoutBias            bool      `yaml:"conv_without_bias"`
	ConvBiasInitializer        string    `yaml:"conv_bias_initializer"`
	ConvKernelInitializer      string    `yaml:"conv_kernel_initializer"`
	MaxPools                   []int     `yaml:"max_pools"`
	PoolType                   string    `yaml:"pool_type" validate:"oneof=max average"`
	PoolX                      int       `yaml:"pool_x"`
	PoolY                      int       `yaml:"pool_y"`
	PoolZ                      int       `yaml:"pool_z"`
	Padding                    string    `yaml:"padding" validate:"oneof=same valid"`
	DenseBlocks                []int     `yaml:"dense_blocks"`
	MergeDimension             int       `yaml:"merge_dimension"`
	MergeDenseBlocks           []int     `yaml:"merge_dense_blocks"`
	DecoderDenseBlocks         []int     `yaml:"decoder_dense_blocks"`
	EncoderBlocks              []string  `yaml:"encoder_blocks"`
	MergeBlocks                []string  `yaml:"merge_blocks"`
	DecoderBlocks              []string  `yaml:"decoder_blocks"`
	BlockSize                  int       `yaml:"block_size"`
	UConnect                   []Pair    `yaml:"u_connect"`
	Pairs                      []Pair    `yaml:"pairs"`
	PairLoss                   string    `yaml:"pair_loss" validate:"oneof=euclid cosine contrastive"`
	PairMerge                  string    `yaml:"pair_merge" validate:"oneof=average concat dropout kronecker"`
	PairLossWeight             float64   `yaml:"pair_loss_weight"`
	MaxParameters              int       `yaml:"max_parameters"`
	HiddenLayer                string    `yaml:"hidden_layer"`
	LanguageLayer              string    `yaml:"language_layer"`
	LanguagePrefix             string    `yaml:"language_prefix"`
	TextWindow                 int       `yaml:"text_window"`
	AttentionHeads             int       `yaml:"attention_heads"`
	AttentionWindow            int       `yaml:"attention_window"`
	AttentionModulo            int       `yaml:"attention_modulo"`
	DiffusionConditionStrategy string    `yaml:"diffusion_condition_strategy" validate:"oneof=cross_attention concat film"`
	DiffusionLoss              string    `yaml:"diffusion_loss" validate:"oneof=sigmoid mean_absolute_error mean_squared_error"`
	SigmoidBeta                float64   `yaml:"sigmoid_beta"`
	SupervisionScalar          float64   `yaml:"supervision_scalar"`
	TransformerSize            int       `yaml:"transformer_size"`
	PretrainTrainable          bool      `yaml:"pretrain_trainable"`

	// Training and hyper-parameter optimization parameters.
	Epochs               int       `yaml:"epochs" validate:"gt=0"`
	BatchSize            int       `yaml:"batch_size" validate:"gt=0"`
	TrainCSV             string    `yaml:"train_csv"`
	ValidCSV             string    `yaml:"valid_csv"`
	TestCSV              string    `yaml:"test_csv"`
	ValidRatio           float64   `yaml:"valid_ratio" validate:"gte=0,lte=1"`
	TestRatio            float64   `yaml:"test_ratio" validate:"gte=0,lte=1"`
	TestSteps            int       `yaml:"test_steps"`
	TrainingSteps        int       `yaml:"training_steps"`
	ValidationSteps      int       `yaml:"validation_steps"`
	LearningRate         float64   `yaml:"learning_rate" validate:"gt=0"`
	MixupAlpha           float64   `yaml:"mixup_alpha"`
	LabelWeights         []float64 `yaml:"label_weights"`
	Patience             int       `yaml:"patience"`
	MaxModels            int       `yaml:"max_models"`
	BalanceCSVs          []string  `yaml:"balance_csvs"`
	Optimizer            string    `yaml:"optimizer"`
	LearningRateSchedule string    `yaml:"learning_rate_schedule" validate:"omitempty,oneof=triangular triangular2 cosine_decay"`
	AnnealRate           float64   `yaml:"anneal_rate"`
	AnnealShift          float64   `yaml:"anneal_shift"`
	AnnealMax            float64   `yaml:"anneal_max"`
	SaveLastModel        bool      `yaml:"save_last_model"`

	// 2D image data augmentation parameters.
	RotationFactor    float64 `yaml:"rotation_factor"`
	ZoomFactor        float64 `yaml:"zoom_factor"`
	TranslationFactor float64 `yaml:"translation_factor"`

	// Run-specific and debugging arguments.
	WritePNGs           bool    `yaml:"write_pngs"`
	DPI                 int     `yaml:"dpi"`
	PlotWidth           int     `yaml:"plot_width"`
	PlotHeight          int     `yaml:"plot_height"`
	Debug               bool    `yaml:"debug"`
	InspectModel        bool    `yaml:"inspect_model"`
	InspectShowLabels   bool    `yaml:"inspect_show_labels"`
	Alpha               float64 `yaml:"alpha" validate:"gte=0,lte=1"`
	PlotMode            string  `yaml:"plot_mode" validate:"oneof=clinical full"`
	EmbedVisualization  string  `yaml:"embed_visualization" validate:"omitempty,oneof=tsne umap"`
	AttractorIterations int     `yaml:"attractor_iterations"`
	ExploreExportErrors bool    `yaml:"explore_export_errors"`
	PlotHist            bool    `yaml:"plot_hist"`

	// Training optimization options.
	NumWorkers int     `yaml:"num_workers" validate:"gt=0"`
	CacheSize  float64 `yaml:"cache_size"`

	// Cross-reference arguments.
	TensorsSource           string     `yaml:"tensors_source"`
	TensorsName             string     `yaml:"tensors_name"`
	JoinTensors             []string   `yaml:"join_tensors"`
	TimeTensor              string     `yaml:"time_tensor"`
	ReferenceTensors        string     `yaml:"reference_tensors"`
	ReferenceName           string     `yaml:"reference_name"`
	ReferenceJoinTensors    []string   `yaml:"reference_join_tensors"`
	ReferenceStartTimeTensor [][]string `yaml:"reference_start_time_tensor"`
	ReferenceEndTimeTensor   [][]string `yaml:"reference_end_time_tensor"`
	WindowName              []string   `yaml:"window_name"`
	OrderInWindow           []string   `yaml:"order_in_window" validate:"dive,oneof=newest oldest random"`
	NumberPerWindow         int        `yaml:"number_per_window"`
	MatchAnyWindow          bool       `yaml:"match_any_window"`
	ReferenceLabels         []string   `yaml:"reference_labels"`
	TimeFrequency           string     `yaml:"time_frequency"`

	// Segmented-region inference statistics.
	AnalyzeGroundTruth              bool     `yaml:"analyze_ground_truth"`
	StructuresToAnalyze             []string `yaml:"structures_to_analyze"`
	ErosionRadius                   []int    `yaml:"erosion_radius"`
	IntensityThresh                 float64  `yaml:"intensity_thresh"`
	IntensityThreshInStructures     []string `yaml:"intensity_thresh_in_structures"`
	IntensityThreshOutStructure     string   `yaml:"intensity_thresh_out_structure"`
	IntensityThreshAuto             string   `yaml:"intensity_thresh_auto"`
	IntensityThreshAutoRegionRadius int      `yaml:"intensity_thresh_auto_region_radius"`
	IntensityThreshAutoClipLow      float64  `yaml:"intensity_thresh_auto_clip_low"`
	IntensityThreshAutoClipHigh     float64  `yaml:"intensity_thresh_auto_clip_high"`
}

// Pair names two tensor maps, written on the command line as "first,second".
type Pair struct {
	In  string `yaml:"in"`
	Out string `yaml:"out"`
}

// NewArguments returns an Arguments populated with every default value.
func NewArguments() *Arguments {
	return &Arguments{
		Mode:          "mlp",
		LoggingLevel:  "INFO",
		LoggingFormat: "text",
		ID:            "no_id",
		RandomSeed:    12878,

		TensormapPrefix: "cardioml.tensormap",
		ParentSort:      true,

		TSVStyle:     "standard",
		Dicoms:       "./dicoms/",
		OutputFolder: "./recipes_output/",

		MinValues:   10,
		MinSamples:  3,
		MRIFieldIDs: []string{"20208", "20209"},
		XMLFieldIDs: []string{"20205", "6025"},
		MaxPatients: 999999,
		MaxSampleID: 7000000,
		MaxSlices:   999999,
		DicomSeries: "cine_segmented_sax_b6",

		ImputationMethodForContinuousFields: "random",

		X: 256, Y: 256, Z: 48, T: 48,
		ZoomX: 50, ZoomY: 35, ZoomWidth: 96, ZoomHeight: 96,
		DenseLayers:           []int{256},
		Activation:            "swish",
		ConvLayers:            []int{32},
		ConvWidth:             []int{71},
		ConvX:                 []int{3},
		ConvY:                 []int{3},
		ConvZ:                 []int{2},
		ConvType:              "conv",
		ConvStrides:           1,
		ConvBiasInitializer:   "zeros",
		ConvKernelInitializer: "glorot_uniform",
		PoolType:              "max",
		PoolX:                 2,
		PoolY:                 2,
		PoolZ:                 1,
		Padding:               "same",
		DenseBlocks:           []int{32, 32, 32},
		MergeDimension:        3,
		MergeDenseBlocks:      []int{32},
		DecoderDenseBlocks:    []int{32, 32, 32},
		EncoderBlocks:         []string{"conv_encode"},
		MergeBlocks:           []string{"concat"},
		DecoderBlocks:         []string{"conv_decode", "dense_decode"},
		BlockSize:             3,

		PairLoss:       "contrastive",
		PairMerge:      "dropout",
		PairLossWeight: 1.0,
		MaxParameters:  50000000,
		HiddenLayer:    "embed",
		LanguageLayer:  "ecg_rest_text",
		LanguagePrefix: "ukb_ecg_rest",
		TextWindow:     32,

		AttentionHeads:             4,
		AttentionWindow:            4,
		AttentionModulo:            3,
		DiffusionConditionStrategy: "cross_attention",
		DiffusionLoss:              "sigmoid",
		SigmoidBeta:                -3,
		SupervisionScalar:          0.01,
		TransformerSize:            32,

		Epochs:          10,
		BatchSize:       8,
		ValidRatio:      0.1,
		TestRatio:       0.1,
		TestSteps:       32,
		TrainingSteps:   96,
		ValidationSteps: 32,
		LearningRate:    0.00005,
		Patience:        8,
		MaxModels:       16,
		Optimizer:       "adam",
		AnnealMax:       2.0,

		DPI:                 300,
		PlotWidth:           6,
		PlotHeight:          6,
		InspectShowLabels:   true,
		Alpha:               0.5,
		PlotMode:            "clinical",
		AttractorIterations: 3,
		PlotHist:            true,

		NumWorkers: runtime.NumCPU(),
		CacheSize:  3.5e9 / float64(runtime.NumCPU()),

		TensorsName:     "Tensors",
		JoinTensors:     []string{"partners_ecg_patientid_clean"},
		TimeTensor:      "partners_ecg_datetime",
		ReferenceName:   "Reference",
		NumberPerWindow: 1,
		TimeFrequency:   "3M",

		IntensityThreshAutoRegionRadius: 5,
		IntensityThreshAutoClipLow:      0.65,
		IntensityThreshAutoClipHigh:     2,
	}
}
