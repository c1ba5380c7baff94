package engine

import "github.com/billhsia/crfbind/params"

// paramSpec declares one engine option: its name, value type, default
// encoding and help text. The engine-side spec is authoritative; the
// adapter's params.Registry only mirrors the types for host convenience.
type paramSpec struct {
	name string
	kind params.Kind
	def  string
	help string
}

// algorithm describes one selectable training algorithm and the ordered
// option set valid while it is selected.
type algorithm struct {
	name  string
	specs []paramSpec
}

func (a *algorithm) spec(name string) *paramSpec {
	for i := range a.specs {
		if a.specs[i].name == name {
			return &a.specs[i]
		}
	}
	return nil
}

// featureSpecs are the dataset-shaping options shared by every algorithm.
var featureSpecs = []paramSpec{
	{"feature.minfreq", params.Float, "0", "The minimum frequency of features."},
	{"feature.possible_states", params.Int, "0", "Force to generate possible state features."},
	{"feature.possible_transitions", params.Int, "0", "Force to generate possible transition features."},
}

func withFeatureSpecs(specs ...paramSpec) []paramSpec {
	out := make([]paramSpec, 0, len(featureSpecs)+len(specs))
	out = append(out, featureSpecs...)
	return append(out, specs...)
}

var algorithms = map[string]*algorithm{
	"lbfgs": {
		name: "lbfgs",
		specs: withFeatureSpecs(
			paramSpec{"c1", params.Float, "0", "Coefficient for L1 regularization."},
			paramSpec{"c2", params.Float, "1", "Coefficient for L2 regularization."},
			paramSpec{"max_iterations", params.Int, "100", "The maximum number of iterations."},
			paramSpec{"num_memories", params.Int, "6", "The number of limited memories for approximating the inverse hessian matrix."},
			paramSpec{"epsilon", params.Float, "1e-5", "Epsilon for testing the convergence of the objective."},
			paramSpec{"period", params.Int, "10", "The duration of iterations to test the stopping criterion."},
			paramSpec{"delta", params.Float, "1e-5", "The threshold for the stopping criterion; an iteration stops when the improvement of the log likelihood over the last period iterations is no greater than this threshold."},
			paramSpec{"linesearch", params.String, "MoreThuente", "The line search algorithm used in updates."},
			paramSpec{"max_linesearch", params.Int, "20", "The maximum number of trials for the line search algorithm."},
		),
	},
	"l2sgd": {
		name: "l2sgd",
		specs: withFeatureSpecs(
			paramSpec{"c2", params.Float, "1", "Coefficient for L2 regularization."},
			paramSpec{"max_iterations", params.Int, "100", "The maximum number of iterations (epochs) for SGD optimization."},
			paramSpec{"period", params.Int, "10", "The duration of iterations to test the stopping criterion."},
			paramSpec{"delta", params.Float, "1e-6", "The threshold for the stopping criterion; an epoch stops when the improvement of the objective over the last period epochs is no greater than this threshold."},
			paramSpec{"calibration.eta", params.Float, "0.1", "The initial value of learning rate (eta) used for calibration."},
			paramSpec{"calibration.rate", params.Float, "2", "The rate of increase/decrease of learning rate for calibration."},
			paramSpec{"calibration.samples", params.Int, "1000", "The number of instances used for calibration."},
			paramSpec{"calibration.candidates", params.Int, "10", "The number of candidates of learning rate."},
			paramSpec{"calibration.max_trials", params.Int, "20", "The maximum number of trials of learning rates for calibration."},
		),
	},
	"ap": {
		name: "ap",
		specs: withFeatureSpecs(
			paramSpec{"max_iterations", params.Int, "100", "The maximum number of iterations."},
			paramSpec{"epsilon", params.Float, "0", "The stopping criterion (the ratio of incorrect label predictions)."},
		),
	},
	"pa": {
		name: "pa",
		specs: withFeatureSpecs(
			paramSpec{"type", params.Int, "1", "The strategy for updating feature weights: 0 (PA without slack variables), 1 (PA type I) or 2 (PA type II)."},
			paramSpec{"c", params.Float, "1", "The aggressiveness parameter."},
			paramSpec{"error_sensitive", params.Int, "1", "Include the number of incorrect labels in the objective of the update."},
			paramSpec{"averaging", params.Int, "1", "Compute the average of feature weights at all updates."},
			paramSpec{"max_iterations", params.Int, "100", "The maximum number of iterations."},
			paramSpec{"epsilon", params.Float, "0", "The stopping criterion (the ratio of incorrect label predictions)."},
		),
	},
	"arow": {
		name: "arow",
		specs: withFeatureSpecs(
			paramSpec{"variance", params.Float, "1", "The initial variance of every feature weight."},
			paramSpec{"gamma", params.Float, "1", "The tradeoff between loss function and changes of feature weights."},
			paramSpec{"max_iterations", params.Int, "100", "The maximum number of iterations."},
			paramSpec{"epsilon", params.Float, "0", "The stopping criterion (the ratio of incorrect label predictions)."},
		),
	},
}

// algorithmAliases maps accepted selection names to canonical algorithms.
var algorithmAliases = map[string]string{
	"lbfgs":               "lbfgs",
	"l2sgd":               "l2sgd",
	"ap":                  "ap",
	"averaged-perceptron": "ap",
	"pa":                  "pa",
	"passive-aggressive":  "pa",
	"arow":                "arow",
}

// modelTypes are the accepted graphical-model type names. Only the
// first-order linear chain is implemented.
var modelTypes = map[string]bool{
	"crf1d": true,
	"1d":    true,
}
