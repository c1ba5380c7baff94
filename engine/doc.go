// Package engine provides the in-process reference training backend. It
// implements the core.Engine contract with a pure Go linear-chain CRF
// (crf1d): dense state and transition weights over label/attribute
// alphabets, log-space forward-backward for the gradient-based algorithms
// and Viterbi decoding for the perceptron family and holdout evaluation.
//
// The backend favors clarity and determinism over the performance of an
// optimized native library: weights start at zero, instances are visited in
// append order and no randomness is involved, so a training run is exactly
// reproducible. It emits crfsuite-style free-text progress messages through
// the registered callback and persists models as an opaque JSON file.
//
// Five algorithms are selectable: lbfgs (batch gradient descent with L1/L2
// regularization and backtracking line search), l2sgd (stochastic gradient
// descent with a decaying learning rate), ap (averaged perceptron), pa
// (passive-aggressive, types 0-2) and arow (adaptive regularization of
// weight vectors).
package engine
