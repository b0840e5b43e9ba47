// Package smo trains binary soft-margin support vector machines with the
// Sequential Minimal Optimization algorithm.
//
// Training data is dense: a Problem wraps a gonum matrix of L samples by N
// features together with two-valued raw labels. Train returns a Model whose
// decision function is sum_i alpha_i y_i K(x_i, x) + b; Predict maps a
// non-negative decision value to the larger raw label. Models and data sets
// are read and written in plain text by SaveModel/LoadModel and
// ReadProblem/WriteProblem.
package smo
