package engine

import "math"

// trainLBFGS minimizes the L1/L2-regularized negative log-likelihood with
// full-batch gradient descent and a backtracking line search. It is a
// simplified stand-in for the native library's limited-memory quasi-Newton
// optimizer: same objective and stopping behavior, plain descent direction.
func (e *Engine) trainLBFGS(m *model, data []encodedInstance) {
	maxIter := e.intParam("max_iterations")
	maxLinesearch := e.intParam("max_linesearch")
	epsilon := e.floatParam("epsilon")
	c1 := e.floatParam("c1")
	c2 := e.floatParam("c2")

	grad := make([]float64, len(m.weights))
	prev := append([]float64(nil), m.weights...)

	objective := func() float64 {
		loss := 0.0
		for _, inst := range data {
			state := m.stateScores(inst.items)
			trans := m.transScores()
			_, _, logZ := forwardBackward(state, trans)
			loss += logZ - seqScore(state, trans, inst.labels)
		}
		for _, w := range m.weights {
			loss += 0.5*c2*w*w + c1*math.Abs(w)
		}
		return loss
	}

	loss := objective()
	step := 1.0
	for iter := 1; iter <= maxIter; iter++ {
		for i := range grad {
			grad[i] = c2 * m.weights[i]
		}
		for _, inst := range data {
			m.gradient(inst, grad)
		}

		copy(prev, m.weights)
		next := loss
		for trial := 0; trial < maxLinesearch; trial++ {
			for i := range m.weights {
				w := prev[i] - step*grad[i]
				// Proximal step for the L1 term.
				if c1 > 0 {
					shrink := step * c1
					switch {
					case w > shrink:
						w -= shrink
					case w < -shrink:
						w += shrink
					default:
						w = 0
					}
				}
				m.weights[i] = w
			}
			next = objective()
			if next <= loss {
				break
			}
			step /= 2
		}
		if next > loss {
			// Line search failed; restore and stop.
			copy(m.weights, prev)
			e.msg("***** Iteration #%d *****\nLine search failed, terminating\n", iter)
			break
		}

		improvement := (loss - next) / math.Max(math.Abs(next), 1)
		loss = next
		step *= 1.2
		e.msg("***** Iteration #%d *****\nLoss: %f\nFeature norm: %f\nImprovement ratio: %f\n\n",
			iter, loss, norm(m.weights), improvement)
		if improvement < epsilon {
			e.msg("Converged after %d iterations\n", iter)
			break
		}
	}
}

// trainL2SGD minimizes the L2-regularized negative log-likelihood with
// per-instance stochastic gradient descent and a decaying learning rate.
// Instances are visited in append order; there is no shuffling, keeping runs
// reproducible.
func (e *Engine) trainL2SGD(m *model, data []encodedInstance) {
	maxIter := e.intParam("max_iterations")
	period := e.intParam("period")
	delta := e.floatParam("delta")
	c2 := e.floatParam("c2")
	eta0 := e.floatParam("calibration.eta")

	lambda := c2 / float64(len(data))
	grad := make([]float64, len(m.weights))
	var history []float64

	t := 0.0
	for iter := 1; iter <= maxIter; iter++ {
		loss := 0.0
		for _, inst := range data {
			for i := range grad {
				grad[i] = 0
			}
			loss += m.gradient(inst, grad)

			eta := eta0 / (1 + t/float64(len(data)))
			for i := range m.weights {
				m.weights[i] -= eta * (grad[i] + lambda*m.weights[i])
			}
			t++
		}
		for _, w := range m.weights {
			loss += 0.5 * lambda * float64(len(data)) * w * w
		}
		e.msg("***** Epoch #%d *****\nLoss: %f\nFeature norm: %f\n\n", iter, loss, norm(m.weights))

		history = append(history, loss)
		if len(history) > period {
			if history[len(history)-1-period]-loss <= delta {
				e.msg("Converged after %d epochs\n", iter)
				break
			}
		}
	}
}

// trainPerceptron runs the averaged structured perceptron: Viterbi-decode
// each instance and move weights toward the gold path on a mistake. The
// returned weights are the average over all steps, which damps oscillation.
func (e *Engine) trainPerceptron(m *model, data []encodedInstance) {
	maxIter := e.intParam("max_iterations")
	epsilon := e.floatParam("epsilon")

	sum := make([]float64, len(m.weights))
	steps := 0

	for iter := 1; iter <= maxIter; iter++ {
		errors, total := 0, 0
		for _, inst := range data {
			pred := viterbi(m.stateScores(inst.items), m.transScores())
			wrong := hamming(inst.labels, pred)
			if wrong > 0 {
				m.update(inst.items, inst.labels, 1)
				m.update(inst.items, pred, -1)
			}
			errors += wrong
			total += len(inst.labels)
			for i, w := range m.weights {
				sum[i] += w
			}
			steps++
		}

		rate := errorRate(errors, total)
		e.msg("***** Iteration #%d *****\nError rate: %f (%d/%d)\n\n", iter, rate, errors, total)
		if rate <= epsilon {
			e.msg("Converged after %d iterations\n", iter)
			break
		}
	}

	if steps > 0 {
		for i := range m.weights {
			m.weights[i] = sum[i] / float64(steps)
		}
	}
}

// trainPA runs the structured passive-aggressive algorithm (types 0-2).
func (e *Engine) trainPA(m *model, data []encodedInstance) {
	maxIter := e.intParam("max_iterations")
	epsilon := e.floatParam("epsilon")
	paType := e.intParam("type")
	c := e.floatParam("c")
	errorSensitive := e.intParam("error_sensitive") != 0
	averaging := e.intParam("averaging") != 0

	sum := make([]float64, len(m.weights))
	steps := 0

	for iter := 1; iter <= maxIter; iter++ {
		errors, total := 0, 0
		for _, inst := range data {
			state := m.stateScores(inst.items)
			trans := m.transScores()
			pred := viterbi(state, trans)
			wrong := hamming(inst.labels, pred)
			if wrong > 0 {
				cost := 1.0
				if errorSensitive {
					cost = float64(wrong)
				}
				loss := seqScore(state, trans, pred) - seqScore(state, trans, inst.labels) + math.Sqrt(cost)
				diff := m.featureDiff(inst.items, inst.labels, pred)
				norm2 := 0.0
				for _, d := range diff {
					norm2 += d * d
				}
				if norm2 > 0 && loss > 0 {
					var tau float64
					switch paType {
					case 0:
						tau = loss / norm2
					case 2:
						tau = loss / (norm2 + 1/(2*c))
					default:
						tau = math.Min(c, loss/norm2)
					}
					for i, d := range diff {
						m.weights[i] += tau * d
					}
				}
			}
			errors += wrong
			total += len(inst.labels)
			if averaging {
				for i, w := range m.weights {
					sum[i] += w
				}
			}
			steps++
		}

		rate := errorRate(errors, total)
		e.msg("***** Iteration #%d *****\nError rate: %f (%d/%d)\n\n", iter, rate, errors, total)
		if rate <= epsilon {
			e.msg("Converged after %d iterations\n", iter)
			break
		}
	}

	if averaging && steps > 0 {
		for i := range m.weights {
			m.weights[i] = sum[i] / float64(steps)
		}
	}
}

// trainAROW runs adaptive regularization of weight vectors: each weight
// carries a confidence (variance) that shrinks as it is updated, so
// frequently touched features move less and less.
func (e *Engine) trainAROW(m *model, data []encodedInstance) {
	maxIter := e.intParam("max_iterations")
	epsilon := e.floatParam("epsilon")
	gamma := e.floatParam("gamma")

	sigma := make([]float64, len(m.weights))
	initial := e.floatParam("variance")
	for i := range sigma {
		sigma[i] = initial
	}

	for iter := 1; iter <= maxIter; iter++ {
		errors, total := 0, 0
		for _, inst := range data {
			state := m.stateScores(inst.items)
			trans := m.transScores()
			pred := viterbi(state, trans)
			wrong := hamming(inst.labels, pred)
			if wrong > 0 {
				loss := seqScore(state, trans, pred) - seqScore(state, trans, inst.labels) + float64(wrong)
				diff := m.featureDiff(inst.items, inst.labels, pred)
				confidence := 0.0
				for i, d := range diff {
					confidence += d * d * sigma[i]
				}
				beta := 1 / (confidence + gamma)
				alpha := loss * beta
				for i, d := range diff {
					m.weights[i] += alpha * sigma[i] * d
					sigma[i] -= beta * sigma[i] * sigma[i] * d * d
				}
			}
			errors += wrong
			total += len(inst.labels)
		}

		rate := errorRate(errors, total)
		e.msg("***** Iteration #%d *****\nError rate: %f (%d/%d)\n\n", iter, rate, errors, total)
		if rate <= epsilon {
			e.msg("Converged after %d iterations\n", iter)
			break
		}
	}
}

func hamming(gold, pred []int) int {
	wrong := 0
	for i, g := range gold {
		if i >= len(pred) || pred[i] != g {
			wrong++
		}
	}
	return wrong
}

func errorRate(errors, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(errors) / float64(total)
}

func norm(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x * x
	}
	return math.Sqrt(sum)
}
