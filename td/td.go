// Package td holds the tabular state-value learner: the agent and its value
// table, epsilon-greedy action selection over after-states, and the backward
// credit assignment run at the end of every episode.
package td

// UpdateValue moves v toward gamma*reward by a step of size lr.
func UpdateValue(v, reward, lr, gamma float64) float64 {
	return v + lr*(gamma*reward-v)
}
