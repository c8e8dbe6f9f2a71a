// Package aggregation derives leaderboard totals, badge tiers and time-bucketed
// progress series from an immutable snapshot of tasks.
//
// Every function is pure: inputs are never mutated and no state is kept between
// calls.
package aggregation
