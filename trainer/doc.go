// Package trainer compiles and fits a model for one experiment. It stops
// early once the validation loss stops improving and turns a cancelled
// context into a recovered interruption that keeps the completed epochs.
package trainer
