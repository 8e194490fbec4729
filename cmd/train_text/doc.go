// Package main trains one binary text classifier on a preprocessed dataset,
// evaluates it and records the outcome.
//
//	train_text --representation word --architecture rnn --epochs 10 \
//		--hyperparameters hp/small.yaml --output runs/word --test
//
// Interrupting the run with SIGINT or SIGTERM keeps the epochs trained so
// far; a second signal terminates the process.
package main
