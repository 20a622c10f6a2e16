package media

import "fmt"

// StateTransition represents a valid state transition
type StateTransition struct {
	From TaskStatus
	To   TaskStatus
}

// validTransitions defines all valid state transitions for an upload task
var validTransitions = map[StateTransition]bool{
	// Fingerprint the source
	{StatusHashing, StatusProbing}:   true,
	{StatusHashing, StatusFailed}:    true,
	{StatusHashing, StatusCancelled}: true,

	// Existence probe: hit short-circuits, miss transfers, backend failure fails
	{StatusProbing, StatusDeduplicating}: true,
	{StatusProbing, StatusTransferring}:  true,
	{StatusProbing, StatusFailed}:        true,
	{StatusProbing, StatusCancelled}:     true,

	// Transfer flow
	{StatusTransferring, StatusRecording}: true,
	{StatusTransferring, StatusFailed}:    true,
	{StatusTransferring, StatusCancelled}: true,

	// Duplicates still resolve their existing record
	{StatusDeduplicating, StatusRecording}: true,
	{StatusDeduplicating, StatusFailed}:    true,
	{StatusDeduplicating, StatusCancelled}: true,

	// Recording resolves to the terminal outcome for the path taken
	{StatusRecording, StatusUploaded}:  true,
	{StatusRecording, StatusDuplicate}: true,
	{StatusRecording, StatusFailed}:    true,
	{StatusRecording, StatusCancelled}: true,
}

// ValidateTransition checks if a state transition is valid
func ValidateTransition(from, to TaskStatus) error {
	if !validTransitions[StateTransition{From: from, To: to}] {
		return fmt.Errorf("invalid state transition from %s to %s", from, to)
	}
	return nil
}

// IsTerminalStatus checks if a status is a sink: once entered, the task
// emits no further progress events and never transitions again.
func IsTerminalStatus(status TaskStatus) bool {
	switch status {
	case StatusUploaded, StatusDuplicate, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// outcomeForStatus maps a terminal status to the task outcome reported in
// batch results.
func outcomeForStatus(status TaskStatus) TaskOutcome {
	switch status {
	case StatusUploaded:
		return OutcomeUploaded
	case StatusDuplicate:
		return OutcomeDuplicate
	case StatusFailed:
		return OutcomeFailed
	case StatusCancelled:
		return OutcomeCancelled
	}
	return OutcomePending
}
