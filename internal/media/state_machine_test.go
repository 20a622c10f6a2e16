package media

import "testing"

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    TaskStatus
		to      TaskStatus
		wantErr bool
	}{
		{"hashing to probing", StatusHashing, StatusProbing, false},
		{"probing to transferring", StatusProbing, StatusTransferring, false},
		{"probing to deduplicating", StatusProbing, StatusDeduplicating, false},
		{"probing to failed", StatusProbing, StatusFailed, false},
		{"transferring to recording", StatusTransferring, StatusRecording, false},
		{"deduplicating to recording", StatusDeduplicating, StatusRecording, false},
		{"recording to uploaded", StatusRecording, StatusUploaded, false},
		{"recording to duplicate", StatusRecording, StatusDuplicate, false},
		{"recording to cancelled", StatusRecording, StatusCancelled, false},
		{"transferring to cancelled", StatusTransferring, StatusCancelled, false},
		{"deduplicating to failed", StatusDeduplicating, StatusFailed, false},
		{"deduplicating to cancelled", StatusDeduplicating, StatusCancelled, false},

		{"hashing skips probing", StatusHashing, StatusTransferring, true},
		{"probing straight to uploaded", StatusProbing, StatusUploaded, true},
		{"deduplicating to transferring", StatusDeduplicating, StatusTransferring, true},
		{"out of uploaded", StatusUploaded, StatusProbing, true},
		{"out of failed", StatusFailed, StatusHashing, true},
		{"out of cancelled", StatusCancelled, StatusProbing, true},
		{"backwards", StatusRecording, StatusTransferring, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTransition(%s, %s) error = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
			}
		})
	}
}

func TestIsTerminalStatus(t *testing.T) {
	terminal := []TaskStatus{StatusUploaded, StatusDuplicate, StatusFailed, StatusCancelled}
	for _, s := range terminal {
		if !IsTerminalStatus(s) {
			t.Errorf("IsTerminalStatus(%s) = false, want true", s)
		}
	}

	active := []TaskStatus{StatusHashing, StatusProbing, StatusTransferring, StatusDeduplicating, StatusRecording}
	for _, s := range active {
		if IsTerminalStatus(s) {
			t.Errorf("IsTerminalStatus(%s) = true, want false", s)
		}
	}
}

func TestOutcomeForStatus(t *testing.T) {
	tests := []struct {
		status TaskStatus
		want   TaskOutcome
	}{
		{StatusUploaded, OutcomeUploaded},
		{StatusDuplicate, OutcomeDuplicate},
		{StatusFailed, OutcomeFailed},
		{StatusCancelled, OutcomeCancelled},
		{StatusProbing, OutcomePending},
	}

	for _, tt := range tests {
		if got := outcomeForStatus(tt.status); got != tt.want {
			t.Errorf("outcomeForStatus(%s) = %s, want %s", tt.status, got, tt.want)
		}
	}
}
