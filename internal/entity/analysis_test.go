package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisStatus(t *testing.T) {
	tests := []struct {
		status   AnalysisStatus
		valid    bool
		terminal bool
	}{
		{StatusPending, true, false},
		{StatusProcessing, true, false},
		{StatusCompleted, true, true},
		{StatusError, true, true},
		{AnalysisStatus("in_progress"), false, false},
		{AnalysisStatus(""), false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.Valid())
			assert.Equal(t, tt.terminal, tt.status.Terminal())
		})
	}
}
