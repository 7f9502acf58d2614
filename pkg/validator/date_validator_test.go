package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestISODateValidator(t *testing.T) {
	v := NewISODateValidator()

	tests := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{name: "valid date", date: "2020-07-14", wantErr: false},
		{name: "earliest apod date", date: "1995-06-16", wantErr: false},
		{name: "empty", date: "", wantErr: true},
		{name: "slashes", date: "2020/07/14", wantErr: true},
		{name: "missing day", date: "2020-07", wantErr: true},
		{name: "two digit year", date: "20-07-14", wantErr: true},
		{name: "trailing text", date: "2020-07-14x", wantErr: true},
		{name: "month out of range", date: "2020-13-01", wantErr: true},
		{name: "day out of range", date: "2020-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.date)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
