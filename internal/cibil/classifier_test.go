package cibil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		code string
		want Bucket
	}{
		{"STD", BucketOnTime},
		{"0", BucketOnTime},
		{"000", BucketOnTime},
		{"XXX", BucketExcluded},
		{"1", BucketDays1to30},
		{"30", BucketDays1to30},
		{"31", BucketDays31to60},
		{"60", BucketDays31to60},
		{"61", BucketDays61to90},
		{"90", BucketDays61to90},
		{"91", BucketDays90Plus},
		{"120", BucketDays90Plus},
		{"-5", BucketOnTime},
		{"90+", BucketExcluded},
		{"", BucketExcluded},
		{"LSS", BucketExcluded},
		{"std", BucketExcluded}, // case-sensitive vocabulary
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.code))
			// deterministic on repeat calls
			assert.Equal(t, tt.want, Classify(tt.code))
		})
	}
}
