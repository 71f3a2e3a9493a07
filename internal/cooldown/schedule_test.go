package cooldown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleValidate(t *testing.T) {
	tests := []struct {
		name     string
		schedule Schedule
		wantErr  bool
	}{
		{
			name:     "default schedule is valid",
			schedule: DefaultSchedule(),
		},
		{
			name:     "no tiers",
			schedule: Schedule{DailyCap: 5},
			wantErr:  true,
		},
		{
			name:     "zero daily cap",
			schedule: Schedule{Waits: []time.Duration{time.Second}},
			wantErr:  true,
		},
		{
			name: "decreasing waits",
			schedule: Schedule{
				Waits:    []time.Duration{2 * time.Minute, 30 * time.Second},
				DailyCap: 5,
			},
			wantErr: true,
		},
		{
			name: "equal consecutive waits allowed",
			schedule: Schedule{
				Waits:    []time.Duration{time.Minute, time.Minute, 2 * time.Minute},
				DailyCap: 3,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schedule.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScheduleWaitFor(t *testing.T) {
	s := DefaultSchedule()

	assert.Equal(t, 30*time.Second, s.WaitFor(1))
	assert.Equal(t, 2*time.Minute, s.WaitFor(2))
	assert.Equal(t, 5*time.Minute, s.WaitFor(3))
	assert.Equal(t, 10*time.Minute, s.WaitFor(4))

	// Ordinals past the last tier reuse it.
	assert.Equal(t, 10*time.Minute, s.WaitFor(5))
	assert.Equal(t, 10*time.Minute, s.WaitFor(100))

	assert.Equal(t, time.Duration(0), s.WaitFor(0))
}

func TestReadable(t *testing.T) {
	assert.Equal(t, "0 seconds", Readable(0))
	assert.Equal(t, "1 second", Readable(time.Second))
	assert.Equal(t, "30 seconds", Readable(30*time.Second))
	assert.Equal(t, "1 minute", Readable(time.Minute))
	assert.Equal(t, "2 minutes 30 seconds", Readable(2*time.Minute+30*time.Second))

	// Partial seconds round up, never down.
	assert.Equal(t, "2 seconds", Readable(1500*time.Millisecond))
}
