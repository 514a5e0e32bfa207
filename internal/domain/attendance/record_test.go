package attendance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var (
	day      = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	nineAM   = day.Add(9 * time.Hour)
	deadline = nineAM.Add(15 * time.Minute)
)

func startTestDay(t *testing.T, checkIn time.Time) *Record {
	t.Helper()
	rec, err := StartDay(uuid.New(), uuid.New(), day, checkIn, deadline, SourceWeb, "HQ")
	assert.NoError(t, err)
	return rec
}

func TestStartDay(t *testing.T) {
	t.Run("on-time check-in is present", func(t *testing.T) {
		rec := startTestDay(t, nineAM)
		assert.Equal(t, StatusPresent, rec.Status)
		assert.True(t, rec.IsOpen())
		assert.False(t, rec.IsOnBreak())
		assert.Len(t, rec.GetDomainEvents(), 1)
	})

	t.Run("check-in past deadline is late", func(t *testing.T) {
		rec := startTestDay(t, deadline.Add(time.Minute))
		assert.Equal(t, StatusLate, rec.Status)
	})

	t.Run("rejects missing user and bad source", func(t *testing.T) {
		_, err := StartDay(uuid.New(), uuid.Nil, day, nineAM, deadline, SourceWeb, "")
		assert.Error(t, err)

		_, err = StartDay(uuid.New(), uuid.New(), day, nineAM, deadline, Source("carrier-pigeon"), "")
		assert.Error(t, err)
	})
}

func TestRecord_BreakCycle(t *testing.T) {
	rec := startTestDay(t, nineAM)

	t.Run("work accumulates up to the break", func(t *testing.T) {
		err := rec.StartBreak(nineAM.Add(2 * time.Hour))
		assert.NoError(t, err)
		assert.Equal(t, 2*3600, rec.WorkSeconds)
		assert.True(t, rec.IsOnBreak())
	})

	t.Run("double break rejected", func(t *testing.T) {
		err := rec.StartBreak(nineAM.Add(3 * time.Hour))
		assert.Error(t, err)
	})

	t.Run("break accumulates on resume", func(t *testing.T) {
		err := rec.EndBreak(nineAM.Add(2*time.Hour + 30*time.Minute))
		assert.NoError(t, err)
		assert.Equal(t, 30*60, rec.BreakSeconds)
		assert.False(t, rec.IsOnBreak())
	})

	t.Run("end break without break rejected", func(t *testing.T) {
		err := rec.EndBreak(nineAM.Add(3 * time.Hour))
		assert.Error(t, err)
	})
}

func TestRecord_EndDay(t *testing.T) {
	fullDay := 8 * 3600

	t.Run("full day stays present", func(t *testing.T) {
		rec := startTestDay(t, nineAM)
		err := rec.EndDay(nineAM.Add(8*time.Hour), fullDay)
		assert.NoError(t, err)
		assert.False(t, rec.IsOpen())
		assert.Equal(t, 8*3600, rec.WorkSeconds)
		assert.Equal(t, StatusPresent, rec.Status)
	})

	t.Run("short day becomes half day", func(t *testing.T) {
		rec := startTestDay(t, nineAM)
		err := rec.EndDay(nineAM.Add(3*time.Hour), fullDay)
		assert.NoError(t, err)
		assert.Equal(t, StatusHalfDay, rec.Status)
	})

	t.Run("end day closes an open break", func(t *testing.T) {
		rec := startTestDay(t, nineAM)
		_ = rec.StartBreak(nineAM.Add(4 * time.Hour))
		err := rec.EndDay(nineAM.Add(5*time.Hour), fullDay)
		assert.NoError(t, err)
		assert.Equal(t, 4*3600, rec.WorkSeconds)
		assert.Equal(t, 3600, rec.BreakSeconds)
		assert.False(t, rec.IsOnBreak())
	})

	t.Run("double end rejected", func(t *testing.T) {
		rec := startTestDay(t, nineAM)
		_ = rec.EndDay(nineAM.Add(8*time.Hour), fullDay)
		err := rec.EndDay(nineAM.Add(9*time.Hour), fullDay)
		assert.Error(t, err)
	})

	t.Run("remote marking survives checkout", func(t *testing.T) {
		rec := startTestDay(t, nineAM)
		assert.NoError(t, rec.MarkRemote())
		_ = rec.EndDay(nineAM.Add(2*time.Hour), fullDay)
		assert.Equal(t, StatusRemote, rec.Status)
	})
}

func TestRecord_LiveTotals(t *testing.T) {
	rec := startTestDay(t, nineAM)

	work, brk := rec.LiveTotals(nineAM.Add(90 * time.Minute))
	assert.Equal(t, 90*60, work)
	assert.Equal(t, 0, brk)

	_ = rec.StartBreak(nineAM.Add(2 * time.Hour))
	work, brk = rec.LiveTotals(nineAM.Add(2*time.Hour + 10*time.Minute))
	assert.Equal(t, 2*3600, work)
	assert.Equal(t, 10*60, brk)

	_ = rec.EndDay(nineAM.Add(3*time.Hour), 8*3600)
	work, brk = rec.LiveTotals(nineAM.Add(10 * time.Hour))
	assert.Equal(t, rec.WorkSeconds, work)
	assert.Equal(t, rec.BreakSeconds, brk)
}

func TestRecord_Corrections(t *testing.T) {
	t.Run("manual record", func(t *testing.T) {
		rec, err := NewManualRecord(uuid.New(), uuid.New(), day, StatusHoliday, 0, 0)
		assert.NoError(t, err)
		assert.Equal(t, SourceManual, rec.Source)
		assert.False(t, rec.IsOpen())

		_, err = NewManualRecord(uuid.New(), uuid.New(), day, StatusPresent, -1, 0)
		assert.Error(t, err)
	})

	t.Run("correct an open record closes it", func(t *testing.T) {
		rec := startTestDay(t, nineAM)
		err := rec.Correct(StatusAbsent, 0, 0)
		assert.NoError(t, err)
		assert.False(t, rec.IsOpen())
		assert.Equal(t, StatusAbsent, rec.Status)
		assert.Equal(t, SourceManual, rec.Source)
	})
}
