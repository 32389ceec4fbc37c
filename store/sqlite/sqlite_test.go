package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/punch-engine/anomaly"
	"github.com/warp/punch-engine/punch"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testPunch(id string, typ punch.Type, at time.Time) punch.Punch {
	return punch.Punch{
		ID:         punch.PunchID(id),
		EmployeeID: "emp-1",
		Type:       typ,
		Time:       at,
		WorkDate:   punch.WorkDateOf(at),
		Device:     punch.DeviceCard,
		Location:   "HQ",
		CreatedAt:  at,
	}
}

func TestAppendAndLoadWorkDay_RoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	at := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	want := testPunch("p-1", punch.TypeIn, at)
	require.NoError(t, store.Append(ctx, want))

	day, err := store.LoadWorkDay(ctx, "emp-1", punch.NewWorkDate(2025, time.March, 10))
	require.NoError(t, err)
	require.Len(t, day, 1)

	got := day[0]
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Type, got.Type)
	assert.True(t, want.Time.Equal(got.Time))
	assert.Equal(t, want.WorkDate, got.WorkDate)
	assert.Equal(t, want.Device, got.Device)
	assert.Equal(t, want.Location, got.Location)
}

func TestLoadWorkDay_OrderedByPunchTime(t *testing.T) {
	// Inserted out of order; reads must come back chronological.
	store := newStore(t)
	ctx := context.Background()
	base := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Append(ctx, testPunch("p-out", punch.TypeOut, base.Add(18*time.Hour))))
	require.NoError(t, store.Append(ctx, testPunch("p-in", punch.TypeIn, base.Add(9*time.Hour))))
	require.NoError(t, store.Append(ctx, testPunch("p-outside", punch.TypeOutside, base.Add(12*time.Hour))))

	day, err := store.LoadWorkDay(ctx, "emp-1", punch.NewWorkDate(2025, time.March, 10))
	require.NoError(t, err)
	require.Len(t, day, 3)
	assert.Equal(t, punch.PunchID("p-in"), day[0].ID)
	assert.Equal(t, punch.PunchID("p-outside"), day[1].ID)
	assert.Equal(t, punch.PunchID("p-out"), day[2].ID)
	assert.NoError(t, punch.VerifyOrder(day))
}

func TestLoadWorkDay_MixedOffsets_OrderedByInstant(t *testing.T) {
	// GIVEN: Punches submitted with different UTC offsets (mobile vs
	// terminal clocks) whose instants are 01:00Z and 02:00Z
	// THEN: Reads order by instant, not by the offset-carrying string
	store := newStore(t)
	ctx := context.Background()
	tokyo := time.FixedZone("JST", 9*3600)

	later := testPunch("p-out", punch.TypeOut, time.Date(2025, time.March, 10, 2, 0, 0, 0, time.UTC))
	later.WorkDate = punch.NewWorkDate(2025, time.March, 10)
	earlier := testPunch("p-in", punch.TypeIn, time.Date(2025, time.March, 10, 10, 0, 0, 0, tokyo)) // 01:00Z
	earlier.WorkDate = punch.NewWorkDate(2025, time.March, 10)

	require.NoError(t, store.Append(ctx, later))
	require.NoError(t, store.Append(ctx, earlier))

	day, err := store.LoadWorkDay(ctx, "emp-1", punch.NewWorkDate(2025, time.March, 10))
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, punch.PunchID("p-in"), day[0].ID)
	assert.Equal(t, punch.PunchID("p-out"), day[1].ID)
	assert.NoError(t, punch.VerifyOrder(day))
	assert.True(t, earlier.Time.Equal(day[0].Time), "the instant survives normalization")
}

func TestLoadWorkDay_IsolatedByEmployeeAndDate(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	at := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Append(ctx, testPunch("p-1", punch.TypeIn, at)))

	other := testPunch("p-2", punch.TypeIn, at)
	other.EmployeeID = "emp-2"
	require.NoError(t, store.Append(ctx, other))

	day, err := store.LoadWorkDay(ctx, "emp-1", punch.NewWorkDate(2025, time.March, 10))
	require.NoError(t, err)
	assert.Len(t, day, 1)

	empty, err := store.LoadWorkDay(ctx, "emp-1", punch.NewWorkDate(2025, time.March, 11))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAppend_SameInstantSameType_Duplicate(t *testing.T) {
	// The unique index is the concurrency backstop below the cooldown
	// gate: the exact same (employee, type, time) never lands twice.
	store := newStore(t)
	ctx := context.Background()
	at := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.Append(ctx, testPunch("p-1", punch.TypeIn, at)))

	err := store.Append(ctx, testPunch("p-2", punch.TypeIn, at))
	require.Error(t, err)
	assert.True(t, errors.Is(err, punch.ErrDuplicatePunch))

	// A different type at the same instant is a different punch.
	require.NoError(t, store.Append(ctx, testPunch("p-3", punch.TypeOutside, at)))
}

func TestBaseline_WindowedReads(t *testing.T) {
	// GIVEN: Samples inside and outside the 30-day window
	// THEN: LoadBaseline only surfaces the recent ones
	store := newStore(t)
	store.Now = func() time.Time {
		return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	}
	ctx := context.Background()

	recent := anomaly.Sample{Day: punch.NewWorkDate(2025, time.March, 1), Minute: 540, Location: "HQ"}
	stale := anomaly.Sample{Day: punch.NewWorkDate(2025, time.January, 5), Minute: 540, Location: "HQ"}
	require.NoError(t, store.RecordSample(ctx, "emp-1", punch.TypeIn, stale))
	require.NoError(t, store.RecordSample(ctx, "emp-1", punch.TypeIn, recent))

	b, err := store.LoadBaseline(ctx, "emp-1", punch.TypeIn)
	require.NoError(t, err)
	require.Equal(t, 1, b.Count())
	assert.Equal(t, recent.Day, b.Samples[0].Day)
	assert.Equal(t, recent.Minute, b.Samples[0].Minute)
	assert.Equal(t, "HQ", b.Samples[0].Location)
}

func TestBaseline_MissingHistory_EmptyNotError(t *testing.T) {
	store := newStore(t)

	b, err := store.LoadBaseline(context.Background(), "nobody", punch.TypeIn)
	require.NoError(t, err)
	assert.Equal(t, 0, b.Count())
	assert.Equal(t, punch.EmployeeID("nobody"), b.EmployeeID)
}

func TestRecordSample_PrunesStaleRows(t *testing.T) {
	store := newStore(t)
	store.Now = func() time.Time {
		return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	}
	ctx := context.Background()

	stale := anomaly.Sample{Day: punch.NewWorkDate(2025, time.January, 5), Minute: 540}
	require.NoError(t, store.RecordSample(ctx, "emp-1", punch.TypeIn, stale))
	require.NoError(t, store.RecordSample(ctx, "emp-1", punch.TypeIn,
		anomaly.Sample{Day: punch.NewWorkDate(2025, time.March, 1), Minute: 545}))

	var count int
	require.NoError(t, store.db.QueryRow(
		`SELECT COUNT(*) FROM baseline_samples WHERE employee_id = ?`, "emp-1").Scan(&count))
	assert.Equal(t, 1, count, "stale rows are pruned on write")
}
