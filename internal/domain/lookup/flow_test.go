package lookup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pet-tag-lookup/internal/domain/pets"
	"pet-tag-lookup/internal/domain/scans"
	"pet-tag-lookup/internal/domain/tags"
	"pet-tag-lookup/internal/ports/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	results map[string]tags.LookupResult
	err     error
}

func (s stubResolver) Resolve(ctx context.Context, id string) (tags.LookupResult, error) {
	if s.err != nil {
		return tags.LookupResult{}, s.err
	}
	if res, ok := s.results[id]; ok {
		return res, nil
	}
	return tags.Invalid(), nil
}

type recorder struct {
	mu    sync.Mutex
	items []scans.RecordInput
	err   error
}

func (r *recorder) Record(ctx context.Context, in scans.RecordInput) (scans.ScanEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, in)
	if r.err != nil {
		return scans.ScanEvent{}, r.err
	}
	return scans.ScanEvent{PetID: in.PetID, LocationStatus: in.Status}, nil
}

func (r *recorder) recorded() []scans.RecordInput {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]scans.RecordInput(nil), r.items...)
}

func rexResolver() stubResolver {
	return stubResolver{results: map[string]tags.LookupResult{
		"PET-100": tags.Found(pets.Pet{ID: "PET-100", OwnerID: "uidA", Name: "Rex"}),
		"PET-101": tags.Unclaimed("PET-101"),
	}}
}

func newTestFlow(res Resolver, rec ScanRecorder, timeout time.Duration) *Flow {
	return NewFlow(res, rec, Options{LocationTimeout: timeout, WriteTimeout: time.Second})
}

func TestFlow_CompleteWritesExactlyOnce(t *testing.T) {
	rec := &recorder{}
	f := newTestFlow(rexResolver(), rec, time.Minute)

	page, err := f.Lookup(context.Background(), "PET-100", Visit{UserAgent: "test-agent"})
	require.NoError(t, err)
	require.Equal(t, tags.OutcomeFound, page.Result.Outcome)
	require.NotEmpty(t, page.ScanToken)
	assert.Equal(t, 1, f.Pending())

	loc := &scans.Location{Lat: -33.45, Lng: -70.66}
	require.NoError(t, f.Complete("pet-100", page.ScanToken, scans.LocationObtained, loc))

	err = f.Complete("PET-100", page.ScanToken, scans.LocationDenied, nil)
	assert.ErrorIs(t, err, ErrUnknownScan)

	require.NoError(t, f.Close(context.Background()))

	got := rec.recorded()
	require.Len(t, got, 1)
	assert.Equal(t, "PET-100", got[0].PetID)
	assert.Equal(t, "uidA", got[0].OwnerID)
	assert.Equal(t, scans.LocationObtained, got[0].Status)
	assert.Equal(t, "test-agent", got[0].UserAgent)
	require.NotNil(t, got[0].Location)
	assert.Equal(t, -70.66, got[0].Location.Lng)
}

func TestFlow_DeniedHasNoLocation(t *testing.T) {
	rec := &recorder{}
	f := newTestFlow(rexResolver(), rec, time.Minute)

	page, err := f.Lookup(context.Background(), "PET-100", Visit{})
	require.NoError(t, err)
	require.NoError(t, f.Complete("PET-100", page.ScanToken, scans.LocationDenied, nil))
	require.NoError(t, f.Close(context.Background()))

	got := rec.recorded()
	require.Len(t, got, 1)
	assert.Equal(t, scans.LocationDenied, got[0].Status)
}

func TestFlow_FullPendingRecordsImmediately(t *testing.T) {
	rec := &recorder{}
	f := NewFlow(rexResolver(), rec, Options{LocationTimeout: time.Minute, MaxPending: 1})

	first, err := f.Lookup(context.Background(), "PET-100", Visit{})
	require.NoError(t, err)
	require.NotEmpty(t, first.ScanToken)

	second, err := f.Lookup(context.Background(), "PET-100", Visit{UserAgent: "overflow"})
	require.NoError(t, err)
	assert.Equal(t, tags.OutcomeFound, second.Result.Outcome)
	assert.Empty(t, second.ScanToken)
	assert.Equal(t, 1, f.Pending())

	// la segunda carga ya quedó registrada, sin esperar geolocalización
	require.Eventually(t, func() bool { return len(rec.recorded()) == 1 }, 2*time.Second, 5*time.Millisecond)
	got := rec.recorded()[0]
	assert.Equal(t, "overflow", got.UserAgent)
	assert.Equal(t, scans.LocationUnavailable, got.Status)

	require.NoError(t, f.Close(context.Background()))
	assert.Len(t, rec.recorded(), 2)
}

func TestFlow_TimeoutRecordsUnavailable(t *testing.T) {
	rec := &recorder{}
	f := newTestFlow(rexResolver(), rec, 20*time.Millisecond)

	page, err := f.Lookup(context.Background(), "PET-100", Visit{})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(rec.recorded()) == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, scans.LocationUnavailable, rec.recorded()[0].Status)
	assert.Equal(t, 0, f.Pending())

	// llegó tarde: no hay segundo escaneo
	err = f.Complete("PET-100", page.ScanToken, scans.LocationObtained, &scans.Location{Lat: 1, Lng: 1})
	assert.ErrorIs(t, err, ErrUnknownScan)

	require.NoError(t, f.Close(context.Background()))
	assert.Len(t, rec.recorded(), 1)
}

func TestFlow_CloseFlushesPending(t *testing.T) {
	rec := &recorder{}
	f := newTestFlow(rexResolver(), rec, time.Hour)

	for i := 0; i < 3; i++ {
		_, err := f.Lookup(context.Background(), "PET-100", Visit{})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, f.Pending())

	require.NoError(t, f.Close(context.Background()))

	got := rec.recorded()
	require.Len(t, got, 3)
	for _, in := range got {
		assert.Equal(t, scans.LocationUnavailable, in.Status)
		assert.Nil(t, in.Location)
	}

	// después de cerrar no se registran escaneos nuevos
	page, err := f.Lookup(context.Background(), "PET-100", Visit{})
	require.NoError(t, err)
	assert.Empty(t, page.ScanToken)
	assert.Equal(t, 0, f.Pending())
}

func TestFlow_NonFoundOutcomesDoNotScan(t *testing.T) {
	rec := &recorder{}
	f := newTestFlow(rexResolver(), rec, time.Hour)

	page, err := f.Lookup(context.Background(), "PET-101", Visit{})
	require.NoError(t, err)
	assert.Equal(t, tags.OutcomeUnclaimed, page.Result.Outcome)
	assert.Empty(t, page.ScanToken)

	page, err = f.Lookup(context.Background(), "ZZZ-999", Visit{})
	require.NoError(t, err)
	assert.Equal(t, tags.OutcomeInvalid, page.Result.Outcome)
	assert.Empty(t, page.ScanToken)

	require.NoError(t, f.Close(context.Background()))
	assert.Empty(t, rec.recorded())
}

func TestFlow_StoreErrorIsReturned(t *testing.T) {
	rec := &recorder{}
	f := newTestFlow(stubResolver{err: storage.Unavailable("pets.get", errors.New("down"))}, rec, time.Hour)

	_, err := f.Lookup(context.Background(), "PET-100", Visit{})
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	assert.Equal(t, 0, f.Pending())
}

func TestFlow_CompleteRejectsOtherPetAndBadInput(t *testing.T) {
	rec := &recorder{}
	f := newTestFlow(rexResolver(), rec, time.Hour)

	page, err := f.Lookup(context.Background(), "PET-100", Visit{})
	require.NoError(t, err)

	err = f.Complete("PET-999", page.ScanToken, scans.LocationDenied, nil)
	assert.ErrorIs(t, err, ErrUnknownScan)

	err = f.Complete("PET-100", page.ScanToken, scans.LocationObtained, &scans.Location{Lat: 200})
	assert.ErrorIs(t, err, scans.ErrInvalidInput)

	err = f.Complete("PET-100", page.ScanToken, "sideways", nil)
	assert.ErrorIs(t, err, scans.ErrInvalidInput)

	// sigue pendiente: el token no se consumió
	assert.Equal(t, 1, f.Pending())
	require.NoError(t, f.Complete("PET-100", page.ScanToken, scans.LocationUnavailable, nil))
	require.NoError(t, f.Close(context.Background()))
	assert.Len(t, rec.recorded(), 1)
}

func TestFlow_WriteFailureIsDropped(t *testing.T) {
	rec := &recorder{err: storage.Unavailable("scans.append", errors.New("down"))}
	f := newTestFlow(rexResolver(), rec, time.Hour)

	page, err := f.Lookup(context.Background(), "PET-100", Visit{})
	require.NoError(t, err)
	require.NoError(t, f.Complete("PET-100", page.ScanToken, scans.LocationDenied, nil))
	require.NoError(t, f.Close(context.Background()))

	assert.Len(t, rec.recorded(), 1)
}
