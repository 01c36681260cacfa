package recordstore

import (
	"context"
	"errors"
	"testing"

	. "github.com/fulldump/biff"

	"github.com/fulldump/calorietracker/kvstore"
)

func newTestStore() (*Store, *kvstore.Memory) {
	kv := kvstore.NewMemory()
	return New(kv, ""), kv
}

func TestLoad_Absent(t *testing.T) {

	s, _ := newTestStore()

	records, err := s.Load(context.Background())
	AssertNil(err)
	AssertNotNil(records)
	AssertEqual(len(records), 0)
	AssertEqual(s.Key(), DefaultKey)
}

func TestLoad_Malformed(t *testing.T) {

	ctx := context.Background()
	s, kv := newTestStore()
	kv.Set(ctx, DefaultKey, `[{"id":0,"name":"rice"`)

	_, err := s.Load(ctx)
	AssertTrue(errors.Is(err, ErrMalformed))
}

func TestLoad_NullRecord(t *testing.T) {

	ctx := context.Background()
	s, kv := newTestStore()
	kv.Set(ctx, DefaultKey, `[null]`)

	_, err := s.Load(ctx)
	AssertTrue(errors.Is(err, ErrMalformed))
}

func TestLoad_Null(t *testing.T) {

	ctx := context.Background()
	s, kv := newTestStore()
	kv.Set(ctx, DefaultKey, `null`)

	records, err := s.Load(ctx)
	AssertNil(err)
	AssertEqual(len(records), 0)
}

func TestSaveReplaceAll_RoundTrip(t *testing.T) {

	ctx := context.Background()
	s, kv := newTestStore()

	records := []*Record{
		{ID: 3, Name: "beans", Calories: 110},
		{ID: 1, Name: "rice", Calories: 100},
		{ID: 7, Name: "água", Calories: 0},
	}
	AssertNil(s.SaveReplaceAll(ctx, records))

	loaded, err := s.Load(ctx)
	AssertNil(err)
	AssertEqual(loaded, records)

	value, _, _ := kv.Get(ctx, DefaultKey)
	AssertEqual(value, `[{"id":3,"name":"beans","calories":110},{"id":1,"name":"rice","calories":100},{"id":7,"name":"água","calories":0}]`)
}

func TestSaveReplaceAll_Empty(t *testing.T) {

	ctx := context.Background()
	s, kv := newTestStore()

	AssertNil(s.SaveReplaceAll(ctx, nil))

	value, ok, _ := kv.Get(ctx, DefaultKey)
	AssertTrue(ok)
	AssertEqual(value, `[]`)
}

func TestSaveAppend(t *testing.T) {

	ctx := context.Background()
	s, _ := newTestStore()

	AssertNil(s.SaveAppend(ctx, &Record{ID: 0, Name: "rice", Calories: 100}))
	AssertNil(s.SaveAppend(ctx, &Record{ID: 0, Name: "rice again", Calories: 100})) // no uniqueness check

	loaded, err := s.Load(ctx)
	AssertNil(err)
	AssertEqual(len(loaded), 2)
	AssertEqual(loaded[1].Name, "rice again")
}

func TestSaveAppend_Malformed(t *testing.T) {

	ctx := context.Background()
	s, kv := newTestStore()
	kv.Set(ctx, DefaultKey, `{}`)

	err := s.SaveAppend(ctx, &Record{ID: 0, Name: "rice", Calories: 100})
	AssertTrue(errors.Is(err, ErrMalformed))

	value, _, _ := kv.Get(ctx, DefaultKey)
	AssertEqual(value, `{}`)
}

func TestClear(t *testing.T) {

	ctx := context.Background()
	s, kv := newTestStore()
	s.SaveAppend(ctx, &Record{ID: 0, Name: "rice", Calories: 100})

	AssertNil(s.Clear(ctx))

	_, ok, _ := kv.Get(ctx, DefaultKey)
	AssertFalse(ok)

	loaded, err := s.Load(ctx)
	AssertNil(err)
	AssertEqual(len(loaded), 0)

	AssertNil(s.Clear(ctx))
}

func TestCustomKey(t *testing.T) {

	ctx := context.Background()
	kv := kvstore.NewMemory()
	s := New(kv, "breakfast")

	s.SaveAppend(ctx, &Record{ID: 0, Name: "eggs", Calories: 150})

	AssertEqual(kv.Keys(), []string{"breakfast"})
}

func TestStoreErrors(t *testing.T) {

	ctx := context.Background()
	kv := kvstore.NewMemory()
	s := New(kv, "")
	kv.Close()

	_, err := s.Load(ctx)
	AssertTrue(errors.Is(err, kvstore.ErrClosed))
	AssertTrue(errors.Is(s.SaveReplaceAll(ctx, nil), kvstore.ErrClosed))
	AssertTrue(errors.Is(s.Clear(ctx), kvstore.ErrClosed))
}
