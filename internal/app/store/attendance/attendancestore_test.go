package attendancestore_test

import (
	"errors"
	"testing"
	"time"

	attendancestore "github.com/dalemusser/clubhub/internal/app/store/attendance"
	"github.com/dalemusser/clubhub/internal/app/store/refs"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := attendancestore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fx.CreateEvent(ctx, "Workshop", time.Now())
	m := fx.CreateMember(ctx, "Alice", "S1")

	a, err := store.Create(ctx, models.Attendance{EventID: ev.ID, MemberID: m.ID, Date: time.Now(), Status: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if a.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}

	got, err := store.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.EventID != ev.ID || got.MemberID != m.ID || !got.Status {
		t.Errorf("unexpected stored record: %+v", got)
	}
}

func TestStore_Create_UnknownReferences(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := attendancestore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fx.CreateEvent(ctx, "Workshop", time.Now())
	m := fx.CreateMember(ctx, "Alice", "S1")

	cases := []models.Attendance{
		{EventID: primitive.NewObjectID(), MemberID: m.ID, Date: time.Now()},
		{EventID: ev.ID, MemberID: primitive.NewObjectID(), Date: time.Now()},
	}
	for i, a := range cases {
		if _, err := store.Create(ctx, a); !errors.Is(err, refs.ErrUnknownReference) {
			t.Errorf("case %d: expected ErrUnknownReference, got %v", i, err)
		}
	}

	n, err := store.Count(ctx, attendancestore.Filter{})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected nothing written, found %d records", n)
	}
}

func TestStore_Find_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := attendancestore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e1 := fx.CreateEvent(ctx, "E1", time.Now())
	e2 := fx.CreateEvent(ctx, "E2", time.Now())
	m1 := fx.CreateMember(ctx, "M1", "S1")
	m2 := fx.CreateMember(ctx, "M2", "S2")
	fx.CreateAttendance(ctx, e1.ID, m1.ID)
	fx.CreateAttendance(ctx, e1.ID, m2.ID)
	fx.CreateAttendance(ctx, e2.ID, m1.ID)

	all, err := store.Find(ctx, attendancestore.Filter{})
	if err != nil || len(all) != 3 {
		t.Fatalf("Find(all): len=%d err=%v", len(all), err)
	}

	byEvent, err := store.Find(ctx, attendancestore.Filter{EventID: &e1.ID})
	if err != nil || len(byEvent) != 2 {
		t.Errorf("Find(event): len=%d err=%v", len(byEvent), err)
	}

	both, err := store.Find(ctx, attendancestore.Filter{EventID: &e2.ID, MemberID: &m1.ID})
	if err != nil || len(both) != 1 {
		t.Errorf("Find(event,member): len=%d err=%v", len(both), err)
	}

	none, err := store.Find(ctx, attendancestore.Filter{EventID: &e2.ID, MemberID: &m2.ID})
	if err != nil || len(none) != 0 {
		t.Errorf("Find(no match): len=%d err=%v", len(none), err)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := attendancestore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fx.CreateEvent(ctx, "E", time.Now())
	m := fx.CreateMember(ctx, "M", "S1")
	a := fx.CreateAttendance(ctx, ev.ID, m.ID)

	got, err := store.Update(ctx, a.ID, models.Attendance{EventID: ev.ID, MemberID: m.ID, Date: a.Date, Status: false})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Status {
		t.Error("expected status false after update")
	}

	_, err = store.Update(ctx, a.ID, models.Attendance{EventID: primitive.NewObjectID(), MemberID: m.ID, Date: a.Date})
	if !errors.Is(err, refs.ErrUnknownReference) {
		t.Errorf("expected ErrUnknownReference, got %v", err)
	}

	_, err = store.Update(ctx, primitive.NewObjectID(), models.Attendance{EventID: ev.ID, MemberID: m.ID, Date: a.Date})
	if !errors.Is(err, attendancestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_Delete_DoesNotCascade(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := attendancestore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev := fx.CreateEvent(ctx, "E", time.Now())
	m := fx.CreateMember(ctx, "M", "S1")
	a := fx.CreateAttendance(ctx, ev.ID, m.ID)

	if _, err := db.Collection("events").DeleteOne(ctx, bson.M{"_id": ev.ID}); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	if _, err := store.GetByID(ctx, a.ID); err != nil {
		t.Errorf("attendance should survive event delete: %v", err)
	}

	n, err := store.Delete(ctx, a.ID)
	if err != nil || n != 1 {
		t.Errorf("Delete: n=%d err=%v", n, err)
	}
}
