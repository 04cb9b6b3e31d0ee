//go:build unit

// Package fake provides an in-memory UnitOfWork for command tests. Per-room
// advisory locks become per-room mutexes, so the serialization the commands
// rely on holds without a database.
package fake

import (
	"context"
	"sync"
	"time"

	"guesthouse-booking/internal/domain/booking"
	"guesthouse-booking/internal/domain/user"
	"guesthouse-booking/internal/infra"
	"guesthouse-booking/internal/infra/db"
	"guesthouse-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingRecord struct {
	ID              uuid.UUID
	RoomID          uuid.UUID
	UserID          uuid.UUID
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	Status          booking.Status
	TotalPriceCents int64
	Note            string
	CreatedAt       time.Time
}

type UoW struct {
	mu        sync.Mutex
	rooms     map[uuid.UUID]shared.RoomSnapshot
	users     map[string]shared.UserSnapshot
	bookings  map[uuid.UUID]BookingRecord
	roomLocks map[uuid.UUID]*sync.Mutex

	// AfterBookingRead, when set, runs after each write-side booking snapshot
	// read. Tests use it to interleave a competing transition between a
	// command's read and its status write. Set before issuing commands.
	AfterBookingRead func()
}

func NewUoW() *UoW {
	return &UoW{
		rooms:     make(map[uuid.UUID]shared.RoomSnapshot),
		users:     make(map[string]shared.UserSnapshot),
		bookings:  make(map[uuid.UUID]BookingRecord),
		roomLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

// Seeding helpers

func (u *UoW) AddRoom(snap shared.RoomSnapshot) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.rooms[snap.ID] = snap
}

func (u *UoW) AddUser(snap shared.UserSnapshot) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.users[snap.Email] = snap
}

func (u *UoW) AddBooking(rec BookingRecord) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.bookings[rec.ID] = rec
}

func (u *UoW) Booking(id uuid.UUID) (BookingRecord, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	rec, ok := u.bookings[id]
	return rec, ok
}

func (u *UoW) BookingCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.bookings)
}

// shared.UnitOfWork

func (u *UoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx := &fakeTx{uow: u}
	defer tx.releaseLocks()
	return fn(ctx, tx)
}

func (u *UoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *UoW) CommandReads() shared.CommandReads {
	return &fakeReads{uow: u}
}

func (u *UoW) lockForRoom(roomID uuid.UUID) *sync.Mutex {
	u.mu.Lock()
	defer u.mu.Unlock()
	lock, ok := u.roomLocks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		u.roomLocks[roomID] = lock
	}
	return lock
}

type fakeTx struct {
	uow    *UoW
	locked []*sync.Mutex
	held   map[uuid.UUID]bool
}

func (t *fakeTx) DB() db.DBTX                       { return nil }
func (t *fakeTx) Bookings() shared.BookingRepository { return &fakeBookingRepo{tx: t} }
func (t *fakeTx) Users() shared.UserRepository       { return &fakeUserRepo{tx: t} }
func (t *fakeTx) Reads() shared.CommandReads         { return &fakeReads{uow: t.uow} }

func (t *fakeTx) releaseLocks() {
	for _, l := range t.locked {
		l.Unlock()
	}
	t.locked = nil
	t.held = nil
}

type fakeBookingRepo struct {
	tx *fakeTx
}

func (r *fakeBookingRepo) LockRoom(_ context.Context, _ db.DBTX, roomID uuid.UUID) error {
	if r.tx.held == nil {
		r.tx.held = make(map[uuid.UUID]bool)
	}
	if r.tx.held[roomID] {
		return nil
	}
	lock := r.tx.uow.lockForRoom(roomID)
	lock.Lock()
	r.tx.locked = append(r.tx.locked, lock)
	r.tx.held[roomID] = true
	return nil
}

func (r *fakeBookingRepo) FindActiveOverlapping(_ context.Context, _ db.DBTX, roomID uuid.UUID, stay booking.StayPeriod, excludeID *uuid.UUID) ([]shared.BookingBlocker, error) {
	u := r.tx.uow
	u.mu.Lock()
	defer u.mu.Unlock()

	var blockers []shared.BookingBlocker
	for _, rec := range u.bookings {
		if rec.RoomID != roomID || !rec.Status.IsActive() {
			continue
		}
		if excludeID != nil && rec.ID == *excludeID {
			continue
		}
		other, err := booking.NewStayPeriod(rec.CheckIn, rec.CheckOut)
		if err != nil {
			continue
		}
		if stay.Overlaps(other) {
			blockers = append(blockers, shared.BookingBlocker{
				ID:       rec.ID,
				CheckIn:  rec.CheckIn,
				CheckOut: rec.CheckOut,
				Status:   rec.Status,
			})
		}
	}
	return blockers, nil
}

func (r *fakeBookingRepo) Create(_ context.Context, _ db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	u := r.tx.uow
	u.mu.Lock()
	defer u.mu.Unlock()

	// Mirrors the exclusion constraint: an active overlap rejects the insert.
	for _, rec := range u.bookings {
		if rec.RoomID != b.RoomID() || !rec.Status.IsActive() {
			continue
		}
		other, err := booking.NewStayPeriod(rec.CheckIn, rec.CheckOut)
		if err != nil {
			continue
		}
		if b.Stay().Overlaps(other) {
			return uuid.Nil, infra.WrapRepoErr("overlapping booking", nil, infra.KindConflict)
		}
	}

	u.bookings[b.ID()] = BookingRecord{
		ID:              b.ID(),
		RoomID:          b.RoomID(),
		UserID:          b.UserID(),
		CheckIn:         b.Stay().CheckIn(),
		CheckOut:        b.Stay().CheckOut(),
		Guests:          b.Guests(),
		Status:          b.Status(),
		TotalPriceCents: b.TotalPrice().Cents(),
		Note:            b.Note().String(),
		CreatedAt:       b.CreatedAt(),
	}
	return b.ID(), nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, _ db.DBTX, id uuid.UUID, from, to booking.Status) error {
	u := r.tx.uow
	u.mu.Lock()
	defer u.mu.Unlock()

	rec, ok := u.bookings[id]
	if !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	if rec.Status != from {
		return infra.WrapRepoErr("booking status changed concurrently", nil, infra.KindConflict)
	}
	rec.Status = to
	u.bookings[id] = rec
	return nil
}

type fakeUserRepo struct {
	tx *fakeTx
}

func (r *fakeUserRepo) Create(_ context.Context, _ db.DBTX, usr *user.User) (uuid.UUID, error) {
	u := r.tx.uow
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, exists := u.users[usr.Email().Value()]; exists {
		return uuid.Nil, infra.WrapRepoErr("email taken", nil, infra.KindDuplicateKey)
	}

	u.users[usr.Email().Value()] = shared.UserSnapshot{
		ID:           usr.ID(),
		Email:        usr.Email().Value(),
		PasswordHash: usr.PasswordHash(),
		Role:         usr.Role().String(),
		IsActive:     usr.IsActive(),
	}
	return usr.ID(), nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, _ db.DBTX, _ uuid.UUID) error {
	return nil
}

type fakeReads struct {
	uow *UoW
}

func (f *fakeReads) RoomByID(_ context.Context, id uuid.UUID) (*shared.RoomSnapshot, error) {
	f.uow.mu.Lock()
	defer f.uow.mu.Unlock()
	snap, ok := f.uow.rooms[id]
	if !ok {
		return nil, infra.WrapRepoErr("room not found", nil, infra.KindNotFound)
	}
	return &snap, nil
}

func (f *fakeReads) BookingByID(_ context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	f.uow.mu.Lock()
	rec, ok := f.uow.bookings[id]
	f.uow.mu.Unlock()
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}

	if f.uow.AfterBookingRead != nil {
		f.uow.AfterBookingRead()
	}

	return &shared.BookingSnapshot{
		ID:        rec.ID,
		RoomID:    rec.RoomID,
		UserID:    rec.UserID,
		CheckIn:   rec.CheckIn,
		CheckOut:  rec.CheckOut,
		Guests:    rec.Guests,
		Status:    rec.Status,
		CreatedAt: rec.CreatedAt,
	}, nil
}

func (f *fakeReads) UserByEmail(_ context.Context, email string) (*shared.UserSnapshot, error) {
	f.uow.mu.Lock()
	defer f.uow.mu.Unlock()
	snap, ok := f.uow.users[email]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return &snap, nil
}
